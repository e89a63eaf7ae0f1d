package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleChannel string

const (
	ChannelFarmGate SaleChannel = "farm_gate"
	ChannelMarket   SaleChannel = "market"
	ChannelWebsite  SaleChannel = "website"
	ChannelWhatsApp SaleChannel = "whatsapp"
)

// SaleRecord: one transaction against one inventory batch. Creating a sale
// decrements the batch quantity.
type SaleRecord struct {
	ID               uint           `gorm:"primaryKey"`
	InventoryBatchID uint           `gorm:"index;not null"`
	Batch            InventoryBatch `gorm:"foreignKey:InventoryBatchID"`

	// Denormalized from the batch at insert time so report joins survive a
	// batch rename or deletion.
	SKU string `gorm:"size:30;index;not null"`

	CustomerID *uint `gorm:"index"`
	Customer   *Customer

	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"` // price at the moment of sale
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	SaleDate time.Time   `gorm:"index;not null"`
	Channel  SaleChannel `gorm:"size:20;not null;default:'farm_gate'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
