package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypePlant      ItemType = "plant"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeHoney      ItemType = "honey"
)

// InventoryBatch: one produced or purchased lot of a single item, tracked by a
// unique SKU. Batches are never merged; a re-stock of the same plant is a new
// row with its own SKU and cost basis.
type InventoryBatch struct {
	ID       uint     `gorm:"primaryKey"`
	SKU      string   `gorm:"size:30;uniqueIndex;not null"`
	Name     string   `gorm:"size:100;not null"`
	Category string   `gorm:"size:50;index"`
	Unit     string   `gorm:"size:20;not null"` // seedling, bag, jar ...
	ItemType ItemType `gorm:"size:20;index;not null"`

	Quantity        int `gorm:"not null"` // units currently in stock, never negative
	InitialQuantity int `gorm:"not null"` // quantity when the batch was created

	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"` // selling price per unit
	BatchCost decimal.Decimal `gorm:"type:decimal(12,2);not null"` // originating cost, zero for pure consumables

	// Amortized (batch cost + allocated task costs) / current quantity. Stored
	// for display, recomputed whenever quantity or batch cost changes.
	CostPerUnit decimal.Decimal `gorm:"type:decimal(12,4);not null"`

	ReadyForSale bool   `gorm:"not null;default:false"` // gates the public product listing
	Description  string `gorm:"size:500"`
	ImagePath    string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
