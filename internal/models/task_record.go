package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskRecord: a logged unit of labor and material consumption, optionally
// allocated against one inventory batch. Immutable once created apart from the
// completed flag.
type TaskRecord struct {
	ID          uint    `gorm:"primaryKey"`
	BatchSKU    *string `gorm:"size:30;index"` // nil for general farm work
	Description string  `gorm:"size:255;not null"`

	LaborHours decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	LaborRate  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LaborCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"` // hours x rate, derived

	ConsumablesCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TaskDate  time.Time  `gorm:"index;not null"`
	DueDate   *time.Time `gorm:"index"`
	Completed bool       `gorm:"not null;default:false"`

	Consumables []TaskConsumable

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskConsumable: one consumable drawn down by a task. Child rows are inserted
// after the parent; a failed child leaves the parent in place.
type TaskConsumable struct {
	ID            uint   `gorm:"primaryKey"`
	TaskRecordID  uint   `gorm:"index;not null"`
	ConsumableSKU string `gorm:"size:30;not null"`

	QuantityUsed int             `gorm:"not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineCost     decimal.Decimal `gorm:"type:decimal(12,2);not null"` // quantity x unit cost

	CreatedAt time.Time
}
