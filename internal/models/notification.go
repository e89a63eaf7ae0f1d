package models

import "time"

type NotificationKind string

const (
	NotificationLowStock   NotificationKind = "low_stock"
	NotificationOutOfStock NotificationKind = "out_of_stock"
	NotificationTaskDue    NotificationKind = "task_due"
)

// Notification: written by the stock/task monitor, shown as a dismissible
// notice. RefKey dedupes repeated findings (batch SKU or "task:<id>").
type Notification struct {
	ID      uint             `gorm:"primaryKey"`
	Kind    NotificationKind `gorm:"size:20;index;not null"`
	RefKey  string           `gorm:"size:40;index;not null"`
	Message string           `gorm:"size:255;not null"`
	Read    bool             `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
