package models

import "time"

type Customer struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null"`
	Contact string `gorm:"size:30"` // phone number, used for WhatsApp deep links
	Email   string `gorm:"size:100"`
	Town    string `gorm:"size:100"`
	Notes   string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
