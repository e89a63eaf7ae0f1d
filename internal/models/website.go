package models

import "time"

// Story: an impact story shown on the public website.
type Story struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:150;not null"`
	Slug      string `gorm:"size:160;uniqueIndex;not null"`
	Body      string `gorm:"type:text;not null"`
	ImagePath string `gorm:"size:255"`
	Published bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GreenTown: a town greening project with a photo gallery.
type GreenTown struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Region       string `gorm:"size:100"`
	Description  string `gorm:"size:1000"`
	TreesPlanted int    `gorm:"not null;default:0"`

	Photos []GreenTownPhoto

	CreatedAt time.Time
	UpdatedAt time.Time
}

type GreenTownPhoto struct {
	ID          uint   `gorm:"primaryKey"`
	GreenTownID uint   `gorm:"index;not null"`
	Caption     string `gorm:"size:255"`
	ImagePath   string `gorm:"size:255;not null"`
	CreatedAt   time.Time
}
