package database

import (
	"nursery-backend/internal/config"
	"nursery-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs migrations. It returns the error
// instead of exiting so main can fall back to the demo dataset when the
// backend is unreachable.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.InventoryBatch{},
		&models.TaskRecord{},
		&models.TaskConsumable{},
		&models.Customer{},
		&models.SaleRecord{},
		&models.Notification{},
		&models.Story{},
		&models.GreenTown{},
		&models.GreenTownPhoto{},
	)
	if err != nil {
		return nil, err
	}

	logrus.Info("database connected, migrations complete")
	return db, nil
}
