package inventory

import (
	"nursery-backend/internal/config"
	"nursery-backend/internal/models"
)

type StockStatus string

const (
	StatusHealthy    StockStatus = "healthy"   // plants and honey
	StatusAvailable  StockStatus = "available" // consumables
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

func classify(quantity, threshold int, good StockStatus) StockStatus {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity < threshold:
		return StatusLowStock
	default:
		return good
	}
}

func ClassifyPlantStock(quantity, threshold int) StockStatus {
	return classify(quantity, threshold, StatusHealthy)
}

func ClassifyConsumableStock(quantity, threshold int) StockStatus {
	return classify(quantity, threshold, StatusAvailable)
}

// StatusFor picks the configured threshold for the batch's item type.
func StatusFor(b *models.InventoryBatch, cfg *config.Config) StockStatus {
	if b.ItemType == models.ItemTypeConsumable {
		return ClassifyConsumableStock(b.Quantity, cfg.LowStockThresholdConsumables)
	}
	return ClassifyPlantStock(b.Quantity, cfg.LowStockThresholdPlants)
}
