package store

import (
	"time"

	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// NewDemoStore builds the read-mostly demonstration dataset used when the
// backend is unreachable or DEMO_MODE is set. The numbers are chosen so the
// profitability screen has something sensible to show.
func NewDemoStore() *MemStore {
	m := NewMemStore()

	demoDay := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	batches := []models.InventoryBatch{
		{
			SKU: "AVO4821", Name: "Avocado Seedlings", Category: "Fruit Trees",
			Unit: "seedling", ItemType: models.ItemTypePlant,
			Quantity: 100, InitialQuantity: 120,
			UnitPrice: decimal.NewFromInt(45), BatchCost: decimal.NewFromInt(2500),
			// (2500 batch + 750 task costs) / 100 in stock
			CostPerUnit:  decimal.NewFromFloat(32.5),
			ReadyForSale: true,
			Description:  "Hass avocado, grafted",
		},
		{
			SKU: "MAC1193", Name: "Macadamia Seedlings", Category: "Nut Trees",
			Unit: "seedling", ItemType: models.ItemTypePlant,
			Quantity: 8, InitialQuantity: 60,
			UnitPrice: decimal.NewFromInt(80), BatchCost: decimal.NewFromInt(3600),
			CostPerUnit:  decimal.NewFromInt(450),
			ReadyForSale: true,
		},
		{
			SKU: "CON-POT2044", Name: "Potting Bags 5L", Category: "Supplies",
			Unit: "bag", ItemType: models.ItemTypeConsumable,
			Quantity: 400, InitialQuantity: 500,
			UnitPrice: decimal.NewFromFloat(2.5), BatchCost: decimal.Zero,
			CostPerUnit: decimal.Zero,
		},
		{
			SKU: "HON-WLD3307", Name: "Wildflower Honey 500g", Category: "Honey",
			Unit: "jar", ItemType: models.ItemTypeHoney,
			Quantity: 45, InitialQuantity: 60,
			UnitPrice: decimal.NewFromInt(12), BatchCost: decimal.NewFromInt(180),
			CostPerUnit:  decimal.NewFromInt(4),
			ReadyForSale: true,
		},
	}
	for i := range batches {
		_ = m.Inventory().Create(&batches[i])
	}

	potSKU := "AVO4821"
	tasks := []models.TaskRecord{
		{
			BatchSKU: &potSKU, Description: "Potting and first fertilizer round",
			LaborHours: decimal.NewFromInt(30), LaborRate: decimal.NewFromInt(20),
			LaborCost:       decimal.NewFromInt(600),
			ConsumablesCost: decimal.NewFromInt(150),
			TotalCost:       decimal.NewFromInt(750),
			TaskDate:        demoDay.AddDate(0, -2, 0),
			Completed:       true,
		},
	}
	for i := range tasks {
		_ = m.Tasks().Create(&tasks[i])
	}

	customer := models.Customer{Name: "Amara Okafor", Contact: "+2348012345678", Town: "Enugu"}
	_ = m.Customers().Create(&customer)

	sales := []models.SaleRecord{
		{
			InventoryBatchID: batches[0].ID, SKU: "AVO4821", CustomerID: &customer.ID,
			Quantity: 20, UnitPrice: decimal.NewFromInt(45), TotalAmount: decimal.NewFromInt(900),
			SaleDate: demoDay.AddDate(0, -1, 0), Channel: models.ChannelFarmGate,
		},
		{
			InventoryBatchID: batches[3].ID, SKU: "HON-WLD3307",
			Quantity: 15, UnitPrice: decimal.NewFromInt(12), TotalAmount: decimal.NewFromInt(180),
			SaleDate: demoDay.AddDate(0, 0, -10), Channel: models.ChannelMarket,
		},
	}
	for i := range sales {
		_ = m.Sales().Create(&sales[i])
	}

	stories := []models.Story{
		{
			Title: "A thousand trees for Nsukka", Slug: "a-thousand-trees-for-nsukka",
			Body:      "Last season our growers put a thousand avocado and macadamia seedlings into community plots around Nsukka.",
			Published: true,
		},
	}
	for i := range stories {
		_ = m.Stories().Create(&stories[i])
	}

	town := models.GreenTown{Name: "Nsukka", Region: "Enugu State", TreesPlanted: 1024,
		Description: "Community greening pilot started in 2024."}
	_ = m.GreenTowns().Create(&town)

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo-owner-password"), bcrypt.DefaultCost)
	_ = m.Users().Create(&models.User{
		Name: "Demo Owner", Email: "owner@demo.local",
		PasswordHash: string(hash), Role: models.RoleOwner,
	})

	return m
}
