package reports

import (
	"nursery-backend/internal/config"
	"nursery-backend/internal/inventory"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func loadReportInputs(st store.Store) ([]models.InventoryBatch, []models.TaskRecord, []models.SaleRecord, error) {
	batches, err := st.Inventory().List(store.InventoryFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := st.Tasks().List(store.TaskFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	sales, err := st.Sales().List(store.SaleFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	return batches, tasks, sales, nil
}

// GET /api/reports/profitability
func ProfitabilityHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, tasks, sales, err := loadReportInputs(st)
		if err != nil {
			return err
		}
		return c.JSON(BuildProfitabilityReport(batches, tasks, sales))
	}
}

type StatusCounts struct {
	Healthy    int `json:"healthy"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type DashboardResponse struct {
	PlantBatches        StatusCounts         `json:"plant_batches"`
	ConsumableBatches   StatusCounts         `json:"consumable_batches"`
	TotalRevenue        decimal.Decimal      `json:"total_revenue"`
	TotalProfitRealized decimal.Decimal      `json:"total_profit_realized"`
	UnitsSold           int                  `json:"units_sold"`
	PendingTasks        int                  `json:"pending_tasks"`
	TopBatches          []BatchProfitability `json:"top_batches"` // best margins first
}

// GET /api/reports/dashboard — the landing-screen aggregates.
func DashboardHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, tasks, sales, err := loadReportInputs(st)
		if err != nil {
			return err
		}

		res := DashboardResponse{}
		for i := range batches {
			b := &batches[i]
			counts := &res.PlantBatches
			if b.ItemType == models.ItemTypeConsumable {
				counts = &res.ConsumableBatches
			}
			switch inventory.StatusFor(b, cfg) {
			case inventory.StatusOutOfStock:
				counts.OutOfStock++
			case inventory.StatusLowStock:
				counts.LowStock++
			default:
				counts.Healthy++
			}
		}

		for _, t := range tasks {
			if !t.Completed {
				res.PendingTasks++
			}
		}

		rows := BuildProfitabilityReport(batches, tasks, sales)
		for _, row := range rows {
			res.TotalRevenue = res.TotalRevenue.Add(row.RevenueGenerated)
			res.TotalProfitRealized = res.TotalProfitRealized.Add(row.ProfitRealized)
			res.UnitsSold += row.UnitsSold
		}
		if len(rows) > 5 {
			rows = rows[:5]
		}
		res.TopBatches = rows

		return c.JSON(res)
	}
}
