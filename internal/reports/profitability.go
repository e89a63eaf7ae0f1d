package reports

import (
	"sort"

	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// BatchProfitability is one row of the profitability report.
type BatchProfitability struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	ItemType models.ItemType `json:"item_type"`
	Quantity int             `json:"quantity"`

	UnitPrice decimal.Decimal `json:"unit_price"`
	BatchCost decimal.Decimal `json:"batch_cost"`
	TaskCosts decimal.Decimal `json:"task_costs"`

	CostPerUnit         decimal.Decimal `json:"cost_per_unit"`
	ProfitPerUnit       decimal.Decimal `json:"profit_per_unit"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`

	UnitsSold        int             `json:"units_sold"`
	RevenueGenerated decimal.Decimal `json:"revenue_generated"`
	ProfitRealized   decimal.Decimal `json:"profit_realized"`

	// Profit if the entire remaining batch sold at the current margin.
	PotentialBatchProfit decimal.Decimal `json:"potential_batch_profit"`
}

// BuildProfitabilityReport joins inventory, tasks and sales into per-batch
// profitability rows, ordered by descending profit margin. The sort is stable
// so batches with equal margins keep their input order. Everything is a full
// recompute over the current dataset; there is no incremental path.
func BuildProfitabilityReport(batches []models.InventoryBatch, tasks []models.TaskRecord,
	sales []models.SaleRecord) []BatchProfitability {

	taskCosts := map[string]decimal.Decimal{}
	for _, t := range tasks {
		if t.BatchSKU == nil {
			continue
		}
		taskCosts[*t.BatchSKU] = taskCosts[*t.BatchSKU].Add(t.TotalCost)
	}

	unitsSold := map[string]int{}
	revenue := map[string]decimal.Decimal{}
	for _, s := range sales {
		unitsSold[s.SKU] += s.Quantity
		revenue[s.SKU] = revenue[s.SKU].Add(s.TotalAmount)
	}

	rows := make([]BatchProfitability, 0, len(batches))
	for _, b := range batches {
		costs := taskCosts[b.SKU] // zero when the batch has no tasks
		costPerUnit := costing.CostPerUnit(b.BatchCost, costs, b.Quantity)
		profitPerUnit := costing.ProfitPerUnit(b.UnitPrice, costPerUnit)

		sold := unitsSold[b.SKU]
		rows = append(rows, BatchProfitability{
			SKU:                  b.SKU,
			Name:                 b.Name,
			ItemType:             b.ItemType,
			Quantity:             b.Quantity,
			UnitPrice:            b.UnitPrice,
			BatchCost:            b.BatchCost,
			TaskCosts:            costs,
			CostPerUnit:          costPerUnit,
			ProfitPerUnit:        profitPerUnit,
			ProfitMarginPercent:  costing.ProfitMarginPercent(b.UnitPrice, profitPerUnit),
			UnitsSold:            sold,
			RevenueGenerated:     revenue[b.SKU],
			ProfitRealized:       profitPerUnit.Mul(decimal.NewFromInt(int64(sold))),
			PotentialBatchProfit: profitPerUnit.Mul(decimal.NewFromInt(int64(b.Quantity))),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProfitMarginPercent.GreaterThan(rows[j].ProfitMarginPercent)
	})
	return rows
}
