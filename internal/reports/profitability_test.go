package reports

import (
	"testing"

	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func batch(sku, name string, quantity int, price, cost string) models.InventoryBatch {
	return models.InventoryBatch{
		SKU:       sku,
		Name:      name,
		ItemType:  models.ItemTypePlant,
		Quantity:  quantity,
		UnitPrice: d(price),
		BatchCost: d(cost),
	}
}

func TestBuildProfitabilityReportWorkedExample(t *testing.T) {
	sku := "AVO4821"
	batches := []models.InventoryBatch{batch(sku, "Avocado Seedling", 100, "45", "2500")}
	tasks := []models.TaskRecord{
		{BatchSKU: &sku, TotalCost: d("500")},
		{BatchSKU: &sku, TotalCost: d("250")},
		{BatchSKU: nil, TotalCost: d("900")}, // general farm work, never allocated
	}
	sales := []models.SaleRecord{
		{SKU: sku, Quantity: 20, TotalAmount: d("900")},
	}

	rows := BuildProfitabilityReport(batches, tasks, sales)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, expected 1", len(rows))
	}
	r := rows[0]

	if !r.TaskCosts.Equal(d("750")) {
		t.Fatalf("task costs = %s, expected 750", r.TaskCosts)
	}
	if !r.CostPerUnit.Equal(d("32.5")) {
		t.Fatalf("cost per unit = %s, expected 32.5", r.CostPerUnit)
	}
	if !r.ProfitPerUnit.Equal(d("12.5")) {
		t.Fatalf("profit per unit = %s, expected 12.5", r.ProfitPerUnit)
	}
	if !r.ProfitMarginPercent.Equal(d("27.78")) {
		t.Fatalf("margin = %s, expected 27.78", r.ProfitMarginPercent)
	}
	if r.UnitsSold != 20 {
		t.Fatalf("units sold = %d, expected 20", r.UnitsSold)
	}
	if !r.RevenueGenerated.Equal(d("900")) {
		t.Fatalf("revenue = %s, expected 900", r.RevenueGenerated)
	}
	if !r.ProfitRealized.Equal(d("250")) {
		t.Fatalf("profit realized = %s, expected 250 (12.5 x 20)", r.ProfitRealized)
	}
	if !r.PotentialBatchProfit.Equal(d("1250")) {
		t.Fatalf("potential profit = %s, expected 1250 (12.5 x 100)", r.PotentialBatchProfit)
	}
}

func TestBuildProfitabilityReportStableDescendingSort(t *testing.T) {
	// C has the lowest margin; A and B tie, so they must keep their input order.
	batches := []models.InventoryBatch{
		batch("CCC1001", "Low Margin", 10, "100", "900"),
		batch("AAA1001", "Tie First", 10, "100", "700"),
		batch("BBB1001", "Tie Second", 10, "100", "700"),
	}

	rows := BuildProfitabilityReport(batches, nil, nil)
	got := []string{rows[0].SKU, rows[1].SKU, rows[2].SKU}
	want := []string{"AAA1001", "BBB1001", "CCC1001"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, expected %v", got, want)
		}
	}
}

func TestBuildProfitabilityReportBatchWithoutTasksOrSales(t *testing.T) {
	batches := []models.InventoryBatch{batch("MAC1193", "Macadamia", 8, "120", "400")}

	rows := BuildProfitabilityReport(batches, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, expected 1", len(rows))
	}
	r := rows[0]
	if !r.TaskCosts.IsZero() {
		t.Fatalf("task costs = %s, expected zero", r.TaskCosts)
	}
	if r.UnitsSold != 0 || !r.RevenueGenerated.IsZero() || !r.ProfitRealized.IsZero() {
		t.Fatalf("sales figures should be zero, got %+v", r)
	}
	if !r.CostPerUnit.Equal(d("50")) {
		t.Fatalf("cost per unit = %s, expected 50 (400/8)", r.CostPerUnit)
	}
}
