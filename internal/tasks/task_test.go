package tasks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestBuildTaskLaborOnly(t *testing.T) {
	sku := "AVO4821"
	task, children := BuildTask(&sku, "Weeding", d("3"), d("250"), time.Now(), nil, nil)

	if !task.LaborCost.Equal(d("750")) {
		t.Fatalf("labor cost = %s, expected 750 (3 x 250)", task.LaborCost)
	}
	if !task.ConsumablesCost.IsZero() {
		t.Fatalf("consumables cost = %s, expected zero with no usages", task.ConsumablesCost)
	}
	if !task.TotalCost.Equal(d("750")) {
		t.Fatalf("total cost = %s, expected 750", task.TotalCost)
	}
	if len(children) != 0 {
		t.Fatalf("children = %d, expected none", len(children))
	}
	if task.BatchSKU == nil || *task.BatchSKU != sku {
		t.Fatalf("batch SKU = %v, expected %q", task.BatchSKU, sku)
	}
}

func TestBuildTaskWithConsumables(t *testing.T) {
	usages := []ResolvedUsage{
		{ConsumableSKU: "CON-POT2044", BatchID: 3, QuantityUsed: 10, UnitCost: d("5")},
		{ConsumableSKU: "CON-FER1080", BatchID: 4, QuantityUsed: 2, UnitCost: d("37.50")},
	}
	task, children := BuildTask(nil, "Potting", d("2"), d("200"), time.Now(), nil, usages)

	if !task.LaborCost.Equal(d("400")) {
		t.Fatalf("labor cost = %s, expected 400", task.LaborCost)
	}
	if !task.ConsumablesCost.Equal(d("125")) {
		t.Fatalf("consumables cost = %s, expected 125 (50 + 75)", task.ConsumablesCost)
	}
	if !task.TotalCost.Equal(d("525")) {
		t.Fatalf("total cost = %s, expected 525", task.TotalCost)
	}
	if task.BatchSKU != nil {
		t.Fatal("general farm work must not carry a batch SKU")
	}

	if len(children) != 2 {
		t.Fatalf("children = %d, expected 2", len(children))
	}
	if !children[0].LineCost.Equal(d("50")) {
		t.Fatalf("first line cost = %s, expected 50", children[0].LineCost)
	}
	if !children[1].LineCost.Equal(d("75")) {
		t.Fatalf("second line cost = %s, expected 75", children[1].LineCost)
	}
}

func TestBuildTaskCarriesDueDate(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	task, _ := BuildTask(nil, "Prune orchard", d("1"), d("100"), time.Now(), &due, nil)
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("due date = %v, expected %v", task.DueDate, due)
	}
	if task.Completed {
		t.Fatal("new tasks must start incomplete")
	}
}
