package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCostPerUnit(t *testing.T) {
	cases := []struct {
		name      string
		batchCost string
		taskCosts string
		quantity  int
		expected  string
	}{
		{"zero quantity yields zero, not a division error", "0", "0", 0, "0"},
		{"negative quantity guarded the same way", "500", "100", -3, "0"},
		{"batch cost only", "2500", "0", 100, "25"},
		{"batch cost plus task costs", "2500", "750", 100, "32.5"},
		{"uneven division rounds to four places", "100", "0", 3, "33.3333"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CostPerUnit(d(tc.batchCost), d(tc.taskCosts), tc.quantity)
			if !got.Equal(d(tc.expected)) {
				t.Fatalf("CostPerUnit(%s, %s, %d) = %s, expected %s",
					tc.batchCost, tc.taskCosts, tc.quantity, got, tc.expected)
			}
		})
	}
}

func TestProfitForWorkedExample(t *testing.T) {
	// batchCost=2500, taskCosts=750, quantity=100, sellingPrice=45
	costPerUnit := CostPerUnit(d("2500"), d("750"), 100)
	if !costPerUnit.Equal(d("32.5")) {
		t.Fatalf("costPerUnit = %s, expected 32.5", costPerUnit)
	}

	profit := ProfitPerUnit(d("45"), costPerUnit)
	if !profit.Equal(d("12.5")) {
		t.Fatalf("profitPerUnit = %s, expected 12.5", profit)
	}

	margin := ProfitMarginPercent(d("45"), profit)
	if !margin.Equal(d("27.78")) {
		t.Fatalf("profitMarginPercent = %s, expected 27.78", margin)
	}
}

func TestProfitMarginPercentZeroPrice(t *testing.T) {
	if got := ProfitMarginPercent(d("0"), d("12.5")); !got.IsZero() {
		t.Fatalf("margin with zero selling price = %s, expected 0", got)
	}
	if got := ProfitMarginPercent(d("-5"), d("1")); !got.IsZero() {
		t.Fatalf("margin with negative selling price = %s, expected 0", got)
	}
}
