// Package costing holds the pure cost-allocation arithmetic shared by the
// inventory screens and the profitability report. No I/O, no side effects.
package costing

import "github.com/shopspring/decimal"

// Per-unit costs keep four decimal places; percentages two.
const (
	costScale   = 4
	marginScale = 2
)

// CostPerUnit amortizes the batch cost plus allocated task costs over the
// given quantity. A quantity of zero or less yields zero rather than an
// error: a sold-out batch simply has nothing left to carry cost.
func CostPerUnit(batchCost, taskCosts decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return batchCost.Add(taskCosts).DivRound(decimal.NewFromInt(int64(quantity)), costScale)
}

func ProfitPerUnit(sellingPrice, costPerUnit decimal.Decimal) decimal.Decimal {
	return sellingPrice.Sub(costPerUnit)
}

// ProfitMarginPercent is profit over selling price as a percentage. A zero or
// negative selling price yields zero.
func ProfitMarginPercent(sellingPrice, profitPerUnit decimal.Decimal) decimal.Decimal {
	if !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	return profitPerUnit.Div(sellingPrice).Mul(decimal.NewFromInt(100)).Round(marginScale)
}
