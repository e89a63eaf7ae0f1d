package tasks

import (
	"time"

	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ResolvedUsage is a consumable line with its unit cost already settled
// (caller override or the consumable batch's unit price).
type ResolvedUsage struct {
	ConsumableSKU string
	BatchID       uint
	QuantityUsed  int
	UnitCost      decimal.Decimal
}

// BuildTask derives the cost fields for a task record: labor cost is
// hours x rate, consumables cost is the sum of the usage lines, and the total
// is their sum. A task with no usages is fine and costs only labor.
func BuildTask(batchSKU *string, description string, laborHours, laborRate decimal.Decimal,
	taskDate time.Time, dueDate *time.Time, usages []ResolvedUsage) (models.TaskRecord, []models.TaskConsumable) {

	laborCost := laborHours.Mul(laborRate)

	consumablesCost := decimal.Zero
	children := make([]models.TaskConsumable, 0, len(usages))
	for _, u := range usages {
		lineCost := u.UnitCost.Mul(decimal.NewFromInt(int64(u.QuantityUsed)))
		consumablesCost = consumablesCost.Add(lineCost)
		children = append(children, models.TaskConsumable{
			ConsumableSKU: u.ConsumableSKU,
			QuantityUsed:  u.QuantityUsed,
			UnitCost:      u.UnitCost,
			LineCost:      lineCost,
		})
	}

	task := models.TaskRecord{
		BatchSKU:        batchSKU,
		Description:     description,
		LaborHours:      laborHours,
		LaborRate:       laborRate,
		LaborCost:       laborCost,
		ConsumablesCost: consumablesCost,
		TotalCost:       laborCost.Add(consumablesCost),
		TaskDate:        taskDate,
		DueDate:         dueDate,
	}
	return task, children
}
