package tasks

import (
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RecordTask derives the cost fields and persists the task, then its usage
// rows, decrementing consumable stock per line. There is no compensating
// rollback: a failure after the parent insert leaves the task in place and is
// reported as a partial failure naming the step.
func RecordTask(st store.Store, batchSKU *string, description string,
	laborHours, laborRate decimal.Decimal, taskDate time.Time, dueDate *time.Time,
	usages []ResolvedUsage) (*models.TaskRecord, error) {

	task, children := BuildTask(batchSKU, description, laborHours, laborRate, taskDate, dueDate, usages)

	if err := st.Tasks().Create(&task); err != nil {
		return nil, err
	}

	for i := range children {
		children[i].TaskRecordID = task.ID
		if err := st.Tasks().CreateConsumable(&children[i]); err != nil {
			task.Consumables = children[:i]
			return &task, apperr.Partial("consumable_usage",
				"the task was recorded but some consumable usage rows were not", err)
		}
		updated, err := st.Inventory().DecrementQuantity(usages[i].BatchID, usages[i].QuantityUsed)
		if err != nil {
			task.Consumables = children[:i+1]
			return &task, apperr.Partial("consumable_decrement",
				"the task was recorded but consumable stock was not updated", err)
		}
		if !updated {
			logrus.WithField("sku", usages[i].ConsumableSKU).
				Warn("consumable stock was below the recorded usage, left unchanged")
		}
	}
	task.Consumables = children

	// Task costs feed the batch's amortized cost; refresh the stored value.
	if task.BatchSKU != nil {
		if err := refreshBatchCost(st, *task.BatchSKU); err != nil {
			logrus.WithError(err).WithField("sku", *task.BatchSKU).
				Warn("stored cost per unit could not be refreshed")
		}
	}

	return &task, nil
}

func refreshBatchCost(st store.Store, sku string) error {
	b, err := st.Inventory().GetBySKU(sku)
	if err != nil {
		return err
	}
	sums, err := st.Tasks().CostsBySKU()
	if err != nil {
		return err
	}
	b.CostPerUnit = costing.CostPerUnit(b.BatchCost, sums[sku], b.Quantity)
	return st.Inventory().Update(b)
}
