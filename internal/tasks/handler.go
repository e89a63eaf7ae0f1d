package tasks

import (
	"fmt"
	"strings"
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type UsageRequest struct {
	ConsumableSKU string           `json:"consumable_sku" validate:"required,max=30"`
	QuantityUsed  int              `json:"quantity_used" validate:"min=1"`
	UnitCost      *decimal.Decimal `json:"unit_cost"` // optional, defaults to the consumable's unit price
}

type CreateTaskRequest struct {
	BatchSKU    string          `json:"batch_sku" validate:"max=30"` // optional allocation
	Description string          `json:"description" validate:"required,max=255"`
	LaborHours  decimal.Decimal `json:"labor_hours"`
	LaborRate   decimal.Decimal `json:"labor_rate"`
	TaskDate    string          `json:"task_date" validate:"required"`
	DueDate     string          `json:"due_date"`
	Consumables []UsageRequest  `json:"consumables" validate:"dive"`
}

type UsageResponse struct {
	ConsumableSKU string          `json:"consumable_sku"`
	QuantityUsed  int             `json:"quantity_used"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	LineCost      decimal.Decimal `json:"line_cost"`
}

type TaskResponse struct {
	ID              uint            `json:"id"`
	BatchSKU        *string         `json:"batch_sku"`
	Description     string          `json:"description"`
	LaborHours      decimal.Decimal `json:"labor_hours"`
	LaborRate       decimal.Decimal `json:"labor_rate"`
	LaborCost       decimal.Decimal `json:"labor_cost"`
	ConsumablesCost decimal.Decimal `json:"consumables_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TaskDate        string          `json:"task_date"`
	DueDate         *string         `json:"due_date"`
	Completed       bool            `json:"completed"`
	Consumables     []UsageResponse `json:"consumables"`
}

func toTaskResponse(t *models.TaskRecord) TaskResponse {
	res := TaskResponse{
		ID:              t.ID,
		BatchSKU:        t.BatchSKU,
		Description:     t.Description,
		LaborHours:      t.LaborHours,
		LaborRate:       t.LaborRate,
		LaborCost:       t.LaborCost,
		ConsumablesCost: t.ConsumablesCost,
		TotalCost:       t.TotalCost,
		TaskDate:        t.TaskDate.Format("2006-01-02"),
		Completed:       t.Completed,
		Consumables:     make([]UsageResponse, 0, len(t.Consumables)),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		res.DueDate = &due
	}
	for _, tc := range t.Consumables {
		res.Consumables = append(res.Consumables, UsageResponse{
			ConsumableSKU: tc.ConsumableSKU,
			QuantityUsed:  tc.QuantityUsed,
			UnitCost:      tc.UnitCost,
			LineCost:      tc.LineCost,
		})
	}
	return res
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, apperr.New(apperr.KindValidation, "id must be a positive integer")
	}
	return id, nil
}

// POST /api/tasks
//
// The parent task is inserted first; usage rows and the consumable stock
// decrements follow. A failure after the parent insert leaves the task in
// place and is reported as a partial failure naming the step.
func CreateTaskHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTaskRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.BatchSKU = strings.ToUpper(strings.TrimSpace(body.BatchSKU))
		if err := validate.Struct(body); err != nil {
			return err
		}
		if body.LaborHours.IsNegative() || body.LaborRate.IsNegative() {
			return apperr.New(apperr.KindValidation, "labor_hours and labor_rate must not be negative")
		}

		taskDate, err := time.Parse("2006-01-02", body.TaskDate)
		if err != nil {
			return apperr.New(apperr.KindValidation, "task_date must be formatted YYYY-MM-DD")
		}
		var dueDate *time.Time
		if body.DueDate != "" {
			due, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				return apperr.New(apperr.KindValidation, "due_date must be formatted YYYY-MM-DD")
			}
			dueDate = &due
		}

		var batchSKU *string
		if body.BatchSKU != "" {
			if _, err := st.Inventory().GetBySKU(body.BatchSKU); err != nil {
				return err
			}
			batchSKU = &body.BatchSKU
		}

		// Resolve every usage before writing anything: missing consumables are
		// a validation-stage failure, not a partial one.
		usages := make([]ResolvedUsage, 0, len(body.Consumables))
		for _, u := range body.Consumables {
			sku := strings.ToUpper(strings.TrimSpace(u.ConsumableSKU))
			cb, err := st.Inventory().GetBySKU(sku)
			if err != nil {
				return err
			}
			if cb.ItemType != models.ItemTypeConsumable {
				return apperr.Newf(apperr.KindValidation, "%s is not a consumable", sku)
			}
			unitCost := cb.UnitPrice
			if u.UnitCost != nil {
				if u.UnitCost.IsNegative() {
					return apperr.New(apperr.KindValidation, "unit_cost must not be negative")
				}
				unitCost = *u.UnitCost
			}
			usages = append(usages, ResolvedUsage{
				ConsumableSKU: sku,
				BatchID:       cb.ID,
				QuantityUsed:  u.QuantityUsed,
				UnitCost:      unitCost,
			})
		}

		task, err := RecordTask(st, batchSKU, strings.TrimSpace(body.Description),
			body.LaborHours, body.LaborRate, taskDate, dueDate, usages)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toTaskResponse(task))
	}
}

// GET /api/tasks?batch_sku=AVO4821&pending=true
func ListTasksHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := store.TaskFilter{
			BatchSKU:    strings.ToUpper(strings.TrimSpace(c.Query("batch_sku"))),
			PendingOnly: c.Query("pending") == "true",
		}
		tasks, err := st.Tasks().List(f)
		if err != nil {
			return err
		}
		res := make([]TaskResponse, 0, len(tasks))
		for i := range tasks {
			res = append(res, toTaskResponse(&tasks[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/tasks/:id/complete
func CompleteTaskHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if err := st.Tasks().MarkCompleted(id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/tasks/costs — task cost totals per batch SKU.
func BatchCostsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sums, err := st.Tasks().CostsBySKU()
		if err != nil {
			return err
		}
		res := make(map[string]decimal.Decimal, len(sums))
		for sku, total := range sums {
			res[sku] = total
		}
		return c.JSON(res)
	}
}
