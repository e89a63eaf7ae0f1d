package inventory

import (
	"fmt"
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/config"
	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type BatchResponse struct {
	ID              uint            `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	ItemType        models.ItemType `json:"item_type"`
	Quantity        int             `json:"quantity"`
	InitialQuantity int             `json:"initial_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	BatchCost       decimal.Decimal `json:"batch_cost"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	ReadyForSale    bool            `json:"ready_for_sale"`
	Description     string          `json:"description"`
	ImagePath       string          `json:"image_path"`
	Status          StockStatus     `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

func toBatchResponse(b *models.InventoryBatch, cfg *config.Config) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		SKU:             b.SKU,
		Name:            b.Name,
		Category:        b.Category,
		Unit:            b.Unit,
		ItemType:        b.ItemType,
		Quantity:        b.Quantity,
		InitialQuantity: b.InitialQuantity,
		UnitPrice:       b.UnitPrice,
		BatchCost:       b.BatchCost,
		CostPerUnit:     b.CostPerUnit,
		ReadyForSale:    b.ReadyForSale,
		Description:     b.Description,
		ImagePath:       b.ImagePath,
		Status:          StatusFor(b, cfg),
		CreatedAt:       b.CreatedAt.Format("2006-01-02"),
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, apperr.New(apperr.KindValidation, "id must be a positive integer")
	}
	return id, nil
}

type CreateBatchRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Category     string          `json:"category" validate:"max=50"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	ItemType     models.ItemType `json:"item_type" validate:"required,oneof=plant consumable honey"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	BatchCost    decimal.Decimal `json:"batch_cost"`
	ReadyForSale bool            `json:"ready_for_sale"`
	Description  string          `json:"description" validate:"max=500"`
	SKU          string          `json:"sku" validate:"max=30"` // optional, generated if absent
}

type UpdateBatchRequest struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	Quantity     *int             `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	BatchCost    *decimal.Decimal `json:"batch_cost"`
	ReadyForSale *bool            `json:"ready_for_sale"`
	Description  *string          `json:"description"`
}

// GET /api/inventory?item_type=plant&ready_for_sale=true&q=avocado
func ListBatchesHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := store.InventoryFilter{
			ItemType: models.ItemType(c.Query("item_type")),
			Query:    strings.TrimSpace(c.Query("q")),
		}
		if rfs := c.Query("ready_for_sale"); rfs != "" {
			ready := rfs == "true"
			f.ReadyForSale = &ready
		}

		batches, err := st.Inventory().List(f)
		if err != nil {
			return err
		}

		res := make([]BatchResponse, 0, len(batches))
		for i := range batches {
			res = append(res, toBatchResponse(&batches[i], cfg))
		}
		return c.JSON(res)
	}
}

// GET /api/inventory/:id
func GetBatchHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		b, err := st.Inventory().GetByID(id)
		if err != nil {
			return err
		}
		return c.JSON(toBatchResponse(b, cfg))
	}
}

// POST /api/inventory
func CreateBatchHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.ToUpper(strings.TrimSpace(body.SKU))
		if err := validate.Struct(body); err != nil {
			return err
		}
		if body.UnitPrice.IsNegative() || body.BatchCost.IsNegative() {
			return apperr.New(apperr.KindValidation, "unit_price and batch_cost must not be negative")
		}

		b := models.InventoryBatch{
			SKU:             body.SKU,
			Name:            body.Name,
			Category:        strings.TrimSpace(body.Category),
			Unit:            strings.TrimSpace(body.Unit),
			ItemType:        body.ItemType,
			Quantity:        body.Quantity,
			InitialQuantity: body.Quantity,
			UnitPrice:       body.UnitPrice,
			BatchCost:       body.BatchCost,
			CostPerUnit:     costing.CostPerUnit(body.BatchCost, decimal.Zero, body.Quantity),
			ReadyForSale:    body.ReadyForSale,
			Description:     strings.TrimSpace(body.Description),
		}

		if err := createWithSKU(st, &b, body.SKU == ""); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toBatchResponse(&b, cfg))
	}
}

// createWithSKU inserts the batch, generating a SKU when none was supplied.
// A generated SKU that races another insert is regenerated; a caller-supplied
// duplicate is surfaced as-is.
func createWithSKU(st store.Store, b *models.InventoryBatch, generated bool) error {
	attempts := 1
	if generated {
		attempts = 3
	}
	for i := 0; i < attempts; i++ {
		if generated {
			existing, err := st.Inventory().ExistingSKUs()
			if err != nil {
				return err
			}
			b.SKU = GenerateSKU(b.Name, b.ItemType, existing)
		}
		err := st.Inventory().Create(b)
		if err == nil {
			return nil
		}
		if !generated || !apperr.Is(err, apperr.KindDuplicateKey) {
			return err
		}
		logrus.WithField("sku", b.SKU).Warn("generated SKU collided on insert, regenerating")
	}
	return apperr.New(apperr.KindDuplicateKey, "could not allocate a unique SKU")
}

// PUT /api/inventory/:id
func UpdateBatchHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		b, err := st.Inventory().GetByID(id)
		if err != nil {
			return err
		}

		var body UpdateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}

		recompute := false
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apperr.New(apperr.KindValidation, "name must not be empty")
			}
			b.Name = name
		}
		if body.Category != nil {
			b.Category = strings.TrimSpace(*body.Category)
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return apperr.New(apperr.KindValidation, "unit must not be empty")
			}
			b.Unit = unit
		}
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return apperr.New(apperr.KindValidation, "quantity must not be negative")
			}
			b.Quantity = *body.Quantity
			recompute = true
		}
		if body.UnitPrice != nil {
			if body.UnitPrice.IsNegative() {
				return apperr.New(apperr.KindValidation, "unit_price must not be negative")
			}
			b.UnitPrice = *body.UnitPrice
		}
		if body.BatchCost != nil {
			if body.BatchCost.IsNegative() {
				return apperr.New(apperr.KindValidation, "batch_cost must not be negative")
			}
			b.BatchCost = *body.BatchCost
			recompute = true
		}
		if body.ReadyForSale != nil {
			b.ReadyForSale = *body.ReadyForSale
		}
		if body.Description != nil {
			b.Description = strings.TrimSpace(*body.Description)
		}

		if recompute {
			if err := recomputeCostPerUnit(st, b); err != nil {
				return err
			}
		}

		if err := st.Inventory().Update(b); err != nil {
			return err
		}
		return c.JSON(toBatchResponse(b, cfg))
	}
}

// recomputeCostPerUnit refreshes the stored per-unit cost from the batch's
// current quantity and its allocated task costs.
func recomputeCostPerUnit(st store.Store, b *models.InventoryBatch) error {
	sums, err := st.Tasks().CostsBySKU()
	if err != nil {
		return err
	}
	b.CostPerUnit = costing.CostPerUnit(b.BatchCost, sums[b.SKU], b.Quantity)
	return nil
}

// DELETE /api/inventory/:id (owner only)
func DeleteBatchHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if err := st.Inventory().Delete(id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type AdjustStockRequest struct {
	// Exactly one of delta or set is expected; set wins if both are present.
	Delta *int `json:"delta"`
	Set   *int `json:"set"`
}

// POST /api/inventory/:id/adjust — manual stock correction (recount, spoilage).
func AdjustStockHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		b, err := st.Inventory().GetByID(id)
		if err != nil {
			return err
		}

		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		if body.Delta == nil && body.Set == nil {
			return apperr.New(apperr.KindValidation, "either delta or set is required")
		}

		newQuantity := b.Quantity
		if body.Set != nil {
			newQuantity = *body.Set
		} else {
			newQuantity += *body.Delta
		}
		if newQuantity < 0 {
			return apperr.Newf(apperr.KindValidation,
				"adjustment would make stock negative (current %d)", b.Quantity)
		}

		b.Quantity = newQuantity
		if err := recomputeCostPerUnit(st, b); err != nil {
			return err
		}
		if err := st.Inventory().Update(b); err != nil {
			return err
		}
		return c.JSON(toBatchResponse(b, cfg))
	}
}
