package sales

import (
	"errors"
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

type NewCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
	Town    string `json:"town" validate:"max=100"`
}

type RecordSaleRequest struct {
	BatchID    uint                `json:"batch_id" validate:"required"`
	Quantity   int                 `json:"quantity" validate:"min=1"`
	SaleDate   string              `json:"sale_date"` // YYYY-MM-DD, defaults to today
	Channel    models.SaleChannel  `json:"channel" validate:"omitempty,oneof=farm_gate market website whatsapp"`
	CustomerID *uint               `json:"customer_id"`
	Customer   *NewCustomerRequest `json:"customer"` // inline customer creation
}

type SaleResponse struct {
	ID           uint               `json:"id"`
	BatchID      uint               `json:"batch_id"`
	SKU          string             `json:"sku"`
	CustomerID   *uint              `json:"customer_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Quantity     int                `json:"quantity"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	SaleDate     string             `json:"sale_date"`
	Channel      models.SaleChannel `json:"channel"`
}

func toSaleResponse(s *models.SaleRecord) SaleResponse {
	res := SaleResponse{
		ID:          s.ID,
		BatchID:     s.InventoryBatchID,
		SKU:         s.SKU,
		CustomerID:  s.CustomerID,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		SaleDate:    s.SaleDate.Format("2006-01-02"),
		Channel:     s.Channel,
	}
	if s.Customer != nil {
		res.CustomerName = s.Customer.Name
	}
	return res
}

// POST /api/sales
func RecordSaleHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecordSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return err
		}

		var saleDate time.Time
		if body.SaleDate != "" {
			var err error
			saleDate, err = time.Parse("2006-01-02", body.SaleDate)
			if err != nil {
				return apperr.New(apperr.KindValidation, "sale_date must be formatted YYYY-MM-DD")
			}
		}

		in := RecordSaleInput{
			BatchID:    body.BatchID,
			Quantity:   body.Quantity,
			SaleDate:   saleDate,
			Channel:    body.Channel,
			CustomerID: body.CustomerID,
		}
		if body.Customer != nil {
			in.NewCustomer = &NewCustomerInput{
				Name:    strings.TrimSpace(body.Customer.Name),
				Contact: strings.TrimSpace(body.Customer.Contact),
				Email:   strings.TrimSpace(strings.ToLower(body.Customer.Email)),
				Town:    strings.TrimSpace(body.Customer.Town),
			}
		}

		sale, err := RecordSale(st, in)
		if err != nil {
			// A partial failure still carries the persisted sale; the client
			// needs the warning and the sale, not a rollback that never
			// happened.
			var appErr *apperr.Error
			if errors.As(err, &appErr) && appErr.Kind == apperr.KindPartialFailure && sale != nil {
				return c.Status(apperr.HTTPStatus(appErr.Kind)).JSON(fiber.Map{
					"error": appErr.Message,
					"kind":  appErr.Kind,
					"step":  appErr.Step,
					"sale":  toSaleResponse(sale),
				})
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
	}
}

// GET /api/sales?sku=AVO4821&customer_id=3&from=2026-01-01&to=2026-01-31
func ListSalesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		sales, err := st.Sales().List(f)
		if err != nil {
			return err
		}
		res := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			res = append(res, toSaleResponse(&sales[i]))
		}
		return c.JSON(res)
	}
}

func filterFromQuery(c *fiber.Ctx) (store.SaleFilter, error) {
	f := store.SaleFilter{SKU: strings.ToUpper(strings.TrimSpace(c.Query("sku")))}
	if cid := c.Query("customer_id"); cid != "" {
		var id uint
		if _, err := fmt.Sscan(cid, &id); err != nil || id == 0 {
			return f, apperr.New(apperr.KindValidation, "customer_id must be a positive integer")
		}
		f.CustomerID = &id
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "from must be formatted YYYY-MM-DD")
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, apperr.New(apperr.KindValidation, "to must be formatted YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Second)
		f.To = &end
	}
	return f, nil
}

// DELETE /api/sales/:id (owner only). Deleting a sale does not restock the
// batch; a miskeyed sale is corrected with a stock adjustment.
func DeleteSaleHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return apperr.New(apperr.KindValidation, "id must be a positive integer")
		}
		if err := st.Sales().Delete(id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
