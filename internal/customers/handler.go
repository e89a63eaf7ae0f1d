package customers

import (
	"fmt"
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
	Town    string `json:"town" validate:"max=100"`
	Notes   string `json:"notes" validate:"max=500"`
}

type CustomerResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Town    string `json:"town"`
	Notes   string `json:"notes"`
}

func toCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID: c.ID, Name: c.Name, Contact: c.Contact,
		Email: c.Email, Town: c.Town, Notes: c.Notes,
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, apperr.New(apperr.KindValidation, "id must be a positive integer")
	}
	return id, nil
}

// GET /api/customers
func ListCustomersHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := st.Customers().List()
		if err != nil {
			return err
		}
		res := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			res = append(res, toCustomerResponse(&customers[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/customers
func CreateCustomerHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return err
		}

		customer := models.Customer{
			Name:    body.Name,
			Contact: strings.TrimSpace(body.Contact),
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Town:    strings.TrimSpace(body.Town),
			Notes:   strings.TrimSpace(body.Notes),
		}
		if err := st.Customers().Create(&customer); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&customer))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		customer, err := st.Customers().GetByID(id)
		if err != nil {
			return err
		}

		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return err
		}

		customer.Name = body.Name
		customer.Contact = strings.TrimSpace(body.Contact)
		customer.Email = strings.TrimSpace(strings.ToLower(body.Email))
		customer.Town = strings.TrimSpace(body.Town)
		customer.Notes = strings.TrimSpace(body.Notes)

		if err := st.Customers().Update(customer); err != nil {
			return err
		}
		return c.JSON(toCustomerResponse(customer))
	}
}

// DELETE /api/customers/:id (owner only)
func DeleteCustomerHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if err := st.Customers().Delete(id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/customers/:id/sales — purchase history for one customer.
func CustomerSalesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if _, err := st.Customers().GetByID(id); err != nil {
			return err
		}
		sales, err := st.Sales().List(store.SaleFilter{CustomerID: &id})
		if err != nil {
			return err
		}
		return c.JSON(sales)
	}
}
