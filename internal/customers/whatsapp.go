package customers

import (
	"net/url"
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/store"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ComposeWhatsAppLink builds a wa.me deep link with the message pre-filled.
// The phone number keeps digits only (wa.me rejects '+' and spaces).
func ComposeWhatsAppLink(phone, message string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() < 7 {
		return "", apperr.New(apperr.KindValidation, "the customer has no usable phone number")
	}
	return "https://wa.me/" + digits.String() + "?text=" + url.QueryEscape(message), nil
}

type WhatsAppRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// POST /api/customers/:id/whatsapp — returns the deep link; the browser opens
// it, this service never talks to WhatsApp itself.
func WhatsAppLinkHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		customer, err := st.Customers().GetByID(id)
		if err != nil {
			return err
		}

		var body WhatsAppRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return err
		}

		link, err := ComposeWhatsAppLink(customer.Contact, body.Message)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"link": link})
	}
}
