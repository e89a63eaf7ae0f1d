package notify

import (
	"fmt"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID        uint                    `json:"id"`
	Kind      models.NotificationKind `json:"kind"`
	RefKey    string                  `json:"ref_key"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt string                  `json:"created_at"`
}

// GET /api/notifications?unread=true
func ListNotificationsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ns, err := st.Notifications().List(c.Query("unread") == "true")
		if err != nil {
			return err
		}
		res := make([]NotificationResponse, 0, len(ns))
		for _, n := range ns {
			res = append(res, NotificationResponse{
				ID:        n.ID,
				Kind:      n.Kind,
				RefKey:    n.RefKey,
				Message:   n.Message,
				Read:      n.Read,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		return c.JSON(res)
	}
}

// POST /api/notifications/:id/read
func MarkNotificationReadHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return apperr.New(apperr.KindValidation, "id must be a positive integer")
		}
		if err := st.Notifications().MarkRead(id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/notifications/run-checks — manual trigger for the periodic scan.
func RunChecksHandler(m *Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		written, err := m.RunChecks()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"notifications_written": written})
	}
}
