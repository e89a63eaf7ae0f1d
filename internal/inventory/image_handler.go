package inventory

import (
	"nursery-backend/internal/apperr"
	"nursery-backend/internal/config"
	"nursery-backend/internal/store"
	"nursery-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
)

// POST /api/inventory/:id/image — attach or replace the batch photo.
func UploadBatchImageHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		b, err := st.Inventory().GetByID(id)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return apperr.New(apperr.KindValidation, "an image upload named 'image' is required")
		}

		name, err := uploads.SaveImage(fileHeader, cfg.UploadPath)
		if err != nil {
			return err
		}

		old := b.ImagePath
		b.ImagePath = name
		if err := st.Inventory().Update(b); err != nil {
			uploads.Remove(cfg.UploadPath, name)
			return err
		}
		uploads.Remove(cfg.UploadPath, old)

		return c.JSON(fiber.Map{"image_path": name})
	}
}
