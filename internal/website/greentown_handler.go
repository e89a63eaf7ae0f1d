package website

import (
	"fmt"
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/config"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/uploads"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type GreenTownRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Region       string `json:"region" validate:"max=100"`
	Description  string `json:"description" validate:"max=1000"`
	TreesPlanted int    `json:"trees_planted" validate:"gte=0"`
}

type GreenTownPhotoResponse struct {
	ID        uint   `json:"id"`
	Caption   string `json:"caption"`
	ImagePath string `json:"image_path"`
}

type GreenTownResponse struct {
	ID           uint                     `json:"id"`
	Name         string                   `json:"name"`
	Region       string                   `json:"region"`
	Description  string                   `json:"description"`
	TreesPlanted int                      `json:"trees_planted"`
	Photos       []GreenTownPhotoResponse `json:"photos"`
}

func toGreenTownResponse(g *models.GreenTown) GreenTownResponse {
	res := GreenTownResponse{
		ID: g.ID, Name: g.Name, Region: g.Region,
		Description: g.Description, TreesPlanted: g.TreesPlanted,
		Photos: make([]GreenTownPhotoResponse, 0, len(g.Photos)),
	}
	for _, p := range g.Photos {
		res.Photos = append(res.Photos, GreenTownPhotoResponse{
			ID: p.ID, Caption: p.Caption, ImagePath: p.ImagePath,
		})
	}
	return res
}

// GET /api/green-towns
func ListGreenTownsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		towns, err := st.GreenTowns().List()
		if err != nil {
			return err
		}
		res := make([]GreenTownResponse, 0, len(towns))
		for i := range towns {
			res = append(res, toGreenTownResponse(&towns[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/green-towns
func CreateGreenTownHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GreenTownRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return err
		}

		town := models.GreenTown{
			Name:         body.Name,
			Region:       strings.TrimSpace(body.Region),
			Description:  strings.TrimSpace(body.Description),
			TreesPlanted: body.TreesPlanted,
		}
		if err := st.GreenTowns().Create(&town); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toGreenTownResponse(&town))
	}
}

// PUT /api/green-towns/:id
func UpdateGreenTownHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		town, err := st.GreenTowns().GetByID(id)
		if err != nil {
			return err
		}

		var body GreenTownRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return err
		}

		town.Name = body.Name
		town.Region = strings.TrimSpace(body.Region)
		town.Description = strings.TrimSpace(body.Description)
		town.TreesPlanted = body.TreesPlanted

		if err := st.GreenTowns().Update(town); err != nil {
			return err
		}
		return c.JSON(toGreenTownResponse(town))
	}
}

// DELETE /api/green-towns/:id
func DeleteGreenTownHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		town, err := st.GreenTowns().GetByID(id)
		if err != nil {
			return err
		}
		if err := st.GreenTowns().Delete(id); err != nil {
			return err
		}
		for _, p := range town.Photos {
			uploads.Remove(cfg.UploadPath, p.ImagePath)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/green-towns/:id/photos — multipart: image file plus a caption field.
func AddGreenTownPhotoHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if _, err := st.GreenTowns().GetByID(id); err != nil {
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

		photo := models.GreenTownPhoto{
			GreenTownID: id,
			Caption:     strings.TrimSpace(c.FormValue("caption")),
			ImagePath:   name,
		}
		if err := st.GreenTowns().AddPhoto(&photo); err != nil {
			uploads.Remove(cfg.UploadPath, name)
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(GreenTownPhotoResponse{
			ID: photo.ID, Caption: photo.Caption, ImagePath: photo.ImagePath,
		})
	}
}

// DELETE /api/green-towns/:id/photos/:photoID
func DeleteGreenTownPhotoHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		townID, err := parseIDParam(c)
		if err != nil {
			return err
		}
		town, err := st.GreenTowns().GetByID(townID)
		if err != nil {
			return err
		}

		var photoID uint
		if _, err := fmt.Sscan(c.Params("photoID"), &photoID); err != nil || photoID == 0 {
			return apperr.New(apperr.KindValidation, "photoID must be a positive integer")
		}

		for _, p := range town.Photos {
			if p.ID == photoID {
				if err := st.GreenTowns().DeletePhoto(photoID); err != nil {
					return err
				}
				uploads.Remove(cfg.UploadPath, p.ImagePath)
				return c.SendStatus(fiber.StatusNoContent)
			}
		}
		return apperr.New(apperr.KindNotFound, "photo not found")
	}
}
