// Package website serves the public content surface of the nursery site and
// its authenticated CMS counterpart: product listings gated by the
// ready-for-sale flag, impact stories, and green-town photo galleries.
package website

import (
	"fmt"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PublicProduct struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	ItemType    models.ItemType `json:"item_type"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	InStock     bool            `json:"in_stock"`
	ImagePath   string          `json:"image_path"`
	Description string          `json:"description"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, apperr.New(apperr.KindValidation, "id must be a positive integer")
	}
	return id, nil
}

// GET /public/products — only ready-for-sale batches; cost fields never leave
// the back office.
func PublicProductsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ready := true
		batches, err := st.Inventory().List(store.InventoryFilter{ReadyForSale: &ready})
		if err != nil {
			return err
		}

		res := make([]PublicProduct, 0, len(batches))
		for _, b := range batches {
			res = append(res, PublicProduct{
				SKU:         b.SKU,
				Name:        b.Name,
				Category:    b.Category,
				Unit:        b.Unit,
				ItemType:    b.ItemType,
				UnitPrice:   b.UnitPrice,
				InStock:     b.Quantity > 0,
				ImagePath:   b.ImagePath,
				Description: b.Description,
			})
		}
		return c.JSON(res)
	}
}

// GET /public/stories — published stories only.
func PublicStoriesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stories, err := st.Stories().List(true)
		if err != nil {
			return err
		}
		res := make([]StoryResponse, 0, len(stories))
		for i := range stories {
			res = append(res, toStoryResponse(&stories[i]))
		}
		return c.JSON(res)
	}
}

// GET /public/stories/:slug
func PublicStoryHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		story, err := st.Stories().GetBySlug(c.Params("slug"))
		if err != nil {
			return err
		}
		if !story.Published {
			return apperr.New(apperr.KindNotFound, "story not found")
		}
		return c.JSON(toStoryResponse(story))
	}
}

// GET /public/green-towns
func PublicGreenTownsHandler(st store.Store) fiber.Handler {
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
