package website

import (
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/config"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/uploads"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type StoryRequest struct {
	Title     string `json:"title" validate:"required,max=150"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

type StoryResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Body      string `json:"body"`
	ImagePath string `json:"image_path"`
	Published bool   `json:"published"`
	CreatedAt string `json:"created_at"`
}

func toStoryResponse(s *models.Story) StoryResponse {
	return StoryResponse{
		ID: s.ID, Title: s.Title, Slug: s.Slug, Body: s.Body,
		ImagePath: s.ImagePath, Published: s.Published,
		CreatedAt: s.CreatedAt.Format("2006-01-02"),
	}
}

// slugify lowercases the title and keeps letters, digits and hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// GET /api/stories — CMS listing, drafts included.
func ListStoriesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stories, err := st.Stories().List(false)
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

// POST /api/stories
func CreateStoryHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Title = strings.TrimSpace(body.Title)
		if err := validate.Struct(body); err != nil {
			return err
		}

		story := models.Story{
			Title:     body.Title,
			Slug:      slugify(body.Title),
			Body:      body.Body,
			Published: body.Published,
		}
		if story.Slug == "" {
			return apperr.New(apperr.KindValidation, "title must contain letters or digits")
		}
		if err := st.Stories().Create(&story); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toStoryResponse(&story))
	}
}

// PUT /api/stories/:id — the slug follows the title, so published links break
// on rename; editors are warned in the UI.
func UpdateStoryHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		story, err := st.Stories().GetByID(id)
		if err != nil {
			return err
		}

		var body StoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Title = strings.TrimSpace(body.Title)
		if err := validate.Struct(body); err != nil {
			return err
		}

		story.Title = body.Title
		story.Slug = slugify(body.Title)
		story.Body = body.Body
		story.Published = body.Published

		if err := st.Stories().Update(story); err != nil {
			return err
		}
		return c.JSON(toStoryResponse(story))
	}
}

// DELETE /api/stories/:id
func DeleteStoryHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		story, err := st.Stories().GetByID(id)
		if err != nil {
			return err
		}
		if err := st.Stories().Delete(id); err != nil {
			return err
		}
		uploads.Remove(cfg.UploadPath, story.ImagePath)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/stories/:id/image
func UploadStoryImageHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		story, err := st.Stories().GetByID(id)
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

		old := story.ImagePath
		story.ImagePath = name
		if err := st.Stories().Update(story); err != nil {
			uploads.Remove(cfg.UploadPath, name)
			return err
		}
		uploads.Remove(cfg.UploadPath, old)

		return c.JSON(fiber.Map{"image_path": name})
	}
}
