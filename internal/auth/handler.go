package auth

import (
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/config"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
	"nursery-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterOwnerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register-owner — one-time bootstrap; refused once an owner
// exists.
func RegisterOwnerHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(body); err != nil {
			return err
		}

		count, err := st.Users().CountByRole(models.RoleOwner)
		if err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "an owner account already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOwner,
		}
		if err := st.Users().Create(&user); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/staff (owner only)
func CreateStaffHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(body); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleStaff,
		}
		if err := st.Users().Create(&user); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(st store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.New(apperr.KindValidation, "invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(body); err != nil {
			return err
		}

		user, err := st.Users().GetByEmail(body.Email)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "email or password is incorrect")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "email or password is incorrect")
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "token could not be generated")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "user information is missing")
		}
		user, err := st.Users().GetByID(userID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
		})
	}
}
