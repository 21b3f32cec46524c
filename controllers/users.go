package controllers

import (
	"errors"
	"strings"

	"vitrine/middleware"
	"vitrine/models"
	"vitrine/utils"

	"github.com/gofiber/fiber/v2"
)

const minPasswordLen = 6

func validateCredentials(u models.User_input) error {
	var fields []string
	if !strings.Contains(u.Email, "@") {
		fields = append(fields, "email")
	}
	if len(u.Password) < minPasswordLen {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// POST /api/auth/register
func (h *Handler) Register(c *fiber.Ctx) error {
	var U models.User_input
	if err := c.BodyParser(&U); err != nil {
		return badBody(err)
	}
	if err := validateCredentials(U); err != nil {
		return err
	}

	hash, err := utils.HashPassword(U.Password)
	if err != nil {
		return err
	}
	user, err := h.Store.CreateUser(c.UserContext(), U.Email, hash, models.RoleUser)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user":    user,
	})
}

// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var U models.User_input
	if err := c.BodyParser(&U); err != nil {
		return badBody(err)
	}

	user, err := h.Store.UserByEmail(c.UserContext(), U.Email)
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, U.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Token generation failed",
		})
	}

	utils.SetJWTCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// POST /api/auth/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	utils.ClearJWTCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GET /api/auth/me
func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.Store.UserByID(c.UserContext(), middleware.UserID(c))
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
