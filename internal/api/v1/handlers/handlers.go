package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tasktracker/internal/auth"
	"tasktracker/internal/repository"
)

// Handler holds every dependency the endpoints need. Wired once in main;
// no package globals.
type Handler struct {
	Users    *repository.UserRepo
	Tasks    *repository.TaskRepo
	Tokens   *auth.TokenIssuer
	Validate *validator.Validate
}

func New(users *repository.UserRepo, tasks *repository.TaskRepo, tokens *auth.TokenIssuer) *Handler {
	return &Handler{
		Users:    users,
		Tasks:    tasks,
		Tokens:   tokens,
		Validate: validator.New(),
	}
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Bad request",
		"success": false,
		"status":  fiber.StatusBadRequest,
	})
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation error",
		"errors":  err.Error(),
		"success": false,
		"status":  fiber.StatusUnprocessableEntity,
	})
}

func serverError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusInternalServerError,
	})
}
