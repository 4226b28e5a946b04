package v1

import (
	"github.com/gofiber/fiber/v2"

	"tasktracker/internal/api/v1/handlers"
	"tasktracker/internal/middleware"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth) {
	// Auth
	app.Post("/register", h.Register)
	app.Post("/token", h.Login)
	app.Post("/reset-password", h.ResetPassword)

	// Task
	taskRoutes := app.Group("/tasks", auth.RequireToken)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)

	// User
	userRoutes := app.Group("/users", auth.RequireToken)
	userRoutes.Put("/me", h.UpdateProfile)
	userRoutes.Delete("/me", h.DeleteAccount)
}
