package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasktracker/internal/models"
	"tasktracker/internal/repository"
	"tasktracker/pkg/logger"
)

// Task handlers. Every operation is scoped to the user resolved by the
// auth middleware; there is no way to reach another owner's rows.

const defaultDescription = "No description"

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	type TaskRequest struct {
		Title       string  `json:"title" validate:"required"`
		Description *string `json:"description"`
		IsCompleted bool    `json:"is_completed"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return badRequest(c)
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create task", zap.Error(err))
		return validationError(c, err)
	}

	description := defaultDescription
	if req.Description != nil {
		description = *req.Description
	}

	task, err := h.Tasks.Create(user.ID, req.Title, description, req.IsCompleted)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return serverError(c, "Error creating task")
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("user_id", user.ID))
	return c.JSON(task)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	tasks, err := h.Tasks.ListByOwner(user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return serverError(c, "Error fetching tasks")
	}

	return c.JSON(tasks)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		// A non-numeric id cannot name an owned task
		return taskNotFound(c)
	}

	if err := h.Tasks.DeleteByIDAndOwner(taskID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Delete of missing or foreign task",
				zap.Int("task_id", taskID), zap.Int("user_id", user.ID))
			return taskNotFound(c)
		}
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return serverError(c, "Error deleting task")
	}

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID), zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// taskNotFound is the single answer for both "no such task" and "someone
// else's task", so owners cannot be enumerated.
func taskNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Task not found",
		"success": false,
		"status":  fiber.StatusNotFound,
	})
}
