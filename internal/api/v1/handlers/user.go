package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasktracker/internal/models"
	"tasktracker/pkg/logger"
)

// User handlers: the authenticated user's own profile and account. There
// is no path that names another user.

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	// Pointer fields distinguish "not supplied" from empty string or
	// age 0; supplied values always overwrite.
	type UpdateProfileRequest struct {
		FullName   *string `json:"full_name"`
		Email      *string `json:"email" validate:"omitempty,email"`
		Profession *string `json:"profession"`
		Age        *int    `json:"age" validate:"omitempty,gte=0"`
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update profile", zap.Error(err))
		return badRequest(c)
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in update profile", zap.Error(err))
		return validationError(c, err)
	}

	updated, err := h.Users.UpdateProfile(user.ID, models.ProfilePatch{
		FullName:   req.FullName,
		Email:      req.Email,
		Profession: req.Profession,
		Age:        req.Age,
	})
	if err != nil {
		logger.ErrorLogger.Error("Error updating profile", zap.Error(err))
		return serverError(c, "Error updating profile")
	}

	logger.AuditLogger.Info("Profile updated", zap.Int("user_id", user.ID))
	return c.JSON(updated)
}

func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	// Tasks go with the user, in the same transaction.
	if err := h.Users.Delete(user.ID); err != nil {
		logger.ErrorLogger.Error("Error deleting user", zap.Error(err))
		return serverError(c, "Error deleting user")
	}

	logger.AuditLogger.Info("User deleted", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}
