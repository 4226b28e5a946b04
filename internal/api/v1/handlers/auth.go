package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasktracker/internal/auth"
	"tasktracker/internal/repository"
	"tasktracker/pkg/logger"
)

// Auth handlers

func (h *Handler) Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Username    string `json:"username" form:"username" validate:"required"`
		Password    string `json:"password" form:"password" validate:"required"`
		RecoveryKey string `json:"recovery_key" form:"recovery_key" validate:"required"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return badRequest(c)
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return validationError(c, err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return serverError(c, "Error hashing password")
	}

	// The recovery key is stored verbatim: it is a permanent reusable
	// shared secret compared byte-for-byte on reset.
	user, err := h.Users.Create(req.Username, hashed, req.RecoveryKey)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			logger.SecurityLogger.Warn("Duplicate username", zap.String("username", req.Username))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Username already exists",
				"success": false,
				"status":  fiber.StatusBadRequest,
			})
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return serverError(c, "Error creating user")
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data": fiber.Map{
			"id": user.ID,
		},
	})
}

// Login exchanges a username and password for a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return badRequest(c)
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return validationError(c, err)
	}

	// Unknown username and wrong password produce the same response.
	user, err := h.Users.FindByUsername(req.Username)
	if err != nil {
		logger.SecurityLogger.Warn("Login for unknown user", zap.String("username", req.Username))
		return invalidCredentials(c)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		logger.SecurityLogger.Warn("Invalid password", zap.String("username", req.Username))
		return invalidCredentials(c)
	}

	tokenString, err := h.Tokens.Issue(user.Username)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return serverError(c, "Error generating token")
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"access_token": tokenString,
		"token_type":   "bearer",
	})
}

// ResetPassword rehashes the password after an exact recovery key match.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	type ResetPasswordRequest struct {
		Username    string `json:"username" form:"username" validate:"required"`
		RecoveryKey string `json:"recovery_key" form:"recovery_key" validate:"required"`
		NewPassword string `json:"new_password" form:"new_password" validate:"required"`
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in reset password", zap.Error(err))
		return badRequest(c)
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during reset password", zap.Error(err))
		return validationError(c, err)
	}

	user, err := h.Users.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  fiber.StatusNotFound,
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return serverError(c, "Error fetching user")
	}

	if user.RecoveryKey != req.RecoveryKey {
		logger.SecurityLogger.Warn("Invalid recovery key", zap.String("username", req.Username))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recovery key",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return serverError(c, "Error hashing password")
	}

	if err := h.Users.UpdatePassword(user.ID, hashed); err != nil {
		logger.ErrorLogger.Error("Error updating password", zap.Error(err))
		return serverError(c, "Error updating password")
	}

	logger.AuditLogger.Info("Password reset", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid credentials",
		"success": false,
		"status":  fiber.StatusBadRequest,
	})
}
