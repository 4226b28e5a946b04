package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasktracker/internal/auth"
	"tasktracker/internal/repository"
	"tasktracker/pkg/logger"
)

// Auth resolves bearer tokens to user records for protected routes.
type Auth struct {
	Tokens *auth.TokenIssuer
	Users  *repository.UserRepo
}

func NewAuth(tokens *auth.TokenIssuer, users *repository.UserRepo) *Auth {
	return &Auth{Tokens: tokens, Users: users}
}

// RequireToken rejects the request unless it carries a valid bearer token
// whose subject resolves to an existing user. Every failure mode (missing
// or malformed header, bad signature, expired token, unknown subject)
// returns the exact same 401 body so callers cannot tell them apart.
func (a *Auth) RequireToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		logger.SecurityLogger.Warn("Missing or malformed bearer token", zap.String("path", c.Path()))
		return unauthorized(c)
	}

	username, err := a.Tokens.Verify(parts[1])
	if err != nil {
		logger.SecurityLogger.Warn("Rejected token", zap.String("path", c.Path()))
		return unauthorized(c)
	}

	user, err := a.Users.FindByUsername(username)
	if err != nil {
		logger.SecurityLogger.Warn("Token subject unknown", zap.String("username", username))
		return unauthorized(c)
	}

	c.Locals("user", user)
	return c.Next()
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}
