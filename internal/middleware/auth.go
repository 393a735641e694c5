package middleware

import (
	"strings"

	"github.com/fathima-sithara/vidstream/internal/auth"
	"github.com/fathima-sithara/vidstream/internal/models"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// RequireAuth extracts the access token from the accessToken cookie or the
// Authorization header, verifies it and attaches the sanitized user to the
// request. Every failure collapses to the same 401.
func RequireAuth(tokens *auth.TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := resolveUser(c, tokens, users)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid access token")
		}
		c.Locals(userLocalsKey, u)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid access token is present but
// lets anonymous requests through.
func OptionalAuth(tokens *auth.TokenManager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, err := resolveUser(c, tokens, users); err == nil {
			c.Locals(userLocalsKey, u)
		}
		return c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(userLocalsKey).(*models.User)
	return u
}

func resolveUser(c *fiber.Ctx, tokens *auth.TokenManager, users repository.UserRepository) (*models.User, error) {
	token := c.Cookies("accessToken")
	if token == "" {
		header := c.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}
	return users.FindSanitizedByID(c.Context(), claims.UserID)
}
