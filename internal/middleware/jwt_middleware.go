package middleware

import (
	"strings"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// MsgAdminRequired is returned by AdminOnly to authenticated non-admins.
const MsgAdminRequired = "Access denied. Admin privileges required."

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// The resolved user is stored in the request locals, see CurrentUser.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperrors.Authentication(services.MsgNoToken)
		}

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// AdminOnly must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.Authentication(services.MsgNoToken)
		}
		if !user.IsAdmin() {
			return apperrors.Authorization(MsgAdminRequired)
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	return user, ok && user != nil
}

// Expected format: "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
