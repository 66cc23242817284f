package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/yeny-crm/internal/config"
	"github.com/example/yeny-crm/internal/services"
	"github.com/example/yeny-crm/internal/utils"
)

const identityContextKey = "currentIdentity"

// AuthMiddleware validates JWT tokens and loads the caller's identity
// into the request context. The core never reads ambient session state;
// handlers pull the identity out once and pass it down explicitly.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(identityContextKey, services.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   claims.Role,
		})
		return c.Next()
	}
}

// GetCurrentIdentity extracts the authenticated identity from context.
func GetCurrentIdentity(c *fiber.Ctx) (services.Identity, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return services.Identity{}, false
	}

	if identity, ok := value.(services.Identity); ok {
		return identity, true
	}

	return services.Identity{}, false
}
