package httpserver

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/app"
	"github.com/hskaicoach/backend/internal/auth"
	"github.com/hskaicoach/backend/internal/httpserver/httputil"
	"github.com/hskaicoach/backend/internal/models"
)

const (
	authBearerPrefix = "bearer "

	localsIdentity = "identity"
)

// jwtAuth validates the Authorization bearer token and stores the caller
// identity in the request locals.
func jwtAuth(container *app.Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "authorization header required")
		}
		if !strings.HasPrefix(strings.ToLower(raw), authBearerPrefix) {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "bearer token required")
		}

		token := strings.TrimSpace(raw[len(authBearerPrefix):])
		identity, err := container.Tokens.Verify(token)
		if err != nil {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(localsIdentity, identity)
		return c.Next()
	}
}

// adminAuth guards operational endpoints with the static admin API key.
func adminAuth(container *app.Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		configured := container.Config.Admin.APIKey
		if configured == "" {
			return httputil.WriteError(c, fiber.StatusForbidden, "admin API disabled")
		}
		supplied := strings.TrimSpace(c.Get("X-Admin-Key"))
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) != 1 {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid admin key")
		}
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) *auth.Identity {
	if id, ok := c.Locals(localsIdentity).(*auth.Identity); ok {
		return id
	}
	return &auth.Identity{Plan: models.PlanFree}
}
