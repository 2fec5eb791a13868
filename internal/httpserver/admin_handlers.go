package httpserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/httpserver/httputil"
	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/store"
)

func (h *handlers) cacheStats(c *fiber.Ctx) error {
	return c.JSON(h.c.CacheStats.Snapshot())
}

func (h *handlers) cacheFlush(c *fiber.Ctx) error {
	deleted, err := h.c.Cache.Flush(c.UserContext())
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "cache flush failed")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (h *handlers) updateUserPlan(c *fiber.Ctx) error {
	var req struct {
		Plan models.Plan `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Plan != models.PlanFree && req.Plan != models.PlanPremium {
		return httputil.WriteError(c, fiber.StatusBadRequest, "plan must be FREE or PREMIUM")
	}

	if err := h.c.Users.UpdatePlan(c.UserContext(), c.Params("id"), req.Plan); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "user not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "plan update failed")
	}
	return c.JSON(fiber.Map{"plan": req.Plan})
}
