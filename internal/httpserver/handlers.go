package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/analyzer"
	"github.com/hskaicoach/backend/internal/app"
	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/httpserver/httputil"
)

type handlers struct {
	c *app.Container
}

// setQuotaHeaders mirrors the caller's quota standing on every billed route.
func setQuotaHeaders(c *fiber.Ctx, meta analyzer.Meta) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(meta.Usage.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(meta.Usage.Remaining))
}

// writeAnalyzerError maps the analyzer error taxonomy to HTTP statuses.
// Validation errors carry user-facing Thai messages and pass through as-is.
func writeAnalyzerError(c *fiber.Ctx, err error) error {
	var quotaErr *analyzer.QuotaExceededError
	if errors.As(err, &quotaErr) {
		c.Set("X-RateLimit-Limit", strconv.Itoa(quotaErr.Decision.Limit))
		c.Set("X-RateLimit-Remaining", "0")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": analyzer.ErrQuotaExceeded.Error(),
			"usage": fiber.Map{
				"usage": quotaErr.Decision.CurrentUsage,
				"limit": quotaErr.Decision.Limit,
			},
		})
	}
	if errors.Is(err, analyzer.ErrProviderUnavailable) {
		return httputil.WriteError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	switch {
	case errors.Is(err, hsk.ErrEmptyText),
		errors.Is(err, hsk.ErrEssayTooLong),
		errors.Is(err, hsk.ErrPassageTooLong),
		errors.Is(err, hsk.ErrInvalidLevel),
		errors.Is(err, hsk.ErrNoWritingAtThis):
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	return httputil.WriteError(c, fiber.StatusInternalServerError, "analysis failed")
}
