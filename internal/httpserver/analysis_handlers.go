package httpserver

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/httpserver/httputil"
)

type analyzeRequest struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

func (h *handlers) analyzeWriting(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := identityFrom(c)
	result, meta, err := h.c.Analyzer.AnalyzeWriting(c.UserContext(), id.UserID, id.Plan, req.Text, req.Level)
	if err != nil {
		return writeAnalyzerError(c, err)
	}

	setQuotaHeaders(c, meta)
	return c.JSON(fiber.Map{
		"result": result,
		"meta":   meta,
	})
}

func (h *handlers) analyzeReading(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := identityFrom(c)
	result, meta, err := h.c.Analyzer.AnalyzeReading(c.UserContext(), id.UserID, id.Plan, req.Text, req.Level)
	if err != nil {
		return writeAnalyzerError(c, err)
	}

	setQuotaHeaders(c, meta)
	return c.JSON(fiber.Map{
		"result": result,
		"meta":   meta,
	})
}

func (h *handlers) generateExercises(c *fiber.Ctx) error {
	var req struct {
		Level int `json:"level"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := identityFrom(c)
	exercises, meta, err := h.c.Analyzer.GenerateExercises(c.UserContext(), id.UserID, id.Plan, req.Level)
	if err != nil {
		return writeAnalyzerError(c, err)
	}

	setQuotaHeaders(c, meta)
	return c.JSON(fiber.Map{
		"exercises": exercises,
		"meta":      meta,
	})
}

func (h *handlers) usage(c *fiber.Ctx) error {
	id := identityFrom(c)
	usage, err := h.c.Analyzer.Usage(c.UserContext(), id.UserID, id.Plan)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "usage lookup failed")
	}
	return c.JSON(usage)
}

func (h *handlers) history(c *fiber.Ctx) error {
	id := identityFrom(c)
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, err := h.c.Analyses.ListAnalyses(c.UserContext(), id.UserID, limit, offset)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "history lookup failed")
	}
	return c.JSON(fiber.Map{
		"analyses": records,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *handlers) profile(c *fiber.Ctx) error {
	id := identityFrom(c)
	profile, err := h.c.Analyses.CognitiveProfile(c.UserContext(), id.UserID)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "profile lookup failed")
	}
	return c.JSON(profile)
}
