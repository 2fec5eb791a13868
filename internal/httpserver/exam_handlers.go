package httpserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/exam"
	"github.com/hskaicoach/backend/internal/httpserver/httputil"
	"github.com/hskaicoach/backend/internal/models"
)

func (h *handlers) listExams(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"exams": h.c.Exams.List()})
}

// getExam serves the paper with answer keys stripped.
func (h *handlers) getExam(c *fiber.Ctx) error {
	paper, err := h.c.Exams.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, exam.ErrExamNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "exam not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "exam lookup failed")
	}
	return c.JSON(exam.Redacted(paper))
}

func (h *handlers) gradeExam(c *fiber.Ctx) error {
	var req struct {
		Answers []models.ExamAnswer `json:"answers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	paper, err := h.c.Exams.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, exam.ErrExamNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "exam not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "exam lookup failed")
	}
	return c.JSON(exam.Grade(paper, req.Answers))
}
