package httpserver

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/httpserver/httputil"
	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/srs"
)

type createFlashcardRequest struct {
	Word     string `json:"word"`
	Pinyin   string `json:"pinyin"`
	Meaning  string `json:"meaning"`
	HSKLevel int    `json:"hskLevel"`
}

func (h *handlers) createFlashcard(c *fiber.Ctx) error {
	var req createFlashcardRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "word required")
	}
	if req.HSKLevel != 0 && !hsk.ValidLevel(req.HSKLevel) {
		return httputil.WriteError(c, fiber.StatusBadRequest, hsk.ErrInvalidLevel.Error())
	}

	id := identityFrom(c)
	card, err := h.c.Scheduler.CreateCard(c.UserContext(), id.UserID, req.Word, req.Pinyin, req.Meaning, req.HSKLevel)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not create flashcard")
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func (h *handlers) listFlashcards(c *fiber.Ctx) error {
	id := identityFrom(c)
	cards, err := h.c.Scheduler.ListCards(c.UserContext(), id.UserID)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not list flashcards")
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return c.JSON(fiber.Map{"cards": cards})
}

func (h *handlers) dueFlashcards(c *fiber.Ctx) error {
	id := identityFrom(c)
	limit := c.QueryInt("limit", 0)
	cards, err := h.c.Scheduler.DueCards(c.UserContext(), id.UserID, time.Now().UTC(), limit)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not list due flashcards")
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return c.JSON(fiber.Map{"cards": cards})
}

func (h *handlers) reviewFlashcard(c *fiber.Ctx) error {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := identityFrom(c)
	outcome, err := h.c.Scheduler.Review(c.UserContext(), id.UserID, c.Params("id"), req.Rating, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, srs.ErrInvalidRating):
			return httputil.WriteError(c, fiber.StatusBadRequest, "rating must be between 1 and 4")
		case errors.Is(err, srs.ErrCardNotFound):
			return httputil.WriteError(c, fiber.StatusNotFound, "flashcard not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "review failed")
	}
	return c.JSON(outcome)
}

func (h *handlers) deleteFlashcard(c *fiber.Ctx) error {
	id := identityFrom(c)
	if err := h.c.Scheduler.DeleteCard(c.UserContext(), id.UserID, c.Params("id")); err != nil {
		if errors.Is(err, srs.ErrCardNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "flashcard not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
