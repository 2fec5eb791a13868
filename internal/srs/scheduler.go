// Package srs schedules flashcard reviews with the FSRS algorithm. Card
// memory state is serialized to JSON and stored opaquely; only the due date
// is mirrored into a column for efficient due-card queries.
package srs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/hskaicoach/backend/internal/models"
)

var (
	ErrCardNotFound  = errors.New("flashcard not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 4")
)

// CardStore persists flashcards.
type CardStore interface {
	GetCard(ctx context.Context, cardID string) (*models.Flashcard, error)
	UpsertCard(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)
	UpdateCardState(ctx context.Context, cardID string, state []byte, due time.Time) error
	DueCards(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error)
	ListCards(ctx context.Context, userID string) ([]models.Flashcard, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
}

// ratings maps the client's 1-4 grade to FSRS ratings.
var ratings = map[int]fsrs.Rating{
	1: fsrs.Again,
	2: fsrs.Hard,
	3: fsrs.Good,
	4: fsrs.Easy,
}

type Scheduler struct {
	engine *fsrs.FSRS
	store  CardStore
	log    *slog.Logger
}

func NewScheduler(store CardStore, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		engine: fsrs.NewFSRS(fsrs.DefaultParam()),
		store:  store,
		log:    log,
	}
}

// CreateCard adds a word to the user's deck, due immediately. Creating a
// card for a word the user already has resets that card's memory state
// instead of failing, so repeated "add to deck" taps are harmless.
func (s *Scheduler) CreateCard(ctx context.Context, userID, word, pinyin, meaning string, hskLevel int) (*models.Flashcard, error) {
	if word == "" {
		return nil, errors.New("word is required")
	}

	now := time.Now().UTC()
	state, err := json.Marshal(fsrs.NewCard())
	if err != nil {
		return nil, fmt.Errorf("serialize card state: %w", err)
	}

	card := &models.Flashcard{
		UserID:   userID,
		Word:     word,
		Pinyin:   pinyin,
		Meaning:  meaning,
		HSKLevel: hskLevel,
		State:    state,
		Due:      now,
	}
	return s.store.UpsertCard(ctx, card)
}

// Review applies a grade to a card and persists the rescheduled state.
func (s *Scheduler) Review(ctx context.Context, userID, cardID string, rating int, now time.Time) (*models.ReviewOutcome, error) {
	grade, ok := ratings[rating]
	if !ok {
		return nil, ErrInvalidRating
	}

	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.UserID != userID {
		return nil, ErrCardNotFound
	}

	var fsrsCard fsrs.Card
	if err := json.Unmarshal(card.State, &fsrsCard); err != nil {
		// Corrupt state: restart the card rather than brick it.
		s.log.Warn("flashcard state unreadable, resetting", "card_id", cardID, "error", err)
		fsrsCard = fsrs.NewCard()
	}

	schedule := s.engine.Repeat(fsrsCard, now)
	next := schedule[grade].Card

	state, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("serialize card state: %w", err)
	}
	if err := s.store.UpdateCardState(ctx, cardID, state, next.Due); err != nil {
		return nil, fmt.Errorf("persist card state: %w", err)
	}

	return &models.ReviewOutcome{
		CardID:        cardID,
		Due:           next.Due,
		ScheduledDays: int(next.ScheduledDays),
	}, nil
}

// DueCards returns the user's cards due at or before now, soonest first.
func (s *Scheduler) DueCards(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.DueCards(ctx, userID, now, limit)
}

// ListCards returns all of the user's cards.
func (s *Scheduler) ListCards(ctx context.Context, userID string) ([]models.Flashcard, error) {
	return s.store.ListCards(ctx, userID)
}

// DeleteCard removes a card from the user's deck.
func (s *Scheduler) DeleteCard(ctx context.Context, userID, cardID string) error {
	return s.store.DeleteCard(ctx, userID, cardID)
}
