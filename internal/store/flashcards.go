package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/srs"
)

// FlashcardRepository persists flashcards. It implements srs.CardStore.
type FlashcardRepository struct {
	db *pgxpool.Pool
}

func NewFlashcardRepository(db *pgxpool.Pool) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

const flashcardColumns = `id, user_id, word, pinyin, meaning, hsk_level, state, due, created_at, updated_at`

func scanFlashcard(row pgx.Row) (*models.Flashcard, error) {
	var card models.Flashcard
	err := row.Scan(
		&card.ID, &card.UserID, &card.Word, &card.Pinyin, &card.Meaning,
		&card.HSKLevel, &card.State, &card.Due, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCard loads one card by ID.
func (r *FlashcardRepository) GetCard(ctx context.Context, cardID string) (*models.Flashcard, error) {
	card, err := scanFlashcard(r.db.QueryRow(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE id = $1`, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, srs.ErrCardNotFound
		}
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	return card, nil
}

// UpsertCard inserts the card or, when the user already has this word,
// resets the existing row's state and due date.
func (r *FlashcardRepository) UpsertCard(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	stored, err := scanFlashcard(r.db.QueryRow(ctx, `
		INSERT INTO flashcards (id, user_id, word, pinyin, meaning, hsk_level, state, due, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id, word) DO UPDATE SET
			state = EXCLUDED.state,
			due = EXCLUDED.due,
			updated_at = EXCLUDED.updated_at
		RETURNING `+flashcardColumns,
		card.ID, card.UserID, card.Word, card.Pinyin, card.Meaning,
		card.HSKLevel, card.State, card.Due, now))
	if err != nil {
		return nil, fmt.Errorf("upsert flashcard: %w", err)
	}
	return stored, nil
}

// UpdateCardState persists a rescheduled card.
func (r *FlashcardRepository) UpdateCardState(ctx context.Context, cardID string, state []byte, due time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE flashcards SET state = $2, due = $3, updated_at = now() WHERE id = $1
	`, cardID, state, due)
	if err != nil {
		return fmt.Errorf("update flashcard state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return srs.ErrCardNotFound
	}
	return nil
}

// DueCards returns cards due at or before now, soonest first.
func (r *FlashcardRepository) DueCards(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards
		WHERE user_id = $1 AND due <= $2
		ORDER BY due ASC
		LIMIT $3
	`, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("due flashcards: %w", err)
	}
	return collectFlashcards(rows)
}

// ListCards returns all of the user's cards ordered by word.
func (r *FlashcardRepository) ListCards(ctx context.Context, userID string) ([]models.Flashcard, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+flashcardColumns+` FROM flashcards WHERE user_id = $1 ORDER BY word
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	return collectFlashcards(rows)
}

// DeleteCard removes a card if it belongs to the user.
func (r *FlashcardRepository) DeleteCard(ctx context.Context, userID, cardID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM flashcards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return srs.ErrCardNotFound
	}
	return nil
}

func collectFlashcards(rows pgx.Rows) ([]models.Flashcard, error) {
	defer rows.Close()
	var cards []models.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}
