package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VocabularyRepository stores the HSK word list. The list is written by the
// seed command and read once at startup to build the in-memory index.
type VocabularyRepository struct {
	db *pgxpool.Pool
}

func NewVocabularyRepository(db *pgxpool.Pool) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// VocabEntry is one seeded word.
type VocabEntry struct {
	Word   string
	Level  int
	Pinyin string
}

// ReplaceAll swaps the entire word list inside one transaction.
func (r *VocabularyRepository) ReplaceAll(ctx context.Context, entries []VocabEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin vocabulary tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE vocabulary`); err != nil {
		return fmt.Errorf("truncate vocabulary: %w", err)
	}

	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.Word, e.Level, e.Pinyin}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"vocabulary"},
		[]string{"word", "level", "pinyin"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy vocabulary: %w", err)
	}

	return tx.Commit(ctx)
}

// WordLevels loads the full word->level map.
func (r *VocabularyRepository) WordLevels(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT word, level FROM vocabulary`)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	defer rows.Close()

	words := map[string]int{}
	for rows.Next() {
		var (
			word  string
			level int
		)
		if err := rows.Scan(&word, &level); err != nil {
			return nil, fmt.Errorf("scan vocabulary: %w", err)
		}
		words[word] = level
	}
	return words, rows.Err()
}

// Count returns the number of seeded words.
func (r *VocabularyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM vocabulary`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count vocabulary: %w", err)
	}
	return count, nil
}
