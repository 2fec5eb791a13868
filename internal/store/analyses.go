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
)

// AnalysisRepository persists analyses, error logs, the cognitive profile
// aggregation, and the durable quota counter.
type AnalysisRepository struct {
	db *pgxpool.Pool
}

func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// SaveAnalysis inserts a completed analysis and fills in the record ID.
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, `
		INSERT INTO analyses (id, user_id, mode, hsk_level, input, result, score, provider, degraded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rec.ID, rec.UserID, rec.Mode, rec.HSKLevel, rec.Input, rec.Result, rec.Score, rec.Provider, rec.Degraded, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns the user's analyses, newest first. The stored input
// is truncated server-side to keep history payloads small.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, userID string, limit, offset int) ([]models.AnalysisRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, mode, hsk_level, left(input, 200), result, score, provider, degraded, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var rec models.AnalysisRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Mode, &rec.HSKLevel, &rec.Input,
			&rec.Result, &rec.Score, &rec.Provider, &rec.Degraded, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LogWritingErrors records each error item and refreshes the user's
// cognitive profile in one transaction.
func (r *AnalysisRepository) LogWritingErrors(ctx context.Context, userID, analysisID string, errs []models.WritingError) error {
	if len(errs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin error log tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range errs {
		_, err := tx.Exec(ctx, `
			INSERT INTO error_logs (id, user_id, analysis_id, category, severity, pattern, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
		`, uuid.New().String(), userID, analysisID, e.Category, e.Severity, e.Type)
		if err != nil {
			return fmt.Errorf("insert error log: %w", err)
		}
	}

	// Refresh the denormalized profile from the raw logs.
	_, err = tx.Exec(ctx, `
		INSERT INTO cognitive_profiles (user_id, weak_patterns, analysis_count, average_score, updated_at)
		SELECT
			$1,
			COALESCE((
				SELECT jsonb_agg(jsonb_build_object('pattern', pattern, 'count', cnt) ORDER BY cnt DESC)
				FROM (
					SELECT pattern, count(*) AS cnt
					FROM error_logs
					WHERE user_id = $1
					GROUP BY pattern
					ORDER BY cnt DESC
					LIMIT 10
				) top
			), '[]'::jsonb),
			(SELECT count(*) FROM analyses WHERE user_id = $1),
			COALESCE((
				SELECT avg(score) FROM (
					SELECT score
					FROM analyses
					WHERE user_id = $1 AND mode = 'writing'
					ORDER BY created_at DESC
					LIMIT 10
				) recent
			), 0),
			now()
		ON CONFLICT (user_id) DO UPDATE SET
			weak_patterns = EXCLUDED.weak_patterns,
			analysis_count = EXCLUDED.analysis_count,
			average_score = EXCLUDED.average_score,
			updated_at = EXCLUDED.updated_at
	`, userID)
	if err != nil {
		return fmt.Errorf("refresh cognitive profile: %w", err)
	}

	return tx.Commit(ctx)
}

// WeakPatterns returns the user's most frequent error patterns.
func (r *AnalysisRepository) WeakPatterns(ctx context.Context, userID string, limit int) ([]models.WeakPattern, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `
		SELECT pattern, count(*) AS cnt
		FROM error_logs
		WHERE user_id = $1
		GROUP BY pattern
		ORDER BY cnt DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("weak patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.WeakPattern
	for rows.Next() {
		var p models.WeakPattern
		if err := rows.Scan(&p.Pattern, &p.Count); err != nil {
			return nil, fmt.Errorf("scan weak pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// CognitiveProfile loads the denormalized profile row, or an empty profile
// when the user has no analyses yet.
func (r *AnalysisRepository) CognitiveProfile(ctx context.Context, userID string) (*models.CognitiveProfile, error) {
	profile := &models.CognitiveProfile{UserID: userID, WeakPatterns: []models.WeakPattern{}}
	err := r.db.QueryRow(ctx, `
		SELECT weak_patterns, analysis_count, average_score, updated_at
		FROM cognitive_profiles
		WHERE user_id = $1
	`, userID).Scan(&profile.WeakPatterns, &profile.AnalysisCount, &profile.AverageScore, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No analyses yet; an empty profile is the correct answer.
			return profile, nil
		}
		return nil, fmt.Errorf("load cognitive profile: %w", err)
	}
	return profile, nil
}

// DailyUsage reads the durable usage counter for a UTC day key.
func (r *AnalysisRepository) DailyUsage(ctx context.Context, userID, day string) (int, error) {
	var usage int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(usage, 0) FROM daily_usage WHERE user_id = $1 AND day = $2
	`, userID, day).Scan(&usage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read daily usage: %w", err)
	}
	return usage, nil
}

// IncrementDailyUsage bumps the durable counter and returns the new value.
func (r *AnalysisRepository) IncrementDailyUsage(ctx context.Context, userID, day string) (int, error) {
	var usage int
	err := r.db.QueryRow(ctx, `
		INSERT INTO daily_usage (user_id, day, usage)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET usage = daily_usage.usage + 1
		RETURNING usage
	`, userID, day).Scan(&usage)
	if err != nil {
		return 0, fmt.Errorf("increment daily usage: %w", err)
	}
	return usage, nil
}
