// Package analyzer orchestrates one analysis request end to end: input
// validation, quota gating, the response cache, the provider fallback chain,
// result parsing, and persistence. Quota is charged only when a live vendor
// was billed; cache hits and degraded results are free.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hskaicoach/backend/internal/aicache"
	"github.com/hskaicoach/backend/internal/aichain"
	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/prompts"
	"github.com/hskaicoach/backend/internal/providers"
	"github.com/hskaicoach/backend/internal/quota"
)

// ErrProviderUnavailable is returned when no provider answered and no cached
// result could stand in.
var ErrProviderUnavailable = errors.New("AI ไม่พร้อมใช้งานชั่วคราว กรุณาลองใหม่อีกครั้ง")

// ErrQuotaExceeded is the sentinel wrapped by QuotaExceededError.
var ErrQuotaExceeded = errors.New("ใช้งานครบจำนวนครั้งต่อวันแล้ว")

// QuotaExceededError carries the usage standing for the 429 response body.
type QuotaExceededError struct {
	Decision quota.Decision
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily quota exceeded (%d/%d)", e.Decision.CurrentUsage, e.Decision.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// Store persists analyses and error logs for history and profile building.
type Store interface {
	SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error
	LogWritingErrors(ctx context.Context, userID, analysisID string, errs []models.WritingError) error
	WeakPatterns(ctx context.Context, userID string, limit int) ([]models.WeakPattern, error)
}

// QuotaMetrics counts rejected requests.
type QuotaMetrics interface {
	RecordQuotaRejection()
}

// Meta describes how a result was produced.
type Meta struct {
	Provider string         `json:"provider"`
	Cached   bool           `json:"cached"`
	Degraded bool           `json:"degraded"`
	Latency  time.Duration  `json:"-"`
	Usage    quota.Decision `json:"-"`
}

// Options wires the service.
type Options struct {
	Gate    *quota.Gate
	Cache   *aicache.Cache
	Chain   *aichain.Chain
	Store   Store
	Vocab   WordLeveler
	Metrics QuotaMetrics
	Log     *slog.Logger

	// Prepass runs the cheap DeepSeek grammar check before writing
	// analysis. Optional; failures are logged and ignored.
	Prepass providers.Completer
}

type Service struct {
	gate    *quota.Gate
	cache   *aicache.Cache
	chain   *aichain.Chain
	store   Store
	vocab   WordLeveler
	metrics QuotaMetrics
	prepass providers.Completer
	log     *slog.Logger
}

func NewService(opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gate:    opts.Gate,
		cache:   opts.Cache,
		chain:   opts.Chain,
		store:   opts.Store,
		vocab:   opts.Vocab,
		metrics: opts.Metrics,
		prepass: opts.Prepass,
		log:     log,
	}
}

// AnalyzeWriting runs writing-mode analysis for an essay.
func (s *Service) AnalyzeWriting(ctx context.Context, userID string, plan models.Plan, essay string, level int) (*models.WritingResult, Meta, error) {
	essay, err := hsk.ValidateEssay(essay, level)
	if err != nil {
		return nil, Meta{}, err
	}

	payload, meta, err := s.run(ctx, userID, plan, models.ModeWriting, essay, level, func(ctx context.Context) (providers.Request, error) {
		grammarNotes := s.runPrepass(ctx, essay)
		return providers.Request{
			System: prompts.SystemWriting,
			User:   prompts.UserWriting(level, essay, grammarNotes),
		}, nil
	}, func(raw string) (any, error) {
		return ParseWriting(raw, level)
	})
	if err != nil {
		return nil, meta, err
	}

	var result models.WritingResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, meta, fmt.Errorf("decode stored writing result: %w", err)
	}

	if !meta.Cached && !meta.Degraded && s.store != nil {
		rec := &models.AnalysisRecord{
			UserID:   userID,
			Mode:     models.ModeWriting,
			HSKLevel: level,
			Input:    essay,
			Result:   payload,
			Score:    result.Score.Total,
			Provider: meta.Provider,
		}
		if err := s.store.SaveAnalysis(ctx, rec); err != nil {
			s.log.Error("save analysis failed", "user_id", userID, "error", err)
		} else if err := s.store.LogWritingErrors(ctx, userID, rec.ID, result.Errors); err != nil {
			s.log.Error("log writing errors failed", "user_id", userID, "error", err)
		}
	}

	return &result, meta, nil
}

// AnalyzeReading runs reading-mode analysis for a passage.
func (s *Service) AnalyzeReading(ctx context.Context, userID string, plan models.Plan, passage string, level int) (*models.ReadingResult, Meta, error) {
	passage, err := hsk.ValidatePassage(passage, level)
	if err != nil {
		return nil, Meta{}, err
	}

	payload, meta, err := s.run(ctx, userID, plan, models.ModeReading, passage, level, func(ctx context.Context) (providers.Request, error) {
		return providers.Request{
			System: prompts.SystemReading,
			User:   prompts.UserReading(level, passage),
		}, nil
	}, func(raw string) (any, error) {
		return ParseReading(raw, level, s.vocab)
	})
	if err != nil {
		return nil, meta, err
	}

	var result models.ReadingResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, meta, fmt.Errorf("decode stored reading result: %w", err)
	}

	if !meta.Cached && !meta.Degraded && s.store != nil {
		rec := &models.AnalysisRecord{
			UserID:   userID,
			Mode:     models.ModeReading,
			HSKLevel: level,
			Input:    passage,
			Result:   payload,
			Provider: meta.Provider,
		}
		if err := s.store.SaveAnalysis(ctx, rec); err != nil {
			s.log.Error("save analysis failed", "user_id", userID, "error", err)
		}
	}

	return &result, meta, nil
}

// GenerateExercises builds targeted drills from the user's recent error
// patterns. With no recorded weaknesses it still generates generic drills
// for the level.
func (s *Service) GenerateExercises(ctx context.Context, userID string, plan models.Plan, level int) ([]models.Exercise, Meta, error) {
	if !hsk.ValidLevel(level) {
		return nil, Meta{}, hsk.ErrInvalidLevel
	}

	weakPatterns := "ไม่มีข้อมูลจุดอ่อน (สร้างแบบฝึกหัดทั่วไปตามระดับ)"
	if s.store != nil {
		patterns, err := s.store.WeakPatterns(ctx, userID, 5)
		if err != nil {
			s.log.Warn("load weak patterns failed", "user_id", userID, "error", err)
		} else if len(patterns) > 0 {
			var b []byte
			b, _ = json.Marshal(patterns)
			weakPatterns = string(b)
		}
	}

	payload, meta, err := s.run(ctx, userID, plan, models.ModeExercise, weakPatterns, level, func(ctx context.Context) (providers.Request, error) {
		return providers.Request{
			System: prompts.SystemExercise,
			User:   prompts.UserExercise(weakPatterns, level),
		}, nil
	}, func(raw string) (any, error) {
		return ParseExercises(raw)
	})
	if err != nil {
		return nil, meta, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(payload, &exercises); err != nil {
		return nil, meta, fmt.Errorf("decode stored exercises: %w", err)
	}
	return exercises, meta, nil
}

// Usage reports the user's standing for the usage endpoint.
func (s *Service) Usage(ctx context.Context, userID string, plan models.Plan) (models.DailyUsage, error) {
	dec, err := s.gate.Check(ctx, userID, plan, time.Now().UTC())
	if err != nil {
		return models.DailyUsage{}, err
	}
	usage := models.DailyUsage{
		Usage:   dec.CurrentUsage,
		Allowed: dec.Allowed,
		Plan:    plan,
	}
	if plan != models.PlanPremium {
		limit := dec.Limit
		usage.Limit = &limit
	}
	return usage, nil
}

// run is the shared pipeline: quota check, cache, chain with one retry on
// malformed JSON, parse, cache write, quota charge. It returns the
// normalized result re-serialized to JSON.
func (s *Service) run(
	ctx context.Context,
	userID string,
	plan models.Plan,
	mode models.Mode,
	input string,
	level int,
	buildRequest func(ctx context.Context) (providers.Request, error),
	parse func(raw string) (any, error),
) ([]byte, Meta, error) {
	now := time.Now().UTC()

	dec, err := s.gate.Check(ctx, userID, plan, now)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("quota check: %w", err)
	}
	if !dec.Allowed {
		if s.metrics != nil {
			s.metrics.RecordQuotaRejection()
		}
		return nil, Meta{Usage: dec}, &QuotaExceededError{Decision: dec}
	}

	if cached, ok := s.cache.Get(ctx, string(mode), input, level, userID); ok {
		return cached, Meta{Provider: "cache", Cached: true, Usage: dec}, nil
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	var (
		completion aichain.Completion
		parsed     any
	)
	// One retry on malformed JSON; a second garbage answer fails the request.
	for attempt := 0; attempt < 2; attempt++ {
		completion, err = s.chain.Call(ctx, req, string(mode), level)
		if err != nil {
			if errors.Is(err, aichain.ErrAllProvidersFailed) {
				return nil, Meta{}, ErrProviderUnavailable
			}
			return nil, Meta{}, err
		}
		parsed, err = parse(completion.Text)
		if err == nil {
			break
		}
		s.log.Warn("provider returned malformed result",
			"mode", mode,
			"provider", completion.Provider,
			"attempt", attempt+1,
			"error", err,
		)
		if completion.Degraded {
			// The loose cache stores normalized results; a parse failure
			// here means the entry is unusable, not retryable.
			return nil, Meta{}, ErrProviderUnavailable
		}
	}
	if err != nil {
		return nil, Meta{}, ErrProviderUnavailable
	}

	payload, err := json.Marshal(parsed)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("encode result: %w", err)
	}

	meta := Meta{
		Provider: completion.Provider,
		Degraded: completion.Degraded,
		Latency:  completion.Latency,
		Usage:    dec,
	}

	if completion.Degraded {
		// Stale results are served for free and never written back.
		return payload, meta, nil
	}

	s.cache.Set(ctx, string(mode), input, level, userID, payload)

	charged, err := s.gate.Consume(ctx, userID, plan, now)
	if err != nil {
		s.log.Error("quota charge failed", "user_id", userID, "error", err)
	} else {
		meta.Usage = charged
	}

	return payload, meta, nil
}

func (s *Service) runPrepass(ctx context.Context, essay string) string {
	if s.prepass == nil {
		return ""
	}
	notes, err := s.prepass.Complete(ctx, providers.Request{
		System:    prompts.SystemPrepass,
		User:      prompts.UserPrepass(essay),
		MaxTokens: 1024,
	})
	if err != nil {
		s.log.Warn("grammar prepass failed, continuing without it", "error", err)
		return ""
	}
	return notes
}
