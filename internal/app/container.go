// Package app wires the runtime dependencies into a single container
// consumed by the HTTP layer and the commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hskaicoach/backend/internal/adapters/anthropic"
	"github.com/hskaicoach/backend/internal/adapters/bedrock"
	"github.com/hskaicoach/backend/internal/adapters/deepseek"
	"github.com/hskaicoach/backend/internal/aicache"
	"github.com/hskaicoach/backend/internal/aichain"
	"github.com/hskaicoach/backend/internal/analyzer"
	"github.com/hskaicoach/backend/internal/auth"
	"github.com/hskaicoach/backend/internal/config"
	"github.com/hskaicoach/backend/internal/exam"
	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/observability"
	"github.com/hskaicoach/backend/internal/providers"
	"github.com/hskaicoach/backend/internal/quota"
	"github.com/hskaicoach/backend/internal/srs"
	"github.com/hskaicoach/backend/internal/store"
)

// Container aggregates runtime dependencies for handlers and commands.
type Container struct {
	Config        *config.Config
	Log           *slog.Logger
	DBPool        *pgxpool.Pool
	Redis         *redis.Client
	Observability *observability.Provider

	Users      *store.UserRepository
	Analyses   *store.AnalysisRepository
	Flashcards *store.FlashcardRepository
	Vocabulary *store.VocabularyRepository

	Tokens     *auth.TokenManager
	Gate       *quota.Gate
	Cache      *aicache.Cache
	CacheStats *aicache.Counters
	Chain      *aichain.Chain
	Analyzer   *analyzer.Service
	Scheduler  *srs.Scheduler
	Exams      *exam.Bank
}

// NewContainer builds a dependency container from the provided primitives.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, log *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("db pool is required")
	}
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if log == nil {
		log = slog.Default()
	}

	obs, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("setup observability: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return nil, err
	}

	users := store.NewUserRepository(pool)
	analyses := store.NewAnalysisRepository(pool)
	flashcards := store.NewFlashcardRepository(pool)
	vocabulary := store.NewVocabularyRepository(pool)

	gate := quota.NewGate(redisClient, analyses, quota.Limits{
		Free:    cfg.Quota.FreeDailyLimit,
		Premium: cfg.Quota.PremiumDailyLimit,
	}, log)

	counters := &aicache.Counters{}
	cache := aicache.New(redisClient, aicache.Options{
		ExactTTL: cfg.Cache.ExactTTL,
		UserTTL:  cfg.Cache.UserTTL,
		LooseTTL: cfg.Cache.LooseTTL,
		Sink:     aicache.MultiSink{counters, obs},
	}, log)

	candidates, prepass, err := buildProviders(ctx, cfg.Providers)
	if err != nil {
		return nil, err
	}
	chain := aichain.New(candidates, cache, obs, log)

	words, err := vocabulary.WordLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary index: %w", err)
	}
	vocab := hsk.NewVocabIndex(words)
	if vocab.Len() == 0 {
		log.Warn("vocabulary table is empty, reading levels will follow model output; run the seed command")
	}

	svc := analyzer.NewService(analyzer.Options{
		Gate:    gate,
		Cache:   cache,
		Chain:   chain,
		Store:   analyses,
		Vocab:   vocab,
		Metrics: obs,
		Log:     log,
		Prepass: prepass,
	})

	return &Container{
		Config:        cfg,
		Log:           log,
		DBPool:        pool,
		Redis:         redisClient,
		Observability: obs,
		Users:         users,
		Analyses:      analyses,
		Flashcards:    flashcards,
		Vocabulary:    vocabulary,
		Tokens:        tokens,
		Gate:          gate,
		Cache:         cache,
		CacheStats:    counters,
		Chain:         chain,
		Analyzer:      svc,
		Scheduler:     srs.NewScheduler(flashcards, log),
		Exams:         exam.NewBank(),
	}, nil
}

// buildProviders assembles the fallback order from configuration:
// Claude, then DeepSeek, then Claude Haiku, then Bedrock when enabled.
// The DeepSeek prepass completer is returned separately.
func buildProviders(ctx context.Context, cfg config.ProviderConfig) ([]aichain.Candidate, providers.Completer, error) {
	var candidates []aichain.Candidate
	var prepass providers.Completer

	if cfg.Anthropic.APIKey != "" {
		primary, err := anthropic.New(anthropic.Options{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.MaxTokens,
			Label:     "claude",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("anthropic adapter: %w", err)
		}
		candidates = append(candidates, aichain.Candidate{Completer: primary, Timeout: cfg.Timeout})
	}

	if cfg.DeepSeek.APIKey != "" {
		ds, err := deepseek.New(deepseek.Options{
			APIKey:    cfg.DeepSeek.APIKey,
			BaseURL:   cfg.DeepSeek.BaseURL,
			Model:     cfg.DeepSeek.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("deepseek adapter: %w", err)
		}
		candidates = append(candidates, aichain.Candidate{Completer: ds, Timeout: cfg.Timeout})
		if cfg.DeepSeek.Prepass {
			prepass = ds
		}
	}

	if cfg.Anthropic.APIKey != "" && cfg.Anthropic.FastModel != "" {
		fast, err := anthropic.New(anthropic.Options{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Anthropic.FastModel,
			MaxTokens: cfg.MaxTokens,
			Label:     "claude-haiku",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("anthropic fast adapter: %w", err)
		}
		candidates = append(candidates, aichain.Candidate{Completer: fast, Timeout: cfg.FastTimeout})
	}

	if cfg.Bedrock.Enabled {
		br, err := bedrock.New(ctx, bedrock.Options{
			Region:          cfg.Bedrock.Region,
			ModelID:         cfg.Bedrock.ModelID,
			AccessKeyID:     cfg.Bedrock.AccessKeyID,
			SecretAccessKey: cfg.Bedrock.SecretAccessKey,
			MaxTokens:       cfg.MaxTokens,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bedrock adapter: %w", err)
		}
		candidates = append(candidates, aichain.Candidate{Completer: br, Timeout: cfg.Timeout})
	}

	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("no AI providers configured; set at least one provider API key")
	}
	return candidates, prepass, nil
}

// Close releases container-owned resources.
func (c *Container) Close(ctx context.Context) {
	if c.Observability != nil {
		if err := c.Observability.Shutdown(ctx); err != nil {
			c.Log.Warn("observability shutdown", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("redis close", "error", err)
		}
	}
	if c.DBPool != nil {
		c.DBPool.Close()
	}
}
