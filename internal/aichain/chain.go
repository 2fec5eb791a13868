// Package aichain runs the provider fallback chain: each configured vendor
// is tried in order under its own timeout, and when every vendor fails a
// stale cached result is served as a degraded response before giving up.
package aichain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hskaicoach/backend/internal/providers"
)

// ErrAllProvidersFailed is returned when no vendor answered and no stale
// cache entry exists.
var ErrAllProvidersFailed = errors.New("all AI providers failed")

// ProviderCacheFallback names the pseudo-provider used for degraded results.
const ProviderCacheFallback = "cache-fallback"

// LooseCache reads the mode+level cache tier used as the last resort.
type LooseCache interface {
	GetLoose(ctx context.Context, mode string, level int) ([]byte, bool)
}

// Metrics receives per-attempt telemetry. All methods must tolerate
// concurrent calls.
type Metrics interface {
	RecordProviderAttempt(provider string, success bool, duration time.Duration)
	RecordFallback(from string)
}

// Candidate is one vendor in the chain with its attempt timeout.
type Candidate struct {
	Completer providers.Completer
	Timeout   time.Duration
}

// Completion is the chain's answer. Degraded marks results recovered from
// the loose cache instead of a live vendor; those must not be re-cached or
// charged against quota.
type Completion struct {
	Text     string
	Provider string
	Latency  time.Duration
	Degraded bool
}

type Chain struct {
	candidates []Candidate
	cache      LooseCache
	metrics    Metrics
	log        *slog.Logger
}

func New(candidates []Candidate, cache LooseCache, metrics Metrics, log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{candidates: candidates, cache: cache, metrics: metrics, log: log}
}

// Call walks the chain until a vendor answers. The parent ctx bounds the
// whole walk; each attempt additionally gets its candidate timeout.
func (c *Chain) Call(ctx context.Context, req providers.Request, mode string, level int) (Completion, error) {
	start := time.Now()

	for i, candidate := range c.candidates {
		if err := ctx.Err(); err != nil {
			return Completion{}, err
		}

		name := candidate.Completer.Name()
		text, err := c.attempt(ctx, candidate, req)
		if err == nil && text != "" {
			return Completion{
				Text:     text,
				Provider: name,
				Latency:  time.Since(start),
			}, nil
		}

		if err == nil {
			err = errors.New("empty completion")
		}
		c.log.Warn("provider attempt failed",
			"provider", name,
			"position", i,
			"error", truncate(err.Error(), 100),
		)
		if c.metrics != nil {
			c.metrics.RecordFallback(name)
		}
	}

	// Every vendor is down. A stale answer for the same mode and level is
	// better than nothing for the student.
	if c.cache != nil {
		if payload, ok := c.cache.GetLoose(ctx, mode, level); ok {
			c.log.Warn("all providers failed, serving stale cached result", "mode", mode, "level", level)
			return Completion{
				Text:     string(payload),
				Provider: ProviderCacheFallback,
				Latency:  time.Since(start),
				Degraded: true,
			}, nil
		}
	}

	return Completion{}, ErrAllProvidersFailed
}

func (c *Chain) attempt(ctx context.Context, candidate Candidate, req providers.Request) (string, error) {
	attemptCtx := ctx
	if candidate.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, candidate.Timeout)
		defer cancel()
	}

	attemptStart := time.Now()
	text, err := candidate.Completer.Complete(attemptCtx, req)
	if c.metrics != nil {
		c.metrics.RecordProviderAttempt(candidate.Completer.Name(), err == nil && text != "", time.Since(attemptStart))
	}
	return text, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
