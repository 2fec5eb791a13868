package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hskaicoach/backend/internal/aicache"
	"github.com/hskaicoach/backend/internal/aichain"
	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/providers"
	"github.com/hskaicoach/backend/internal/quota"
)

const validWriting = `{"score": {"grammar": 20, "vocabulary": 21, "coherence": 22, "native": 17}, "errors": [], "summary": "ดี", "feedback": "ฝึกต่อไป"}`

type scriptedCompleter struct {
	name    string
	replies []string
	err     error
	calls   int
}

func (s *scriptedCompleter) Name() string { return s.name }

func (s *scriptedCompleter) Complete(_ context.Context, _ providers.Request) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	return s.replies[idx], nil
}

type memStore struct {
	saved    []*models.AnalysisRecord
	patterns []models.WeakPattern
}

func (m *memStore) SaveAnalysis(_ context.Context, rec *models.AnalysisRecord) error {
	rec.ID = "a-1"
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memStore) LogWritingErrors(_ context.Context, _, _ string, _ []models.WritingError) error {
	return nil
}

func (m *memStore) WeakPatterns(_ context.Context, _ string, _ int) ([]models.WeakPattern, error) {
	return m.patterns, nil
}

func newTestService(t *testing.T, completer providers.Completer) (*Service, *memStore, func()) {
	t.Helper()
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	cache := aicache.New(client, aicache.Options{
		ExactTTL: time.Hour,
		UserTTL:  time.Hour,
		LooseTTL: time.Hour,
	}, nil)
	gate := quota.NewGate(client, nil, quota.Limits{Free: 3, Premium: 50}, nil)
	chain := aichain.New([]aichain.Candidate{{Completer: completer}}, cache, nil, nil)

	store := &memStore{}
	svc := NewService(Options{
		Gate:  gate,
		Cache: cache,
		Chain: chain,
		Store: store,
	})
	cleanup := func() {
		client.Close()
		server.Close()
	}
	return svc, store, cleanup
}

func TestAnalyzeWritingChargesQuotaAndPersists(t *testing.T) {
	completer := &scriptedCompleter{name: "claude", replies: []string{validWriting}}
	svc, store, cleanup := newTestService(t, completer)
	defer cleanup()

	ctx := context.Background()
	result, meta, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, "我昨天去了商店，买了很多东西。", 4)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Score.Total != 80 || !result.Score.Passed {
		t.Fatalf("unexpected score: %+v", result.Score)
	}
	if meta.Cached || meta.Degraded || meta.Provider != "claude" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Usage.CurrentUsage != 1 {
		t.Fatalf("expected quota charged to 1, got %+v", meta.Usage)
	}
	if len(store.saved) != 1 || store.saved[0].Mode != models.ModeWriting {
		t.Fatalf("analysis not persisted: %+v", store.saved)
	}
}

func TestCacheHitIsFree(t *testing.T) {
	completer := &scriptedCompleter{name: "claude", replies: []string{validWriting}}
	svc, _, cleanup := newTestService(t, completer)
	defer cleanup()

	ctx := context.Background()
	essay := "我昨天去了商店，买了很多东西。"

	if _, _, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, essay, 4); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	_, meta, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, essay, 4)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if !meta.Cached {
		t.Fatal("expected cache hit")
	}
	if completer.calls != 1 {
		t.Fatalf("provider should be called once, got %d", completer.calls)
	}
	// The cached request must not consume quota.
	if meta.Usage.CurrentUsage != 1 {
		t.Fatalf("cache hit charged quota: %+v", meta.Usage)
	}
}

func TestQuotaExceededBlocksBeforeProviders(t *testing.T) {
	completer := &scriptedCompleter{name: "claude", replies: []string{validWriting}}
	svc, _, cleanup := newTestService(t, completer)
	defer cleanup()

	ctx := context.Background()

	// Different levels so the per-user cache tier cannot answer and every
	// call is billable.
	for i, level := range []int{3, 4, 5} {
		if _, _, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, "我喜欢学习汉语。", level); err != nil {
			t.Fatalf("analyze %d: %v", i, err)
		}
	}

	calls := completer.calls
	_, _, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, "这篇不应该被分析。", 6)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) || quotaErr.Decision.Limit != 3 {
		t.Fatalf("expected decision in error, got %v", err)
	}
	if completer.calls != calls {
		t.Fatal("rejected request must not reach providers")
	}
}

func TestMalformedJSONRetriedOnce(t *testing.T) {
	completer := &scriptedCompleter{name: "claude", replies: []string{"garbage not json", validWriting}}
	svc, _, cleanup := newTestService(t, completer)
	defer cleanup()

	_, meta, err := svc.AnalyzeWriting(context.Background(), "u1", models.PlanFree, "我昨天去了商店。", 4)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if completer.calls != 2 {
		t.Fatalf("expected one retry, got %d calls", completer.calls)
	}
	if meta.Degraded {
		t.Fatal("retry success should not be degraded")
	}
}

func TestPersistentlyMalformedJSONFails(t *testing.T) {
	completer := &scriptedCompleter{name: "claude", replies: []string{"junk", "more junk"}}
	svc, _, cleanup := newTestService(t, completer)
	defer cleanup()

	_, _, err := svc.AnalyzeWriting(context.Background(), "u1", models.PlanFree, "我昨天去了商店。", 4)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestDegradedResultIsFreeAndNotPersisted(t *testing.T) {
	working := &scriptedCompleter{name: "claude", replies: []string{validWriting}}
	svc, store, cleanup := newTestService(t, working)
	defer cleanup()

	ctx := context.Background()
	// Seed the loose tier with a real analysis from another user.
	if _, _, err := svc.AnalyzeWriting(ctx, "u1", models.PlanFree, "我昨天去了商店。", 4); err != nil {
		t.Fatalf("seed analyze: %v", err)
	}

	// Now the provider goes down; a different user and input should get the
	// stale result through the loose tier.
	working.err = errors.New("unavailable")
	result, meta, err := svc.AnalyzeWriting(ctx, "u2", models.PlanFree, "完全不同的作文内容。", 4)
	if err != nil {
		t.Fatalf("degraded analyze: %v", err)
	}
	if !meta.Degraded || meta.Provider != aichain.ProviderCacheFallback {
		t.Fatalf("expected degraded meta, got %+v", meta)
	}
	if result.Score.Total != 80 {
		t.Fatalf("unexpected stale result: %+v", result)
	}
	// Degraded responses are not charged and not persisted for u2.
	if meta.Usage.CurrentUsage != 0 {
		t.Fatalf("degraded response charged quota: %+v", meta.Usage)
	}
	for _, rec := range store.saved {
		if rec.UserID == "u2" {
			t.Fatal("degraded response must not be persisted")
		}
	}

	usage, err := svc.Usage(ctx, "u2", models.PlanFree)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.Usage != 0 {
		t.Fatalf("expected zero usage for u2, got %+v", usage)
	}
}

func TestGenerateExercisesUsesWeakPatterns(t *testing.T) {
	reply := `{"exercises": [{"type": "fill-blank", "question": "请______我一下。", "answer": "帮", "explanation": "...", "targetPattern": "动词搭配"}]}`
	completer := &scriptedCompleter{name: "claude", replies: []string{reply}}
	svc, store, cleanup := newTestService(t, completer)
	defer cleanup()

	store.patterns = []models.WeakPattern{{Pattern: "把字句", Count: 4}}

	exercises, meta, err := svc.GenerateExercises(context.Background(), "u1", models.PlanFree, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(exercises) != 1 || exercises[0].TargetPattern != "动词搭配" {
		t.Fatalf("unexpected exercises: %+v", exercises)
	}
	if meta.Usage.CurrentUsage != 1 {
		t.Fatalf("exercise generation should charge quota: %+v", meta.Usage)
	}
}
