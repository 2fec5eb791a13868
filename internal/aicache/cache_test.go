package aicache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *Counters, *miniredis.Miniredis, func()) {
	t.Helper()
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	counters := &Counters{}
	cache := New(client, Options{
		ExactTTL: time.Hour,
		UserTTL:  time.Minute,
		LooseTTL: time.Minute,
		Sink:     counters,
	}, nil)
	cleanup := func() {
		client.Close()
		server.Close()
	}
	return cache, counters, server, cleanup
}

func TestCacheRoundtrip(t *testing.T) {
	cache, counters, _, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	payload := []byte(`{"score":{"total":80}}`)

	if _, ok := cache.Get(ctx, "writing", "我爱学习", 5, "u1"); ok {
		t.Fatal("expected miss before set")
	}
	cache.Set(ctx, "writing", "我爱学习", 5, "u1", payload)

	got, ok := cache.Get(ctx, "writing", "我爱学习", 5, "u1")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %s", got)
	}

	stats := counters.Snapshot()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExactTierIgnoresSurroundingWhitespace(t *testing.T) {
	cache, _, _, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "writing", "我爱学习", 5, "", []byte("x"))

	if _, ok := cache.Get(ctx, "writing", "  我爱学习\n", 5, ""); !ok {
		t.Fatal("whitespace-padded input should hit the exact tier")
	}
}

func TestUserTierServesSameModeLevel(t *testing.T) {
	cache, _, _, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "writing", "第一篇作文", 5, "u1", []byte("first"))

	// Different input misses the exact tier but the user tier covers it.
	got, ok := cache.Get(ctx, "writing", "完全不同的作文", 5, "u1")
	if !ok {
		t.Fatal("expected user-tier hit")
	}
	if string(got) != "first" {
		t.Fatalf("unexpected payload: %s", got)
	}

	// Another user gets no such benefit.
	if _, ok := cache.Get(ctx, "writing", "完全不同的作文", 5, "u2"); ok {
		t.Fatal("user tier must not leak across users")
	}
}

func TestLooseTierSurvivesDifferentInput(t *testing.T) {
	cache, _, _, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "reading", "一段文章", 4, "u1", []byte("result"))

	got, ok := cache.GetLoose(ctx, "reading", 4)
	if !ok {
		t.Fatal("expected loose-tier hit")
	}
	if string(got) != "result" {
		t.Fatalf("unexpected payload: %s", got)
	}
	if _, ok := cache.GetLoose(ctx, "reading", 6); ok {
		t.Fatal("loose tier is keyed by level")
	}
}

func TestTiersExpireIndependently(t *testing.T) {
	cache, _, server, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "writing", "他每天跑步", 4, "u1", []byte(`{"a":1}`))

	// Expiring the exact tier must leave the user tier serving.
	server.Del(ExactKey("writing", "他每天跑步", 4))
	if _, ok := cache.Get(ctx, "writing", "他每天跑步", 4, "u1"); !ok {
		t.Fatal("user tier should survive exact-tier expiry")
	}

	// And dropping the user tier must leave the exact tier serving.
	cache.Set(ctx, "writing", "他每天跑步", 4, "u1", []byte(`{"a":1}`))
	server.Del(userKey("u1", "writing", 4))
	if _, ok := cache.Get(ctx, "writing", "他每天跑步", 4, "u1"); !ok {
		t.Fatal("exact tier should survive user-tier expiry")
	}
}

func TestFlushRemovesAllTiers(t *testing.T) {
	cache, counters, _, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "writing", "作文", 5, "u1", []byte("x"))
	cache.Set(ctx, "reading", "文章", 4, "u2", []byte("y"))

	deleted, err := cache.Flush(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	// Two entries each write exact+user+loose.
	if deleted != 6 {
		t.Fatalf("expected 6 deleted keys, got %d", deleted)
	}
	if _, ok := cache.Get(ctx, "writing", "作文", 5, "u1"); ok {
		t.Fatal("expected miss after flush")
	}
	stats := counters.Snapshot()
	if stats.Hits != 0 {
		t.Fatalf("flush should reset counters, got %+v", stats)
	}
}

func TestRedisOutageReadsAsMiss(t *testing.T) {
	cache, _, server, cleanup := newTestCache(t)
	defer cleanup()

	ctx := context.Background()
	cache.Set(ctx, "writing", "作文", 5, "u1", []byte("x"))
	server.Close()

	if _, ok := cache.Get(ctx, "writing", "作文", 5, "u1"); ok {
		t.Fatal("expected miss during outage")
	}
	// Writes during an outage must not panic or error out.
	cache.Set(ctx, "writing", "作文", 5, "u1", []byte("x"))
}
