package quota

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hskaicoach/backend/internal/models"
)

type memCounterStore struct {
	counts map[string]int
}

func (m *memCounterStore) key(userID, day string) string { return userID + "|" + day }

func (m *memCounterStore) DailyUsage(_ context.Context, userID, day string) (int, error) {
	return m.counts[m.key(userID, day)], nil
}

func (m *memCounterStore) IncrementDailyUsage(_ context.Context, userID, day string) (int, error) {
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[m.key(userID, day)]++
	return m.counts[m.key(userID, day)], nil
}

func newTestGate(t *testing.T) (*Gate, *memCounterStore, *miniredis.Miniredis, func()) {
	t.Helper()
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := &memCounterStore{}
	gate := NewGate(client, store, Limits{Free: 3, Premium: 50}, nil)
	cleanup := func() {
		client.Close()
		server.Close()
	}
	return gate, store, server, cleanup
}

func TestFreeCeilingBlocksFourthAnalysis(t *testing.T) {
	gate, _, _, cleanup := newTestGate(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		dec, err := gate.Check(ctx, "u1", models.PlanFree, now)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !dec.Allowed {
			t.Fatalf("analysis %d should be allowed", i+1)
		}
		if _, err := gate.Consume(ctx, "u1", models.PlanFree, now); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}

	dec, err := gate.Check(ctx, "u1", models.PlanFree, now)
	if err != nil {
		t.Fatalf("final check: %v", err)
	}
	if dec.Allowed {
		t.Fatal("fourth analysis should be blocked")
	}
	if dec.CurrentUsage != 3 || dec.Limit != 3 || dec.Remaining != 0 {
		t.Fatalf("unexpected decision: %+v", dec)
	}
}

func TestPremiumCeiling(t *testing.T) {
	gate, _, _, cleanup := newTestGate(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		if _, err := gate.Consume(ctx, "p1", models.PlanPremium, now); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}
	dec, err := gate.Check(ctx, "p1", models.PlanPremium, now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !dec.Allowed || dec.Limit != 50 || dec.CurrentUsage != 5 {
		t.Fatalf("unexpected decision: %+v", dec)
	}
}

func TestQuotaRollsOverAtUTCMidnight(t *testing.T) {
	gate, _, _, cleanup := newTestGate(t)
	defer cleanup()

	ctx := context.Background()
	lateNight := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := gate.Consume(ctx, "u1", models.PlanFree, lateNight); err != nil {
			t.Fatalf("consume: %v", err)
		}
	}
	dec, err := gate.Check(ctx, "u1", models.PlanFree, lateNight)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if dec.Allowed {
		t.Fatal("expected block before midnight")
	}

	dec, err = gate.Check(ctx, "u1", models.PlanFree, nextDay)
	if err != nil {
		t.Fatalf("check after rollover: %v", err)
	}
	if !dec.Allowed || dec.CurrentUsage != 0 {
		t.Fatalf("expected fresh quota after midnight, got %+v", dec)
	}
}

func TestDurableFallbackWhenRedisDown(t *testing.T) {
	gate, store, server, cleanup := newTestGate(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()
	server.Close()

	dec, err := gate.Consume(ctx, "u1", models.PlanFree, now)
	if err != nil {
		t.Fatalf("consume via fallback: %v", err)
	}
	if dec.CurrentUsage != 1 {
		t.Fatalf("expected usage 1 from durable store, got %+v", dec)
	}
	if got, _ := store.DailyUsage(ctx, "u1", now.Format("2006-01-02")); got != 1 {
		t.Fatalf("durable store not updated: %d", got)
	}

	dec, err = gate.Check(ctx, "u1", models.PlanFree, now)
	if err != nil {
		t.Fatalf("check via fallback: %v", err)
	}
	if dec.CurrentUsage != 1 {
		t.Fatalf("unexpected usage from fallback read: %+v", dec)
	}
}
