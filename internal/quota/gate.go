// Package quota enforces the per-user daily analysis ceiling. Counters live
// in Redis under a UTC day key so the quota rolls over lazily at midnight
// UTC with no scheduled job; a durable store backs the count when Redis is
// unreachable.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/timeutil"
)

// Counter keys expire after two days so a key written just before midnight
// outlives its whole day.
const counterTTL = 48 * time.Hour

// CounterStore is the durable fallback for usage counts.
type CounterStore interface {
	DailyUsage(ctx context.Context, userID, day string) (int, error)
	IncrementDailyUsage(ctx context.Context, userID, day string) (int, error)
}

// Limits holds the per-plan daily ceilings.
type Limits struct {
	Free    int
	Premium int
}

// Decision reports a user's standing against their ceiling.
type Decision struct {
	Allowed      bool
	CurrentUsage int
	Limit        int
	Remaining    int
}

// Gate answers "may this user run another analysis today" and records
// consumption. Check never mutates state; Consume charges one unit.
type Gate struct {
	client   *redis.Client
	fallback CounterStore
	limits   Limits
	log      *slog.Logger
}

func NewGate(client *redis.Client, fallback CounterStore, limits Limits, log *slog.Logger) *Gate {
	if limits.Free <= 0 {
		limits.Free = 3
	}
	if limits.Premium < limits.Free {
		limits.Premium = limits.Free
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gate{client: client, fallback: fallback, limits: limits, log: log}
}

// LimitFor returns the daily ceiling for a plan.
func (g *Gate) LimitFor(plan models.Plan) int {
	if plan == models.PlanPremium {
		return g.limits.Premium
	}
	return g.limits.Free
}

func counterKey(userID, day string) string {
	return fmt.Sprintf("quota:%s:%s", userID, day)
}

// Check reads the current count without charging.
func (g *Gate) Check(ctx context.Context, userID string, plan models.Plan, now time.Time) (Decision, error) {
	day := timeutil.DayKey(now)
	usage, err := g.currentUsage(ctx, userID, day)
	if err != nil {
		return Decision{}, err
	}
	return g.decide(plan, usage), nil
}

// Consume charges one unit and returns the standing after the charge. The
// caller is expected to have passed Check first; Consume still reports
// Allowed=false when the charge lands at or past the ceiling so races
// between concurrent requests stay visible.
func (g *Gate) Consume(ctx context.Context, userID string, plan models.Plan, now time.Time) (Decision, error) {
	day := timeutil.DayKey(now)

	if g.client != nil {
		usage, err := g.incrRedis(ctx, userID, day)
		if err == nil {
			return g.decide(plan, usage), nil
		}
		g.log.Warn("quota redis increment failed, using durable store", "user_id", userID, "error", err)
	}

	if g.fallback == nil {
		return Decision{}, fmt.Errorf("quota: no counter backend available")
	}
	usage, err := g.fallback.IncrementDailyUsage(ctx, userID, day)
	if err != nil {
		return Decision{}, fmt.Errorf("quota: durable increment: %w", err)
	}
	return g.decide(plan, usage), nil
}

func (g *Gate) currentUsage(ctx context.Context, userID, day string) (int, error) {
	if g.client != nil {
		usage, err := g.client.Get(ctx, counterKey(userID, day)).Int()
		if err == nil {
			return usage, nil
		}
		if err == redis.Nil {
			return 0, nil
		}
		g.log.Warn("quota redis read failed, using durable store", "user_id", userID, "error", err)
	}

	if g.fallback == nil {
		return 0, fmt.Errorf("quota: no counter backend available")
	}
	usage, err := g.fallback.DailyUsage(ctx, userID, day)
	if err != nil {
		return 0, fmt.Errorf("quota: durable read: %w", err)
	}
	return usage, nil
}

func (g *Gate) incrRedis(ctx context.Context, userID, day string) (int, error) {
	key := counterKey(userID, day)
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := g.client.Expire(ctx, key, counterTTL).Err(); err != nil {
			g.log.Warn("quota expire failed", "key", key, "error", err)
		}
	}
	return int(count), nil
}

func (g *Gate) decide(plan models.Plan, usage int) Decision {
	limit := g.LimitFor(plan)
	remaining := limit - usage
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:      usage < limit,
		CurrentUsage: usage,
		Limit:        limit,
		Remaining:    remaining,
	}
}
