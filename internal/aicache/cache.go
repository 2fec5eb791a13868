// Package aicache is the Redis-backed response cache for AI analysis
// results. It keeps three tiers: an exact tier keyed by a hash of the
// request, a per-user tier keyed by user+mode+level, and a loose tier keyed
// by mode+level that the provider chain reads when every vendor is down.
package aicache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ai:"

// StatsSink receives hit/miss events. Implementations must be safe for
// concurrent use.
type StatsSink interface {
	Hit()
	Miss()
}

// Options configures cache TTLs and stats reporting.
type Options struct {
	ExactTTL time.Duration
	UserTTL  time.Duration
	LooseTTL time.Duration
	Sink     StatsSink
}

// Cache reads and writes serialized analysis results. Redis failures are
// absorbed: reads report a miss and writes are dropped, so an outage only
// costs provider calls, never availability.
type Cache struct {
	client *redis.Client
	opts   Options
	log    *slog.Logger
}

func New(client *redis.Client, opts Options, log *slog.Logger) *Cache {
	if opts.ExactTTL <= 0 {
		opts.ExactTTL = 7 * 24 * time.Hour
	}
	if opts.UserTTL <= 0 {
		opts.UserTTL = 24 * time.Hour
	}
	if opts.LooseTTL <= 0 {
		opts.LooseTTL = 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{client: client, opts: opts, log: log}
}

// ExactKey derives the exact-tier key. Input is trimmed before hashing so
// whitespace-only differences share an entry.
func ExactKey(mode, input string, level int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", mode, level, strings.TrimSpace(input))))
	return fmt.Sprintf("%scache:%s:%s", keyPrefix, mode, hex.EncodeToString(sum[:])[:16])
}

func userKey(userID, mode string, level int) string {
	return fmt.Sprintf("%suser:%s:%s:%d", keyPrefix, userID, mode, level)
}

func looseKey(mode string, level int) string {
	return fmt.Sprintf("%sloose:%s:%d", keyPrefix, mode, level)
}

// Get checks the exact tier, then the per-user tier. userID may be empty.
func (c *Cache) Get(ctx context.Context, mode, input string, level int, userID string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, ExactKey(mode, input, level)).Bytes()
	if err == nil {
		c.hit()
		return data, true
	}
	if err != redis.Nil {
		c.log.Warn("cache read failed", "tier", "exact", "error", err)
		c.miss()
		return nil, false
	}

	if userID != "" {
		data, err = c.client.Get(ctx, userKey(userID, mode, level)).Bytes()
		if err == nil {
			c.hit()
			return data, true
		}
		if err != redis.Nil {
			c.log.Warn("cache read failed", "tier", "user", "error", err)
		}
	}

	c.miss()
	return nil, false
}

// GetLoose reads the mode+level tier. It does not count toward hit/miss
// stats because it only runs after a full provider outage.
func (c *Cache) GetLoose(ctx context.Context, mode string, level int) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, looseKey(mode, level)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", "tier", "loose", "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set writes all applicable tiers. userID may be empty.
func (c *Cache) Set(ctx context.Context, mode, input string, level int, userID string, payload []byte) {
	if c == nil || c.client == nil || len(payload) == 0 {
		return
	}

	if err := c.client.Set(ctx, ExactKey(mode, input, level), payload, c.opts.ExactTTL).Err(); err != nil {
		c.log.Warn("cache write failed", "tier", "exact", "error", err)
	}
	if userID != "" {
		if err := c.client.Set(ctx, userKey(userID, mode, level), payload, c.opts.UserTTL).Err(); err != nil {
			c.log.Warn("cache write failed", "tier", "user", "error", err)
		}
	}
	if err := c.client.Set(ctx, looseKey(mode, level), payload, c.opts.LooseTTL).Err(); err != nil {
		c.log.Warn("cache write failed", "tier", "loose", "error", err)
	}
}

// Flush deletes every cache entry via SCAN and returns the number removed.
func (c *Cache) Flush(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 200).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			removed, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("delete cache keys: %w", err)
			}
			deleted += int(removed)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if counters, ok := c.opts.Sink.(*Counters); ok {
		counters.Reset()
	}
	return deleted, nil
}

func (c *Cache) hit() {
	if c.opts.Sink != nil {
		c.opts.Sink.Hit()
	}
}

func (c *Cache) miss() {
	if c.opts.Sink != nil {
		c.opts.Sink.Miss()
	}
}
