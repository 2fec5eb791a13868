package aicache

import "sync/atomic"

// Counters is an in-process StatsSink exposed on the admin stats endpoint.
type Counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *Counters) Hit()  { c.hits.Add(1) }
func (c *Counters) Miss() { c.misses.Add(1) }

func (c *Counters) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Snapshot is a point-in-time view of cache effectiveness.
type Snapshot struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Total   int64 `json:"total"`
	HitRate int   `json:"hitRate"`
}

func (c *Counters) Snapshot() Snapshot {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	s := Snapshot{Hits: hits, Misses: misses, Total: total}
	if total > 0 {
		s.HitRate = int(float64(hits) / float64(total) * 100)
	}
	return s
}

// MultiSink fans events out to several sinks, e.g. in-process counters plus
// Prometheus.
type MultiSink []StatsSink

func (m MultiSink) Hit() {
	for _, s := range m {
		if s != nil {
			s.Hit()
		}
	}
}

func (m MultiSink) Miss() {
	for _, s := range m {
		if s != nil {
			s.Miss()
		}
	}
}
