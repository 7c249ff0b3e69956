package core

// scheduler.go runs background cache maintenance.
//
// Expired entries are already dropped lazily on lookup. The janitor bounds
// memory for sheets that are never asked for again.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultJanitorInterval is used when StartCacheJanitor gets a non-positive interval.
const DefaultJanitorInterval = 10 * time.Minute

// StartCacheJanitor evicts expired cache entries every interval until ctx
// is cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartCacheJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	slog.Info("cache janitor started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cache janitor stopped")
			return
		case <-ticker.C:
			s.runJanitor()
		}
	}
}

// runJanitor performs one eviction sweep.
func (s *Service) runJanitor() int {
	start := time.Now()
	evicted := s.cache.EvictExpired()
	if evicted > 0 {
		slog.Debug("evicted expired sheets",
			"sheets_evicted", evicted,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return evicted
}
