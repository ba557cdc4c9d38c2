package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes states that have not changed since before.
type Purger interface {
	PurgeAppStates(ctx context.Context, before time.Time) (int64, error)
}

// StatePurger drops abandoned session states from the database.
type StatePurger struct {
	db       Purger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewStatePurger creates a purger that removes states idle for longer than ttl.
func NewStatePurger(database Purger, ttl, interval time.Duration) *StatePurger {
	return &StatePurger{db: database, ttl: ttl, interval: interval, now: time.Now}
}

// Start begins the background purge loop.
func (p *StatePurger) Start(ctx context.Context) {
	slog.Info("state purger started", "interval", p.interval, "ttl", p.ttl)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("state purger stopped")
			return
		case <-ticker.C:
			p.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge and returns the number of removed states.
func (p *StatePurger) PurgeOnce(ctx context.Context) int64 {
	removed, err := p.db.PurgeAppStates(ctx, p.now().Add(-p.ttl))
	if err != nil {
		slog.Error("failed to purge states", "error", err)
		return 0
	}
	if removed > 0 {
		slog.Info("purged idle states", "count", removed)
	}
	return removed
}
