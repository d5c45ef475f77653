// Package feed defines the boundary through which tick data enters the
// dashboard core. The core never fetches anything itself: a Feed is
// injected, and each call to Next blocks until the next interval's batch
// of updates is available.
package feed

import (
	"context"
	"time"

	"github.com/rustyeddy/riskdash/book"
)

// PositionTick is one interval's raw deltas for a single open position.
type PositionTick struct {
	ID             string
	MarkPriceDelta float64
	PnLDelta       float64
}

// HealthTick is one interval's raw health reading.
type HealthTick struct {
	LatencyMS      float64
	QuotaUsedDelta int
	MemUsedMB      float64
}

// TickUpdate is everything one tick delivers: new positions to open,
// explicit close notifications, per-position deltas and a health reading.
type TickUpdate struct {
	Time   time.Time
	Opens  []book.Position
	Closes []string
	Ticks  []PositionTick
	Health HealthTick

	// QuotaReset marks the provider's rate-limit window rolling over.
	QuotaReset bool
}

// Feed delivers tick updates. Next blocks until the next tick or until
// ctx is done, in which case it returns ctx.Err().
type Feed interface {
	Next(ctx context.Context) (TickUpdate, error)
}
