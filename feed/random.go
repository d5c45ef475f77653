package feed

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rustyeddy/riskdash/book"
	"github.com/rustyeddy/riskdash/id"
)

var demoSymbols = []string{"EUR_USD", "GBP_USD", "USD_JPY", "AUD_USD", "USD_CHF"}

// Random is a mock feed for demos and manual testing. It opens and closes
// positions on its own and walks their prices with small random steps,
// standing in for the real transport the production system injects.
type Random struct {
	interval time.Duration
	rng      *rand.Rand

	maxOpen  int
	quotaMax int
	ticks    int

	open []book.Position
}

// NewRandom creates a mock feed emitting one TickUpdate per interval.
func NewRandom(interval time.Duration, maxOpen, quotaMax int, seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		maxOpen:  maxOpen,
		quotaMax: quotaMax,
	}
}

// Next blocks for one interval, then returns a generated update.
func (r *Random) Next(ctx context.Context) (TickUpdate, error) {
	select {
	case <-ctx.Done():
		return TickUpdate{}, ctx.Err()
	case <-time.After(r.interval):
	}

	u := TickUpdate{Time: time.Now()}
	r.ticks++

	// Roughly one in eight ticks opens a position, up to the cap.
	if len(r.open) < r.maxOpen && (len(r.open) == 0 || r.rng.Intn(8) == 0) {
		p := r.newPosition()
		r.open = append(r.open, p)
		u.Opens = append(u.Opens, p)
	}

	// Occasionally the upstream closes one on its own.
	if len(r.open) > 1 && r.rng.Intn(20) == 0 {
		i := r.rng.Intn(len(r.open))
		u.Closes = append(u.Closes, r.open[i].ID)
		r.open = append(r.open[:i], r.open[i+1:]...)
	}

	for i := range r.open {
		p := &r.open[i]
		priceDelta := p.MarkPrice * r.rng.NormFloat64() * 0.0005
		pnlDelta := r.rng.NormFloat64() * 12
		p.MarkPrice += priceDelta
		p.PnL += pnlDelta
		u.Ticks = append(u.Ticks, PositionTick{
			ID:             p.ID,
			MarkPriceDelta: priceDelta,
			PnLDelta:       pnlDelta,
		})
	}

	u.Health = HealthTick{
		LatencyMS:      math.Abs(90 + r.rng.NormFloat64()*110),
		QuotaUsedDelta: 1,
		MemUsedMB:      220 + 40*math.Sin(float64(r.ticks)/30) + r.rng.Float64()*10,
	}
	// Quota window rolls over when it would otherwise run dry.
	if r.quotaMax > 0 && r.ticks%r.quotaMax == 0 {
		u.QuotaReset = true
	}

	return u, nil
}

func (r *Random) newPosition() book.Position {
	sym := demoSymbols[r.rng.Intn(len(demoSymbols))]
	side := book.Long
	if r.rng.Intn(2) == 1 {
		side = book.Short
	}
	entry := 0.8 + r.rng.Float64()*0.6
	if sym == "USD_JPY" {
		entry = 140 + r.rng.Float64()*20
	}
	return book.Position{
		ID:                 id.New(),
		Symbol:             sym,
		Side:               side,
		EntryPrice:         entry,
		MarkPrice:          entry,
		ZScore:             r.rng.NormFloat64(),
		Size:               float64(1000 * (1 + r.rng.Intn(10))),
		MaxDurationMinutes: 45,
	}
}
