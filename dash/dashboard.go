// Package dash aggregates the position book, health monitor, risk
// classifier and ring log into one consistent snapshot per tick, and
// mediates the hold-to-confirm kill action. The tick handler and the gate
// completion callback are the only two writers; a single mutex serializes
// them.
package dash

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rustyeddy/riskdash/book"
	"github.com/rustyeddy/riskdash/feed"
	"github.com/rustyeddy/riskdash/gate"
	"github.com/rustyeddy/riskdash/health"
	"github.com/rustyeddy/riskdash/journal"
	"github.com/rustyeddy/riskdash/ringlog"
	"github.com/rustyeddy/riskdash/risk"
)

// Close reasons recorded in the log and the journal.
const (
	ReasonManualKill    = "ManualKill"
	ReasonExternalClose = "ExternalClose"
)

// Options configures a Dashboard. Zero values fall back to the package
// defaults of the component in question.
type Options struct {
	TickMinutes   float64 // holding time one tick represents
	RingCapacity  int
	HistoryLength int

	Policy risk.Policy

	QuotaMax           int
	MemTotalMB         float64
	LatencyThresholdMS float64

	HoldDuration time.Duration
	HoldStep     time.Duration

	// Journal is optional; nil disables persistence.
	Journal journal.Journal
}

type Dashboard struct {
	mu sync.Mutex

	book   *book.Book
	health *health.Monitor
	log    *ringlog.Log
	policy risk.Policy

	gates    map[string]*gate.Gate
	holdDur  time.Duration
	holdStep time.Duration

	journal journal.Journal

	current Snapshot
	subs    map[int]func(Snapshot)
	nextSub int

	// transition tracking for log entries
	lastStatus health.Status
	lastTiers  map[string]risk.Tier

	realized float64
	wins     int
	closedN  int
	closed   bool
}

// New builds a dashboard. All thresholds are validated here; a bad limit
// is a construction error, never a per-tick failure.
func New(opts Options) (*Dashboard, error) {
	if opts.TickMinutes <= 0 {
		opts.TickMinutes = 1
	}
	if opts.RingCapacity == 0 {
		opts.RingCapacity = ringlog.DefaultCapacity
	}
	if opts.HistoryLength == 0 {
		opts.HistoryLength = book.DefaultHistoryLength
	}
	if opts.LatencyThresholdMS == 0 {
		opts.LatencyThresholdMS = health.DefaultLatencyThresholdMS
	}
	if opts.QuotaMax == 0 {
		opts.QuotaMax = health.DefaultQuotaMax
	}
	if opts.MemTotalMB == 0 {
		opts.MemTotalMB = health.DefaultMemTotalMB
	}
	if opts.HoldDuration == 0 {
		opts.HoldDuration = gate.DefaultHoldDuration
	}
	if opts.HoldStep == 0 {
		opts.HoldStep = gate.DefaultStepInterval
	}

	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}

	b, err := book.New(opts.HistoryLength, opts.TickMinutes)
	if err != nil {
		return nil, err
	}
	h, err := health.New(opts.QuotaMax, opts.MemTotalMB, opts.LatencyThresholdMS)
	if err != nil {
		return nil, err
	}
	l, err := ringlog.New(opts.RingCapacity)
	if err != nil {
		return nil, err
	}
	// Validate the gate timings once up front; per-position gates reuse them.
	if _, err := gate.New(opts.HoldDuration, opts.HoldStep, func() {}); err != nil {
		return nil, err
	}

	d := &Dashboard{
		book:       b,
		health:     h,
		log:        l,
		policy:     opts.Policy,
		gates:      make(map[string]*gate.Gate),
		holdDur:    opts.HoldDuration,
		holdStep:   opts.HoldStep,
		journal:    opts.Journal,
		subs:       make(map[int]func(Snapshot)),
		lastStatus: health.Alive,
		lastTiers:  make(map[string]risk.Tier),
	}
	d.current = d.buildSnapshotLocked(time.Now())
	return d, nil
}

// Run drives the dashboard from the injected feed until ctx is done or
// the feed fails.
func (d *Dashboard) Run(ctx context.Context, f feed.Feed) error {
	for {
		u, err := f.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("feed: %w", err)
		}
		d.ApplyTick(u)
	}
}

// ApplyTick ingests one interval's updates. Within the tick the order is
// fixed: opens and external closes, then the health update, then position
// advancement, then re-classification and snapshot publication —
// classification never reads half-updated state.
func (d *Dashboard) ApplyTick(u feed.TickUpdate) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	if u.Time.IsZero() {
		u.Time = time.Now()
	}

	for _, p := range u.Opens {
		d.book.Upsert(p)
		d.log.Append(ringlog.Info, "opened %s %s @ %.5f (size %.0f)", p.Side, p.Symbol, p.EntryPrice, p.Size)
	}
	for _, id := range u.Closes {
		d.closeLocked(id, ReasonExternalClose, u.Time)
	}

	if u.QuotaReset {
		d.health.ResetQuota()
	}
	d.health.Update(u.Health.LatencyMS, u.Health.QuotaUsedDelta, u.Health.MemUsedMB)

	for _, t := range u.Ticks {
		d.book.Tick(t.ID, t.MarkPriceDelta, t.PnLDelta)
	}

	snap := d.buildSnapshotLocked(u.Time)
	d.current = snap

	if d.journal != nil {
		err := d.journal.RecordEquity(journal.EquityPoint{
			Time:          snap.Time,
			DailyPnL:      snap.DailyPnL,
			WinRate:       snap.WinRate,
			OpenPositions: len(snap.Positions),
		})
		if err != nil {
			d.log.Append(ringlog.Warn, "journal equity: %v", err)
		}
	}

	subs := make([]func(Snapshot), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	// Subscribers run outside the lock so they may call GetSnapshot or
	// RequestHold without deadlocking.
	for _, fn := range subs {
		fn(snap)
	}
}

// GetSnapshot returns the last published snapshot.
func (d *Dashboard) GetSnapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Subscribe registers a callback invoked after each publication and
// returns its unsubscribe function.
func (d *Dashboard) Subscribe(fn func(Snapshot)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// RequestHold starts (or continues) the kill confirmation for a position.
// An unknown id is a no-op.
func (d *Dashboard) RequestHold(id string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if _, ok := d.book.Get(id); !ok {
		d.mu.Unlock()
		return
	}
	g := d.gates[id]
	if g == nil {
		g, _ = gate.New(d.holdDur, d.holdStep, func() { d.confirmKill(id) })
		d.gates[id] = g
	}
	d.mu.Unlock()

	g.Press()
}

// CancelHold releases an in-progress kill confirmation, discarding its
// progress.
func (d *Dashboard) CancelHold(id string) {
	d.mu.Lock()
	g := d.gates[id]
	d.mu.Unlock()
	if g != nil {
		g.Release()
	}
}

// Close tears the dashboard down: every active gate timer stops and no
// further mutation happens. Safe to call more than once.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, g := range d.gates {
		g.Stop()
	}
	d.gates = make(map[string]*gate.Gate)
}

// confirmKill is the gate completion callback: remove the position, log
// it, and account the realized P&L.
func (d *Dashboard) confirmKill(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closeLocked(id, ReasonManualKill, time.Now())
}

// closeLocked removes a position and settles its bookkeeping. Absent ids
// are silently ignored — a manual kill can race an external close.
func (d *Dashboard) closeLocked(id string, reason string, at time.Time) {
	p, err := d.book.Remove(id)
	if err != nil {
		return
	}

	if g, ok := d.gates[id]; ok {
		g.Stop()
		delete(d.gates, id)
	}
	delete(d.lastTiers, id)

	d.realized += p.PnL
	d.closedN++
	if p.PnL > 0 {
		d.wins++
	}

	level := ringlog.Info
	if reason == ReasonManualKill {
		level = ringlog.Crit
	}
	d.log.Append(level, "closed %s %s P&L %+.2f (%s)", p.Side, p.Symbol, p.PnL, reason)

	if d.journal != nil {
		err := d.journal.RecordClose(journal.CloseRecord{
			PositionID:  p.ID,
			Symbol:      p.Symbol,
			Side:        string(p.Side),
			EntryPrice:  p.EntryPrice,
			ExitPrice:   p.MarkPrice,
			RealizedPL:  p.PnL,
			HeldMinutes: p.DurationMinutes,
			ClosedAt:    at,
			Reason:      reason,
		})
		if err != nil {
			d.log.Append(ringlog.Warn, "journal close: %v", err)
		}
	}
}

// buildSnapshotLocked re-derives every severity and assembles the next
// snapshot. Classification of one position never blocks the others: a
// record with no usable duration limit simply gets NORMAL staleness.
func (d *Dashboard) buildSnapshotLocked(at time.Time) Snapshot {
	hs := d.health.Snapshot()
	d.logHealthTransitionLocked(hs)

	views := make([]PositionView, 0, d.book.Len())
	dailyPnL := d.realized

	for p := range d.book.All() {
		v := PositionView{Position: p.Clone()}

		v.DrawdownTier = risk.Drawdown(math.Min(p.PnL, 0), d.policy.MaxPositionDrawdown)
		v.SizeTier = risk.Size(p.Size, d.policy.MaxPositionSize)
		if p.MaxDurationMinutes > 0 {
			v.StalenessTier = risk.Staleness(p.DurationMinutes, p.MaxDurationMinutes)
			v.StalenessProgress = risk.StalenessProgress(p.DurationMinutes, p.MaxDurationMinutes)
		}
		if g, ok := d.gates[p.ID]; ok {
			v.HoldProgress = g.Progress()
		}

		d.logTierTransitionLocked(p, v)

		dailyPnL += p.PnL
		views = append(views, v)
	}

	winRate := 0.0
	if d.closedN > 0 {
		winRate = float64(d.wins) / float64(d.closedN)
	}

	return Snapshot{
		Time:      at,
		DailyPnL:  dailyPnL,
		WinRate:   winRate,
		Health:    hs,
		Positions: views,
		Log:       d.log.Tail(d.log.Capacity()),
	}
}

func (d *Dashboard) logHealthTransitionLocked(hs health.Snapshot) {
	if hs.Status == d.lastStatus {
		return
	}
	switch hs.Status {
	case health.Halted:
		d.log.Append(ringlog.Crit, "api quota exhausted, system halted")
	case health.Degraded:
		d.log.Append(ringlog.Warn, "latency %.0fms, system degraded", hs.LatencyMS)
	case health.Alive:
		d.log.Append(ringlog.Info, "system health recovered")
	}
	d.lastStatus = hs.Status
}

// logTierTransitionLocked records a position crossing into a worse tier.
// The worst of the three severities drives the entry so one position does
// not flood the log.
func (d *Dashboard) logTierTransitionLocked(p *book.Position, v PositionView) {
	worst := v.DrawdownTier
	if v.StalenessTier > worst {
		worst = v.StalenessTier
	}
	if v.SizeTier > worst {
		worst = v.SizeTier
	}

	prev := d.lastTiers[p.ID]
	if worst > prev {
		level := ringlog.Warn
		if worst == risk.Critical {
			level = ringlog.Crit
		}
		d.log.Append(level, "%s %s risk %s (P&L %+.2f, held %.0f/%.0fm)",
			p.Side, p.Symbol, worst, p.PnL, p.DurationMinutes, p.MaxDurationMinutes)
	}
	d.lastTiers[p.ID] = worst
}
