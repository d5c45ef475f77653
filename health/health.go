// Package health derives the system status tier from the latency, API
// quota and memory figures delivered with each tick.
package health

import "fmt"

// Status is the derived system health tier.
type Status string

const (
	Alive    Status = "ALIVE"
	Degraded Status = "DEGRADED"
	Halted   Status = "HALTED"
)

// Defaults used when the caller does not configure the monitor.
const (
	// DefaultLatencyThresholdMS is the latency above which the system
	// counts as degraded.
	DefaultLatencyThresholdMS = 300

	DefaultQuotaMax   = 120
	DefaultMemTotalMB = 512
)

// Snapshot is the health state published with each dashboard snapshot.
type Snapshot struct {
	LatencyMS      float64
	QuotaRemaining int
	QuotaMax       int
	MemUsedMB      float64
	MemTotalMB     float64
	Status         Status
}

// Monitor owns the live health state. Status is re-derived from current
// values on every update; there is no persistent fault latch, so a HALTED
// tick recovers as soon as the quota window resets.
type Monitor struct {
	snap         Snapshot
	latencyMaxMS float64
}

// New creates a monitor with a full quota window. All maxima must be
// positive.
func New(quotaMax int, memTotalMB, latencyThresholdMS float64) (*Monitor, error) {
	if quotaMax <= 0 {
		return nil, fmt.Errorf("health: quota max must be positive, got %d", quotaMax)
	}
	if memTotalMB <= 0 {
		return nil, fmt.Errorf("health: memory total must be positive, got %v", memTotalMB)
	}
	if latencyThresholdMS <= 0 {
		return nil, fmt.Errorf("health: latency threshold must be positive, got %v", latencyThresholdMS)
	}
	return &Monitor{
		snap: Snapshot{
			QuotaRemaining: quotaMax,
			QuotaMax:       quotaMax,
			MemTotalMB:     memTotalMB,
			Status:         Alive,
		},
		latencyMaxMS: latencyThresholdMS,
	}, nil
}

// Update applies one tick's raw values and re-derives the status. Quota
// exhaustion dominates latency: a slow system with no quota left is
// HALTED, not DEGRADED.
func (m *Monitor) Update(latencyMS float64, quotaUsedDelta int, memUsedMB float64) {
	if latencyMS < 0 {
		latencyMS = 0
	}
	m.snap.LatencyMS = latencyMS

	m.snap.QuotaRemaining -= quotaUsedDelta
	if m.snap.QuotaRemaining < 0 {
		m.snap.QuotaRemaining = 0
	}

	if memUsedMB > m.snap.MemTotalMB {
		memUsedMB = m.snap.MemTotalMB
	}
	m.snap.MemUsedMB = memUsedMB

	switch {
	case m.snap.QuotaRemaining == 0:
		m.snap.Status = Halted
	case latencyMS > m.latencyMaxMS:
		m.snap.Status = Degraded
	default:
		m.snap.Status = Alive
	}
}

// ResetQuota restores the full quota window, e.g. on the provider's
// rate-limit rollover.
func (m *Monitor) ResetQuota() {
	m.snap.QuotaRemaining = m.snap.QuotaMax
	if m.snap.Status == Halted {
		if m.snap.LatencyMS > m.latencyMaxMS {
			m.snap.Status = Degraded
		} else {
			m.snap.Status = Alive
		}
	}
}

// Snapshot returns a copy of the current health state.
func (m *Monitor) Snapshot() Snapshot { return m.snap }
