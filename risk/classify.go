package risk

import "math"

// Tier is a severity level derived from a value/threshold ratio.
type Tier int

const (
	Normal Tier = iota
	Warning
	Critical
)

func (t Tier) String() string {
	switch t {
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "NORMAL"
	}
}

// Breakpoints for the two tier rules in use. Drawdown and position size
// escalate early (half of the limit is already worth a warning); staleness
// only goes critical once the limit is actually crossed.
const (
	DrawdownWarnAt = 0.5
	DrawdownCritAt = 0.8

	StalenessWarnAt = 0.8
	StalenessCritAt = 1.0
)

// Classify maps a (value, max) pair onto a severity tier.
//
// ratio = |value/max|; ratio > critAt is CRITICAL, ratio > warnAt is
// WARNING, anything else is NORMAL. Boundaries are open intervals: a ratio
// of exactly warnAt stays in the lower tier. max must be non-zero; callers
// validate thresholds at construction time (see Policy.Validate).
func Classify(value, max, warnAt, critAt float64) Tier {
	ratio := math.Abs(value / max)
	switch {
	case ratio > critAt:
		return Critical
	case ratio > warnAt:
		return Warning
	default:
		return Normal
	}
}

// Drawdown classifies a current drawdown against the configured maximum.
// Both are negative-or-zero P&L figures; -450 against -500 is CRITICAL.
func Drawdown(current, max float64) Tier {
	return Classify(current, max, DrawdownWarnAt, DrawdownCritAt)
}

// Staleness classifies how long a position has been open against its
// configured maximum duration. Past 80% of the limit is WARNING; past the
// limit itself the position is stale (CRITICAL).
func Staleness(durationMin, maxMin float64) Tier {
	return Classify(durationMin, maxMin, StalenessWarnAt, StalenessCritAt)
}

// StalenessProgress returns the display fraction for a position's age,
// capped at 1.0.
func StalenessProgress(durationMin, maxMin float64) float64 {
	return math.Min(1.0, durationMin/maxMin)
}

// Size classifies an observed position size against the configured maximum,
// using the same breakpoints as drawdown.
func Size(size, max float64) Tier {
	return Classify(size, max, DrawdownWarnAt, DrawdownCritAt)
}
