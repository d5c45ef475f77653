package risk

import "fmt"

// Policy holds the account-wide risk limits the classifier measures
// positions against. A zero or wrong-signed limit would make the ratio
// rule meaningless, so Validate rejects it up front rather than letting
// every tick divide by zero.
type Policy struct {
	// MaxPositionDrawdown is the worst tolerated per-position P&L,
	// expressed as a negative amount in account currency (e.g. -500).
	MaxPositionDrawdown float64

	// MaxPositionSize is the largest tolerated position size in units.
	MaxPositionSize float64
}

func (p Policy) Validate() error {
	if p.MaxPositionDrawdown >= 0 {
		return fmt.Errorf("risk policy: max_position_drawdown must be negative, got %v", p.MaxPositionDrawdown)
	}
	if p.MaxPositionSize <= 0 {
		return fmt.Errorf("risk policy: max_position_size must be positive, got %v", p.MaxPositionSize)
	}
	return nil
}
