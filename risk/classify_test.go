package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	// Staleness-style breakpoints: >0.8 WARNING, >1.0 CRITICAL, both open.
	tests := []struct {
		name  string
		value float64
		max   float64
		want  Tier
	}{
		{"well_below", 10, 100, Normal},
		{"exactly_80pct", 80, 100, Normal},
		{"just_over_80pct", 80.0001, 100, Warning},
		{"exactly_100pct", 100, 100, Warning},
		{"just_over_100pct", 100.0001, 100, Critical},
		{"far_over", 250, 100, Critical},
		{"negative_value_uses_magnitude", -90, 100, Warning},
		{"negative_max_uses_magnitude", -90, -100, Warning},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.value, tt.max, StalenessWarnAt, StalenessCritAt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current float64
		max     float64
		want    Tier
	}{
		{"flat", 0, -500, Normal},
		{"shallow", -100, -500, Normal},
		{"over_half", -300, -500, Warning},
		{"ninety_pct", -450, -500, Critical},
		{"exactly_half", -250, -500, Normal},
		{"exactly_80pct", -400, -500, Warning},
		{"past_limit", -600, -500, Critical},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Drawdown(tt.current, tt.max))
		})
	}
}

func TestStaleness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration float64
		max      float64
		want     Tier
	}{
		{"fresh", 10, 45, Normal},
		{"near_limit", 40, 45, Warning}, // 40/45 ≈ 0.89
		{"at_limit", 45, 45, Warning},
		{"stale", 46, 45, Critical},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Staleness(tt.duration, tt.max))
		})
	}
}

func TestStalenessProgress(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, StalenessProgress(22.5, 45), 1e-9)
	assert.InDelta(t, 1.0, StalenessProgress(45, 45), 1e-9)
	// Capped at 1.0 once past the limit.
	assert.InDelta(t, 1.0, StalenessProgress(90, 45), 1e-9)
}

func TestSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Normal, Size(4000, 10000))
	assert.Equal(t, Warning, Size(6000, 10000))
	assert.Equal(t, Critical, Size(9000, 10000))
}

func TestTierString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NORMAL", Normal.String())
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "CRITICAL", Critical.String())
}
