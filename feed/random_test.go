package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomFirstTickOpensAPosition(t *testing.T) {
	t.Parallel()

	f := NewRandom(time.Millisecond, 4, 120, 1)

	u, err := f.Next(context.Background())
	require.NoError(t, err)

	// An empty book always gets its first position on the first tick.
	require.Len(t, u.Opens, 1)
	p := u.Opens[0]
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.Symbol)
	assert.Equal(t, p.EntryPrice, p.MarkPrice)
	assert.Greater(t, p.Size, 0.0)
	assert.Greater(t, p.MaxDurationMinutes, 0.0)

	assert.Equal(t, 1, u.Health.QuotaUsedDelta)
	assert.GreaterOrEqual(t, u.Health.LatencyMS, 0.0)
}

func TestRandomTicksCoverOpenPositions(t *testing.T) {
	t.Parallel()

	f := NewRandom(time.Millisecond, 4, 120, 42)

	open := map[string]bool{}
	for i := 0; i < 50; i++ {
		u, err := f.Next(context.Background())
		require.NoError(t, err)

		for _, p := range u.Opens {
			open[p.ID] = true
		}
		for _, id := range u.Closes {
			assert.True(t, open[id], "close for a position the feed never opened")
			delete(open, id)
		}

		ticked := map[string]bool{}
		for _, pt := range u.Ticks {
			ticked[pt.ID] = true
		}
		for id := range open {
			assert.True(t, ticked[id], "tick %d missing delta for open position %s", i, id)
		}
	}
	assert.NotEmpty(t, open)
}

func TestRandomRespectsContext(t *testing.T) {
	t.Parallel()

	f := NewRandom(time.Hour, 4, 120, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomQuotaResetCadence(t *testing.T) {
	t.Parallel()

	const quotaMax = 10
	f := NewRandom(time.Millisecond, 4, quotaMax, 7)

	resets := 0
	for i := 1; i <= 30; i++ {
		u, err := f.Next(context.Background())
		require.NoError(t, err)
		if u.QuotaReset {
			resets++
			assert.Equal(t, 0, i%quotaMax, "reset must land on the window boundary")
		}
	}
	assert.Equal(t, 3, resets)
}
