package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := New(4, 1)
	require.NoError(t, err)
	return b
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(0, 1)
	assert.Error(t, err)
	_, err = New(4, 0)
	assert.Error(t, err)
	_, err = New(4, -1)
	assert.Error(t, err)
}

func TestUpsertPadsHistory(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1", Symbol: "EUR_USD", Side: Long, MarkPrice: 1.1})

	p, ok := b.Get("1")
	require.True(t, ok)
	assert.Equal(t, []float64{1.1, 1.1, 1.1, 1.1}, p.PriceHistory)
}

func TestUpsertReplacesByID(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1", Symbol: "EUR_USD", DurationMinutes: 30})
	b.Upsert(Position{ID: "2", Symbol: "GBP_USD"})

	// Replacement is the only way duration resets.
	b.Upsert(Position{ID: "1", Symbol: "EUR_USD", DurationMinutes: 0})

	p, ok := b.Get("1")
	require.True(t, ok)
	assert.Equal(t, 0.0, p.DurationMinutes)
	assert.Equal(t, 2, b.Len())

	// A replaced id keeps its place in iteration order.
	var ids []string
	for p := range b.All() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestTickAdvancesTogether(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1", Symbol: "EUR_USD", MarkPrice: 1.2000, PnL: 0})

	b.Tick("1", 0.0010, -5)
	b.Tick("1", -0.0005, 2)

	p, ok := b.Get("1")
	require.True(t, ok)
	assert.InDelta(t, 1.2005, p.MarkPrice, 1e-9)
	assert.InDelta(t, -3, p.PnL, 1e-9)
	assert.Equal(t, 2.0, p.DurationMinutes)

	// Window slid twice: two seeded samples remain, newest last.
	assert.Len(t, p.PriceHistory, 4)
	assert.InDelta(t, 1.2000, p.PriceHistory[0], 1e-9)
	assert.InDelta(t, 1.2000, p.PriceHistory[1], 1e-9)
	assert.InDelta(t, 1.2010, p.PriceHistory[2], 1e-9)
	assert.InDelta(t, 1.2005, p.PriceHistory[3], 1e-9)
}

func TestTickAbsentIDIsNoOp(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1"})

	b.Tick("missing", 1, 1)
	assert.Equal(t, 1, b.Len())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1", Symbol: "EUR_USD", PnL: 42})

	p, err := b.Remove("1")
	require.NoError(t, err)
	assert.Equal(t, "EUR_USD", p.Symbol)
	assert.Equal(t, 42.0, p.PnL)
	assert.Equal(t, 0, b.Len())
}

func TestRemoveAbsentReturnsNotFound(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1"})

	_, err := b.Remove("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	// The book is unchanged.
	assert.Equal(t, 1, b.Len())
}

func TestAllIsRestartableInsertionOrder(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "c"})
	b.Upsert(Position{ID: "a"})
	b.Upsert(Position{ID: "b"})

	seq := b.All()

	collect := func() []string {
		var ids []string
		for p := range seq {
			ids = append(ids, p.ID)
		}
		return ids
	}

	assert.Equal(t, []string{"c", "a", "b"}, collect())
	// Restartable: ranging again yields the same sequence.
	assert.Equal(t, []string{"c", "a", "b"}, collect())

	// Early break is allowed.
	n := 0
	for range b.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	b := newTestBook(t)
	b.Upsert(Position{ID: "1", MarkPrice: 1.0})

	p, _ := b.Get("1")
	cp := p.Clone()

	b.Tick("1", 0.5, 0)
	assert.InDelta(t, 1.0, cp.PriceHistory[len(cp.PriceHistory)-1], 1e-9)
}
