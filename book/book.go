// Package book tracks the set of open positions for the dashboard. The
// book itself does no classification and no logging; it is plain state
// mutated by the tick handler and the kill-confirmation callback.
package book

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by Remove when the id is not in the book.
var ErrNotFound = errors.New("position not found")

// DefaultHistoryLength is the size of the mark-price window kept per
// position when none is configured.
const DefaultHistoryLength = 20

// Book maps position ids to records and preserves insertion order for
// iteration. It is not safe for concurrent use; the owner serializes
// access.
type Book struct {
	positions map[string]*Position
	order     []string

	historyLen  int
	tickMinutes float64
}

// New creates an empty book. historyLen is the fixed length of each
// position's price window; tickMinutes is how many minutes of holding time
// one tick represents.
func New(historyLen int, tickMinutes float64) (*Book, error) {
	if historyLen < 1 {
		return nil, fmt.Errorf("book: history length must be at least 1, got %d", historyLen)
	}
	if tickMinutes <= 0 {
		return nil, fmt.Errorf("book: tick minutes must be positive, got %v", tickMinutes)
	}
	return &Book{
		positions:   make(map[string]*Position),
		historyLen:  historyLen,
		tickMinutes: tickMinutes,
	}, nil
}

// Upsert inserts p or replaces the record with the same id. A replaced id
// keeps its place in iteration order; a new id goes last. The price
// history is normalized to the book's window length, padded with the
// current mark price if the caller supplied fewer samples.
func (b *Book) Upsert(p Position) {
	if _, ok := b.positions[p.ID]; !ok {
		b.order = append(b.order, p.ID)
	}

	hist := make([]float64, 0, b.historyLen)
	for len(hist)+len(p.PriceHistory) < b.historyLen {
		hist = append(hist, p.MarkPrice)
	}
	start := 0
	if len(p.PriceHistory) > b.historyLen {
		start = len(p.PriceHistory) - b.historyLen
	}
	hist = append(hist, p.PriceHistory[start:]...)
	p.PriceHistory = hist

	b.positions[p.ID] = &p
}

// Tick applies one interval's deltas to the position: mark price and P&L
// move by the given deltas, the holding duration advances by the tick
// interval, and the price window slides by one sample. An absent id is a
// no-op, not an error — close events race with ticks by design.
func (b *Book) Tick(id string, priceDelta, pnlDelta float64) {
	p, ok := b.positions[id]
	if !ok {
		return
	}

	p.MarkPrice += priceDelta
	p.PnL += pnlDelta
	p.DurationMinutes += b.tickMinutes

	copy(p.PriceHistory, p.PriceHistory[1:])
	p.PriceHistory[len(p.PriceHistory)-1] = p.MarkPrice
}

// Remove deletes the position and returns the removed record, or
// ErrNotFound if the id is absent. Reporting the removal to the activity
// log is the caller's responsibility.
func (b *Book) Remove(id string) (Position, error) {
	p, ok := b.positions[id]
	if !ok {
		return Position{}, fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	delete(b.positions, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return *p, nil
}

// Get returns the live record for id. The pointer stays valid until the
// position is removed; callers that publish data must Clone.
func (b *Book) Get(id string) (*Position, bool) {
	p, ok := b.positions[id]
	return p, ok
}

// All iterates the current positions in insertion order. The sequence is
// restartable; it reflects the book's contents at the time of each range.
func (b *Book) All() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, id := range b.order {
			if p, ok := b.positions[id]; ok {
				if !yield(p) {
					return
				}
			}
		}
	}
}

func (b *Book) Len() int { return len(b.positions) }
