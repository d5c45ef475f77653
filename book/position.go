package book

// Side is the direction of an open position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Position is one open trade tracked by the book. Duration and the price
// history window advance together on every tick; duration never resets
// except by replacing the whole record through Upsert.
type Position struct {
	ID         string
	Symbol     string
	Side       Side
	PnL        float64
	EntryPrice float64
	MarkPrice  float64
	ZScore     float64
	Size       float64

	DurationMinutes    float64
	MaxDurationMinutes float64

	// PriceHistory is a fixed-length sliding window of recent mark prices,
	// oldest first, used for trend display.
	PriceHistory []float64
}

// Clone returns a deep copy; snapshots hand these out so the rendering
// layer can never mutate the book's records.
func (p *Position) Clone() Position {
	cp := *p
	cp.PriceHistory = make([]float64, len(p.PriceHistory))
	copy(cp.PriceHistory, p.PriceHistory)
	return cp
}
