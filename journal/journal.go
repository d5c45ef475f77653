// Package journal persists closed-position records and equity points.
// Persistence is an external collaborator of the dashboard core: the CLI
// wires a journal in, the core never requires one.
package journal

import "time"

// CloseRecord describes one position leaving the book, whether by manual
// kill or by an external close event.
type CloseRecord struct {
	PositionID  string
	Symbol      string
	Side        string
	EntryPrice  float64
	ExitPrice   float64
	RealizedPL  float64
	HeldMinutes float64
	ClosedAt    time.Time
	Reason      string
}

// EquityPoint is one per-tick account summary.
type EquityPoint struct {
	Time          time.Time
	DailyPnL      float64
	WinRate       float64
	OpenPositions int
}

type Journal interface {
	RecordClose(CloseRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}
