package dash

import (
	"time"

	"github.com/rustyeddy/riskdash/book"
	"github.com/rustyeddy/riskdash/health"
	"github.com/rustyeddy/riskdash/ringlog"
	"github.com/rustyeddy/riskdash/risk"
)

// PositionView is one position plus its derived severities, as published
// to the rendering layer.
type PositionView struct {
	book.Position

	DrawdownTier      risk.Tier
	SizeTier          risk.Tier
	StalenessTier     risk.Tier
	StalenessProgress float64

	// HoldProgress is the kill-gate progress for this position, 0 when no
	// hold is in flight.
	HoldProgress float64
}

// Snapshot is the immutable aggregate published once per tick. Everything
// in it is copied out of the live state at publication, so the rendering
// layer can hold it indefinitely and never observe a partial update.
type Snapshot struct {
	Time      time.Time
	DailyPnL  float64
	WinRate   float64
	Health    health.Snapshot
	Positions []PositionView
	Log       []ringlog.Entry
}
