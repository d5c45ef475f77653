package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	closes *csv.Writer
	equity *csv.Writer
	cf, ef *os.File
}

func NewCSV(closesPath, equityPath string) (*CSV, error) {
	cf, err := os.Create(closesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		cf.Close()
		return nil, err
	}

	cw := csv.NewWriter(cf)
	ew := csv.NewWriter(ef)

	if err := cw.Write([]string{"position_id", "symbol", "side", "entry_price", "exit_price", "realized_pl", "held_minutes", "closed_at", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "daily_pnl", "win_rate", "open_positions"}); err != nil {
		return nil, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSV{cw, ew, cf, ef}, nil
}

func (j *CSV) RecordClose(r CloseRecord) error {
	err := j.closes.Write([]string{
		r.PositionID,
		r.Symbol,
		r.Side,
		f(r.EntryPrice),
		f(r.ExitPrice),
		f(r.RealizedPL),
		f(r.HeldMinutes),
		r.ClosedAt.Format(time.RFC3339),
		r.Reason,
	})
	if err != nil {
		return err
	}
	j.closes.Flush()
	return j.closes.Error()
}

func (j *CSV) RecordEquity(e EquityPoint) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.DailyPnL),
		f(e.WinRate),
		strconv.Itoa(e.OpenPositions),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.closes.Flush()
	if err := j.closes.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.cf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
