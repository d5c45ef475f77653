package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordClose(r CloseRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO closes
		(position_id, symbol, side, entry_price, exit_price, realized_pl, held_minutes, closed_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PositionID, r.Symbol, r.Side, r.EntryPrice,
		r.ExitPrice, r.RealizedPL, r.HeldMinutes, r.ClosedAt, r.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, daily_pnl, win_rate, open_positions)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.DailyPnL, e.WinRate, e.OpenPositions,
	)
	return err
}

// GetClose returns a single close record by position id.
func (j *SQLite) GetClose(positionID string) (CloseRecord, error) {
	var rec CloseRecord

	row := j.db.QueryRow(`
		SELECT position_id, symbol, side, entry_price, exit_price, realized_pl, held_minutes, closed_at, reason
		FROM closes
		WHERE position_id = ?`, positionID)

	err := row.Scan(
		&rec.PositionID,
		&rec.Symbol,
		&rec.Side,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.RealizedPL,
		&rec.HeldMinutes,
		&rec.ClosedAt,
		&rec.Reason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return CloseRecord{}, fmt.Errorf("close record %q not found", positionID)
		}
		return CloseRecord{}, err
	}
	return rec, nil
}

// ListClosesBetween returns close records whose closed_at is within
// [start, end), oldest first.
func (j *SQLite) ListClosesBetween(start, end time.Time) ([]CloseRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, symbol, side, entry_price, exit_price, realized_pl, held_minutes, closed_at, reason
		FROM closes
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CloseRecord
	for rows.Next() {
		var rec CloseRecord
		if err := rows.Scan(
			&rec.PositionID,
			&rec.Symbol,
			&rec.Side,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.RealizedPL,
			&rec.HeldMinutes,
			&rec.ClosedAt,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
