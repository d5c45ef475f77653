// Package ringlog provides a fixed-capacity, oldest-eviction activity log
// for the dashboard. Appends never fail; once the log is full each new
// entry evicts exactly the single oldest one.
package ringlog

import (
	"fmt"
	"time"
)

// Level is the severity of a log entry.
type Level string

const (
	Info Level = "INFO"
	Warn Level = "WARN"
	Crit Level = "CRIT"
)

// DefaultCapacity is the number of entries kept when no explicit capacity
// is configured.
const DefaultCapacity = 50

// Entry is immutable once appended. IDs are monotonic per log and survive
// eviction, so an entry's id keeps growing past the capacity.
type Entry struct {
	ID      int64
	Time    time.Time
	Level   Level
	Message string
}

type Log struct {
	capacity int
	nextID   int64
	entries  []Entry

	now func() time.Time // stubbed in tests
}

// New creates a log holding at most capacity entries.
func New(capacity int) (*Log, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ringlog: capacity must be at least 1, got %d", capacity)
	}
	return &Log{
		capacity: capacity,
		nextID:   1,
		entries:  make([]Entry, 0, capacity),
		now:      time.Now,
	}, nil
}

// Append records a new entry, evicting the oldest one if the log is full,
// and returns the entry it stored.
func (l *Log) Append(level Level, format string, args ...any) Entry {
	e := Entry{
		ID:      l.nextID,
		Time:    l.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}
	l.nextID++

	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries[len(l.entries)-1] = e
	} else {
		l.entries = append(l.entries, e)
	}
	return e
}

// Tail returns the last n entries in chronological order. It always
// returns a fresh slice, so callers may hold it across later appends.
func (l *Log) Tail(n int) []Entry {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Capacity() int { return l.capacity }
