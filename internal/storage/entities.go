package storage

import (
	"strconv"
	"time"

	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
)

// TaskRow is the indexed projection of one task line.
type TaskRow struct {
	Day             time.Time
	Index           int
	Position        int
	Kind            string
	TimeText        string
	StartClock      *model.Clock
	EndClock        *model.Clock
	Description     string
	PomodoroPlanned *int
	PomodoroDone    *int
	Finished        bool
	IndexedAt       time.Time
}

// Line renders the row the way it appears in its day file.
func (r TaskRow) Line() string {
	status := " "
	if r.Finished {
		status = "X"
	}
	line := "* [" + status + "] " + r.TimeText + " "
	if r.PomodoroPlanned != nil && r.PomodoroDone != nil {
		line += "(" + strconv.Itoa(*r.PomodoroPlanned) + ", " + strconv.Itoa(*r.PomodoroDone) + ") "
	}
	return line + "=> " + r.Description
}

type TaskListFilter struct {
	Text        string
	From        *time.Time
	To          *time.Time
	PendingOnly bool
	Limit       int
	Offset      int
}

// RowsFor projects every task of s in insertion order.
func RowsFor(s *model.Schedule, indexedAt time.Time) []TaskRow {
	entries := s.Entries()
	rows := make([]TaskRow, 0, len(entries))
	for pos, e := range entries {
		row := TaskRow{
			Day:         s.Date,
			Index:       e.Index,
			Position:    pos,
			Kind:        string(e.Task.Time.Kind),
			TimeText:    format.FormatTaskTime(e.Task.Time),
			Description: e.Task.Description,
			Finished:    e.Task.Finished,
			IndexedAt:   indexedAt,
		}
		if span, ok := e.Task.Time.Span(); ok {
			start, end := span.Start, span.End
			row.StartClock = &start
			row.EndClock = &end
		}
		if p := e.Task.Pomodoro; p != nil {
			planned, done := int(p.Planned), int(p.Done)
			row.PomodoroPlanned = &planned
			row.PomodoroDone = &done
		}
		rows = append(rows, row)
	}
	return rows
}
