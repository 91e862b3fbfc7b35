package scheduler

import (
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

// Event announces that a task of Date is about to start.
type Event struct {
	Date        time.Time
	Index       int
	Description string
	Starts      time.Time
	At          time.Time
}

// EventsFor builds one event per unfinished task of s whose start, less
// lead, is after now. Tasks with custom labels have no start and are
// skipped.
func EventsFor(s *model.Schedule, now time.Time, lead time.Duration) []Event {
	out := make([]Event, 0)
	for _, e := range s.Chronological() {
		if e.Task.Finished {
			continue
		}
		span, ok := e.Task.Time.Span()
		if !ok {
			continue
		}
		starts := span.Start.On(s.Date)
		at := starts.Add(-lead)
		if !at.After(now) {
			continue
		}
		out = append(out, Event{
			Date:        s.Date,
			Index:       e.Index,
			Description: e.Task.Description,
			Starts:      starts,
			At:          at,
		})
	}
	return out
}
