package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

// FormatSchedule renders the canonical text of s: the date header, a blank
// line, then one line per task in insertion order.
func FormatSchedule(s *model.Schedule) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(FormatDate(s.Date))
	b.WriteByte('\n')
	entries := s.Entries()
	if len(entries) > 0 {
		b.WriteByte('\n')
	}
	for _, e := range entries {
		b.WriteString(FormatTask(e.Task))
		b.WriteByte('\n')
	}
	return b.String()
}

func FormatDate(date time.Time) string {
	return fmt.Sprintf("%d-%d-%d", date.Day(), int(date.Month()), date.Year())
}

// FormatTask renders one task line. The marker is always '*'.
func FormatTask(t model.Task) string {
	status := ' '
	if t.Finished {
		status = 'X'
	}
	s := fmt.Sprintf("* [%c] %s ", status, FormatTaskTime(t.Time))
	if t.Pomodoro != nil {
		s += fmt.Sprintf("(%d, %d) ", t.Pomodoro.Planned, t.Pomodoro.Done)
	}
	return s + "=> " + t.Description
}

// FormatTaskTime renders clock times as H:MM, dropping seconds.
func FormatTaskTime(tt model.TaskTime) string {
	switch tt.Kind {
	case model.KindPrecise:
		return formatClock(tt.Start)
	case model.KindPeriod:
		return formatClock(tt.Start) + " - " + formatClock(tt.End)
	case model.KindGeneral:
		return tt.Label.String()
	case model.KindGeneralPeriod:
		return tt.Label.String() + " - " + tt.EndLabel.String()
	default:
		return ""
	}
}

func formatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}
