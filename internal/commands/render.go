package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/storage"
)

// RenderDay lists a day in chronological order, each line prefixed with the
// index used by remove and update.
func RenderDay(s *model.Schedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n", format.FormatDate(s.Date), s.Date.Weekday().String()[:3])
	entries := s.Chronological()
	if len(entries) == 0 {
		b.WriteString("  no tasks\n")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%3d  %s\n", e.Index, format.FormatTask(e.Task))
	}
	return b.String()
}

// RenderRange renders the days that have tasks, separated by blank lines.
func RenderRange(schedules []*model.Schedule) string {
	parts := make([]string, 0, len(schedules))
	for _, s := range schedules {
		if s.Len() == 0 {
			continue
		}
		parts = append(parts, RenderDay(s))
	}
	if len(parts) == 0 {
		return "no tasks in range\n"
	}
	return strings.Join(parts, "\n")
}

func RenderRows(rows []storage.TaskRow) string {
	if len(rows) == 0 {
		return "no matching tasks\n"
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-10s %3d  %s\n", format.FormatDate(row.Day), row.Index, row.Line())
	}
	return b.String()
}
