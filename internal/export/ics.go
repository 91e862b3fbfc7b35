// Package export writes schedules as iCalendar (RFC 5545) data.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
)

const ProductID = "-//timaru//day planner//EN"

// PointDuration is the length given to tasks planned at a single instant.
const PointDuration = 25 * time.Minute

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sandeepkv93/timaru/tasks"))

type Options struct {
	CalendarName string
	// AlarmMinutes adds a display alarm that many minutes before every
	// pending timed task. Zero disables alarms.
	AlarmMinutes int
	Stamp        time.Time
}

// WriteICS writes one VEVENT per task of every schedule.
func WriteICS(w io.Writer, schedules []*model.Schedule, opts Options) error {
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	ew := &errWriter{w: w}

	ew.line("BEGIN:VCALENDAR")
	ew.line("VERSION:2.0")
	ew.line("PRODID:" + ProductID)
	ew.line("CALSCALE:GREGORIAN")
	if opts.CalendarName != "" {
		ew.line("X-WR-CALNAME:" + escapeText(opts.CalendarName))
	}
	for _, s := range schedules {
		for _, e := range s.Entries() {
			writeEvent(ew, s.Date, e, stamp, opts.AlarmMinutes)
		}
	}
	ew.line("END:VCALENDAR")
	return ew.err
}

// UID is stable for a task with the same day, index and description.
func UID(date time.Time, idx int, description string) string {
	name := fmt.Sprintf("%s#%d#%s", date.Format("2006-01-02"), idx, description)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@timaru"
}

func writeEvent(ew *errWriter, date time.Time, e model.Entry, stamp time.Time, alarmMinutes int) {
	task := e.Task
	ew.line("BEGIN:VEVENT")
	ew.line("UID:" + UID(date, e.Index, task.Description))
	ew.line("DTSTAMP:" + utcStamp(stamp))

	span, timed := task.Time.Span()
	if timed {
		start := span.Start.On(date)
		end := span.End.On(date)
		if !span.Ranged || !end.After(start) {
			end = start.Add(PointDuration)
		}
		ew.line("DTSTART:" + utcStamp(start))
		ew.line("DTEND:" + utcStamp(end))
	} else {
		ew.line("DTSTART;VALUE=DATE:" + date.Format("20060102"))
		ew.line("DTEND;VALUE=DATE:" + date.AddDate(0, 0, 1).Format("20060102"))
	}

	ew.line("SUMMARY:" + escapeText(task.Description))
	ew.line("DESCRIPTION:" + escapeText(format.FormatTask(task)))
	if task.Finished {
		ew.line("CATEGORIES:DONE")
	} else {
		ew.line("CATEGORIES:PENDING")
		if timed && alarmMinutes > 0 {
			ew.line("BEGIN:VALARM")
			ew.line("ACTION:DISPLAY")
			ew.line("DESCRIPTION:" + escapeText(task.Description))
			ew.line(fmt.Sprintf("TRIGGER:-PT%dM", alarmMinutes))
			ew.line("END:VALARM")
		}
	}
	ew.line("END:VEVENT")
}

func utcStamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`, "\r", "")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) line(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s+"\r\n")
}
