package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

func testSchedule() *model.Schedule {
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	s := model.NewSchedule(day)
	s.AddTask(model.Task{Time: model.Precise(model.NewClock(9, 30, 0).On(day)), Description: "standup, daily"})
	s.AddTask(model.Task{Time: model.Period(model.NewClock(13, 0, 0).On(day), model.NewClock(14, 15, 0).On(day)), Description: "review", Finished: true})
	s.AddTask(model.Task{Time: model.General("whenever"), Description: "inbox; zero"})
	return s
}

func TestWriteICSEvents(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	if err := WriteICS(&buf, []*model.Schedule{testSchedule()}, Options{CalendarName: "Timaru", AlarmMinutes: 5, Stamp: stamp}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"PRODID:" + ProductID + "\r\n",
		"X-WR-CALNAME:Timaru\r\n",
		"DTSTAMP:20260201T080000Z\r\n",
		"DTSTART:20260209T093000Z\r\nDTEND:20260209T095500Z\r\n",
		"SUMMARY:standup\\, daily\r\n",
		"DTSTART:20260209T130000Z\r\nDTEND:20260209T141500Z\r\n",
		"DTSTART;VALUE=DATE:20260209\r\nDTEND;VALUE=DATE:20260210\r\n",
		"SUMMARY:inbox\\; zero\r\n",
		"CATEGORIES:DONE\r\n",
		"TRIGGER:-PT5M\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if got := strings.Count(out, "BEGIN:VALARM"); got != 1 {
		t.Fatalf("only the pending timed task gets an alarm, got %d", got)
	}
}

func TestUIDStable(t *testing.T) {
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	a := UID(day, 1, "standup")
	if a != UID(day, 1, "standup") {
		t.Fatal("uid must be deterministic")
	}
	if a == UID(day, 2, "standup") || a == UID(day.AddDate(0, 0, 1), 1, "standup") || a == UID(day, 1, "retro") {
		t.Fatal("uid must depend on day, index and description")
	}
	if !strings.HasSuffix(a, "@timaru") {
		t.Fatalf("unexpected uid: %q", a)
	}
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.n++
	if f.n > 2 {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func TestWriteICSReportsWriteFailure(t *testing.T) {
	w := &failingWriter{}
	if err := WriteICS(w, []*model.Schedule{testSchedule()}, Options{}); err == nil {
		t.Fatal("expected write error")
	}
	if w.n != 3 {
		t.Fatalf("writes must stop after the first failure, got %d calls", w.n)
	}
}
