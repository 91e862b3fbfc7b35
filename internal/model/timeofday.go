package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a named period of the day. Values outside the six known
// buckets are custom labels and have no clock mapping.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Noon      TimeOfDay = "noon"
	AfterNoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
	MidNight  TimeOfDay = "midnight"
)

var buckets = map[string]TimeOfDay{
	string(Morning):   Morning,
	string(Noon):      Noon,
	string(AfterNoon): AfterNoon,
	string(Evening):   Evening,
	string(Night):     Night,
	string(MidNight):  MidNight,
}

// FromLabel resolves free text to a bucket, ignoring case. Unknown text is
// kept verbatim as a custom label.
func FromLabel(text string) TimeOfDay {
	if tod, ok := buckets[strings.ToLower(strings.TrimSpace(text))]; ok {
		return tod
	}
	return TimeOfDay(text)
}

func (t TimeOfDay) IsCustom() bool {
	_, ok := buckets[string(t)]
	return !ok
}

func (t TimeOfDay) String() string {
	return string(t)
}

// Span returns the fixed clock window of a bucket. Noon and MidNight are
// single instants. Custom labels report false.
func (t TimeOfDay) Span() (Span, bool) {
	switch t {
	case Morning:
		return RangeSpan(NewClock(6, 0, 0), NewClock(11, 59, 59)), true
	case Noon:
		return PointSpan(NewClock(12, 0, 0)), true
	case AfterNoon:
		return RangeSpan(NewClock(12, 0, 1), NewClock(17, 0, 0)), true
	case Evening:
		return RangeSpan(NewClock(17, 0, 1), NewClock(20, 0, 0)), true
	case Night:
		return RangeSpan(NewClock(20, 0, 1), NewClock(23, 59, 59)), true
	case MidNight:
		return PointSpan(NewClock(0, 0, 0)), true
	default:
		return Span{}, false
	}
}

// Clock is a time of day in seconds since midnight.
type Clock int

func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// On places the clock on the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, date.Location())
}

// Span is the effective window of a task time. Point spans have End == Start
// and Ranged unset.
type Span struct {
	Start  Clock
	End    Clock
	Ranged bool
}

func PointSpan(at Clock) Span {
	return Span{Start: at, End: at}
}

func RangeSpan(start, end Clock) Span {
	return Span{Start: start, End: end, Ranged: true}
}

// Contains reports whether c falls inside [Start, End].
func (s Span) Contains(c Clock) bool {
	return c >= s.Start && c <= s.End
}
