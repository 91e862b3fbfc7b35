package model

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTaskTime = errors.New("model: invalid task time")
	ErrInvalidLabel    = errors.New("model: invalid time-of-day label")
)

type TimeKind string

const (
	KindPrecise       TimeKind = "precise"
	KindGeneral       TimeKind = "general"
	KindPeriod        TimeKind = "period"
	KindGeneralPeriod TimeKind = "general_period"
)

func (k TimeKind) IsValid() bool {
	switch k {
	case KindPrecise, KindGeneral, KindPeriod, KindGeneralPeriod:
		return true
	default:
		return false
	}
}

// TaskTime says when a task happens. Kind selects which fields are set:
//
//	Precise        Start
//	General        Label
//	Period         Start, End
//	GeneralPeriod  Label, EndLabel
type TaskTime struct {
	Kind     TimeKind
	Start    time.Time
	End      time.Time
	Label    TimeOfDay
	EndLabel TimeOfDay
}

func Precise(at time.Time) TaskTime {
	return TaskTime{Kind: KindPrecise, Start: at}
}

func General(label TimeOfDay) TaskTime {
	return TaskTime{Kind: KindGeneral, Label: label}
}

func Period(start, end time.Time) TaskTime {
	return TaskTime{Kind: KindPeriod, Start: start, End: end}
}

func GeneralPeriod(start, end TimeOfDay) TaskTime {
	return TaskTime{Kind: KindGeneralPeriod, Label: start, EndLabel: end}
}

// Equal compares two task times variant by variant. Instants are compared
// with time.Time.Equal.
func (t TaskTime) Equal(o TaskTime) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPrecise:
		return t.Start.Equal(o.Start)
	case KindPeriod:
		return t.Start.Equal(o.Start) && t.End.Equal(o.End)
	case KindGeneral:
		return t.Label == o.Label
	case KindGeneralPeriod:
		return t.Label == o.Label && t.EndLabel == o.EndLabel
	default:
		return false
	}
}

// Span reduces the time to an effective start and, for ranges, an end.
// It fails when a custom label is involved.
func (t TaskTime) Span() (Span, bool) {
	switch t.Kind {
	case KindPrecise:
		return PointSpan(ClockOf(t.Start)), true
	case KindPeriod:
		return RangeSpan(ClockOf(t.Start), ClockOf(t.End)), true
	case KindGeneral:
		return t.Label.Span()
	case KindGeneralPeriod:
		start, ok := t.Label.Span()
		if !ok {
			return Span{}, false
		}
		end, ok := t.EndLabel.Span()
		if !ok {
			return Span{}, false
		}
		return RangeSpan(start.Start, end.End), true
	default:
		return Span{}, false
	}
}

// Compare orders t against o for display. The second result is false when
// the two are incomparable, which happens whenever either side carries a
// custom label.
//
// A point that falls inside the other side's range compares as 0, so point
// tasks sort next to the ranged tasks they overlap. Two ranges are ordered by
// their starts. The relation is not transitive across range boundaries.
func (t TaskTime) Compare(o TaskTime) (int, bool) {
	self, ok := t.Span()
	if !ok {
		return 0, false
	}
	other, ok := o.Span()
	if !ok {
		return 0, false
	}

	switch {
	case !self.Ranged && !other.Ranged:
		return cmp.Compare(self.Start, other.Start), true
	case !self.Ranged && other.Ranged:
		return placeIn(self.Start, other), true
	case self.Ranged && !other.Ranged:
		return -placeIn(other.Start, self), true
	default:
		return cmp.Compare(self.Start, other.Start), true
	}
}

func placeIn(at Clock, window Span) int {
	switch {
	case at < window.Start:
		return -1
	case window.Contains(at):
		return 0
	default:
		return 1
	}
}

// OnDate moves clock instants onto date, keeping their time of day.
// Label based variants are date independent and come back unchanged.
func (t TaskTime) OnDate(date time.Time) TaskTime {
	out := t
	switch t.Kind {
	case KindPrecise:
		out.Start = ClockOf(t.Start).On(date)
	case KindPeriod:
		out.Start = ClockOf(t.Start).On(date)
		out.End = ClockOf(t.End).On(date)
	}
	return out
}

func (t TaskTime) Validate() error {
	switch t.Kind {
	case KindPrecise:
		if t.Start.IsZero() {
			return fmt.Errorf("%w: precise time without instant", ErrInvalidTaskTime)
		}
	case KindPeriod:
		if t.Start.IsZero() || t.End.IsZero() {
			return fmt.Errorf("%w: period without start or end", ErrInvalidTaskTime)
		}
	case KindGeneral:
		if err := validateLabel(t.Label); err != nil {
			return err
		}
		if shaped, _ := clockShape(string(t.Label)); shaped {
			return fmt.Errorf("%w: %q reads back as a clock", ErrInvalidLabel, t.Label)
		}
	case KindGeneralPeriod:
		if err := validateLabel(t.Label); err != nil {
			return err
		}
		if err := validateLabel(t.EndLabel); err != nil {
			return err
		}
		startShaped, _ := clockShape(string(t.Label))
		endShaped, _ := clockShape(string(t.EndLabel))
		if startShaped && endShaped {
			return fmt.Errorf("%w: %q - %q reads back as a period", ErrInvalidLabel, t.Label, t.EndLabel)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidTaskTime, t.Kind)
	}
	return nil
}

// validateLabel rejects labels the text format could not read back.
func validateLabel(label TimeOfDay) error {
	s := string(label)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLabel)
	}
	if strings.TrimSpace(s) != s {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidLabel, s)
	}
	if strings.ContainsAny(s, "-(\r\n") || strings.Contains(s, "=>") {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
	if shaped, inRange := clockShape(s); shaped && !inRange {
		return fmt.Errorf("%w: %q is an out of range clock", ErrInvalidLabel, s)
	}
	if tod := FromLabel(s); !tod.IsCustom() && tod != label {
		return fmt.Errorf("%w: %q reads back as %s", ErrInvalidLabel, s, tod)
	}
	return nil
}

// clockShape reports whether s is written like H, H:M or H:M:S, and if so
// whether the values fit a day.
func clockShape(s string) (shaped, inRange bool) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return false, false
	}
	limits := [3]int{23, 59, 59}
	inRange = true
	for i, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			return false, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > limits[i] {
			inRange = false
		}
	}
	return true, inRange
}
