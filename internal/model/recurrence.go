package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type RecurrenceType string

const (
	RecurrenceEveryNDays     RecurrenceType = "every_n_days"
	RecurrenceEveryNWeeks    RecurrenceType = "every_n_weeks"
	RecurrenceEveryWeekday   RecurrenceType = "every_weekday"
	RecurrenceLastDayOfMonth RecurrenceType = "last_day_of_month"
)

var (
	ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")
	ErrInvalidInterval       = errors.New("model: invalid recurrence interval")
)

// RecurrenceRule steps from one calendar day to the next occurrence. Only
// dates move; a task keeps its time of day.
type RecurrenceRule struct {
	Type     RecurrenceType
	Interval int
	// Weekdays limits RecurrenceEveryWeekday. Empty means Monday to Friday.
	Weekdays []time.Weekday
}

func (r RecurrenceRule) Validate() error {
	switch r.Type {
	case RecurrenceEveryNDays, RecurrenceEveryNWeeks, RecurrenceEveryWeekday, RecurrenceLastDayOfMonth:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Type)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	seen := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if seen[d] {
			return errors.New("model: duplicate weekday in recurrence")
		}
		seen[d] = true
	}
	return nil
}

// NextAfter returns the first occurrence strictly after the day of from.
func (r RecurrenceRule) NextAfter(from time.Time) (time.Time, error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, err
	}
	day := DateOf(from)
	switch r.Type {
	case RecurrenceEveryNWeeks:
		return day.AddDate(0, 0, 7*r.Interval), nil
	case RecurrenceEveryWeekday:
		allowed := r.allowedWeekdays()
		probe := day.AddDate(0, 0, 1)
		for !allowed[probe.Weekday()] {
			probe = probe.AddDate(0, 0, 1)
		}
		return probe, nil
	case RecurrenceLastDayOfMonth:
		last := lastDayOf(day)
		if last.After(day) {
			return last, nil
		}
		return lastDayOf(last.AddDate(0, 0, 1)), nil
	default:
		return day.AddDate(0, 0, r.Interval), nil
	}
}

// Dates returns count days: the day of start followed by the next
// occurrences.
func (r RecurrenceRule) Dates(start time.Time, count int) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return []time.Time{}, nil
	}
	out := make([]time.Time, 0, count)
	cursor := DateOf(start)
	out = append(out, cursor)
	for len(out) < count {
		next, err := r.NextAfter(cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

func (r RecurrenceRule) allowedWeekdays() map[time.Weekday]bool {
	if len(r.Weekdays) > 0 {
		m := make(map[time.Weekday]bool, len(r.Weekdays))
		for _, w := range r.Weekdays {
			m[w] = true
		}
		return m
	}
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

func lastDayOf(day time.Time) time.Time {
	y, m, _ := day.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, day.Location())
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseRecurrence reads the repeat vocabulary: day, week, weekday,
// month-end, Nd, Nw, or a comma separated list of weekday names such as
// mon,wed,fri.
func ParseRecurrence(text string) (RecurrenceRule, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	switch s {
	case "day", "daily":
		return RecurrenceRule{Type: RecurrenceEveryNDays, Interval: 1}, nil
	case "week", "weekly":
		return RecurrenceRule{Type: RecurrenceEveryNWeeks, Interval: 1}, nil
	case "weekday", "weekdays":
		return RecurrenceRule{Type: RecurrenceEveryWeekday, Interval: 1}, nil
	case "month-end":
		return RecurrenceRule{Type: RecurrenceLastDayOfMonth, Interval: 1}, nil
	case "":
		return RecurrenceRule{}, fmt.Errorf("%w: empty", ErrInvalidRecurrenceType)
	}

	if unit := s[len(s)-1]; unit == 'd' || unit == 'w' {
		if n, err := strconv.Atoi(s[:len(s)-1]); err == nil {
			rule := RecurrenceRule{Type: RecurrenceEveryNDays, Interval: n}
			if unit == 'w' {
				rule.Type = RecurrenceEveryNWeeks
			}
			return rule, rule.Validate()
		}
	}

	rule := RecurrenceRule{Type: RecurrenceEveryWeekday, Interval: 1}
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if len(name) > 3 {
			name = name[:3]
		}
		d, ok := weekdayNames[name]
		if !ok {
			return RecurrenceRule{}, fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, text)
		}
		rule.Weekdays = append(rule.Weekdays, d)
	}
	return rule, rule.Validate()
}
