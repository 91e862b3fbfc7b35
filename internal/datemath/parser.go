// Package datemath turns the date words accepted on the command line into
// calendar days.
package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timaru/internal/format"
)

var ErrUnrecognized = errors.New("datemath: unrecognized date")

var (
	inDurationRe = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)
	agoRe        = regexp.MustCompile(`^(\d+) (day|days|week|weeks) ago$`)
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Parser resolves date words relative to a base time in one location.
type Parser struct {
	location *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{location: loc}
}

// Parse accepts today, tomorrow, yesterday, "in N days|weeks|months",
// "N days|weeks ago", "next <weekday>", a bare weekday (the next one, today
// included) and explicit d-m-y dates. The result is midnight of that day.
func (p *Parser) Parse(text string, base time.Time) (time.Time, error) {
	relative := strings.ToLower(strings.Join(strings.Fields(text), " "))

	switch relative {
	case "today", "":
		return p.startOfDay(base), nil
	case "tomorrow":
		return p.startOfDay(base.AddDate(0, 0, 1)), nil
	case "yesterday":
		return p.startOfDay(base.AddDate(0, 0, -1)), nil
	}

	if m := inDurationRe.FindStringSubmatch(relative); m != nil {
		return p.shift(base, m[1], m[2], 1)
	}
	if m := agoRe.FindStringSubmatch(relative); m != nil {
		return p.shift(base, m[1], m[2], -1)
	}
	if name, ok := strings.CutPrefix(relative, "next "); ok {
		return p.nextWeekday(name, base, false)
	}
	if _, ok := weekdays[relative]; ok {
		return p.nextWeekday(relative, base, true)
	}
	if strings.Count(relative, "-") == 2 {
		date, err := format.ParseDate(relative)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w %q: %v", ErrUnrecognized, text, err)
		}
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.location), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, text)
}

func (p *Parser) shift(base time.Time, amount, unit string, sign int) (time.Time, error) {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: amount %q", ErrUnrecognized, amount)
	}
	n *= sign
	switch {
	case strings.HasPrefix(unit, "day"):
		return p.startOfDay(base.AddDate(0, 0, n)), nil
	case strings.HasPrefix(unit, "week"):
		return p.startOfDay(base.AddDate(0, 0, n*7)), nil
	case strings.HasPrefix(unit, "month"):
		return p.startOfDay(base.AddDate(0, n, 0)), nil
	}
	return time.Time{}, fmt.Errorf("%w: unit %q", ErrUnrecognized, unit)
}

func (p *Parser) nextWeekday(name string, base time.Time, includeToday bool) (time.Time, error) {
	target, ok := weekdays[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: weekday %q", ErrUnrecognized, name)
	}
	current := base.In(p.location).Weekday()
	daysUntil := int(target - current)
	if daysUntil < 0 || (daysUntil == 0 && !includeToday) {
		daysUntil += 7
	}
	return p.startOfDay(base.AddDate(0, 0, daysUntil)), nil
}

func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}
