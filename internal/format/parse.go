package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

// ParseSchedule reads a whole schedule. The first non-blank line must be the
// date header; every later non-blank line is a task, numbered from 1 in input
// order. Any bad line fails the whole schedule.
func ParseSchedule(text string) (*model.Schedule, error) {
	lines := strings.Split(text, "\n")

	header := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, &ParseError{Stage: StageDate, Line: 1, Err: ErrNoHeader}
	}

	date, err := parseHeader(lines[header])
	if err != nil {
		err.Line = header + 1
		return nil, err
	}

	schedule := model.NewSchedule(date)
	idx := 0
	for i := header + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		task, err := parseTask(lines[i], date)
		if err != nil {
			err.Line = i + 1
			return nil, err
		}
		idx++
		if err := schedule.Insert(idx, task); err != nil {
			return nil, err
		}
	}
	return schedule, nil
}

func parseHeader(line string) (time.Time, *ParseError) {
	c := cursor{s: line}
	c.skipSpace()
	if !c.consume("#") {
		return time.Time{}, stageErr(StageDate, ErrNoHeader)
	}
	c.skipSpace()
	date, err := ParseDate(strings.TrimSpace(c.rest()))
	if err != nil {
		return time.Time{}, stageErr(StageDate, err)
	}
	return date, nil
}

// ParseDate reads a day-month-year date such as 12-12-2012 in the local
// zone. Impossible calendar dates are rejected.
func ParseDate(text string) (time.Time, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("format: date %q is not day-month-year", text)
	}
	var nums [3]int
	for i, p := range parts {
		if !isDigits(p) {
			return time.Time{}, fmt.Errorf("format: date %q is not day-month-year", text)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrImpossibleDay, text)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", ErrImpossibleDay, text)
	}
	return date, nil
}

// ParseTask reads a single task line. Clock times are placed on date.
func ParseTask(line string, date time.Time) (model.Task, error) {
	task, err := parseTask(line, date)
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func parseTask(line string, date time.Time) (model.Task, *ParseError) {
	c := cursor{s: strings.TrimRight(line, "\r")}

	c.skipSpace()
	if !c.consume("-") && !c.consume("*") {
		return model.Task{}, stageErr(StageTaskStart, errors.New("format: expected '-' or '*'"))
	}
	c.skipSpace()
	if !c.consume("[") {
		return model.Task{}, stageErr(StageTaskStart, errors.New("format: expected '['"))
	}

	c.skipSpace()
	finished := c.consume("X")
	c.skipSpace()
	if !c.consume("]") {
		return model.Task{}, stageErr(StageFinished, errors.New("format: expected 'X' or ' ' inside brackets"))
	}

	cut, ok := c.indexOfFirst("(", "=>")
	if !ok {
		return model.Task{}, stageErr(StageTaskTime, errors.New("format: expected '=>' after task time"))
	}
	tt, perr := parseTaskTime(strings.TrimSpace(c.take(cut)), date)
	if perr != nil {
		return model.Task{}, perr
	}

	var pomodoro *model.Pomodoro
	if c.peek("(") {
		p, err := parsePomodoro(&c)
		if err != nil {
			return model.Task{}, stageErr(StagePomodoro, err)
		}
		pomodoro = &p
	} else if !c.consume("=>") {
		return model.Task{}, stageErr(StageDescription, errors.New("format: expected '=>'"))
	}

	description := strings.TrimSpace(c.rest())
	if description == "" {
		return model.Task{}, stageErr(StageDescription, model.ErrEmptyDescription)
	}

	return model.Task{
		Time:        tt,
		Description: description,
		Pomodoro:    pomodoro,
		Finished:    finished,
	}, nil
}

// parsePomodoro reads "(planned, done) =>".
func parsePomodoro(c *cursor) (model.Pomodoro, error) {
	bad := errors.New("format: expected '(planned, done) =>'")
	if !c.consume("(") {
		return model.Pomodoro{}, bad
	}
	c.skipSpace()
	planned, ok := c.digits()
	if !ok {
		return model.Pomodoro{}, bad
	}
	c.skipSpace()
	if !c.consume(",") {
		return model.Pomodoro{}, bad
	}
	c.skipSpace()
	done, ok := c.digits()
	if !ok {
		return model.Pomodoro{}, bad
	}
	c.skipSpace()
	if !c.consume(")") {
		return model.Pomodoro{}, bad
	}
	c.skipSpace()
	if !c.consume("=>") {
		return model.Pomodoro{}, bad
	}

	p, err := strconv.ParseUint(planned, 10, 8)
	if err != nil {
		return model.Pomodoro{}, fmt.Errorf("format: pomodoro count %s out of range", planned)
	}
	d, err := strconv.ParseUint(done, 10, 8)
	if err != nil {
		return model.Pomodoro{}, fmt.Errorf("format: pomodoro count %s out of range", done)
	}
	return model.Pomodoro{Planned: uint8(p), Done: uint8(d)}, nil
}

// ParseTaskTime reads the time field of a task. One segment is a clock time
// or a time-of-day label; two segments separated by '-' form a range, which
// is a clock period only when both ends are clock times.
func ParseTaskTime(text string, date time.Time) (model.TaskTime, error) {
	tt, err := parseTaskTime(strings.TrimSpace(text), date)
	if err != nil {
		return model.TaskTime{}, err
	}
	return tt, nil
}

func parseTaskTime(text string, date time.Time) (model.TaskTime, *ParseError) {
	segments := strings.Split(text, "-")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
		if segments[i] == "" {
			return model.TaskTime{}, stageErr(StageTaskTime, ErrEmptyTime)
		}
	}

	switch len(segments) {
	case 1:
		clock, err := ParseClock(segments[0])
		switch {
		case err == nil:
			return model.Precise(clock.On(date)), nil
		case errors.Is(err, ErrClockRange):
			return model.TaskTime{}, stageErr(StageTaskTime, err)
		default:
			return model.General(model.FromLabel(segments[0])), nil
		}
	case 2:
		start, startErr := ParseClock(segments[0])
		end, endErr := ParseClock(segments[1])
		if errors.Is(startErr, ErrClockRange) {
			return model.TaskTime{}, stageErr(StageTaskTime, startErr)
		}
		if errors.Is(endErr, ErrClockRange) {
			return model.TaskTime{}, stageErr(StageTaskTime, endErr)
		}
		if startErr == nil && endErr == nil {
			return model.Period(start.On(date), end.On(date)), nil
		}
		return model.GeneralPeriod(model.FromLabel(segments[0]), model.FromLabel(segments[1])), nil
	default:
		return model.TaskTime{}, stageErr(StageTaskTime, ErrTimeSegments)
	}
}

// ParseClock reads H, H:M or H:M:S. Text that is not shaped like a clock
// yields ErrNotClock; a clock with an hour above 23 or a minute or second
// above 59 yields ErrClockRange.
func ParseClock(text string) (model.Clock, error) {
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrNotClock, text)
	}
	var hms [3]int
	for i, p := range parts {
		if !isDigits(p) {
			return 0, fmt.Errorf("%w: %q", ErrNotClock, text)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrClockRange, text)
		}
		hms[i] = n
	}
	if hms[0] > 23 || hms[1] > 59 || hms[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrClockRange, text)
	}
	return model.NewClock(hms[0], hms[1], hms[2]), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
