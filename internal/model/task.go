package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyDescription = errors.New("model: task description is required")

// Pomodoro counts planned and completed work sessions. Done may exceed
// Planned.
type Pomodoro struct {
	Planned uint8
	Done    uint8
}

type Task struct {
	Time        TaskTime
	Description string
	Pomodoro    *Pomodoro
	Finished    bool
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.ContainsAny(t.Description, "\r\n") {
		return errors.New("model: task description must be a single line")
	}
	if err := t.Time.Validate(); err != nil {
		return fmt.Errorf("model: task time: %w", err)
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.Pomodoro != nil {
		p := *t.Pomodoro
		out.Pomodoro = &p
	}
	return out
}

// Equal reports whether both tasks describe the same item.
func (t Task) Equal(o Task) bool {
	if t.Description != o.Description || t.Finished != o.Finished || !t.Time.Equal(o.Time) {
		return false
	}
	switch {
	case t.Pomodoro == nil && o.Pomodoro == nil:
		return true
	case t.Pomodoro == nil || o.Pomodoro == nil:
		return false
	default:
		return *t.Pomodoro == *o.Pomodoro
	}
}

// PlanPomodoros sets the planned count, keeping any completed sessions.
func (t *Task) PlanPomodoros(planned uint8) {
	if t.Pomodoro == nil {
		t.Pomodoro = &Pomodoro{Planned: planned}
		return
	}
	t.Pomodoro.Planned = planned
}

// CompletePomodoros records the completed count. Tasks without a plan get a
// zero plan so the count can still be written out.
func (t *Task) CompletePomodoros(done uint8) {
	if t.Pomodoro == nil {
		t.Pomodoro = &Pomodoro{}
	}
	t.Pomodoro.Done = done
}
