// Package format reads and writes the schedule text format:
//
//	# 12-12-2012
//
//	* [ ] 4:30 (1, 0) => do some stuff
//	- [X] 5:30 (1, 1) => do some other stuff
package format

import (
	"errors"
	"fmt"
)

// Stage names the grammar rule a parse failed on.
type Stage string

const (
	StageDate        Stage = "date"
	StageTaskStart   Stage = "start of task"
	StageFinished    Stage = "finished marker"
	StageTaskTime    Stage = "task time"
	StagePomodoro    Stage = "pomodoro and/or description"
	StageDescription Stage = "description"
)

var (
	ErrNotClock      = errors.New("format: not a clock time")
	ErrClockRange    = errors.New("format: clock value out of range")
	ErrImpossibleDay = errors.New("format: date does not exist")
	ErrEmptyTime     = errors.New("format: empty time")
	ErrTimeSegments  = errors.New("format: too many time segments")
	ErrNoHeader      = errors.New("format: missing date header")
)

// ParseError reports which stage of the grammar rejected the input. Line is
// the 1-based line in the schedule text, or 0 for a standalone task line.
type ParseError struct {
	Stage Stage
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	msg := "parse error: " + string(e.Stage)
	if e.Line > 0 {
		msg = fmt.Sprintf("parse error: line %d: %s", e.Line, e.Stage)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *ParseError {
	return &ParseError{Stage: stage, Err: err}
}
