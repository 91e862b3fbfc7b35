// Package planner is the read/write surface over the schedule database used
// by the command line and the TUI. Every mutation opens the day file, applies
// the change and writes the file back before returning.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/timaru/internal/export"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/storage"
)

type PomodoroAction string

const (
	PomodoroKeep   PomodoroAction = ""
	PomodoroNew    PomodoroAction = "new"
	PomodoroDone   PomodoroAction = "done"
	PomodoroRemove PomodoroAction = "remove"
)

func (a PomodoroAction) IsValid() bool {
	switch a {
	case PomodoroKeep, PomodoroNew, PomodoroDone, PomodoroRemove:
		return true
	default:
		return false
	}
}

// Change describes an edit of one task. Nil fields are left alone.
type Change struct {
	Time          *model.TaskTime
	Description   *string
	Finished      *bool
	Pomodoro      PomodoroAction
	PomodoroCount uint8
	MoveTo        *time.Time
}

func (c Change) apply(t *model.Task) {
	if c.Time != nil {
		t.Time = *c.Time
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Finished != nil {
		t.Finished = *c.Finished
	}
	switch c.Pomodoro {
	case PomodoroNew:
		t.PlanPomodoros(c.PomodoroCount)
	case PomodoroDone:
		t.CompletePomodoros(c.PomodoroCount)
	case PomodoroRemove:
		t.Pomodoro = nil
	}
}

// Ref addresses a task by day and index.
type Ref struct {
	Date  time.Time
	Index int
}

type Planner struct {
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Planner)

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(p *Planner) { p.loc = loc }
}

func New(store *storage.Store, logger *log.Logger, opts ...Option) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Planner{store: store, logger: logger, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Now() time.Time {
	return p.now().In(p.loc)
}

func (p *Planner) Today() time.Time {
	return model.DateOf(p.Now())
}

func (p *Planner) Location() *time.Location {
	return p.loc
}

// Add stores task on date and returns its index. Clock times are moved onto
// date.
func (p *Planner) Add(date time.Time, task model.Task) (int, error) {
	date = model.DateOf(date)
	task.Time = task.Time.OnDate(date)
	if err := task.Validate(); err != nil {
		return 0, err
	}
	var idx int
	err := p.store.With(date, func(doc *storage.Document) error {
		idx = doc.AddTask(task)
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.logger.Debug("task added", "date", date.Format(time.DateOnly), "idx", idx)
	return idx, nil
}

// AddRepeating stores task on count days chosen by rule, starting at date.
// Days written before a failure keep their copy.
func (p *Planner) AddRepeating(date time.Time, task model.Task, rule model.RecurrenceRule, count int) ([]Ref, error) {
	if count <= 0 {
		return nil, fmt.Errorf("planner: repeat count must be positive, got %d", count)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	dates, err := rule.Dates(model.DateOf(date), count)
	if err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(dates))
	for _, d := range dates {
		idx, err := p.Add(d, task.Clone())
		if err != nil {
			return refs, fmt.Errorf("planner: repeat on %s: %w", d.Format(time.DateOnly), err)
		}
		refs = append(refs, Ref{Date: d, Index: idx})
	}
	return refs, nil
}

func (p *Planner) Remove(date time.Time, idx int) (model.Task, error) {
	var removed model.Task
	err := p.store.With(date, func(doc *storage.Document) error {
		task, ok := doc.RemoveTask(idx)
		if !ok {
			return fmt.Errorf("%w: %d", model.ErrInvalidIndex, idx)
		}
		removed = task
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	p.logger.Debug("task removed", "date", date.Format(time.DateOnly), "idx", idx)
	return removed, nil
}

// Update applies c to the task at idx and returns where the task now lives.
// When c moves the task to another day, the task is written to the target
// day before it is removed from the source day.
func (p *Planner) Update(date time.Time, idx int, c Change) (Ref, error) {
	if !c.Pomodoro.IsValid() {
		return Ref{}, fmt.Errorf("planner: unknown pomodoro action %q", c.Pomodoro)
	}
	date = model.DateOf(date)
	if c.MoveTo != nil && !model.DateOf(*c.MoveTo).Equal(date) {
		return p.move(date, idx, model.DateOf(*c.MoveTo), c)
	}

	err := p.store.With(date, func(doc *storage.Document) error {
		return doc.UpdateTask(idx, func(t *model.Task) {
			c.apply(t)
			t.Time = t.Time.OnDate(date)
		})
	})
	if err != nil {
		return Ref{}, err
	}
	return Ref{Date: date, Index: idx}, nil
}

func (p *Planner) move(from time.Time, idx int, to time.Time, c Change) (Ref, error) {
	ref := Ref{Date: to}
	err := p.store.With(from, func(src *storage.Document) error {
		task, ok := src.Task(idx)
		if !ok {
			return fmt.Errorf("%w: %d", model.ErrInvalidIndex, idx)
		}
		task = task.Clone()
		c.apply(&task)
		task.Time = task.Time.OnDate(to)
		if err := task.Validate(); err != nil {
			return err
		}
		if err := p.store.With(to, func(dst *storage.Document) error {
			ref.Index = dst.AddTask(task)
			return nil
		}); err != nil {
			return err
		}
		src.RemoveTask(idx)
		return nil
	})
	if err != nil {
		return Ref{}, err
	}
	p.logger.Debug("task moved", "from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly), "idx", ref.Index)
	return ref, nil
}

// ToggleFinished flips the finished flag of the task at idx.
func (p *Planner) ToggleFinished(date time.Time, idx int) (model.Task, error) {
	return p.edit(date, idx, func(t *model.Task) { t.Finished = !t.Finished })
}

// CompletePomodoro counts one more finished session for the task at idx.
func (p *Planner) CompletePomodoro(date time.Time, idx int) (model.Task, error) {
	return p.edit(date, idx, func(t *model.Task) {
		done := uint8(0)
		if t.Pomodoro != nil {
			done = t.Pomodoro.Done
		}
		if done < math.MaxUint8 {
			done++
		}
		t.CompletePomodoros(done)
	})
}

func (p *Planner) edit(date time.Time, idx int, fn func(*model.Task)) (model.Task, error) {
	var out model.Task
	err := p.store.With(date, func(doc *storage.Document) error {
		if err := doc.UpdateTask(idx, fn); err != nil {
			return err
		}
		out, _ = doc.Task(idx)
		return nil
	})
	return out, err
}

// Day loads one day without creating its file.
func (p *Planner) Day(date time.Time) (*model.Schedule, error) {
	return p.store.Load(model.DateOf(date))
}

func (p *Planner) Range(from time.Time, days int) ([]*model.Schedule, error) {
	return p.store.OpenRange(model.DateOf(from), days)
}

// Week covers seven days starting at from.
func (p *Planner) Week(from time.Time) ([]*model.Schedule, error) {
	return p.Range(from, 7)
}

// Month covers from up to, not including, the same day next month.
func (p *Planner) Month(from time.Time) ([]*model.Schedule, error) {
	return p.Range(from, MonthDays(from))
}

// MonthDays counts the days from from up to the same day next month.
func MonthDays(from time.Time) int {
	start := model.DateOf(from)
	end := start.AddDate(0, 1, 0)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// Search finds tasks whose description contains text, using the index.
func (p *Planner) Search(ctx context.Context, text string) ([]storage.TaskRow, error) {
	if p.store.Index == nil {
		return nil, storage.ErrNoIndex
	}
	return p.store.Index.ListTasks(ctx, storage.TaskListFilter{Text: text})
}

// Pending lists unfinished tasks of the days in [from, to]. Without an index
// the day files are scanned.
func (p *Planner) Pending(ctx context.Context, from, to time.Time) ([]storage.TaskRow, error) {
	from, to = model.DateOf(from), model.DateOf(to)
	if to.Before(from) {
		return nil, errors.New("planner: pending range ends before it starts")
	}
	if p.store.Index != nil {
		return p.store.Index.ListTasks(ctx, storage.TaskListFilter{From: &from, To: &to, PendingOnly: true})
	}

	days := int(math.Round(to.Sub(from).Hours()/24)) + 1
	schedules, err := p.store.OpenRange(from, days)
	if err != nil {
		return nil, err
	}
	now := p.now()
	out := make([]storage.TaskRow, 0)
	for _, s := range schedules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range storage.RowsFor(s, now) {
			if !row.Finished {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (p *Planner) Reindex(ctx context.Context) (int, error) {
	days, err := p.store.Reindex(ctx)
	if err != nil {
		return days, err
	}
	p.logger.Info("index rebuilt", "days", days)
	return days, nil
}

// ExportICS writes days schedules starting at from as iCalendar data.
func (p *Planner) ExportICS(w io.Writer, from time.Time, days int, opts export.Options) error {
	schedules, err := p.Range(from, days)
	if err != nil {
		return err
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = p.now()
	}
	return export.WriteICS(w, schedules, opts)
}
