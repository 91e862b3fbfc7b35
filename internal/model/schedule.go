package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var ErrInvalidIndex = errors.New("model: invalid task index")

// Schedule holds the tasks of one calendar day. Tasks are keyed by a 1-based
// index; keys stay stable when other tasks are removed, so they may have
// gaps. Iteration follows insertion order.
type Schedule struct {
	Date  time.Time
	tasks map[int]Task
	order []int
}

// Entry pairs a task with its index.
type Entry struct {
	Index int
	Task  Task
}

func NewSchedule(date time.Time) *Schedule {
	return &Schedule{
		Date:  DateOf(date),
		tasks: make(map[int]Task),
	}
}

// DateOf truncates t to midnight of its day in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddTask appends task and returns its index, one above the highest index in
// use.
func (s *Schedule) AddTask(task Task) int {
	idx := 1
	for _, used := range s.order {
		if used >= idx {
			idx = used + 1
		}
	}
	s.put(idx, task)
	return idx
}

// Insert stores task under a caller chosen index. It is used by the parser,
// which numbers lines itself.
func (s *Schedule) Insert(idx int, task Task) error {
	if idx < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, idx)
	}
	if _, exists := s.tasks[idx]; exists {
		return fmt.Errorf("%w: %d already in use", ErrInvalidIndex, idx)
	}
	s.put(idx, task)
	return nil
}

func (s *Schedule) put(idx int, task Task) {
	if s.tasks == nil {
		s.tasks = make(map[int]Task)
	}
	s.tasks[idx] = task
	s.order = append(s.order, idx)
}

// RemoveTask deletes and returns the task at idx. The schedule is untouched
// when idx is unknown.
func (s *Schedule) RemoveTask(idx int) (Task, bool) {
	task, ok := s.tasks[idx]
	if !ok {
		return Task{}, false
	}
	delete(s.tasks, idx)
	s.order = slices.DeleteFunc(s.order, func(i int) bool { return i == idx })
	return task, true
}

func (s *Schedule) Task(idx int) (Task, bool) {
	task, ok := s.tasks[idx]
	return task, ok
}

// UpdateTask applies fn to the task at idx and stores the result when it
// still validates.
func (s *Schedule) UpdateTask(idx int, fn func(*Task)) error {
	task, ok := s.tasks[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, idx)
	}
	task = task.Clone()
	fn(&task)
	if err := task.Validate(); err != nil {
		return err
	}
	s.tasks[idx] = task
	return nil
}

func (s *Schedule) Len() int {
	return len(s.order)
}

// Entries lists the tasks in insertion order.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, idx := range s.order {
		out = append(out, Entry{Index: idx, Task: s.tasks[idx]})
	}
	return out
}

// Chronological lists the tasks ordered by TaskTime.Compare. The sort is a
// stable insertion sort: an entry only moves ahead of a neighbour that it
// compares strictly before, so incomparable and equal entries keep insertion
// order.
func (s *Schedule) Chronological() []Entry {
	out := s.Entries()
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			c, ok := out[j].Task.Time.Compare(out[j-1].Task.Time)
			if !ok || c >= 0 {
				break
			}
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		Date:  s.Date,
		tasks: make(map[int]Task, len(s.tasks)),
		order: slices.Clone(s.order),
	}
	for idx, task := range s.tasks {
		out.tasks[idx] = task.Clone()
	}
	return out
}
