package model

import (
	"errors"
	"testing"
	"time"
)

func sampleTask(desc string, tt TaskTime) Task {
	return Task{Time: tt, Description: desc}
}

func TestScheduleAddAssignsSequentialIndexes(t *testing.T) {
	s := NewSchedule(time.Date(2012, 12, 12, 15, 4, 5, 0, time.Local))
	if s.Date.Hour() != 0 || s.Date.Day() != 12 {
		t.Fatalf("schedule date must be truncated to the day: %v", s.Date)
	}
	for i, desc := range []string{"a", "b", "c"} {
		if idx := s.AddTask(sampleTask(desc, General(Morning))); idx != i+1 {
			t.Fatalf("task %q got index %d, want %d", desc, idx, i+1)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 tasks, got %d", s.Len())
	}
}

func TestScheduleAddAfterRemoveDoesNotReuseIndex(t *testing.T) {
	s := NewSchedule(time.Now())
	s.AddTask(sampleTask("a", General(Morning)))
	s.AddTask(sampleTask("b", General(Noon)))
	s.AddTask(sampleTask("c", General(Night)))

	if _, ok := s.RemoveTask(1); !ok {
		t.Fatal("expected removal of index 1")
	}
	idx := s.AddTask(sampleTask("d", General(Evening)))
	if idx != 4 {
		t.Fatalf("expected new index 4, got %d", idx)
	}
	if task, _ := s.Task(3); task.Description != "c" {
		t.Fatalf("index 3 was overwritten: %+v", task)
	}
	var got []int
	for _, e := range s.Entries() {
		got = append(got, e.Index)
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("unexpected entries: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries out of insertion order: %v", got)
		}
	}
}

func TestScheduleRemoveUnknownIndexLeavesScheduleUnchanged(t *testing.T) {
	s := NewSchedule(time.Now())
	s.AddTask(sampleTask("a", General(Morning)))
	before := s.Clone()

	if _, ok := s.RemoveTask(7); ok {
		t.Fatal("expected not found")
	}
	if s.Len() != before.Len() {
		t.Fatalf("schedule changed: %d tasks, want %d", s.Len(), before.Len())
	}
	task, _ := s.Task(1)
	orig, _ := before.Task(1)
	if !task.Equal(orig) {
		t.Fatalf("task changed: %+v", task)
	}
}

func TestScheduleUpdateTask(t *testing.T) {
	s := NewSchedule(time.Now())
	idx := s.AddTask(sampleTask("a", General(Morning)))

	if err := s.UpdateTask(idx, func(task *Task) { task.Finished = true }); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if task, _ := s.Task(idx); !task.Finished {
		t.Fatal("expected finished task")
	}

	err := s.UpdateTask(idx, func(task *Task) { task.Description = "" })
	if !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if task, _ := s.Task(idx); task.Description != "a" {
		t.Fatalf("invalid update must not be stored: %+v", task)
	}

	if err := s.UpdateTask(42, func(*Task) {}); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestScheduleInsertRejectsDuplicates(t *testing.T) {
	s := NewSchedule(time.Now())
	if err := s.Insert(1, sampleTask("a", General(Noon))); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := s.Insert(1, sampleTask("b", General(Noon))); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if err := s.Insert(0, sampleTask("c", General(Noon))); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex for zero index, got %v", err)
	}
}

func TestScheduleChronological(t *testing.T) {
	s := NewSchedule(time.Date(2012, 12, 12, 0, 0, 0, 0, time.Local))
	s.AddTask(sampleTask("evening walk", General(Evening)))
	s.AddTask(sampleTask("standup", Precise(at(9, 30, 0))))
	s.AddTask(sampleTask("whenever", General("someday")))
	s.AddTask(sampleTask("early", Precise(at(6, 0, 0))))

	var got []string
	for _, e := range s.Chronological() {
		got = append(got, e.Task.Description)
	}
	// The custom entry is incomparable, so nothing moves across it.
	want := []string{"standup", "evening walk", "whenever", "early"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chronological order = %v, want %v", got, want)
		}
	}

	s2 := NewSchedule(time.Date(2012, 12, 12, 0, 0, 0, 0, time.Local))
	s2.AddTask(sampleTask("night", General(Night)))
	s2.AddTask(sampleTask("lunch", General(Noon)))
	s2.AddTask(sampleTask("early", Precise(at(6, 0, 0))))
	got = got[:0]
	for _, e := range s2.Chronological() {
		got = append(got, e.Task.Description)
	}
	want = []string{"early", "lunch", "night"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chronological order = %v, want %v", got, want)
		}
	}
}
