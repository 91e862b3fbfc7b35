package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

func TestEventsForSkipsPastFinishedAndCustom(t *testing.T) {
	date := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	s := model.NewSchedule(date)
	s.AddTask(model.Task{Time: model.Precise(model.NewClock(8, 0, 0).On(date)), Description: "already past"})
	s.AddTask(model.Task{Time: model.Period(model.NewClock(13, 0, 0).On(date), model.NewClock(14, 0, 0).On(date)), Description: "lunch"})
	s.AddTask(model.Task{Time: model.General(model.Evening), Description: "movie"})
	s.AddTask(model.Task{Time: model.General(model.FromLabel("whenever")), Description: "someday"})
	s.AddTask(model.Task{Time: model.Precise(model.NewClock(18, 0, 0).On(date)), Description: "done", Finished: true})

	now := model.NewClock(10, 0, 0).On(date)
	events := EventsFor(s, now, 5*time.Minute)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}

	lunch := events[0]
	if lunch.Index != 2 || lunch.Description != "lunch" {
		t.Fatalf("unexpected first event: %+v", lunch)
	}
	if want := model.NewClock(12, 55, 0).On(date); !lunch.At.Equal(want) {
		t.Fatalf("lunch at = %v, want %v", lunch.At, want)
	}
	if want := model.NewClock(13, 0, 0).On(date); !lunch.Starts.Equal(want) {
		t.Fatalf("lunch starts = %v, want %v", lunch.Starts, want)
	}

	movie := events[1]
	if movie.Index != 3 || !movie.Starts.Equal(model.NewClock(17, 0, 1).On(date)) {
		t.Fatalf("unexpected evening event: %+v", movie)
	}
}

func TestEventsForEmptySchedule(t *testing.T) {
	s := model.NewSchedule(time.Now())
	if events := EventsFor(s, time.Now(), 0); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}
