package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

func setupIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "timaru-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	index, err := NewSQLiteIndex(db)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	return index
}

func sampleSchedule(date time.Time) *model.Schedule {
	s := model.NewSchedule(date)
	s.AddTask(model.Task{Time: model.Precise(model.NewClock(9, 30, 0).On(date)), Description: "standup", Pomodoro: &model.Pomodoro{Planned: 1}})
	s.AddTask(model.Task{Time: model.General("whenever"), Description: "water 100% of plants", Finished: true})
	s.AddTask(model.Task{Time: model.GeneralPeriod(model.Morning, model.Noon), Description: "deep work"})
	return s
}

func TestIndexReplaceAndList(t *testing.T) {
	index := setupIndex(t)
	ctx := context.Background()
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

	if err := index.ReplaceDay(ctx, day, RowsFor(sampleSchedule(day), now)); err != nil {
		t.Fatalf("replace day: %v", err)
	}

	all, err := index.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	first := all[0]
	if first.Index != 1 || first.StartClock == nil || *first.StartClock != model.NewClock(9, 30, 0) {
		t.Fatalf("unexpected first row: %#v", first)
	}
	if first.Line() != "* [ ] 9:30 (1, 0) => standup" {
		t.Fatalf("unexpected line: %q", first.Line())
	}
	if !first.Day.Equal(day) || !first.IndexedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %v %v", first.Day, first.IndexedAt)
	}
	if all[1].StartClock != nil {
		t.Fatalf("custom label has no clock: %#v", all[1])
	}
	if all[2].StartClock == nil || *all[2].EndClock != model.NewClock(12, 0, 0) {
		t.Fatalf("general period clocks missing: %#v", all[2])
	}

	pending, err := index.ListTasks(ctx, TaskListFilter{PendingOnly: true})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}

	s := sampleSchedule(day)
	s.RemoveTask(1)
	if err := index.ReplaceDay(ctx, day, RowsFor(s, now)); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	all, err = index.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list after replace: %v", err)
	}
	if len(all) != 2 || all[0].Index != 2 {
		t.Fatalf("replace must drop stale rows: %#v", all)
	}
}

func TestIndexSearchAndRange(t *testing.T) {
	index := setupIndex(t)
	ctx := context.Background()
	now := time.Now()
	mon := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	tue := mon.AddDate(0, 0, 1)
	for _, day := range []time.Time{mon, tue} {
		if err := index.ReplaceDay(ctx, day, RowsFor(sampleSchedule(day), now)); err != nil {
			t.Fatalf("replace %v: %v", day, err)
		}
	}

	hits, err := index.ListTasks(ctx, TaskListFilter{Text: "STANDUP"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 || !hits[0].Day.Equal(mon) || !hits[1].Day.Equal(tue) {
		t.Fatalf("search must be case-insensitive and ordered by day: %#v", hits)
	}

	literal, err := index.ListTasks(ctx, TaskListFilter{Text: "100%"})
	if err != nil {
		t.Fatalf("search literal: %v", err)
	}
	if len(literal) != 2 {
		t.Fatalf("expected literal percent match on both days, got %d", len(literal))
	}
	wild, err := index.ListTasks(ctx, TaskListFilter{Text: "%"})
	if err != nil {
		t.Fatalf("search wildcard: %v", err)
	}
	if len(wild) != 2 {
		t.Fatalf("'%%' must match literally, got %d rows", len(wild))
	}

	onlyTue, err := index.ListTasks(ctx, TaskListFilter{From: &tue, To: &tue})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(onlyTue) != 3 {
		t.Fatalf("expected 3 rows on tuesday, got %d", len(onlyTue))
	}

	page, err := index.ListTasks(ctx, TaskListFilter{Offset: 4})
	if err != nil {
		t.Fatalf("offset without limit: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 rows after offset, got %d", len(page))
	}
}

func TestIndexDeleteDayAndReset(t *testing.T) {
	index := setupIndex(t)
	ctx := context.Background()
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)

	if err := index.DeleteDay(ctx, day); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := index.ReplaceDay(ctx, day, RowsFor(sampleSchedule(day), time.Now())); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := index.DeleteDay(ctx, day); err != nil {
		t.Fatalf("delete day: %v", err)
	}
	if err := index.ReplaceDay(ctx, day, RowsFor(sampleSchedule(day), time.Now())); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	if err := index.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rows, err := index.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty index after reset, got %d rows", len(rows))
	}
}
