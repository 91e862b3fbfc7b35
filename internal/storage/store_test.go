package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/timaru/internal/model"
)

func TestPathFor(t *testing.T) {
	got := PathFor("/db", time.Date(2012, 12, 12, 15, 0, 0, 0, time.Local))
	if got != filepath.Join("/db", "2012", "12", "12") {
		t.Fatalf("unexpected path: %q", got)
	}
	got = PathFor("/db", time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local))
	if got != filepath.Join("/db", "2026", "2", "1") {
		t.Fatalf("numbers are not padded: %q", got)
	}

	seen := make(map[string]time.Time)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		p := PathFor("/db", d)
		if prev, ok := seen[p]; ok {
			t.Fatalf("%v and %v share path %q", prev, d, p)
		}
		seen[p] = d
	}
}

func TestOpenMissingDayCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	doc, err := store.Open(date)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if doc.Len() != 0 || !doc.Date.Equal(date) {
		t.Fatalf("expected empty schedule for %v, got %v with %d tasks", date, doc.Date, doc.Len())
	}
	if info, err := os.Stat(filepath.Join(root, "2026", "3")); err != nil || !info.IsDir() {
		t.Fatalf("month directory not created: %v", err)
	}
	if doc.Dirty() {
		t.Fatal("fresh document must not be dirty")
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(raw) != "# 4-3-2026\n" {
		t.Fatalf("unexpected file content: %q", raw)
	}
}

func TestOpenBlankFileIsEmptySchedule(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	path := PathFor(root, date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("  \n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(root, nil).Load(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 0 || !s.Date.Equal(date) {
		t.Fatalf("unexpected schedule: %+v", s)
	}
}

func TestWithFlushesAndTruncates(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Morning), Description: "a much longer first description"})
		doc.AddTask(model.Task{Time: model.General(model.Evening), Description: "second"})
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	err = store.With(date, func(doc *Document) error {
		if doc.Len() != 2 {
			t.Fatalf("expected 2 tasks after reopen, got %d", doc.Len())
		}
		doc.RemoveTask(1)
		if !doc.Dirty() {
			t.Fatal("removal must mark the document dirty")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	raw, err := os.ReadFile(PathFor(root, date))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "# 4-3-2026\n\n* [ ] evening => second\n"
	if string(raw) != want {
		t.Fatalf("shorter content must truncate the file:\n got %q\nwant %q", raw, want)
	}
}

func TestWithFlushesOnError(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	boom := errors.New("boom")

	err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Noon), Description: "lunch"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	s, err := store.Load(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("content must be persisted on error exit, got %d tasks", s.Len())
	}
}

func TestOpenRefusesSecondLiveDocument(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	doc, err := store.Open(date)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Open(date); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
	again, err := store.Open(date)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = again.Close()
}

func TestOpenUnreadablePathIsFileError(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	if err := os.MkdirAll(PathFor(root, date), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(root, nil).Open(date)
	var pe *PathError
	if !errors.As(err, &pe) || pe.Kind != KindFile {
		t.Fatalf("expected file PathError, got %v", err)
	}
}

func TestOpenDirectoryFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "db")
	if err := os.WriteFile(root, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(root, nil).Open(time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local))
	var pe *PathError
	if !errors.As(err, &pe) || pe.Kind != KindDirectory {
		t.Fatalf("expected directory PathError, got %v", err)
	}
}

func TestCloseSurfacesFlushFailure(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	doc, err := store.Open(date)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	doc.AddTask(model.Task{Time: model.General(model.Noon), Description: "lunch"})
	if err := os.RemoveAll(filepath.Join(root, "2026")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "2026"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var pe *PathError
	if err := doc.Close(); !errors.As(err, &pe) {
		t.Fatalf("expected PathError from close, got %v", err)
	}
}

func TestParseFailureIsReported(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	path := PathFor(root, date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# 4-3-2026\n* [?] 9 => broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(root, nil)
	if _, err := store.Open(date); err == nil {
		t.Fatal("expected parse error")
	}
	doc, err := store.Open(date)
	if err == nil {
		_ = doc.Close()
		t.Fatal("failed open must not leave the path claimed or succeed")
	}
	if errors.Is(err, ErrAlreadyOpen) {
		t.Fatal("failed open left the path claimed")
	}
}

func TestOpenRange(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	start := time.Date(2026, 1, 29, 0, 0, 0, 0, time.Local)
	feb2 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.Local)

	if err := store.With(feb2, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Morning), Description: "planning"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	week, err := store.OpenRange(start, 7)
	if err != nil {
		t.Fatalf("open range: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 schedules, got %d", len(week))
	}
	if !week[4].Date.Equal(feb2) || week[4].Len() != 1 {
		t.Fatalf("unexpected day 5: %v with %d tasks", week[4].Date, week[4].Len())
	}
	if _, err := os.Stat(PathFor(root, start)); !os.IsNotExist(err) {
		t.Fatalf("read-only range must not create files: %v", err)
	}
}

func TestCacheServesUntilFileChanges(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	store.Cache = cache
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	if err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Morning), Description: "one"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := store.Load(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached schedule, got %d", cache.Len())
	}
	first.AddTask(model.Task{Time: model.General(model.Noon), Description: "local edit"})
	second, err := store.Load(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if second.Len() != 1 {
		t.Fatal("cached schedules must be copies")
	}

	if err := os.WriteFile(PathFor(root, date), []byte("# 4-3-2026\n\n* [ ] noon => one\n* [ ] noon => two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := store.Load(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if third.Len() != 2 {
		t.Fatalf("external edit must invalidate the cache, got %d tasks", third.Len())
	}
}

func TestFlushRefreshesIndexAndReindex(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)
	store.Index = setupIndex(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	if err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Morning), Description: "indexed"})
		return nil
	}); err != nil {
		t.Fatalf("with: %v", err)
	}
	rows, err := store.Index.ListTasks(ctx, TaskListFilter{Text: "indexed"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("flush must refresh the index: rows=%d err=%v", len(rows), err)
	}

	other := time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local)
	path := PathFor(root, other)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# 31-12-2025\n\n* [X] night => party\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	days, err := store.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if days != 2 {
		t.Fatalf("expected 2 indexed days, got %d", days)
	}
	rows, err = store.Index.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Description != "party" || !rows[0].Finished {
		t.Fatalf("unexpected rows after reindex: %#v", rows)
	}

	if _, err := NewStore(root, nil).Reindex(ctx); !errors.Is(err, ErrNoIndex) {
		t.Fatalf("expected ErrNoIndex, got %v", err)
	}
}

type recordingIndex struct {
	replaced []time.Time
	deleted  []time.Time
}

func (r *recordingIndex) ReplaceDay(_ context.Context, day time.Time, _ []TaskRow) error {
	r.replaced = append(r.replaced, day)
	return nil
}

func (r *recordingIndex) DeleteDay(_ context.Context, day time.Time) error {
	r.deleted = append(r.deleted, day)
	return ErrNotFound
}

func (r *recordingIndex) ListTasks(context.Context, TaskListFilter) ([]TaskRow, error) {
	return nil, nil
}

func (r *recordingIndex) Reset(context.Context) error { return nil }

func TestFlushSkipsIndexWhenUnchanged(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	index := &recordingIndex{}
	store.Index = index
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	if err := store.With(date, func(*Document) error { return nil }); err != nil {
		t.Fatalf("with: %v", err)
	}
	if len(index.replaced) != 0 || len(index.deleted) != 0 {
		t.Fatalf("unchanged day must not touch the index: %+v", index)
	}

	if err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Noon), Description: "lunch"})
		return nil
	}); err != nil {
		t.Fatalf("with: %v", err)
	}
	if len(index.replaced) != 1 {
		t.Fatalf("expected one index refresh, got %+v", index)
	}

	// DeleteDay reports ErrNotFound here; the flush still succeeds.
	if err := store.With(date, func(doc *Document) error {
		doc.RemoveTask(1)
		return nil
	}); err != nil {
		t.Fatalf("emptying the day: %v", err)
	}
	if len(index.deleted) != 1 || len(index.replaced) != 1 {
		t.Fatalf("an emptied day must be deleted from the index, got %+v", index)
	}
}

func TestEmptiedDayLeavesSQLiteIndex(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	store.Index = setupIndex(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)

	if err := store.With(date, func(doc *Document) error {
		doc.AddTask(model.Task{Time: model.General(model.Morning), Description: "gone soon"})
		return nil
	}); err != nil {
		t.Fatalf("with: %v", err)
	}
	if err := store.With(date, func(doc *Document) error {
		doc.RemoveTask(1)
		return nil
	}); err != nil {
		t.Fatalf("with: %v", err)
	}
	rows, err := store.Index.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no indexed rows, got %#v", rows)
	}
}
