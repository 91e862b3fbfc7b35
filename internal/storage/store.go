package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
)

// Store reads and writes day files below Root. Cache and Index are optional.
type Store struct {
	Root   string
	Logger *log.Logger
	Cache  *Cache
	Index  TaskIndex

	mu   sync.Mutex
	open map[string]bool
}

func NewStore(root string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{Root: root, Logger: logger, open: make(map[string]bool)}
}

// Load reads the schedule for date without claiming the file. Missing or
// blank files yield an empty schedule for date.
func (s *Store) Load(date time.Time) (*model.Schedule, error) {
	path := PathFor(s.Root, date)
	if s.Cache != nil {
		if cached, ok := s.Cache.get(path); ok {
			return cached, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewSchedule(date), nil
		}
		return nil, &PathError{Kind: KindFile, Path: path, Err: err}
	}
	schedule, err := s.decode(path, date, string(raw))
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.put(path, schedule)
	}
	return schedule, nil
}

func (s *Store) decode(path string, date time.Time, content string) (*model.Schedule, error) {
	if strings.TrimSpace(content) == "" {
		return model.NewSchedule(date), nil
	}
	schedule, err := format.ParseSchedule(content)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", path, err)
	}
	if !sameDay(schedule.Date, date) {
		s.logger().Warn("schedule header does not match its path",
			"path", path, "header", format.FormatDate(schedule.Date), "expected", format.FormatDate(date))
	}
	return schedule, nil
}

// Open claims the day file for date, creating the year and month
// directories when needed, and returns a document that must be closed.
func (s *Store) Open(date time.Time) (*Document, error) {
	path := PathFor(s.Root, date)
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := s.claim(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.release(path)
		return nil, &PathError{Kind: KindFile, Path: path, Err: err}
	}
	schedule, err := s.decode(path, date, string(raw))
	if err != nil {
		s.release(path)
		return nil, err
	}
	return &Document{Schedule: schedule, Path: path, store: s, original: format.FormatSchedule(schedule)}, nil
}

// With opens the document for date, runs fn and always closes the document,
// returning fn's error joined with any flush failure.
func (s *Store) With(date time.Time, fn func(*Document) error) (err error) {
	doc, err := s.Open(date)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, doc.Close())
	}()
	return fn(doc)
}

// OpenRange loads days consecutive schedules starting at start, read only.
func (s *Store) OpenRange(start time.Time, days int) ([]*model.Schedule, error) {
	out := make([]*model.Schedule, 0, max(days, 0))
	for i := 0; i < days; i++ {
		schedule, err := s.Load(start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		out = append(out, schedule)
	}
	return out, nil
}

func (s *Store) claim(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		s.open = make(map[string]bool)
	}
	if s.open[path] {
		return fmt.Errorf("%w: %s", ErrAlreadyOpen, path)
	}
	s.open[path] = true
	return nil
}

func (s *Store) release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, path)
}

func (s *Store) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s *Store) write(ctx context.Context, path string, schedule *model.Schedule, changed bool) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(format.FormatSchedule(schedule)), 0o644); err != nil {
		return &PathError{Kind: KindFile, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &PathError{Kind: KindFile, Path: path, Err: err}
	}
	if s.Cache != nil {
		s.Cache.remove(path)
	}
	if s.Index != nil && changed {
		if err := s.refreshIndex(ctx, schedule); err != nil {
			s.logger().Warn("task index is stale; run reindex", "path", path, "err", err)
		}
	}
	return nil
}

func (s *Store) refreshIndex(ctx context.Context, schedule *model.Schedule) error {
	if schedule.Len() == 0 {
		if err := s.Index.DeleteDay(ctx, schedule.Date); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	}
	return s.Index.ReplaceDay(ctx, schedule.Date, RowsFor(schedule, time.Now()))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
