package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoIndex is returned by index operations on a store without an index.
var ErrNoIndex = errors.New("storage: no task index configured")

// Reindex rebuilds the task index from every day file below Root and returns
// the number of days indexed. Files that fail to parse are logged and
// skipped.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, ErrNoIndex
	}
	if err := s.Index.Reset(ctx); err != nil {
		return 0, err
	}

	days := 0
	now := time.Now()
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == s.Root {
				return filepath.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		date, ok := s.dateOf(path)
		if !ok {
			return nil
		}
		schedule, loadErr := s.Load(date)
		if loadErr != nil {
			s.logger().Warn("skipping unreadable schedule", "path", path, "err", loadErr)
			return nil
		}
		if err := s.Index.ReplaceDay(ctx, schedule.Date, RowsFor(schedule, now)); err != nil {
			return err
		}
		days++
		return nil
	})
	return days, err
}

// dateOf inverts PathFor for paths below Root.
func (s *Store) dateOf(path string) (time.Time, bool) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return time.Time{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strconv.Itoa(n) != p {
			return time.Time{}, false
		}
		nums[i] = n
	}
	date := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.Local)
	if date.Year() != nums[0] || int(date.Month()) != nums[1] || date.Day() != nums[2] {
		return time.Time{}, false
	}
	return date, true
}
