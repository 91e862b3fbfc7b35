package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrAlreadyOpen is returned when a second live document would address the
// same day file.
var ErrAlreadyOpen = errors.New("storage: schedule already open")

type PathKind string

const (
	KindDirectory PathKind = "directory"
	KindFile      PathKind = "file"
)

// PathError reports a file system failure on a directory or schedule file.
type PathError struct {
	Kind PathKind
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("storage: unable to open the %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// PathFor maps a calendar day to {root}/{year}/{month}/{day}, numbers
// unpadded.
func PathFor(root string, date time.Time) string {
	y, m, d := date.Date()
	return filepath.Join(root, strconv.Itoa(y), strconv.Itoa(int(m)), strconv.Itoa(d))
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PathError{Kind: KindDirectory, Path: dir, Err: err}
	}
	return nil
}
