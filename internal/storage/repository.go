package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// TaskIndex is a queryable copy of the day files. The files stay
// authoritative.
type TaskIndex interface {
	ReplaceDay(ctx context.Context, day time.Time, rows []TaskRow) error
	DeleteDay(ctx context.Context, day time.Time) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]TaskRow, error)
	Reset(ctx context.Context) error
}
