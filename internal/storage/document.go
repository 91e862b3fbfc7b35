package storage

import (
	"context"

	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
)

// Document is a schedule bound to its day file. Close writes it back.
type Document struct {
	*model.Schedule
	Path string

	store    *Store
	original string
	closed   bool
}

// Text renders the current in-memory content without touching the file.
func (d *Document) Text() string {
	return format.FormatSchedule(d.Schedule)
}

// Dirty reports whether the content differs from what was last read or
// written.
func (d *Document) Dirty() bool {
	return d.Text() != d.original
}

// Flush overwrites the day file with the canonical text of the schedule.
// The task index is only refreshed when the content changed.
func (d *Document) Flush(ctx context.Context) error {
	if err := d.store.write(ctx, d.Path, d.Schedule, d.Dirty()); err != nil {
		return err
	}
	d.original = d.Text()
	return nil
}

// Close flushes once and releases the path. Later calls are no-ops.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	defer d.store.release(d.Path)

	if err := d.Flush(context.Background()); err != nil {
		d.store.logger().Error("schedule flush failed", "path", d.Path, "err", err)
		return err
	}
	return nil
}
