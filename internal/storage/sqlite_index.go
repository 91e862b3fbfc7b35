package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/timaru/internal/model"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	sqliteDayLayout  = "2006-01-02"
)

type SQLiteIndex struct {
	db *sql.DB
}

func NewSQLiteIndex(db *sql.DB) (*SQLiteIndex, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteIndex{db: db}, nil
}

// OpenSQLiteIndex opens the database at path and applies pending migrations.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	index, err := NewSQLiteIndex(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (r *SQLiteIndex) Close() error {
	return r.db.Close()
}

// ReplaceDay swaps every row of day for rows in one transaction.
func (r *SQLiteIndex) ReplaceDay(ctx context.Context, day time.Time, rows []TaskRow) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	key := dayKey(day)
	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE day = ?`, key); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (day, idx, position, kind, time_text, start_clock, end_clock, description, pomodoro_planned, pomodoro_done, finished, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx,
			key, row.Index, row.Position, row.Kind, row.TimeText,
			nullClock(row.StartClock), nullClock(row.EndClock), row.Description,
			nullInt(row.PomodoroPlanned), nullInt(row.PomodoroDone), boolInt(row.Finished), mustTime(row.IndexedAt),
		); err != nil {
			return fmt.Errorf("index %s #%d: %w", key, row.Index, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteIndex) DeleteDay(ctx context.Context, day time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE day = ?`, dayKey(day))
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// Reset drops every indexed row.
func (r *SQLiteIndex) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	return err
}

func (r *SQLiteIndex) ListTasks(ctx context.Context, filter TaskListFilter) ([]TaskRow, error) {
	query := `SELECT day, idx, position, kind, time_text, start_clock, end_clock, description, pomodoro_planned, pomodoro_done, finished, indexed_at FROM tasks`
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.Text != "" {
		clauses = append(clauses, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Text)+"%")
	}
	if filter.From != nil {
		clauses = append(clauses, "day >= ?")
		args = append(args, dayKey(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "day <= ?")
		args = append(args, dayKey(*filter.To))
	}
	if filter.PendingOnly {
		clauses = append(clauses, "finished = 0")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY day ASC, position ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskRow, 0)
	for rows.Next() {
		row, scanErr := scanTaskRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(s scanner) (TaskRow, error) {
	var out TaskRow
	var day string
	var start, end, planned, done sql.NullInt64
	var finished int
	var indexed string
	if err := s.Scan(&day, &out.Index, &out.Position, &out.Kind, &out.TimeText, &start, &end,
		&out.Description, &planned, &done, &finished, &indexed); err != nil {
		return TaskRow{}, err
	}
	parsedDay, err := time.ParseInLocation(sqliteDayLayout, day, time.Local)
	if err != nil {
		return TaskRow{}, err
	}
	indexedAt, err := time.Parse(sqliteTimeLayout, indexed)
	if err != nil {
		return TaskRow{}, err
	}
	out.Day = parsedDay
	out.IndexedAt = indexedAt
	out.Finished = finished == 1
	if start.Valid {
		c := model.Clock(start.Int64)
		out.StartClock = &c
	}
	if end.Valid {
		c := model.Clock(end.Int64)
		out.EndClock = &c
	}
	if planned.Valid && done.Valid {
		p, d := int(planned.Int64), int(done.Int64)
		out.PomodoroPlanned = &p
		out.PomodoroDone = &d
	}
	return out, nil
}

func dayKey(day time.Time) string {
	return day.Format(sqliteDayLayout)
}

func escapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}

func nullClock(v *model.Clock) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
