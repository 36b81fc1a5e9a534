package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salondesk/internal/model"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB is the SQLite-backed record store.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens the database at path and creates tables if they don't exist.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS working_hours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			business_id INTEGER NOT NULL,
			day_of_week TEXT NOT NULL,
			opens_at TEXT,
			closes_at TEXT,
			is_closed BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(business_id, day_of_week)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_working_hours_business ON working_hours(business_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// ListRows returns all rows for a business ordered by id.
func (db *DB) ListRows(ctx context.Context, businessID int64) ([]model.WorkingHourRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, business_id, day_of_week, opens_at, closes_at, is_closed, created_at, updated_at
		FROM working_hours
		WHERE business_id = ?
		ORDER BY id`,
		businessID,
	)
	if err != nil {
		return nil, wrap("list", err)
	}
	defer rows.Close()

	var out []model.WorkingHourRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, wrap("list", err)
		}
		out = append(out, *r)
	}
	return out, wrap("list", rows.Err())
}

// GetRow returns a single row by id.
func (db *DB) GetRow(ctx context.Context, id int64) (*model.WorkingHourRow, error) {
	return db.getRow(ctx, "get", id)
}

// CreateRow inserts a new row for a business. The ID on the argument is
// ignored; the assigned id is returned on the stored row.
func (db *DB) CreateRow(ctx context.Context, row model.WorkingHourRow) (*model.WorkingHourRow, error) {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO working_hours (business_id, day_of_week, opens_at, closes_at, is_closed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.BusinessID, string(row.DayOfWeek), nullable(row.OpensAt), nullable(row.ClosesAt), row.IsClosed, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, wrap("create", ErrDuplicateDay)
		}
		return nil, wrap("create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, wrap("create", err)
	}
	return db.getRow(ctx, "create", id)
}

// UpdateRow applies only the fields set on the patch, leaving everything
// else untouched, and returns the row as stored afterwards.
func (db *DB) UpdateRow(ctx context.Context, id int64, patch model.Patch) (*model.WorkingHourRow, error) {
	if patch.IsZero() {
		return db.getRow(ctx, "update", id)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.OpensAt != nil {
		sets = append(sets, "opens_at = ?")
		args = append(args, nullable(*patch.OpensAt))
	}
	if patch.ClosesAt != nil {
		sets = append(sets, "closes_at = ?")
		args = append(args, nullable(*patch.ClosesAt))
	}
	if patch.IsClosed != nil {
		sets = append(sets, "is_closed = ?")
		args = append(args, *patch.IsClosed)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, id)

	res, err := db.ExecContext(ctx,
		"UPDATE working_hours SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, wrap("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrap("update", err)
	}
	if affected == 0 {
		return nil, wrap("update", ErrNotFound)
	}
	return db.getRow(ctx, "update", id)
}

// DeleteRow removes a row by id.
func (db *DB) DeleteRow(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM working_hours WHERE id = ?", id)
	if err != nil {
		return wrap("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrap("delete", err)
	}
	if affected == 0 {
		return wrap("delete", ErrNotFound)
	}
	return nil
}

// MissingDays returns the weekdays for which a business has no persisted
// row, in Monday-first order.
func (db *DB) MissingDays(ctx context.Context, businessID int64) ([]model.Weekday, error) {
	rows, err := db.ListRows(ctx, businessID)
	if err != nil {
		return nil, err
	}
	have := make(map[model.Weekday]bool, len(rows))
	for _, r := range rows {
		have[r.DayOfWeek] = true
	}
	var missing []model.Weekday
	for _, day := range model.Week {
		if !have[day] {
			missing = append(missing, day)
		}
	}
	return missing, nil
}

func (db *DB) getRow(ctx context.Context, op string, id int64) (*model.WorkingHourRow, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, business_id, day_of_week, opens_at, closes_at, is_closed, created_at, updated_at
		FROM working_hours
		WHERE id = ?`,
		id,
	)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrap(op, ErrNotFound)
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*model.WorkingHourRow, error) {
	var r model.WorkingHourRow
	var day string
	var opensAt, closesAt sql.NullString
	err := s.Scan(&r.ID, &r.BusinessID, &day, &opensAt, &closesAt, &r.IsClosed, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.DayOfWeek = model.Weekday(day)
	if opensAt.Valid {
		r.OpensAt = opensAt.String
	}
	if closesAt.Valid {
		r.ClosesAt = closesAt.String
	}
	return &r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func (db *DB) Close() error {
	return db.DB.Close()
}
