// Package store persists weekly working-hour rows and exposes the
// record-store contract the edit workflow saves through.
package store

import (
	"context"
	"errors"
	"fmt"

	"salondesk/internal/model"
)

var (
	// ErrNotFound is returned when the referenced row does not exist,
	// e.g. it was deleted by another actor between fetch and save.
	ErrNotFound = errors.New("row not found")

	// ErrDuplicateDay is returned when a create would violate the
	// one-row-per-day-per-business constraint.
	ErrDuplicateDay = errors.New("working hours already exist for this day")
)

// StoreError wraps any failure returned by the record store, tagging it
// with the operation that failed. Sentinels remain reachable via
// errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// RecordStore is the remote service boundary for working-hour rows.
type RecordStore interface {
	// ListRows fetches all persisted rows for a business.
	ListRows(ctx context.Context, businessID int64) ([]model.WorkingHourRow, error)

	// GetRow fetches a single row by id.
	GetRow(ctx context.Context, id int64) (*model.WorkingHourRow, error)

	// CreateRow inserts a new row; the ID on the argument is ignored.
	CreateRow(ctx context.Context, row model.WorkingHourRow) (*model.WorkingHourRow, error)

	// UpdateRow applies a partial update by id and returns the stored
	// row after the update.
	UpdateRow(ctx context.Context, id int64, patch model.Patch) (*model.WorkingHourRow, error)

	// DeleteRow removes a row by id. Not exercised by the edit
	// workflow but part of the service contract.
	DeleteRow(ctx context.Context, id int64) error
}
