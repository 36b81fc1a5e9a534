package hours

import (
	"context"
	"fmt"

	"salondesk/internal/model"
	"salondesk/internal/store"
)

// RowState is the derived edit state of a display row.
type RowState string

const (
	RowClean      RowState = "clean"
	RowEditing    RowState = "editing" // edit entry open, no changes yet
	RowDirty      RowState = "dirty"   // edit entry open with pending changes
	RowSaving     RowState = "saving"
	RowSaveFailed RowState = "save_failed"
)

// SyntheticID returns the placeholder id used for a weekday with no
// persisted row: -1 for Monday through -7 for Sunday.
func SyntheticID(day model.Weekday) int64 {
	return -int64(day.Index() + 1)
}

// Merge applies pending changes over the authoritative row. Pure; pending
// fields override authoritative ones.
func Merge(row model.WorkingHourRow, pending model.Patch) model.WorkingHourRow {
	return model.ApplyPatch(row, pending)
}

// View combines the authoritative row list with the tracker's pending
// changes to produce the rows actually rendered and saved.
type View struct {
	store      store.RecordStore
	tracker    *EditTracker
	dispatcher *Dispatcher
}

// NewView constructs a reconciliation view.
func NewView(st store.RecordStore, tracker *EditTracker, dispatcher *Dispatcher) *View {
	return &View{store: st, tracker: tracker, dispatcher: dispatcher}
}

// EffectiveRows returns exactly seven rows, one per weekday in
// Monday-first order, regardless of how many rows the store holds.
// Missing days are synthesized as open placeholders with negative ids;
// every row has the tracker's pending patch applied.
func (v *View) EffectiveRows(ctx context.Context, businessID int64) ([]model.WorkingHourRow, error) {
	stored, err := v.store.ListRows(ctx, businessID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[model.Weekday]model.WorkingHourRow, len(stored))
	for _, row := range stored {
		byDay[row.DayOfWeek] = row
	}

	week := make([]model.WorkingHourRow, 0, len(model.Week))
	for _, day := range model.Week {
		row, ok := byDay[day]
		if !ok {
			row = model.WorkingHourRow{
				ID:         SyntheticID(day),
				BusinessID: businessID,
				DayOfWeek:  day,
			}
		}
		if pending, ok := v.tracker.Pending(businessID, row.ID); ok {
			row = Merge(row, pending)
		}
		week = append(week, row)
	}
	return week, nil
}

// DisplayRow returns the merged row for a single row id, synthetic ids
// included.
func (v *View) DisplayRow(ctx context.Context, businessID, rowID int64) (*model.WorkingHourRow, error) {
	week, err := v.EffectiveRows(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range week {
		if week[i].ID == rowID {
			return &week[i], nil
		}
	}
	return nil, fmt.Errorf("display row %d: %w", rowID, store.ErrNotFound)
}

// RowState derives the row's edit state from the tracker and dispatcher.
func (v *View) RowState(businessID, rowID int64) RowState {
	if v.dispatcher != nil {
		if v.dispatcher.Saving(businessID, rowID) {
			return RowSaving
		}
		if v.dispatcher.LastError(businessID, rowID) != nil {
			return RowSaveFailed
		}
	}
	if v.tracker.HasChanges(businessID, rowID) {
		return RowDirty
	}
	if v.tracker.IsEditing(businessID, rowID) {
		return RowEditing
	}
	return RowClean
}
