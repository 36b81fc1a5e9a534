package hours

import (
	"testing"

	"salondesk/internal/model"
)

func TestStartEditingResetsPending(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 1)
	tracker.Apply(7, 1, SetOpensAt{Value: "08:00"})
	if !tracker.HasChanges(7, 1) {
		t.Fatal("expected changes after apply")
	}

	// Restarting the edit wipes the row's pending patch.
	tracker.StartEditing(7, 1)
	if tracker.HasChanges(7, 1) {
		t.Error("expected pending patch reset on restart")
	}
	if !tracker.IsEditing(7, 1) {
		t.Error("expected row to remain in edit mode")
	}
}

func TestStartEditingDoesNotTouchOtherRows(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 1)
	tracker.Apply(7, 1, SetOpensAt{Value: "08:00"})
	tracker.StartEditing(7, 2)

	if !tracker.HasChanges(7, 1) {
		t.Error("row 1 pending changes should survive editing row 2")
	}
	businessID, rowID, ok := tracker.ActiveRow()
	if !ok || businessID != 7 || rowID != 2 {
		t.Errorf("expected active row (7,2), got (%d,%d) ok=%v", businessID, rowID, ok)
	}
}

func TestPendingScopedToBusiness(t *testing.T) {
	tracker := NewEditTracker()

	// Synthetic ids repeat across businesses; an edit on one business's
	// Monday placeholder must stay invisible to every other business.
	mondayID := SyntheticID(model.Monday)
	tracker.StartEditing(1, mondayID)
	tracker.Apply(1, mondayID, SetOpensAt{Value: "07:00"})

	if tracker.HasChanges(2, mondayID) {
		t.Error("business 2 must not see business 1's pending edit")
	}
	if tracker.IsEditing(2, mondayID) {
		t.Error("business 2 must not inherit business 1's edit entry")
	}
	if _, ok := tracker.Pending(2, mondayID); ok {
		t.Error("no pending entry expected for business 2")
	}
	if !tracker.HasChanges(1, mondayID) {
		t.Error("business 1's pending edit should remain")
	}

	// Cancel on the other business is a no-op for the original edit.
	tracker.CancelEditing(2, mondayID)
	if !tracker.HasChanges(1, mondayID) {
		t.Error("cancel for business 2 must not drop business 1's edit")
	}
}

func TestApplyLastWriteWins(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 5)
	tracker.Apply(7, 5, SetOpensAt{Value: "08:00"})
	tracker.Apply(7, 5, SetOpensAt{Value: "10:00"})
	tracker.Apply(7, 5, SetClosesAt{Value: "19:00"})

	pending, ok := tracker.Pending(7, 5)
	if !ok {
		t.Fatal("expected pending entry")
	}
	if pending.OpensAt == nil || *pending.OpensAt != "10:00" {
		t.Errorf("expected last open time to win, got %v", pending.OpensAt)
	}
	if pending.ClosesAt == nil || *pending.ClosesAt != "19:00" {
		t.Errorf("close time not retained, got %v", pending.ClosesAt)
	}
	if pending.IsClosed != nil {
		t.Error("untouched field should stay unset")
	}
}

func TestApplyWithoutStartCreatesEntry(t *testing.T) {
	tracker := NewEditTracker()

	tracker.Apply(7, 3, SetClosed{Closed: true})
	if !tracker.HasChanges(7, 3) {
		t.Error("apply should create the pending entry if absent")
	}
}

func TestCancelEditingIdempotent(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 1)
	tracker.Apply(7, 1, SetHours{OpensAt: "09:00", ClosesAt: "18:00"})

	tracker.CancelEditing(7, 1)
	if tracker.HasChanges(7, 1) {
		t.Error("cancel should drop pending changes")
	}
	if tracker.IsEditing(7, 1) {
		t.Error("cancel should close the edit entry")
	}
	if _, _, ok := tracker.ActiveRow(); ok {
		t.Error("cancel of active row should clear the hint")
	}

	// Second cancel is a no-op.
	tracker.CancelEditing(7, 1)
	if tracker.HasChanges(7, 1) {
		t.Error("cancel must be idempotent")
	}
}

func TestCancelEditingOtherRowKeepsHint(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 1)
	tracker.StartEditing(7, 2)
	tracker.CancelEditing(7, 1)

	businessID, rowID, ok := tracker.ActiveRow()
	if !ok || businessID != 7 || rowID != 2 {
		t.Errorf("expected active row (7,2) to survive, got (%d,%d) ok=%v", businessID, rowID, ok)
	}
}

func TestSetClosedClearsTimesInPatch(t *testing.T) {
	tracker := NewEditTracker()

	tracker.StartEditing(7, 4)
	tracker.Apply(7, 4, SetHours{OpensAt: "09:00", ClosesAt: "18:00"})
	tracker.Apply(7, 4, SetClosed{Closed: true})

	pending, _ := tracker.Pending(7, 4)
	row := model.ApplyPatch(model.WorkingHourRow{ID: 4, DayOfWeek: model.Monday}, pending)
	if !row.IsClosed {
		t.Error("expected closed flag set")
	}
	if row.OpensAt != "" || row.ClosesAt != "" {
		t.Errorf("closing must clear times in merged payload, got %q-%q", row.OpensAt, row.ClosesAt)
	}
}
