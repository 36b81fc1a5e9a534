package hours

import (
	"sync"

	"salondesk/internal/model"
)

// editKey scopes edit state to one row of one business. Synthetic ids
// repeat across businesses (-1..-7 for every placeholder week), so the
// row id alone does not identify a row.
type editKey struct {
	businessID int64
	rowID      int64
}

// EditTracker holds, per (business, row), the uncommitted field changes
// of the edit workflow plus a single active-row hint for UI focus.
// Multiple rows may hold pending patches at once; the active hint is
// advisory and never acts as a lock. Purely in-memory, no failure mode.
type EditTracker struct {
	mu        sync.Mutex
	active    editKey
	hasActive bool
	pending   map[editKey]model.Patch
}

// NewEditTracker constructs an empty tracker.
func NewEditTracker() *EditTracker {
	return &EditTracker{pending: make(map[editKey]model.Patch)}
}

// StartEditing marks the row as the active edit target and resets its
// pending patch to empty. Other rows' pending changes are untouched.
func (t *EditTracker) StartEditing(businessID, rowID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := editKey{businessID, rowID}
	t.active = key
	t.hasActive = true
	t.pending[key] = model.Patch{}
}

// ActiveRow returns the focused business and row ids, if any.
func (t *EditTracker) ActiveRow() (businessID, rowID int64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active.businessID, t.active.rowID, t.hasActive
}

// IsEditing reports whether the row has an open edit entry, empty or not.
func (t *EditTracker) IsEditing(businessID, rowID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[editKey{businessID, rowID}]
	return ok
}

// Apply merges the change into the row's pending patch, creating the
// entry if absent. Repeated changes to the same field overwrite the
// prior value.
func (t *EditTracker) Apply(businessID, rowID int64, change Change) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := editKey{businessID, rowID}
	p := t.pending[key]
	p.Merge(change.Patch())
	t.pending[key] = p
}

// CancelEditing drops the row's pending patch and clears the active hint
// if it points at this row. Idempotent.
func (t *EditTracker) CancelEditing(businessID, rowID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := editKey{businessID, rowID}
	delete(t.pending, key)
	if t.hasActive && t.active == key {
		t.hasActive = false
	}
}

// HasChanges reports whether the row has a non-empty pending patch.
func (t *EditTracker) HasChanges(businessID, rowID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pending[editKey{businessID, rowID}]
	return ok && !p.IsZero()
}

// Pending returns the row's pending patch and whether an edit entry
// exists.
func (t *EditTracker) Pending(businessID, rowID int64) (model.Patch, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pending[editKey{businessID, rowID}]
	return p, ok
}
