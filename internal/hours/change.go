// Package hours implements the working-hours edit workflow: local
// pending-change tracking, reconciliation of pending edits over the
// stored week, and one-row-at-a-time mutation dispatch.
package hours

import "salondesk/internal/model"

// Change is a single edit command applied to a row's pending patch.
// Using a closed set of commands instead of free-form field bags keeps
// invalid partial updates unrepresentable.
type Change interface {
	Patch() model.Patch
}

// SetHours sets both daily times at once.
type SetHours struct {
	OpensAt  string
	ClosesAt string
}

func (c SetHours) Patch() model.Patch {
	opens, closes := c.OpensAt, c.ClosesAt
	return model.Patch{OpensAt: &opens, ClosesAt: &closes}
}

// SetOpensAt sets the daily open time.
type SetOpensAt struct {
	Value string
}

func (c SetOpensAt) Patch() model.Patch {
	v := c.Value
	return model.Patch{OpensAt: &v}
}

// SetClosesAt sets the daily close time.
type SetClosesAt struct {
	Value string
}

func (c SetClosesAt) Patch() model.Patch {
	v := c.Value
	return model.Patch{ClosesAt: &v}
}

// SetClosed toggles the closed flag. Closing a day clears both times in
// the same command, so a merged save payload for a closed day never
// carries stale hours.
type SetClosed struct {
	Closed bool
}

func (c SetClosed) Patch() model.Patch {
	closed := c.Closed
	p := model.Patch{IsClosed: &closed}
	if closed {
		empty := ""
		p.OpensAt = &empty
		p.ClosesAt = &empty
	}
	return p
}
