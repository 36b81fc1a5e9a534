package model

// Patch is a partial update to a working-hour row. Nil fields are left
// untouched; a pointer to the empty string clears a time. The store only
// ever receives a Patch for updates, never a full row, so fields another
// actor changed between fetch and save are not clobbered.
type Patch struct {
	OpensAt  *string `json:"opens_at,omitempty"`
	ClosesAt *string `json:"closes_at,omitempty"`
	IsClosed *bool   `json:"is_closed,omitempty"`
}

// IsZero reports whether the patch carries no changes.
func (p Patch) IsZero() bool {
	return p.OpensAt == nil && p.ClosesAt == nil && p.IsClosed == nil
}

// Merge overlays other on top of p; fields set in other win.
func (p *Patch) Merge(other Patch) {
	if other.OpensAt != nil {
		p.OpensAt = other.OpensAt
	}
	if other.ClosesAt != nil {
		p.ClosesAt = other.ClosesAt
	}
	if other.IsClosed != nil {
		p.IsClosed = other.IsClosed
	}
}

// ApplyPatch returns a copy of row with the patch applied. Pending fields
// override authoritative ones; untouched fields pass through unchanged.
func ApplyPatch(row WorkingHourRow, p Patch) WorkingHourRow {
	if p.OpensAt != nil {
		row.OpensAt = *p.OpensAt
	}
	if p.ClosesAt != nil {
		row.ClosesAt = *p.ClosesAt
	}
	if p.IsClosed != nil {
		row.IsClosed = *p.IsClosed
	}
	return row
}
