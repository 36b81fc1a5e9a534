package model

import (
	"fmt"
	"time"
)

// Weekday identifies one day of the weekly schedule.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the weekdays in display order, Monday first.
var Week = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the position of the weekday within Week, or -1 for an
// unknown value.
func (d Weekday) Index() int {
	for i, day := range Week {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether the value is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// WorkingHourRow is one weekday's working-hours record for a business.
// At most one row exists per (BusinessID, DayOfWeek). A negative ID marks
// a client-synthesized placeholder that has not been persisted yet.
type WorkingHourRow struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id"`
	DayOfWeek  Weekday   `json:"day_of_week"`
	OpensAt    string    `json:"opens_at,omitempty"` // HH:MM, empty when unset or closed
	ClosesAt   string    `json:"closes_at,omitempty"`
	IsClosed   bool      `json:"is_closed"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Synthetic reports whether the row is a local placeholder with no
// persisted counterpart.
func (r *WorkingHourRow) Synthetic() bool {
	return r.ID < 0
}

// ValidationError describes malformed field input rejected before save.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseClock parses an HH:MM time of day and returns minutes since
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate checks the row before it is sent to the store. Open rows need
// well-formed times with the close strictly after the open; closed rows
// must not carry times.
func (r *WorkingHourRow) Validate() error {
	if !r.DayOfWeek.Valid() {
		return &ValidationError{Field: "day_of_week", Reason: fmt.Sprintf("unknown weekday %q", r.DayOfWeek)}
	}

	if r.IsClosed {
		if r.OpensAt != "" || r.ClosesAt != "" {
			return &ValidationError{Field: "is_closed", Reason: "closed day must not have open/close times"}
		}
		return nil
	}

	if r.OpensAt == "" || r.ClosesAt == "" {
		return &ValidationError{Field: "opens_at", Reason: "open day requires both open and close times"}
	}
	opens, err := ParseClock(r.OpensAt)
	if err != nil {
		return &ValidationError{Field: "opens_at", Reason: err.Error()}
	}
	closes, err := ParseClock(r.ClosesAt)
	if err != nil {
		return &ValidationError{Field: "closes_at", Reason: err.Error()}
	}
	if closes <= opens {
		return &ValidationError{Field: "closes_at", Reason: "close time must be after open time"}
	}
	return nil
}
