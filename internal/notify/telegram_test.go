package notify

import (
	"testing"

	"salondesk/internal/events"
	"salondesk/internal/model"
)

func TestFormatHoursChange(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{
			name: "created open day",
			event: events.Event{
				Type: events.TypeHoursCreated,
				Payload: events.HoursChange{
					BusinessID: 7,
					Day:        model.Monday,
					OpensAt:    "09:00",
					ClosesAt:   "18:00",
				},
			},
			want: "Working hours set: Monday 09:00–18:00 (business 7)",
		},
		{
			name: "updated open day",
			event: events.Event{
				Type: events.TypeHoursUpdated,
				Payload: events.HoursChange{
					BusinessID: 7,
					Day:        model.Friday,
					OpensAt:    "10:00",
					ClosesAt:   "20:00",
				},
			},
			want: "Working hours updated: Friday 10:00–20:00 (business 7)",
		},
		{
			name: "closed day",
			event: events.Event{
				Type: events.TypeHoursUpdated,
				Payload: events.HoursChange{
					BusinessID: 7,
					Day:        model.Sunday,
					IsClosed:   true,
				},
			},
			want: "Working hours updated: Sunday is now closed (business 7)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHoursChange(tt.event); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
