package hours

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salondesk/internal/events"
	"salondesk/internal/metrics"
	"salondesk/internal/model"
	"salondesk/internal/store"

	"github.com/rs/zerolog"
)

// Default hours applied when a day is reopened with no prior times.
const (
	DefaultOpensAt  = "09:00"
	DefaultClosesAt = "18:00"
)

var (
	// ErrNoChanges is returned when a save is requested for a row with
	// no pending changes.
	ErrNoChanges = errors.New("no pending changes for row")

	// ErrSaveInFlight is returned when a save is already running for
	// the same row.
	ErrSaveInFlight = errors.New("save already in flight for row")
)

// CacheInvalidator drops the cached row list for a business after a
// successful write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, businessID int64)
}

// Dispatcher issues create/update requests for one row at a time. A
// synthetic row (id < 0) becomes a create with the full merged fields;
// an existing row becomes a partial update carrying only the pending
// patch. Success invalidates the cached row list and clears the row's
// pending entry; failure preserves the pending patch so the save can be
// retried without re-entering data.
type Dispatcher struct {
	store   store.RecordStore
	tracker *EditTracker
	logger  *zerolog.Logger

	cache           CacheInvalidator
	bus             *events.EventBus
	defaultOpensAt  string
	defaultClosesAt string

	mu       sync.Mutex
	inflight map[editKey]bool
	lastErr  map[editKey]error
}

// NewDispatcher constructs a dispatcher over the given store and tracker.
func NewDispatcher(st store.RecordStore, tracker *EditTracker, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:           st,
		tracker:         tracker,
		logger:          logger,
		defaultOpensAt:  DefaultOpensAt,
		defaultClosesAt: DefaultClosesAt,
		inflight:        make(map[editKey]bool),
		lastErr:         make(map[editKey]error),
	}
}

// UseCache configures cache invalidation after successful saves.
func (d *Dispatcher) UseCache(cache CacheInvalidator) {
	d.cache = cache
}

// UseEventBus configures publication of hours.* events.
func (d *Dispatcher) UseEventBus(bus *events.EventBus) {
	d.bus = bus
}

// SetDefaultHours overrides the fallback open/close times used when a
// day is reopened without prior hours.
func (d *Dispatcher) SetDefaultHours(opensAt, closesAt string) {
	if opensAt != "" {
		d.defaultOpensAt = opensAt
	}
	if closesAt != "" {
		d.defaultClosesAt = closesAt
	}
}

// Save persists the row's pending changes. The merged argument is the
// display row: the authoritative row with pending changes applied. Only
// one save may run per row at a time.
func (d *Dispatcher) Save(ctx context.Context, merged model.WorkingHourRow) error {
	key := editKey{merged.BusinessID, merged.ID}

	pending, ok := d.tracker.Pending(merged.BusinessID, merged.ID)
	if !ok || pending.IsZero() {
		return ErrNoChanges
	}

	if err := merged.Validate(); err != nil {
		return err
	}

	if !d.begin(key) {
		return ErrSaveInFlight
	}
	defer d.end(key)

	var (
		saved *model.WorkingHourRow
		err   error
	)
	if merged.Synthetic() {
		saved, err = d.store.CreateRow(ctx, merged)
	} else {
		saved, err = d.store.UpdateRow(ctx, merged.ID, pending)
	}

	if err != nil {
		d.setLastError(key, err)
		metrics.IncSave("error")
		d.logger.Error().Err(err).
			Int64("row_id", merged.ID).
			Int64("business_id", merged.BusinessID).
			Str("day", string(merged.DayOfWeek)).
			Msg("working hours save failed")
		return fmt.Errorf("save working hours: %w", err)
	}

	if merged.Synthetic() {
		metrics.IncRowCreated()
	} else {
		metrics.IncRowUpdated()
	}
	metrics.IncSave("ok")

	d.clearLastError(key)
	if d.cache != nil {
		d.cache.Invalidate(ctx, saved.BusinessID)
	}
	d.tracker.CancelEditing(merged.BusinessID, merged.ID)
	d.publish(merged.Synthetic(), saved)

	d.logger.Info().
		Int64("row_id", saved.ID).
		Int64("business_id", saved.BusinessID).
		Str("day", string(saved.DayOfWeek)).
		Bool("created", merged.Synthetic()).
		Msg("working hours saved")
	return nil
}

// ToggleClosed is the convenience path for the closed flag. Closing a
// day clears its times; reopening a day with no stored or pending times
// falls back to the configured default hours. The change is staged on
// the tracker and saved in one step.
func (d *Dispatcher) ToggleClosed(ctx context.Context, current model.WorkingHourRow, closed bool) error {
	d.tracker.Apply(current.BusinessID, current.ID, SetClosed{Closed: closed})

	if !closed {
		pending, _ := d.tracker.Pending(current.BusinessID, current.ID)
		merged := model.ApplyPatch(current, pending)
		if merged.OpensAt == "" || merged.ClosesAt == "" {
			d.tracker.Apply(current.BusinessID, current.ID, SetHours{OpensAt: d.defaultOpensAt, ClosesAt: d.defaultClosesAt})
		}
	}

	pending, _ := d.tracker.Pending(current.BusinessID, current.ID)
	return d.Save(ctx, model.ApplyPatch(current, pending))
}

// Saving reports whether a save is currently in flight for the row.
func (d *Dispatcher) Saving(businessID, rowID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight[editKey{businessID, rowID}]
}

// LastError returns the most recent save failure for the row, cleared by
// the next successful save.
func (d *Dispatcher) LastError(businessID, rowID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr[editKey{businessID, rowID}]
}

func (d *Dispatcher) begin(key editKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[key] {
		return false
	}
	d.inflight[key] = true
	return true
}

func (d *Dispatcher) end(key editKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, key)
}

func (d *Dispatcher) setLastError(key editKey, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr[key] = err
}

func (d *Dispatcher) clearLastError(key editKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.lastErr, key)
}

func (d *Dispatcher) publish(created bool, row *model.WorkingHourRow) {
	if d.bus == nil {
		return
	}
	eventType := events.TypeHoursUpdated
	if created {
		eventType = events.TypeHoursCreated
	}
	d.bus.Publish(events.Event{
		Type:      eventType,
		CreatedAt: time.Now(),
		Payload: events.HoursChange{
			BusinessID: row.BusinessID,
			RowID:      row.ID,
			Day:        row.DayOfWeek,
			OpensAt:    row.OpensAt,
			ClosesAt:   row.ClosesAt,
			IsClosed:   row.IsClosed,
		},
	})
}
