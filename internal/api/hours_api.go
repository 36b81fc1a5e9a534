package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"salondesk/internal/hours"
	"salondesk/internal/metrics"
	"salondesk/internal/model"
	"salondesk/internal/report"
	"salondesk/internal/store"

	"github.com/rs/zerolog"
)

// RowResponse is one weekday row as rendered by the dashboard.
type RowResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id"`
	DayOfWeek  string `json:"day_of_week"`
	OpensAt    string `json:"opens_at,omitempty"`
	ClosesAt   string `json:"closes_at,omitempty"`
	IsClosed   bool   `json:"is_closed"`
	Synthetic  bool   `json:"synthetic"`
	State      string `json:"state"`
}

// EditRequest targets one row of one business.
type EditRequest struct {
	BusinessID int64 `json:"business_id"`
	RowID      int64 `json:"row_id"`
}

// FieldChangeRequest stages one field change on a row. Exactly one of
// the optional fields must be set.
type FieldChangeRequest struct {
	BusinessID int64   `json:"business_id"`
	RowID      int64   `json:"row_id"`
	OpensAt    *string `json:"opens_at,omitempty"`
	ClosesAt   *string `json:"closes_at,omitempty"`
	IsClosed   *bool   `json:"is_closed,omitempty"`
}

// ToggleClosedRequest flips the closed flag and saves in one step.
type ToggleClosedRequest struct {
	BusinessID int64 `json:"business_id"`
	RowID      int64 `json:"row_id"`
	IsClosed   bool  `json:"is_closed"`
}

// SaveResponse reports the outcome of a save.
type SaveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleListHours returns the seven effective weekday rows.
// GET /api/v1/hours?business_id=N
func (s *HTTPServer) handleListHours(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_list")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	businessID, err := businessIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	week, err := s.view.EffectiveRows(r.Context(), businessID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("business_id", businessID).Msg("failed to list working hours")
		writeError(w, http.StatusInternalServerError, "failed to load working hours")
		return
	}

	rows := make([]RowResponse, 0, len(week))
	for _, row := range week {
		rows = append(rows, s.rowResponse(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleStartEdit opens an edit entry for a row.
// POST /api/v1/hours/edit
func (s *HTTPServer) handleStartEdit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_edit")
	var req EditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.tracker.StartEditing(req.BusinessID, req.RowID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "state": string(s.view.RowState(req.BusinessID, req.RowID))})
}

// handleFieldChange stages a single field change on a row.
// POST /api/v1/hours/field
func (s *HTTPServer) handleFieldChange(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_field")
	var req FieldChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	change, err := changeFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.tracker.Apply(req.BusinessID, req.RowID, change)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "state": string(s.view.RowState(req.BusinessID, req.RowID))})
}

// handleCancelEdit drops a row's pending changes.
// POST /api/v1/hours/cancel
func (s *HTTPServer) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_cancel")
	var req EditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.tracker.CancelEditing(req.BusinessID, req.RowID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleSave persists a row's pending changes.
// POST /api/v1/hours/save
func (s *HTTPServer) handleSave(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_save")
	var req EditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	merged, err := s.view.DisplayRow(r.Context(), req.BusinessID, req.RowID)
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}

	if err := s.dispatcher.Save(r.Context(), *merged); err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Success: true})
}

// handleToggleClosed flips the closed flag and saves.
// POST /api/v1/hours/closed
func (s *HTTPServer) handleToggleClosed(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_closed")
	var req ToggleClosedRequest
	if !decodeBody(w, r, &req) {
		return
	}

	current, err := s.view.DisplayRow(r.Context(), req.BusinessID, req.RowID)
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}

	if err := s.dispatcher.ToggleClosed(r.Context(), *current, req.IsClosed); err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Success: true})
}

// handleWeekReport downloads the effective week as an xlsx workbook.
// GET /api/v1/hours/report?business_id=N
func (s *HTTPServer) handleWeekReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hours_report")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	businessID, err := businessIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	week, err := s.view.EffectiveRows(r.Context(), businessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load working hours")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="working-hours-%d.xlsx"`, businessID))
	if err := report.WriteWeek(week, w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("business_id", businessID).Msg("failed to write report")
	}
}

func (s *HTTPServer) rowResponse(row model.WorkingHourRow) RowResponse {
	return RowResponse{
		ID:         row.ID,
		BusinessID: row.BusinessID,
		DayOfWeek:  string(row.DayOfWeek),
		OpensAt:    row.OpensAt,
		ClosesAt:   row.ClosesAt,
		IsClosed:   row.IsClosed,
		Synthetic:  row.Synthetic(),
		State:      string(s.view.RowState(row.BusinessID, row.ID)),
	}
}

func (s *HTTPServer) writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, SaveResponse{Error: verr.Error()})
	case errors.Is(err, hours.ErrNoChanges):
		writeJSON(w, http.StatusBadRequest, SaveResponse{Error: "no pending changes"})
	case errors.Is(err, hours.ErrSaveInFlight):
		writeJSON(w, http.StatusConflict, SaveResponse{Error: "save already in progress"})
	case errors.Is(err, store.ErrDuplicateDay):
		writeJSON(w, http.StatusConflict, SaveResponse{Error: "working hours already exist for this day"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, SaveResponse{Error: "row not found"})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save failed")
		writeJSON(w, http.StatusInternalServerError, SaveResponse{Error: "failed to save working hours"})
	}
}

func changeFromRequest(req *FieldChangeRequest) (hours.Change, error) {
	set := 0
	if req.OpensAt != nil {
		set++
	}
	if req.ClosesAt != nil {
		set++
	}
	if req.IsClosed != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of opens_at, closes_at, is_closed is required")
	}

	switch {
	case req.OpensAt != nil:
		return hours.SetOpensAt{Value: *req.OpensAt}, nil
	case req.ClosesAt != nil:
		return hours.SetClosesAt{Value: *req.ClosesAt}, nil
	default:
		return hours.SetClosed{Closed: *req.IsClosed}, nil
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return false
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func businessIDParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("business_id")
	if raw == "" {
		return 0, fmt.Errorf("business_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid business_id")
	}
	return id, nil
}
