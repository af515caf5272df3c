// Package api exposes HTTP handlers for the workout map.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/workoutmap/internal/auth"
	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/export"
	"example.com/workoutmap/internal/logger"
	"example.com/workoutmap/internal/persistence"
	"example.com/workoutmap/internal/view"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	board   *view.Board
	locator domain.Locator
	logger  *zap.Logger
}

// NewHandler builds a Handler. board and locator may be nil, which disables
// GET /v1/view and POST /v1/map/locate respectively.
func NewHandler(service *domain.Service, board *view.Board, locator domain.Locator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, board: board, locator: locator, logger: log}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/workouts/export.gpx", h.exportGPX)
	mux.HandleFunc("/v1/map/ready", h.mapReady)
	mux.HandleFunc("/v1/map/locate", h.locate)
	mux.HandleFunc("/v1/view", h.renderedView)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	case http.MethodDelete:
		h.deleteAllWorkouts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.selectWorkout(w, r, id)
	case http.MethodPut:
		h.editWorkout(w, r, id)
	case http.MethodDelete:
		h.deleteWorkout(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	var req CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	in, err := domain.ParseInput(req.raw(), req.Coordinates)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	workout, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutView(workout))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}

	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxPageSize)
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	workouts, next := h.service.Page(cursor, limit)
	items := make([]WorkoutView, 0, len(workouts))
	for _, workout := range workouts {
		items = append(items, toWorkoutView(workout))
	}
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) selectWorkout(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}

	workout, ok := h.service.Select(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(workout))
}

func (h *Handler) editWorkout(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	var req EditWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	current, ok := h.service.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	m, err := domain.ParseMeasurements(current.Type, req.raw())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	workout, err := h.service.Edit(r.Context(), id, m)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(workout))
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteAllWorkouts(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeWorkoutsWrite) {
		return
	}

	if err := h.service.DeleteAll(r.Context()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportGPX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}

	body, err := export.GPX(h.service.List())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="workouts.gpx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) mapReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}

	h.service.MapReady(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) locate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}
	if h.locator == nil {
		writeError(w, http.StatusServiceUnavailable, "geolocation_unavailable", "no position provider configured")
		return
	}

	at, err := h.service.Locate(r.Context(), h.locator)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, at)
}

func (h *Handler) renderedView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorize(w, r, auth.ScopeWorkoutsRead) {
		return
	}
	if h.board == nil {
		writeError(w, http.StatusNotFound, "not_found", "no rendered view")
		return
	}
	writeJSON(w, http.StatusOK, h.board.Snapshot())
}

func authorize(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	allowed := claims.HasScope(scope)
	if scope == auth.ScopeWorkoutsRead {
		allowed = claims.CanRead()
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		writeError(w, http.StatusServiceUnavailable, "geolocation_unavailable", err.Error())
	default:
		logger.FromContext(r.Context(), h.logger).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// FormValue is a form field that accepts either a JSON string or a JSON number.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// CreateWorkoutRequest is the payload for POST /v1/workouts: the clicked map
// position plus the raw form fields.
type CreateWorkoutRequest struct {
	Coordinates   domain.Coordinates `json:"coordinates"`
	Type          string             `json:"type"`
	Distance      FormValue          `json:"distance"`
	Duration      FormValue          `json:"duration"`
	Cadence       FormValue          `json:"cadence"`
	ElevationGain FormValue          `json:"elevation_gain"`
}

func (r CreateWorkoutRequest) raw() domain.RawInput {
	return domain.RawInput{
		Type:          r.Type,
		Distance:      string(r.Distance),
		Duration:      string(r.Duration),
		Cadence:       string(r.Cadence),
		ElevationGain: string(r.ElevationGain),
	}
}

// EditWorkoutRequest is the payload for PUT /v1/workouts/{id}.
type EditWorkoutRequest struct {
	Distance      FormValue `json:"distance"`
	Duration      FormValue `json:"duration"`
	Cadence       FormValue `json:"cadence"`
	ElevationGain FormValue `json:"elevation_gain"`
}

func (r EditWorkoutRequest) raw() domain.RawInput {
	return domain.RawInput{
		Distance:      string(r.Distance),
		Duration:      string(r.Duration),
		Cadence:       string(r.Cadence),
		ElevationGain: string(r.ElevationGain),
	}
}

// WorkoutView exposes full details about a workout.
type WorkoutView struct {
	WorkoutID     string             `json:"workout_id"`
	Type          string             `json:"type"`
	Description   string             `json:"description"`
	CreatedAt     time.Time          `json:"created_at"`
	Coordinates   domain.Coordinates `json:"coordinates"`
	Distance      float64            `json:"distance_km"`
	Duration      float64            `json:"duration_min"`
	Clicks        int                `json:"clicks"`
	Cadence       *float64           `json:"cadence_spm,omitempty"`
	Pace          *float64           `json:"pace_min_per_km,omitempty"`
	ElevationGain *float64           `json:"elevation_gain_m,omitempty"`
	Speed         *float64           `json:"speed_km_per_h,omitempty"`
}

// ListWorkoutsResponse packages list results.
type ListWorkoutsResponse struct {
	Items      []WorkoutView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toWorkoutView(workout domain.Workout) WorkoutView {
	v := WorkoutView{
		WorkoutID:   workout.ID,
		Type:        string(workout.Type),
		Description: workout.Description,
		CreatedAt:   workout.CreatedAt,
		Coordinates: workout.Coordinates,
		Distance:    workout.Distance,
		Duration:    workout.Duration,
		Clicks:      workout.Clicks,
	}
	if r := workout.Running; r != nil {
		v.Cadence, v.Pace = &r.Cadence, &r.Pace
	}
	if c := workout.Cycling; c != nil {
		v.ElevationGain, v.Speed = &c.ElevationGain, &c.Speed
	}
	return v
}
