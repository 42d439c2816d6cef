// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/analytics"
	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/discovery"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/service"
)

// EventHandler holds all HTTP handlers for the events API.
type EventHandler struct {
	svc   *service.EventService
	disc  *discovery.Service
	stats *analytics.Engine
	log   *zap.Logger
	now   func() time.Time
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, disc *discovery.Service, stats *analytics.Engine, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, disc: disc, stats: stats, log: log, now: time.Now}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps the apperr taxonomy onto HTTP status codes.
func (h *EventHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.log.Error("Unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	resp := model.ErrorResponse{Error: appErr.Kind.String(), Message: appErr.Error()}
	for _, f := range appErr.Fields {
		resp.Fields = append(resp.Fields, model.FieldIssue{Field: f.Field, Message: f.Message})
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPolicyViolation, apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindStorage:
		status = http.StatusServiceUnavailable
		h.log.Error("Storage failure", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("query", apperr.FieldError{Field: key, Message: "must be an integer"})
	}
	return n, nil
}

func queryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("query", apperr.FieldError{Field: key, Message: "must be an RFC 3339 timestamp"})
	}
	return t, nil
}

func views(events []*model.Event) []model.EventView {
	out := make([]model.EventView, 0, len(events))
	for _, e := range events {
		out = append(out, model.NewEventView(e))
	}
	return out
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Events ───────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.NewEventView(event))
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewEventView(event))
}

// UpdateEvent handles PATCH /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewEventView(event))
}

// UpdateStatus handles PATCH /events/{id}/status
func (h *EventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewEventView(event))
}

// UpdateBudget handles PUT /events/{id}/budget
func (h *EventHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req model.BudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, err := h.svc.UpdateBudget(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event.Budget)
}

// RecordView handles POST /events/{id}/views
func (h *EventHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	var req model.ViewRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
			return
		}
	}
	event, err := h.svc.RecordView(r.Context(), chi.URLParam(r, "id"), req.Unique)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event.Analytics)
}

// Summary handles GET /events/{id}/summary
func (h *EventHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Quote handles GET /events/{id}/quote?member=true&group=4
func (h *EventHandler) Quote(w http.ResponseWriter, r *http.Request) {
	group, err := queryInt(r, "group", 1)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	member, _ := strconv.ParseBool(r.URL.Query().Get("member"))

	quote, err := h.svc.Quote(r.Context(), chi.URLParam(r, "id"), member, group)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// RegistrationOpen handles GET /events/{id}/registration-open
func (h *EventHandler) RegistrationOpen(w http.ResponseWriter, r *http.Request) {
	open, err := h.svc.IsRegistrationOpen(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}
