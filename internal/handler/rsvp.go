package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

type rsvpResponse struct {
	RSVP          model.RSVP `json:"rsvp"`
	AttendeeCount int        `json:"attendeeCount"`
	WaitlistCount int        `json:"waitlistCount"`
}

func newRSVPResponse(e *model.Event, r model.RSVP) rsvpResponse {
	return rsvpResponse{RSVP: r, AttendeeCount: e.AttendeeCount(), WaitlistCount: e.WaitlistCount()}
}

// AddRSVP handles POST /events/{id}/rsvps
// Raw upsert by identity; capacity is not checked.
func (h *EventHandler) AddRSVP(w http.ResponseWriter, r *http.Request) {
	var req model.RSVPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, rsvp, err := h.svc.AddRSVP(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRSVPResponse(event, rsvp))
}

// Register handles POST /events/{id}/register
// Policy-checked registration; full events overflow to the waitlist when allowed.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RSVPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, rsvp, err := h.svc.RequestRegistration(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	status := http.StatusCreated
	if rsvp.Status == model.RSVPWaitlist {
		status = http.StatusAccepted
	}
	writeJSON(w, status, newRSVPResponse(event, rsvp))
}

// UpdateRSVP handles PATCH /events/{id}/rsvps/status
func (h *EventHandler) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRSVPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, rsvp, err := h.svc.UpdateRSVP(r.Context(), chi.URLParam(r, "id"), req.Identity, req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRSVPResponse(event, rsvp))
}

// RemoveRSVP handles DELETE /events/{id}/rsvps
func (h *EventHandler) RemoveRSVP(w http.ResponseWriter, r *http.Request) {
	var req model.IdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	if _, err := h.svc.RemoveRSVP(r.Context(), chi.URLParam(r, "id"), req.Identity); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckIn handles POST /events/{id}/checkin
func (h *EventHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req model.IdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, rsvp, err := h.svc.CheckInAttendee(r.Context(), chi.URLParam(r, "id"), req.Identity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRSVPResponse(event, rsvp))
}

// NoShow handles POST /events/{id}/noshow
func (h *EventHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	var req model.IdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	event, rsvp, err := h.svc.MarkNoShow(r.Context(), chi.URLParam(r, "id"), req.Identity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRSVPResponse(event, rsvp))
}

// SendAnnouncement handles POST /events/{id}/announcements
func (h *EventHandler) SendAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req model.AnnouncementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}
	_, a, err := h.svc.SendAnnouncement(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Recipients handles GET /events/{id}/announcements/{aid}/recipients
func (h *EventHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	rsvps, err := h.svc.Recipients(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "aid"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvps)
}
