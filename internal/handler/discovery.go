package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

// Statistics handles GET /stats
func (h *EventHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.EventStatistics(r.Context(), h.now())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Upcoming handles GET /events/upcoming?limit=10
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	events, err := h.disc.UpcomingEvents(r.Context(), h.now(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(events))
}

// Popular handles GET /events/popular?limit=10
func (h *EventHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	events, err := h.disc.PopularEvents(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(events))
}

// ByCategory handles GET /events?category=education
func (h *EventHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	events, err := h.disc.EventsByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(events))
}

// ByDate handles GET /events/range?from=...&to=...
func (h *EventHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	from, err := queryTime(r, "from")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	events, err := h.disc.EventsByDate(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(events))
}

// Search handles GET /events/search?q=...&category=...&tags=a,b
func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.Filter{Category: q.Get("category")}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if v := q.Get("visibility"); v != "" {
		filter.Visibilities = []model.Visibility{model.Visibility(v)}
	}

	results, err := h.disc.SearchEvents(r.Context(), q.Get("q"), filter)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// OrganizerEvents handles GET /organizers/{id}/events
func (h *EventHandler) OrganizerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.disc.OrganizerEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views(events))
}
