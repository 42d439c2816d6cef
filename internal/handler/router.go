package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h *EventHandler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)

	r.Get("/health", HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", h.Statistics)
		r.Get("/organizers/{id}/events", h.OrganizerEvents)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.CreateEvent)
			r.Get("/", h.ByCategory)
			r.Get("/upcoming", h.Upcoming)
			r.Get("/popular", h.Popular)
			r.Get("/search", h.Search)
			r.Get("/range", h.ByDate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEvent)
				r.Patch("/", h.UpdateEvent)
				r.Patch("/status", h.UpdateStatus)
				r.Put("/budget", h.UpdateBudget)
				r.Post("/views", h.RecordView)
				r.Get("/summary", h.Summary)
				r.Get("/quote", h.Quote)
				r.Get("/registration-open", h.RegistrationOpen)

				r.Post("/rsvps", h.AddRSVP)
				r.Patch("/rsvps/status", h.UpdateRSVP)
				r.Delete("/rsvps", h.RemoveRSVP)
				r.Post("/register", h.Register)
				r.Post("/checkin", h.CheckIn)
				r.Post("/noshow", h.NoShow)

				r.Post("/announcements", h.SendAnnouncement)
				r.Get("/announcements/{aid}/recipients", h.Recipients)
			})
		})
	})

	return r
}
