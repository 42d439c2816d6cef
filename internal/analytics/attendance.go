// Package analytics computes per-event attendance metrics and cross-event
// dashboard statistics. Everything here is read-only.
package analytics

import (
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/policy"
)

// AttendeeCount counts RSVPs with status attending.
func AttendeeCount(e *model.Event) int { return e.AttendeeCount() }

// WaitlistCount counts RSVPs with status waitlist.
func WaitlistCount(e *model.Event) int { return e.WaitlistCount() }

// CheckedInCount counts attending RSVPs marked checked-in.
func CheckedInCount(e *model.Event) int { return e.CheckedInCount() }

// NoShowCount counts attending RSVPs marked no-show.
func NoShowCount(e *model.Event) int {
	n := 0
	for _, r := range e.RSVPs {
		if r.Status == model.RSVPAttending && r.CheckInStatus == model.NoShow {
			n++
		}
	}
	return n
}

// CalculateAttendanceRate is checkedIn / attending * 100, or 0 when
// nobody is attending.
func CalculateAttendanceRate(e *model.Event) float64 {
	return e.AttendanceRate()
}

// EventSummary is the per-event metrics view.
type EventSummary struct {
	EventID          string                   `json:"eventId"`
	Status           model.EventStatus        `json:"status"`
	ByStatus         map[model.RSVPStatus]int `json:"byStatus"`
	AttendeeCount    int                      `json:"attendeeCount"`
	WaitlistCount    int                      `json:"waitlistCount"`
	CheckedIn        int                      `json:"checkedIn"`
	NoShows          int                      `json:"noShows"`
	Companions       int                      `json:"companions"`
	AttendanceRate   float64                  `json:"attendanceRate"`
	RegistrationRate float64                  `json:"registrationRate"`
	RemainingSeats   *int                     `json:"remainingSeats,omitempty"`
	Announcements    int                      `json:"announcements"`
	Views            int64                    `json:"views"`
	UniqueViews      int64                    `json:"uniqueViews"`
	ProfitLoss       *float64                 `json:"profitLoss,omitempty"`
}

// Summarize builds the metrics view for one event. Companions of attending
// RSVPs are reported but never counted against capacity.
func Summarize(e *model.Event) EventSummary {
	s := EventSummary{
		EventID:          e.ID,
		Status:           e.Status,
		ByStatus:         make(map[model.RSVPStatus]int, 4),
		AttendeeCount:    AttendeeCount(e),
		WaitlistCount:    WaitlistCount(e),
		CheckedIn:        CheckedInCount(e),
		NoShows:          NoShowCount(e),
		AttendanceRate:   CalculateAttendanceRate(e),
		RegistrationRate: e.Analytics.RegistrationRate,
		Announcements:    len(e.Announcements),
		Views:            e.Analytics.Views,
		UniqueViews:      e.Analytics.UniqueViews,
		ProfitLoss:       e.Budget.ProfitLoss,
	}
	for _, r := range e.RSVPs {
		s.ByStatus[r.Status]++
		if r.Status == model.RSVPAttending {
			s.Companions += r.Companions
		}
	}
	if seats, ok := policy.RemainingSeats(e); ok {
		s.RemainingSeats = &seats
	}
	return s
}
