package model

import (
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
)

// ApplyAutoPublish advances a draft to published once its publishDate has
// passed. It runs at the start of every mutating command rather than
// continuously. Reports whether the status changed.
func (e *Event) ApplyAutoPublish(now time.Time) bool {
	if e.Status != StatusDraft || e.PublishDate == nil {
		return false
	}
	if e.PublishDate.After(now) {
		return false
	}
	e.Status = StatusPublished
	return true
}

var transitions = map[EventStatus][]EventStatus{
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusPublished: {StatusPostponed, StatusCancelled, StatusCompleted},
	StatusPostponed: {StatusPublished, StatusCancelled},
	StatusCancelled: nil,
	StatusCompleted: nil,
}

// CanTransition reports whether from -> to is allowed. Setting the current
// status again is always allowed.
func CanTransition(from, to EventStatus) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the event to status, enforcing the lifecycle table.
// Cancelled and completed are terminal; postponed is only reachable from
// published.
func (e *Event) TransitionTo(status EventStatus) error {
	if !status.Valid() {
		return apperr.Validation("transition", apperr.FieldError{Field: "status", Message: "invalid value " + string(status)})
	}
	if !CanTransition(e.Status, status) {
		return apperr.Policy("transition", "cannot move event from %s to %s", e.Status, status)
	}
	e.Status = status
	return nil
}

// Normalize recomputes every derived field. Call it before each save.
func (e *Event) Normalize(now time.Time) {
	if e.Budget.Revenue != nil && e.Budget.ActualCost != nil {
		pl := *e.Budget.Revenue - *e.Budget.ActualCost
		e.Budget.ProfitLoss = &pl
	} else {
		e.Budget.ProfitLoss = nil
	}

	if limit, ok := e.Capacity(); ok && limit > 0 {
		e.Analytics.RegistrationRate = float64(e.AttendeeCount()) / float64(limit) * 100
	} else {
		e.Analytics.RegistrationRate = 0
	}
	e.Analytics.AttendanceRate = e.AttendanceRate()

	if e.RSVPs == nil {
		e.RSVPs = []RSVP{}
	}
	if e.Announcements == nil {
		e.Announcements = []Announcement{}
	}
	e.UpdatedAt = now.UTC()
}
