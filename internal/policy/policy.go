// Package policy holds the pure capacity and waitlist decisions. Nothing
// here mutates an event; the registration package applies the outcome.
package policy

import (
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

// IsRegistrationOpen reports whether e accepts registrations at now: it must
// be published, require registration, and now must fall inside the
// [openDate, closeDate] window. A missing bound is unbounded on that side.
func IsRegistrationOpen(e *model.Event, now time.Time) bool {
	if e.Status != model.StatusPublished || !e.RequiresRegistration {
		return false
	}
	rs := e.Registration
	if rs.OpenDate != nil && now.Before(*rs.OpenDate) {
		return false
	}
	if rs.CloseDate != nil && now.After(*rs.CloseDate) {
		return false
	}
	return true
}

// CanAcceptMoreAttendees is true when capacity is unset or not yet reached.
// Companions do not count toward capacity.
func CanAcceptMoreAttendees(e *model.Event) bool {
	limit, ok := e.Capacity()
	if !ok {
		return true
	}
	return e.AttendeeCount() < limit
}

// RemainingSeats returns the free attending slots; ok is false when
// capacity is unlimited.
func RemainingSeats(e *model.Event) (seats int, ok bool) {
	limit, ok := e.Capacity()
	if !ok {
		return 0, false
	}
	seats = limit - e.AttendeeCount()
	if seats < 0 {
		seats = 0
	}
	return seats, true
}

// Decide resolves the status a registration request should receive.
// Attending is capacity-bound: when full it overflows to waitlist if the
// event allows it, otherwise the request is rejected. Asking for the
// waitlist directly requires the event to allow one.
func Decide(e *model.Event, desired model.RSVPStatus) (model.RSVPStatus, error) {
	switch desired {
	case model.RSVPAttending:
	case model.RSVPWaitlist:
		if !e.Registration.AllowWaitlist {
			return "", apperr.Policy("decide", "event has no waitlist")
		}
		return desired, nil
	default:
		return desired, nil
	}
	if CanAcceptMoreAttendees(e) {
		return model.RSVPAttending, nil
	}
	if e.Registration.AllowWaitlist {
		return model.RSVPWaitlist, nil
	}
	return "", apperr.Policy("decide", "event is fully booked")
}
