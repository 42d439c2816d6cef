// Package modeltest builds valid events for tests.
package modeltest

import (
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

// Now is the fixed clock used across tests.
var Now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// Option mutates a fixture event.
type Option func(*model.Event)

// Event returns a valid published physical event starting a week after Now.
func Event(opts ...Option) *model.Event {
	e := &model.Event{
		ID:                   "evt-1",
		Slug:                 "community-cleanup",
		Title:                "Community Cleanup",
		Description:          "Join volunteers cleaning the riverside park.",
		StartDate:            Now.Add(7 * 24 * time.Hour),
		EndDate:              Now.Add(7*24*time.Hour + 3*time.Hour),
		Location:             model.Location{Type: model.LocationPhysical, Venue: &model.Venue{Name: "Riverside Park"}},
		Category:             "volunteering",
		Tags:                 []string{"outdoors", "environment"},
		RequiresRegistration: true,
		Status:               model.StatusPublished,
		Visibility:           model.VisibilityPublic,
		Organizer:            model.Organizer{Primary: "org-1"},
		RSVPs:                []model.RSVP{},
		Announcements:        []model.Announcement{},
		CreatedAt:            Now,
		UpdatedAt:            Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithID(id string) Option { return func(e *model.Event) { e.ID = id } }

func WithStatus(s model.EventStatus) Option { return func(e *model.Event) { e.Status = s } }

func WithCapacity(n int, waitlist bool) Option {
	return func(e *model.Event) {
		e.Registration.MaxAttendees = &n
		e.Registration.AllowWaitlist = waitlist
	}
}

func WithDates(start, end time.Time) Option {
	return func(e *model.Event) {
		e.StartDate = start
		e.EndDate = end
	}
}

func WithCategory(c string) Option { return func(e *model.Event) { e.Category = c } }

func WithVisibility(v model.Visibility) Option { return func(e *model.Event) { e.Visibility = v } }

func WithTitle(t string) Option { return func(e *model.Event) { e.Title = t } }

// WithAttending appends n attending member RSVPs user-0..user-n-1.
func WithAttending(n int) Option {
	return func(e *model.Event) {
		for i := 0; i < n; i++ {
			e.RSVPs = append(e.RSVPs, model.RSVP{
				Identity:     model.Registered(fmt.Sprintf("user-%d", i)),
				Status:       model.RSVPAttending,
				ResponseDate: Now,
			})
		}
	}
}

// GuestID returns a guest identity with a derived name.
func GuestID(email string) model.Identity {
	return model.Guest(email, "Guest "+email, "")
}
