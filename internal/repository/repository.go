// Package repository defines persistence for event documents.
//
// An event is stored as one document together with its RSVPs and
// announcements. Every backend implements Save as a compare-and-swap on
// Event.Version, so concurrent read-modify-write cycles on the same event
// cannot silently overwrite each other.
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned by Save when the stored version no longer
// matches the version the caller loaded.
var ErrVersionConflict = errors.New("version conflict")

// ErrAlreadyExists is returned by Create for a duplicate id.
var ErrAlreadyExists = errors.New("event already exists")

// EventStore persists whole event documents.
type EventStore interface {
	// Create inserts a new event. Version is set to 1 on success.
	Create(ctx context.Context, e *model.Event) error

	// Get loads one event or returns ErrNotFound.
	Get(ctx context.Context, id string) (*model.Event, error)

	// Save replaces the stored document if its version still equals
	// e.Version, then increments e.Version. Returns ErrVersionConflict on a
	// stale write and ErrNotFound if the event is gone.
	Save(ctx context.Context, e *model.Event) error

	// Find returns events matching f ordered by start date ascending.
	Find(ctx context.Context, f Filter) ([]*model.Event, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Filter narrows Find. Zero fields do not filter. Backends push down what
// they can index and finish with Matches.
type Filter struct {
	Statuses     []model.EventStatus
	Visibilities []model.Visibility
	Category     string
	OrganizerID  string
	Tags         []string // any of

	StartFrom *time.Time // startDate >= StartFrom
	StartTo   *time.Time // startDate <= StartTo
	EndFrom   *time.Time // endDate >= EndFrom
}

// Matches reports whether e satisfies every set field of f.
func (f Filter) Matches(e *model.Event) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, e.Status) {
		return false
	}
	if len(f.Visibilities) > 0 && !containsVisibility(f.Visibilities, e.Visibility) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.OrganizerID != "" && !e.Organizer.IsOrganizer(f.OrganizerID) {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(e.Tags, f.Tags) {
		return false
	}
	if f.StartFrom != nil && e.StartDate.Before(*f.StartFrom) {
		return false
	}
	if f.StartTo != nil && e.StartDate.After(*f.StartTo) {
		return false
	}
	if f.EndFrom != nil && e.EndDate.Before(*f.EndFrom) {
		return false
	}
	return true
}

// SortByStart orders events by start date, then id for stability.
func SortByStart(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartDate.Equal(events[j].StartDate) {
			return events[i].StartDate.Before(events[j].StartDate)
		}
		return events[i].ID < events[j].ID
	})
}

// StatusStrings converts statuses for SQL array parameters.
func StatusStrings(s []model.EventStatus) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}

// VisibilityStrings converts visibilities for SQL array parameters.
func VisibilityStrings(v []model.Visibility) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = string(x)
	}
	return out
}

func containsStatus(list []model.EventStatus, s model.EventStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsVisibility(list []model.Visibility, v model.Visibility) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
