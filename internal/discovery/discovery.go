// Package discovery answers read-only listing and search queries. Private
// events only surface through OrganizerEvents.
package discovery

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

var listed = []model.Visibility{model.VisibilityPublic, model.VisibilityUnlisted}

// Service runs discovery queries against an EventStore.
type Service struct {
	store repository.EventStore
}

// NewService constructs a Service.
func NewService(store repository.EventStore) *Service {
	return &Service{store: store}
}

// UpcomingEvents returns published, listed events starting at or after
// now, soonest first. limit <= 0 means no limit.
func (s *Service) UpcomingEvents(ctx context.Context, now time.Time, limit int) ([]*model.Event, error) {
	events, err := s.store.Find(ctx, repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished},
		Visibilities: listed,
		StartFrom:    &now,
	})
	if err != nil {
		return nil, apperr.Storage("upcoming events", err)
	}
	repository.SortByStart(events)
	return truncate(events, limit), nil
}

// EventsByCategory returns published, listed events in category.
func (s *Service) EventsByCategory(ctx context.Context, category string) ([]*model.Event, error) {
	events, err := s.store.Find(ctx, repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished},
		Visibilities: listed,
		Category:     category,
	})
	if err != nil {
		return nil, apperr.Storage("events by category", err)
	}
	return events, nil
}

// EventsByDate returns published, listed events whose [startDate, endDate]
// interval intersects [from, to], boundaries included. That covers events
// starting inside the range, ending inside it, or spanning it entirely.
func (s *Service) EventsByDate(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	if to.Before(from) {
		from, to = to, from
	}
	events, err := s.store.Find(ctx, repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished},
		Visibilities: listed,
		StartTo:      &to,
		EndFrom:      &from,
	})
	if err != nil {
		return nil, apperr.Storage("events by date", err)
	}
	return events, nil
}

// PopularEvents orders published, listed events by views, then by
// attendee count, then by start date.
func (s *Service) PopularEvents(ctx context.Context, limit int) ([]*model.Event, error) {
	events, err := s.store.Find(ctx, repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished},
		Visibilities: listed,
	})
	if err != nil {
		return nil, apperr.Storage("popular events", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Analytics.Views != b.Analytics.Views {
			return a.Analytics.Views > b.Analytics.Views
		}
		if ac, bc := a.AttendeeCount(), b.AttendeeCount(); ac != bc {
			return ac > bc
		}
		return a.StartDate.Before(b.StartDate)
	})
	return truncate(events, limit), nil
}

// OrganizerEvents returns every event id organizes, as primary or
// co-organizer, regardless of status or visibility.
func (s *Service) OrganizerEvents(ctx context.Context, organizerID string) ([]*model.Event, error) {
	if strings.TrimSpace(organizerID) == "" {
		return []*model.Event{}, nil
	}
	events, err := s.store.Find(ctx, repository.Filter{OrganizerID: organizerID})
	if err != nil {
		return nil, apperr.Storage("organizer events", err)
	}
	return events, nil
}

func truncate(events []*model.Event, limit int) []*model.Event {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
