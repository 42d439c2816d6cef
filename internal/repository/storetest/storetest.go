// Package storetest runs the same behavioural checks against every
// repository.EventStore backend.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/registration"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

// Run exercises create, get, compare-and-swap save and find. newStore must
// return an empty store for every call.
func Run(t *testing.T, newStore func(t *testing.T) repository.EventStore) {
	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		e := modeltest.Event(modeltest.WithAttending(2))
		require.NoError(t, s.Create(ctx, e))
		assert.Equal(t, int64(1), e.Version)

		got, err := s.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Title, got.Title)
		assert.Equal(t, int64(1), got.Version)
		assert.Len(t, got.RSVPs, 2)
		assert.True(t, e.StartDate.Equal(got.StartDate))
	})

	t.Run("duplicate create", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, modeltest.Event()))
		err := s.Create(ctx, modeltest.Event())
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := newStore(t).Get(context.Background(), "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("save bumps version", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Create(ctx, modeltest.Event()))

		e, err := s.Get(ctx, "evt-1")
		require.NoError(t, err)
		e.Title = "River Cleanup"
		require.NoError(t, s.Save(ctx, e))
		assert.Equal(t, int64(2), e.Version)

		got, err := s.Get(ctx, "evt-1")
		require.NoError(t, err)
		assert.Equal(t, "River Cleanup", got.Title)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("stale save conflicts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Create(ctx, modeltest.Event()))

		a, err := s.Get(ctx, "evt-1")
		require.NoError(t, err)
		b, err := s.Get(ctx, "evt-1")
		require.NoError(t, err)

		a.Title = "first"
		require.NoError(t, s.Save(ctx, a))

		b.Title = "second"
		err = s.Save(ctx, b)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
		assert.Equal(t, int64(1), b.Version)

		got, err := s.Get(ctx, "evt-1")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
	})

	t.Run("save missing", func(t *testing.T) {
		e := modeltest.Event()
		e.Version = 1
		err := newStore(t).Save(context.Background(), e)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("find filters and orders", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		day := 24 * time.Hour
		base := modeltest.Now

		seed := []*model.Event{
			modeltest.Event(modeltest.WithID("c"), modeltest.WithDates(base.Add(3*day), base.Add(3*day+time.Hour))),
			modeltest.Event(modeltest.WithID("a"), modeltest.WithDates(base.Add(day), base.Add(day+time.Hour)), modeltest.WithCategory("health")),
			modeltest.Event(modeltest.WithID("b"), modeltest.WithDates(base.Add(2*day), base.Add(2*day+time.Hour)), modeltest.WithStatus(model.StatusDraft)),
			modeltest.Event(modeltest.WithID("d"), modeltest.WithDates(base.Add(4*day), base.Add(4*day+time.Hour)), modeltest.WithVisibility(model.VisibilityPrivate)),
		}
		seed[3].Organizer.CoOrganizers = []string{"org-2"}
		for _, e := range seed {
			require.NoError(t, s.Create(ctx, e))
		}

		all, err := s.Find(ctx, repository.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(all))

		published, err := s.Find(ctx, repository.Filter{Statuses: []model.EventStatus{model.StatusPublished}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c", "d"}, ids(published))

		public, err := s.Find(ctx, repository.Filter{Visibilities: []model.Visibility{model.VisibilityPublic}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids(public))

		health, err := s.Find(ctx, repository.Filter{Category: "health"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids(health))

		co, err := s.Find(ctx, repository.Filter{OrganizerID: "org-2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, ids(co))

		from, to := base.Add(2*day), base.Add(3*day)
		window, err := s.Find(ctx, repository.Filter{StartFrom: &from, StartTo: &to})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, ids(window))

		endFrom := base.Add(3*day + time.Hour)
		ending, err := s.Find(ctx, repository.Filter{EndFrom: &endFrom})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "d"}, ids(ending))

		tagged, err := s.Find(ctx, repository.Filter{Tags: []string{"environment", "unused"}})
		require.NoError(t, err)
		assert.Len(t, tagged, 4)
	})
}

func ids(events []*model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

// RunConcurrentRegistration has callers goroutines register for one event
// through read, decide and compare-and-swap save, retrying only on version
// conflicts. Every caller must end attending or waitlisted and the event
// must never exceed capacity.
func RunConcurrentRegistration(t *testing.T, s repository.EventStore) {
	const capacity, callers = 10, 50
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, modeltest.Event(modeltest.WithCapacity(capacity, true))))

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.Registered(fmt.Sprintf("caller-%d", i))
			for attempt := 0; attempt < callers+1; attempt++ {
				e, err := s.Get(ctx, "evt-1")
				if err != nil {
					errs[i] = err
					return
				}
				if _, err := registration.RequestRegistration(e, id, registration.Payload{}, modeltest.Now); err != nil {
					errs[i] = err
					return
				}
				err = s.Save(ctx, e)
				if !errors.Is(err, repository.ErrVersionConflict) {
					errs[i] = err
					return
				}
			}
			errs[i] = repository.ErrVersionConflict
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller-%d", i)
	}
	e, err := s.Get(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, capacity, e.AttendeeCount())
	assert.Equal(t, callers-capacity, e.WaitlistCount())
	assert.Len(t, e.RSVPs, callers)
	assert.Equal(t, int64(callers+1), e.Version)
}
