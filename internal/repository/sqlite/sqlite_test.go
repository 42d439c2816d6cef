package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/storetest"
)

func openMemory(t *testing.T) *EventStore {
	t.Helper()
	s, err := Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.EventStore {
		return openMemory(t)
	})
}

func TestEventStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/events.db"
	ctx := context.Background()

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, modeltest.Event(modeltest.WithAttending(1))))
	require.NoError(t, s.Close())

	s, err = Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, got.RSVPs, 1)
	assert.Equal(t, model.RSVPAttending, got.RSVPs[0].Status)
}

func TestEventStore_ConcurrentRegistrationOnFile(t *testing.T) {
	s, err := Open(t.TempDir()+"/events.db", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	storetest.RunConcurrentRegistration(t, s)
}

func TestEventStore_Close(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, s.Create(context.Background(), modeltest.Event()), ErrStoreClosed)
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(repository.Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	from := modeltest.Now
	to := from.Add(time.Hour)
	where, args = buildWhere(repository.Filter{
		Statuses:     []model.EventStatus{model.StatusPublished, model.StatusPostponed},
		Visibilities: []model.Visibility{model.VisibilityPublic},
		Category:     "health",
		StartFrom:    &from,
		StartTo:      &to,
		OrganizerID:  "org-1",
	})
	assert.Equal(t,
		" WHERE status IN (?,?) AND visibility IN (?) AND category = ? AND start_ns >= ? AND start_ns <= ?",
		where)
	assert.Equal(t, []any{"published", "postponed", "public", "health", from.UnixNano(), to.UnixNano()}, args)
}
