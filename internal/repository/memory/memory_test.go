package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/memory"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.EventStore {
		return memory.New()
	})
}

func TestStore_ConcurrentRegistration(t *testing.T) {
	storetest.RunConcurrentRegistration(t, memory.New())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	e := modeltest.Event()
	require.NoError(t, s.Create(ctx, e))

	e.Title = "mutated after create"
	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Community Cleanup", got.Title)

	got.RSVPs = append(got.RSVPs, model.RSVP{Identity: model.Registered("u1"), Status: model.RSVPAttending})
	again, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, again.RSVPs)
}
