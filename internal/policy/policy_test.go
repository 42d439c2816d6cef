package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/policy"
)

func at(t time.Time) *time.Time { return &t }

func TestIsRegistrationOpen(t *testing.T) {
	now := modeltest.Now
	tests := []struct {
		name string
		mut  func(e *model.Event)
		want bool
	}{
		{"published without window", func(e *model.Event) {}, true},
		{"draft", func(e *model.Event) { e.Status = model.StatusDraft }, false},
		{"postponed", func(e *model.Event) { e.Status = model.StatusPostponed }, false},
		{"registration not required", func(e *model.Event) { e.RequiresRegistration = false }, false},
		{"opens tomorrow", func(e *model.Event) { e.Registration.OpenDate = at(now.Add(24 * time.Hour)) }, false},
		{"opened yesterday", func(e *model.Event) { e.Registration.OpenDate = at(now.Add(-24 * time.Hour)) }, true},
		{"opens exactly now", func(e *model.Event) { e.Registration.OpenDate = at(now) }, true},
		{"closes exactly now", func(e *model.Event) { e.Registration.CloseDate = at(now) }, true},
		{"closed an hour ago", func(e *model.Event) { e.Registration.CloseDate = at(now.Add(-time.Hour)) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := modeltest.Event()
			tt.mut(e)
			assert.Equal(t, tt.want, policy.IsRegistrationOpen(e, now))
		})
	}
}

func TestCanAcceptMoreAttendees(t *testing.T) {
	assert.True(t, policy.CanAcceptMoreAttendees(modeltest.Event(modeltest.WithAttending(100))))
	assert.True(t, policy.CanAcceptMoreAttendees(modeltest.Event(modeltest.WithCapacity(2, false), modeltest.WithAttending(1))))
	assert.False(t, policy.CanAcceptMoreAttendees(modeltest.Event(modeltest.WithCapacity(2, false), modeltest.WithAttending(2))))
}

func TestCanAcceptMoreAttendees_IgnoresCompanions(t *testing.T) {
	e := modeltest.Event(modeltest.WithCapacity(2, false), modeltest.WithAttending(1))
	e.RSVPs[0].Companions = 5
	assert.True(t, policy.CanAcceptMoreAttendees(e))
}

func TestRemainingSeats(t *testing.T) {
	seats, ok := policy.RemainingSeats(modeltest.Event(modeltest.WithCapacity(5, false), modeltest.WithAttending(2)))
	assert.True(t, ok)
	assert.Equal(t, 3, seats)

	_, ok = policy.RemainingSeats(modeltest.Event())
	assert.False(t, ok)
}

func TestDecide(t *testing.T) {
	full := func(waitlist bool) *model.Event {
		return modeltest.Event(modeltest.WithCapacity(1, waitlist), modeltest.WithAttending(1))
	}

	status, err := policy.Decide(modeltest.Event(modeltest.WithCapacity(1, false)), model.RSVPAttending)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPAttending, status)

	status, err = policy.Decide(full(true), model.RSVPAttending)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPWaitlist, status)

	_, err = policy.Decide(full(false), model.RSVPAttending)
	assert.ErrorIs(t, err, apperr.ErrPolicyViolation)

	status, err = policy.Decide(full(false), model.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPMaybe, status)

	status, err = policy.Decide(full(true), model.RSVPWaitlist)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPWaitlist, status)

	_, err = policy.Decide(full(false), model.RSVPWaitlist)
	assert.ErrorIs(t, err, apperr.ErrPolicyViolation)

	_, err = policy.Decide(modeltest.Event(), model.RSVPWaitlist)
	assert.ErrorIs(t, err, apperr.ErrPolicyViolation)
}
