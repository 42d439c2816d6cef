package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/analytics"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
)

func TestCalculateAttendanceRate_NoAttendees(t *testing.T) {
	e := modeltest.Event()
	e.RSVPs = append(e.RSVPs, model.RSVP{Identity: model.Registered("m1"), Status: model.RSVPMaybe})

	assert.Equal(t, 0.0, analytics.CalculateAttendanceRate(e))
}

func TestCalculateAttendanceRate(t *testing.T) {
	e := modeltest.Event(modeltest.WithAttending(4))
	checkedIn := modeltest.Now.Add(time.Hour)
	e.RSVPs[0].CheckInStatus = model.CheckedIn
	e.RSVPs[0].CheckInTime = &checkedIn
	e.RSVPs[1].CheckInStatus = model.NoShow

	assert.Equal(t, 25.0, analytics.CalculateAttendanceRate(e))
	assert.Equal(t, 1, analytics.CheckedInCount(e))
	assert.Equal(t, 1, analytics.NoShowCount(e))
}

func TestSummarize(t *testing.T) {
	e := modeltest.Event(modeltest.WithCapacity(5, true), modeltest.WithAttending(2))
	e.RSVPs[0].Companions = 3
	e.RSVPs = append(e.RSVPs,
		model.RSVP{Identity: model.Registered("w1"), Status: model.RSVPWaitlist, Companions: 4},
		model.RSVP{Identity: model.Registered("m1"), Status: model.RSVPMaybe},
	)
	e.Analytics.Views = 10
	e.Normalize(modeltest.Now)

	assert.Equal(t, 2, analytics.AttendeeCount(e))
	assert.Equal(t, 1, analytics.WaitlistCount(e))

	s := analytics.Summarize(e)
	assert.Equal(t, "evt-1", s.EventID)
	assert.Equal(t, 2, s.AttendeeCount)
	assert.Equal(t, 1, s.WaitlistCount)
	assert.Equal(t, 3, s.Companions)
	assert.Equal(t, map[model.RSVPStatus]int{
		model.RSVPAttending: 2,
		model.RSVPWaitlist:  1,
		model.RSVPMaybe:     1,
	}, s.ByStatus)
	require.NotNil(t, s.RemainingSeats)
	assert.Equal(t, 3, *s.RemainingSeats)
	assert.Equal(t, 40.0, s.RegistrationRate)
	assert.Equal(t, int64(10), s.Views)
}

func TestSummarize_UnlimitedCapacity(t *testing.T) {
	s := analytics.Summarize(modeltest.Event(modeltest.WithAttending(3)))
	assert.Nil(t, s.RemainingSeats)
	assert.Equal(t, 3, s.AttendeeCount)
}
