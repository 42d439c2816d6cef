package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
)

func ptr[T any](v T) *T { return &v }

func TestEvent_Validate_Fixture(t *testing.T) {
	assert.NoError(t, modeltest.Event().Validate())
}

func TestEvent_Validate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(e *model.Event)
		field string
	}{
		{"end before start", func(e *model.Event) { e.EndDate = e.StartDate.Add(-time.Minute) }, "endDate"},
		{"zero capacity", func(e *model.Event) { e.Registration.MaxAttendees = ptr(0) }, "registrationSettings.maxAttendees"},
		{"bad status", func(e *model.Event) { e.Status = "archived" }, "status"},
		{"bad visibility", func(e *model.Event) { e.Visibility = "secret" }, "visibility"},
		{"missing title", func(e *model.Event) { e.Title = "  " }, "title"},
		{"missing organizer", func(e *model.Event) { e.Organizer.Primary = "" }, "organizer.primary"},
		{"virtual without url", func(e *model.Event) { e.Location = model.Location{Type: model.LocationVirtual} }, "location.online.url"},
		{"hybrid without venue", func(e *model.Event) {
			e.Location = model.Location{Type: model.LocationHybrid, Online: &model.Online{URL: "https://meet.example.org/x"}}
		}, "location.venue.name"},
		{"close before open", func(e *model.Event) {
			e.Registration.OpenDate = ptr(modeltest.Now)
			e.Registration.CloseDate = ptr(modeltest.Now.Add(-time.Hour))
		}, "registrationSettings.closeDate"},
		{"member discount over 100", func(e *model.Event) { e.Pricing.MemberDiscount = 120 }, "pricing.memberDiscount"},
		{"negative cost", func(e *model.Event) { e.Budget.ActualCost = ptr(-1.0) }, "budget.actualCost"},
		{"check-in on waitlist", func(e *model.Event) {
			e.RSVPs = append(e.RSVPs, model.RSVP{
				Identity:      model.Registered("u1"),
				Status:        model.RSVPWaitlist,
				CheckInStatus: model.CheckedIn,
				CheckInTime:   ptr(modeltest.Now),
			})
		}, "rsvps[0].checkInStatus"},
		{"too many companions", func(e *model.Event) {
			e.RSVPs = append(e.RSVPs, model.RSVP{Identity: model.Registered("u1"), Status: model.RSVPAttending, Companions: 11})
		}, "rsvps[0].companions"},
		{"duplicate identity", func(e *model.Event) {
			e.RSVPs = append(e.RSVPs,
				model.RSVP{Identity: modeltest.GuestID("a@example.org"), Status: model.RSVPMaybe},
				model.RSVP{Identity: modeltest.GuestID("A@Example.org"), Status: model.RSVPAttending},
			)
		}, "rsvps[1].identity"},
		{"ambiguous identity", func(e *model.Event) {
			e.RSVPs = append(e.RSVPs, model.RSVP{
				Identity: model.Identity{UserID: "u1", Guest: &model.GuestInfo{Email: "x@example.org", Name: "X"}},
				Status:   model.RSVPAttending,
			})
		}, "rsvps[0].identity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := modeltest.Event()
			tt.mut(e)

			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation))

			var fields []string
			for _, f := range apperr.FieldsOf(err) {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestEvent_Normalize_ProfitLoss(t *testing.T) {
	e := modeltest.Event()
	e.Budget.ActualCost = ptr(100.0)
	e.Budget.Revenue = ptr(150.0)

	e.Normalize(modeltest.Now)

	require.NotNil(t, e.Budget.ProfitLoss)
	assert.Equal(t, 50.0, *e.Budget.ProfitLoss)
}

func TestEvent_Normalize_ProfitLossNeedsBothInputs(t *testing.T) {
	e := modeltest.Event()
	e.Budget.Revenue = ptr(150.0)
	e.Budget.ProfitLoss = ptr(999.0)

	e.Normalize(modeltest.Now)

	assert.Nil(t, e.Budget.ProfitLoss)
}

func TestEvent_Normalize_Rates(t *testing.T) {
	e := modeltest.Event(modeltest.WithCapacity(4, false), modeltest.WithAttending(2))
	e.RSVPs[0].CheckInStatus = model.CheckedIn
	e.RSVPs[0].CheckInTime = ptr(modeltest.Now)

	e.Normalize(modeltest.Now)

	assert.Equal(t, 50.0, e.Analytics.RegistrationRate)
	assert.Equal(t, 50.0, e.Analytics.AttendanceRate)
	assert.Equal(t, modeltest.Now, e.UpdatedAt)
}

func TestEvent_DerivedCounts(t *testing.T) {
	e := modeltest.Event(modeltest.WithAttending(3))
	e.RSVPs = append(e.RSVPs,
		model.RSVP{Identity: model.Registered("w1"), Status: model.RSVPWaitlist},
		model.RSVP{Identity: model.Registered("w2"), Status: model.RSVPWaitlist},
		model.RSVP{Identity: model.Registered("m1"), Status: model.RSVPMaybe},
	)

	assert.Equal(t, 3, e.AttendeeCount())
	assert.Equal(t, 2, e.WaitlistCount())
}

func TestEvent_AttendanceRate_NoAttendees(t *testing.T) {
	e := modeltest.Event()
	assert.Equal(t, 0.0, e.AttendanceRate())
}

func TestEvent_ApplyAutoPublish(t *testing.T) {
	yesterday := modeltest.Now.Add(-24 * time.Hour)
	tomorrow := modeltest.Now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		status  model.EventStatus
		publish *time.Time
		want    model.EventStatus
		changed bool
	}{
		{"draft past publish date", model.StatusDraft, &yesterday, model.StatusPublished, true},
		{"draft publish date now", model.StatusDraft, ptr(modeltest.Now), model.StatusPublished, true},
		{"draft future publish date", model.StatusDraft, &tomorrow, model.StatusDraft, false},
		{"draft without publish date", model.StatusDraft, nil, model.StatusDraft, false},
		{"cancelled is left alone", model.StatusCancelled, &yesterday, model.StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := modeltest.Event(modeltest.WithStatus(tt.status))
			e.PublishDate = tt.publish

			assert.Equal(t, tt.changed, e.ApplyAutoPublish(modeltest.Now))
			assert.Equal(t, tt.want, e.Status)
		})
	}
}

func TestEvent_TransitionTo(t *testing.T) {
	tests := []struct {
		from, to model.EventStatus
		ok       bool
	}{
		{model.StatusDraft, model.StatusPublished, true},
		{model.StatusDraft, model.StatusCancelled, true},
		{model.StatusDraft, model.StatusPostponed, false},
		{model.StatusDraft, model.StatusCompleted, false},
		{model.StatusPublished, model.StatusPostponed, true},
		{model.StatusPublished, model.StatusCompleted, true},
		{model.StatusPublished, model.StatusDraft, false},
		{model.StatusPostponed, model.StatusPublished, true},
		{model.StatusPostponed, model.StatusCompleted, false},
		{model.StatusCancelled, model.StatusPublished, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			e := modeltest.Event(modeltest.WithStatus(tt.from))
			err := e.TransitionTo(tt.to)
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, e.Status)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrPolicyViolation)
			assert.Equal(t, tt.from, e.Status)
		})
	}
}

func TestEvent_TransitionTo_InvalidStatus(t *testing.T) {
	err := modeltest.Event().TransitionTo("archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEvent_Clone_IsDeep(t *testing.T) {
	checkIn := modeltest.Now
	publish := modeltest.Now.Add(-time.Hour)
	open := modeltest.Now.Add(-2 * time.Hour)
	closes := modeltest.Now.Add(time.Hour)
	deadline := modeltest.Now.Add(2 * time.Hour)
	early := 10.0

	e := modeltest.Event(modeltest.WithCapacity(5, true))
	e.PublishDate = &publish
	e.Registration.OpenDate = &open
	e.Registration.CloseDate = &closes
	e.Pricing.EarlyBirdPrice = &early
	e.Pricing.EarlyBirdDeadline = &deadline
	e.RSVPs = append(e.RSVPs, model.RSVP{
		Identity:      modeltest.GuestID("g@example.org"),
		Status:        model.RSVPAttending,
		CheckInStatus: model.CheckedIn,
		CheckInTime:   &checkIn,
	})

	c := e.Clone()
	c.RSVPs[0].Status = model.RSVPMaybe
	c.RSVPs[0].Identity.Guest.Name = "Changed"
	*c.RSVPs[0].CheckInTime = time.Time{}
	*c.Registration.MaxAttendees = 1
	*c.Registration.OpenDate = time.Time{}
	*c.Registration.CloseDate = time.Time{}
	*c.PublishDate = time.Time{}
	*c.Pricing.EarlyBirdPrice = 0
	*c.Pricing.EarlyBirdDeadline = time.Time{}
	c.Tags[0] = "indoors"

	assert.Equal(t, model.RSVPAttending, e.RSVPs[0].Status)
	assert.Equal(t, "Guest g@example.org", e.RSVPs[0].Identity.Guest.Name)
	assert.Equal(t, modeltest.Now, *e.RSVPs[0].CheckInTime)
	assert.Equal(t, 5, *e.Registration.MaxAttendees)
	assert.Equal(t, modeltest.Now.Add(-2*time.Hour), *e.Registration.OpenDate)
	assert.Equal(t, modeltest.Now.Add(time.Hour), *e.Registration.CloseDate)
	assert.Equal(t, modeltest.Now.Add(-time.Hour), *e.PublishDate)
	assert.Equal(t, 10.0, *e.Pricing.EarlyBirdPrice)
	assert.Equal(t, modeltest.Now.Add(2*time.Hour), *e.Pricing.EarlyBirdDeadline)
	assert.Equal(t, "outdoors", e.Tags[0])
}

func TestOrganizer_IsOrganizer(t *testing.T) {
	o := model.Organizer{Primary: "a", CoOrganizers: []string{"b", "c"}}
	assert.True(t, o.IsOrganizer("a"))
	assert.True(t, o.IsOrganizer("c"))
	assert.False(t, o.IsOrganizer("d"))
	assert.False(t, o.IsOrganizer(""))
}
