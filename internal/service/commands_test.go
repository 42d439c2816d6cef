package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model/modeltest"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/memory"
)

func TestRSVPLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), modeltest.Event(modeltest.WithCapacity(1, true)))
	first := model.Guest("first@example.org", "First", "")
	second := model.Guest("second@example.org", "Second", "")

	_, r, err := svc.RequestRegistration(ctx, "evt-1", model.RSVPRequest{Identity: first, Companions: 2})
	require.NoError(t, err)
	assert.Equal(t, model.RSVPAttending, r.Status)
	assert.NotEmpty(t, r.ConfirmationCode)

	_, r, err = svc.RequestRegistration(ctx, "evt-1", model.RSVPRequest{Identity: second})
	require.NoError(t, err)
	assert.Equal(t, model.RSVPWaitlist, r.Status)

	_, _, err = svc.CheckInAttendee(ctx, "evt-1", second)
	assert.ErrorIs(t, err, apperr.ErrPolicyViolation)

	_, r, err = svc.CheckInAttendee(ctx, "evt-1", first)
	require.NoError(t, err)
	assert.Equal(t, model.CheckedIn, r.CheckInStatus)

	e, err := svc.RemoveRSVP(ctx, "evt-1", first)
	require.NoError(t, err)
	assert.Equal(t, 1, e.AttendeeCount())
	assert.Equal(t, model.RSVPAttending, e.RSVPs[e.FindRSVP(second)].Status)

	_, r, err = svc.MarkNoShow(ctx, "evt-1", second)
	require.NoError(t, err)
	assert.Equal(t, model.NoShow, r.CheckInStatus)

	summary, err := svc.Summary(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NoShows)
	assert.Equal(t, 0.0, summary.AttendanceRate)
}

func TestAddRSVP_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), modeltest.Event(modeltest.WithCapacity(1, false), modeltest.WithAttending(1)))
	req := model.RSVPRequest{Identity: model.Registered("vip"), Status: model.RSVPAttending}

	_, a, err := svc.AddRSVP(ctx, "evt-1", req)
	require.NoError(t, err)
	e, b, err := svc.AddRSVP(ctx, "evt-1", req)
	require.NoError(t, err)

	assert.Equal(t, a.ConfirmationCode, b.ConfirmationCode)
	assert.Len(t, e.RSVPs, 2)
}

func TestUpdateRSVP(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), modeltest.Event(modeltest.WithAttending(1)))

	_, r, err := svc.UpdateRSVP(ctx, "evt-1", model.Registered("user-0"), model.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPMaybe, r.Status)

	_, _, err = svc.UpdateRSVP(ctx, "evt-1", model.Registered("ghost"), model.RSVPMaybe)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendAnnouncementAndRecipients(t *testing.T) {
	ctx := context.Background()
	e := modeltest.Event(modeltest.WithAttending(2))
	e.RSVPs = append(e.RSVPs, model.RSVP{Identity: model.Registered("w1"), Status: model.RSVPWaitlist})
	svc := newService(t, memory.New(), e)

	_, a, err := svc.SendAnnouncement(ctx, "evt-1", model.AnnouncementRequest{
		Title:         "Bring water",
		Message:       "It will be hot.",
		SentBy:        "org-1",
		RecipientType: model.RecipientsAttending,
	})
	require.NoError(t, err)

	recipients, err := svc.Recipients(ctx, "evt-1", a.ID)
	require.NoError(t, err)
	assert.Len(t, recipients, 2)

	_, err = svc.Recipients(ctx, "evt-1", "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), modeltest.Event())

	e, err := svc.UpdateStatus(ctx, "evt-1", model.StatusPostponed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPostponed, e.Status)

	e, err = svc.UpdateStatus(ctx, "evt-1", model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, e.Status)

	_, err = svc.UpdateStatus(ctx, "evt-1", model.StatusPublished)
	assert.ErrorIs(t, err, apperr.ErrPolicyViolation)
}

func TestUpdateBudget(t *testing.T) {
	cost, revenue := 100.0, 150.0
	svc := newService(t, memory.New(), modeltest.Event())

	e, err := svc.UpdateBudget(context.Background(), "evt-1", model.BudgetRequest{ActualCost: &cost, Revenue: &revenue})
	require.NoError(t, err)
	require.NotNil(t, e.Budget.ProfitLoss)
	assert.Equal(t, 50.0, *e.Budget.ProfitLoss)
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), modeltest.Event())

	_, err := svc.RecordView(ctx, "evt-1", true)
	require.NoError(t, err)
	e, err := svc.RecordView(ctx, "evt-1", false)
	require.NoError(t, err)

	assert.Equal(t, int64(2), e.Analytics.Views)
	assert.Equal(t, int64(1), e.Analytics.UniqueViews)
}

func TestQuoteAndRegistrationWindow(t *testing.T) {
	ctx := context.Background()
	e := modeltest.Event()
	e.Pricing = model.Pricing{BasePrice: 10, MemberDiscount: 20}
	opens := modeltest.Now.Add(time.Hour)
	e.Registration.OpenDate = &opens
	svc := newService(t, memory.New(), e)

	q, err := svc.Quote(ctx, "evt-1", true, 2)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, q.Total, 0.001)

	open, err := svc.IsRegistrationOpen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	e := modeltest.Event(modeltest.WithCapacity(1, true), modeltest.WithAttending(1))
	e.RSVPs = append(e.RSVPs,
		model.RSVP{Identity: model.Registered("w1"), Status: model.RSVPWaitlist, ResponseDate: modeltest.Now},
		model.RSVP{Identity: model.Registered("w2"), Status: model.RSVPWaitlist, ResponseDate: modeltest.Now.Add(time.Minute)},
	)
	svc := newService(t, memory.New(), e)

	two := 2
	title := " Riverside Cleanup "
	got, err := svc.UpdateEvent(ctx, "evt-1", model.UpdateEventRequest{
		Title:        &title,
		Registration: &model.RegistrationSettings{MaxAttendees: &two, AllowWaitlist: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "Riverside Cleanup", got.Title)
	assert.Equal(t, "community-cleanup", got.Slug)
	assert.Equal(t, 2, got.AttendeeCount())
	assert.Equal(t, model.RSVPAttending, got.RSVPs[got.FindRSVP(model.Registered("w1"))].Status)
	assert.Equal(t, model.RSVPWaitlist, got.RSVPs[got.FindRSVP(model.Registered("w2"))].Status)
}

func TestUpdateEvent_Invalid(t *testing.T) {
	svc := newService(t, memory.New(), modeltest.Event())

	early := modeltest.Now
	_, err := svc.UpdateEvent(context.Background(), "evt-1", model.UpdateEventRequest{EndDate: &early})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
