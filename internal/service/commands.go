package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/analytics"
	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/policy"
	"github.com/Shivanand-hulikatti/ngo-events/internal/registration"
)

func payloadOf(req model.RSVPRequest) registration.Payload {
	return registration.Payload{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		TicketType:    req.TicketType,
		Companions:    req.Companions,
		Notes:         req.Notes,
	}
}

// AddRSVP upserts an RSVP by identity without consulting capacity. It is
// idempotent per identity, so callers may retry on storage errors.
func (s *EventService) AddRSVP(ctx context.Context, eventID string, req model.RSVPRequest) (*model.Event, model.RSVP, error) {
	var out model.RSVP
	e, err := s.mutate(ctx, "AddRSVP", eventID, func(e *model.Event, now time.Time) error {
		r, err := registration.AddRSVP(e, req.Identity, payloadOf(req), now)
		out = r
		return err
	})
	if err != nil {
		return nil, model.RSVP{}, err
	}
	return e, out, nil
}

// RequestRegistration is the policy-checked sign-up. The capacity check and
// the insert commit together: a concurrent registration that wins the race
// forces this one to reload and re-decide.
func (s *EventService) RequestRegistration(ctx context.Context, eventID string, req model.RSVPRequest) (*model.Event, model.RSVP, error) {
	var out model.RSVP
	e, err := s.mutate(ctx, "RequestRegistration", eventID, func(e *model.Event, now time.Time) error {
		r, err := registration.RequestRegistration(e, req.Identity, payloadOf(req), now)
		out = r
		return err
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindPolicyViolation {
			s.log.Info("Registration rejected",
				zap.String("event_id", eventID),
				zap.String("identity", req.Identity.Key()),
				zap.Error(err))
		}
		return nil, model.RSVP{}, err
	}
	s.log.Info("Registration accepted",
		zap.String("event_id", eventID),
		zap.String("identity", out.Identity.Key()),
		zap.String("status", string(out.Status)))
	return e, out, nil
}

// UpdateRSVP changes the status of an existing RSVP.
func (s *EventService) UpdateRSVP(ctx context.Context, eventID string, identity model.Identity, status model.RSVPStatus) (*model.Event, model.RSVP, error) {
	var out model.RSVP
	e, err := s.mutate(ctx, "UpdateRSVP", eventID, func(e *model.Event, now time.Time) error {
		r, err := registration.UpdateRSVP(e, identity, status, now)
		out = r
		return err
	})
	if err != nil {
		return nil, model.RSVP{}, err
	}
	return e, out, nil
}

// RemoveRSVP cancels a registration and backfills from the waitlist.
func (s *EventService) RemoveRSVP(ctx context.Context, eventID string, identity model.Identity) (*model.Event, error) {
	return s.mutate(ctx, "RemoveRSVP", eventID, func(e *model.Event, now time.Time) error {
		_, err := registration.RemoveRSVP(e, identity, now)
		return err
	})
}

// CheckInAttendee marks an attending identity as present.
func (s *EventService) CheckInAttendee(ctx context.Context, eventID string, identity model.Identity) (*model.Event, model.RSVP, error) {
	var out model.RSVP
	e, err := s.mutate(ctx, "CheckInAttendee", eventID, func(e *model.Event, now time.Time) error {
		r, err := registration.CheckInAttendee(e, identity, now)
		out = r
		return err
	})
	if err != nil {
		return nil, model.RSVP{}, err
	}
	return e, out, nil
}

// MarkNoShow records an attending identity as absent.
func (s *EventService) MarkNoShow(ctx context.Context, eventID string, identity model.Identity) (*model.Event, model.RSVP, error) {
	var out model.RSVP
	e, err := s.mutate(ctx, "MarkNoShow", eventID, func(e *model.Event, _ time.Time) error {
		r, err := registration.MarkNoShow(e, identity)
		out = r
		return err
	})
	if err != nil {
		return nil, model.RSVP{}, err
	}
	return e, out, nil
}

// SendAnnouncement appends a broadcast record. Delivery is external.
func (s *EventService) SendAnnouncement(ctx context.Context, eventID string, req model.AnnouncementRequest) (*model.Event, model.Announcement, error) {
	var out model.Announcement
	e, err := s.mutate(ctx, "SendAnnouncement", eventID, func(e *model.Event, now time.Time) error {
		a, err := registration.SendAnnouncement(e, model.Announcement{
			Title:         req.Title,
			Message:       req.Message,
			SentBy:        req.SentBy,
			RecipientType: req.RecipientType,
		}, now)
		out = a
		return err
	})
	if err != nil {
		return nil, model.Announcement{}, err
	}
	s.log.Info("Announcement recorded",
		zap.String("event_id", eventID),
		zap.String("announcement_id", out.ID),
		zap.String("recipient_type", string(out.RecipientType)))
	return e, out, nil
}

// Recipients lists the RSVPs an announcement targets.
func (s *EventService) Recipients(ctx context.Context, eventID, announcementID string) ([]model.RSVP, error) {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	a, ok := e.FindAnnouncement(announcementID)
	if !ok {
		return nil, apperr.NotFound("recipients", "announcement %s not found", announcementID)
	}
	return registration.Recipients(e, a.RecipientType), nil
}

// UpdateEvent applies organizer edits. Shrinking maxAttendees below the
// current attendee count is allowed; nobody is demoted, new sign-ups go to
// the waitlist until seats free up.
func (s *EventService) UpdateEvent(ctx context.Context, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
	return s.mutate(ctx, "UpdateEvent", eventID, func(e *model.Event, now time.Time) error {
		prev := e.Registration.MaxAttendees
		req.Apply(e)
		if grew(prev, e.Registration.MaxAttendees) {
			if promoted := registration.PromoteWaitlist(e, now); len(promoted) > 0 {
				s.log.Info("Waitlist promoted after capacity change",
					zap.String("event_id", eventID),
					zap.Int("promoted", len(promoted)))
			}
		}
		return nil
	})
}

func grew(prev, next *int) bool {
	switch {
	case next == nil:
		return prev != nil
	case prev == nil:
		return false
	default:
		return *next > *prev
	}
}

// UpdateStatus moves the event through its lifecycle.
func (s *EventService) UpdateStatus(ctx context.Context, eventID string, status model.EventStatus) (*model.Event, error) {
	e, err := s.mutate(ctx, "UpdateStatus", eventID, func(e *model.Event, _ time.Time) error {
		return e.TransitionTo(status)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Event status changed",
		zap.String("event_id", eventID),
		zap.String("status", string(e.Status)))
	return e, nil
}

// UpdateBudget replaces the budget inputs; profitLoss is recomputed on save.
func (s *EventService) UpdateBudget(ctx context.Context, eventID string, req model.BudgetRequest) (*model.Event, error) {
	return s.mutate(ctx, "UpdateBudget", eventID, func(e *model.Event, _ time.Time) error {
		e.Budget.EstimatedCost = req.EstimatedCost
		e.Budget.ActualCost = req.ActualCost
		e.Budget.Revenue = req.Revenue
		return nil
	})
}

// RecordView bumps the view counters.
func (s *EventService) RecordView(ctx context.Context, eventID string, unique bool) (*model.Event, error) {
	return s.mutate(ctx, "RecordView", eventID, func(e *model.Event, _ time.Time) error {
		e.Analytics.Views++
		if unique {
			e.Analytics.UniqueViews++
		}
		return nil
	})
}

// Summary returns per-event attendance metrics.
func (s *EventService) Summary(ctx context.Context, eventID string) (analytics.EventSummary, error) {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return analytics.EventSummary{}, err
	}
	return analytics.Summarize(e), nil
}

// Quote prices a registration for the event at the current time.
func (s *EventService) Quote(ctx context.Context, eventID string, isMember bool, groupSize int) (policy.PriceQuote, error) {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return policy.PriceQuote{}, err
	}
	return policy.Quote(e, isMember, groupSize, s.now()), nil
}

// IsRegistrationOpen reports whether the event currently accepts sign-ups.
func (s *EventService) IsRegistrationOpen(ctx context.Context, eventID string) (bool, error) {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	return policy.IsRegistrationOpen(e, s.now()), nil
}
