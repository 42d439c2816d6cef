// Package registration implements the commands that mutate an event's
// RSVPs and announcements. Every function works on an in-memory *model.Event;
// loading and saving the document is the caller's job.
//
// Missing or ineligible records are reported as errors, never ignored:
// apperr.ErrNotFound when the identity has no RSVP, apperr.ErrPolicyViolation
// when the rule forbids the change.
package registration

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/policy"
)

// Payload carries the RSVP fields a caller may set.
type Payload struct {
	Status        model.RSVPStatus
	PaymentStatus model.PaymentStatus
	TicketType    string
	Companions    int
	Notes         string
}

func (p Payload) validate(op string) error {
	var errs apperr.FieldErrors
	if !p.Status.Valid() {
		errs.Add("status", "invalid value %q", p.Status)
	}
	if !p.PaymentStatus.Valid() {
		errs.Add("paymentStatus", "invalid value %q", p.PaymentStatus)
	}
	if p.Companions < 0 || p.Companions > model.MaxCompanions {
		errs.Add("companions", "must be between 0 and %d", model.MaxCompanions)
	}
	return errs.Err(op)
}

// AddRSVP upserts the record for identity: an existing record is
// overwritten with payload (last write wins, confirmation code kept),
// otherwise a new record is appended. It does not consult capacity; use
// RequestRegistration for policy-checked sign-ups.
func AddRSVP(e *model.Event, identity model.Identity, p Payload, now time.Time) (model.RSVP, error) {
	const op = "add rsvp"
	identity = identity.Normalized()
	if err := model.ValidateIdentity(identity); err != nil {
		return model.RSVP{}, err
	}
	if err := p.validate(op); err != nil {
		return model.RSVP{}, err
	}

	if i := e.FindRSVP(identity); i >= 0 {
		r := &e.RSVPs[i]
		r.Identity = identity
		r.Status = p.Status
		r.PaymentStatus = p.PaymentStatus
		r.TicketType = p.TicketType
		r.Companions = p.Companions
		r.Notes = p.Notes
		r.ResponseDate = now
		if r.Status != model.RSVPAttending {
			r.ClearCheckIn()
		}
		return *r, nil
	}

	r := model.RSVP{
		Identity:         identity,
		Status:           p.Status,
		ResponseDate:     now,
		PaymentStatus:    p.PaymentStatus,
		TicketType:       p.TicketType,
		Companions:       p.Companions,
		Notes:            p.Notes,
		ConfirmationCode: NewConfirmationCode(),
	}
	e.RSVPs = append(e.RSVPs, r)
	return r, nil
}

// RequestRegistration is the policy-checked sign-up. It rejects closed
// events, and for desired == attending applies the capacity rule: a full
// event overflows to waitlist when allowed, otherwise the request fails.
// Asking for waitlist fails when the event has none. An identity already
// holding the desired status keeps it.
func RequestRegistration(e *model.Event, identity model.Identity, p Payload, now time.Time) (model.RSVP, error) {
	const op = "request registration"
	if p.Status == "" {
		p.Status = model.RSVPAttending
	}
	if !policy.IsRegistrationOpen(e, now) {
		return model.RSVP{}, apperr.Policy(op, "registration is closed")
	}

	i := e.FindRSVP(identity.Normalized())
	if i < 0 || e.RSVPs[i].Status != p.Status {
		status, err := policy.Decide(e, p.Status)
		if err != nil {
			return model.RSVP{}, err
		}
		p.Status = status
	}

	prev := e.AttendeeCount()
	r, err := AddRSVP(e, identity, p, now)
	if err != nil {
		return model.RSVP{}, err
	}
	if e.AttendeeCount() < prev {
		PromoteWaitlist(e, now)
	}
	return r, nil
}

// UpdateRSVP sets the status of an existing record. Moving into attending
// on a full event is rejected rather than waitlisted, and moving into
// waitlist needs the event to allow one. Leaving attending clears check-in
// and may promote the waitlist.
func UpdateRSVP(e *model.Event, identity model.Identity, status model.RSVPStatus, now time.Time) (model.RSVP, error) {
	const op = "update rsvp"
	if !status.Valid() {
		return model.RSVP{}, apperr.Validation(op, apperr.FieldError{Field: "status", Message: "invalid value " + string(status)})
	}
	i := e.FindRSVP(identity.Normalized())
	if i < 0 {
		return model.RSVP{}, apperr.NotFound(op, "no rsvp for %s", identity.Key())
	}

	r := &e.RSVPs[i]
	wasAttending := r.Status == model.RSVPAttending
	if status == model.RSVPAttending && !wasAttending && !policy.CanAcceptMoreAttendees(e) {
		return model.RSVP{}, apperr.Policy(op, "event is fully booked")
	}
	if status == model.RSVPWaitlist && r.Status != model.RSVPWaitlist && !e.Registration.AllowWaitlist {
		return model.RSVP{}, apperr.Policy(op, "event has no waitlist")
	}
	r.Status = status
	r.ResponseDate = now
	if status != model.RSVPAttending {
		r.ClearCheckIn()
	}
	out := *r
	if wasAttending && status != model.RSVPAttending {
		PromoteWaitlist(e, now)
	}
	return out, nil
}

// RemoveRSVP deletes the record for identity and backfills a freed seat
// from the waitlist.
func RemoveRSVP(e *model.Event, identity model.Identity, now time.Time) (model.RSVP, error) {
	i := e.FindRSVP(identity.Normalized())
	if i < 0 {
		return model.RSVP{}, apperr.NotFound("remove rsvp", "no rsvp for %s", identity.Key())
	}
	removed := e.RSVPs[i]
	e.RSVPs = append(e.RSVPs[:i], e.RSVPs[i+1:]...)
	if removed.Status == model.RSVPAttending {
		PromoteWaitlist(e, now)
	}
	return removed, nil
}

// PromoteWaitlist moves waitlisted records to attending, earliest response
// first, while capacity allows. Returns the promoted records.
func PromoteWaitlist(e *model.Event, now time.Time) []model.RSVP {
	var idx []int
	for i, r := range e.RSVPs {
		if r.Status == model.RSVPWaitlist {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return e.RSVPs[idx[a]].ResponseDate.Before(e.RSVPs[idx[b]].ResponseDate)
	})

	var promoted []model.RSVP
	for _, i := range idx {
		if !policy.CanAcceptMoreAttendees(e) {
			break
		}
		e.RSVPs[i].Status = model.RSVPAttending
		e.RSVPs[i].ResponseDate = now
		promoted = append(promoted, e.RSVPs[i])
	}
	return promoted
}

// CheckInAttendee marks an attending identity as present.
func CheckInAttendee(e *model.Event, identity model.Identity, now time.Time) (model.RSVP, error) {
	r, err := eligibleForCheckIn(e, identity, "check in")
	if err != nil {
		return model.RSVP{}, err
	}
	t := now
	r.CheckInStatus = model.CheckedIn
	r.CheckInTime = &t
	return *r, nil
}

// MarkNoShow records that an attending identity did not turn up.
func MarkNoShow(e *model.Event, identity model.Identity) (model.RSVP, error) {
	r, err := eligibleForCheckIn(e, identity, "mark no-show")
	if err != nil {
		return model.RSVP{}, err
	}
	r.CheckInStatus = model.NoShow
	r.CheckInTime = nil
	return *r, nil
}

func eligibleForCheckIn(e *model.Event, identity model.Identity, op string) (*model.RSVP, error) {
	i := e.FindRSVP(identity.Normalized())
	if i < 0 {
		return nil, apperr.NotFound(op, "no rsvp for %s", identity.Key())
	}
	r := &e.RSVPs[i]
	if r.Status != model.RSVPAttending {
		return nil, apperr.Policy(op, "rsvp status is %s, only attending identities can be checked in", r.Status)
	}
	return r, nil
}

// SendAnnouncement validates and appends a broadcast record. Delivery is
// left to whatever reads the announcements list.
func SendAnnouncement(e *model.Event, a model.Announcement, now time.Time) (model.Announcement, error) {
	const op = "send announcement"
	a.Title = strings.TrimSpace(a.Title)
	a.Message = strings.TrimSpace(a.Message)
	if a.RecipientType == "" {
		a.RecipientType = model.RecipientsAll
	}

	var errs apperr.FieldErrors
	if a.Title == "" {
		errs.Add("title", "is required")
	}
	if a.Message == "" {
		errs.Add("message", "is required")
	}
	if strings.TrimSpace(a.SentBy) == "" {
		errs.Add("sentBy", "is required")
	}
	if !a.RecipientType.Valid() {
		errs.Add("recipientType", "invalid value %q", a.RecipientType)
	}
	if err := errs.Err(op); err != nil {
		return model.Announcement{}, err
	}

	a.ID = uuid.New().String()
	a.SentAt = now
	e.Announcements = append(e.Announcements, a)
	return a, nil
}

// Recipients returns the RSVPs an announcement of type rt targets.
// Maybe responses are only reached by "all".
func Recipients(e *model.Event, rt model.RecipientType) []model.RSVP {
	out := []model.RSVP{}
	for _, r := range e.RSVPs {
		switch rt {
		case model.RecipientsAll:
		case model.RecipientsAttending:
			if r.Status != model.RSVPAttending {
				continue
			}
		case model.RecipientsNotAttending:
			if r.Status != model.RSVPNotAttending {
				continue
			}
		case model.RecipientsWaitlist:
			if r.Status != model.RSVPWaitlist {
				continue
			}
		default:
			continue
		}
		out = append(out, r)
	}
	return out
}
