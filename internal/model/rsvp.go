package model

import "time"

// RSVPStatus is an identity's attendance intent.
type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not-attending"
	RSVPMaybe        RSVPStatus = "maybe"
	RSVPWaitlist     RSVPStatus = "waitlist"
)

// Valid reports whether s is a known RSVP status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPAttending, RSVPNotAttending, RSVPMaybe, RSVPWaitlist:
		return true
	}
	return false
}

// CheckInStatus is orthogonal to RSVPStatus but only meaningful while the
// record is attending. The empty value means unset.
type CheckInStatus string

const (
	CheckInUnset CheckInStatus = ""
	CheckedIn    CheckInStatus = "checked-in"
	NoShow       CheckInStatus = "no-show"
)

// Valid reports whether c is unset or a known check-in status.
func (c CheckInStatus) Valid() bool {
	return c == CheckInUnset || c == CheckedIn || c == NoShow
}

type PaymentStatus string

const (
	PaymentNone     PaymentStatus = ""
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentWaived   PaymentStatus = "waived"
)

// Valid reports whether p is unset or a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentNone, PaymentPending, PaymentPaid, PaymentRefunded, PaymentWaived:
		return true
	}
	return false
}

// MaxCompanions bounds the extra guests one identity may bring.
const MaxCompanions = 10

// RSVP is one identity's response to an event.
//
// Allowed (Status, CheckInStatus) combinations:
//
//	attending                     x {unset, checked-in, no-show}
//	maybe, not-attending, waitlist x {unset}
type RSVP struct {
	Identity         Identity      `json:"identity" bson:"identity"`
	Status           RSVPStatus    `json:"status" bson:"status"`
	ResponseDate     time.Time     `json:"responseDate" bson:"responseDate"`
	PaymentStatus    PaymentStatus `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	TicketType       string        `json:"ticketType,omitempty" bson:"ticketType,omitempty"`
	CheckInStatus    CheckInStatus `json:"checkInStatus,omitempty" bson:"checkInStatus,omitempty"`
	CheckInTime      *time.Time    `json:"checkInTime,omitempty" bson:"checkInTime,omitempty"`
	Companions       int           `json:"companions" bson:"companions"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty"`
	ConfirmationCode string        `json:"confirmationCode" bson:"confirmationCode"`
}

// ClearCheckIn resets the check-in sub-state.
func (r *RSVP) ClearCheckIn() {
	r.CheckInStatus = CheckInUnset
	r.CheckInTime = nil
}

func (r RSVP) clone() RSVP {
	if r.Identity.Guest != nil {
		g := *r.Identity.Guest
		r.Identity.Guest = &g
	}
	r.CheckInTime = copyTime(r.CheckInTime)
	return r
}

// FindRSVP returns the index of the record matching id, or -1.
func (e *Event) FindRSVP(id Identity) int {
	for i := range e.RSVPs {
		if e.RSVPs[i].Identity.Equals(id) {
			return i
		}
	}
	return -1
}

func (r RSVP) validate(field string, errs *fieldErrors) {
	r.Identity.validate(field+".identity", errs)
	if !r.Status.Valid() {
		errs.Add(field+".status", "invalid value %q", r.Status)
	}
	if !r.PaymentStatus.Valid() {
		errs.Add(field+".paymentStatus", "invalid value %q", r.PaymentStatus)
	}
	if !r.CheckInStatus.Valid() {
		errs.Add(field+".checkInStatus", "invalid value %q", r.CheckInStatus)
	} else if r.CheckInStatus != CheckInUnset && r.Status != RSVPAttending {
		errs.Add(field+".checkInStatus", "only allowed while status is attending")
	}
	if r.CheckInStatus == CheckedIn && r.CheckInTime == nil {
		errs.Add(field+".checkInTime", "is required when checked in")
	}
	if r.Companions < 0 || r.Companions > MaxCompanions {
		errs.Add(field+".companions", "must be between 0 and %d", MaxCompanions)
	}
}
