package model

import (
	"strings"
	"time"
)

// CreateEventRequest is the payload for creating a new event. New events
// always start in draft.
type CreateEventRequest struct {
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	StartDate            time.Time            `json:"startDate"`
	EndDate              time.Time            `json:"endDate"`
	Timezone             string               `json:"timezone"`
	IsAllDay             bool                 `json:"isAllDay"`
	Location             Location             `json:"location"`
	Category             string               `json:"category"`
	EventType            string               `json:"eventType"`
	Tags                 []string             `json:"tags"`
	RequiresRegistration *bool                `json:"requiresRegistration"`
	Registration         RegistrationSettings `json:"registrationSettings"`
	Pricing              Pricing              `json:"pricing"`
	Visibility           Visibility           `json:"visibility"`
	PublishDate          *time.Time           `json:"publishDate"`
	Organizer            Organizer            `json:"organizer"`
	Budget               Budget               `json:"budget"`
}

// UpdateEventRequest carries organizer edits. Nil fields are left
// unchanged; status, budget and RSVPs have their own commands.
type UpdateEventRequest struct {
	Title                *string               `json:"title"`
	Description          *string               `json:"description"`
	StartDate            *time.Time            `json:"startDate"`
	EndDate              *time.Time            `json:"endDate"`
	Timezone             *string               `json:"timezone"`
	IsAllDay             *bool                 `json:"isAllDay"`
	Location             *Location             `json:"location"`
	Category             *string               `json:"category"`
	EventType            *string               `json:"eventType"`
	Tags                 []string              `json:"tags"`
	RequiresRegistration *bool                 `json:"requiresRegistration"`
	Registration         *RegistrationSettings `json:"registrationSettings"`
	Pricing              *Pricing              `json:"pricing"`
	Visibility           *Visibility           `json:"visibility"`
	PublishDate          *time.Time            `json:"publishDate"`
	Organizer            *Organizer            `json:"organizer"`
}

// Apply copies the set fields onto e.
func (r UpdateEventRequest) Apply(e *Event) {
	if r.Title != nil {
		e.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		e.Description = strings.TrimSpace(*r.Description)
	}
	if r.StartDate != nil {
		e.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		e.EndDate = *r.EndDate
	}
	if r.Timezone != nil {
		e.Timezone = *r.Timezone
	}
	if r.IsAllDay != nil {
		e.IsAllDay = *r.IsAllDay
	}
	if r.Location != nil {
		e.Location = *r.Location
	}
	if r.Category != nil {
		e.Category = strings.TrimSpace(*r.Category)
	}
	if r.EventType != nil {
		e.EventType = *r.EventType
	}
	if r.Tags != nil {
		e.Tags = r.Tags
	}
	if r.RequiresRegistration != nil {
		e.RequiresRegistration = *r.RequiresRegistration
	}
	if r.Registration != nil {
		e.Registration = *r.Registration
	}
	if r.Pricing != nil {
		e.Pricing = *r.Pricing
	}
	if r.Visibility != nil {
		e.Visibility = *r.Visibility
	}
	if r.PublishDate != nil {
		e.PublishDate = r.PublishDate
	}
	if r.Organizer != nil {
		e.Organizer = *r.Organizer
	}
}

// RSVPRequest is the payload for the raw upsert and for registration.
type RSVPRequest struct {
	Identity      Identity      `json:"identity"`
	Status        RSVPStatus    `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TicketType    string        `json:"ticketType"`
	Companions    int           `json:"companions"`
	Notes         string        `json:"notes"`
}

// IdentityRequest addresses an existing RSVP.
type IdentityRequest struct {
	Identity Identity `json:"identity"`
}

// UpdateRSVPRequest changes the status of an existing RSVP.
type UpdateRSVPRequest struct {
	Identity Identity   `json:"identity"`
	Status   RSVPStatus `json:"status"`
}

// StatusRequest changes the event lifecycle status.
type StatusRequest struct {
	Status EventStatus `json:"status"`
}

// AnnouncementRequest is the payload for broadcasting to RSVPs.
type AnnouncementRequest struct {
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	SentBy        string        `json:"sentBy"`
	RecipientType RecipientType `json:"recipientType"`
}

// BudgetRequest replaces the budget inputs; profitLoss is always derived.
type BudgetRequest struct {
	EstimatedCost *float64 `json:"estimatedCost"`
	ActualCost    *float64 `json:"actualCost"`
	Revenue       *float64 `json:"revenue"`
}

// ViewRequest records one page view.
type ViewRequest struct {
	Unique bool `json:"unique"`
}

// EventView is the API representation: the document plus derived counts.
type EventView struct {
	*Event
	AttendeeCount int `json:"attendeeCount"`
	WaitlistCount int `json:"waitlistCount"`
}

// NewEventView wraps e with its derived counts.
func NewEventView(e *Event) EventView {
	return EventView{Event: e, AttendeeCount: e.AttendeeCount(), WaitlistCount: e.WaitlistCount()}
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

// FieldIssue mirrors apperr.FieldError on the wire.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
