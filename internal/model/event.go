// Package model defines the core domain types for event registration and
// attendance: the Event document and its embedded RSVPs and announcements.
package model

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusPostponed EventStatus = "postponed"
	StatusCompleted EventStatus = "completed"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusPostponed, StatusCompleted:
		return true
	}
	return false
}

// Visibility controls which listings an event appears in.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityUnlisted || v == VisibilityPrivate
}

// LocationType tags which Location sub-structure is meaningful.
type LocationType string

const (
	LocationPhysical LocationType = "physical"
	LocationVirtual  LocationType = "virtual"
	LocationHybrid   LocationType = "hybrid"
)

// Event is one event document. RSVPs and announcements are embedded and the
// whole document is persisted as a unit, guarded by Version.
type Event struct {
	ID          string `json:"id" bson:"_id"`
	Slug        string `json:"slug" bson:"slug"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`

	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`
	Timezone  string    `json:"timezone,omitempty" bson:"timezone,omitempty"`
	IsAllDay  bool      `json:"isAllDay" bson:"isAllDay"`

	Location Location `json:"location" bson:"location"`

	Category  string   `json:"category" bson:"category"`
	EventType string   `json:"eventType,omitempty" bson:"eventType,omitempty"`
	Tags      []string `json:"tags,omitempty" bson:"tags,omitempty"`

	RequiresRegistration bool                 `json:"requiresRegistration" bson:"requiresRegistration"`
	Registration         RegistrationSettings `json:"registrationSettings" bson:"registrationSettings"`
	Pricing              Pricing              `json:"pricing" bson:"pricing"`

	Status      EventStatus `json:"status" bson:"status"`
	Visibility  Visibility  `json:"visibility" bson:"visibility"`
	PublishDate *time.Time  `json:"publishDate,omitempty" bson:"publishDate,omitempty"`

	Organizer Organizer `json:"organizer" bson:"organizer"`

	RSVPs         []RSVP         `json:"rsvps" bson:"rsvps"`
	Announcements []Announcement `json:"announcements" bson:"announcements"`

	Budget    Budget    `json:"budget" bson:"budget"`
	Analytics Analytics `json:"analytics" bson:"analytics"`

	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Location describes where an event happens. Venue is meaningful for
// physical and hybrid events, Online for virtual and hybrid ones.
type Location struct {
	Type   LocationType `json:"type" bson:"type"`
	Venue  *Venue       `json:"venue,omitempty" bson:"venue,omitempty"`
	Online *Online      `json:"online,omitempty" bson:"online,omitempty"`
}

type Venue struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

type Online struct {
	Platform string `json:"platform,omitempty" bson:"platform,omitempty"`
	URL      string `json:"url" bson:"url"`
}

// RegistrationSettings bound who may register and when.
// A nil MaxAttendees means unlimited capacity.
type RegistrationSettings struct {
	OpenDate        *time.Time `json:"openDate,omitempty" bson:"openDate,omitempty"`
	CloseDate       *time.Time `json:"closeDate,omitempty" bson:"closeDate,omitempty"`
	MaxAttendees    *int       `json:"maxAttendees,omitempty" bson:"maxAttendees,omitempty"`
	AllowWaitlist   bool       `json:"allowWaitlist" bson:"allowWaitlist"`
	RequireApproval bool       `json:"requireApproval" bson:"requireApproval"`
}

// Pricing is descriptive only; payment processing happens elsewhere.
type Pricing struct {
	IsFree            bool            `json:"isFree" bson:"isFree"`
	BasePrice         float64         `json:"basePrice,omitempty" bson:"basePrice,omitempty"`
	EarlyBirdPrice    *float64        `json:"earlyBirdPrice,omitempty" bson:"earlyBirdPrice,omitempty"`
	EarlyBirdDeadline *time.Time      `json:"earlyBirdDeadline,omitempty" bson:"earlyBirdDeadline,omitempty"`
	MemberDiscount    float64         `json:"memberDiscount,omitempty" bson:"memberDiscount,omitempty"`
	GroupDiscounts    []GroupDiscount `json:"groupDiscounts,omitempty" bson:"groupDiscounts,omitempty"`
}

// GroupDiscount applies DiscountPercent to groups of at least MinSize.
type GroupDiscount struct {
	MinSize         int     `json:"minSize" bson:"minSize"`
	DiscountPercent float64 `json:"discountPercent" bson:"discountPercent"`
}

// Organizer holds opaque account references. Authorization is the caller's job.
type Organizer struct {
	Primary      string   `json:"primary" bson:"primary"`
	CoOrganizers []string `json:"coOrganizers,omitempty" bson:"coOrganizers,omitempty"`
}

// IsOrganizer reports whether id is the primary or a co-organizer.
func (o Organizer) IsOrganizer(id string) bool {
	if id == "" {
		return false
	}
	if o.Primary == id {
		return true
	}
	for _, c := range o.CoOrganizers {
		if c == id {
			return true
		}
	}
	return false
}

// Budget figures. ProfitLoss is derived by Normalize.
type Budget struct {
	EstimatedCost *float64 `json:"estimatedCost,omitempty" bson:"estimatedCost,omitempty"`
	ActualCost    *float64 `json:"actualCost,omitempty" bson:"actualCost,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty" bson:"revenue,omitempty"`
	ProfitLoss    *float64 `json:"profitLoss,omitempty" bson:"profitLoss,omitempty"`
}

// Analytics counters. The rates are derived by Normalize.
type Analytics struct {
	Views            int64   `json:"views" bson:"views"`
	UniqueViews      int64   `json:"uniqueViews" bson:"uniqueViews"`
	RegistrationRate float64 `json:"registrationRate" bson:"registrationRate"`
	AttendanceRate   float64 `json:"attendanceRate" bson:"attendanceRate"`
}

// RecipientType selects the RSVP subset an announcement targets.
type RecipientType string

const (
	RecipientsAll          RecipientType = "all"
	RecipientsAttending    RecipientType = "attending"
	RecipientsNotAttending RecipientType = "not-attending"
	RecipientsWaitlist     RecipientType = "waitlist"
)

// Valid reports whether r is a known recipient type.
func (r RecipientType) Valid() bool {
	switch r {
	case RecipientsAll, RecipientsAttending, RecipientsNotAttending, RecipientsWaitlist:
		return true
	}
	return false
}

// Announcement is a broadcast record. Delivery is done by an external
// notifier that reads Event.Announcements.
type Announcement struct {
	ID            string        `json:"id" bson:"id"`
	Title         string        `json:"title" bson:"title"`
	Message       string        `json:"message" bson:"message"`
	SentAt        time.Time     `json:"sentAt" bson:"sentAt"`
	SentBy        string        `json:"sentBy" bson:"sentBy"`
	RecipientType RecipientType `json:"recipientType" bson:"recipientType"`
}

// FindAnnouncement returns the announcement with the given id.
func (e *Event) FindAnnouncement(id string) (Announcement, bool) {
	for _, a := range e.Announcements {
		if a.ID == id {
			return a, true
		}
	}
	return Announcement{}, false
}

// Capacity returns maxAttendees and whether it is set.
func (e *Event) Capacity() (int, bool) {
	if e.Registration.MaxAttendees == nil {
		return 0, false
	}
	return *e.Registration.MaxAttendees, true
}

// AttendeeCount is the number of RSVPs with status attending. Never stored.
func (e *Event) AttendeeCount() int {
	return e.countStatus(RSVPAttending)
}

// WaitlistCount is the number of RSVPs with status waitlist. Never stored.
func (e *Event) WaitlistCount() int {
	return e.countStatus(RSVPWaitlist)
}

// CheckedInCount counts attending RSVPs that have checked in.
func (e *Event) CheckedInCount() int {
	n := 0
	for _, r := range e.RSVPs {
		if r.Status == RSVPAttending && r.CheckInStatus == CheckedIn {
			n++
		}
	}
	return n
}

func (e *Event) countStatus(s RSVPStatus) int {
	n := 0
	for _, r := range e.RSVPs {
		if r.Status == s {
			n++
		}
	}
	return n
}

// AttendanceRate is checked-in over attending, as a percentage.
// Returns 0 when nobody is attending.
func (e *Event) AttendanceRate() float64 {
	attending := e.AttendeeCount()
	if attending == 0 {
		return 0
	}
	return float64(e.CheckedInCount()) / float64(attending) * 100
}

// Clone returns a deep copy safe to mutate independently.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	c.Organizer.CoOrganizers = append([]string(nil), e.Organizer.CoOrganizers...)
	c.Pricing.GroupDiscounts = append([]GroupDiscount(nil), e.Pricing.GroupDiscounts...)
	if e.Location.Venue != nil {
		v := *e.Location.Venue
		c.Location.Venue = &v
	}
	if e.Location.Online != nil {
		o := *e.Location.Online
		c.Location.Online = &o
	}
	if e.Registration.MaxAttendees != nil {
		m := *e.Registration.MaxAttendees
		c.Registration.MaxAttendees = &m
	}
	c.PublishDate = copyTime(e.PublishDate)
	c.Registration.OpenDate = copyTime(e.Registration.OpenDate)
	c.Registration.CloseDate = copyTime(e.Registration.CloseDate)
	c.Pricing.EarlyBirdPrice = copyFloat(e.Pricing.EarlyBirdPrice)
	c.Pricing.EarlyBirdDeadline = copyTime(e.Pricing.EarlyBirdDeadline)
	c.RSVPs = make([]RSVP, len(e.RSVPs))
	for i, r := range e.RSVPs {
		c.RSVPs[i] = r.clone()
	}
	c.Announcements = append([]Announcement(nil), e.Announcements...)
	c.Budget = Budget{
		EstimatedCost: copyFloat(e.Budget.EstimatedCost),
		ActualCost:    copyFloat(e.Budget.ActualCost),
		Revenue:       copyFloat(e.Budget.Revenue),
		ProfitLoss:    copyFloat(e.Budget.ProfitLoss),
	}
	return &c
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
