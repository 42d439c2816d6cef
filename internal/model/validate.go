package model

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
)

type fieldErrors = apperr.FieldErrors

const maxTitleLength = 200

// Validate checks every field constraint and document invariant. The
// returned error is an *apperr.Error of kind validation listing all failures.
func (e *Event) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(e.Title) == "" {
		errs.Add("title", "is required")
	} else if len(e.Title) > maxTitleLength {
		errs.Add("title", "cannot exceed %d characters", maxTitleLength)
	}
	if e.StartDate.IsZero() {
		errs.Add("startDate", "is required")
	}
	if e.EndDate.IsZero() {
		errs.Add("endDate", "is required")
	} else if e.EndDate.Before(e.StartDate) {
		errs.Add("endDate", "must not be before startDate")
	}
	if !e.Status.Valid() {
		errs.Add("status", "invalid value %q", e.Status)
	}
	if !e.Visibility.Valid() {
		errs.Add("visibility", "invalid value %q", e.Visibility)
	}
	if strings.TrimSpace(e.Organizer.Primary) == "" {
		errs.Add("organizer.primary", "is required")
	}

	e.validateLocation(&errs)
	e.validateRegistration(&errs)
	e.validatePricing(&errs)
	e.validateBudget(&errs)
	e.validateRSVPs(&errs)

	for i, a := range e.Announcements {
		if !a.RecipientType.Valid() {
			errs.Add(fmt.Sprintf("announcements[%d].recipientType", i), "invalid value %q", a.RecipientType)
		}
	}

	return errs.Err("validate event")
}

func (e *Event) validateLocation(errs *fieldErrors) {
	loc := e.Location
	needVenue, needOnline := false, false
	switch loc.Type {
	case LocationPhysical:
		needVenue = true
	case LocationVirtual:
		needOnline = true
	case LocationHybrid:
		needVenue, needOnline = true, true
	default:
		errs.Add("location.type", "invalid value %q", loc.Type)
		return
	}
	if needVenue && (loc.Venue == nil || strings.TrimSpace(loc.Venue.Name) == "") {
		errs.Add("location.venue.name", "is required for %s events", loc.Type)
	}
	if needOnline && (loc.Online == nil || strings.TrimSpace(loc.Online.URL) == "") {
		errs.Add("location.online.url", "is required for %s events", loc.Type)
	}
}

func (e *Event) validateRegistration(errs *fieldErrors) {
	rs := e.Registration
	if rs.MaxAttendees != nil && *rs.MaxAttendees < 1 {
		errs.Add("registrationSettings.maxAttendees", "must be at least 1")
	}
	if rs.OpenDate != nil && rs.CloseDate != nil && rs.CloseDate.Before(*rs.OpenDate) {
		errs.Add("registrationSettings.closeDate", "must not be before openDate")
	}
}

func (e *Event) validatePricing(errs *fieldErrors) {
	p := e.Pricing
	if p.BasePrice < 0 {
		errs.Add("pricing.basePrice", "must not be negative")
	}
	if p.EarlyBirdPrice != nil && *p.EarlyBirdPrice < 0 {
		errs.Add("pricing.earlyBirdPrice", "must not be negative")
	}
	if p.MemberDiscount < 0 || p.MemberDiscount > 100 {
		errs.Add("pricing.memberDiscount", "must be between 0 and 100")
	}
	for i, g := range p.GroupDiscounts {
		if g.MinSize < 2 {
			errs.Add(fmt.Sprintf("pricing.groupDiscounts[%d].minSize", i), "must be at least 2")
		}
		if g.DiscountPercent < 0 || g.DiscountPercent > 100 {
			errs.Add(fmt.Sprintf("pricing.groupDiscounts[%d].discountPercent", i), "must be between 0 and 100")
		}
	}
}

func (e *Event) validateBudget(errs *fieldErrors) {
	check := func(name string, v *float64) {
		if v != nil && *v < 0 {
			errs.Add("budget."+name, "must not be negative")
		}
	}
	check("estimatedCost", e.Budget.EstimatedCost)
	check("actualCost", e.Budget.ActualCost)
	check("revenue", e.Budget.Revenue)
}

func (e *Event) validateRSVPs(errs *fieldErrors) {
	seen := make(map[string]int, len(e.RSVPs))
	for i, r := range e.RSVPs {
		field := fmt.Sprintf("rsvps[%d]", i)
		r.validate(field, errs)
		key := r.Identity.Key()
		if key == "" {
			continue
		}
		if j, dup := seen[key]; dup {
			errs.Add(field+".identity", "conflicts with rsvps[%d]", j)
			continue
		}
		seen[key] = i
	}
}
