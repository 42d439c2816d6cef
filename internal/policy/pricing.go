package policy

import (
	"math"
	"time"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

// PriceQuote is the computed price for one registration.
type PriceQuote struct {
	UnitPrice       float64 `json:"unitPrice"`
	GroupSize       int     `json:"groupSize"`
	EarlyBird       bool    `json:"earlyBird"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountReason  string  `json:"discountReason,omitempty"`
	Total           float64 `json:"total"`
}

// Quote prices a registration of groupSize people. Early-bird pricing
// applies up to and including its deadline. Member and group discounts do
// not stack; the larger one wins.
func Quote(e *model.Event, isMember bool, groupSize int, now time.Time) PriceQuote {
	if groupSize < 1 {
		groupSize = 1
	}
	q := PriceQuote{GroupSize: groupSize}
	p := e.Pricing
	if p.IsFree {
		return q
	}

	q.UnitPrice = p.BasePrice
	if p.EarlyBirdPrice != nil && p.EarlyBirdDeadline != nil && !now.After(*p.EarlyBirdDeadline) {
		q.UnitPrice = *p.EarlyBirdPrice
		q.EarlyBird = true
	}

	if isMember && p.MemberDiscount > q.DiscountPercent {
		q.DiscountPercent = p.MemberDiscount
		q.DiscountReason = "member"
	}
	for _, g := range p.GroupDiscounts {
		if groupSize >= g.MinSize && g.DiscountPercent > q.DiscountPercent {
			q.DiscountPercent = g.DiscountPercent
			q.DiscountReason = "group"
		}
	}

	gross := q.UnitPrice * float64(groupSize)
	q.Total = roundCents(gross * (1 - q.DiscountPercent/100))
	return q
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
