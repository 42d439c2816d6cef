package discovery

import (
	"context"
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

// Field weights for relevance scoring.
const (
	weightTitle       = 3
	weightTag         = 2
	weightCategory    = 2
	weightDescription = 1
)

// Result is one ranked search hit.
type Result struct {
	Event *model.Event `json:"event"`
	Score int          `json:"score"`
}

// SearchEvents ranks events against a free-text query. Extra filters are
// merged in; when they name no statuses only published events are
// searched, and private events are never returned. Events that match no
// query term are dropped. An empty query returns filter matches with
// score 0 in start-date order.
func (s *Service) SearchEvents(ctx context.Context, query string, filter repository.Filter) ([]Result, error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = []model.EventStatus{model.StatusPublished}
	}
	vis, ok := restrictListed(filter.Visibilities)
	if !ok {
		return []Result{}, nil
	}
	filter.Visibilities = vis

	events, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storage("search events", err)
	}

	terms := tokenize(query)
	results := make([]Result, 0, len(events))
	for _, e := range events {
		score := Score(e, terms)
		if len(terms) > 0 && score == 0 {
			continue
		}
		results = append(results, Result{Event: e, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Event.StartDate.Before(results[j].Event.StartDate)
	})
	return results, nil
}

// Score sums the weights of the fields each term appears in.
func Score(e *model.Event, terms []string) int {
	title := strings.ToLower(e.Title)
	desc := strings.ToLower(e.Description)
	category := strings.ToLower(e.Category)

	score := 0
	for _, t := range terms {
		if strings.Contains(title, t) {
			score += weightTitle
		}
		if strings.Contains(category, t) {
			score += weightCategory
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), t) {
				score += weightTag
				break
			}
		}
		if strings.Contains(desc, t) {
			score += weightDescription
		}
	}
	return score
}

func tokenize(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// restrictListed drops private from the requested visibilities, defaulting
// to every listed visibility. ok is false when only private was asked for.
func restrictListed(v []model.Visibility) ([]model.Visibility, bool) {
	if len(v) == 0 {
		return listed, true
	}
	var out []model.Visibility
	for _, x := range v {
		if x != model.VisibilityPrivate {
			out = append(out, x)
		}
	}
	return out, len(out) > 0
}
