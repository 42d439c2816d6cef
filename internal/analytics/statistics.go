package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

const statisticsCacheKey = "stats:events"

// CategoryCount is one entry of Statistics.TopCategories.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Statistics is the cross-event dashboard aggregate. Fields are computed
// by independent queries and are not a point-in-time snapshot.
type Statistics struct {
	TotalEvents       int             `json:"totalEvents"`
	UpcomingEvents    int             `json:"upcomingEvents"`
	TotalAttendees    int             `json:"totalAttendees"`
	AverageAttendance float64         `json:"averageAttendance"`
	TopCategories     []CategoryCount `json:"topCategories"`
	MonthlyEventCount map[string]int  `json:"monthlyEventCount"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

// Cache stores computed statistics between requests.
type Cache interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Store(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Engine computes statistics over an EventStore.
type Engine struct {
	store repository.EventStore
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewEngine builds an Engine. cache may be nil.
func NewEngine(store repository.EventStore, cache Cache, ttl time.Duration, log *zap.Logger) *Engine {
	return &Engine{store: store, cache: cache, ttl: ttl, log: log}
}

// EventStatistics runs the sub-queries concurrently. A cache failure is
// logged and the statistics are recomputed.
func (en *Engine) EventStatistics(ctx context.Context, now time.Time) (*Statistics, error) {
	if en.cache != nil && en.ttl > 0 {
		var cached Statistics
		hit, err := en.cache.Load(ctx, statisticsCacheKey, &cached)
		if err != nil {
			en.log.Warn("Statistics cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := en.compute(ctx, now)
	if err != nil {
		return nil, err
	}

	if en.cache != nil && en.ttl > 0 {
		if err := en.cache.Store(ctx, statisticsCacheKey, stats, en.ttl); err != nil {
			en.log.Warn("Statistics cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (en *Engine) compute(ctx context.Context, now time.Time) (*Statistics, error) {
	published := []model.EventStatus{model.StatusPublished}
	stats := &Statistics{GeneratedAt: now.UTC()}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		events, err := en.store.Find(ctx, repository.Filter{Statuses: published})
		if err != nil {
			return fmt.Errorf("count published events: %w", err)
		}
		stats.TotalEvents = len(events)
		return nil
	})

	eg.Go(func() error {
		events, err := en.store.Find(ctx, repository.Filter{Statuses: published, StartFrom: &now})
		if err != nil {
			return fmt.Errorf("count upcoming events: %w", err)
		}
		stats.UpcomingEvents = len(events)
		return nil
	})

	eg.Go(func() error {
		events, err := en.store.Find(ctx, repository.Filter{})
		if err != nil {
			return fmt.Errorf("count attendees: %w", err)
		}
		for _, e := range events {
			stats.TotalAttendees += e.AttendeeCount()
		}
		return nil
	})

	eg.Go(func() error {
		events, err := en.store.Find(ctx, repository.Filter{Statuses: published})
		if err != nil {
			return fmt.Errorf("group categories: %w", err)
		}
		stats.TopCategories = topCategories(events)
		return nil
	})

	eg.Go(func() error {
		events, err := en.store.Find(ctx, repository.Filter{Statuses: published})
		if err != nil {
			return fmt.Errorf("group months: %w", err)
		}
		stats.MonthlyEventCount = monthlyCounts(events)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, apperr.Storage("event statistics", err)
	}

	if stats.TotalEvents > 0 {
		stats.AverageAttendance = float64(stats.TotalAttendees) / float64(stats.TotalEvents)
	}
	return stats, nil
}

func topCategories(events []*model.Event) []CategoryCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Category != "" {
			counts[e.Category]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func monthlyCounts(events []*model.Event) map[string]int {
	out := make(map[string]int)
	for _, e := range events {
		out[e.StartDate.UTC().Format("2006-01")]++
	}
	return out
}
