// Package service implements the write path and orchestration between HTTP
// handlers and the event store: load the document, apply the command,
// validate, and save it back under optimistic concurrency control.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

var tracer = otel.Tracer("github.com/Shivanand-hulikatti/ngo-events/internal/service")

// Defaults for the optimistic concurrency retry loop.
const (
	DefaultMaxRetries = 5
	DefaultBackoff    = 10 * time.Millisecond
)

// EventService orchestrates event and registration commands.
type EventService struct {
	store      repository.EventStore
	log        *zap.Logger
	now        func() time.Time
	maxRetries int
	backoff    time.Duration
}

// Option customises an EventService.
type Option func(*EventService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *EventService) { s.now = now }
}

// WithRetry sets how many save attempts a command makes on version
// conflicts and the base backoff between them.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(s *EventService) {
		if maxAttempts > 0 {
			s.maxRetries = maxAttempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(store repository.EventStore, log *zap.Logger, opts ...Option) *EventService {
	s := &EventService{
		store:      store,
		log:        log,
		now:        time.Now,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent validates the request and stores a new draft event.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	ctx, span := tracer.Start(ctx, "EventService.CreateEvent")
	defer span.End()

	now := s.now().UTC()
	title := strings.TrimSpace(req.Title)
	requires := true
	if req.RequiresRegistration != nil {
		requires = *req.RequiresRegistration
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	e := &model.Event{
		ID:                   uuid.New().String(),
		Slug:                 slug.Make(title),
		Title:                title,
		Description:          strings.TrimSpace(req.Description),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Timezone:             req.Timezone,
		IsAllDay:             req.IsAllDay,
		Location:             req.Location,
		Category:             strings.TrimSpace(req.Category),
		EventType:            req.EventType,
		Tags:                 req.Tags,
		RequiresRegistration: requires,
		Registration:         req.Registration,
		Pricing:              req.Pricing,
		Status:               model.StatusDraft,
		Visibility:           visibility,
		PublishDate:          req.PublishDate,
		Organizer:            req.Organizer,
		Budget:               req.Budget,
		CreatedAt:            now,
	}
	e.ApplyAutoPublish(now)
	e.Normalize(now)
	if err := e.Validate(); err != nil {
		s.log.Warn("Event validation failed",
			zap.String("title", title),
			zap.Int("field_errors", len(apperr.FieldsOf(err))))
		return nil, endSpan(span, err)
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, endSpan(span, apperr.Storage("create event", err))
	}
	span.SetAttributes(attribute.String("event.id", e.ID))
	s.log.Info("Event created",
		zap.String("event_id", e.ID),
		zap.String("slug", e.Slug),
		zap.String("status", string(e.Status)))
	return e, nil
}

// GetEvent returns a single event by id.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperr.Validation("get event", apperr.FieldError{Field: "id", Message: "is required"})
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError("get event", id, err)
	}
	return e, nil
}

// mutate runs one read-modify-write cycle on an event document. Auto
// publish is applied before fn, derived fields are recomputed and the whole
// document is validated after it. A version conflict reloads the event and
// reruns fn, so fn must only depend on the event it is given.
func (s *EventService) mutate(ctx context.Context, op, id string, fn func(e *model.Event, now time.Time) error) (*model.Event, error) {
	ctx, span := tracer.Start(ctx, "EventService."+op, trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		e, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, endSpan(span, storeError(op, id, err))
		}

		now := s.now().UTC()
		if e.ApplyAutoPublish(now) {
			s.log.Info("Event auto-published", zap.String("event_id", id))
		}
		if err := fn(e, now); err != nil {
			return nil, endSpan(span, err)
		}
		e.Normalize(now)
		if err := e.Validate(); err != nil {
			return nil, endSpan(span, err)
		}

		err = s.store.Save(ctx, e)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return e, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, endSpan(span, storeError(op, id, err))
		}

		lastErr = err
		s.log.Debug("Event version conflict, retrying",
			zap.String("op", op),
			zap.String("event_id", id),
			zap.Int("attempt", attempt))
		if err := s.wait(ctx, attempt); err != nil {
			return nil, endSpan(span, err)
		}
	}

	s.log.Warn("Event update gave up after conflicts",
		zap.String("op", op),
		zap.String("event_id", id),
		zap.Int("attempts", s.maxRetries))
	return nil, endSpan(span, apperr.Conflict(op, lastErr))
}

func (s *EventService) wait(ctx context.Context, attempt int) error {
	if s.backoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.backoff * time.Duration(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func storeError(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(op, "event %s not found", id)
	}
	return apperr.Storage(op, fmt.Errorf("event %s: %w", id, err))
}

func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
