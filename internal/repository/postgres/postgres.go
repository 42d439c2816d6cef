// Package postgres stores event documents in PostgreSQL as JSONB.
// It uses pgx directly (no ORM); indexed columns are denormalised next to
// the document so listing queries can be pushed down.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	version      BIGINT NOT NULL,
	status       TEXT NOT NULL,
	visibility   TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	organizer_id TEXT NOT NULL,
	start_date   TIMESTAMPTZ NOT NULL,
	end_date     TIMESTAMPTZ NOT NULL,
	doc          JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_status_start ON events (status, start_date);
CREATE INDEX IF NOT EXISTS idx_events_category ON events (category);
`

const uniqueViolation = "23505"

// EventStore handles persistence for event documents.
type EventStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

var _ repository.EventStore = (*EventStore)(nil)

// NewEventStore constructs an EventStore.
func NewEventStore(db *pgxpool.Pool, log *zap.Logger) *EventStore {
	return &EventStore{db: db, log: log}
}

// InitSchema creates the events table if it does not exist.
func (s *EventStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Create inserts a new event document at version 1.
func (s *EventStore) Create(ctx context.Context, e *model.Event) error {
	e.Version = 1
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO events (id, version, status, visibility, category, organizer_id,
		                     start_date, end_date, doc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.Version, string(e.Status), string(e.Visibility), e.Category, e.Organizer.Primary,
		e.StartDate, e.EndDate, doc, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("create %s: %w", e.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Get returns a single event or repository.ErrNotFound.
func (s *EventStore) Get(ctx context.Context, id string) (*model.Event, error) {
	var doc []byte
	var version int64
	err := s.db.QueryRow(ctx,
		`SELECT version, doc FROM events WHERE id = $1`,
		id,
	).Scan(&version, &doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return decode(doc, version)
}

// Save writes the document back under optimistic concurrency control.
//
// ─────────────────────────────────────────────────────────────────────────────
// WHY A VERSION CHECK
// ─────────────────────────────────────────────────────────────────────────────
//
// Registration is a read-modify-write of the whole document:
//
//	request A: load event (v7, 9 attending of 10)
//	request B: load event (v7, 9 attending of 10)
//	request A: capacity OK → append RSVP → save
//	request B: capacity OK → append RSVP → save
//	Result: 11 attending for a 10-seat event.
//
// The UPDATE only matches while the stored version is still the one the
// caller loaded. B's write matches zero rows, B gets ErrVersionConflict,
// reloads v8 and re-runs the capacity check against fresh counts.
// ─────────────────────────────────────────────────────────────────────────────
func (s *EventStore) Save(ctx context.Context, e *model.Event) error {
	next := *e
	next.Version = e.Version + 1
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE events
		 SET version = $3, status = $4, visibility = $5, category = $6, organizer_id = $7,
		     start_date = $8, end_date = $9, doc = $10, updated_at = $11
		 WHERE id = $1 AND version = $2`,
		e.ID, e.Version, next.Version, string(e.Status), string(e.Visibility), e.Category, e.Organizer.Primary,
		e.StartDate, e.EndDate, doc, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missOrConflict(ctx, e.ID)
	}
	e.Version = next.Version
	return nil
}

func (s *EventStore) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	s.log.Debug("stale event write", zap.String("event_id", id))
	return repository.ErrVersionConflict
}

// Find returns events matching f ordered by start date ascending.
func (s *EventStore) Find(ctx context.Context, f repository.Filter) ([]*model.Event, error) {
	where, args := buildWhere(f)
	query := `SELECT version, doc FROM events` + where + ` ORDER BY start_date ASC, id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var version int64
		var doc []byte
		if err := rows.Scan(&version, &doc); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := decode(doc, version)
		if err != nil {
			return nil, err
		}
		if f.Matches(e) {
			events = append(events, e)
		}
	}
	return events, rows.Err()
}

// buildWhere pushes the indexed parts of f down to SQL. Organizer and tag
// filters are finished in Go by Filter.Matches.
func buildWhere(f repository.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", repository.StatusStrings(f.Statuses))
	}
	if len(f.Visibilities) > 0 {
		add("visibility = ANY($%d)", repository.VisibilityStrings(f.Visibilities))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.StartFrom != nil {
		add("start_date >= $%d", *f.StartFrom)
	}
	if f.StartTo != nil {
		add("start_date <= $%d", *f.StartTo)
	}
	if f.EndFrom != nil {
		add("end_date >= $%d", *f.EndFrom)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func decode(doc []byte, version int64) (*model.Event, error) {
	var e model.Event
	if err := json.Unmarshal(doc, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	e.Version = version
	return &e, nil
}

// Ping checks the pool.
func (s *EventStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller.
func (s *EventStore) Close() error {
	return nil
}
