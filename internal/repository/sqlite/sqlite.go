// Package sqlite stores event documents in an embedded SQLite database.
// It is suitable for single-process deployments and for tests against
// ":memory:".
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

// ErrStoreClosed is returned after Close.
var ErrStoreClosed = errors.New("store is closed")

// EventStore persists event documents to SQLite. Dates are kept as unix
// nanoseconds so range filters compare numerically.
type EventStore struct {
	db     *sql.DB
	log    *zap.Logger
	mu     sync.RWMutex
	closed bool
}

var _ repository.EventStore = (*EventStore)(nil)

// busyTimeoutMillis is how long a connection waits on a lock held by
// another process before failing with SQLITE_BUSY.
const busyTimeoutMillis = 5000

// Open creates a store at path, creating the schema if needed. Writes are
// serialized inside the process; busy_timeout covers other processes.
func Open(path string, log *zap.Logger) (*EventStore, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id           TEXT PRIMARY KEY,
			version      INTEGER NOT NULL,
			status       TEXT NOT NULL,
			visibility   TEXT NOT NULL,
			category     TEXT NOT NULL DEFAULT '',
			organizer_id TEXT NOT NULL,
			start_ns     INTEGER NOT NULL,
			end_ns       INTEGER NOT NULL,
			doc          BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_status_start
		ON events(status, start_ns)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &EventStore{db: db, log: log}, nil
}

func (s *EventStore) Create(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	e.Version = 1
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, version, status, visibility, category, organizer_id, start_ns, end_ns, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Version, string(e.Status), string(e.Visibility), e.Category, e.Organizer.Primary,
		e.StartDate.UnixNano(), e.EndDate.UnixNano(), doc,
	)
	if err != nil {
		var n int
		if qerr := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = ?`, e.ID).Scan(&n); qerr == nil && n > 0 {
			return fmt.Errorf("create %s: %w", e.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var version int64
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT version, doc FROM events WHERE id = ?`, id).Scan(&version, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return decode(doc, version)
}

func (s *EventStore) Save(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	next := *e
	next.Version = e.Version + 1
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET version = ?, status = ?, visibility = ?, category = ?, organizer_id = ?,
		    start_ns = ?, end_ns = ?, doc = ?
		WHERE id = ? AND version = ?`,
		next.Version, string(e.Status), string(e.Visibility), e.Category, e.Organizer.Primary,
		e.StartDate.UnixNano(), e.EndDate.UnixNano(), doc,
		e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = ?`, e.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check event: %w", err)
		}
		if exists == 0 {
			return repository.ErrNotFound
		}
		s.log.Debug("stale event write", zap.String("event_id", e.ID))
		return repository.ErrVersionConflict
	}
	e.Version = next.Version
	return nil
}

func (s *EventStore) Find(ctx context.Context, f repository.Filter) ([]*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	where, args := buildWhere(f)
	rows, err := s.db.QueryContext(ctx, `SELECT version, doc FROM events`+where+` ORDER BY start_ns ASC, id ASC`, args...)
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

func buildWhere(f repository.Filter) (string, []any) {
	var conds []string
	var args []any
	in := func(col string, vals []string) {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(vals)), ",")
		conds = append(conds, col+" IN ("+marks+")")
		for _, v := range vals {
			args = append(args, v)
		}
	}

	if len(f.Statuses) > 0 {
		in("status", repository.StatusStrings(f.Statuses))
	}
	if len(f.Visibilities) > 0 {
		in("visibility", repository.VisibilityStrings(f.Visibilities))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.StartFrom != nil {
		conds = append(conds, "start_ns >= ?")
		args = append(args, f.StartFrom.UnixNano())
	}
	if f.StartTo != nil {
		conds = append(conds, "start_ns <= ?")
		args = append(args, f.StartTo.UnixNano())
	}
	if f.EndFrom != nil {
		conds = append(conds, "end_ns >= ?")
		args = append(args, f.EndFrom.UnixNano())
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

func (s *EventStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is idempotent.
func (s *EventStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
