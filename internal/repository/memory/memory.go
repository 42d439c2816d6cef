// Package memory is an in-process EventStore. It backs tests and the
// "memory" store driver.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
)

// Store keeps deep copies of event documents keyed by id.
type Store struct {
	mu     sync.RWMutex
	events map[string]*model.Event
}

var _ repository.EventStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{events: make(map[string]*model.Event)}
}

func (s *Store) Create(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("create %s: %w", e.ID, repository.ErrAlreadyExists)
	}
	e.Version = 1
	s.events[e.ID] = e.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *Store) Save(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.events[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != e.Version {
		return repository.ErrVersionConflict
	}
	e.Version++
	s.events[e.ID] = e.Clone()
	return nil
}

func (s *Store) Find(_ context.Context, f repository.Filter) ([]*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Event, 0, len(s.events))
	for _, e := range s.events {
		if f.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	repository.SortByStart(out)
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
