// Package memory provides in-memory Store implementations (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/clerkdesk/compliance-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store implements engine.EntityStore and engine.TaskStore with copy-on-read
// slices so callers never share backing arrays with the store.
type Store struct {
	mu       sync.RWMutex
	entities []engine.LegalEntity
	tasks    []engine.Task
}

func New() *Store {
	return &Store{}
}

// ListEntities returns a copy of the stored entity list.
func (s *Store) ListEntities(_ context.Context) ([]engine.LegalEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.LegalEntity, len(s.entities))
	copy(out, s.entities)
	return out, nil
}

// SaveEntities replaces the stored entity list.
func (s *Store) SaveEntities(_ context.Context, entities []engine.LegalEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = make([]engine.LegalEntity, len(entities))
	copy(s.entities, entities)
	return nil
}

// ListTasks returns a copy of the stored task list.
func (s *Store) ListTasks(_ context.Context) ([]engine.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// SaveTasks replaces the stored task list.
func (s *Store) SaveTasks(_ context.Context, tasks []engine.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]engine.Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}

var (
	_ engine.EntityStore = (*Store)(nil)
	_ engine.TaskStore   = (*Store)(nil)
)
