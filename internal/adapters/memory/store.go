// Package memory provides the default in-process status store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/radiofm/stagehand/internal/status"
)

// Store implements status.Store with a mutex-guarded snapshot. It is
// the right choice for single-replica deployments where the dashboard
// and the bot share one process tree.
type Store struct {
	mu        sync.RWMutex
	snapshot  status.Snapshot
	maxErrors int
}

// Option configures the store.
type Option func(*Store)

// WithErrorHistory bounds the retained error list.
func WithErrorHistory(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxErrors = n
		}
	}
}

// New creates a store seeded with a fresh snapshot.
func New(now time.Time, opts ...Option) *Store {
	s := &Store{
		snapshot:  status.NewSnapshot(now),
		maxErrors: 50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the current snapshot.
func (s *Store) Get(ctx context.Context) (status.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Errors = append([]status.Error(nil), s.snapshot.Errors...)
	return snap, nil
}

// Update applies fn under the write lock.
func (s *Store) Update(ctx context.Context, fn func(*status.Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snapshot)
	return nil
}

// RecordError appends to the bounded error history and tracks the most
// recent message.
func (s *Store) RecordError(ctx context.Context, at time.Time, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Errors = append(s.snapshot.Errors, status.Error{Time: at, Message: msg})
	if len(s.snapshot.Errors) > s.maxErrors {
		s.snapshot.Errors = s.snapshot.Errors[len(s.snapshot.Errors)-s.maxErrors:]
	}
	s.snapshot.LastError = msg
	return nil
}
