// Package repository provides the in-memory user store.
//
// The store owns an ordered collection of users plus an id -> position index.
// A single RWMutex guards both; every exported method is one atomic step.
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/restdemo/userapi/internal/model"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("repository is closed")

// Repository is the in-memory user store.
type Repository struct {
	mu     sync.RWMutex
	users  []*model.User
	index  map[string]int
	ids    IDGenerator
	now    func() time.Time
	closed bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDGenerator overrides the default sequential id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Repository) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an empty Repository.
func New(opts ...Option) *Repository {
	r := &Repository{
		users: make([]*model.User, 0, 16),
		index: make(map[string]int),
		ids:   NewSequentialIDGenerator(DefaultIDPrefix),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping reports whether the store can serve requests.
func (r *Repository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// Close discards all records. Subsequent calls fail with ErrClosed.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	r.index = nil
	r.closed = true
	return nil
}

// Len returns the number of stored users.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// checkReady must be called with the lock held.
func (r *Repository) checkReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.closed {
		return ErrClosed
	}
	return nil
}
