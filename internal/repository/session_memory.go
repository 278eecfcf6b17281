package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps live wizard sessions of type T keyed by session ID.
// Entries expire after ttl of inactivity; Touch renews it.
type SessionStore[T any] struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a store; ttl <= 0 keeps sessions until deleted.
func NewSessionStore[T any](ttl time.Duration) *SessionStore[T] {
	var cleanup time.Duration
	if ttl <= 0 {
		ttl = cache.NoExpiration
	} else {
		cleanup = ttl
	}

	return &SessionStore[T]{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

func (r *SessionStore[T]) Create(_ context.Context, id string, session T) error {
	if err := r.cache.Add(id, session, r.ttl); err != nil {
		return fmt.Errorf("add session %s: %w", id, err)
	}
	return nil
}

func (r *SessionStore[T]) Get(_ context.Context, id string) (T, error) {
	value, ok := r.cache.Get(id)
	if !ok {
		var zero T
		return zero, entity.ErrSessionNotFound
	}
	return value.(T), nil
}

// Touch renews the expiration of an existing session. A session deleted
// concurrently stays deleted.
func (r *SessionStore[T]) Touch(_ context.Context, id string) error {
	value, ok := r.cache.Get(id)
	if !ok {
		return entity.ErrSessionNotFound
	}
	if err := r.cache.Replace(id, value, r.ttl); err != nil {
		return entity.ErrSessionNotFound
	}
	return nil
}

func (r *SessionStore[T]) Delete(_ context.Context, id string) error {
	if _, ok := r.cache.Get(id); !ok {
		return entity.ErrSessionNotFound
	}
	r.cache.Delete(id)
	return nil
}

func (r *SessionStore[T]) Count() int {
	return r.cache.ItemCount()
}
