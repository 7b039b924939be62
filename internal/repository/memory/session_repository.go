package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds per-browser UI state (transcripts, media workspaces,
// auth state) keyed by client id. Entries idle for an hour are dropped.
type SessionRepository[T any] struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionRepository[T any]() *SessionRepository[T] {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	return &SessionRepository[T]{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *SessionRepository[T]) Save(clientID string, state *T) {
	r.cache.Set(clientID, state, cache.DefaultExpiration)
}

func (r *SessionRepository[T]) Get(clientID string) (*T, bool) {
	if x, found := r.cache.Get(clientID); found {
		// refresh the sliding expiry
		r.cache.Set(clientID, x, cache.DefaultExpiration)
		return x.(*T), true
	}
	return nil, false
}

// GetOrCreate returns the state for clientID, creating it with create() once.
func (r *SessionRepository[T]) GetOrCreate(clientID string, create func() *T) *T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.Get(clientID); ok {
		return state
	}
	state := create()
	r.Save(clientID, state)
	return state
}

func (r *SessionRepository[T]) Delete(clientID string) {
	r.cache.Delete(clientID)
}
