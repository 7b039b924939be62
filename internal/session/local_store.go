package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/contract"
	"medichat-web/pkg/medapi"

	"github.com/google/uuid"
)

const (
	SessionIDKey = "chat_session_id"
	ProfileKey   = "user_profile"
)

// LocalStore is the per-browser persistent key/value storage. When the
// backing repository fails for a browser, that browser's storage stays in
// no-op mode for the process lifetime. Other browsers are unaffected.
type LocalStore struct {
	repo   contract.KeyValueRepository
	logger logger.ILogger
	// client id -> struct{}
	degraded sync.Map
}

func NewLocalStore(repo contract.KeyValueRepository, log logger.ILogger) *LocalStore {
	return &LocalStore{repo: repo, logger: log}
}

func storageKey(clientID, name string) string {
	return clientID + ":" + name
}

func (s *LocalStore) Degraded(clientID string) bool {
	_, ok := s.degraded.Load(clientID)
	return ok
}

// fail treats err as "absent" for this call. A cancelled or expired request
// context says nothing about the store, so it never latches.
func (s *LocalStore) fail(clientID, op string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if _, loaded := s.degraded.LoadOrStore(clientID, struct{}{}); !loaded {
		s.logger.Warn("LocalStore", "Storage unavailable, continuing without persistence", map[string]interface{}{
			"client_id": clientID,
			"op":        op,
			"error":     err,
		})
	}
}

func (s *LocalStore) get(ctx context.Context, clientID, name string) (string, bool) {
	if s.Degraded(clientID) {
		return "", false
	}
	v, ok, err := s.repo.Get(ctx, storageKey(clientID, name))
	if err != nil {
		s.fail(clientID, "get", err)
		return "", false
	}
	return v, ok
}

func (s *LocalStore) set(ctx context.Context, clientID, name, value string) {
	if s.Degraded(clientID) {
		return
	}
	if err := s.repo.Set(ctx, storageKey(clientID, name), value); err != nil {
		s.fail(clientID, "set", err)
	}
}

func (s *LocalStore) remove(ctx context.Context, clientID, name string) {
	if s.Degraded(clientID) {
		return
	}
	if err := s.repo.Delete(ctx, storageKey(clientID, name)); err != nil {
		s.fail(clientID, "delete", err)
	}
}

// GetSessionID returns the stored chat session id, minting and persisting a
// new one when absent. The result is never empty.
func (s *LocalStore) GetSessionID(ctx context.Context, clientID string) string {
	if id, ok := s.get(ctx, clientID, SessionIDKey); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	s.set(ctx, clientID, SessionIDKey, id)
	return id
}

// EnsureSessionID re-persists current when the stored id went missing and
// returns the id now in effect.
func (s *LocalStore) EnsureSessionID(ctx context.Context, clientID, current string) string {
	if id, ok := s.get(ctx, clientID, SessionIDKey); ok && id != "" {
		return id
	}
	if current == "" {
		current = uuid.NewString()
	}
	s.set(ctx, clientID, SessionIDKey, current)
	return current
}

func (s *LocalStore) GetCachedProfile(ctx context.Context, clientID string) (medapi.Profile, bool) {
	raw, ok := s.get(ctx, clientID, ProfileKey)
	if !ok {
		return nil, false
	}
	var profile medapi.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil || profile == nil {
		s.remove(ctx, clientID, ProfileKey)
		return nil, false
	}
	return profile, true
}

func (s *LocalStore) SetCachedProfile(ctx context.Context, clientID string, profile medapi.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		s.logger.Error("LocalStore", "Failed to encode profile", map[string]interface{}{"error": err})
		return
	}
	s.set(ctx, clientID, ProfileKey, string(raw))
}

func (s *LocalStore) ClearProfile(ctx context.Context, clientID string) {
	s.remove(ctx, clientID, ProfileKey)
}
