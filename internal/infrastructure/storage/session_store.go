package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"userhub-client/internal/domain/user"
	"userhub-client/internal/logger"
)

const (
	userKey  = "user"
	tokenKey = "authToken"
)

// SessionStore maps a user.Session onto two storage items: the session JSON
// under "user" and the bearer token under "authToken".
type SessionStore struct {
	storage Storage
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

var _ user.SessionStore = (*SessionStore)(nil)

// Load returns user.ErrNoSession unless both items are present. The token
// item wins over any token embedded in the user blob.
func (s *SessionStore) Load(ctx context.Context) (*user.Session, error) {
	blob, ok, err := s.storage.GetItem(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if !ok || blob == "" {
		return nil, user.ErrNoSession
	}

	token, ok, err := s.storage.GetItem(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, user.ErrNoSession
	}

	var session user.Session
	if err := json.Unmarshal([]byte(blob), &session); err != nil {
		logger.Warn("Stored session is unreadable",
			zap.Error(err),
			zap.String("event", "session_corrupt"),
		)
		return nil, fmt.Errorf("%w: %v", user.ErrSessionCorrupt, err)
	}
	session.AccessToken = token

	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *user.Session) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.storage.SetItem(ctx, userKey, string(blob)); err != nil {
		return err
	}
	return s.storage.SetItem(ctx, tokenKey, session.AccessToken)
}

// Clear removes both items; it is safe to call without a stored session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, userKey); err != nil {
		return err
	}
	return s.storage.RemoveItem(ctx, tokenKey)
}
