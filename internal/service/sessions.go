package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/metrics"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	tokenBytes        = 32
)

type SessionIssuer struct {
	Store SessionStore
	TTL   time.Duration
	Now   func() time.Time
}

type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

func (s *SessionIssuer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionIssuer) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue replaces every session of the account with a fresh one.
func (s *SessionIssuer) Issue(ctx context.Context, accountID uuid.UUID) (*IssuedSession, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Unix(s.now().Add(s.ttl()).Unix(), 0).UTC()

	if err := s.Store.ReplaceSession(ctx, token, accountID, expiresAt); err != nil {
		return nil, storeErr("issue session", err)
	}
	return &IssuedSession{Token: token, ExpiresAt: expiresAt}, nil
}

// Revoke deletes the session for token. Unknown or empty tokens are not an error.
func (s *SessionIssuer) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Store.DeleteSession(ctx, token); err != nil {
		return storeErr("revoke session", err)
	}
	return nil
}

func (s *SessionIssuer) RevokeAll(ctx context.Context, accountID uuid.UUID) error {
	if err := s.Store.DeleteSessionsByAccount(ctx, accountID); err != nil {
		return storeErr("revoke account sessions", err)
	}
	return nil
}

func (s *SessionIssuer) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.Store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, storeErr("purge sessions", err)
	}
	metrics.RecordPurge("scheduled", n)
	return n, nil
}
