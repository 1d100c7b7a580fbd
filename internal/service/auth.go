package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/metrics"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
)

type AuthService struct {
	Accounts AccountStore
	Hasher   PasswordHasher
	Sessions *SessionIssuer
	Gate     *Gate
	Events   Publisher
	Topic    string

	dummyOnce sync.Once
	dummyHash string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *models.Account
}

// dummy returns a real hash to verify against when the username is unknown,
// so both failure paths pay for one bcrypt comparison.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.HashPassword("dojo-unknown-account")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func (s *AuthService) events() events {
	return events{pub: s.Events, topic: s.Topic}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		metrics.RecordLogin(metrics.ResultInvalidRequest)
		return nil, validationf("username and password required")
	}

	// No stored account can match: usernames are validated on create and
	// bcrypt compares only the first MaxPasswordLen bytes.
	if ValidateUsername(username) != nil || len(password) > MaxPasswordLen {
		s.Hasher.CheckPassword(s.dummy(), password)
		metrics.RecordLogin(metrics.ResultInvalidCredentials)
		l.Warn("login_failed", "status", 401, "reason", "malformed credentials")
		return nil, ErrInvalidCredentials
	}

	acc, err := s.Accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Hasher.CheckPassword(s.dummy(), password)
			metrics.RecordLogin(metrics.ResultInvalidCredentials)
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		metrics.RecordLogin(metrics.ResultError)
		l.Error("login_failed", "status", 500, "error", err)
		return nil, storeErr("find account", err)
	}

	l = l.With("account_id", acc.ID)

	pwHash, err := s.Accounts.PasswordHash(ctx, acc.ID)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		s.Hasher.CheckPassword(s.dummy(), password)
		metrics.RecordLogin(metrics.ResultInvalidCredentials)
		l.Warn("login_failed", "status", 401, "reason", "no credential")
		return nil, ErrInvalidCredentials
	default:
		metrics.RecordLogin(metrics.ResultError)
		l.Error("login_failed", "status", 500, "error", err)
		return nil, storeErr("load credential", err)
	}

	if !s.Hasher.CheckPassword(pwHash, password) {
		metrics.RecordLogin(metrics.ResultInvalidCredentials)
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	issued, err := s.Sessions.Issue(ctx, acc.ID)
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		l.Error("login_failed", "status", 500, "reason", "cannot issue session", "error", err)
		return nil, err
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	s.events().publish(ctx, AccountEvent{
		Type:       EventUserLoggedIn,
		AccountID:  acc.ID.String(),
		Username:   acc.Username,
		Role:       string(acc.Role),
		OccurredAt: time.Now().UTC(),
	})
	l.Info("login_successful", "expires_at", issued.ExpiresAt)

	return &LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, Account: acc}, nil
}

// Logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.Sessions.Revoke(ctx, token); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "status", 500, "error", err)
		return err
	}
	return nil
}

// Verify resolves token and returns the owner's current profile.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.Account, *Identity, error) {
	ident, err := s.Gate.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.Accounts.FindAccountByID(ctx, ident.AccountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrSessionInvalid
		}
		return nil, nil, storeErr("find account", err)
	}
	return acc, ident, nil
}
