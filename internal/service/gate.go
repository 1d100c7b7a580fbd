package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/metrics"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
)

type Capability string

const (
	// CapabilitySelfService lets an account act on its own record, except its role.
	CapabilitySelfService Capability = "self_service"
	CapabilityAdminOnly   Capability = "admin_only"
)

// Action describes what a privileged operation is about to do.
type Action struct {
	Capability  Capability
	Target      uuid.UUID
	ChangesRole bool
}

// Identity is a session re-resolved against the store. The role is never taken from the client.
type Identity struct {
	AccountID uuid.UUID
	Username  string
	Role      models.Role
	ExpiresAt time.Time
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// Gate is the single checkpoint between a session token and a privileged operation.
type Gate struct {
	Accounts AccountStore
	Sessions SessionStore
	Now      func() time.Time
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Resolve looks up the session for token. Expired sessions are deleted on discovery.
func (g *Gate) Resolve(ctx context.Context, token string) (*Identity, error) {
	l := logging.FromContext(ctx).With("svc", "gate.resolve")

	if token == "" {
		metrics.RecordGateDecision("resolve", metrics.DecisionNoSession)
		return nil, ErrNoSession
	}

	sess, err := g.Sessions.FindSession(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.RecordGateDecision("resolve", metrics.DecisionInvalid)
			return nil, ErrSessionInvalid
		}
		return nil, storeErr("find session", err)
	}

	if !g.now().Before(sess.Expiry()) {
		if err := g.Sessions.DeleteSession(ctx, token); err != nil {
			l.Error("expired_session_delete_failed", "account_id", sess.AccountID, "error", err)
		} else {
			metrics.RecordPurge("lazy", 1)
		}
		metrics.RecordGateDecision("resolve", metrics.DecisionExpired)
		return nil, ErrSessionExpired
	}

	acc, err := g.Accounts.FindAccountByID(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = g.Sessions.DeleteSession(ctx, token)
			metrics.RecordGateDecision("resolve", metrics.DecisionInvalid)
			return nil, ErrSessionInvalid
		}
		return nil, storeErr("find account", err)
	}

	return &Identity{
		AccountID: acc.ID,
		Username:  acc.Username,
		Role:      acc.Role,
		ExpiresAt: sess.Expiry(),
	}, nil
}

// Authorize allows admins everything. Other accounts pass only self-service
// actions on their own record that leave the role untouched.
func Authorize(ident *Identity, act Action) error {
	if ident == nil {
		metrics.RecordGateDecision(string(act.Capability), metrics.DecisionNoSession)
		return ErrNoSession
	}
	if ident.IsAdmin() {
		metrics.RecordGateDecision(string(act.Capability), metrics.DecisionAllowed)
		return nil
	}
	if act.Capability == CapabilitySelfService && act.Target == ident.AccountID && !act.ChangesRole {
		metrics.RecordGateDecision(string(act.Capability), metrics.DecisionAllowed)
		return nil
	}
	metrics.RecordGateDecision(string(act.Capability), metrics.DecisionDenied)
	return ErrUnauthorized
}
