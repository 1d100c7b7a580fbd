package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
)

func TestGate_Resolve_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAccount(t, "alice", "longpassword1", models.RoleUser)

	res, err := env.auth.Login(ctx, "alice", "longpassword1")
	require.NoError(t, err)

	env.clock.Advance(DefaultSessionTTL - time.Nanosecond)
	ident, err := env.gate.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", ident.Username)
	assert.True(t, res.ExpiresAt.Equal(ident.ExpiresAt))

	env.clock.Advance(time.Nanosecond)
	_, err = env.gate.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = env.repo.FindSession(ctx, res.Token)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGate_Resolve_RoleComesFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ident, token := env.loginAs(t, "kohai", models.RoleUser)
	assert.False(t, ident.IsAdmin())

	admin := models.RoleAdmin
	_, err := env.repo.UpdateAccount(ctx, ident.AccountID, models.AccountPatch{Role: &admin})
	require.NoError(t, err)

	ident, err = env.gate.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, ident.IsAdmin())
}

func TestGate_Resolve_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.gate.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthorize(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	user := &Identity{AccountID: self, Role: models.RoleUser}
	admin := &Identity{AccountID: self, Role: models.RoleAdmin}

	tests := []struct {
		name  string
		ident *Identity
		act   Action
		want  error
	}{
		{"user edits own profile", user, Action{Capability: CapabilitySelfService, Target: self}, nil},
		{"user changes own role", user, Action{Capability: CapabilitySelfService, Target: self, ChangesRole: true}, ErrUnauthorized},
		{"user edits another account", user, Action{Capability: CapabilitySelfService, Target: other}, ErrUnauthorized},
		{"user admin-only on self", user, Action{Capability: CapabilityAdminOnly, Target: self}, ErrUnauthorized},
		{"user admin-only", user, Action{Capability: CapabilityAdminOnly}, ErrUnauthorized},
		{"admin changes another role", admin, Action{Capability: CapabilitySelfService, Target: other, ChangesRole: true}, nil},
		{"admin changes own role", admin, Action{Capability: CapabilitySelfService, Target: self, ChangesRole: true}, nil},
		{"admin admin-only", admin, Action{Capability: CapabilityAdminOnly, Target: other}, nil},
		{"no identity", nil, Action{Capability: CapabilitySelfService, Target: self}, ErrNoSession},
		{"unknown role", &Identity{AccountID: self, Role: "root"}, Action{Capability: CapabilityAdminOnly}, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.ident, tt.act)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
