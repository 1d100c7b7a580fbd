package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/metrics"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

type UserService struct {
	Accounts AccountStore
	Hasher   PasswordHasher
	// Sessions, when set, revokes the target's sessions after a password reset by another account.
	Sessions *SessionIssuer
	Events   Publisher
	Topic    string
}

type NewUser struct {
	Username         string
	Password         string
	Role             string
	IsSubscribed     bool
	SubscriptionDate *time.Time
	NextBillDate     *time.Time
}

type UserUpdate struct {
	Username         *string
	Role             *string
	IsSubscribed     *bool
	SubscriptionDate models.NullableDate
	NextBillDate     models.NullableDate
	Password         *string
}

type UserPage struct {
	Users []models.Account
	Total int64
}

func (s *UserService) events() events {
	return events{pub: s.Events, topic: s.Topic}
}

func (s *UserService) AddUser(ctx context.Context, actor *Identity, in NewUser) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "users.add")

	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly}); err != nil {
		l.Warn("add_user_denied", "status", 403, "error", err)
		return nil, err
	}
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	pwHash, err := s.Hasher.HashPassword(in.Password)
	if err != nil {
		l.Error("add_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, storeErr("hash password", err)
	}

	acc := &models.Account{
		Username:         in.Username,
		Role:             role,
		IsSubscribed:     in.IsSubscribed,
		SubscriptionDate: in.SubscriptionDate,
		NextBillDate:     in.NextBillDate,
	}
	if err := s.Accounts.CreateAccount(ctx, acc, pwHash); err != nil {
		err = mapRepoErr("create account", err)
		if errors.Is(err, ErrConflict) {
			l.Warn("add_user_error", "status", 409, "reason", "username already exists")
		} else {
			l.Error("add_user_error", "status", 500, "error", err)
		}
		return nil, err
	}

	metrics.RecordAccountChange("create")
	s.events().publish(ctx, AccountEvent{
		Type:       EventUserCreated,
		AccountID:  acc.ID.String(),
		Username:   acc.Username,
		Role:       string(acc.Role),
		ActorID:    actor.AccountID.String(),
		OccurredAt: time.Now().UTC(),
	})
	l.Info("add_user_success", "account_id", acc.ID, "role", acc.Role)
	return acc, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *Identity, id uuid.UUID, in UserUpdate) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "target_id", id)

	act := Action{Capability: CapabilitySelfService, Target: id, ChangesRole: in.Role != nil}
	if err := Authorize(actor, act); err != nil {
		l.Warn("update_user_denied", "status", 403, "error", err)
		return nil, err
	}

	patch := models.AccountPatch{
		Username:         in.Username,
		IsSubscribed:     in.IsSubscribed,
		SubscriptionDate: in.SubscriptionDate,
		NextBillDate:     in.NextBillDate,
	}
	if in.Username != nil {
		if err := ValidateUsername(*in.Username); err != nil {
			return nil, err
		}
	}
	if in.Role != nil {
		role, err := ParseRole(*in.Role)
		if err != nil || *in.Role == "" {
			return nil, validationf("role must be %q or %q", models.RoleAdmin, models.RoleUser)
		}
		patch.Role = &role
	}
	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		pwHash, err := s.Hasher.HashPassword(*in.Password)
		if err != nil {
			l.Error("update_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
			return nil, storeErr("hash password", err)
		}
		patch.PasswordHash = &pwHash
	}
	if patch.Empty() {
		return nil, validationf("no fields to update")
	}

	acc, err := s.Accounts.UpdateAccount(ctx, id, patch)
	if err != nil {
		err = mapRepoErr("update account", err)
		switch {
		case errors.Is(err, ErrConflict):
			l.Warn("update_user_error", "status", 409, "reason", "username already exists")
		case errors.Is(err, ErrNotFound):
			l.Warn("update_user_error", "status", 404, "reason", "user not found")
		default:
			l.Error("update_user_error", "status", 500, "error", err)
		}
		return nil, err
	}

	if patch.PasswordHash != nil && actor.AccountID != id && s.Sessions != nil {
		if err := s.Sessions.RevokeAll(ctx, id); err != nil {
			l.Error("update_user_error", "status", 500, "reason", "cannot revoke sessions", "error", err)
			return nil, err
		}
		l.Info("sessions_revoked", "reason", "password reset")
	}

	metrics.RecordAccountChange("update")
	s.events().publish(ctx, AccountEvent{
		Type:       EventUserUpdated,
		AccountID:  acc.ID.String(),
		Username:   acc.Username,
		Role:       string(acc.Role),
		ActorID:    actor.AccountID.String(),
		OccurredAt: time.Now().UTC(),
	})
	l.Info("update_user_success", "password_changed", patch.PasswordHash != nil)
	return acc, nil
}

// DeleteUser removes the account, its credential and all of its sessions.
func (s *UserService) DeleteUser(ctx context.Context, actor *Identity, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "target_id", id)

	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly, Target: id}); err != nil {
		l.Warn("delete_user_denied", "status", 403, "error", err)
		return err
	}

	if err := s.Accounts.DeleteAccount(ctx, id); err != nil {
		err = mapRepoErr("delete account", err)
		if errors.Is(err, ErrNotFound) {
			l.Warn("delete_user_error", "status", 404, "reason", "user not found")
		} else {
			l.Error("delete_user_error", "status", 500, "error", err)
		}
		return err
	}

	metrics.RecordAccountChange("delete")
	s.events().publish(ctx, AccountEvent{
		Type:       EventUserDeleted,
		AccountID:  id.String(),
		ActorID:    actor.AccountID.String(),
		OccurredAt: time.Now().UTC(),
	})
	l.Info("delete_user_success", "actor_id", actor.AccountID)
	return nil
}

// ListUsers returns accounts newest first. page < 1 lists everything.
func (s *UserService) ListUsers(ctx context.Context, actor *Identity, page, size int) (*UserPage, error) {
	if err := Authorize(actor, Action{Capability: CapabilityAdminOnly}); err != nil {
		logging.FromContext(ctx).Warn("list_users_denied", "status", 403, "error", err)
		return nil, err
	}

	users, total, err := s.Accounts.ListAccounts(ctx, page, size)
	if err != nil {
		logging.FromContext(ctx).Error("list_users_error", "status", 500, "error", err)
		return nil, storeErr("list accounts", err)
	}
	return &UserPage{Users: users, Total: total}, nil
}
