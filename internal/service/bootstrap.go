package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

// Bootstrap creates the first administrator when the account table is empty.
// It runs once at startup and is a no-op on any later run.
func Bootstrap(ctx context.Context, accounts AccountStore, hasher PasswordHasher, username, password string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "bootstrap")

	if password == "" {
		l.Info("bootstrap_skipped", "reason", "no bootstrap password configured")
		return false, nil
	}

	n, err := accounts.CountAccounts(ctx)
	if err != nil {
		return false, storeErr("count accounts", err)
	}
	if n > 0 {
		return false, nil
	}

	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	if err := ValidatePassword(password); err != nil {
		return false, err
	}

	pwHash, err := hasher.HashPassword(password)
	if err != nil {
		return false, storeErr("hash password", err)
	}
	acc := &models.Account{Username: username, Role: models.RoleAdmin}
	if err := accounts.CreateAccount(ctx, acc, pwHash); err != nil {
		err = mapRepoErr("create account", err)
		if errors.Is(err, ErrConflict) {
			// another instance won the race
			return false, nil
		}
		return false, err
	}

	l.Info("bootstrap_admin_created", "account_id", acc.ID, "username", acc.Username)
	return true, nil
}
