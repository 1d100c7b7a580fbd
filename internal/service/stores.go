package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
)

// AccountStore is the credential store. repo.GormRepo implements it.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *models.Account, passwordHash string) error
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	PasswordHash(ctx context.Context, accountID uuid.UUID) (string, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context, page, size int) ([]models.Account, int64, error)
	CountAccounts(ctx context.Context) (int64, error)
}

type SessionStore interface {
	ReplaceSession(ctx context.Context, token string, accountID uuid.UUID, expiresAt time.Time) error
	FindSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsByAccount(ctx context.Context, accountID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type ScheduleStore interface {
	ListSchedules(ctx context.Context) ([]models.TrainingSchedule, error)
	CreateSchedule(ctx context.Context, s *models.TrainingSchedule) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, patch models.SchedulePatch) (*models.TrainingSchedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher is satisfied by *hash.Hasher.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

// mapRepoErr turns repository sentinels into service sentinels.
func mapRepoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrUsernameTaken):
		return ErrConflict
	default:
		return storeErr(op, err)
	}
}
