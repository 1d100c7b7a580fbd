package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

// ReplaceSession drops every session of the account and stores the new token,
// so an account holds at most one session after it commits.
func (r *GormRepo) ReplaceSession(ctx context.Context, token string, accountID uuid.UUID, expiresAt time.Time) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		s := models.Session{
			TokenHash: sha256Hex(token),
			AccountID: accountID,
			ExpiresAt: expiresAt.Unix(),
		}
		return tx.Create(&s).Error
	})
	if err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (r *GormRepo) FindSession(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := r.DB.WithContext(ctx).Where("token_hash = ?", sha256Hex(token)).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormRepo) DeleteSession(ctx context.Context, token string) error {
	if err := r.DB.WithContext(ctx).Where("token_hash = ?", sha256Hex(token)).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *GormRepo) DeleteSessionsByAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete account sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions whose expiry is at or before now.
func (r *GormRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at <= ?", now.Unix()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
