package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
	"github.com/Skotchmaster/dojo_backoffice/internal/util"
)

// CreateAccount inserts the account and its credential in one transaction.
func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account, passwordHash string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("username = ?", acc.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Omit("Credential", "Sessions").Create(acc).Error; err != nil {
			return err
		}
		cred := models.Credential{AccountID: acc.ID, PasswordHash: passwordHash}
		return tx.Create(&cred).Error
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) || isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&acc).Error; err != nil {
		return nil, notFound(err)
	}
	return &acc, nil
}

func (r *GormRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, notFound(err)
	}
	return &acc, nil
}

func (r *GormRepo) PasswordHash(ctx context.Context, accountID uuid.UUID) (string, error) {
	var cred models.Credential
	if err := r.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&cred).Error; err != nil {
		return "", notFound(err)
	}
	return cred.PasswordHash, nil
}

func (r *GormRepo) UpdateAccount(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	var acc models.Account
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&acc).Error; err != nil {
			return notFound(err)
		}

		if patch.Username != nil && *patch.Username != acc.Username {
			var count int64
			if err := tx.Model(&models.Account{}).
				Where("username = ? AND id <> ?", *patch.Username, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrUsernameTaken
			}
		}

		if updates := accountUpdates(patch); len(updates) > 0 {
			if err := tx.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.PasswordHash != nil {
			res := tx.Model(&models.Credential{}).
				Where("account_id = ?", id).
				Update("password_hash", *patch.PasswordHash)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				cred := models.Credential{AccountID: id, PasswordHash: *patch.PasswordHash}
				if err := tx.Create(&cred).Error; err != nil {
					return err
				}
			}
		}

		// reload into a zero value; gorm leaves pointer fields untouched on NULL columns
		acc = models.Account{}
		return tx.Where("id = ?", id).First(&acc).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, ErrUsernameTaken) || isUniqueViolation(err):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &acc, nil
}

func accountUpdates(p models.AccountPatch) map[string]any {
	updates := map[string]any{}
	if p.Username != nil {
		updates["username"] = *p.Username
	}
	if p.Role != nil {
		updates["role"] = *p.Role
	}
	if p.IsSubscribed != nil {
		updates["is_subscribed"] = *p.IsSubscribed
	}
	if p.SubscriptionDate.Set {
		updates["subscription_date"] = p.SubscriptionDate.Time
	}
	if p.NextBillDate.Set {
		updates["next_bill_date"] = p.NextBillDate.Time
	}
	return updates
}

// DeleteAccount removes the account together with its sessions and credential.
func (r *GormRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// ListAccounts returns accounts newest first. A page below 1 returns every account.
func (r *GormRepo) ListAccounts(ctx context.Context, page, size int) ([]models.Account, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	q := r.DB.WithContext(ctx).Order("created_at DESC").Order("username ASC")
	if page > 0 {
		offset, limit := util.Page(page, size)
		q = q.Offset(offset).Limit(limit)
	}

	accounts := make([]models.Account, 0)
	if err := q.Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, total, nil
}

func (r *GormRepo) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
