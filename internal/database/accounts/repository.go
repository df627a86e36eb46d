package accounts

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the account together with any attached profile.
// A taken email surfaces as database.ErrDuplicate from the unique index.
func (r *Repository) Create(ctx context.Context, account *entities.Account) error {
	return database.Translate(r.db.WithContext(ctx).Create(account).Error)
}

// GetByEmail matches the email exactly as stored.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &account, nil
}

func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&account).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &account, nil
}

// GetWithProfile loads the account and the profile matching its kind.
func (r *Repository) GetWithProfile(ctx context.Context, email string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).
		Preload("Archaeologist").
		Preload("Company").
		Where("email = ?", email).
		First(&account).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	if p := account.Archaeologist; p != nil {
		p.AccountPublicID, p.AccountEmail = account.PublicID, account.Email
	}
	if p := account.Company; p != nil {
		p.AccountPublicID, p.AccountEmail = account.PublicID, account.Email
	}
	return &account, nil
}

// RecordLoginFailure bumps the failure counter and, once maxAttempts is
// reached, locks the account until lockUntil. Returns the new count.
func (r *Repository) RecordLoginFailure(ctx context.Context, id uint, maxAttempts int, lockUntil time.Time) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account entities.Account
		if err := tx.Select("id", "failed_login_count").First(&account, id).Error; err != nil {
			return err
		}
		count = account.FailedLoginCount + 1
		updates := map[string]any{"failed_login_count": count}
		if maxAttempts > 0 && count >= maxAttempts {
			updates["locked_until"] = lockUntil
			updates["failed_login_count"] = 0
		}
		return tx.Model(&entities.Account{}).Where("id = ?", id).Updates(updates).Error
	})
	return count, database.Translate(err)
}

// RecordLoginSuccess clears lockout state and stamps the login time.
func (r *Repository) RecordLoginSuccess(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
	return database.Translate(err)
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes the account, its profile and its excavations in one
// transaction. Thumbnail rows are orphaned and collected by the cleanup task.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&entities.ArchaeologistProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&entities.CompanyProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&entities.Excavation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Thumbnail{}).Where("owner_id = ?", id).Update("owner_id", 0).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Account{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return database.Translate(err)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Account{}).Count(&count).Error
	return count, err
}
