package profiles

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

const (
	archaeologistTable = "archaeologist_profiles"
	companyTable       = "company_profiles"
)

var (
	archaeologistSearchColumns = []string{
		archaeologistTable + ".first_name",
		archaeologistTable + ".last_name",
		archaeologistTable + ".city",
		archaeologistTable + ".specialism",
		archaeologistTable + ".description",
	}
	companySearchColumns = []string{
		companyTable + ".name",
		companyTable + ".city",
		companyTable + ".description",
	}
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SearchArchaeologists(ctx context.Context, q database.ListQuery) ([]entities.ArchaeologistProfile, int64, error) {
	return search[entities.ArchaeologistProfile](ctx, r.db, archaeologistTable, archaeologistSearchColumns, q,
		archaeologistTable+".last_name, "+archaeologistTable+".first_name")
}

func (r *Repository) SearchCompanies(ctx context.Context, q database.ListQuery) ([]entities.CompanyProfile, int64, error) {
	return search[entities.CompanyProfile](ctx, r.db, companyTable, companySearchColumns, q, companyTable+".name")
}

// GetArchaeologist looks a profile up by its account's public id.
func (r *Repository) GetArchaeologist(ctx context.Context, accountPublicID string) (*entities.ArchaeologistProfile, error) {
	return get[entities.ArchaeologistProfile](ctx, r.db, archaeologistTable, accountPublicID)
}

func (r *Repository) GetCompany(ctx context.Context, accountPublicID string) (*entities.CompanyProfile, error) {
	return get[entities.CompanyProfile](ctx, r.db, companyTable, accountPublicID)
}

// UpdateArchaeologist applies fields to the account's profile, creating
// the profile first if the account registered without one.
func (r *Repository) UpdateArchaeologist(ctx context.Context, accountID uint, fields map[string]any) error {
	return upsert(ctx, r.db, accountID, &entities.ArchaeologistProfile{
		AccountID:     accountID,
		SchemaVersion: entities.CurrentProfileSchema,
	}, fields)
}

func (r *Repository) UpdateCompany(ctx context.Context, accountID uint, fields map[string]any) error {
	return upsert(ctx, r.db, accountID, &entities.CompanyProfile{
		AccountID:     accountID,
		SchemaVersion: entities.CurrentProfileSchema,
	}, fields)
}

func withAccounts(db *gorm.DB, table string) *gorm.DB {
	return db.Table(table).Joins("JOIN accounts ON accounts.id = " + table + ".account_id")
}

func selectJoined(table string) string {
	return table + ".*, accounts.public_id AS account_public_id, accounts.email AS account_email"
}

func search[T any](ctx context.Context, db *gorm.DB, table string, columns []string, q database.ListQuery, order string) ([]T, int64, error) {
	q = q.Normalize()

	filtered := func() *gorm.DB {
		tx := withAccounts(db.WithContext(ctx), table)
		if q.Q != "" {
			clause, args := database.LikeClause(q.Q, columns...)
			tx = tx.Where(clause, args...)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0, q.Limit)
	err := filtered().
		Select(selectJoined(table)).
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func get[T any](ctx context.Context, db *gorm.DB, table, accountPublicID string) (*T, error) {
	var row T
	result := withAccounts(db.WithContext(ctx), table).
		Select(selectJoined(table)).
		Where("accounts.public_id = ?", accountPublicID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return &row, nil
}

func upsert[T any](ctx context.Context, db *gorm.DB, accountID uint, blank *T, fields map[string]any) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Where("account_id = ?", accountID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing = *blank
			if err := tx.Create(&existing).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&existing).Updates(fields).Error
	})
	return database.Translate(err)
}
