package excavations

import (
	"context"

	"gorm.io/gorm"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

var searchColumns = []string{"name", "postcode", "duration", "description"}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, excavation *entities.Excavation) error {
	return database.Translate(r.db.WithContext(ctx).Create(excavation).Error)
}

func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*entities.Excavation, error) {
	var excavation entities.Excavation
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&excavation).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &excavation, nil
}

// Search lists excavations newest first, optionally filtered by q.
func (r *Repository) Search(ctx context.Context, q database.ListQuery) ([]entities.Excavation, int64, error) {
	q = q.Normalize()

	query := r.db.WithContext(ctx).Model(&entities.Excavation{})
	if q.Q != "" {
		clause, args := database.LikeClause(q.Q, searchColumns...)
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	excavations := make([]entities.Excavation, 0, q.Limit)
	err := query.Order("created_at DESC, id DESC").Limit(q.Limit).Offset(q.Offset).Find(&excavations).Error
	if err != nil {
		return nil, 0, err
	}
	return excavations, total, nil
}

// Update applies fields to the excavation. Ownership is checked by the caller.
func (r *Repository) Update(ctx context.Context, excavation *entities.Excavation, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(excavation).Updates(fields).Error
	if err != nil {
		return database.Translate(err)
	}
	return database.Translate(r.db.WithContext(ctx).First(excavation, excavation.ID).Error)
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Excavation{}, id)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
