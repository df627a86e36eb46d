package thumbnails

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

func (r *Repository) Create(ctx context.Context, thumb *entities.Thumbnail) error {
	return database.Translate(r.db.WithContext(ctx).Create(thumb).Error)
}

func (r *Repository) GetByFilename(ctx context.Context, filename string) (*entities.Thumbnail, error) {
	var thumb entities.Thumbnail
	err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&thumb).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &thumb, nil
}

// FindOrphans returns thumbnails created before olderThan that no profile
// or excavation references.
func (r *Repository) FindOrphans(ctx context.Context, olderThan time.Time, limit int) ([]entities.Thumbnail, error) {
	if limit <= 0 {
		limit = 100
	}
	db := r.db.WithContext(ctx)
	var orphans []entities.Thumbnail
	err := db.
		Where("created_at < ?", olderThan).
		Where("filename NOT IN (?)", db.Model(&entities.ArchaeologistProfile{}).Select("thumbnail").Where("thumbnail <> ''")).
		Where("filename NOT IN (?)", db.Model(&entities.CompanyProfile{}).Select("thumbnail").Where("thumbnail <> ''")).
		Where("filename NOT IN (?)", db.Model(&entities.Excavation{}).Select("thumbnail").Where("thumbnail <> ''")).
		Order("created_at ASC").
		Limit(limit).
		Find(&orphans).Error
	return orphans, err
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return database.Translate(r.db.WithContext(ctx).Delete(&entities.Thumbnail{}, id).Error)
}
