package excavations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/ids"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func TestRepository_CreateGetUpdateDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	excavation := &entities.Excavation{PublicID: ids.New(), OwnerID: 7, Name: "Vindolanda", Postcode: "NE47 7JN", Duration: "6 weeks"}
	require.NoError(t, repo.Create(ctx, excavation))

	found, err := repo.GetByPublicID(ctx, excavation.PublicID)
	require.NoError(t, err)
	assert.Equal(t, "Vindolanda", found.Name)
	assert.Equal(t, uint(7), found.OwnerID)

	require.NoError(t, repo.Update(ctx, found, map[string]any{"duration": "8 weeks"}))
	assert.Equal(t, "8 weeks", found.Duration)
	assert.Equal(t, "Vindolanda", found.Name)

	require.NoError(t, repo.Delete(ctx, found.ID))
	_, err = repo.GetByPublicID(ctx, excavation.PublicID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, found.ID), database.ErrNotFound)
}

func TestRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"Sutton Hoo", "Star Carr", "Must Farm"} {
		e := &entities.Excavation{PublicID: ids.New(), OwnerID: 1, Name: name, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.Create(e).Error)
	}

	rows, total, err := repo.Search(ctx, database.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, "Must Farm", rows[0].Name)

	rows, total, err = repo.Search(ctx, database.ListQuery{Q: "star"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Star Carr", rows[0].Name)
}
