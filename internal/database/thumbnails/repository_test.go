package thumbnails

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/ids"
)

func TestRepository_FindOrphans(t *testing.T) {
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.DB)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	for _, name := range []string{"used-profile.png", "used-dig.jpg", "orphan.png"} {
		require.NoError(t, repo.Create(ctx, &entities.Thumbnail{Filename: name, ContentType: "image/png", CreatedAt: old}))
	}
	require.NoError(t, repo.Create(ctx, &entities.Thumbnail{Filename: "fresh.png", ContentType: "image/png"}))

	require.NoError(t, db.DB.Create(&entities.Account{
		PublicID: ids.New(), Email: "a@b.com", PasswordHash: "h", Kind: entities.AccountKindCompany,
		Company: &entities.CompanyProfile{Name: "Co", Thumbnail: "used-profile.png"},
	}).Error)
	require.NoError(t, db.DB.Create(&entities.Excavation{PublicID: ids.New(), OwnerID: 1, Name: "Dig", Thumbnail: "used-dig.jpg"}).Error)

	orphans, err := repo.FindOrphans(ctx, time.Now().Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan.png", orphans[0].Filename)

	require.NoError(t, repo.Delete(ctx, orphans[0].ID))
	_, err = repo.GetByFilename(ctx, "orphan.png")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
