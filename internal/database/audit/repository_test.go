package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.AuditEvent{
		AccountID:   1,
		Email:       "a@b.com",
		EventType:   entities.AuditEventAuth,
		Action:      "login",
		Description: "Signed in",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			AccountID: 1,
			EventType: entities.AuditEventAuth,
			Action:    "login",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(ctx, event))
	}

	for i := 0; i < 5; i++ {
		event := &entities.AuditEvent{
			AccountID: 2,
			EventType: entities.AuditEventListing,
			Action:    "excavation_delete",
			Status:    entities.AuditStatusSuccess,
		}
		require.NoError(t, repo.LogEvent(ctx, event))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 0, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("filter by account", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 1, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 1, 10, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(ctx, 1, 2, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
	})

	t.Run("by type", func(t *testing.T) {
		events, total, err := repo.GetEventsByType(ctx, entities.AuditEventListing, 0, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, events, 5)
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := &entities.AuditEvent{
		AccountID: 1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusFailed,
		CreatedAt: time.Now().Add(-100 * 24 * time.Hour),
	}
	require.NoError(t, repo.LogEvent(ctx, old))

	recent := &entities.AuditEvent{
		AccountID: 1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(ctx, recent))

	deleted, err := repo.DeleteOldEvents(ctx, time.Now().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.GetEvents(ctx, 0, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
