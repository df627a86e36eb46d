package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanThumbnailRemover deletes uploads nothing references any more.
type OrphanThumbnailRemover interface {
	RemoveOrphans(ctx context.Context, olderThan time.Time, limit int) (int, error)
}

// CleanupOrphanThumbnailsTask removes thumbnails no profile or excavation
// points at, once they are older than the grace period.
type CleanupOrphanThumbnailsTask struct {
	GraceSeconds int `json:"grace_seconds"`
	Limit        int `json:"limit"`
}

// Config returns the queue configuration for thumbnail cleanup tasks.
func (t CleanupOrphanThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_thumbnails",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanThumbnailsProcessor creates a processor function for CleanupOrphanThumbnailsTask.
func CleanupOrphanThumbnailsProcessor(remover OrphanThumbnailRemover) backlite.QueueProcessor[CleanupOrphanThumbnailsTask] {
	return func(ctx context.Context, task CleanupOrphanThumbnailsTask) error {
		if remover == nil {
			return fmt.Errorf("thumbnail remover not configured")
		}

		defaults := DefaultConfig()
		grace := time.Duration(task.GraceSeconds) * time.Second
		if grace <= 0 {
			grace = defaults.OrphanGrace
		}
		limit := task.Limit
		if limit <= 0 {
			limit = defaults.OrphanBatch
		}

		removed, err := remover.RemoveOrphans(ctx, time.Now().Add(-grace), limit)
		if err != nil {
			return fmt.Errorf("cleanup orphan thumbnails: %w", err)
		}

		if removed > 0 {
			log.Printf("[TASK] Removed %d orphan thumbnails", removed)
		}
		return nil
	}
}

// NewCleanupOrphanThumbnailsQueue creates a backlite queue for thumbnail cleanup tasks.
func NewCleanupOrphanThumbnailsQueue(remover OrphanThumbnailRemover) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanThumbnailsProcessor(remover))
}
