package tasks

import (
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
)

// Config holds configuration for the maintenance task queue.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite purges finished tasks. Default: 1h
	CleanupInterval time.Duration

	// AuditRetentionDays bounds how long audit events are kept. Default: 90
	AuditRetentionDays int

	// OrphanGrace is how old an unreferenced thumbnail must be before removal. Default: 24h
	OrphanGrace time.Duration

	// OrphanBatch caps thumbnails removed per run. Default: 500
	OrphanBatch int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:            1,
		ReleaseAfter:       15 * time.Minute,
		CleanupInterval:    time.Hour,
		AuditRetentionDays: 90,
		OrphanGrace:        24 * time.Hour,
		OrphanBatch:        500,
	}
}

// ConfigFrom overlays the application settings on the defaults.
func ConfigFrom(tasks config.Tasks, audit config.Audit) Config {
	cfg := DefaultConfig()
	if tasks.Workers > 0 {
		cfg.Workers = tasks.Workers
	}
	if tasks.ReleaseAfter > 0 {
		cfg.ReleaseAfter = tasks.ReleaseAfter
	}
	if tasks.CleanupInterval > 0 {
		cfg.CleanupInterval = tasks.CleanupInterval
	}
	if audit.RetentionDays > 0 {
		cfg.AuditRetentionDays = audit.RetentionDays
	}
	return cfg
}
