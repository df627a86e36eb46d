package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/accounts"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/excavations"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/profiles"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/thumbnails"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/http"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/scheduler"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ auth.AccountStore = (*accounts.Repository)(nil)
var _ http.ProfileStore = (*profiles.Repository)(nil)
var _ http.ExcavationStore = (*excavations.Repository)(nil)
var _ storage.ThumbnailRecords = (*thumbnails.Repository)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ http.AccountService = (*auth.Service)(nil)
var _ http.TokenService = (*auth.Issuer)(nil)
var _ auth.TokenVerifier = (*auth.Issuer)(nil)

// Denylist implementations
var _ auth.Denylist = (*auth.MemoryDenylist)(nil)
var _ auth.Denylist = (*auth.RedisDenylist)(nil)

// =============================================================================
// Blob Storage
// =============================================================================

var _ storage.Blobs = (*storage.Local)(nil)
var _ storage.Blobs = (*storage.S3)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.OrphanThumbnailRemover = (*storage.Uploader)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
