// Package interfaces documents the core abstractions used throughout the application.
//
// It holds no runtime code. checks.go pins every concrete type to the
// interfaces it is wired through, so a signature drift fails the build here
// instead of in entrypoint.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AccountStore: credentials and lockout counters (internal/auth/service.go)
//   - ProfileStore: archaeologist and company profiles (internal/http/stores.go)
//   - ExcavationStore: excavation listings (internal/http/stores.go)
//   - ThumbnailRecords: upload bookkeeping (internal/storage/uploads.go)
//
// ## Authentication Interfaces
//
//   - AccountService: register, login, password change (internal/http/stores.go)
//   - TokenService / TokenVerifier: the token gate (internal/http/stores.go, internal/auth/middleware.go)
//   - Denylist: revoked token ids, in memory or Redis (internal/auth/denylist.go)
//
// ## Storage Interfaces
//
//   - Blobs: thumbnail bytes on local disk or S3 (internal/storage/client.go)
//
// ## Background Work Interfaces
//
//   - AuditEventCleaner, OrphanThumbnailRemover: maintenance task targets (internal/tasks/)
//   - Enqueuer: what the cron scheduler feeds (internal/scheduler/maintenance.go)
//
// # Adding a New Blob Backend
//
//  1. Implement Blobs in internal/storage/
//
//     type GCS struct { bucket *storage.BucketHandle }
//
//     func (g *GCS) Put(ctx context.Context, name string, content io.Reader, size int64, contentType string) error
//     func (g *GCS) Get(ctx context.Context, name string) (*Blob, error)
//     func (g *GCS) Delete(ctx context.Context, name string) error
//
//  2. Return it from storage.New for a new STORAGE_BACKEND value
//
//  3. Add a compile-time check to checks.go
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to database.Migrate
//
//  4. Add compile-time check:
//
//     var _ http.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
