package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

// namePattern allows flat names only: no separators, no leading dot.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Blob is an open stored object. The caller closes Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Blobs defines the interface for binary object storage
type Blobs interface {
	// Put stores content under name, replacing any previous object
	Put(ctx context.Context, name string, content io.Reader, size int64, contentType string) error

	// Get opens the named object
	Get(ctx context.Context, name string) (*Blob, error)

	// Delete removes the named object; missing objects are not an error
	Delete(ctx context.Context, name string) error
}

// ValidName reports whether name is safe to use as a flat object key.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && name != "." && name != ".."
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.Storage) (Blobs, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal, "":
		return NewLocal(cfg.Dir)
	case config.StorageBackendS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
