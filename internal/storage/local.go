package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Local stores blobs as files in a single directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Put writes to a temp file in the same directory and renames it into place,
// so readers never observe a partial file.
func (l *Local) Put(ctx context.Context, name string, content io.Reader, _ int64, _ string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(l.dir, "upload_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := io.Copy(tmpFile, content); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, filepath.Join(l.dir, name))
}

func (l *Local) Get(_ context.Context, name string) (*Blob, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Blob{
		Body:        f,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
	}, nil
}

func (l *Local) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the storage directory path.
func (l *Local) Dir() string {
	return l.dir
}
