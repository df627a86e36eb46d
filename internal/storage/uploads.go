package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

var (
	ErrTooLarge = errors.New("file exceeds the upload size limit")
	ErrNotImage = errors.New("only image uploads are accepted")
	ErrEmpty    = errors.New("file is empty")
)

// sniffLen is how many bytes http.DetectContentType considers.
const sniffLen = 512

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

var imageExtensions = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/bmp":                ".bmp",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}

// ThumbnailRecords persists upload metadata.
type ThumbnailRecords interface {
	Create(ctx context.Context, thumb *entities.Thumbnail) error
	GetByFilename(ctx context.Context, filename string) (*entities.Thumbnail, error)
	FindOrphans(ctx context.Context, olderThan time.Time, limit int) ([]entities.Thumbnail, error)
	Delete(ctx context.Context, id uint) error
}

// Uploader validates images, stores them under random names and records them.
type Uploader struct {
	blobs    Blobs
	records  ThumbnailRecords
	maxBytes int64
}

func NewUploader(blobs Blobs, records ThumbnailRecords, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Uploader{blobs: blobs, records: records, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted upload.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Save stores content as a thumbnail owned by ownerID. The stored name is a
// fresh uuid plus the original extension.
func (u *Uploader) Save(ctx context.Context, ownerID uint, originalName string, content io.Reader) (*entities.Thumbnail, error) {
	data, err := io.ReadAll(io.LimitReader(content, u.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > u.maxBytes {
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(data[:min(len(data), sniffLen)])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	thumb := &entities.Thumbnail{
		Filename:    uuid.NewString() + extensionFor(originalName, contentType),
		ContentType: contentType,
		Size:        int64(len(data)),
		OwnerID:     ownerID,
	}

	if err := u.blobs.Put(ctx, thumb.Filename, bytes.NewReader(data), thumb.Size, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if err := u.records.Create(ctx, thumb); err != nil {
		if delErr := u.blobs.Delete(ctx, thumb.Filename); delErr != nil {
			log.Printf("Failed to remove unrecorded upload %s: %v", thumb.Filename, delErr)
		}
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return thumb, nil
}

// Open returns the stored thumbnail, preferring the recorded content type.
func (u *Uploader) Open(ctx context.Context, filename string) (*Blob, error) {
	blob, err := u.blobs.Get(ctx, filename)
	if err != nil {
		return nil, err
	}
	if record, err := u.records.GetByFilename(ctx, filename); err == nil && record.ContentType != "" {
		blob.ContentType = record.ContentType
	}
	if blob.ContentType == "" {
		blob.ContentType = "application/octet-stream"
	}
	return blob, nil
}

// RemoveOrphans deletes up to limit unreferenced thumbnails created before
// olderThan, returning how many were removed.
func (u *Uploader) RemoveOrphans(ctx context.Context, olderThan time.Time, limit int) (int, error) {
	orphans, err := u.records.FindOrphans(ctx, olderThan, limit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, thumb := range orphans {
		if err := u.blobs.Delete(ctx, thumb.Filename); err != nil {
			log.Printf("Failed to delete blob %s: %v", thumb.Filename, err)
			continue
		}
		if err := u.records.Delete(ctx, thumb.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func extensionFor(originalName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if extPattern.MatchString(ext) && strings.HasPrefix(mime.TypeByExtension(ext), "image/") {
		return ext
	}
	return imageExtensions[contentType]
}
