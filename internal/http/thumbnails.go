package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/obs"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
)

const (
	thumbnailResource  = "Thumbnail"
	thumbnailFormField = "file"
)

// ThumbnailsController accepts image uploads and serves them back.
// Profiles and excavations refer to an upload by its filename.
type ThumbnailsController struct {
	uploads  *storage.Uploader
	accounts AccountService
	audit    *audit.Service
	metrics  *obs.Metrics
}

func NewThumbnailsController(uploads *storage.Uploader, accounts AccountService, auditService *audit.Service, metrics *obs.Metrics) *ThumbnailsController {
	return &ThumbnailsController{
		uploads:  uploads,
		accounts: accounts,
		audit:    auditService,
		metrics:  metrics,
	}
}

// Upload stores a multipart "file" under a fresh random name.
// POST /FreeArch/thumbnails
func (tc *ThumbnailsController) Upload(c *gin.Context) {
	account, ok := currentAccount(c, tc.accounts)
	if !ok {
		return
	}

	header, err := c.FormFile(thumbnailFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondBadRequest(c, "A file is required in the \"file\" field.")
			return
		}
		respondError(c, err, thumbnailResource)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err, thumbnailResource)
		return
	}
	defer file.Close()

	thumb, err := tc.uploads.Save(c.Request.Context(), account.ID, header.Filename, file)
	tc.metrics.Upload(err)
	if err != nil {
		tc.audit.LogUpload(account.ID, header.Filename, header.Size, err)
		respondError(c, err, thumbnailResource)
		return
	}

	tc.audit.LogUpload(account.ID, thumb.Filename, thumb.Size, nil)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": thumb.Filename,
		"size":     thumb.Size,
	})
}

// Get streams a stored thumbnail. GET /FreeArch/thumbnails/:filename
func (tc *ThumbnailsController) Get(c *gin.Context) {
	blob, err := tc.uploads.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err, thumbnailResource)
		return
	}
	defer blob.Body.Close()

	c.DataFromReader(http.StatusOK, blob.Size, blob.ContentType, blob.Body, nil)
}
