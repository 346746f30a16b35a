package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// MaxUploadBytes caps the size of an uploaded image
const MaxUploadBytes = 10 << 20

// UploadHandler serves recipe image uploads
type UploadHandler struct {
	uploads service.IUploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads service.IUploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// RegisterRoutes registers the upload route on an authenticated group
func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", h.Upload)
}

// Upload stores the multipart "file" field and returns its public URL
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploads == nil {
		_ = c.Error(apperrors.Upstream("image storage is not configured", nil))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.Validation("No file uploaded", map[string]string{"file": "file is required"}))
		return
	}
	if header.Size > MaxUploadBytes {
		_ = c.Error(apperrors.Validation("file too large", map[string]string{
			"file": fmt.Sprintf("file must be at most %d bytes", MaxUploadBytes),
		}))
		return
	}

	f, err := header.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes))
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to read upload: %w", err))
		return
	}

	url, err := h.uploads.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
