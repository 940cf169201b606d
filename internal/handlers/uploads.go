package handlers

import (
	"errors"
	"net/http"

	"crm-backend/internal/uploads"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves POST /upload-image
type UploadHandler struct {
	store *uploads.Store
}

// NewUploadHandler creates an upload handler
func NewUploadHandler(store *uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage stores the multipart "file" field and returns its URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Falta el archivo 'file'")
		return
	}

	url, err := h.store.SaveImage(fh)
	switch {
	case errors.Is(err, uploads.ErrNotImage):
		respondError(c, http.StatusBadRequest, "Solo imágenes")
		return
	case errors.Is(err, uploads.ErrTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "Imagen demasiado grande")
		return
	case err != nil:
		respondStoreError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_url": url})
}
