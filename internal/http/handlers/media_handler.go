package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/dto"
	"github.com/flastal/flastal-backend/internal/http/handlers/common"
	"github.com/flastal/flastal-backend/internal/storage"
)

// MediaHandler stores completion report photos.
type MediaHandler struct {
	media *storage.MediaStorage
}

func NewMediaHandler(media *storage.MediaStorage) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload POST /projects/:id/media
func (h *MediaHandler) Upload(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to open upload"})
		return
	}
	defer file.Close()

	path, size, err := h.media.SaveImage(c.Request.Context(), projectID, fileHeader.Filename, file)
	if errors.Is(err, storage.ErrNotAnImage) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file must be an image"})
		return
	}
	if errors.Is(err, storage.ErrTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "file is too large"})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{Path: path, Size: size})
}
