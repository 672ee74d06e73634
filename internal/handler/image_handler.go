package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "feedhub/internal/errors"
	"feedhub/internal/storage"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ImageHandler handles image upload and serving.
type ImageHandler struct {
	images storage.ImageStore
	log    *zap.SugaredLogger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images storage.ImageStore, log *zap.SugaredLogger) *ImageHandler {
	return &ImageHandler{images: images, log: log}
}

// UploadImageResponse represents a stored image reference.
type UploadImageResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// Upload godoc
// @Summary Upload an image for a post
// @Tags images
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file false "Image file (png or jpeg)"
// @Param oldPath formData string false "Previously stored image to release"
// @Success 200 {object} UploadImageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /image [put]
func (h *ImageHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusOK, UploadImageResponse{Message: "No file provided."})
	}

	if !allowedImageTypes[file.Header.Get("Content-Type")] {
		return apperrors.ValidationFailed("Validation Failed!",
			apperrors.FieldError{Field: "image", Message: "Only png, jpg and jpeg images are accepted."})
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	storedPath, err := h.images.Save(c.Request().Context(), name, src)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}

	// Release the replaced image, fire-and-forget.
	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		if err := h.images.Remove(c.Request().Context(), oldPath); err != nil {
			h.log.Warnw("release image", "path", oldPath, "error", err)
		}
	}

	return c.JSON(http.StatusOK, UploadImageResponse{
		Message:  "File saved",
		FilePath: storedPath,
	})
}

// Serve godoc
// @Summary Serve a stored image
// @Tags images
// @Produce png
// @Param name path string true "Image file name"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /images/{name} [get]
func (h *ImageHandler) Serve(c echo.Context) error {
	name := c.Param("name")

	rc, err := h.images.Open(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("Could not find image.")
		}
		return fmt.Errorf("open image: %w", err)
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, ctype, rc)
}
