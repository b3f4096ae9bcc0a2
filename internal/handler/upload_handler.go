package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/errors"
	"toiletadvisor/internal/service"
)

// UploadHandler accepts image uploads.
type UploadHandler struct {
	uploads service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploads service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// UploadResponse lists the public URLs of the stored images, in request order.
type UploadResponse struct {
	URLs []string `json:"urls"`
}

// Upload godoc
// @Summary Upload images
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "One or more images (field files or file)"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, errors.ErrNoFiles)
	}
	files := make([]*multipart.FileHeader, 0, len(form.File["files"])+len(form.File["file"]))
	files = append(files, form.File["files"]...)
	files = append(files, form.File["file"]...)

	urls, err := h.uploads.Upload(c.Request().Context(), session(c).UserID, files)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, UploadResponse{URLs: urls})
}
