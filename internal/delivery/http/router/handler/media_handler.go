package handler

import (
	"net/http"

	"loyalty/internal/delivery/http/response"
	"loyalty/internal/domain/service"
	"loyalty/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MediaHandler holds dependencies for media upload handlers.
type MediaHandler struct {
	uc usecase.MediaUsecase
}

// NewMediaHandler is the constructor for MediaHandler, injected by Fx.
func NewMediaHandler(uc usecase.MediaUsecase) *MediaHandler {
	return &MediaHandler{uc: uc}
}

// Upload accepts a multipart file and stores it in the bucket selected by the
// "kind" form field. The response carries the public URL for entity rows.
func (h *MediaHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	url, err := h.uc.Upload(c.Request().Context(), &usecase.UploadMediaInput{
		Kind:        service.MediaKind(c.FormValue("kind")),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"url": url}, "Upload successful")
}

// deleteMediaRequest identifies an uploaded object by its public URL.
type deleteMediaRequest struct {
	URL string `json:"url"`
}

// Delete removes a previously uploaded object. Admin only.
func (h *MediaHandler) Delete(c echo.Context) error {
	var req deleteMediaRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delete input")
	}

	if err := h.uc.Delete(c.Request().Context(), req.URL); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Media deleted")
}
