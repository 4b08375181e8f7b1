package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"fileportal/internal/delivery/http/middleware"
	"fileportal/internal/delivery/http/response"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FileHandler holds dependencies for file transfer handlers.
type FileHandler struct {
	uc     usecase.FileUsecase
	logger *slog.Logger
}

// NewFileHandler is the constructor for FileHandler, injected by Fx.
func NewFileHandler(uc usecase.FileUsecase, logger *slog.Logger) *FileHandler {
	return &FileHandler{uc: uc, logger: logger}
}

// ListFiles returns the caller's files, newest first.
func (h *FileHandler) ListFiles(c echo.Context) error {
	records, err := h.uc.ListFiles(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, records)
}

// UploadFile accepts one multipart file under the form field "file".
func (h *FileHandler) UploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.FieldErrors(c, http.StatusBadRequest, map[string][]string{
			"file": {"No file was submitted."},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	record, err := h.uc.UploadFile(c.Request().Context(), usecase.UploadFileInput{
		UserID:   middleware.UserID(c),
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  src,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, record)
}

// DeleteFile removes one of the caller's files.
func (h *FileHandler) DeleteFile(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "File not found.")
	}

	if err := h.uc.DeleteFile(c.Request().Context(), middleware.UserID(c), fileID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DownloadFile streams the file bytes back as an attachment.
func (h *FileHandler) DownloadFile(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "File not found.")
	}

	output, err := h.uc.DownloadFile(c.Request().Context(), middleware.UserID(c), fileID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer output.Content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, output.Record.Filename))

	return c.Stream(http.StatusOK, echo.MIMEOctetStream, output.Content)
}

// GetStats returns the portal-wide file statistics.
func (h *FileHandler) GetStats(c echo.Context) error {
	stats, err := h.uc.GetStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, stats)
}
