package handler

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrMissingUpload is returned when the multipart field is absent.
var ErrMissingUpload = errors.New("image file is required")

// ReadUpload reads the multipart file in field. At most limit+1 bytes are read,
// so callers can still tell an oversized upload from one that fits.
func ReadUpload(c *gin.Context, field string, limit int64) (string, []byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil, ErrMissingUpload
	}
	f, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close upload", "error", err)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}
