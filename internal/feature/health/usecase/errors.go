// Package usecase implements seedling health diagnosis.
package usecase

import (
	"errors"

	"sibtech_backend/internal/feature/health/domain/raster"
)

var (
	// ErrEmptyImage is returned when no image bytes were uploaded.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrImageTooLarge is returned when the upload exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds the 10 MiB limit")

	// ErrUnsupportedImage is returned when the upload is not a decodable jpeg, png or gif.
	ErrUnsupportedImage = raster.ErrUnsupportedImage

	// ErrImageDimensions is returned when the decoded image would exceed raster.MaxPixels.
	ErrImageDimensions = raster.ErrImageDimensions
)
