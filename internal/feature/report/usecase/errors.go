// Package usecase builds downloadable exports of a user's records.
package usecase

import (
	"errors"

	"sibtech_backend/internal/feature/report/domain/table"
)

var (
	// ErrInvalidFormat is returned for a format other than csv or xlsx.
	ErrInvalidFormat = errors.New("format must be csv or xlsx")

	ErrInvalidKind = table.ErrInvalidKind
)
