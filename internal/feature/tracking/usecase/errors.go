// Package usecase implements measurement logging and growth forecasting.
package usecase

import (
	"errors"

	"sibtech_backend/internal/feature/tracking/domain/forecast"
)

var (
	// ErrInvalidMeasurement is returned for a negative or non-finite height, a negative leaf count, or a missing date.
	ErrInvalidMeasurement = errors.New("height and leaves must be non-negative numbers and date is required")

	// ErrInsufficientData is returned when a forecast is requested with fewer than two measurements.
	ErrInsufficientData = forecast.ErrInsufficientData

	// ErrInvalidHorizon is returned for a forecast horizon outside 1..104 weeks.
	ErrInvalidHorizon = forecast.ErrInvalidHorizon
)
