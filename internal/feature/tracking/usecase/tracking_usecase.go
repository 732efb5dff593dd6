package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/feature/tracking/domain/forecast"
	"sibtech_backend/internal/shared/calendar"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

// MeasurementRepository persists measurements.
type MeasurementRepository interface {
	// Create stores m and sets its ID.
	Create(ctx context.Context, m *entity.Measurement) error
	// ListByUser returns every measurement of the user ordered by date, then id.
	ListByUser(ctx context.Context, userID uint, order sortorder.Order) ([]entity.Measurement, error)
}

// NewMeasurement is the input of AddMeasurement.
type NewMeasurement struct {
	Date        time.Time
	Height      float64
	Leaves      int
	Notes       string
	PruneNeeded bool
}

// trackingUsecase implements the measurement log and the growth forecaster.
type trackingUsecase struct {
	repo MeasurementRepository
}

// NewTrackingUsecase wires the tracking usecase.
func NewTrackingUsecase(repo MeasurementRepository) *trackingUsecase {
	return &trackingUsecase{repo: repo}
}

// AddMeasurement validates and stores one measurement for the session's user.
// Several measurements on the same day are allowed.
func (u *trackingUsecase) AddMeasurement(ctx context.Context, sess identity.SessionContext, in NewMeasurement) (*entity.Measurement, error) {
	if in.Date.IsZero() || in.Height < 0 || math.IsNaN(in.Height) || math.IsInf(in.Height, 0) || in.Leaves < 0 {
		return nil, ErrInvalidMeasurement
	}
	m := &entity.Measurement{
		UserID:      sess.UserID,
		Date:        calendar.Day(in.Date),
		Height:      in.Height,
		Leaves:      in.Leaves,
		Notes:       in.Notes,
		PruneNeeded: in.PruneNeeded,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to store measurement: %w", err)
	}
	return m, nil
}

// ListMeasurements returns the user's measurements. Never nil.
func (u *trackingUsecase) ListMeasurements(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]entity.Measurement, error) {
	ms, err := u.repo.ListByUser(ctx, sess.UserID, order)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		ms = []entity.Measurement{}
	}
	return ms, nil
}

// Forecast projects the user's growth horizonWeeks weeks past the last measurement.
func (u *trackingUsecase) Forecast(ctx context.Context, sess identity.SessionContext, horizonWeeks int) ([]entity.ForecastPoint, error) {
	if horizonWeeks < 1 || horizonWeeks > forecast.MaxHorizonWeeks {
		return nil, ErrInvalidHorizon
	}
	ms, err := u.repo.ListByUser(ctx, sess.UserID, sortorder.Asc)
	if err != nil {
		return nil, err
	}
	return forecast.Project(ms, horizonWeeks)
}
