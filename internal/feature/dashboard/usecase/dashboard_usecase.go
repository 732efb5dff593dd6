// Package usecase assembles the home screen summary from the other features.
package usecase

import (
	"context"
	"time"

	healthentity "sibtech_backend/internal/feature/health/domain/entity"
	scheduleentity "sibtech_backend/internal/feature/schedule/domain/entity"
	trackingentity "sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

type MeasurementLister interface {
	ListMeasurements(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]trackingentity.Measurement, error)
}

type PredictionLister interface {
	ListPredictions(ctx context.Context, sess identity.SessionContext) ([]healthentity.PredictionRecord, error)
}

type PendingTaskLister interface {
	TodaysPendingTasks(ctx context.Context, sess identity.SessionContext, today time.Time) ([]scheduleentity.Task, error)
}

// Summary is the dashboard content.
type Summary struct {
	MeasurementCount  int
	PredictionCount   int
	LatestMeasurement *trackingentity.Measurement // nil before the first measurement
	PendingToday      []scheduleentity.Task
}

type dashboardUsecase struct {
	measurements MeasurementLister
	predictions  PredictionLister
	tasks        PendingTaskLister
}

func NewDashboardUsecase(m MeasurementLister, p PredictionLister, t PendingTaskLister) *dashboardUsecase {
	return &dashboardUsecase{measurements: m, predictions: p, tasks: t}
}

// Summary reads counts, the newest measurement and the tasks still open on today.
func (u *dashboardUsecase) Summary(ctx context.Context, sess identity.SessionContext, today time.Time) (*Summary, error) {
	ms, err := u.measurements.ListMeasurements(ctx, sess, sortorder.Desc)
	if err != nil {
		return nil, err
	}
	ps, err := u.predictions.ListPredictions(ctx, sess)
	if err != nil {
		return nil, err
	}
	pending, err := u.tasks.TodaysPendingTasks(ctx, sess, today)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = []scheduleentity.Task{}
	}

	s := &Summary{
		MeasurementCount: len(ms),
		PredictionCount:  len(ps),
		PendingToday:     pending,
	}
	if len(ms) > 0 {
		latest := ms[0]
		s.LatestMeasurement = &latest
	}
	return s, nil
}
