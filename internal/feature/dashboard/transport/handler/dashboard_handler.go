// Package handler serves the dashboard.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/dashboard/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/calendar"
	"sibtech_backend/internal/shared/identity"
)

type DashboardUsecase interface {
	Summary(ctx context.Context, sess identity.SessionContext, today time.Time) (*usecase.Summary, error)
}

type LatestMeasurementRes struct {
	Date        string  `json:"date"`
	Height      float64 `json:"height"`
	Leaves      int     `json:"leaves"`
	PruneNeeded bool    `json:"prune_needed"`
}

type PendingTaskRes struct {
	ID       uint   `json:"id"`
	TaskName string `json:"task_name"`
	Notes    string `json:"notes"`
}

type SummaryRes struct {
	Username          string                `json:"username"`
	Today             string                `json:"today"`
	MeasurementCount  int                   `json:"measurement_count"`
	PredictionCount   int                   `json:"prediction_count"`
	LatestMeasurement *LatestMeasurementRes `json:"latest_measurement"`
	PendingToday      []PendingTaskRes      `json:"pending_today"`
}

type DashboardHandler struct {
	uc  DashboardUsecase
	loc *time.Location
	now func() time.Time
}

// NewDashboardHandler creates a handler; "today" is evaluated in loc.
func NewDashboardHandler(uc DashboardUsecase, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{uc: uc, loc: loc, now: time.Now}
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	today := calendar.Day(h.now().In(h.loc))
	s, err := h.uc.Summary(c.Request.Context(), sess, today)
	if err != nil {
		slog.Error("dashboard summary failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	out := SummaryRes{
		Username:         sess.Username,
		Today:            calendar.Format(today),
		MeasurementCount: s.MeasurementCount,
		PredictionCount:  s.PredictionCount,
		PendingToday:     make([]PendingTaskRes, 0, len(s.PendingToday)),
	}
	if m := s.LatestMeasurement; m != nil {
		out.LatestMeasurement = &LatestMeasurementRes{Date: calendar.Format(m.Date), Height: m.Height, Leaves: m.Leaves, PruneNeeded: m.PruneNeeded}
	}
	for _, t := range s.PendingToday {
		out.PendingToday = append(out.PendingToday, PendingTaskRes{ID: t.ID, TaskName: t.TaskName, Notes: t.Notes})
	}
	c.JSON(http.StatusOK, out)
}
