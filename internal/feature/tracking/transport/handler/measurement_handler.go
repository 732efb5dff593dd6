// Package handler serves measurements and the growth forecast.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/feature/tracking/transport/http/dto"
	"sibtech_backend/internal/feature/tracking/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/calendar"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

// DefaultForecastWeeks is used when ?weeks is absent.
const DefaultForecastWeeks = 4

// TrackingUsecase is what the handler needs from the usecase.
type TrackingUsecase interface {
	AddMeasurement(ctx context.Context, sess identity.SessionContext, in usecase.NewMeasurement) (*entity.Measurement, error)
	ListMeasurements(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]entity.Measurement, error)
	Forecast(ctx context.Context, sess identity.SessionContext, horizonWeeks int) ([]entity.ForecastPoint, error)
}

// MeasurementHandler serves /measurements and /forecast.
type MeasurementHandler struct {
	uc TrackingUsecase
}

// NewMeasurementHandler creates the handler.
func NewMeasurementHandler(uc TrackingUsecase) *MeasurementHandler {
	return &MeasurementHandler{uc: uc}
}

// Add handles POST /measurements.
func (h *MeasurementHandler) Add(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.MeasurementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("measurement validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidMeasurement.Error()})
		return
	}
	d, err := calendar.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.uc.AddMeasurement(c.Request.Context(), sess, usecase.NewMeasurement{
		Date:        d,
		Height:      *req.Height,
		Leaves:      *req.Leaves,
		Notes:       req.Notes,
		PruneNeeded: req.PruneNeeded,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidMeasurement) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("add measurement failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, toRes(*m))
}

// List handles GET /measurements?order=asc|desc (default desc).
func (h *MeasurementHandler) List(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	order, err := sortorder.Parse(c.Query("order"), sortorder.Desc)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	ms, err := h.uc.ListMeasurements(c.Request.Context(), sess, order)
	if err != nil {
		slog.Error("list measurements failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	out := make([]dto.MeasurementRes, 0, len(ms))
	for _, m := range ms {
		out = append(out, toRes(m))
	}
	c.JSON(http.StatusOK, out)
}

// Forecast handles GET /forecast?weeks=N.
func (h *MeasurementHandler) Forecast(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	weeks := DefaultForecastWeeks
	if raw := c.Query("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidHorizon.Error()})
			return
		}
		weeks = n
	}

	points, err := h.uc.Forecast(c.Request.Context(), sess, weeks)
	switch {
	case errors.Is(err, usecase.ErrInvalidHorizon):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, usecase.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		slog.Error("forecast failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]dto.ForecastPointRes, 0, len(points))
	for _, p := range points {
		out = append(out, dto.ForecastPointRes{
			Date:   calendar.Format(p.Date),
			Height: round2(p.Height),
			Leaves: round2(p.Leaves),
		})
	}
	c.JSON(http.StatusOK, out)
}

func toRes(m entity.Measurement) dto.MeasurementRes {
	return dto.MeasurementRes{
		ID:          m.ID,
		Date:        calendar.Format(m.Date),
		Height:      m.Height,
		Leaves:      m.Leaves,
		Notes:       m.Notes,
		PruneNeeded: m.PruneNeeded,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
