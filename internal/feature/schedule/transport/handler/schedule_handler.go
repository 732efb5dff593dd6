// Package handler serves the care schedule.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/schedule/domain/entity"
	"sibtech_backend/internal/feature/schedule/domain/generator"
	"sibtech_backend/internal/feature/schedule/transport/http/dto"
	"sibtech_backend/internal/feature/schedule/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/calendar"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

// ScheduleUsecase is what the handler needs from the usecase.
type ScheduleUsecase interface {
	AddTask(ctx context.Context, sess identity.SessionContext, in usecase.NewTask) (*entity.Task, error)
	ToggleDone(ctx context.Context, sess identity.SessionContext, taskID uint, done bool) (*entity.Task, error)
	GenerateDefaultSchedule(ctx context.Context, sess identity.SessionContext, start time.Time, weeks int) ([]entity.Task, error)
	ListTasks(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]entity.Task, error)
	TodaysPendingTasks(ctx context.Context, sess identity.SessionContext, today time.Time) ([]entity.Task, error)
}

// ScheduleHandler serves /schedule.
type ScheduleHandler struct {
	uc  ScheduleUsecase
	loc *time.Location
	now func() time.Time
}

// NewScheduleHandler creates a handler; "today" is evaluated in loc.
func NewScheduleHandler(uc ScheduleUsecase, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{uc: uc, loc: loc, now: time.Now}
}

// Add handles POST /schedule.
func (h *ScheduleHandler) Add(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.TaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("task validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	d, err := calendar.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	t, err := h.uc.AddTask(c.Request.Context(), sess, usecase.NewTask{TaskName: req.TaskName, Date: d, Notes: req.Notes})
	if err != nil {
		h.fail(c, sess, "add task failed", err)
		return
	}
	c.JSON(http.StatusCreated, toRes(*t))
}

// Toggle handles PATCH /schedule/:id.
func (h *ScheduleHandler) Toggle(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid task id"})
		return
	}
	var req dto.ToggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "done is required"})
		return
	}
	t, err := h.uc.ToggleDone(c.Request.Context(), sess, uint(id), *req.Done)
	if err != nil {
		h.fail(c, sess, "toggle task failed", err)
		return
	}
	c.JSON(http.StatusOK, toRes(*t))
}

// Generate handles POST /schedule/generate.
func (h *ScheduleHandler) Generate(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.GenerateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "start_date is required"})
		return
	}
	start, err := calendar.Parse(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	weeks := req.Weeks
	if weeks == 0 {
		weeks = generator.DefaultWeeks
	}
	ts, err := h.uc.GenerateDefaultSchedule(c.Request.Context(), sess, start, weeks)
	if err != nil {
		h.fail(c, sess, "generate schedule failed", err)
		return
	}
	slog.Info("default schedule generated", "user_id", sess.UserID, "tasks", len(ts))
	c.JSON(http.StatusCreated, toResList(ts))
}

// List handles GET /schedule?order=asc|desc (default asc).
func (h *ScheduleHandler) List(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	order, err := sortorder.Parse(c.Query("order"), sortorder.Asc)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	ts, err := h.uc.ListTasks(c.Request.Context(), sess, order)
	if err != nil {
		h.fail(c, sess, "list tasks failed", err)
		return
	}
	c.JSON(http.StatusOK, toResList(ts))
}

// Today handles GET /schedule/today.
func (h *ScheduleHandler) Today(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	ts, err := h.uc.TodaysPendingTasks(c.Request.Context(), sess, h.now().In(h.loc))
	if err != nil {
		h.fail(c, sess, "list today's tasks failed", err)
		return
	}
	c.JSON(http.StatusOK, toResList(ts))
}

func (h *ScheduleHandler) fail(c *gin.Context, sess identity.SessionContext, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidTask), errors.Is(err, usecase.ErrInvalidDate), errors.Is(err, usecase.ErrInvalidWeeks):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(msg, "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

func toRes(t entity.Task) dto.TaskRes {
	return dto.TaskRes{ID: t.ID, TaskName: t.TaskName, Date: calendar.Format(t.Date), Notes: t.Notes, Done: t.Done}
}

func toResList(ts []entity.Task) []dto.TaskRes {
	out := make([]dto.TaskRes, 0, len(ts))
	for _, t := range ts {
		out = append(out, toRes(t))
	}
	return out
}
