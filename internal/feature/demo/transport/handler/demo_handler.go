// Package handler serves demo mode.
// Demo routes are public. The demo id in the path is not a credential for anything else.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/demo/domain/entity"
	"sibtech_backend/internal/feature/demo/usecase"
	healthhandler "sibtech_backend/internal/feature/health/transport/handler"
	healthusecase "sibtech_backend/internal/feature/health/usecase"
	platformhandler "sibtech_backend/internal/platform/http/handler"
)

type DemoUsecase interface {
	Start(ctx context.Context) (string, error)
	Predict(ctx context.Context, id, fileName string, data []byte) (*healthusecase.Result, error)
	History(ctx context.Context, id string) ([]entity.Entry, error)
	Exit(ctx context.Context, id string) error
}

// StartRes is the body of POST /demo.
type StartRes struct {
	DemoID string `json:"demo_id"`
}

// EntryRes is one demo history entry.
type EntryRes struct {
	File       string `json:"file"`
	Result     string `json:"result"`
	Confidence string `json:"confidence"`
	Time       string `json:"time"`
}

type DemoHandler struct {
	uc DemoUsecase
}

func NewDemoHandler(uc DemoUsecase) *DemoHandler {
	return &DemoHandler{uc: uc}
}

// Start handles POST /demo.
func (h *DemoHandler) Start(c *gin.Context) {
	id, err := h.uc.Start(c.Request.Context())
	if err != nil {
		slog.Error("start demo failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("demo started", "demo_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, StartRes{DemoID: id})
}

// Predict handles POST /demo/:id/predict.
func (h *DemoHandler) Predict(c *gin.Context) {
	id := c.Param("id")
	name, data, err := platformhandler.ReadUpload(c, "image", healthusecase.MaxImageSize)
	if err != nil {
		slog.Warn("demo upload rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: platformhandler.ErrMissingUpload.Error()})
		return
	}

	res, err := h.uc.Predict(c.Request.Context(), id, name, data)
	if err != nil {
		if h.notFound(c, err) {
			return
		}
		if status, msg, ok := healthhandler.ImageErrorStatus(err); ok {
			slog.Warn("demo image validation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(status, api.ErrorResponse{Error: msg})
			return
		}
		slog.Error("demo predict failed", "error", err, "demo_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	out := healthhandler.ToDiagnosisRes(res)
	out.FileName = name
	c.JSON(http.StatusOK, out)
}

// History handles GET /demo/:id/history.
func (h *DemoHandler) History(c *gin.Context) {
	id := c.Param("id")
	es, err := h.uc.History(c.Request.Context(), id)
	if err != nil {
		if h.notFound(c, err) {
			return
		}
		slog.Error("demo history failed", "error", err, "demo_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	out := make([]EntryRes, 0, len(es))
	for _, e := range es {
		out = append(out, EntryRes{File: e.FileName, Result: e.Result, Confidence: e.Confidence, Time: e.Time.UTC().Format(time.RFC3339)})
	}
	c.JSON(http.StatusOK, out)
}

// Exit handles DELETE /demo/:id.
func (h *DemoHandler) Exit(c *gin.Context) {
	id := c.Param("id")
	if err := h.uc.Exit(c.Request.Context(), id); err != nil {
		if h.notFound(c, err) {
			return
		}
		slog.Error("demo exit failed", "error", err, "demo_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "demo ended"})
}

func (h *DemoHandler) notFound(c *gin.Context, err error) bool {
	if !errors.Is(err, usecase.ErrDemoNotFound) {
		return false
	}
	c.JSON(http.StatusNotFound, api.ErrorResponse{Error: usecase.ErrDemoNotFound.Error()})
	return true
}
