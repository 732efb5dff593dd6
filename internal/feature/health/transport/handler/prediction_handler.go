// Package handler serves photo diagnosis.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/transport/http/dto"
	"sibtech_backend/internal/feature/health/usecase"
	platformhandler "sibtech_backend/internal/platform/http/handler"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/identity"
)

// HealthUsecase is what the handler needs from the usecase.
type HealthUsecase interface {
	Diagnose(ctx context.Context, sess identity.SessionContext, fileName string, data []byte) (*usecase.Result, error)
	ListPredictions(ctx context.Context, sess identity.SessionContext) ([]entity.PredictionRecord, error)
}

// PredictionHandler serves /predictions.
type PredictionHandler struct {
	uc HealthUsecase
}

func NewPredictionHandler(uc HealthUsecase) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// Create handles POST /predictions.
//
// Content-Type: multipart/form-data
// Form field: image (file, at most 10 MiB).
func (h *PredictionHandler) Create(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	name, data, err := platformhandler.ReadUpload(c, "image", usecase.MaxImageSize)
	if err != nil {
		slog.Warn("image upload rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: platformhandler.ErrMissingUpload.Error()})
		return
	}

	res, err := h.uc.Diagnose(c.Request.Context(), sess, name, data)
	if err != nil {
		if status, msg, ok := ImageErrorStatus(err); ok {
			slog.Warn("image validation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(status, api.ErrorResponse{Error: msg})
			return
		}
		slog.Error("diagnosis failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	slog.Info("prediction stored", "user_id", sess.UserID, "label", res.Diagnosis.Label, "source", res.Diagnosis.Source)
	out := ToDiagnosisRes(res)
	if res.Record != nil {
		out.FileName = res.Record.FileName
	}
	c.JSON(http.StatusCreated, out)
}

// List handles GET /predictions.
func (h *PredictionHandler) List(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	rs, err := h.uc.ListPredictions(c.Request.Context(), sess)
	if err != nil {
		slog.Error("list predictions failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	out := make([]dto.PredictionRes, 0, len(rs))
	for _, r := range rs {
		out = append(out, dto.PredictionRes{
			ID:          r.ID,
			FileName:    r.FileName,
			ResultLabel: r.ResultLabel,
			Confidence:  r.Confidence,
			Date:        r.Date.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// ImageErrorStatus maps upload validation errors to a 400 response.
func ImageErrorStatus(err error) (int, string, bool) {
	for _, target := range []error{usecase.ErrEmptyImage, usecase.ErrImageTooLarge, usecase.ErrImageDimensions, usecase.ErrUnsupportedImage} {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error(), true
		}
	}
	return 0, "", false
}

// ToDiagnosisRes renders a classification result.
func ToDiagnosisRes(res *usecase.Result) dto.DiagnosisRes {
	return dto.DiagnosisRes{
		Label:      res.Diagnosis.Label,
		Confidence: res.Diagnosis.ConfidenceText(),
		Advice:     res.Advice,
		Source:     res.Diagnosis.Source,
	}
}
