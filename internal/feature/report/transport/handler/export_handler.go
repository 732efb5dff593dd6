// Package handler serves report downloads.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/report/domain/table"
	"sibtech_backend/internal/feature/report/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/identity"
)

type ReportUsecase interface {
	Export(ctx context.Context, sess identity.SessionContext, format usecase.Format, kind table.Kind) (*usecase.File, error)
}

type ExportHandler struct {
	uc ReportUsecase
}

func NewExportHandler(uc ReportUsecase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export handles GET /export?format=csv|xlsx&kind=...
// kind defaults to all.
func (h *ExportHandler) Export(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	format, err := usecase.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	kind, err := table.ParseKind(c.DefaultQuery("kind", string(table.All)))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	f, err := h.uc.Export(c.Request.Context(), sess, format, kind)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidFormat) || errors.Is(err, usecase.ErrInvalidKind) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("export failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	slog.Info("export generated", "user_id", sess.UserID, "format", format, "kind", kind, "bytes", len(f.Data))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}
