// Package handler serves disease notes.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/diseasenote/domain/entity"
	"sibtech_backend/internal/feature/diseasenote/transport/http/dto"
	"sibtech_backend/internal/feature/diseasenote/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
	"sibtech_backend/internal/shared/identity"
)

type NoteUsecase interface {
	AddNote(ctx context.Context, sess identity.SessionContext, note string) (*entity.Note, error)
	ListNotes(ctx context.Context, sess identity.SessionContext) ([]entity.Note, error)
}

// NoteHandler serves /disease-notes.
type NoteHandler struct {
	uc NoteUsecase
}

func NewNoteHandler(uc NoteUsecase) *NoteHandler {
	return &NoteHandler{uc: uc}
}

func (h *NoteHandler) Add(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.NoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("note validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrEmptyNote.Error()})
		return
	}
	n, err := h.uc.AddNote(c.Request.Context(), sess, req.Note)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyNote) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("add note failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, toRes(*n))
}

func (h *NoteHandler) List(c *gin.Context) {
	sess, ok := jwtmw.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	ns, err := h.uc.ListNotes(c.Request.Context(), sess)
	if err != nil {
		slog.Error("list notes failed", "error", err, "user_id", sess.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	out := make([]dto.NoteRes, 0, len(ns))
	for _, n := range ns {
		out = append(out, toRes(n))
	}
	c.JSON(http.StatusOK, out)
}

func toRes(n entity.Note) dto.NoteRes {
	return dto.NoteRes{ID: n.ID, Note: n.Note, Date: n.Date.UTC().Format(time.RFC3339)}
}
