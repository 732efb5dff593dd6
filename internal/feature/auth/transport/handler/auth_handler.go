// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sibtech_backend/internal/api"
	"sibtech_backend/internal/feature/auth/transport/http/dto"
	"sibtech_backend/internal/feature/auth/usecase"
	jwtmw "sibtech_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録します。ログインはしません。
	Register(ctx context.Context, username, password string) error
	// Login はユーザーを認証し、セッションを開始してトークンを返します。
	Login(ctx context.Context, username, password string, meta usecase.LoginMeta) (*usecase.LoginResult, error)
	// Logout はセッションを失効させます。
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - ユーザー名重複時は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "username and password are required"})
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrPasswordTooLong):
			slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrUsernameAlreadyExists):
			slog.Warn("signup rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	slog.Info("user signup successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 未登録ユーザーとパスワード誤りは同じ401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "username and password are required"})
		return
	}
	meta := usecase.LoginMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, meta)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: usecase.ErrInvalidCredentials.Error()})
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{Token: res.Token, ExpiresAt: res.ExpiresAt, Username: res.Session.Username})
}

// Logout は呼び出し元のセッションを終了します。以降同じトークンでのリクエストは401になります。
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := jwtmw.SessionIDFrom(c)
	if sid == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not logged in"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), sid); err != nil {
		slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out"})
}
