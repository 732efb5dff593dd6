package dto

import "time"

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRes は/loginの成功レスポンスです。
type TokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}
