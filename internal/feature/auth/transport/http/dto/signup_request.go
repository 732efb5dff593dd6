// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /signup endpoint.
// Blank usernames are rejected by the usecase, not by binding.
type SignupReq struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}
