// Package api holds the response envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body returned with any 4xx/5xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
