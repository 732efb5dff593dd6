// Package dto defines the JSON bodies of the schedule endpoints.
package dto

// TaskReq is the body of POST /schedule.
type TaskReq struct {
	TaskName string `json:"task_name"`
	Date     string `json:"date" binding:"required"`
	Notes    string `json:"notes"`
}

// ToggleReq is the body of PATCH /schedule/:id.
type ToggleReq struct {
	Done *bool `json:"done" binding:"required"`
}

// GenerateReq is the body of POST /schedule/generate. Weeks defaults to 52.
type GenerateReq struct {
	StartDate string `json:"start_date" binding:"required"`
	Weeks     int    `json:"weeks"`
}

// TaskRes is one task as returned by the API.
type TaskRes struct {
	ID       uint   `json:"id"`
	TaskName string `json:"task_name"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
	Done     bool   `json:"done"`
}
