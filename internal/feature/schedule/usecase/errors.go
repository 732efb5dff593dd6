// Package usecase implements the care schedule.
package usecase

import "errors"

var (
	// ErrInvalidTask is returned when the task name is empty or whitespace.
	ErrInvalidTask = errors.New("task name is required")

	// ErrInvalidDate is returned when a task or plan has no date.
	ErrInvalidDate = errors.New("date is required")

	// ErrInvalidWeeks is returned when a generated plan would be shorter than one week or longer than 104.
	ErrInvalidWeeks = errors.New("weeks must be between 1 and 104")

	// ErrTaskNotFound is returned when the task does not exist or belongs to another user.
	ErrTaskNotFound = errors.New("task not found")
)
