// Package entity defines the domain models for the care schedule.
package entity

import "time"

// Task is one scheduled care action. Done is the only field that changes after creation.
type Task struct {
	ID       uint
	UserID   uint
	TaskName string
	Date     time.Time // calendar date, UTC midnight
	Notes    string
	Done     bool
}
