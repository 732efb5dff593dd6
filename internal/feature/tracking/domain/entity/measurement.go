// Package entity defines the domain models for the tracking feature.
package entity

import "time"

// Measurement is one observation of a seedling. Immutable once stored.
type Measurement struct {
	ID          uint
	UserID      uint
	Date        time.Time // calendar date, UTC midnight
	Height      float64   // centimetres, >= 0
	Leaves      int       // >= 0
	Notes       string
	PruneNeeded bool
}

// ForecastPoint is one projected value of the fitted trend.
type ForecastPoint struct {
	Date   time.Time
	Height float64
	Leaves float64
}
