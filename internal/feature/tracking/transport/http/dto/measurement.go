// Package dto defines the JSON bodies of the tracking endpoints.
package dto

// MeasurementReq is the body of POST /measurements.
// Height and leaves are pointers so that a missing field is distinguishable from zero.
type MeasurementReq struct {
	Date        string   `json:"date" binding:"required"`
	Height      *float64 `json:"height" binding:"required"`
	Leaves      *int     `json:"leaves" binding:"required"`
	Notes       string   `json:"notes"`
	PruneNeeded bool     `json:"prune_needed"`
}

// MeasurementRes is one measurement as returned by the API.
type MeasurementRes struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Height      float64 `json:"height"`
	Leaves      int     `json:"leaves"`
	Notes       string  `json:"notes"`
	PruneNeeded bool    `json:"prune_needed"`
}

// ForecastPointRes is one projected week.
type ForecastPointRes struct {
	Date   string  `json:"date"`
	Height float64 `json:"height"`
	Leaves float64 `json:"leaves"`
}
