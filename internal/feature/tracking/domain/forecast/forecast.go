// Package forecast fits a linear growth trend and projects it forward week by week.
package forecast

import (
	"errors"

	"sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/shared/calendar"
)

const (
	// MaxHorizonWeeks bounds how far a projection may reach.
	MaxHorizonWeeks = 104

	daysPerWeek = 7
)

var (
	// ErrInsufficientData is returned when fewer than two measurements exist.
	ErrInsufficientData = errors.New("at least two measurements are needed for a forecast")

	// ErrInvalidHorizon is returned for a horizon outside 1..MaxHorizonWeeks.
	ErrInvalidHorizon = errors.New("forecast horizon must be between 1 and 104 weeks")
)

// line is y = Slope*x + Intercept with x in days since the first measurement.
type line struct {
	Slope     float64
	Intercept float64
}

func (l line) at(x float64) float64 { return l.Slope*x + l.Intercept }

// fit returns the ordinary least-squares line through (xs, ys).
// With zero variance in x the slope is 0 and the line is flat at flatAt.
func fit(xs, ys []float64, flatAt float64) line {
	n := float64(len(xs))
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return line{Slope: 0, Intercept: flatAt}
	}
	slope := sxy / sxx
	return line{Slope: slope, Intercept: my - slope*mx}
}

// Project fits height and leaf count against elapsed days and evaluates the fit
// every 7 days after the last measurement, horizonWeeks times.
// ms must be ordered by date ascending.
func Project(ms []entity.Measurement, horizonWeeks int) ([]entity.ForecastPoint, error) {
	if horizonWeeks < 1 || horizonWeeks > MaxHorizonWeeks {
		return nil, ErrInvalidHorizon
	}
	if len(ms) < 2 {
		return nil, ErrInsufficientData
	}

	first := calendar.Day(ms[0].Date)
	last := ms[len(ms)-1]
	lastDay := calendar.Day(last.Date)

	xs := make([]float64, len(ms))
	heights := make([]float64, len(ms))
	leaves := make([]float64, len(ms))
	for i, m := range ms {
		xs[i] = float64(calendar.DaysBetween(first, m.Date))
		heights[i] = m.Height
		leaves[i] = float64(m.Leaves)
	}
	heightLine := fit(xs, heights, last.Height)
	leafLine := fit(xs, leaves, float64(last.Leaves))

	lastX := float64(calendar.DaysBetween(first, lastDay))
	out := make([]entity.ForecastPoint, 0, horizonWeeks)
	for w := 1; w <= horizonWeeks; w++ {
		days := w * daysPerWeek
		x := lastX + float64(days)
		out = append(out, entity.ForecastPoint{
			Date:   lastDay.AddDate(0, 0, days),
			Height: heightLine.at(x),
			Leaves: leafLine.at(x),
		})
	}
	return out, nil
}

