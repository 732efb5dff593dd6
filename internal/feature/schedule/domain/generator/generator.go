// Package generator builds the default yearly care plan.
package generator

import (
	"time"

	"sibtech_backend/internal/feature/schedule/domain/entity"
	"sibtech_backend/internal/shared/calendar"
)

// Default task names.
const (
	Watering      = "Watering"
	Fertilization = "Fertilization"
	Pruning       = "Pruning"
	DiseaseCheck  = "Disease Check"
)

// DefaultWeeks is the plan length when the caller does not choose one.
const DefaultWeeks = 52

// rule emits name on every week index divisible by every.
type rule struct {
	name  string
	every int
}

// Emission order inside a week is fixed.
var rules = []rule{
	{Watering, 1},
	{Fertilization, 4},
	{Pruning, 12},
	{DiseaseCheck, 6},
}

// GenerateDefault returns the plan for weeks weeks starting at start.
// Week w is dated start+7w days. Every task is pending and unowned.
func GenerateDefault(start time.Time, weeks int) []entity.Task {
	if weeks <= 0 {
		return nil
	}
	start = calendar.Day(start)
	out := make([]entity.Task, 0, weeks*2)
	for w := 0; w < weeks; w++ {
		d := start.AddDate(0, 0, 7*w)
		for _, r := range rules {
			if w%r.every == 0 {
				out = append(out, entity.Task{TaskName: r.name, Date: d})
			}
		}
	}
	return out
}
