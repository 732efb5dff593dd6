// Package table turns the user's records into flat, header-first tables for export.
package table

import (
	"errors"
	"strconv"
	"time"

	noteentity "sibtech_backend/internal/feature/diseasenote/domain/entity"
	healthentity "sibtech_backend/internal/feature/health/domain/entity"
	scheduleentity "sibtech_backend/internal/feature/schedule/domain/entity"
	trackingentity "sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/shared/calendar"
)

// Kind names one exportable table.
type Kind string

const (
	Measurements Kind = "measurements"
	Schedule     Kind = "schedule"
	Predictions  Kind = "predictions"
	Disease      Kind = "disease"
	All          Kind = "all"
)

// Kinds is the export order used for "all".
var Kinds = []Kind{Measurements, Schedule, Predictions, Disease}

// ErrInvalidKind is returned for an unknown table name.
var ErrInvalidKind = errors.New("kind must be one of measurements, schedule, predictions, disease, all")

// ParseKind accepts the four table names and "all".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Measurements, Schedule, Predictions, Disease, All:
		return k, nil
	}
	return "", ErrInvalidKind
}

// Table is a header row plus data rows, all rendered as text.
type Table struct {
	Kind   Kind
	Header []string
	Rows   [][]string
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func FromMeasurements(ms []trackingentity.Measurement) Table {
	t := Table{Kind: Measurements, Header: []string{"id", "user_id", "date", "height", "leaves", "notes", "prune_needed"}}
	for _, m := range ms {
		t.Rows = append(t.Rows, []string{
			id(m.ID), id(m.UserID), calendar.Format(m.Date),
			strconv.FormatFloat(m.Height, 'f', -1, 64), strconv.Itoa(m.Leaves),
			m.Notes, strconv.FormatBool(m.PruneNeeded),
		})
	}
	return t
}

func FromTasks(ts []scheduleentity.Task) Table {
	t := Table{Kind: Schedule, Header: []string{"id", "user_id", "task_name", "date", "notes", "done"}}
	for _, task := range ts {
		t.Rows = append(t.Rows, []string{
			id(task.ID), id(task.UserID), task.TaskName, calendar.Format(task.Date),
			task.Notes, strconv.FormatBool(task.Done),
		})
	}
	return t
}

func FromPredictions(ps []healthentity.PredictionRecord) Table {
	t := Table{Kind: Predictions, Header: []string{"id", "user_id", "file_name", "result_label", "confidence", "date"}}
	for _, p := range ps {
		t.Rows = append(t.Rows, []string{
			id(p.ID), id(p.UserID), p.FileName, p.ResultLabel, p.Confidence, stamp(p.Date),
		})
	}
	return t
}

func FromNotes(ns []noteentity.Note) Table {
	t := Table{Kind: Disease, Header: []string{"id", "user_id", "note", "date"}}
	for _, n := range ns {
		t.Rows = append(t.Rows, []string{id(n.ID), id(n.UserID), n.Note, stamp(n.Date)})
	}
	return t
}
