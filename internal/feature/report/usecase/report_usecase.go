package usecase

import (
	"context"
	"fmt"

	noteentity "sibtech_backend/internal/feature/diseasenote/domain/entity"
	healthentity "sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/report/domain/table"
	scheduleentity "sibtech_backend/internal/feature/schedule/domain/entity"
	trackingentity "sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/shared/identity"
	"sibtech_backend/internal/shared/sortorder"
)

// Format is the export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat accepts "csv" and "xlsx"; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return CSV, nil
	case CSV, XLSX:
		return f, nil
	}
	return "", ErrInvalidFormat
}

// File is a finished export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Encoder renders tables into a single file.
type Encoder interface {
	Encode(tables []table.Table) (*File, error)
}

type MeasurementLister interface {
	ListMeasurements(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]trackingentity.Measurement, error)
}

type TaskLister interface {
	ListTasks(ctx context.Context, sess identity.SessionContext, order sortorder.Order) ([]scheduleentity.Task, error)
}

type PredictionLister interface {
	ListPredictions(ctx context.Context, sess identity.SessionContext) ([]healthentity.PredictionRecord, error)
}

type NoteLister interface {
	ListNotes(ctx context.Context, sess identity.SessionContext) ([]noteentity.Note, error)
}

// Sources are the features an export reads from.
type Sources struct {
	Measurements MeasurementLister
	Tasks        TaskLister
	Predictions  PredictionLister
	Notes        NoteLister
}

type reportUsecase struct {
	src      Sources
	encoders map[Format]Encoder
}

// NewReportUsecase wires one encoder per format. Export is read-only.
func NewReportUsecase(src Sources, csv, xlsx Encoder) *reportUsecase {
	return &reportUsecase{
		src:      src,
		encoders: map[Format]Encoder{CSV: csv, XLSX: xlsx},
	}
}

// Export renders the caller's records of kind in format.
func (u *reportUsecase) Export(ctx context.Context, sess identity.SessionContext, format Format, kind table.Kind) (*File, error) {
	enc, ok := u.encoders[format]
	if !ok {
		return nil, ErrInvalidFormat
	}
	if _, err := table.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	kinds := []table.Kind{kind}
	if kind == table.All {
		kinds = table.Kinds
	}

	tables := make([]table.Table, 0, len(kinds))
	for _, k := range kinds {
		t, err := u.load(ctx, sess, k)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", k, err)
		}
		tables = append(tables, t)
	}
	return enc.Encode(tables)
}

func (u *reportUsecase) load(ctx context.Context, sess identity.SessionContext, k table.Kind) (table.Table, error) {
	switch k {
	case table.Measurements:
		ms, err := u.src.Measurements.ListMeasurements(ctx, sess, sortorder.Asc)
		if err != nil {
			return table.Table{}, err
		}
		return table.FromMeasurements(ms), nil
	case table.Schedule:
		ts, err := u.src.Tasks.ListTasks(ctx, sess, sortorder.Asc)
		if err != nil {
			return table.Table{}, err
		}
		return table.FromTasks(ts), nil
	case table.Predictions:
		ps, err := u.src.Predictions.ListPredictions(ctx, sess)
		if err != nil {
			return table.Table{}, err
		}
		return table.FromPredictions(ps), nil
	case table.Disease:
		ns, err := u.src.Notes.ListNotes(ctx, sess)
		if err != nil {
			return table.Table{}, err
		}
		return table.FromNotes(ns), nil
	}
	return table.Table{}, table.ErrInvalidKind
}
