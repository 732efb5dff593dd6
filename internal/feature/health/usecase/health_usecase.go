package usecase

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"sibtech_backend/internal/feature/health/domain/advice"
	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/domain/raster"
	"sibtech_backend/internal/shared/identity"
)

// MaxImageSize is the upload limit (10 MiB).
const MaxImageSize = 10 * 1024 * 1024

// HealthClassifier labels a seedling photo.
// Defined on the consumer side.
type HealthClassifier interface {
	Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error)
}

// PredictionRepository stores PredictionRecords.
type PredictionRepository interface {
	Create(ctx context.Context, r *entity.PredictionRecord) error
	// ListByUser returns the user's records newest first.
	ListByUser(ctx context.Context, userID uint) ([]entity.PredictionRecord, error)
}

// Result is what a diagnosis returns to the caller.
type Result struct {
	Diagnosis entity.Diagnosis
	Advice    string
	Record    *entity.PredictionRecord // nil when nothing was stored
}

type healthUsecase struct {
	classifier HealthClassifier
	records    PredictionRepository
	now        func() time.Time
}

// NewHealthUsecase wires the classifier and the prediction store.
func NewHealthUsecase(classifier HealthClassifier, records PredictionRepository) *healthUsecase {
	return &healthUsecase{classifier: classifier, records: records, now: time.Now}
}

// Classify validates and classifies an upload without storing anything.
func (u *healthUsecase) Classify(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	img, _, err := raster.Decode(data)
	if err != nil {
		return nil, err
	}
	d, err := u.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	return &Result{Diagnosis: d, Advice: advice.For(d.Label)}, nil
}

// Diagnose classifies an upload for a logged-in user and appends a PredictionRecord.
func (u *healthUsecase) Diagnose(ctx context.Context, sess identity.SessionContext, fileName string, data []byte) (*Result, error) {
	res, err := u.Classify(ctx, data)
	if err != nil {
		return nil, err
	}
	rec := &entity.PredictionRecord{
		UserID:      sess.UserID,
		FileName:    cleanFileName(fileName, u.now()),
		ResultLabel: res.Diagnosis.Label,
		Confidence:  res.Diagnosis.ConfidenceText(),
		Date:        u.now(),
	}
	if err := u.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}
	res.Record = rec
	return res, nil
}

// ListPredictions returns the user's history newest first. Never nil.
func (u *healthUsecase) ListPredictions(ctx context.Context, sess identity.SessionContext) ([]entity.PredictionRecord, error) {
	rs, err := u.records.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []entity.PredictionRecord{}
	}
	return rs, nil
}

// cleanFileName keeps the base name of the upload, or invents one when missing.
func cleanFileName(name string, now time.Time) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("img_%d", now.Unix())
	}
	return name
}
