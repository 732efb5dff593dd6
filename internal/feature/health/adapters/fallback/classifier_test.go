package fallback

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sibtech_backend/internal/feature/health/domain/entity"
)

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, img image.Image) (entity.Diagnosis, error)
	calls        int
}

func (m *mockClassifier) Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error) {
	m.calls++
	return m.ClassifyFunc(ctx, img)
}

func TestClassifier_Classify(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	modelResult := entity.Diagnosis{Label: entity.LabelModelPruning, Confidence: 80, Source: "model"}
	heuristicResult := entity.Diagnosis{Label: entity.LabelUncertain, Confidence: 50, Source: "heuristic"}

	tests := []struct {
		name           string
		primaryErr     error
		want           entity.Diagnosis
		wantSecondCall int
	}{
		{name: "primary succeeds", want: modelResult},
		{name: "primary fails", primaryErr: errors.New("connection refused"), want: heuristicResult, wantSecondCall: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &mockClassifier{ClassifyFunc: func(context.Context, image.Image) (entity.Diagnosis, error) {
				if tt.primaryErr != nil {
					return entity.Diagnosis{}, tt.primaryErr
				}
				return modelResult, nil
			}}
			secondary := &mockClassifier{ClassifyFunc: func(context.Context, image.Image) (entity.Diagnosis, error) {
				return heuristicResult, nil
			}}

			got, err := New(primary, secondary).Classify(context.Background(), img)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, primary.calls)
			assert.Equal(t, tt.wantSecondCall, secondary.calls)
		})
	}
}
