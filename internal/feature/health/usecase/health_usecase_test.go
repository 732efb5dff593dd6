package usecase

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sibtech_backend/internal/feature/health/domain/advice"
	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/shared/identity"
)

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, img image.Image) (entity.Diagnosis, error)
}

func (m *mockClassifier) Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error) {
	return m.ClassifyFunc(ctx, img)
}

type memoryPredictionRepository struct {
	rows      []entity.PredictionRecord
	createErr error
}

func (m *memoryPredictionRepository) Create(ctx context.Context, r *entity.PredictionRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memoryPredictionRepository) ListByUser(ctx context.Context, userID uint) ([]entity.PredictionRecord, error) {
	var out []entity.PredictionRecord
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

var alice = identity.SessionContext{UserID: 1, Username: "alice"}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// oversizedPNG is a 1x1 PNG whose IHDR claims w x h.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func fixedClassifier(d entity.Diagnosis) *mockClassifier {
	return &mockClassifier{ClassifyFunc: func(context.Context, image.Image) (entity.Diagnosis, error) {
		return d, nil
	}}
}

func TestHealthUsecase_Classify_Validation(t *testing.T) {
	uc := NewHealthUsecase(fixedClassifier(entity.Diagnosis{Label: entity.LabelHealthy}), &memoryPredictionRepository{})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty", data: nil, wantErr: ErrEmptyImage},
		{name: "too large", data: make([]byte, MaxImageSize+1), wantErr: ErrImageTooLarge},
		{name: "not an image", data: []byte("%PDF-1.4 definitely not a photo"), wantErr: ErrUnsupportedImage},
		{name: "tiny file, huge header", data: oversizedPNG(t, 12000, 12000), wantErr: ErrImageDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := uc.Classify(context.Background(), tt.data)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHealthUsecase_Classify_AttachesAdvice(t *testing.T) {
	d := entity.Diagnosis{Label: entity.LabelModelUnderwater, Confidence: 77, Source: "model"}
	repo := &memoryPredictionRepository{}
	uc := NewHealthUsecase(fixedClassifier(d), repo)

	res, err := uc.Classify(context.Background(), pngBytes(t))

	require.NoError(t, err)
	assert.Equal(t, d, res.Diagnosis)
	assert.Equal(t, advice.For(d.Label), res.Advice)
	assert.Nil(t, res.Record)
	assert.Empty(t, repo.rows, "classify alone stores nothing")
}

func TestHealthUsecase_Classify_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	uc := NewHealthUsecase(&mockClassifier{ClassifyFunc: func(context.Context, image.Image) (entity.Diagnosis, error) {
		return entity.Diagnosis{}, boom
	}}, &memoryPredictionRepository{})

	_, err := uc.Classify(context.Background(), pngBytes(t))

	assert.ErrorIs(t, err, boom)
}

func TestHealthUsecase_Diagnose(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &memoryPredictionRepository{}
	uc := NewHealthUsecase(fixedClassifier(entity.Diagnosis{Label: entity.LabelHealthy, Confidence: 93, Source: "heuristic"}), repo)
	uc.now = func() time.Time { return now }

	res, err := uc.Diagnose(context.Background(), alice, `C:\photos\leaf.png`, pngBytes(t))

	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, uint(1), res.Record.ID)
	assert.Equal(t, "leaf.png", res.Record.FileName)
	assert.Equal(t, entity.LabelHealthy, res.Record.ResultLabel)
	assert.Equal(t, "93%", res.Record.Confidence)
	assert.Equal(t, now, res.Record.Date)
	assert.Equal(t, alice.UserID, res.Record.UserID)
	require.Len(t, repo.rows, 1)
}

func TestHealthUsecase_Diagnose_InvalidImageStoresNothing(t *testing.T) {
	repo := &memoryPredictionRepository{}
	uc := NewHealthUsecase(fixedClassifier(entity.Diagnosis{}), repo)

	_, err := uc.Diagnose(context.Background(), alice, "x.png", []byte("nope"))

	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Empty(t, repo.rows)
}

func TestHealthUsecase_Diagnose_StoreError(t *testing.T) {
	repo := &memoryPredictionRepository{createErr: errors.New("disk full")}
	uc := NewHealthUsecase(fixedClassifier(entity.Diagnosis{Label: entity.LabelHealthy}), repo)

	_, err := uc.Diagnose(context.Background(), alice, "x.png", pngBytes(t))

	assert.ErrorIs(t, err, repo.createErr)
}

func TestHealthUsecase_ListPredictions(t *testing.T) {
	repo := &memoryPredictionRepository{}
	uc := NewHealthUsecase(fixedClassifier(entity.Diagnosis{Label: entity.LabelHealthy, Confidence: 60}), repo)
	ctx := context.Background()

	empty, err := uc.ListPredictions(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"first.png", "second.png"} {
		_, err := uc.Diagnose(ctx, alice, name, pngBytes(t))
		require.NoError(t, err)
	}
	_, err = uc.Diagnose(ctx, identity.SessionContext{UserID: 2}, "other.png", pngBytes(t))
	require.NoError(t, err)

	got, err := uc.ListPredictions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second.png", got[0].FileName)
}

func TestCleanFileName(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tests := []struct {
		in   string
		want string
	}{
		{in: "leaf.jpg", want: "leaf.jpg"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\leaf.png`, want: "leaf.png"},
		{in: "", want: "img_1700000000"},
		{in: "   ", want: "img_1700000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanFileName(tt.in, now), tt.in)
	}
}
