// Package vision estimates seedling health from Google Cloud Vision label detection.
package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/domain/raster"
	"sibtech_backend/internal/feature/health/usecase"
)

// Source names this classifier in diagnoses.
const Source = "vision"

const maxLabels = 20

// ErrNoMatchingLabel is returned when none of the detected labels maps onto a class.
var ErrNoMatchingLabel = errors.New("vision: no label matches a seedling class")

// classKeywords is ordered like ModelClasses.
var classKeywords = [][]string{
	{"leaf", "green", "plant", "seedling", "foliage", "vegetation", "tree"},
	{"disease", "fungus", "mold", "mould", "blight", "rust", "scab", "pest", "insect", "spot", "rot"},
	{"branch", "twig", "shrub", "hedge", "overgrown"},
	{"wilt", "dry", "drought", "withered", "dead", "brown"},
}

type annotateFunc func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)

// Classifier implements usecase.HealthClassifier on top of LABEL_DETECTION.
type Classifier struct {
	annotate annotateFunc
	close    func() error
	size     int
}

var _ usecase.HealthClassifier = (*Classifier)(nil)

// NewClassifier creates a client using Application Default Credentials.
func NewClassifier(ctx context.Context) (*Classifier, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Classifier{
		annotate: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
			return client.BatchAnnotateImages(ctx, req)
		},
		close: client.Close,
		size:  raster.DefaultSize,
	}, nil
}

// Close releases the Vision client.
func (c *Classifier) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Classify sends a downsized JPEG to Vision and turns the returned labels into a class score vector.
func (c *Classifier) Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, raster.Resize(img, c.size), &jpeg.Options{Quality: 90}); err != nil {
		return entity.Diagnosis{}, fmt.Errorf("encode image: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: buf.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxLabels},
				},
			},
		},
	}

	resp, err := c.annotate(ctx, req)
	if err != nil {
		return entity.Diagnosis{}, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return entity.Diagnosis{}, ErrNoMatchingLabel
	}
	first := resp.GetResponses()[0]
	if first.GetError() != nil {
		return entity.Diagnosis{}, fmt.Errorf("vision API error: %s", first.GetError().GetMessage())
	}

	scores, ok := Scores(first.GetLabelAnnotations())
	if !ok {
		return entity.Diagnosis{}, ErrNoMatchingLabel
	}
	label, conf := entity.ArgMax(scores)
	return entity.Diagnosis{Label: label, Confidence: conf, Source: Source}, nil
}

// Scores maps label annotations onto entity.ModelClasses.
// Each class takes the best score among the labels mentioning one of its keywords.
// ok is false when no label matched at all.
func Scores(labels []*visionpb.EntityAnnotation) (scores []float64, ok bool) {
	scores = make([]float64, len(classKeywords))
	for _, l := range labels {
		desc := strings.ToLower(l.GetDescription())
		for i, kws := range classKeywords {
			for _, kw := range kws {
				if strings.Contains(desc, kw) {
					ok = true
					if s := float64(l.GetScore()); s > scores[i] {
						scores[i] = s
					}
					break
				}
			}
		}
	}
	return scores, ok
}
