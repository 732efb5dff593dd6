package modelserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"

	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/domain/raster"
	"sibtech_backend/internal/feature/health/usecase"
	"sibtech_backend/internal/shared/ratelimiter"
)

// Source names this classifier in diagnoses.
const Source = "model"

// ErrEmptyPrediction is returned when the server answers without any scores.
var ErrEmptyPrediction = errors.New("modelserver: empty prediction")

// Client classifies through the TensorFlow Serving REST API.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.HealthClassifier = (*Client)(nil)

// NewClient builds a Client. limiter may be nil.
// limiter may be nil.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	if cfg.InputSize <= 0 {
		cfg.InputSize = raster.DefaultSize
	}
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

func (c *Client) modelURL() string {
	return fmt.Sprintf("%s/v1/models/%s", c.cfg.BaseURL, url.PathEscape(c.cfg.ModelName))
}

// Classify resizes img, sends it as a single instance and picks the highest score.
func (c *Client) Classify(ctx context.Context, img image.Image) (entity.Diagnosis, error) {
	pixels := raster.Normalize(raster.Resize(img, c.cfg.InputSize))
	payload, err := json.Marshal(predictRequest{Instances: [][][][3]float32{pixels}})
	if err != nil {
		return entity.Diagnosis{}, err
	}

	if c.limiter != nil {
		c.limiter.WaitIfNeeded()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+":predict", bytes.NewReader(payload))
	if err != nil {
		return entity.Diagnosis{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return entity.Diagnosis{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.Diagnosis{}, fmt.Errorf("modelserver http %d", res.StatusCode)
	}

	var body predictResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Diagnosis{}, err
	}
	if body.Error != "" {
		return entity.Diagnosis{}, fmt.Errorf("modelserver: %s", body.Error)
	}
	if len(body.Predictions) == 0 || len(body.Predictions[0]) == 0 {
		return entity.Diagnosis{}, ErrEmptyPrediction
	}

	label, conf := entity.ArgMax(body.Predictions[0])
	return entity.Diagnosis{Label: label, Confidence: conf, Source: Source}, nil
}

// Ping checks the model status endpoint and reports an error unless some version is AVAILABLE.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("modelserver status http %d", res.StatusCode)
	}
	var body modelStatusResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return err
	}
	for _, v := range body.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("modelserver: model %q not available", c.cfg.ModelName)
}
