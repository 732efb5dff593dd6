// Package modelserver classifies seedling photos with a TensorFlow Serving REST endpoint.
package modelserver

import "time"

// Config holds the model server connection settings.
type Config struct {
	BaseURL   string        // e.g. "http://localhost:8501"
	ModelName string        // served model name, e.g. "seedling_model"
	InputSize int           // square edge the model expects
	Timeout   time.Duration // HTTP request timeout
}
