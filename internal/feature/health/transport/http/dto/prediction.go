// Package dto defines the JSON bodies of the prediction endpoints.
package dto

// DiagnosisRes is returned by POST /predictions and POST /demo/:id/predict.
type DiagnosisRes struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
	Advice     string `json:"advice"`
	Source     string `json:"source"`
	FileName   string `json:"file_name,omitempty"`
}

// PredictionRes is one stored prediction.
type PredictionRes struct {
	ID          uint   `json:"id"`
	FileName    string `json:"file_name"`
	ResultLabel string `json:"result_label"`
	Confidence  string `json:"confidence"`
	Date        string `json:"date"` // RFC3339
}
