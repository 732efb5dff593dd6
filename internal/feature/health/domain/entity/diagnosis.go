// Package entity defines the domain models for the health feature.
package entity

import (
	"fmt"
	"time"
)

// Labels produced by the heuristic classifier.
const (
	LabelHealthy         = "Healthy"
	LabelDiseasedPest    = "Diseased/Pest"
	LabelNeedsAttention  = "Needs attention (underwatered/fertilizer)"
	LabelUncertain       = "Uncertain — needs more images"
	LabelModelDiseased   = "Diseased"
	LabelModelPruning    = "Needs Pruning"
	LabelModelUnderwater = "Underwatered"
	LabelUnknown         = "Unknown"
)

// ModelClasses is the output order of the external classifiers.
var ModelClasses = []string{LabelHealthy, LabelModelDiseased, LabelModelPruning, LabelModelUnderwater}

// Diagnosis is the outcome of one classification.
type Diagnosis struct {
	Label      string
	Confidence int    // percent, 0..100
	Source     string // which classifier produced it
}

// ConfidenceText renders the confidence as "NN%".
func (d Diagnosis) ConfidenceText() string {
	return fmt.Sprintf("%d%%", d.Confidence)
}

// PredictionRecord is the stored outcome of a classification for a logged-in user.
type PredictionRecord struct {
	ID          uint
	UserID      uint
	FileName    string
	ResultLabel string
	Confidence  string // "NN%"
	Date        time.Time
}

// ClampPercent truncates v toward zero and clamps it to [0, 100].
func ClampPercent(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// ArgMax maps a score vector onto ModelClasses.
// Index beyond the class list yields LabelUnknown. Ties resolve to the lowest index.
func ArgMax(scores []float64) (string, int) {
	if len(scores) == 0 {
		return LabelUnknown, 0
	}
	idx := 0
	for i, s := range scores {
		if s > scores[idx] {
			idx = i
		}
	}
	conf := ClampPercent(scores[idx] * 100)
	if idx >= len(ModelClasses) {
		return LabelUnknown, conf
	}
	return ModelClasses[idx], conf
}
