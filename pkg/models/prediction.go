package models

import (
	"fmt"
	"time"
)

type RiskLabel string

const (
	RiskLow  RiskLabel = "LOW"
	RiskHigh RiskLabel = "HIGH"
)

const (
	ClassLowRisk  = 0
	ClassHighRisk = 1
)

// RiskLabelFromClass maps a classifier output to its risk label.
func RiskLabelFromClass(class int) (RiskLabel, error) {
	switch class {
	case ClassLowRisk:
		return RiskLow, nil
	case ClassHighRisk:
		return RiskHigh, nil
	}
	return "", fmt.Errorf("unexpected class %d", class)
}

type ProbabilitySource string

const (
	ProbabilityNeighbors ProbabilitySource = "neighbors"
	ProbabilityDefault   ProbabilitySource = "default"
)

// PredictionResult is the outcome of one inference call. It is never mutated
// after creation and never persisted.
type PredictionResult struct {
	Label             RiskLabel         `json:"label" example:"LOW"`
	Class             int               `json:"class" example:"0"`
	Confidence        float64           `json:"confidence" example:"80"`
	ProbabilitySource ProbabilitySource `json:"probability_source" example:"neighbors"`
	ModelVersion      string            `json:"model_version,omitempty" example:"2.0"`
}

func (r *PredictionResult) IsHighRisk() bool {
	return r.Label == RiskHigh
}

// ModelInfo describes the loaded artifact pair.
type ModelInfo struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Neighbors   int       `json:"neighbors"`
	Metric      string    `json:"metric"`
	Weights     string    `json:"weights"`
	Samples     int       `json:"samples"`
	Features    int       `json:"features"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
}
