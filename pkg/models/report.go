package models

import "time"

// ReportRow is one line of the parameter table.
type ReportRow struct {
	Parameter string  `json:"parameter"`
	Feature   Feature `json:"feature"`
	Value     string  `json:"value"`
}

// Report is the diagnostic summary returned with a prediction. It is built
// per request and not stored.
type Report struct {
	ID           string            `json:"id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Parameters   []ReportRow       `json:"parameters"`
	Prediction   *PredictionResult `json:"prediction"`
	Assessment   *Assessment       `json:"assessment"`
	Model        ModelInfo         `json:"model"`
	FeatureCount int               `json:"feature_count"`
	Disclaimer   string            `json:"disclaimer"`
}
