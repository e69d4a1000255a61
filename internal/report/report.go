// Package report assembles the diagnostic summary returned next to a
// prediction. Reports are built per request and never stored.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

const Disclaimer = "This AI-powered analysis is a supplementary diagnostic tool and should not replace " +
	"professional medical advice, diagnosis, or treatment. Always consult qualified healthcare providers " +
	"for medical decisions. This system is designed for informational and educational purposes only."

// Builder creates reports. Now and NewID default to the wall clock and a
// random UUID.
type Builder struct {
	Now   func() time.Time
	NewID func() string
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now, NewID: uuid.NewString}
}

func (b *Builder) Build(features models.PatientFeatures, result *models.PredictionResult, assessment *models.Assessment, info models.ModelInfo) *models.Report {
	return &models.Report{
		ID:           b.NewID(),
		GeneratedAt:  b.Now().UTC(),
		Parameters:   Rows(features),
		Prediction:   result,
		Assessment:   assessment,
		Model:        info,
		FeatureCount: models.NumFeatures,
		Disclaimer:   Disclaimer,
	}
}

// Rows renders the thirteen inputs in model order with their units.
func Rows(f models.PatientFeatures) []models.ReportRow {
	rows := make([]models.ReportRow, 0, models.NumFeatures)
	for _, feature := range models.FeatureOrder {
		rows = append(rows, models.ReportRow{
			Parameter: encoder.DisplayName[feature],
			Feature:   feature,
			Value:     formatValue(f, feature),
		})
	}
	return rows
}

func formatValue(f models.PatientFeatures, feature models.Feature) string {
	switch feature {
	case models.FeatureAge:
		return withUnit(f.Age, "years")
	case models.FeatureRestingBP:
		return withUnit(f.RestingBP, "mmHg")
	case models.FeatureCholesterol:
		return withUnit(f.Cholesterol, "mg/dl")
	case models.FeatureMaxHeartRate:
		return withUnit(f.MaxHeartRate, "bpm")
	case models.FeatureSTDepression:
		return number(f.STDepression)
	}
	label, _ := f.Label(feature)
	return label
}

func withUnit(v float64, unit string) string {
	return fmt.Sprintf("%s %s", number(v), unit)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
