package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

func TestRiskLabelFromClass(t *testing.T) {
	tests := []struct {
		name    string
		class   int
		want    models.RiskLabel
		wantErr bool
	}{
		{"low risk", models.ClassLowRisk, models.RiskLow, false},
		{"high risk", models.ClassHighRisk, models.RiskHigh, false},
		{"unknown class", 2, "", true},
		{"negative class", -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.RiskLabelFromClass(tt.class)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictionResult_IsHighRisk(t *testing.T) {
	assert.True(t, (&models.PredictionResult{Label: models.RiskHigh}).IsHighRisk())
	assert.False(t, (&models.PredictionResult{Label: models.RiskLow}).IsHighRisk())
}

func TestFeatureOrder_CoversEveryFeatureOnce(t *testing.T) {
	seen := make(map[models.Feature]bool)
	numeric := 0
	for _, f := range models.FeatureOrder {
		assert.False(t, seen[f], "duplicate feature %s", f)
		seen[f] = true
		assert.NotEmpty(t, models.TrainingColumn[f], "missing training column for %s", f)
		if !models.IsCategorical(f) {
			numeric++
		}
	}
	assert.Len(t, seen, models.NumFeatures)
	assert.Equal(t, 5, numeric)
}

func TestPatientFeatures_Accessors(t *testing.T) {
	var p models.PatientFeatures

	for i, f := range models.FeatureOrder {
		if models.IsCategorical(f) {
			assert.False(t, p.SetNumeric(f, 1), f)
			require.True(t, p.SetLabel(f, string(f)), f)
			continue
		}
		assert.False(t, p.SetLabel(f, "x"), f)
		require.True(t, p.SetNumeric(f, float64(i)), f)
	}

	for i, f := range models.FeatureOrder {
		if models.IsCategorical(f) {
			label, ok := p.Label(f)
			require.True(t, ok)
			assert.Equal(t, string(f), label)
			_, ok = p.Numeric(f)
			assert.False(t, ok)
			continue
		}
		v, ok := p.Numeric(f)
		require.True(t, ok)
		assert.Equal(t, float64(i), v)
		_, ok = p.Label(f)
		assert.False(t, ok)
	}
}

func TestEvent_Builders(t *testing.T) {
	e := models.NewEvent(models.EventTypeInferenceFailed, "trace-1", "failed").
		WithSeverity(models.SeverityWarning).
		WithData(models.InferenceFailure{Stage: models.StageEncoding, Kind: "invalid_category"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "trace-1", e.TraceID)
	assert.Equal(t, models.SeverityWarning, e.Severity)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, models.StageEncoding, e.Data.(models.InferenceFailure).Stage)
}

func TestAssessment_Lookup(t *testing.T) {
	a := &models.Assessment{
		Vitals:          []models.VitalAssessment{{Metric: "cholesterol"}},
		Recommendations: []models.Recommendation{{Area: models.AreaNutrition}},
	}

	_, ok := a.Vital("cholesterol")
	assert.True(t, ok)
	_, ok = a.Vital("blood_pressure")
	assert.False(t, ok)

	_, ok = a.Recommendation(models.AreaNutrition)
	assert.True(t, ok)
	_, ok = a.Recommendation(models.AreaExercise)
	assert.False(t, ok)
}
