// Package analyzer derives the display-only clinical assessment that
// accompanies a prediction: vital statuses, normalised risk factors and
// recommendation groups. Nothing here feeds back into the model input.
package analyzer

import (
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

const (
	MetricBloodPressure = "blood_pressure"
	MetricCholesterol   = "cholesterol"
	MetricMaxHeartRate  = "max_heart_rate"
)

type Config struct {
	BPLow          float64
	BPHigh         float64
	BPReference    float64
	CholBorderline float64
	CholHigh       float64
	HRNormalMin    float64
	HRNormalMax    float64
	HRReference    float64
	LowExerciseHR  float64
}

type Analyzer struct {
	config Config
}

func New(cfg Config) *Analyzer {
	if cfg.BPLow == 0 {
		cfg.BPLow = 90
	}
	if cfg.BPHigh == 0 {
		cfg.BPHigh = 130
	}
	if cfg.BPReference == 0 {
		cfg.BPReference = 120
	}
	if cfg.CholBorderline == 0 {
		cfg.CholBorderline = 200
	}
	if cfg.CholHigh == 0 {
		cfg.CholHigh = 240
	}
	if cfg.HRNormalMin == 0 {
		cfg.HRNormalMin = 60
	}
	if cfg.HRNormalMax == 0 {
		cfg.HRNormalMax = 100
	}
	if cfg.HRReference == 0 {
		cfg.HRReference = 150
	}
	if cfg.LowExerciseHR == 0 {
		cfg.LowExerciseHR = 100
	}

	return &Analyzer{config: cfg}
}

func (a *Analyzer) Analyze(features models.PatientFeatures, result *models.PredictionResult) *models.Assessment {
	assessment := &models.Assessment{
		Vitals: []models.VitalAssessment{
			a.bloodPressure(features.RestingBP),
			a.cholesterol(features.Cholesterol),
			a.heartRate(features.MaxHeartRate),
		},
		RiskFactors:     RiskFactors(features),
		Recommendations: a.recommend(features, result),
	}

	logger.WithFields(map[string]interface{}{
		"bp_status":   assessment.Vitals[0].Status,
		"chol_status": assessment.Vitals[1].Status,
		"hr_status":   assessment.Vitals[2].Status,
	}).Debug("Assessment complete")

	return assessment
}

func (a *Analyzer) bloodPressure(bp float64) models.VitalAssessment {
	status := models.ThresholdNormal
	switch {
	case bp > a.config.BPHigh:
		status = models.ThresholdHigh
	case bp < a.config.BPLow:
		status = models.ThresholdLow
	}
	return models.VitalAssessment{
		Metric:    MetricBloodPressure,
		Value:     bp,
		Unit:      "mmHg",
		Status:    status,
		Reference: a.config.BPReference,
		Delta:     bp - a.config.BPReference,
	}
}

func (a *Analyzer) cholesterol(chol float64) models.VitalAssessment {
	status := models.ThresholdNormal
	switch {
	case chol >= a.config.CholHigh:
		status = models.ThresholdHigh
	case chol >= a.config.CholBorderline:
		status = models.ThresholdBorderline
	}
	return models.VitalAssessment{
		Metric:    MetricCholesterol,
		Value:     chol,
		Unit:      "mg/dl",
		Status:    status,
		Reference: a.config.CholBorderline,
		Delta:     chol - a.config.CholBorderline,
	}
}

func (a *Analyzer) heartRate(hr float64) models.VitalAssessment {
	status := models.ThresholdElevated
	if hr >= a.config.HRNormalMin && hr <= a.config.HRNormalMax {
		status = models.ThresholdNormal
	}
	return models.VitalAssessment{
		Metric:    MetricMaxHeartRate,
		Value:     hr,
		Unit:      "bpm",
		Status:    status,
		Reference: a.config.HRReference,
		Delta:     hr - a.config.HRReference,
	}
}

// RiskFactors scales five measurements to 0-100 over their input ranges.
func RiskFactors(f models.PatientFeatures) []models.RiskFactor {
	return []models.RiskFactor{
		{Name: "Age", Intensity: intensity(f.Age, 20, 80)},
		{Name: "Blood Pressure", Intensity: intensity(f.RestingBP, 80, 120)},
		{Name: "Cholesterol", Intensity: intensity(f.Cholesterol, 100, 500)},
		{Name: "Heart Rate", Intensity: intensity(f.MaxHeartRate, 60, 160)},
		{Name: "ST Depression", Intensity: intensity(f.STDepression, 0, 6)},
	}
}

func intensity(v, offset, span float64) float64 {
	pct := (v - offset) / span * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
