package models

type ThresholdStatus string

const (
	ThresholdLow        ThresholdStatus = "low"
	ThresholdNormal     ThresholdStatus = "normal"
	ThresholdBorderline ThresholdStatus = "borderline"
	ThresholdElevated   ThresholdStatus = "elevated"
	ThresholdHigh       ThresholdStatus = "high"
)

// VitalAssessment compares one measurement against its reference value.
type VitalAssessment struct {
	Metric    string          `json:"metric"`
	Value     float64         `json:"value"`
	Unit      string          `json:"unit"`
	Status    ThresholdStatus `json:"status"`
	Reference float64         `json:"reference"`
	Delta     float64         `json:"delta"`
}

// RiskFactor is a measurement normalised to its input range, 0-100.
type RiskFactor struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
}

type RecommendationArea string

const (
	AreaNutrition RecommendationArea = "nutrition"
	AreaExercise  RecommendationArea = "exercise"
	AreaFollowUp  RecommendationArea = "follow_up"
	AreaLifestyle RecommendationArea = "lifestyle"
)

type RecommendationLevel string

const (
	LevelSuccess RecommendationLevel = "success"
	LevelInfo    RecommendationLevel = "info"
	LevelWarning RecommendationLevel = "warning"
	LevelUrgent  RecommendationLevel = "urgent"
)

type Recommendation struct {
	Area  RecommendationArea  `json:"area"`
	Level RecommendationLevel `json:"level"`
	Title string              `json:"title"`
	Items []string            `json:"items"`
}

// Assessment is the display-only analysis shown next to a prediction. It
// never influences the predicted label.
type Assessment struct {
	Vitals          []VitalAssessment `json:"vitals"`
	RiskFactors     []RiskFactor      `json:"risk_factors"`
	Recommendations []Recommendation  `json:"recommendations"`
}

func (a *Assessment) Vital(metric string) (VitalAssessment, bool) {
	for _, v := range a.Vitals {
		if v.Metric == metric {
			return v, true
		}
	}
	return VitalAssessment{}, false
}

func (a *Assessment) Recommendation(area RecommendationArea) (Recommendation, bool) {
	for _, r := range a.Recommendations {
		if r.Area == area {
			return r, true
		}
	}
	return Recommendation{}, false
}
