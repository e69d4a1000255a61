package encoder

import "github.com/OldStager01/cardio-risk/pkg/models"

// Category is one entry of a closed label table.
type Category struct {
	Label string `json:"label"`
	Code  int    `json:"code"`
}

// Bounds are the input widget limits for a numeric feature.
type Bounds struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
	Unit    string  `json:"unit,omitempty"`
}

// categories lists every label table in form display order.
var categories = map[models.Feature][]Category{
	models.FeatureSex: {
		{Label: "Male", Code: 1},
		{Label: "Female", Code: 0},
	},
	models.FeatureChestPain: {
		{Label: "Typical Angina", Code: 0},
		{Label: "Atypical Angina", Code: 1},
		{Label: "Non-Anginal Pain", Code: 2},
		{Label: "Asymptomatic", Code: 3},
	},
	models.FeatureFastingBloodSugar: {
		{Label: "No", Code: 0},
		{Label: "Yes", Code: 1},
	},
	models.FeatureRestingECG: {
		{Label: "Normal", Code: 0},
		{Label: "ST-T Wave Abnormality", Code: 1},
		{Label: "Left Ventricular Hypertrophy", Code: 2},
	},
	models.FeatureExerciseAngina: {
		{Label: "No", Code: 0},
		{Label: "Yes", Code: 1},
	},
	models.FeatureSTSlope: {
		{Label: "Upsloping", Code: 0},
		{Label: "Flat", Code: 1},
		{Label: "Downsloping", Code: 2},
	},
	models.FeatureMajorVessels: {
		{Label: "No major vessels", Code: 0},
		{Label: "One major vessel", Code: 1},
		{Label: "Two major vessels", Code: 2},
		{Label: "Three major vessels", Code: 3},
		{Label: "Four major vessels", Code: 4},
	},
	models.FeatureThalassemia: {
		{Label: "Normal", Code: 1},
		{Label: "Fixed Defect", Code: 2},
		{Label: "Reversible Defect", Code: 3},
	},
}

var bounds = map[models.Feature]Bounds{
	models.FeatureAge:          {Min: 20, Max: 100, Step: 1, Default: 45, Unit: "years"},
	models.FeatureRestingBP:    {Min: 80, Max: 200, Step: 1, Default: 120, Unit: "mmHg"},
	models.FeatureCholesterol:  {Min: 100, Max: 600, Step: 1, Default: 200, Unit: "mg/dl"},
	models.FeatureMaxHeartRate: {Min: 60, Max: 220, Step: 1, Default: 150, Unit: "bpm"},
	models.FeatureSTDepression: {Min: 0, Max: 6, Step: 0.1, Default: 1.0},
}

// DisplayName is the human name of each feature, as shown on the form and in reports.
var DisplayName = map[models.Feature]string{
	models.FeatureAge:               "Age",
	models.FeatureSex:               "Sex",
	models.FeatureChestPain:         "Chest Pain Type",
	models.FeatureRestingBP:         "Resting BP",
	models.FeatureCholesterol:       "Cholesterol",
	models.FeatureFastingBloodSugar: "Fasting Blood Sugar",
	models.FeatureRestingECG:        "Resting ECG",
	models.FeatureMaxHeartRate:      "Max Heart Rate",
	models.FeatureExerciseAngina:    "Exercise Angina",
	models.FeatureSTDepression:      "ST Depression",
	models.FeatureSTSlope:           "ST Slope",
	models.FeatureMajorVessels:      "Major Vessels",
	models.FeatureThalassemia:       "Thalassemia",
}

// Categories returns a copy of the label table for a categorical feature.
func Categories(f models.Feature) ([]Category, bool) {
	table, ok := categories[f]
	if !ok {
		return nil, false
	}
	out := make([]Category, len(table))
	copy(out, table)
	return out, true
}

// NumericBounds returns the widget bounds of a numeric feature.
func NumericBounds(f models.Feature) (Bounds, bool) {
	b, ok := bounds[f]
	return b, ok
}

// FieldOptions describes one form field.
type FieldOptions struct {
	Feature models.Feature `json:"feature"`
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Labels  []string       `json:"labels,omitempty"`
	Bounds  *Bounds        `json:"bounds,omitempty"`
}

// Options lists every form field in model order.
func Options() []FieldOptions {
	out := make([]FieldOptions, 0, models.NumFeatures)
	for _, f := range models.FeatureOrder {
		opt := FieldOptions{Feature: f, Name: DisplayName[f]}
		if models.IsCategorical(f) {
			opt.Kind = "categorical"
			for _, c := range categories[f] {
				opt.Labels = append(opt.Labels, c.Label)
			}
		} else {
			b := bounds[f]
			opt.Kind = "numeric"
			opt.Bounds = &b
		}
		out = append(out, opt)
	}
	return out
}

// Defaults returns the form's initial values. Categorical fields take the
// first label of their table.
func Defaults() models.PatientFeatures {
	first := func(f models.Feature) string { return categories[f][0].Label }
	return models.PatientFeatures{
		Age:               bounds[models.FeatureAge].Default,
		Sex:               first(models.FeatureSex),
		ChestPain:         first(models.FeatureChestPain),
		RestingBP:         bounds[models.FeatureRestingBP].Default,
		Cholesterol:       bounds[models.FeatureCholesterol].Default,
		FastingBloodSugar: first(models.FeatureFastingBloodSugar),
		RestingECG:        first(models.FeatureRestingECG),
		MaxHeartRate:      bounds[models.FeatureMaxHeartRate].Default,
		ExerciseAngina:    first(models.FeatureExerciseAngina),
		STDepression:      bounds[models.FeatureSTDepression].Default,
		STSlope:           first(models.FeatureSTSlope),
		MajorVessels:      first(models.FeatureMajorVessels),
		Thalassemia:       first(models.FeatureThalassemia),
	}
}
