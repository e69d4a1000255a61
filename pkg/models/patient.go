package models

// Feature names a column of the model input.
type Feature string

const (
	FeatureAge               Feature = "age"
	FeatureSex               Feature = "sex"
	FeatureChestPain         Feature = "chest_pain"
	FeatureRestingBP         Feature = "resting_bp"
	FeatureCholesterol       Feature = "cholesterol"
	FeatureFastingBloodSugar Feature = "fasting_blood_sugar"
	FeatureRestingECG        Feature = "resting_ecg"
	FeatureMaxHeartRate      Feature = "max_heart_rate"
	FeatureExerciseAngina    Feature = "exercise_angina"
	FeatureSTDepression      Feature = "st_depression"
	FeatureSTSlope           Feature = "st_slope"
	FeatureMajorVessels      Feature = "major_vessels"
	FeatureThalassemia       Feature = "thalassemia"
)

const NumFeatures = 13

// FeatureOrder is the column order the scaler and classifier were fit on.
// Every encoded vector follows it; changing it silently corrupts predictions.
var FeatureOrder = [NumFeatures]Feature{
	FeatureAge,
	FeatureSex,
	FeatureChestPain,
	FeatureRestingBP,
	FeatureCholesterol,
	FeatureFastingBloodSugar,
	FeatureRestingECG,
	FeatureMaxHeartRate,
	FeatureExerciseAngina,
	FeatureSTDepression,
	FeatureSTSlope,
	FeatureMajorVessels,
	FeatureThalassemia,
}

// TrainingColumn maps features to the column names used by the training dataset.
var TrainingColumn = map[Feature]string{
	FeatureAge:               "age",
	FeatureSex:               "sex",
	FeatureChestPain:         "cp",
	FeatureRestingBP:         "trestbps",
	FeatureCholesterol:       "chol",
	FeatureFastingBloodSugar: "fbs",
	FeatureRestingECG:        "restecg",
	FeatureMaxHeartRate:      "thalach",
	FeatureExerciseAngina:    "exang",
	FeatureSTDepression:      "oldpeak",
	FeatureSTSlope:           "slope",
	FeatureMajorVessels:      "ca",
	FeatureThalassemia:       "thal",
}

// PatientFeatures holds the thirteen form inputs. Categorical fields carry
// their human readable labels.
type PatientFeatures struct {
	Age               float64 `json:"age" form:"age" example:"45"`
	Sex               string  `json:"sex" form:"sex" binding:"required" example:"Male"`
	ChestPain         string  `json:"chest_pain" form:"chest_pain" binding:"required" example:"Typical Angina"`
	RestingBP         float64 `json:"resting_bp" form:"resting_bp" example:"120"`
	Cholesterol       float64 `json:"cholesterol" form:"cholesterol" example:"200"`
	FastingBloodSugar string  `json:"fasting_blood_sugar" form:"fasting_blood_sugar" binding:"required" example:"No"`
	RestingECG        string  `json:"resting_ecg" form:"resting_ecg" binding:"required" example:"Normal"`
	MaxHeartRate      float64 `json:"max_heart_rate" form:"max_heart_rate" example:"150"`
	ExerciseAngina    string  `json:"exercise_angina" form:"exercise_angina" binding:"required" example:"No"`
	STDepression      float64 `json:"st_depression" form:"st_depression" example:"1.0"`
	STSlope           string  `json:"st_slope" form:"st_slope" binding:"required" example:"Upsloping"`
	MajorVessels      string  `json:"major_vessels" form:"major_vessels" binding:"required" example:"No major vessels"`
	Thalassemia       string  `json:"thalassemia" form:"thalassemia" binding:"required" example:"Normal"`
}

// IsCategorical reports whether the feature is entered as a label.
func IsCategorical(f Feature) bool {
	switch f {
	case FeatureAge, FeatureRestingBP, FeatureCholesterol, FeatureMaxHeartRate, FeatureSTDepression:
		return false
	}
	return true
}

// Numeric returns the value of a numeric feature.
func (p PatientFeatures) Numeric(f Feature) (float64, bool) {
	switch f {
	case FeatureAge:
		return p.Age, true
	case FeatureRestingBP:
		return p.RestingBP, true
	case FeatureCholesterol:
		return p.Cholesterol, true
	case FeatureMaxHeartRate:
		return p.MaxHeartRate, true
	case FeatureSTDepression:
		return p.STDepression, true
	}
	return 0, false
}

// Label returns the label of a categorical feature.
func (p PatientFeatures) Label(f Feature) (string, bool) {
	switch f {
	case FeatureSex:
		return p.Sex, true
	case FeatureChestPain:
		return p.ChestPain, true
	case FeatureFastingBloodSugar:
		return p.FastingBloodSugar, true
	case FeatureRestingECG:
		return p.RestingECG, true
	case FeatureExerciseAngina:
		return p.ExerciseAngina, true
	case FeatureSTSlope:
		return p.STSlope, true
	case FeatureMajorVessels:
		return p.MajorVessels, true
	case FeatureThalassemia:
		return p.Thalassemia, true
	}
	return "", false
}

// SetNumeric assigns a numeric feature. It reports false for categorical ones.
func (p *PatientFeatures) SetNumeric(f Feature, v float64) bool {
	switch f {
	case FeatureAge:
		p.Age = v
	case FeatureRestingBP:
		p.RestingBP = v
	case FeatureCholesterol:
		p.Cholesterol = v
	case FeatureMaxHeartRate:
		p.MaxHeartRate = v
	case FeatureSTDepression:
		p.STDepression = v
	default:
		return false
	}
	return true
}

// SetLabel assigns a categorical feature. It reports false for numeric ones.
func (p *PatientFeatures) SetLabel(f Feature, label string) bool {
	switch f {
	case FeatureSex:
		p.Sex = label
	case FeatureChestPain:
		p.ChestPain = label
	case FeatureFastingBloodSugar:
		p.FastingBloodSugar = label
	case FeatureRestingECG:
		p.RestingECG = label
	case FeatureExerciseAngina:
		p.ExerciseAngina = label
	case FeatureSTSlope:
		p.STSlope = label
	case FeatureMajorVessels:
		p.MajorVessels = label
	case FeatureThalassemia:
		p.Thalassemia = label
	default:
		return false
	}
	return true
}

// EncodedInput is the numeric vector in FeatureOrder.
type EncodedInput [NumFeatures]float64

// ScaledInput is an EncodedInput after the fitted scaling transform.
type ScaledInput [NumFeatures]float64
