package simulator

import (
	"math"
	"math/rand"

	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// Profile draws synthetic patients from one population.
type Profile interface {
	Sample(r *rand.Rand) models.PatientFeatures
	Name() string
}

var (
	ProfileHealthy Profile = &HealthyProfile{}
	ProfileAtRisk  Profile = &AtRiskProfile{}
	ProfileMixed   Profile = &MixedProfile{}
	ProfileEdge    Profile = &EdgeProfile{}
	ProfileInvalid Profile = &InvalidProfile{}
)

func ParseProfile(name string) Profile {
	switch name {
	case "healthy":
		return ProfileHealthy
	case "at_risk":
		return ProfileAtRisk
	case "edge":
		return ProfileEdge
	case "invalid":
		return ProfileInvalid
	default:
		return ProfileMixed
	}
}

// HealthyProfile centres on normal vitals and benign categories.
type HealthyProfile struct{}

func (p *HealthyProfile) Sample(r *rand.Rand) models.PatientFeatures {
	return models.PatientFeatures{
		Age:               normal(r, 45, 8, models.FeatureAge),
		Sex:               pick(r, models.FeatureSex),
		ChestPain:         pickOf(r, "Typical Angina", "Atypical Angina", "Non-Anginal Pain"),
		RestingBP:         normal(r, 120, 8, models.FeatureRestingBP),
		Cholesterol:       normal(r, 195, 20, models.FeatureCholesterol),
		FastingBloodSugar: "No",
		RestingECG:        pickOf(r, "Normal", "Normal", "ST-T Wave Abnormality"),
		MaxHeartRate:      normal(r, 158, 10, models.FeatureMaxHeartRate),
		ExerciseAngina:    "No",
		STDepression:      tenth(normal(r, 0.6, 0.4, models.FeatureSTDepression)),
		STSlope:           pickOf(r, "Upsloping", "Upsloping", "Flat"),
		MajorVessels:      pickOf(r, "No major vessels", "No major vessels", "One major vessel"),
		Thalassemia:       "Normal",
	}
}

func (p *HealthyProfile) Name() string {
	return "healthy"
}

// AtRiskProfile leans on the markers associated with heart disease.
type AtRiskProfile struct{}

func (p *AtRiskProfile) Sample(r *rand.Rand) models.PatientFeatures {
	return models.PatientFeatures{
		Age:               normal(r, 63, 7, models.FeatureAge),
		Sex:               pickOf(r, "Male", "Male", "Female"),
		ChestPain:         "Asymptomatic",
		RestingBP:         normal(r, 152, 12, models.FeatureRestingBP),
		Cholesterol:       normal(r, 295, 30, models.FeatureCholesterol),
		FastingBloodSugar: pickOf(r, "No", "Yes"),
		RestingECG:        pickOf(r, "ST-T Wave Abnormality", "Left Ventricular Hypertrophy"),
		MaxHeartRate:      normal(r, 108, 10, models.FeatureMaxHeartRate),
		ExerciseAngina:    "Yes",
		STDepression:      tenth(normal(r, 3.0, 0.6, models.FeatureSTDepression)),
		STSlope:           pickOf(r, "Flat", "Downsloping"),
		MajorVessels:      pickOf(r, "Two major vessels", "Three major vessels"),
		Thalassemia:       pickOf(r, "Fixed Defect", "Reversible Defect"),
	}
}

func (p *AtRiskProfile) Name() string {
	return "at_risk"
}

// MixedProfile is an even split of healthy and at-risk patients.
type MixedProfile struct{}

func (p *MixedProfile) Sample(r *rand.Rand) models.PatientFeatures {
	if r.Intn(2) == 0 {
		return ProfileHealthy.Sample(r)
	}
	return ProfileAtRisk.Sample(r)
}

func (p *MixedProfile) Name() string {
	return "mixed"
}

// EdgeProfile puts every numeric field on a form limit and draws labels
// uniformly from their tables.
type EdgeProfile struct{}

func (p *EdgeProfile) Sample(r *rand.Rand) models.PatientFeatures {
	var out models.PatientFeatures
	for _, f := range models.FeatureOrder {
		if models.IsCategorical(f) {
			out.SetLabel(f, pick(r, f))
			continue
		}
		b, _ := encoder.NumericBounds(f)
		v := b.Min
		if r.Intn(2) == 1 {
			v = b.Max
		}
		out.SetNumeric(f, v)
	}
	return out
}

func (p *EdgeProfile) Name() string {
	return "edge"
}

// InvalidProfile corrupts one label per patient so the service rejects it.
type InvalidProfile struct{}

func (p *InvalidProfile) Sample(r *rand.Rand) models.PatientFeatures {
	out := ProfileHealthy.Sample(r)
	categorical := make([]models.Feature, 0, len(models.FeatureOrder))
	for _, f := range models.FeatureOrder {
		if models.IsCategorical(f) {
			categorical = append(categorical, f)
		}
	}
	out.SetLabel(categorical[r.Intn(len(categorical))], "Unknown")
	return out
}

func (p *InvalidProfile) Name() string {
	return "invalid"
}

// normal draws from N(mean, sd) clamped to the form bounds of f and rounded
// the way the form steps.
func normal(r *rand.Rand, mean, sd float64, f models.Feature) float64 {
	v := mean + r.NormFloat64()*sd
	b, ok := encoder.NumericBounds(f)
	if ok {
		v = math.Max(b.Min, math.Min(b.Max, v))
		if b.Step >= 1 {
			v = math.Round(v)
		}
	}
	return v
}

func tenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func pick(r *rand.Rand, f models.Feature) string {
	table, _ := encoder.Categories(f)
	return table[r.Intn(len(table))].Label
}

func pickOf(r *rand.Rand, labels ...string) string {
	return labels[r.Intn(len(labels))]
}
