package analyzer

import "github.com/OldStager01/cardio-risk/pkg/models"

var lifestyleItems = []string{
	"Avoid smoking",
	"Limit alcohol",
	"7-9 hours sleep",
	"Stress management",
	"Stay hydrated",
	"Maintain healthy weight",
	"Practice mindfulness",
	"Stay socially active",
}

func (a *Analyzer) recommend(f models.PatientFeatures, result *models.PredictionResult) []models.Recommendation {
	recs := []models.Recommendation{
		a.nutrition(f.Cholesterol),
		a.exercise(f.MaxHeartRate),
	}
	if result != nil {
		recs = append(recs, followUp(result.Label))
	}
	recs = append(recs, models.Recommendation{
		Area:  models.AreaLifestyle,
		Level: models.LevelInfo,
		Title: "General Recommendations",
		Items: append([]string(nil), lifestyleItems...),
	})
	return recs
}

// nutrition uses strict comparisons: exactly 240 mg/dl is borderline here
// even though the cholesterol vital reports it as high.
func (a *Analyzer) nutrition(chol float64) models.Recommendation {
	switch {
	case chol > a.config.CholHigh:
		return models.Recommendation{
			Area:  models.AreaNutrition,
			Level: models.LevelWarning,
			Title: "High Cholesterol Detected",
			Items: []string{"Reduce saturated fats", "Increase omega-3 intake", "Add more fiber-rich foods", "Limit red meat", "Choose whole grains"},
		}
	case chol > a.config.CholBorderline:
		return models.Recommendation{
			Area:  models.AreaNutrition,
			Level: models.LevelInfo,
			Title: "Borderline Cholesterol",
			Items: []string{"Monitor diet closely", "Choose lean proteins", "Limit processed foods", "Eat more vegetables", "Reduce sugar intake"},
		}
	}
	return models.Recommendation{
		Area:  models.AreaNutrition,
		Level: models.LevelSuccess,
		Title: "Healthy Cholesterol",
		Items: []string{"Maintain current diet", "Continue healthy eating", "Regular monitoring", "Stay hydrated", "Balanced meals"},
	}
}

func (a *Analyzer) exercise(hr float64) models.Recommendation {
	if hr < a.config.LowExerciseHR {
		return models.Recommendation{
			Area:  models.AreaExercise,
			Level: models.LevelWarning,
			Title: "Low Max Heart Rate",
			Items: []string{"Gradual cardio increase", "Consult before intense exercise", "Start with walking", "Monitor during activity", "Build endurance slowly"},
		}
	}
	return models.Recommendation{
		Area:  models.AreaExercise,
		Level: models.LevelSuccess,
		Title: "Good Exercise Capacity",
		Items: []string{"150 min/week moderate activity", "Include strength training", "Stay consistent", "Vary workout types", "Track progress"},
	}
}

func followUp(label models.RiskLabel) models.Recommendation {
	if label == models.RiskHigh {
		return models.Recommendation{
			Area:  models.AreaFollowUp,
			Level: models.LevelUrgent,
			Title: "High Priority",
			Items: []string{"Immediate doctor visit", "Complete cardiac evaluation", "Possible medication review", "Specialist consultation", "Regular monitoring"},
		}
	}
	return models.Recommendation{
		Area:  models.AreaFollowUp,
		Level: models.LevelSuccess,
		Title: "Routine Monitoring",
		Items: []string{"Annual check-ups", "BP/Cholesterol screening", "Maintain preventive care", "Update health records", "Stay informed"},
	}
}
