// Package artifactstest provides a small synthetic model for tests. The
// training rows form two well separated groups, so the two sample patients
// below have unambiguous neighbourhoods.
package artifactstest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

const Version = "test-1"

const Neighbors = 5

var center = []float64{54.4, 0.68, 0.97, 131.6, 246.3, 0.15, 0.53, 149.6, 0.33, 1.04, 1.4, 0.73, 2.31}

var scale = []float64{9.07, 0.47, 1.03, 17.5, 51.7, 0.36, 0.53, 22.9, 0.47, 1.16, 0.62, 1.02, 0.61}

// encoded training rows: the first six are low risk, the rest high risk
var rows = [][]float64{
	{45, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 0, 0, 1},
	{42, 0, 1, 118, 195, 0, 0, 162, 0, 0.5, 0, 0, 1},
	{50, 1, 2, 125, 210, 0, 0, 155, 0, 0.8, 0, 0, 1},
	{39, 0, 1, 115, 190, 0, 0, 170, 0, 0.0, 0, 0, 1},
	{48, 1, 0, 130, 220, 0, 1, 148, 0, 1.2, 0, 0, 1},
	{44, 1, 2, 122, 205, 0, 0, 158, 0, 0.6, 0, 0, 1},
	{63, 1, 3, 150, 290, 1, 2, 108, 1, 3.0, 1, 2, 3},
	{67, 1, 3, 160, 300, 0, 2, 100, 1, 2.6, 1, 3, 3},
	{58, 0, 3, 145, 280, 1, 1, 115, 1, 3.4, 2, 2, 2},
	{70, 1, 3, 170, 320, 0, 2, 95, 1, 4.0, 1, 3, 3},
	{61, 1, 3, 155, 310, 1, 1, 110, 1, 2.8, 1, 2, 3},
	{65, 0, 3, 148, 295, 0, 2, 105, 1, 3.2, 2, 1, 3},
}

var labels = []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}

// LowRiskPatient encodes to the first training row.
var LowRiskPatient = models.PatientFeatures{
	Age:               45,
	Sex:               "Male",
	ChestPain:         "Typical Angina",
	RestingBP:         120,
	Cholesterol:       200,
	FastingBloodSugar: "No",
	RestingECG:        "Normal",
	MaxHeartRate:      150,
	ExerciseAngina:    "No",
	STDepression:      1.0,
	STSlope:           "Upsloping",
	MajorVessels:      "No major vessels",
	Thalassemia:       "Normal",
}

// HighRiskPatient sits inside the high risk group.
var HighRiskPatient = models.PatientFeatures{
	Age:               66,
	Sex:               "Male",
	ChestPain:         "Asymptomatic",
	RestingBP:         158,
	Cholesterol:       305,
	FastingBloodSugar: "No",
	RestingECG:        "Left Ventricular Hypertrophy",
	MaxHeartRate:      102,
	ExerciseAngina:    "Yes",
	STDepression:      3.0,
	STSlope:           "Flat",
	MajorVessels:      "Two major vessels",
	Thalassemia:       "Reversible Defect",
}

func ScalerDocument() *artifacts.ScalerDocument {
	return &artifacts.ScalerDocument{
		Version:      Version,
		FeatureNames: artifacts.ExpectedFeatureNames(),
		Center:       append([]float64(nil), center...),
		Scale:        append([]float64(nil), scale...),
	}
}

func ClassifierDocument() *artifacts.ClassifierDocument {
	fitX := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - center[j]) / scale[j]
		}
		fitX[i] = scaled
	}

	return &artifacts.ClassifierDocument{
		Version:      Version,
		FeatureNames: artifacts.ExpectedFeatureNames(),
		NNeighbors:   Neighbors,
		Metric:       "minkowski",
		P:            2,
		Weights:      "uniform",
		Classes:      []int{0, 1},
		FitX:         fitX,
		FitY:         append([]int(nil), labels...),
	}
}

func RawPair(tb testing.TB) artifacts.RawPair {
	tb.Helper()
	raw, err := artifacts.Encode(ScalerDocument(), ClassifierDocument())
	if err != nil {
		tb.Fatalf("encode fixture: %v", err)
	}
	return raw
}

func Bundle(tb testing.TB) *artifacts.Bundle {
	tb.Helper()
	b, err := artifacts.FromRaw(RawPair(tb))
	if err != nil {
		tb.Fatalf("build fixture bundle: %v", err)
	}
	return b
}

// WriteDir writes the fixture documents to a temporary directory and
// returns its path.
func WriteDir(tb testing.TB) string {
	tb.Helper()
	dir := tb.TempDir()
	raw := RawPair(tb)
	if err := os.WriteFile(filepath.Join(dir, "scaler.json"), raw.Scaler, 0o600); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "classifier.json"), raw.Classifier, 0o600); err != nil {
		tb.Fatal(err)
	}
	return dir
}
