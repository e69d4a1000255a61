package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange marks a numeric field outside its accepted interval.
	ErrOutOfRange = errors.New("value out of range")

	validate = validator.New()
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// BoundsError reports every numeric field outside its range.
type BoundsError struct {
	Fields []FieldRange
}

type FieldRange struct {
	Feature models.Feature
	Value   float64
	Range   Range
}

func (e *BoundsError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s=%v not in [%v, %v]", f.Feature, f.Value, f.Range.Min, f.Range.Max)
	}
	return ErrOutOfRange.Error() + ": " + strings.Join(parts, ", ")
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfRange
}

// Feature returns the first offending field.
func (e *BoundsError) Feature() models.Feature {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Feature
}

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// SanitizeFeatures returns p with every categorical label sanitized.
func SanitizeFeatures(p models.PatientFeatures) models.PatientFeatures {
	p.Sex = SanitizeString(p.Sex)
	p.ChestPain = SanitizeString(p.ChestPain)
	p.FastingBloodSugar = SanitizeString(p.FastingBloodSugar)
	p.RestingECG = SanitizeString(p.RestingECG)
	p.ExerciseAngina = SanitizeString(p.ExerciseAngina)
	p.STSlope = SanitizeString(p.STSlope)
	p.MajorVessels = SanitizeString(p.MajorVessels)
	p.Thalassemia = SanitizeString(p.Thalassemia)
	return p
}

// ValidateRanges checks every numeric feature of p that has an entry in
// ranges. Non-finite values are left to the encoder.
func ValidateRanges(p models.PatientFeatures, ranges map[models.Feature]Range) error {
	var bad []FieldRange

	for _, f := range models.FeatureOrder {
		r, ok := ranges[f]
		if !ok {
			continue
		}
		v, ok := p.Numeric(f)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if err := ValidateValue(v, r); err != nil {
			bad = append(bad, FieldRange{Feature: f, Value: v, Range: r})
		}
	}

	if len(bad) > 0 {
		return &BoundsError{Fields: bad}
	}
	return nil
}

// ValidateValue checks a single value against r.
func ValidateValue(v float64, r Range) error {
	tag := "gte=" + formatFloat(r.Min) + ",lte=" + formatFloat(r.Max)
	if err := validate.Var(v, tag); err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
