// Package encoder turns form selections into the numeric vector the model
// was trained on.
package encoder

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidNumeric  = errors.New("invalid numeric value")
	ErrUnknownFeature  = errors.New("unknown feature")
)

// FieldError ties an encoding failure to the feature that caused it.
type FieldError struct {
	Feature models.Feature
	Value   string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Feature, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Encode maps p to its EncodedInput in models.FeatureOrder. Numeric values
// pass through unchanged; range limits are the input layer's job.
func Encode(p models.PatientFeatures) (models.EncodedInput, error) {
	var out models.EncodedInput

	for i, f := range models.FeatureOrder {
		if models.IsCategorical(f) {
			label, _ := p.Label(f)
			code, err := EncodeLabel(f, label)
			if err != nil {
				return models.EncodedInput{}, err
			}
			out[i] = float64(code)
			continue
		}

		v, _ := p.Numeric(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.EncodedInput{}, &FieldError{
				Feature: f,
				Value:   fmt.Sprint(v),
				Err:     ErrInvalidNumeric,
			}
		}
		out[i] = v
	}

	return out, nil
}

// EncodeLabel looks a label up in the closed table of f. Matching is exact
// after trimming surrounding whitespace.
func EncodeLabel(f models.Feature, label string) (int, error) {
	table, ok := categories[f]
	if !ok {
		return 0, &FieldError{Feature: f, Value: label, Err: ErrUnknownFeature}
	}

	trimmed := strings.TrimSpace(label)
	for _, c := range table {
		if c.Label == trimmed {
			return c.Code, nil
		}
	}

	return 0, &FieldError{Feature: f, Value: label, Err: ErrInvalidCategory}
}

// Decode returns the single label mapped to code for feature f.
func Decode(f models.Feature, code int) (string, error) {
	table, ok := categories[f]
	if !ok {
		return "", &FieldError{Feature: f, Value: fmt.Sprint(code), Err: ErrUnknownFeature}
	}

	label := ""
	matches := 0
	for _, c := range table {
		if c.Code == code {
			label = c.Label
			matches++
		}
	}

	switch matches {
	case 1:
		return label, nil
	case 0:
		return "", &FieldError{Feature: f, Value: fmt.Sprint(code), Err: ErrInvalidCategory}
	default:
		return "", fmt.Errorf("%s: code %d maps to %d labels", f, code, matches)
	}
}

// Kind names the error class of err for API responses.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrInvalidNumeric):
		return "invalid_numeric"
	case errors.Is(err, ErrUnknownFeature):
		return "unknown_feature"
	}
	return ""
}
