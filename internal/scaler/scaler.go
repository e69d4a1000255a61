package scaler

import (
	"errors"
	"fmt"
	"math"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	ErrShapeMismatch      = errors.New("scaler shape mismatch")
	ErrInvalidCoefficient = errors.New("invalid scaler coefficient")
)

// Scaler defines the fitted feature transform applied before classification
type Scaler interface {
	// Transform applies the fitted per-feature transform
	Transform(input models.EncodedInput) models.ScaledInput

	// NFeatures returns the number of features the transform was fit on
	NFeatures() int
}

// StandardScaler applies (value - center) / scale per feature using the
// coefficients captured at training time. It is immutable after construction.
type StandardScaler struct {
	center []float64
	scale  []float64
}

// NewStandardScaler copies the coefficients. Zero scale entries are treated
// as 1, matching the behaviour of constant features at fit time.
func NewStandardScaler(center, scale []float64) (*StandardScaler, error) {
	if len(center) != len(scale) {
		return nil, fmt.Errorf("%w: %d centers, %d scales", ErrShapeMismatch, len(center), len(scale))
	}
	if len(center) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrShapeMismatch)
	}

	s := &StandardScaler{
		center: make([]float64, len(center)),
		scale:  make([]float64, len(scale)),
	}

	for i := range center {
		if !isFinite(center[i]) {
			return nil, fmt.Errorf("%w: center[%d] = %v", ErrInvalidCoefficient, i, center[i])
		}
		if !isFinite(scale[i]) || scale[i] < 0 {
			return nil, fmt.Errorf("%w: scale[%d] = %v", ErrInvalidCoefficient, i, scale[i])
		}

		s.center[i] = center[i]
		s.scale[i] = scale[i]
		if s.scale[i] == 0 {
			s.scale[i] = 1
		}
	}

	return s, nil
}

func (s *StandardScaler) NFeatures() int {
	return len(s.center)
}

// Transform scales input. The caller guarantees NFeatures() equals
// models.NumFeatures; artifacts.Load checks it before first use.
func (s *StandardScaler) Transform(input models.EncodedInput) models.ScaledInput {
	var out models.ScaledInput
	for i := range input {
		out[i] = (input[i] - s.center[i]) / s.scale[i]
	}
	return out
}

// Center returns a copy of the centering coefficients.
func (s *StandardScaler) Center() []float64 {
	out := make([]float64, len(s.center))
	copy(out, s.center)
	return out
}

// Scale returns a copy of the scale coefficients.
func (s *StandardScaler) Scale() []float64 {
	out := make([]float64, len(s.scale))
	copy(out, s.scale)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
