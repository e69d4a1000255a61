package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/pkg/models"
	"github.com/OldStager01/cardio-risk/pkg/validation"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantField  string
	}{
		{
			"invalid category in stage error",
			&pipeline.StageError{Stage: models.StageEncoding, Err: &encoder.FieldError{Feature: models.FeatureSex, Value: "X", Err: encoder.ErrInvalidCategory}},
			http.StatusBadRequest, "invalid_category", "sex",
		},
		{
			"invalid numeric",
			&encoder.FieldError{Feature: models.FeatureAge, Value: "NaN", Err: encoder.ErrInvalidNumeric},
			http.StatusBadRequest, "invalid_numeric", "age",
		},
		{
			"bounds",
			&validation.BoundsError{Fields: []validation.FieldRange{{Feature: models.FeatureCholesterol, Value: 900, Range: validation.Range{Min: 100, Max: 600}}}},
			http.StatusBadRequest, "out_of_range", "cholesterol",
		},
		{
			"artifact mismatch",
			fmt.Errorf("wrapped: %w", artifacts.ErrArtifactMismatch),
			http.StatusInternalServerError, "artifact_mismatch", "",
		},
		{
			"unknown",
			errors.New("boom"),
			http.StatusInternalServerError, "internal", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := errorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Equal(t, tt.wantField, resp.Field)
			if status == http.StatusInternalServerError {
				assert.Equal(t, "inference failed", resp.Error)
			}
		})
	}
}

func TestFormRanges(t *testing.T) {
	ranges := FormRanges()
	assert.Len(t, ranges, 5)
	assert.Equal(t, validation.Range{Min: 20, Max: 100}, ranges[models.FeatureAge])
	assert.Equal(t, validation.Range{Min: 0, Max: 6}, ranges[models.FeatureSTDepression])
}

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()
	assert.NotNil(t, tmpl.Lookup("form.html"))
	assert.NotNil(t, tmpl.Lookup("result.html"))
}
