package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/api/middleware"
	"github.com/OldStager01/cardio-risk/internal/analyzer"
	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/internal/report"
	"github.com/OldStager01/cardio-risk/pkg/models"
	"github.com/OldStager01/cardio-risk/pkg/validation"
)

type PredictHandler struct {
	inferer       pipeline.Inferer
	analyzer      *analyzer.Analyzer
	reports       *report.Builder
	enforceBounds bool
	ranges        map[models.Feature]validation.Range
}

// NewPredictHandler wires the inference endpoints. With enforceBounds set,
// numeric inputs outside the form limits are rejected before inference.
func NewPredictHandler(inferer pipeline.Inferer, a *analyzer.Analyzer, reports *report.Builder, enforceBounds bool) *PredictHandler {
	if a == nil {
		a = analyzer.New(analyzer.Config{})
	}
	if reports == nil {
		reports = report.NewBuilder()
	}
	return &PredictHandler{
		inferer:       inferer,
		analyzer:      a,
		reports:       reports,
		enforceBounds: enforceBounds,
		ranges:        FormRanges(),
	}
}

// FormRanges are the numeric input limits of the form.
func FormRanges() map[models.Feature]validation.Range {
	ranges := make(map[models.Feature]validation.Range)
	for _, f := range models.FeatureOrder {
		if b, ok := encoder.NumericBounds(f); ok {
			ranges[f] = validation.Range{Min: b.Min, Max: b.Max}
		}
	}
	return ranges
}

type PredictResponse struct {
	*models.PredictionResult
	TraceID   string    `json:"trace_id" example:"8f14e45f-ceea-467a-9b36-0a1f5c2d1e2b"`
	Timestamp time.Time `json:"timestamp"`
}

type OptionsResponse struct {
	Fields   []encoder.FieldOptions `json:"fields"`
	Defaults models.PatientFeatures `json:"defaults"`
}

func (h *PredictHandler) infer(ctx context.Context, features models.PatientFeatures) (models.PatientFeatures, *models.PredictionResult, error) {
	features = validation.SanitizeFeatures(features)
	if h.enforceBounds {
		if err := validation.ValidateRanges(features, h.ranges); err != nil {
			return features, nil, err
		}
	}
	result, err := h.inferer.Infer(ctx, features)
	return features, result, err
}

// Evaluate runs inference and builds the full report for features.
func (h *PredictHandler) Evaluate(ctx context.Context, features models.PatientFeatures) (*models.Report, error) {
	features, result, err := h.infer(ctx, features)
	if err != nil {
		return nil, err
	}
	assessment := h.analyzer.Analyze(features, result)
	return h.reports.Build(features, result, assessment, h.inferer.Model()), nil
}

// Predict godoc
// @Summary Predict cardiovascular risk
// @Description Encodes, scales and classifies the thirteen inputs
// @Tags Inference
// @Accept json
// @Produce json
// @Param request body models.PatientFeatures true "Patient features"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse "Invalid label, numeric value or range"
// @Failure 500 {object} ErrorResponse "Inference failed"
// @Router /api/v1/predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var req models.PatientFeatures
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	_, result, err := h.infer(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		PredictionResult: result,
		TraceID:          middleware.GetTraceID(c),
		Timestamp:        time.Now().UTC(),
	})
}

// Report godoc
// @Summary Diagnostic report
// @Description Prediction plus clinical assessment and the parameter table
// @Tags Inference
// @Accept json
// @Produce json
// @Param request body models.PatientFeatures true "Patient features"
// @Success 200 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/report [post]
func (h *PredictHandler) Report(c *gin.Context) {
	var req models.PatientFeatures
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	rep, err := h.Evaluate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

// Options godoc
// @Summary Form options
// @Description Label tables in display order, numeric bounds and defaults
// @Tags Inference
// @Produce json
// @Success 200 {object} OptionsResponse
// @Router /api/v1/options [get]
func (h *PredictHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Fields:   encoder.Options(),
		Defaults: encoder.Defaults(),
	})
}

// Model godoc
// @Summary Loaded model
// @Tags Inference
// @Produce json
// @Success 200 {object} models.ModelInfo
// @Router /api/v1/model [get]
func (h *PredictHandler) Model(c *gin.Context) {
	c.JSON(http.StatusOK, h.inferer.Model())
}
