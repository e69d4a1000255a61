package pipeline_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/artifacts/artifactstest"
	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/internal/events"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/internal/scaler"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

func newPipeline(t *testing.T, cfg pipeline.Config) *pipeline.Pipeline {
	t.Helper()
	if cfg.Bundle == nil {
		cfg.Bundle = artifactstest.Bundle(t)
	}
	p, err := pipeline.New(cfg)
	require.NoError(t, err)
	return p
}

func TestInfer_Scenario(t *testing.T) {
	p := newPipeline(t, pipeline.Config{})

	encoded, err := encoder.Encode(artifactstest.LowRiskPatient)
	require.NoError(t, err)
	assert.Equal(t, models.EncodedInput{45, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 0, 0, 1}, encoded)

	result, err := p.Infer(context.Background(), artifactstest.LowRiskPatient)
	require.NoError(t, err)

	assert.Equal(t, models.RiskLow, result.Label)
	assert.Equal(t, models.ClassLowRisk, result.Class)
	assert.Equal(t, 100.0, result.Confidence)
	assert.Equal(t, models.ProbabilityNeighbors, result.ProbabilitySource)
	assert.Equal(t, artifactstest.Version, result.ModelVersion)
}

func TestInfer_HighRisk(t *testing.T) {
	p := newPipeline(t, pipeline.Config{})

	result, err := p.Infer(context.Background(), artifactstest.HighRiskPatient)
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, result.Label)
	assert.True(t, result.IsHighRisk())
	assert.Equal(t, 100.0, result.Confidence)
}

func TestInfer_AgeBoundsPassThrough(t *testing.T) {
	p := newPipeline(t, pipeline.Config{})

	for _, age := range []float64{20, 100} {
		features := artifactstest.LowRiskPatient
		features.Age = age

		encoded, err := encoder.Encode(features)
		require.NoError(t, err)
		assert.Equal(t, age, encoded[0])

		result, err := p.Infer(context.Background(), features)
		require.NoError(t, err)
		assert.Contains(t, []models.RiskLabel{models.RiskLow, models.RiskHigh}, result.Label)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 100.0)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	p := newPipeline(t, pipeline.Config{})
	first, err := p.Infer(context.Background(), artifactstest.LowRiskPatient)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*models.PredictionResult, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := p.Infer(context.Background(), artifactstest.LowRiskPatient)
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, first, r)
	}
}

func TestInfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(f *models.PatientFeatures)
		wantErr error
		kind    string
		feature models.Feature
	}{
		{"unknown sex", func(f *models.PatientFeatures) { f.Sex = "Unknown" }, encoder.ErrInvalidCategory, "invalid_category", models.FeatureSex},
		{"lowercase label", func(f *models.PatientFeatures) { f.STSlope = "flat" }, encoder.ErrInvalidCategory, "invalid_category", models.FeatureSTSlope},
		{"empty thal", func(f *models.PatientFeatures) { f.Thalassemia = "" }, encoder.ErrInvalidCategory, "invalid_category", models.FeatureThalassemia},
		{"nan cholesterol", func(f *models.PatientFeatures) { f.Cholesterol = math.NaN() }, encoder.ErrInvalidNumeric, "invalid_numeric", models.FeatureCholesterol},
		{"infinite age", func(f *models.PatientFeatures) { f.Age = math.Inf(1) }, encoder.ErrInvalidNumeric, "invalid_numeric", models.FeatureAge},
	}

	p := newPipeline(t, pipeline.Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := artifactstest.LowRiskPatient
			tt.modify(&features)

			result, err := p.Infer(context.Background(), features)
			assert.Nil(t, result)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.kind, pipeline.Kind(err))

			var stageErr *pipeline.StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, models.StageEncoding, stageErr.Stage)

			var fieldErr *encoder.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.feature, fieldErr.Feature)
		})
	}
}

// labelOnly predicts without exposing probabilities.
type labelOnly struct {
	class int
}

func (c labelOnly) Predict(models.ScaledInput) (int, error) { return c.class, nil }
func (c labelOnly) NFeatures() int                          { return models.NumFeatures }

func identityScaler(t *testing.T) scaler.Scaler {
	t.Helper()
	center := make([]float64, models.NumFeatures)
	scale := make([]float64, models.NumFeatures)
	for i := range scale {
		scale[i] = 1
	}
	s, err := scaler.NewStandardScaler(center, scale)
	require.NoError(t, err)
	return s
}

func TestInfer_DefaultConfidenceFallback(t *testing.T) {
	bundle, err := artifacts.NewBundle(identityScaler(t), labelOnly{class: models.ClassHighRisk}, models.ModelInfo{Version: "stub"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		configured float64
		want       float64
	}{
		{"unset uses 85", 0, pipeline.DefaultConfidence},
		{"configured value", 70, 70},
		{"out of range falls back", 150, pipeline.DefaultConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, pipeline.Config{Bundle: bundle, DefaultConfidence: tt.configured})

			result, err := p.Infer(context.Background(), artifactstest.LowRiskPatient)
			require.NoError(t, err)
			assert.Equal(t, models.RiskHigh, result.Label)
			assert.Equal(t, tt.want, result.Confidence)
			assert.Equal(t, models.ProbabilityDefault, result.ProbabilitySource)
		})
	}
}

func TestInfer_UnexpectedClassFails(t *testing.T) {
	bundle, err := artifacts.NewBundle(identityScaler(t), labelOnly{class: 7}, models.ModelInfo{})
	require.NoError(t, err)
	p := newPipeline(t, pipeline.Config{Bundle: bundle})

	_, err = p.Infer(context.Background(), artifactstest.LowRiskPatient)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, models.StageClassifying, stageErr.Stage)
	assert.Equal(t, "internal", pipeline.Kind(err))
}

func drain(ch <-chan *models.Event, n int, t *testing.T) []*models.Event {
	t.Helper()
	out := make([]*models.Event, 0, n)
	for len(out) < n {
		select {
		case e := <-ch:
			out = append(out, e)
		case <-time.After(time.Second):
			t.Fatalf("got %d of %d events", len(out), n)
		}
	}
	return out
}

func TestInfer_PublishesStages(t *testing.T) {
	bus := events.NewEventBus(32)
	defer bus.Close()
	all := bus.SubscribeAll()
	m := metrics.New()

	p := newPipeline(t, pipeline.Config{Publisher: events.NewPublisher(bus), Metrics: m})
	ctx := logger.WithTraceID(context.Background(), "trace-42")

	_, err := p.Infer(ctx, artifactstest.LowRiskPatient)
	require.NoError(t, err)

	got := drain(all, 5, t)
	var stages []models.Stage
	for _, e := range got[:4] {
		require.Equal(t, models.EventTypeStageChanged, e.Type)
		assert.Equal(t, "trace-42", e.TraceID)
		stages = append(stages, e.Data.(models.StageTransition).To)
	}
	assert.Equal(t, []models.Stage{models.StageEncoding, models.StageScaling, models.StageClassifying, models.StageDone}, stages)
	assert.Equal(t, models.StageIdle, got[0].Data.(models.StageTransition).From)
	assert.Equal(t, models.EventTypeInferenceCompleted, got[4].Type)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Predictions["LOW"])
	assert.Equal(t, int64(1), snap.Inferences)
}

func TestInfer_PublishesFailure(t *testing.T) {
	bus := events.NewEventBus(32)
	defer bus.Close()
	all := bus.SubscribeAll()

	p := newPipeline(t, pipeline.Config{Publisher: events.NewPublisher(bus)})
	features := artifactstest.LowRiskPatient
	features.ChestPain = "Sharp"

	_, err := p.Infer(context.Background(), features)
	require.Error(t, err)

	got := drain(all, 3, t)
	assert.Equal(t, models.StageTransition{From: models.StageIdle, To: models.StageEncoding}, got[0].Data)
	assert.Equal(t, models.StageTransition{From: models.StageEncoding, To: models.StageFailed}, got[1].Data)

	failure, ok := got[2].Data.(models.InferenceFailure)
	require.True(t, ok)
	assert.Equal(t, models.StageEncoding, failure.Stage)
	assert.Equal(t, "invalid_category", failure.Kind)
}

func TestNew_RequiresBundle(t *testing.T) {
	_, err := pipeline.New(pipeline.Config{})
	assert.ErrorIs(t, err, pipeline.ErrNoArtifacts)
}

func TestModel(t *testing.T) {
	p := newPipeline(t, pipeline.Config{})
	assert.Equal(t, artifactstest.Version, p.Model().Version)
}
