package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/classifier"
	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/internal/events"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/scaler"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// DefaultConfidence is reported when the classifier cannot estimate
// per-class probabilities.
const DefaultConfidence = 85.0

var ErrNoArtifacts = errors.New("pipeline requires loaded artifacts")

// Inferer turns one patient's features into a risk prediction.
type Inferer interface {
	Infer(ctx context.Context, features models.PatientFeatures) (*models.PredictionResult, error)
	Model() models.ModelInfo
}

type Config struct {
	Bundle            *artifacts.Bundle
	Publisher         *events.Publisher
	Metrics           *metrics.Metrics
	DefaultConfidence float64
}

// Pipeline runs encode, scale and classify against one immutable bundle.
// It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	config Config
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Bundle == nil {
		return nil, ErrNoArtifacts
	}
	if cfg.DefaultConfidence <= 0 || cfg.DefaultConfidence > 100 {
		cfg.DefaultConfidence = DefaultConfidence
	}
	return &Pipeline{config: cfg}, nil
}

func (p *Pipeline) Model() models.ModelInfo {
	return p.config.Bundle.Info()
}

// StageError records the stage an inference failed in.
type StageError struct {
	Stage models.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Infer runs the pipeline. ctx only carries the trace id used in logs and
// events; inference is never cancelled part way.
func (p *Pipeline) Infer(ctx context.Context, features models.PatientFeatures) (*models.PredictionResult, error) {
	start := time.Now()
	r := &run{
		ctx:   ctx,
		pub:   p.config.Publisher.WithTraceID(logger.TraceIDFromContext(ctx)),
		stage: models.StageIdle,
	}

	r.enter(models.StageEncoding)
	encoded, err := encoder.Encode(features)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(models.StageScaling)
	scaled := p.config.Bundle.Scaler().Transform(encoded)

	r.enter(models.StageClassifying)
	result, err := p.classify(scaled)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(models.StageDone)
	r.pub.InferenceCompleted(result)
	if p.config.Metrics != nil {
		p.config.Metrics.IncPrediction(result.Label)
		p.config.Metrics.ObserveInference(time.Since(start))
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"label":      result.Label,
		"confidence": result.Confidence,
		"source":     result.ProbabilitySource,
		"latency_us": time.Since(start).Microseconds(),
	}).Debug("Inference complete")

	return result, nil
}

func (p *Pipeline) classify(x models.ScaledInput) (*models.PredictionResult, error) {
	clf := p.config.Bundle.Classifier()

	class, err := clf.Predict(x)
	if err != nil {
		return nil, err
	}
	label, err := models.RiskLabelFromClass(class)
	if err != nil {
		return nil, err
	}

	result := &models.PredictionResult{
		Label:             label,
		Class:             class,
		Confidence:        p.config.DefaultConfidence,
		ProbabilitySource: models.ProbabilityDefault,
		ModelVersion:      p.config.Bundle.Info().Version,
	}

	if est, ok := clf.(classifier.ProbabilityEstimator); ok {
		proba, err := est.PredictProba(x)
		if err != nil {
			return nil, err
		}
		if class < 0 || class >= len(proba) {
			return nil, fmt.Errorf("class %d outside %d probabilities", class, len(proba))
		}
		result.Confidence = clamp(proba[class]*100, 0, 100)
		result.ProbabilitySource = models.ProbabilityNeighbors
	}

	return result, nil
}

// run tracks the stage of one Infer call.
type run struct {
	ctx   context.Context
	pub   *events.Publisher
	stage models.Stage
}

func (r *run) enter(to models.Stage) {
	from := r.stage
	r.stage = to
	logger.WithStage(r.ctx, string(to)).Debugf("Stage %s -> %s", from, to)
	r.pub.StageChanged(from, to)
}

func (r *run) fail(err error) error {
	failed := r.stage
	kind := Kind(err)

	logger.WithStage(r.ctx, string(failed)).WithField("kind", kind).Warnf("Inference failed: %v", err)

	r.enter(models.StageFailed)
	r.pub.InferenceFailed(failed, kind, err)
	return &StageError{Stage: failed, Err: err}
}

// Kind classifies a pipeline error for metrics and API responses.
func Kind(err error) string {
	if k := encoder.Kind(err); k != "" {
		return k
	}
	switch {
	case errors.Is(err, scaler.ErrShapeMismatch), errors.Is(err, classifier.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, artifacts.ErrArtifactMismatch):
		return "artifact_mismatch"
	case errors.Is(err, artifacts.ErrArtifactLoadFailure):
		return "artifact_load_failure"
	}
	return "internal"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
