package artifacts

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/OldStager01/cardio-risk/internal/classifier"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/scaler"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	ErrArtifactLoadFailure = errors.New("artifact load failure")
	ErrArtifactMismatch    = errors.New("artifact mismatch")
)

const ModelName = "K-Nearest Neighbors (KNN)"

// Bundle is a loaded scaler and classifier pair. It is immutable once
// built and safe for concurrent use.
type Bundle struct {
	scaler     scaler.Scaler
	classifier classifier.Classifier
	info       models.ModelInfo
}

// NewBundle pairs an already constructed scaler and classifier. Both must
// take the full feature vector.
func NewBundle(s scaler.Scaler, c classifier.Classifier, info models.ModelInfo) (*Bundle, error) {
	if s == nil || c == nil {
		return nil, fmt.Errorf("%w: scaler and classifier are required", ErrArtifactLoadFailure)
	}
	if s.NFeatures() != models.NumFeatures {
		return nil, fmt.Errorf("%w: scaler has %d features, expected %d", ErrArtifactMismatch, s.NFeatures(), models.NumFeatures)
	}
	if c.NFeatures() != s.NFeatures() {
		return nil, fmt.Errorf("%w: scaler has %d features, classifier has %d", ErrArtifactMismatch, s.NFeatures(), c.NFeatures())
	}

	info.Features = s.NFeatures()
	if info.Name == "" {
		info.Name = ModelName
	}
	return &Bundle{scaler: s, classifier: c, info: info}, nil
}

func (b *Bundle) Scaler() scaler.Scaler {
	return b.scaler
}

func (b *Bundle) Classifier() classifier.Classifier {
	return b.classifier
}

func (b *Bundle) Info() models.ModelInfo {
	return b.info
}

// Build constructs a bundle from decoded documents. Shape, version and
// feature-name disagreements are ErrArtifactMismatch; anything else that
// stops construction is ErrArtifactLoadFailure.
func Build(sd *ScalerDocument, cd *ClassifierDocument) (*Bundle, error) {
	if err := checkPair(sd, cd); err != nil {
		return nil, err
	}

	st, err := scaler.NewStandardScaler(sd.Center, sd.Scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoadFailure, err)
	}

	if len(cd.Classes) > 0 && !slices.Equal(cd.Classes, classifier.Classes) {
		return nil, fmt.Errorf("%w: classes %v, expected %v", ErrArtifactLoadFailure, cd.Classes, classifier.Classes)
	}

	knn, err := classifier.NewKNN(classifier.Config{
		Neighbors: cd.NNeighbors,
		Metric:    classifier.Metric(cd.Metric),
		P:         cd.P,
		Weights:   classifier.Weights(cd.Weights),
	}, cd.FitX, cd.FitY)
	if err != nil {
		if errors.Is(err, classifier.ErrShapeMismatch) {
			return nil, fmt.Errorf("%w: %w", ErrArtifactMismatch, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoadFailure, err)
	}

	cfg := knn.Config()
	return NewBundle(st, knn, models.ModelInfo{
		Version:   sd.Version,
		Neighbors: cfg.Neighbors,
		Metric:    string(cfg.Metric),
		Weights:   string(cfg.Weights),
		Samples:   knn.Samples(),
	})
}

func checkPair(sd *ScalerDocument, cd *ClassifierDocument) error {
	if len(sd.Center) != models.NumFeatures {
		return fmt.Errorf("%w: scaler has %d features, expected %d", ErrArtifactMismatch, len(sd.Center), models.NumFeatures)
	}
	if len(cd.FitX) == 0 {
		return fmt.Errorf("%w: classifier has no training rows", ErrArtifactLoadFailure)
	}
	if width := len(cd.FitX[0]); width != len(sd.Center) {
		return fmt.Errorf("%w: scaler has %d features, classifier has %d", ErrArtifactMismatch, len(sd.Center), width)
	}
	if sd.Version != cd.Version {
		return fmt.Errorf("%w: scaler version %q, classifier version %q", ErrArtifactMismatch, sd.Version, cd.Version)
	}

	expected := ExpectedFeatureNames()
	if len(sd.FeatureNames) > 0 && !slices.Equal(sd.FeatureNames, expected) {
		return fmt.Errorf("%w: scaler feature names %v, expected %v", ErrArtifactMismatch, sd.FeatureNames, expected)
	}
	if len(cd.FeatureNames) > 0 && !slices.Equal(cd.FeatureNames, expected) {
		return fmt.Errorf("%w: classifier feature names %v, expected %v", ErrArtifactMismatch, cd.FeatureNames, expected)
	}
	return nil
}

// ExpectedFeatureNames are the training column names in model order.
func ExpectedFeatureNames() []string {
	names := make([]string, models.NumFeatures)
	for i, f := range models.FeatureOrder {
		names[i] = models.TrainingColumn[f]
	}
	return names
}

// Fingerprint is the BLAKE2b-256 digest of both raw documents.
func Fingerprint(raw RawPair) string {
	h, _ := blake2b.New256(nil)
	h.Write(raw.Scaler)
	h.Write([]byte{0})
	h.Write(raw.Classifier)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest is the BLAKE2b-256 digest of a single document.
func Digest(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// Load fetches, validates and builds the artifact pair from src.
func Load(ctx context.Context, src Source) (*Bundle, error) {
	start := time.Now()

	raw, err := src.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrArtifactLoadFailure) || errors.Is(err, ErrArtifactMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch from %s: %w", ErrArtifactLoadFailure, src.Name(), err)
	}

	bundle, err := FromRaw(raw)
	if err != nil {
		return nil, err
	}
	bundle.info.Source = src.Name()

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"source":      bundle.info.Source,
		"version":     bundle.info.Version,
		"fingerprint": bundle.info.Fingerprint,
		"samples":     bundle.info.Samples,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Model artifacts loaded")

	return bundle, nil
}

// FromRaw decodes and builds a bundle from raw documents.
func FromRaw(raw RawPair) (*Bundle, error) {
	sd, cd, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	bundle, err := Build(sd, cd)
	if err != nil {
		return nil, err
	}
	bundle.info.Fingerprint = Fingerprint(raw)
	bundle.info.LoadedAt = time.Now().UTC()
	return bundle, nil
}
