package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	ErrInvalidModel  = errors.New("invalid classifier model")
	ErrShapeMismatch = errors.New("classifier shape mismatch")
)

type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricManhattan Metric = "manhattan"
	MetricMinkowski Metric = "minkowski"
)

type Weights string

const (
	WeightsUniform  Weights = "uniform"
	WeightsDistance Weights = "distance"
)

// Classes are the binary outputs every classifier reports on.
var Classes = []int{models.ClassLowRisk, models.ClassHighRisk}

// Classifier predicts a risk class from a scaled input
type Classifier interface {
	Predict(x models.ScaledInput) (int, error)
	NFeatures() int
}

// ProbabilityEstimator is implemented by classifiers that report per-class
// probabilities, indexed like Classes.
type ProbabilityEstimator interface {
	PredictProba(x models.ScaledInput) ([]float64, error)
}

type Config struct {
	Neighbors int
	Metric    Metric
	P         float64
	Weights   Weights
}

// Neighbor is one training point selected for a query.
type Neighbor struct {
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
	Class    int     `json:"class"`
}

// KNN is a fitted k-nearest-neighbours classifier. It only reads its fields
// after construction, so one instance serves any number of goroutines.
type KNN struct {
	config Config
	points [][]float64
	labels []int
}

func NewKNN(cfg Config, points [][]float64, labels []int) (*KNN, error) {
	if cfg.Metric == "" {
		cfg.Metric = MetricMinkowski
	}
	if cfg.Weights == "" {
		cfg.Weights = WeightsUniform
	}
	if cfg.P == 0 {
		cfg.P = 2
	}

	switch cfg.Metric {
	case MetricEuclidean, MetricManhattan, MetricMinkowski:
	default:
		return nil, fmt.Errorf("%w: unsupported metric %q", ErrInvalidModel, cfg.Metric)
	}
	switch cfg.Weights {
	case WeightsUniform, WeightsDistance:
	default:
		return nil, fmt.Errorf("%w: unsupported weights %q", ErrInvalidModel, cfg.Weights)
	}
	if cfg.Metric == MetricMinkowski && cfg.P < 1 {
		return nil, fmt.Errorf("%w: minkowski p must be >= 1, got %v", ErrInvalidModel, cfg.P)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no training points", ErrInvalidModel)
	}
	if len(points) != len(labels) {
		return nil, fmt.Errorf("%w: %d points, %d labels", ErrInvalidModel, len(points), len(labels))
	}
	if cfg.Neighbors < 1 || cfg.Neighbors > len(points) {
		return nil, fmt.Errorf("%w: n_neighbors %d outside [1, %d]", ErrInvalidModel, cfg.Neighbors, len(points))
	}

	width := len(points[0])
	k := &KNN{
		config: cfg,
		points: make([][]float64, len(points)),
		labels: make([]int, len(labels)),
	}

	for i, p := range points {
		if len(p) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, row 0 has %d", ErrShapeMismatch, i, len(p), width)
		}
		for j, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite value at [%d][%d]", ErrInvalidModel, i, j)
			}
		}
		if labels[i] != models.ClassLowRisk && labels[i] != models.ClassHighRisk {
			return nil, fmt.Errorf("%w: label %d at row %d is not binary", ErrInvalidModel, labels[i], i)
		}

		row := make([]float64, width)
		copy(row, p)
		k.points[i] = row
		k.labels[i] = labels[i]
	}

	return k, nil
}

func (k *KNN) NFeatures() int {
	return len(k.points[0])
}

func (k *KNN) Samples() int {
	return len(k.points)
}

func (k *KNN) Config() Config {
	return k.config
}

// Neighbors returns the k nearest training points ordered by distance.
// Equidistant points are ordered by training index, lowest first.
func (k *KNN) Neighbors(x models.ScaledInput) ([]Neighbor, error) {
	if len(x) != k.NFeatures() {
		return nil, fmt.Errorf("%w: input has %d features, model has %d", ErrShapeMismatch, len(x), k.NFeatures())
	}

	all := make([]Neighbor, len(k.points))
	for i, p := range k.points {
		all[i] = Neighbor{
			Index:    i,
			Distance: k.distance(x[:], p),
			Class:    k.labels[i],
		}
	}

	sort.Slice(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Index < all[b].Index
	})

	return all[:k.config.Neighbors], nil
}

// PredictProba returns the vote share of each class in Classes.
func (k *KNN) PredictProba(x models.ScaledInput) ([]float64, error) {
	neighbors, err := k.Neighbors(x)
	if err != nil {
		return nil, err
	}
	return k.vote(neighbors), nil
}

// Predict returns the majority class among the nearest neighbours. A tied
// vote goes to the lowest class code.
func (k *KNN) Predict(x models.ScaledInput) (int, error) {
	proba, err := k.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return Classes[argmax(proba)], nil
}

func (k *KNN) vote(neighbors []Neighbor) []float64 {
	weights := make([]float64, len(neighbors))

	switch k.config.Weights {
	case WeightsDistance:
		exact := false
		for _, n := range neighbors {
			if n.Distance == 0 {
				exact = true
				break
			}
		}
		for i, n := range neighbors {
			switch {
			case exact && n.Distance == 0:
				weights[i] = 1
			case exact:
				weights[i] = 0
			default:
				weights[i] = 1 / n.Distance
			}
		}
	default:
		for i := range weights {
			weights[i] = 1
		}
	}

	proba := make([]float64, len(Classes))
	total := 0.0
	for i, n := range neighbors {
		proba[n.Class] += weights[i]
		total += weights[i]
	}
	for i := range proba {
		proba[i] /= total
	}
	return proba
}

func (k *KNN) distance(a, b []float64) float64 {
	switch k.config.Metric {
	case MetricManhattan:
		return minkowski(a, b, 1)
	case MetricEuclidean:
		return minkowski(a, b, 2)
	default:
		return minkowski(a, b, k.config.P)
	}
}

func minkowski(a, b []float64, p float64) float64 {
	sum := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		switch p {
		case 1:
			sum += d
		case 2:
			sum += d * d
		default:
			sum += math.Pow(d, p)
		}
	}

	switch p {
	case 1:
		return sum
	case 2:
		return math.Sqrt(sum)
	default:
		return math.Pow(sum, 1/p)
	}
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
