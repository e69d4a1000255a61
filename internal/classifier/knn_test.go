package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/internal/classifier"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// point builds a 13-feature row with the first coordinate set.
func point(x float64) []float64 {
	p := make([]float64, models.NumFeatures)
	p[0] = x
	return p
}

func query(x float64) models.ScaledInput {
	var q models.ScaledInput
	q[0] = x
	return q
}

func newKNN(t *testing.T, cfg classifier.Config, xs []float64, labels []int) *classifier.KNN {
	t.Helper()
	points := make([][]float64, len(xs))
	for i, x := range xs {
		points[i] = point(x)
	}
	knn, err := classifier.NewKNN(cfg, points, labels)
	require.NoError(t, err)
	return knn
}

func TestKNN_MajorityVote(t *testing.T) {
	knn := newKNN(t,
		classifier.Config{Neighbors: 3},
		[]float64{0, 1, 2, 10, 11, 12},
		[]int{0, 0, 0, 1, 1, 1},
	)

	tests := []struct {
		name      string
		x         float64
		wantClass int
		wantProba []float64
	}{
		{"near low cluster", 0.5, 0, []float64{1, 0}},
		{"near high cluster", 11.5, 1, []float64{0, 1}},
		{"between clusters leaning high", 6.5, 1, []float64{1.0 / 3, 2.0 / 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := knn.Predict(query(tt.x))
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, class)

			proba, err := knn.PredictProba(query(tt.x))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.wantProba, proba, 1e-12)
		})
	}
}

func TestKNN_EquidistantNeighborsLowestIndexWins(t *testing.T) {
	// Points at -1 and +1 are both at distance 1 from 0; k=1 must pick index 0.
	knn := newKNN(t,
		classifier.Config{Neighbors: 1},
		[]float64{1, -1},
		[]int{1, 0},
	)

	neighbors, err := knn.Neighbors(query(0))
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, 0, neighbors[0].Index)

	class, err := knn.Predict(query(0))
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestKNN_TiedVoteGoesToLowestClass(t *testing.T) {
	knn := newKNN(t,
		classifier.Config{Neighbors: 2},
		[]float64{1, -1, 50},
		[]int{1, 0, 1},
	)

	class, err := knn.Predict(query(0))
	require.NoError(t, err)
	assert.Equal(t, models.ClassLowRisk, class)

	proba, err := knn.PredictProba(query(0))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, proba, 1e-12)
}

func TestKNN_DistanceWeights(t *testing.T) {
	knn := newKNN(t,
		classifier.Config{Neighbors: 3, Weights: classifier.WeightsDistance},
		[]float64{1, 3, 4},
		[]int{1, 0, 0},
	)

	// weights: 1/1 for class 1, 1/3 + 1/4 for class 0
	proba, err := knn.PredictProba(query(0))
	require.NoError(t, err)
	total := 1.0 + 1.0/3 + 1.0/4
	assert.InDeltaSlice(t, []float64{(1.0/3 + 1.0/4) / total, 1 / total}, proba, 1e-12)

	class, err := knn.Predict(query(0))
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestKNN_DistanceWeightsExactMatch(t *testing.T) {
	knn := newKNN(t,
		classifier.Config{Neighbors: 3, Weights: classifier.WeightsDistance},
		[]float64{2, 0.1, 0.2},
		[]int{1, 0, 0},
	)

	proba, err := knn.PredictProba(query(2))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1}, proba, 1e-12)
}

func TestKNN_Metrics(t *testing.T) {
	points := [][]float64{make([]float64, models.NumFeatures)}
	points[0][0] = 3
	points[0][1] = 4

	tests := []struct {
		name   string
		cfg    classifier.Config
		expect float64
	}{
		{"euclidean", classifier.Config{Neighbors: 1, Metric: classifier.MetricEuclidean}, 5},
		{"manhattan", classifier.Config{Neighbors: 1, Metric: classifier.MetricManhattan}, 7},
		{"minkowski default p", classifier.Config{Neighbors: 1}, 5},
		{"minkowski p=1", classifier.Config{Neighbors: 1, Metric: classifier.MetricMinkowski, P: 1}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			knn, err := classifier.NewKNN(tt.cfg, points, []int{0})
			require.NoError(t, err)

			neighbors, err := knn.Neighbors(models.ScaledInput{})
			require.NoError(t, err)
			assert.InDelta(t, tt.expect, neighbors[0].Distance, 1e-12)
		})
	}
}

func TestNewKNN_Validation(t *testing.T) {
	good := [][]float64{point(0), point(1)}

	tests := []struct {
		name    string
		cfg     classifier.Config
		points  [][]float64
		labels  []int
		wantErr error
	}{
		{"no points", classifier.Config{Neighbors: 1}, nil, nil, classifier.ErrInvalidModel},
		{"label count", classifier.Config{Neighbors: 1}, good, []int{0}, classifier.ErrInvalidModel},
		{"k too large", classifier.Config{Neighbors: 3}, good, []int{0, 1}, classifier.ErrInvalidModel},
		{"k zero", classifier.Config{Neighbors: 0}, good, []int{0, 1}, classifier.ErrInvalidModel},
		{"non-binary label", classifier.Config{Neighbors: 1}, good, []int{0, 2}, classifier.ErrInvalidModel},
		{"ragged rows", classifier.Config{Neighbors: 1}, [][]float64{point(0), {1, 2}}, []int{0, 1}, classifier.ErrShapeMismatch},
		{"unknown metric", classifier.Config{Neighbors: 1, Metric: "cosine"}, good, []int{0, 1}, classifier.ErrInvalidModel},
		{"unknown weights", classifier.Config{Neighbors: 1, Weights: "rank"}, good, []int{0, 1}, classifier.ErrInvalidModel},
		{"minkowski p below one", classifier.Config{Neighbors: 1, Metric: classifier.MetricMinkowski, P: 0.5}, good, []int{0, 1}, classifier.ErrInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifier.NewKNN(tt.cfg, tt.points, tt.labels)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKNN_ShapeMismatchOnQuery(t *testing.T) {
	knn, err := classifier.NewKNN(classifier.Config{Neighbors: 1}, [][]float64{{0, 0}}, []int{0})
	require.NoError(t, err)

	_, err = knn.Predict(models.ScaledInput{})
	assert.ErrorIs(t, err, classifier.ErrShapeMismatch)
}

func TestKNN_Deterministic(t *testing.T) {
	knn := newKNN(t,
		classifier.Config{Neighbors: 3},
		[]float64{0, 1, 1, 2, 2, 3},
		[]int{0, 1, 0, 1, 0, 1},
	)

	first, err := knn.PredictProba(query(1.5))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := knn.PredictProba(query(1.5))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
