package artifacts_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/artifacts/artifactstest"
	"github.com/OldStager01/cardio-risk/internal/resilience"
	"github.com/OldStager01/cardio-risk/pkg/database/queries"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

func TestBuild_FixtureBundle(t *testing.T) {
	b := artifactstest.Bundle(t)

	info := b.Info()
	assert.Equal(t, artifacts.ModelName, info.Name)
	assert.Equal(t, artifactstest.Version, info.Version)
	assert.Equal(t, models.NumFeatures, info.Features)
	assert.Equal(t, artifactstest.Neighbors, info.Neighbors)
	assert.Equal(t, 12, info.Samples)
	assert.Len(t, info.Fingerprint, 64)
	assert.Equal(t, models.NumFeatures, b.Scaler().NFeatures())
	assert.Equal(t, models.NumFeatures, b.Classifier().NFeatures())
}

func TestBuild_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument)
		wantErr error
	}{
		{
			name: "classifier fit on twelve features",
			modify: func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) {
				for i := range cd.FitX {
					cd.FitX[i] = cd.FitX[i][:12]
				}
			},
			wantErr: artifacts.ErrArtifactMismatch,
		},
		{
			name: "scaler fit on twelve features",
			modify: func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) {
				sd.Center = sd.Center[:12]
				sd.Scale = sd.Scale[:12]
			},
			wantErr: artifacts.ErrArtifactMismatch,
		},
		{
			name:    "version mismatch",
			modify:  func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) { cd.Version = "other" },
			wantErr: artifacts.ErrArtifactMismatch,
		},
		{
			name: "feature names out of order",
			modify: func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) {
				sd.FeatureNames[0], sd.FeatureNames[1] = sd.FeatureNames[1], sd.FeatureNames[0]
			},
			wantErr: artifacts.ErrArtifactMismatch,
		},
		{
			name: "ragged training row",
			modify: func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) {
				cd.FitX[3] = cd.FitX[3][:10]
			},
			wantErr: artifacts.ErrArtifactMismatch,
		},
		{
			name:    "scale shorter than center",
			modify:  func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) { sd.Scale = sd.Scale[:5] },
			wantErr: artifacts.ErrArtifactLoadFailure,
		},
		{
			name:    "k larger than training set",
			modify:  func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) { cd.NNeighbors = 50 },
			wantErr: artifacts.ErrArtifactLoadFailure,
		},
		{
			name:    "non binary classes",
			modify:  func(sd *artifacts.ScalerDocument, cd *artifacts.ClassifierDocument) { cd.Classes = []int{0, 1, 2} },
			wantErr: artifacts.ErrArtifactLoadFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := artifactstest.ScalerDocument()
			cd := artifactstest.ClassifierDocument()
			tt.modify(sd, cd)

			_, err := artifacts.Build(sd, cd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_LoadFailure(t *testing.T) {
	good := artifactstest.RawPair(t)

	tests := []struct {
		name string
		raw  artifacts.RawPair
	}{
		{"empty scaler", artifacts.RawPair{Classifier: good.Classifier}},
		{"truncated classifier", artifacts.RawPair{Scaler: good.Scaler, Classifier: good.Classifier[:20]}},
		{"scaler missing center", artifacts.RawPair{Scaler: []byte(`{"version":"1","scale":[1]}`), Classifier: good.Classifier}},
		{"unknown metric", artifacts.RawPair{Scaler: good.Scaler, Classifier: []byte(`{"version":"1","n_neighbors":1,"metric":"cosine","fit_x":[[0]],"fit_y":[0]}`)}},
		{"string where number expected", artifacts.RawPair{Scaler: []byte(`{"version":"1","center":["a"],"scale":[1]}`), Classifier: good.Classifier}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := artifacts.Decode(tt.raw)
			assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
		})
	}
}

func TestFingerprint(t *testing.T) {
	raw := artifactstest.RawPair(t)

	fp := artifacts.Fingerprint(raw)
	assert.Equal(t, fp, artifacts.Fingerprint(raw))

	swapped := artifacts.RawPair{Scaler: raw.Classifier, Classifier: raw.Scaler}
	assert.NotEqual(t, fp, artifacts.Fingerprint(swapped))

	// the separator keeps the boundary between documents significant
	a := artifacts.RawPair{Scaler: []byte("ab"), Classifier: []byte("c")}
	b := artifacts.RawPair{Scaler: []byte("a"), Classifier: []byte("bc")}
	assert.NotEqual(t, artifacts.Fingerprint(a), artifacts.Fingerprint(b))
}

func TestLoad_FileSource(t *testing.T) {
	dir := artifactstest.WriteDir(t)

	b, err := artifacts.Load(context.Background(), artifacts.NewFileSource(dir, "", ""))
	require.NoError(t, err)

	assert.Equal(t, "file:"+dir, b.Info().Source)
	assert.Equal(t, artifacts.Fingerprint(artifactstest.RawPair(t)), b.Info().Fingerprint)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := artifacts.Load(context.Background(), artifacts.NewFileSource(t.TempDir(), "", ""))

	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MismatchedFiles(t *testing.T) {
	dir := t.TempDir()
	sd := artifactstest.ScalerDocument()
	cd := artifactstest.ClassifierDocument()
	cd.FeatureNames = nil
	for i := range cd.FitX {
		cd.FitX[i] = cd.FitX[i][:12]
	}
	raw, err := artifacts.Encode(sd, cd)
	require.NoError(t, err)
	require.NoError(t, artifacts.NewFileSource(dir, "", "").WriteDir(raw))

	_, err = artifacts.Load(context.Background(), artifacts.NewFileSource(dir, "", ""))
	assert.ErrorIs(t, err, artifacts.ErrArtifactMismatch)
	assert.NotErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
}

func TestFileSource_WriteDirRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "model")
	src := artifacts.NewFileSource(dir, "s.json", "c.json")
	raw := artifactstest.RawPair(t)

	require.NoError(t, src.WriteDir(raw))
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

type fakePairs struct {
	scaler, classifier *queries.ArtifactRecord
	err                error
	gotVersion         string
}

func (f *fakePairs) GetPair(ctx context.Context, version string) (*queries.ArtifactRecord, *queries.ArtifactRecord, error) {
	f.gotVersion = version
	return f.scaler, f.classifier, f.err
}

func records(raw artifacts.RawPair) (*queries.ArtifactRecord, *queries.ArtifactRecord) {
	return &queries.ArtifactRecord{Version: artifactstest.Version, Kind: queries.KindScaler, Document: raw.Scaler, Digest: artifacts.Digest(raw.Scaler)},
		&queries.ArtifactRecord{Version: artifactstest.Version, Kind: queries.KindClassifier, Document: raw.Classifier, Digest: artifacts.Digest(raw.Classifier)}
}

func TestPostgresSource(t *testing.T) {
	raw := artifactstest.RawPair(t)
	sr, cr := records(raw)
	repo := &fakePairs{scaler: sr, classifier: cr}

	src := artifacts.NewPostgresSource(repo, "")
	b, err := artifacts.Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "", repo.gotVersion)
	assert.Equal(t, "postgres:latest", b.Info().Source)
	assert.Equal(t, artifactstest.Version, b.Info().Version)
}

func TestPostgresSource_DigestMismatch(t *testing.T) {
	raw := artifactstest.RawPair(t)
	sr, cr := records(raw)
	cr.Digest = "deadbeef"

	_, err := artifacts.NewPostgresSource(&fakePairs{scaler: sr, classifier: cr}, "v").Fetch(context.Background())
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
}

func TestPostgresSource_NotFound(t *testing.T) {
	repo := &fakePairs{err: queries.ErrArtifactNotFound}

	_, err := artifacts.Load(context.Background(), artifacts.NewPostgresSource(repo, "v9"))
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
	assert.ErrorIs(t, err, queries.ErrArtifactNotFound)
	assert.Equal(t, "v9", repo.gotVersion)
}

type fakeRedis struct {
	values map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.values[k]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func TestRedisSource(t *testing.T) {
	raw := artifactstest.RawPair(t)
	client := &fakeRedis{values: map[string]string{
		"cr:latest":            artifactstest.Version,
		"cr:test-1:scaler":     string(raw.Scaler),
		"cr:test-1:classifier": string(raw.Classifier),
	}}

	b, err := artifacts.Load(context.Background(), artifacts.NewRedisSource(client, "cr", ""))
	require.NoError(t, err)
	assert.Equal(t, "redis:cr:latest", b.Info().Source)
	assert.Equal(t, artifacts.Fingerprint(raw), b.Info().Fingerprint)

	_, err = artifacts.Load(context.Background(), artifacts.NewRedisSource(client, "cr", "missing"))
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)

	_, err = artifacts.Load(context.Background(), artifacts.NewRedisSource(&fakeRedis{}, "cr", ""))
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
}

type flakySource struct {
	failures int
	calls    int
	raw      artifacts.RawPair
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Fetch(ctx context.Context) (artifacts.RawPair, error) {
	f.calls++
	if f.calls <= f.failures {
		return artifacts.RawPair{}, errors.New("connection refused")
	}
	return f.raw, nil
}

func TestResilientSource_RetriesThenLoads(t *testing.T) {
	flaky := &flakySource{failures: 2, raw: artifactstest.RawPair(t)}
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "artifacts", MaxFailures: 5})
	src := artifacts.NewResilientSource(flaky, cb, resilience.RetryConfig{Attempts: 3, Delay: time.Millisecond})

	b, err := artifacts.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.calls)
	assert.Equal(t, "flaky", b.Info().Source)
	assert.Equal(t, resilience.StateClosed, src.Breaker().State())
}

func TestResilientSource_GivesUp(t *testing.T) {
	flaky := &flakySource{failures: 10}
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Hour})
	src := artifacts.NewResilientSource(flaky, cb, resilience.RetryConfig{Attempts: 4, Delay: time.Millisecond})

	_, err := artifacts.Load(context.Background(), src)
	assert.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, flaky.calls)
}
