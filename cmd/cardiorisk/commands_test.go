package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/artifacts/artifactstest"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/resilience"
	"github.com/OldStager01/cardio-risk/pkg/config"
)

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled
// when the test's cleanup runs.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cardiorisk "+version)
}

func TestImportCommand_FileToFile(t *testing.T) {
	from := artifactstest.WriteDir(t)
	to := filepath.Join(t.TempDir(), "model")

	out, err := execute(t, "import", "--to", "file", "--from", from, "--out", to)
	require.NoError(t, err)
	assert.Contains(t, out, "imported version "+artifactstest.Version)

	for _, name := range []string{"scaler.json", "classifier.json"} {
		want, err := os.ReadFile(filepath.Join(from, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(to, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestImportCommand_RejectsInvalidDocuments(t *testing.T) {
	from := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(from, "scaler.json"), []byte(`{"version":"x"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(from, "classifier.json"), []byte(`{}`), 0o600))
	to := filepath.Join(t.TempDir(), "model")

	_, err := execute(t, "import", "--to", "file", "--from", from, "--out", to)
	require.ErrorIs(t, err, artifacts.ErrArtifactLoadFailure)
	assert.NoDirExists(t, to)
}

func TestOpenSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr bool
	}{
		{"file", config.SourceFile, "file:./model", false},
		{"redis", config.SourceRedis, "redis:cardiorisk:v3", false},
		{"unknown", "s3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Redis: config.RedisConfig{Addr: "localhost:6379", KeyPrefix: "cardiorisk"},
				Artifacts: config.ArtifactsConfig{
					Source:  tt.source,
					Dir:     "./model",
					Version: "v3",
				},
			}
			var conns backends
			defer conns.Close()

			src, err := openSource(testContext(t), cfg, &conns)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}

func TestResilientSource_LoadsThroughBreaker(t *testing.T) {
	cfg := &config.Config{Artifacts: config.ArtifactsConfig{
		RetryAttempts:  2,
		CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 3},
	}}
	src := resilientSource(cfg, artifacts.NewFileSource(artifactstest.WriteDir(t), "", ""), metrics.New())

	bundle, err := artifacts.Load(testContext(t), src)
	require.NoError(t, err)
	assert.Equal(t, artifactstest.Version, bundle.Info().Version)
	assert.Equal(t, resilience.StateClosed, src.Breaker().State())
}
