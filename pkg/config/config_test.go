package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		Artifacts: config.ArtifactsConfig{
			Source:         config.SourceFile,
			Dir:            "./model",
			ScalerFile:     "scaler.json",
			ClassifierFile: "classifier.json",
			LoadTimeout:    10 * time.Second,
			RetryAttempts:  3,
		},
		Inference: config.InferenceConfig{
			DefaultConfidence: 85,
			EnforceBounds:     true,
		},
		API: config.APIConfig{
			Port: 8080,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*config.Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *config.Config) {},
			expectErr:  false,
		},
		{
			name:        "unknown mode",
			modifyFunc:  func(c *config.Config) { c.App.Mode = "staging" },
			expectErr:   true,
			errContains: "app.mode must be one of",
		},
		{
			name:        "unknown artifact source",
			modifyFunc:  func(c *config.Config) { c.Artifacts.Source = "s3" },
			expectErr:   true,
			errContains: "artifacts.source must be one of",
		},
		{
			name:        "file source without dir",
			modifyFunc:  func(c *config.Config) { c.Artifacts.Dir = "" },
			expectErr:   true,
			errContains: "artifacts.dir is required",
		},
		{
			name:        "postgres source validates database",
			modifyFunc:  func(c *config.Config) { c.Artifacts.Source = config.SourcePostgres },
			expectErr:   true,
			errContains: "database.host is required",
		},
		{
			name: "postgres source with database",
			modifyFunc: func(c *config.Config) {
				c.Artifacts.Source = config.SourcePostgres
				c.Database = config.DatabaseConfig{Host: "db", Port: 5432, Name: "cardiorisk", MaxConnections: 5}
			},
			expectErr: false,
		},
		{
			name: "redis source without addr",
			modifyFunc: func(c *config.Config) {
				c.Artifacts.Source = config.SourceRedis
			},
			expectErr:   true,
			errContains: "redis.addr is required",
		},
		{
			name:        "default confidence out of range",
			modifyFunc:  func(c *config.Config) { c.Inference.DefaultConfidence = 120 },
			expectErr:   true,
			errContains: "default_confidence must be between 0 and 100",
		},
		{
			name:        "metrics port collides with api",
			modifyFunc:  func(c *config.Config) { c.Metrics.Port = 8080 },
			expectErr:   true,
			errContains: "metrics.port must differ",
		},
		{
			name:        "zero retry attempts",
			modifyFunc:  func(c *config.Config) { c.Artifacts.RetryAttempts = 0 },
			expectErr:   true,
			errContains: "retry_attempts must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "testdb",
		User:     "admin",
		Password: "secret",
		SSLMode:  "disable",
	}

	dsn := dbCfg.DSN()

	expected := "host=localhost port=5432 user=admin password=secret dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: cardio-test
  mode: test
artifacts:
  dir: /srv/model
inference:
  default_confidence: 70
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CARDIORISK_API_PORT", "9999")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cardio-test", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Mode)
	assert.Equal(t, "/srv/model", cfg.Artifacts.Dir)
	assert.Equal(t, 70.0, cfg.Inference.DefaultConfidence)
	assert.Equal(t, 9999, cfg.API.Port)

	// untouched keys fall back to defaults
	assert.Equal(t, config.SourceFile, cfg.Artifacts.Source)
	assert.Equal(t, "scaler.json", cfg.Artifacts.ScalerFile)
	assert.Equal(t, 30*time.Second, cfg.Artifacts.LoadTimeout)
	assert.True(t, cfg.Inference.EnforceBounds)

	require.NoError(t, cfg.Validate())
}
