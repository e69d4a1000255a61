package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/resilience"
	"github.com/OldStager01/cardio-risk/pkg/config"
	"github.com/OldStager01/cardio-risk/pkg/database"
	"github.com/OldStager01/cardio-risk/pkg/database/queries"
)

// backends holds the connections opened for an artifact store.
type backends struct {
	db    *database.DB
	redis *redis.Client
}

func (b *backends) Close() {
	if b.db != nil {
		b.db.Close()
	}
	if b.redis != nil {
		b.redis.Close()
	}
}

// openDB connects to Postgres and checks that migrate has been run.
func (b *backends) openDB(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	if b.db != nil {
		return b.db, nil
	}

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.CheckSchema(ctx, database.ArtifactsTable); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Database connection established")
	b.db = db
	return db, nil
}

func (b *backends) openRedis(cfg *config.Config) *redis.Client {
	if b.redis == nil {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return b.redis
}

// openSource builds the configured artifact source.
func openSource(ctx context.Context, cfg *config.Config, b *backends) (artifacts.Source, error) {
	a := cfg.Artifacts
	switch a.Source {
	case config.SourcePostgres:
		db, err := b.openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return artifacts.NewPostgresSource(queries.NewArtifactRepository(db.DB), a.Version), nil
	case config.SourceRedis:
		return artifacts.NewRedisSource(b.openRedis(cfg), cfg.Redis.KeyPrefix, a.Version), nil
	case config.SourceFile, "":
		return artifacts.NewFileSource(a.Dir, a.ScalerFile, a.ClassifierFile), nil
	default:
		return nil, fmt.Errorf("unknown artifact source %q", a.Source)
	}
}

// resilientSource wraps src in retries behind a circuit breaker whose state
// is exported as a metric.
func resilientSource(cfg *config.Config, src artifacts.Source, m *metrics.Metrics) *artifacts.ResilientSource {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "artifacts",
		MaxFailures: cfg.Artifacts.CircuitBreaker.MaxFailures,
		Timeout:     cfg.Artifacts.CircuitBreaker.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			m.SetCircuitBreakerState(name, int(to))
		},
	})

	return artifacts.NewResilientSource(src, breaker, resilience.RetryConfig{
		Attempts: cfg.Artifacts.RetryAttempts,
		Delay:    cfg.Artifacts.RetryDelay,
	})
}
