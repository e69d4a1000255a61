package artifacts

import (
	"context"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/resilience"
)

// ResilientSource retries a flaky source behind a circuit breaker.
type ResilientSource struct {
	source  Source
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

func NewResilientSource(source Source, breaker *resilience.CircuitBreaker, retry resilience.RetryConfig) *ResilientSource {
	if retry.OnRetry == nil {
		name := source.Name()
		retry.OnRetry = func(attempt int, err error) {
			logger.WithField("source", name).Warnf("Artifact fetch attempt %d failed: %v", attempt, err)
		}
	}
	return &ResilientSource{source: source, breaker: breaker, retry: retry}
}

func (s *ResilientSource) Name() string {
	return s.source.Name()
}

func (s *ResilientSource) Fetch(ctx context.Context) (RawPair, error) {
	var raw RawPair
	err := resilience.Retry(ctx, s.breaker, s.retry, func(ctx context.Context) error {
		var err error
		raw, err = s.source.Fetch(ctx)
		return err
	})
	return raw, err
}

func (s *ResilientSource) Breaker() *resilience.CircuitBreaker {
	return s.breaker
}
