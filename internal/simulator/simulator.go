// Package simulator generates synthetic patients and drives them through the
// prediction API for smoke and load testing.
package simulator

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// Predictor is the API surface the simulator drives.
type Predictor interface {
	Predict(ctx context.Context, features models.PatientFeatures) (*Outcome, error)
}

type Config struct {
	Requests    int
	Concurrency int
	// Interval spaces request starts; zero sends as fast as workers allow.
	Interval time.Duration
}

type Simulator struct {
	config    Config
	generator *Generator
	predictor Predictor
}

func New(cfg Config, gen *Generator, predictor Predictor) *Simulator {
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	return &Simulator{
		config:    cfg,
		generator: gen,
		predictor: predictor,
	}
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Requests    int
	Labels      map[models.RiskLabel]int
	Statuses    map[int]int
	Kinds       map[string]int
	Transport   int
	MeanLatency time.Duration
	P95Latency  time.Duration
	Duration    time.Duration
}

// Run sends the configured number of patients and returns once all have
// completed or ctx is cancelled. Per-request failures are counted, not
// returned.
func (s *Simulator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	var (
		mu        sync.Mutex
		latencies []time.Duration
		summary   = &Summary{
			Labels:   make(map[models.RiskLabel]int),
			Statuses: make(map[int]int),
			Kinds:    make(map[string]int),
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	var ticker *time.Ticker
	if s.config.Interval > 0 {
		ticker = time.NewTicker(s.config.Interval)
		defer ticker.Stop()
	}

	for i := 0; i < s.config.Requests; i++ {
		if ticker != nil && i > 0 {
			select {
			case <-gctx.Done():
			case <-ticker.C:
			}
		}
		if gctx.Err() != nil {
			break
		}

		features := s.generator.Next()
		g.Go(func() error {
			out, err := s.predictor.Predict(gctx, features)

			mu.Lock()
			defer mu.Unlock()
			summary.Requests++
			if err != nil {
				summary.Transport++
				logger.WithField("error", err.Error()).Warn("Prediction request failed")
				return nil
			}
			summary.Statuses[out.Status]++
			if out.Label != "" {
				summary.Labels[out.Label]++
			}
			if out.Kind != "" {
				summary.Kinds[out.Kind]++
			}
			latencies = append(latencies, out.Latency)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary.Duration = time.Since(start)
	summary.MeanLatency, summary.P95Latency = latencyStats(latencies)

	logger.WithFields(map[string]interface{}{
		"requests":    summary.Requests,
		"profile":     s.generator.Profile(),
		"transport":   summary.Transport,
		"duration_ms": summary.Duration.Milliseconds(),
	}).Info("Simulation finished")

	return summary, err
}

func latencyStats(latencies []time.Duration) (mean, p95 time.Duration) {
	if len(latencies) == 0 {
		return 0, 0
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, l := range sorted {
		total += l
	}
	idx := (len(sorted)*95+99)/100 - 1
	return total / time.Duration(len(sorted)), sorted[idx]
}
