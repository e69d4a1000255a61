package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseURL := flag.String("url", "http://localhost:8080", "prediction API base URL")
	requests := flag.Int("requests", 100, "number of patients to send")
	concurrency := flag.Int("concurrency", 4, "concurrent requests")
	interval := flag.Duration("interval", 0, "delay between request starts")
	seed := flag.Int64("seed", 1, "generator seed")
	profile := flag.String("profile", "mixed", "patient profile: healthy, at-risk, mixed, edge, invalid")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := simulator.NewHTTPClient(simulator.HTTPClientConfig{BaseURL: *baseURL, Timeout: *timeout})
	defer client.Close()

	if err := client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service not ready: %w", err)
	}

	gen := simulator.NewGenerator(simulator.GeneratorConfig{
		Seed:    *seed,
		Profile: *profile,
	})
	logger.Infof("Sending %d %s patients to %s", *requests, gen.Profile(), *baseURL)

	sim := simulator.New(simulator.Config{
		Requests:    *requests,
		Concurrency: *concurrency,
		Interval:    *interval,
	}, gen, client)

	summary, err := sim.Run(ctx)
	if summary != nil {
		printSummary(summary)
	}
	return err
}

func printSummary(s *simulator.Summary) {
	fmt.Printf("requests: %d in %s (mean %s, p95 %s)\n", s.Requests, s.Duration.Round(time.Millisecond), s.MeanLatency, s.P95Latency)

	for label, n := range s.Labels {
		fmt.Printf("  label %-5s %d\n", label, n)
	}

	statuses := make([]int, 0, len(s.Statuses))
	for status := range s.Statuses {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Printf("  status %d  %d\n", status, s.Statuses[status])
	}

	for kind, n := range s.Kinds {
		fmt.Printf("  error %-18s %d\n", kind, n)
	}
	if s.Transport > 0 {
		fmt.Printf("  transport errors %d\n", s.Transport)
	}
}
