package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

var (
	ErrRequestFailed   = errors.New("prediction request failed")
	ErrInvalidResponse = errors.New("invalid response")
)

// Outcome is one prediction call as seen by the client.
type Outcome struct {
	Status     int
	Label      models.RiskLabel
	Confidence float64
	Kind       string
	TraceID    string
	Latency    time.Duration
}

type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPClient posts patients to the prediction API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type predictResponse struct {
	Label      models.RiskLabel `json:"label"`
	Confidence float64          `json:"confidence"`
	Kind       string           `json:"kind"`
	TraceID    string           `json:"trace_id"`
}

// Predict returns an Outcome for any HTTP response, including 4xx and 5xx.
// Transport failures are ErrRequestFailed.
func (c *HTTPClient) Predict(ctx context.Context, features models.PatientFeatures) (*Outcome, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}

	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrInvalidResponse, resp.StatusCode, err)
	}

	out := &Outcome{
		Status:     resp.StatusCode,
		Label:      pr.Label,
		Confidence: pr.Confidence,
		Kind:       pr.Kind,
		TraceID:    pr.TraceID,
		Latency:    time.Since(start),
	}

	logger.WithFields(map[string]interface{}{
		"status":   out.Status,
		"label":    out.Label,
		"trace_id": out.TraceID,
	}).Debug("Prediction received")

	return out, nil
}

func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/ready", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
