package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/internal/pipeline"
)

// Pinger is the database health probe.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	inferer pipeline.Inferer
}

// NewHealthHandler builds the health endpoints. db may be nil when artifacts
// are not served from Postgres.
func NewHealthHandler(db Pinger, inferer pipeline.Inferer) *HealthHandler {
	return &HealthHandler{db: db, inferer: inferer}
}

type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp string            `json:"timestamp" example:"2026-01-15T10:30:00Z"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) check(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	ok := true

	if h.inferer == nil {
		checks["model"] = "not loaded"
		ok = false
	} else {
		checks["model"] = "loaded: " + h.inferer.Model().Version
	}

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			ok = false
		} else {
			checks["database"] = "healthy"
		}
	}

	return checks, ok
}

// Health godoc
// @Summary Service health
// @Description Model and database status
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, ok := h.check(ctx)
	status, code := "healthy", http.StatusOK
	if !ok {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Ready godoc
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, ok := h.check(ctx); !ok {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
