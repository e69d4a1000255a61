package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/internal/metrics"
)

type MetricsHandler struct {
	metrics *metrics.Metrics
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// Serve godoc
// @Summary Service counters
// @Description Prediction, failure and stage counters in the Prometheus text format
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *MetricsHandler) Serve(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
