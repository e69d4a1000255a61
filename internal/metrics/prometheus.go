package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	predictionsTotal map[string]int64 // label -> count
	failuresTotal    map[string]int64 // kind -> count
	stagesTotal      map[string]int64 // stage -> count
	eventsObserved   int64

	// Gauges
	circuitBreakerState map[string]int // 0=closed, 1=open, 2=half-open
	model               *models.ModelInfo

	// Latency summary
	inferenceCount int64
	inferenceSum   time.Duration
	inferenceMax   time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	return &Metrics{
		predictionsTotal:    make(map[string]int64),
		failuresTotal:       make(map[string]int64),
		stagesTotal:         make(map[string]int64),
		circuitBreakerState: make(map[string]int),
	}
}

func (m *Metrics) IncPrediction(label models.RiskLabel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionsTotal[string(label)]++
}

func (m *Metrics) IncFailure(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failuresTotal[kind]++
}

func (m *Metrics) IncStage(stage models.Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stagesTotal[string(stage)]++
}

func (m *Metrics) ObserveInference(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inferenceCount++
	m.inferenceSum += d
	if d > m.inferenceMax {
		m.inferenceMax = d
	}
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerState[name] = state
}

func (m *Metrics) SetModel(info models.ModelInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = &info
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Predictions    map[string]int64
	Failures       map[string]int64
	Stages         map[string]int64
	EventsObserved int64
	Inferences     int64
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Predictions:    copyCounts(m.predictionsTotal),
		Failures:       copyCounts(m.failuresTotal),
		Stages:         copyCounts(m.stagesTotal),
		EventsObserved: m.eventsObserved,
		Inferences:     m.inferenceCount,
	}
}

// Observe consumes pipeline events until ch is closed, counting stage
// entries and failures. Run it in its own goroutine.
func (m *Metrics) Observe(ch <-chan *models.Event) {
	for event := range ch {
		m.mu.Lock()
		m.eventsObserved++
		m.mu.Unlock()

		switch data := event.Data.(type) {
		case models.StageTransition:
			m.IncStage(data.To)
		case models.InferenceFailure:
			m.IncFailure(data.Kind)
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		m.WriteTo(w)
	})
}

// WriteTo renders the registry in the Prometheus text format.
func (m *Metrics) WriteTo(w io.Writer) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	writeCounts(w, "cardiorisk_predictions_total", "label", m.predictionsTotal)
	writeCounts(w, "cardiorisk_inference_failures_total", "kind", m.failuresTotal)
	writeCounts(w, "cardiorisk_pipeline_stage_total", "stage", m.stagesTotal)
	writeMetric(w, "cardiorisk_events_observed_total", nil, float64(m.eventsObserved))

	writeMetric(w, "cardiorisk_inference_duration_seconds_count", nil, float64(m.inferenceCount))
	writeMetric(w, "cardiorisk_inference_duration_seconds_sum", nil, m.inferenceSum.Seconds())
	writeMetric(w, "cardiorisk_inference_duration_seconds_max", nil, m.inferenceMax.Seconds())

	names := make([]string, 0, len(m.circuitBreakerState))
	for name := range m.circuitBreakerState {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeMetric(w, "cardiorisk_circuit_breaker_state", [][2]string{{"name", name}}, float64(m.circuitBreakerState[name]))
	}

	if m.model != nil {
		writeMetric(w, "cardiorisk_model_info", [][2]string{
			{"version", m.model.Version},
			{"metric", m.model.Metric},
			{"weights", m.model.Weights},
			{"neighbors", strconv.Itoa(m.model.Neighbors)},
			{"fingerprint", m.model.Fingerprint},
		}, 1)
	}
}

func writeCounts(w io.Writer, name, label string, counts map[string]int64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeMetric(w, name, [][2]string{{label, k}}, float64(counts[k]))
	}
}

func writeMetric(w io.Writer, name string, labels [][2]string, value float64) {
	var b strings.Builder
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteString("{")
		for i, l := range labels {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s=%q", l[0], l[1])
		}
		b.WriteString("}")
	}
	b.WriteString(" ")
	b.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
	b.WriteString("\n")
	io.WriteString(w, b.String())
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// StartServer exposes the registry on its own port, separate from the API.
func StartServer(port int, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("Metrics server listening on %s", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Metrics server error: %v", err)
		}
	}()
	return srv
}
