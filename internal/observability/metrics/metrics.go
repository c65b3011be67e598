package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineRunsTotal     *prometheus.CounterVec
	pipelineDuration      *prometheus.HistogramVec
	retrievalSkippedTotal *prometheus.CounterVec
	retrievedDocuments    *prometheus.HistogramVec
	analysesTotal         *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stratagent",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stratagent",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stratagent",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stratagent",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total tension pipeline runs by outcome.",
		},
		[]string{"service", "outcome"},
	)
	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stratagent",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Tension pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	retrievalSkippedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stratagent",
			Subsystem: "pipeline",
			Name:      "retrieval_skipped_total",
			Help:      "Total runs that completed without retrieved context, by skipped stage.",
		},
		[]string{"service", "stage"},
	)
	retrievedDocuments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stratagent",
			Subsystem: "pipeline",
			Name:      "retrieved_documents",
			Help:      "Distribution of retrieved documents per completed run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stratagent",
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total single-shot analysis requests by type and outcome.",
		},
		[]string{"service", "type", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineRunsTotal,
		pipelineDuration,
		retrievalSkippedTotal,
		retrievedDocuments,
		analysesTotal,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		pipelineRunsTotal:     pipelineRunsTotal,
		pipelineDuration:      pipelineDuration,
		retrievalSkippedTotal: retrievalSkippedTotal,
		retrievedDocuments:    retrievedDocuments,
		analysesTotal:         analysesTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/sessions/") {
		return path
	}
	rest := strings.TrimPrefix(path, "/v1/sessions/")
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return "/v1/sessions/{session_id}" + rest[idx:]
	}
	return "/v1/sessions/{session_id}"
}

func (m *HTTPServerMetrics) RecordPipelineRun(service, outcome string, documentCount int, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.pipelineRunsTotal.WithLabelValues(service, outcome).Inc()
	m.pipelineDuration.WithLabelValues(service).Observe(duration.Seconds())
	if outcome == "completed" {
		m.retrievedDocuments.WithLabelValues(service).Observe(float64(documentCount))
	}
}

func (m *HTTPServerMetrics) RecordRetrievalSkipped(service, stage string) {
	if stage == "" {
		stage = "unknown"
	}
	m.retrievalSkippedTotal.WithLabelValues(service, stage).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysis(service, analysisType, outcome string) {
	if analysisType == "" {
		analysisType = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.analysesTotal.WithLabelValues(service, analysisType, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
