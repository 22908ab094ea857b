// Package metrics provides the centralized Prometheus registry for the
// HedgeBets service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScoresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgebets",
		Name:      "scores_total",
		Help:      "Total number of bet scenarios scored",
	}, []string{"direction", "recommendation"})
	InvalidInputsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hedgebets",
		Name:      "invalid_inputs_total",
		Help:      "Total number of scoring requests rejected as invalid",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgebets",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})
)

// Gauge metrics
var (
	ModelServiceUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hedgebets",
		Name:      "model_service_up",
		Help:      "Whether the quantile model service responded to the last health probe",
	})
)

// Histogram metrics
var (
	ScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hedgebets",
		Name:      "score_duration_seconds",
		Help:      "Duration of bet scenario scoring in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hedgebets",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ScoresTotal)
		registry.MustRegister(InvalidInputsTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(ModelServiceUp)

		registry.MustRegister(ScoreDuration)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScore records one scored scenario.
func RecordScore(direction, recommendation string, durationSeconds float64) {
	ScoresTotal.WithLabelValues(direction, recommendation).Inc()
	ScoreDuration.Observe(durationSeconds)
}

// RecordInvalidInput records one rejected scoring request.
func RecordInvalidInput() {
	InvalidInputsTotal.Inc()
}

// SetModelServiceUp flips the model service availability gauge.
func SetModelServiceUp(up bool) {
	if up {
		ModelServiceUp.Set(1)
	} else {
		ModelServiceUp.Set(0)
	}
}
