package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/J-cmar/hedgebets/internal/metrics"
)

var (
	// PredictionsTotal tracks quantile predictions served, by source
	PredictionsTotal = promauto.With(metrics.GetRegistry()).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hedgebets",
			Name:      "model_predictions_total",
			Help:      "Total number of quantile predictions served",
		},
		[]string{"source", "cache_hit"},
	)

	// RequestLatency tracks model service request latency
	RequestLatency = promauto.With(metrics.GetRegistry()).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hedgebets",
			Name:      "model_request_latency_seconds",
			Help:      "Model service request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// RequestErrorsTotal tracks model service request errors
	RequestErrorsTotal = promauto.With(metrics.GetRegistry()).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hedgebets",
			Name:      "model_request_errors_total",
			Help:      "Total number of model service request errors",
		},
		[]string{"operation", "kind"},
	)

	// CacheHitRatio tracks the prediction cache hit ratio
	CacheHitRatio = promauto.With(metrics.GetRegistry()).NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hedgebets",
			Name:      "model_cache_hit_ratio",
			Help:      "Quantile prediction cache hit ratio",
		},
	)
)
