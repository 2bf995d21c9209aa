package http

import (
	"github.com/fwojciec/prscope"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "prscope"

type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	throttled       prometheus.Counter
	rejected        *prometheus.CounterVec
	files           prometheus.Counter
	recommendations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"route"}),
		throttled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "throttled_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "rejected_inputs_total",
			Help:      "Inputs rejected before parsing by field and reason",
		}, []string{"field", "reason"}),
		files: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "files_analyzed_total",
			Help:      "Changed files analyzed",
		}),
		recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "recommendations_total",
			Help:      "Recommendations emitted by text",
		}, []string{"recommendation"}),
	}
}

func (m *metrics) observeReport(r *prscope.Report) {
	m.files.Add(float64(len(r.FileAnalyses)))
	for _, rec := range r.Recommendations {
		m.recommendations.WithLabelValues(rec).Inc()
	}
}
