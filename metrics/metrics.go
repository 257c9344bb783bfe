package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_predictions_total",
			Help: "Diary entries classified, by dominant emotion",
		},
		[]string{"emotion"},
	)

	ClassificationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodmap_classification_duration_seconds",
			Help:    "Time spent in the text classifier",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	NarrativeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_narrative_requests_total",
			Help: "Narrative generation calls by kind and outcome (ok, cached, degraded)",
		},
		[]string{"kind", "outcome"},
	)

	NarrativeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmap_narrative_duration_seconds",
			Help:    "LLM narrative generation latency",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"kind"},
	)
)

// Registry 独立注册表，避免与默认注册表中的进程指标冲突
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PredictionsTotal,
		ClassificationDuration,
		NarrativeRequestsTotal,
		NarrativeDuration,
	)
}
