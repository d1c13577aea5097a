package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-and-classify pipeline.
type Metrics struct {
	FetchCycles     prometheus.Counter
	CycleDuration   prometheus.Histogram
	PipelineRunning prometheus.Gauge

	// Per-source fetch metrics.
	SourceRequests   *prometheus.CounterVec // labels: source={openweather,nws,fema}, outcome={success,error}
	AlertsNormalized *prometheus.CounterVec // labels: source

	// AI collaborator metrics.
	AssessFallbacks *prometheus.CounterVec // labels: phase={assessment,forecast}

	// Notification sink metrics.
	NotificationsPublished prometheus.Counter

	// Geocoding cache metrics.
	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "fetch_cycles_total",
			Help:      "Total completed fetch-and-classify cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_watch",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-and-classify cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_watch",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "source_requests_total",
			Help:      "Feed requests by source and outcome.",
		}, []string{"source", "outcome"}),
		AlertsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "alerts_normalized_total",
			Help:      "Alerts normalized into the canonical shape, by source.",
		}, []string{"source"}),
		AssessFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "assess_fallbacks_total",
			Help:      "Times the deterministic fallback replaced the AI path, by phase.",
		}, []string{"phase"}),
		NotificationsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "notifications_published_total",
			Help:      "Notification records published to the sink topic.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_watch",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.FetchCycles,
		m.CycleDuration,
		m.PipelineRunning,
		m.SourceRequests,
		m.AlertsNormalized,
		m.AssessFallbacks,
		m.NotificationsPublished,
		m.GeocodeCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchCycles:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "fetch_cycles_total"}),
		CycleDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "disaster_watch", Name: "cycle_duration_seconds"}),
		PipelineRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disaster_watch", Name: "pipeline_running"}),
		SourceRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "source_requests_total"}, []string{"source", "outcome"}),
		AlertsNormalized:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "alerts_normalized_total"}, []string{"source"}),
		AssessFallbacks:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "assess_fallbacks_total"}, []string{"phase"}),
		NotificationsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "notifications_published_total"}),
		GeocodeCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_watch", Name: "geocode_cache_total"}, []string{"result"}),
	}
}
