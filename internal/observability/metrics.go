package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hail_service"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Estimation metrics.
	EstimatesComputed *prometheus.CounterVec // labels: kind={roof,auto}, variant={advanced,basic,-}
	EstimateErrors    *prometheus.CounterVec // labels: kind={roof,auto}, reason={missing_field,unknown_value,invalid_body}

	// Monitoring metrics.
	MonitorRuns        *prometheus.CounterVec // labels: mode={recent,range}, outcome={success,partial,error}
	MonitorRunDuration prometheus.Histogram
	MonitorScheduled   prometheus.Gauge
	EventsFound        prometheus.Counter
	EventsInserted     prometheus.Counter
	EventsDuplicate    prometheus.Counter
	EventErrors        prometheus.Counter
	EventsPublished    prometheus.Counter

	// Text generation metrics.
	LLMRequests *prometheus.CounterVec // labels: outcome={success,error}
	LLMDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EstimatesComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_computed_total",
			Help:      "Estimates returned, by calculator and roof formula.",
		}, []string{"kind", "variant"}),
		EstimateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_errors_total",
			Help:      "Rejected estimate requests, by calculator and reason.",
		}, []string{"kind", "reason"}),
		MonitorRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitor_runs_total",
			Help:      "Monitoring passes, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		MonitorRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "monitor_run_duration_seconds",
			Help:      "Duration of a complete monitoring pass.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		MonitorScheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_scheduled",
			Help:      "1 while the periodic monitor is running, 0 otherwise.",
		}),
		EventsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_found_total",
			Help:      "Hail events returned by the text-generation model.",
		}),
		EventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_inserted_total",
			Help:      "Hail events written to history.",
		}),
		EventsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_duplicate_total",
			Help:      "Hail events skipped because history already had them.",
		}),
		EventErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_errors_total",
			Help:      "Hail events dropped by validation or storage failures.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Inserted hail events published to Kafka.",
		}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Text-generation requests by outcome.",
		}, []string{"outcome"}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Text-generation request duration in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.EstimatesComputed,
		m.EstimateErrors,
		m.MonitorRuns,
		m.MonitorRunDuration,
		m.MonitorScheduled,
		m.EventsFound,
		m.EventsInserted,
		m.EventsDuplicate,
		m.EventErrors,
		m.EventsPublished,
		m.LLMRequests,
		m.LLMDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
