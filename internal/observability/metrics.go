package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather broadcast pipeline. The one-shot CLI increments them without
// serving them; the beacon daemon exposes them at /metrics.
type Metrics struct {
	FetchesTotal  *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	MessagesSent         prometheus.Counter
	SendFailures         prometheus.Counter
	BatchMessages        prometheus.Histogram
	MessageBytes         prometheus.Histogram
	TransmissionDuration prometheus.Histogram

	// Beacon daemon metrics.
	BroadcastsTotal      *prometheus.CounterVec // labels: outcome={success,error}
	LastBroadcastSuccess prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.MessagesSent,
		m.SendFailures,
		m.BatchMessages,
		m.MessageBytes,
		m.TransmissionDuration,
		m.BroadcastsTotal,
		m.LastBroadcastSuccess,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshwttr",
			Name:      "fetches_total",
			Help:      "Weather report fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshwttr",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of wttr.in report fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meshwttr",
			Name:      "messages_sent_total",
			Help:      "Messages handed to the uplink transport.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meshwttr",
			Name:      "send_failures_total",
			Help:      "Messages that failed to send.",
		}),
		BatchMessages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshwttr",
			Name:      "batch_messages",
			Help:      "Messages per composed batch.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
		MessageBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshwttr",
			Name:      "message_bytes",
			Help:      "Byte length of transmitted messages.",
			Buckets:   []float64{50, 100, 150, 200, 250},
		}),
		TransmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meshwttr",
			Name:      "transmission_duration_seconds",
			Help:      "Duration of a complete batch transmission including pacing delays.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60},
		}),
		BroadcastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meshwttr",
			Name:      "broadcasts_total",
			Help:      "Scheduled broadcast cycles by outcome.",
		}, []string{"outcome"}),
		LastBroadcastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "meshwttr",
			Name:      "last_broadcast_success_timestamp_seconds",
			Help:      "Unix time of the last fully delivered broadcast.",
		}),
	}
}
