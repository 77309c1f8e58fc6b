package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry      *prometheus.Registry
	uploads       *prometheus.CounterVec
	uploadBytes   prometheus.Histogram
	parseDuration prometheus.Histogram
	records       prometheus.Counter
	dropped       prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wca",
			Name:      "uploads_total",
			Help:      "Chat exports received, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wca",
			Name:      "upload_bytes",
			Help:      "Size of uploaded chat exports.",
			Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 9),
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wca",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one export.",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wca",
			Name:      "records_parsed_total",
			Help:      "Messages parsed from uploads.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wca",
			Name:      "fragments_dropped_total",
			Help:      "Export fragments that could not be attributed or dated.",
		}),
	}
	m.registry.MustRegister(
		m.uploads,
		m.uploadBytes,
		m.parseDuration,
		m.records,
		m.dropped,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
