package main

import (
	"net/http"
	"time"

	"github.com/gamma-omg/medbot-mcp/matcher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Latency buckets in milliseconds.
var matchBuckets = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000}

type Metrics struct {
	registry *prometheus.Registry

	matches    *prometheus.CounterVec
	latency    prometheus.Histogram
	corpusSize prometheus.Gauge
	reloads    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		matches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medbot_matches_total",
				Help: "Queries answered, by reply kind",
			},
			[]string{"kind"},
		),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "medbot_match_latency_ms",
			Help:    "Time spent matching a query in milliseconds",
			Buckets: matchBuckets,
		}),
		corpusSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "medbot_corpus_entries",
			Help: "Entries in the currently loaded corpus",
		}),
		reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medbot_corpus_loads_total",
				Help: "Corpus load attempts, by status",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeMatch(kind matcher.Kind, took time.Duration) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(string(kind)).Inc()
	m.latency.Observe(float64(took) / float64(time.Millisecond))
}

func (m *Metrics) corpusLoaded(entries int) {
	if m == nil {
		return
	}
	m.corpusSize.Set(float64(entries))
	m.reloads.WithLabelValues("ok").Inc()
}

func (m *Metrics) corpusFailed() {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues("error").Inc()
}
