package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics holds the rate cache and provider metrics.
type RateMetrics struct {
	// Cache lookups by outcome: hit, stale, miss
	CacheLookupsTotal *prometheus.CounterVec

	// Provider fetches by outcome: ok, error
	FetchesTotal         *prometheus.CounterVec
	FetchDuration        *prometheus.HistogramVec
	LastSuccessTimestamp *prometheus.GaugeVec

	// Dashboard renders
	RendersTotal *prometheus.CounterVec
}

// NewRateMetrics registers the metrics on reg. Tests pass a fresh registry.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)
	return &RateMetrics{
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_lookups_total",
				Help: "Rate cache lookups by outcome",
			},
			[]string{"key", "outcome"},
		),

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_provider_fetches_total",
				Help: "Fetches against the P2P rate provider by result",
			},
			[]string{"key", "result"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_provider_fetch_duration_seconds",
				Help:    "Duration of P2P rate provider fetches",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
			},
			[]string{"key"},
		),

		LastSuccessTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rate_last_success_timestamp_seconds",
				Help: "Unix time of the last successful fetch",
			},
			[]string{"key"},
		),

		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_renders_total",
				Help: "Dashboard renders by rate availability",
			},
			[]string{"rate_available"},
		),
	}
}

func (m *RateMetrics) CacheHit(key string) {
	m.CacheLookupsTotal.WithLabelValues(key, "hit").Inc()
}

func (m *RateMetrics) CacheStale(key string) {
	m.CacheLookupsTotal.WithLabelValues(key, "stale").Inc()
}

func (m *RateMetrics) CacheMiss(key string) {
	m.CacheLookupsTotal.WithLabelValues(key, "miss").Inc()
}

func (m *RateMetrics) FetchResult(key string, ok bool, took time.Duration) {
	result := "error"
	if ok {
		result = "ok"
		m.LastSuccessTimestamp.WithLabelValues(key).SetToCurrentTime()
	}
	m.FetchesTotal.WithLabelValues(key, result).Inc()
	m.FetchDuration.WithLabelValues(key).Observe(took.Seconds())
}

func (m *RateMetrics) RecordRender(rateAvailable bool) {
	label := "false"
	if rateAvailable {
		label = "true"
	}
	m.RendersTotal.WithLabelValues(label).Inc()
}
