// Package prom implements the observability hooks with Prometheus
// collectors.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/qswap/pkg/observability"
)

const namespace = "qswap"

// Metrics implements [observability.SearchHooks],
// [observability.CacheHooks] and [observability.HTTPHooks].
type Metrics struct {
	started      *prometheus.CounterVec
	searches     *prometheus.CounterVec
	searchTime   prometheus.Histogram
	candidates   prometheus.Counter
	attempts     prometheus.Histogram
	trials       *prometheus.CounterVec
	trialSwaps   prometheus.Histogram
	bestSwaps    prometheus.Gauge
	improvements prometheus.Counter

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
}

var (
	_ observability.SearchHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		started: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "started_total",
			Help:      "Searches started by lattice",
		}, []string{"lattice"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "completed_total",
			Help:      "Searches finished by outcome",
		}, []string{"status"}),
		searchTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search wall time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		candidates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_total",
			Help:      "Accepted starting placements",
		}),
		attempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidate_attempts",
			Help:      "Placements tried per accepted candidate",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		trials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "trials_total",
			Help:      "Routing trials by outcome",
		}, []string{"outcome"}),
		trialSwaps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "trial_swaps",
			Help:      "Swap count of completed trials",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		bestSwaps: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "best_swaps",
			Help:      "Best swap count of the most recent search",
		}),
		improvements: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "improvements_total",
			Help:      "Times a search lowered its best swap count",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP responses by route and status",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"route"}),
	}
}

// =============================================================================
// Search
// =============================================================================

func (m *Metrics) OnSearchStart(_ context.Context, lattice string, _, _ int) {
	m.started.WithLabelValues(lattice).Inc()
}

func (m *Metrics) OnCandidate(_ context.Context, attempts int) {
	m.candidates.Inc()
	m.attempts.Observe(float64(attempts))
}

func (m *Metrics) OnTrial(_ context.Context, swaps int, completed bool) {
	if !completed {
		m.trials.WithLabelValues("abandoned").Inc()
		return
	}
	m.trials.WithLabelValues("completed").Inc()
	m.trialSwaps.Observe(float64(swaps))
}

func (m *Metrics) OnImprovement(context.Context, int) { m.improvements.Inc() }

func (m *Metrics) OnSearchComplete(_ context.Context, best int, d time.Duration, err error) {
	m.searchTime.Observe(d.Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.searches.WithLabelValues(status).Inc()
	if best >= 0 {
		m.bestSwaps.Set(float64(best))
	}
}

// =============================================================================
// Cache
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnRateLimited(_ context.Context, route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}
