package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics records latency and outcome of catalog search requests.
type SearchMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	limited  prometheus.Counter
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Duration of search requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type", "strategy"})
	results := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_results",
		Help:    "Number of items returned per search request.",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"type"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_failures_total",
		Help: "Failed search requests by error code.",
	}, []string{"type", "code"})
	limited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_rate_limited_total",
		Help: "Search requests rejected by the rate limiter.",
	})
	reg.MustRegister(duration, results, failure, limited)
	return &SearchMetrics{
		duration: duration,
		results:  results,
		failure:  failure,
		limited:  limited,
	}
}

// ObserveSearch records the duration and result count for a completed search.
func (m *SearchMetrics) ObserveSearch(searchType, strategy string, count int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(searchType), normalizeLabel(strategy)).Observe(duration.Seconds())
	m.results.WithLabelValues(normalizeLabel(searchType)).Observe(float64(count))
}

// IncFailure increments the failure counter for the search type and error code.
func (m *SearchMetrics) IncFailure(searchType, code string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(searchType), normalizeLabel(code)).Inc()
}

// IncRateLimited counts a rejected request.
func (m *SearchMetrics) IncRateLimited() {
	if m == nil || m.limited == nil {
		return
	}
	m.limited.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

