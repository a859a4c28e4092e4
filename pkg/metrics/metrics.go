package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service encapsulates Prometheus instrumentation for the sync layer and
// provides lightweight snapshots for the stats command.
type Service struct {
	registry         *prometheus.Registry
	handler          http.Handler
	fetchDuration    *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheHitRatio    prometheus.Gauge
	staleDiscarded   prometheus.Counter
	mutationTotal    *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec

	cacheHitCount   uint64
	cacheMissCount  uint64
	fetchCount      uint64
	mutationCount   uint64
	staleDropsCount uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	CacheHits      uint64  `json:"cacheHits"`
	CacheMisses    uint64  `json:"cacheMisses"`
	CacheHitRatio  float64 `json:"cacheHitRatio"`
	Fetches        uint64  `json:"fetches"`
	Mutations      uint64  `json:"mutations"`
	StaleDiscarded uint64  `json:"staleDiscarded"`
}

// NewService registers the sync-layer collectors on a private registry.
func NewService() *Service {
	registry := prometheus.NewRegistry()

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "query_fetch_duration_seconds",
		Help:    "Duration of resource fetches in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "outcome"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "query_cache_hits_total",
		Help: "Subscriptions served from cached data",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "query_cache_misses_total",
		Help: "Subscriptions that had to wait for a fetch",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "query_cache_hit_ratio",
		Help: "Ratio of cache hits to total subscriptions",
	})

	staleDiscarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "query_stale_responses_discarded_total",
		Help: "Fetch completions dropped because a newer one already applied",
	})

	mutationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutation_total",
		Help: "Mutations executed, labelled by operation and outcome",
	}, []string{"operation", "outcome"})

	mutationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mutation_duration_seconds",
		Help:    "Duration of mutations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(fetchDuration, cacheHits, cacheMisses, cacheHitRatio,
		staleDiscarded, mutationTotal, mutationDuration)

	return &Service{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		fetchDuration:    fetchDuration,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		cacheHitRatio:    cacheHitRatio,
		staleDiscarded:   staleDiscarded,
		mutationTotal:    mutationTotal,
		mutationDuration: mutationDuration,
	}
}

// Handler exposes the registry for scraping (mounted by the mock backend).
func (s *Service) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// RecordSubscribe tracks whether a subscription was served from cache.
func (s *Service) RecordSubscribe(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
		atomic.AddUint64(&s.cacheHitCount, 1)
	} else {
		s.cacheMisses.Inc()
		atomic.AddUint64(&s.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&s.cacheHitCount)
	misses := atomic.LoadUint64(&s.cacheMissCount)
	if total := hits + misses; total > 0 {
		s.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordFetch observes one fetch completion.
func (s *Service) RecordFetch(resource, outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	s.fetchDuration.WithLabelValues(resource, outcome).Observe(duration.Seconds())
	atomic.AddUint64(&s.fetchCount, 1)
}

// RecordStaleDiscard counts a late response dropped by the sequence guard.
func (s *Service) RecordStaleDiscard() {
	if s == nil {
		return
	}
	s.staleDiscarded.Inc()
	atomic.AddUint64(&s.staleDropsCount, 1)
}

// RecordMutation observes one settled mutation.
func (s *Service) RecordMutation(operation, outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	s.mutationTotal.WithLabelValues(operation, outcome).Inc()
	s.mutationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	atomic.AddUint64(&s.mutationCount, 1)
}

// Stats returns the current counter snapshot.
func (s *Service) Stats() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	hits := atomic.LoadUint64(&s.cacheHitCount)
	misses := atomic.LoadUint64(&s.cacheMissCount)
	snap := Snapshot{
		CacheHits:      hits,
		CacheMisses:    misses,
		Fetches:        atomic.LoadUint64(&s.fetchCount),
		Mutations:      atomic.LoadUint64(&s.mutationCount),
		StaleDiscarded: atomic.LoadUint64(&s.staleDropsCount),
	}
	if total := hits + misses; total > 0 {
		snap.CacheHitRatio = float64(hits) / float64(total)
	}
	return snap
}
