// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cfr_navigator"

var (
	registerOnce sync.Once

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of searches by parsed intent kind",
	}, []string{"kind"})
	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Histogram of search pipeline durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // ~50µs up to ~100ms
	})
	searchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of results returned per search",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})
	searchCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_total",
		Help:      "Search cache lookups by result (hit or miss)",
	}, []string{"result"})
	jumps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jump_resolutions_total",
		Help:      "Anchor resolutions by anchor kind",
	}, []string{"anchor"})
	catalogReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_reloads_total",
		Help:      "Catalog loads by status (success or error)",
	}, []string{"status"})
	progressWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "progress_writes_total",
		Help:      "Progress store writes by kind (notes or evidence)",
	}, []string{"kind"})

	conditionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "conditions_total",
		Help:      "Number of conditions in the current catalog snapshot",
	})
	catalogGeneration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_generation",
		Help:      "Generation number of the current catalog snapshot",
	})
	sseClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "event_clients",
		Help:      "Number of connected server-sent event clients",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searches, searchDuration, searchResults, searchCache, jumps,
			catalogReloads, progressWrites, conditionsGauge, catalogGeneration, sseClientsGauge)
	})
}

// Search helpers
func IncSearch(kind string)                 { searches.WithLabelValues(kind).Inc() }
func ObserveSearchDuration(d time.Duration) { searchDuration.Observe(d.Seconds()) }
func ObserveSearchResults(n int)            { searchResults.Observe(float64(n)) }
func IncSearchCacheHit()                    { searchCache.WithLabelValues("hit").Inc() }
func IncSearchCacheMiss()                   { searchCache.WithLabelValues("miss").Inc() }
func IncJump(anchor string)                 { jumps.WithLabelValues(anchor).Inc() }

// Catalog and progress helpers
func IncCatalogReload(status string) { catalogReloads.WithLabelValues(status).Inc() }
func IncProgressWrite(kind string)   { progressWrites.WithLabelValues(kind).Inc() }

// Gauges
func SetConditions(n int)           { conditionsGauge.Set(float64(n)) }
func SetCatalogGeneration(g uint64) { catalogGeneration.Set(float64(g)) }
func SetEventClients(n int)         { sseClientsGauge.Set(float64(n)) }
