package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TagsRewritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmill_tags_rewritten_total",
			Help: "Number of script tags rewritten, by resolved mode",
		},
		[]string{"mode"},
	)

	TagsPassedThrough = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_tags_passed_through_total",
			Help: "Number of annotated script tags left unmodified because no attribute combination matched",
		},
	)

	FallbackBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_fallback_blocks_total",
			Help: "Number of fallback blocks emitted",
		},
	)

	AssetRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmill_http_requests_total",
			Help: "Number of asset requests served, by status code",
		},
		[]string{"code"},
	)

	DocumentsRewritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_documents_rewritten_total",
			Help: "Total number of HTML documents processed",
		},
	)

	DocumentRewriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagmill_document_rewrite_duration_seconds",
			Help:    "HTML document rewrite duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	GlobCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_glob_cache_hits_total",
			Help: "Number of glob resolutions served from cache",
		},
	)

	GlobCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_glob_cache_misses_total",
			Help: "Number of glob resolutions that required a filesystem scan",
		},
	)

	GlobResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagmill_glob_resolution_duration_seconds",
			Help:    "Glob pattern resolution duration in seconds, cache misses only",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	WatcherInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmill_watcher_invalidations_total",
			Help: "Number of times the asset watcher purged the glob cache",
		},
	)

	LastWatcherInvalidation = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagmill_last_watcher_invalidation_timestamp",
			Help: "Unix timestamp of the last asset watcher cache purge",
		},
	)
)

// DocumentDone records one processed document and its duration.
func DocumentDone(start time.Time) {
	DocumentsRewritten.Inc()
	DocumentRewriteDuration.Observe(time.Since(start).Seconds())
}

// GlobResolved records one glob resolution and whether the cache served it.
func GlobResolved(start time.Time, hit bool) {
	if hit {
		GlobCacheHits.Inc()
		return
	}
	GlobCacheMisses.Inc()
	GlobResolutionDuration.Observe(time.Since(start).Seconds())
}

// WatcherPurged records one watcher-driven cache invalidation.
func WatcherPurged() {
	WatcherInvalidations.Inc()
	LastWatcherInvalidation.SetToCurrentTime()
}
