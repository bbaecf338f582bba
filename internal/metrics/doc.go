// Package metrics provides Prometheus instrumentation for the cover-art cache.
//
// All metrics are prefixed with "art_cache_" to avoid naming collisions with
// other applications. Metrics are registered with the default Prometheus
// registry via promauto; the surrounding server is expected to expose them
// with promhttp.Handler().
//
// # Metric Categories
//
// ## Artwork Pipeline
//
//   - ArtOperationsTotal: Counter of pipeline operations by operation and status
//   - ArtOperationDuration: Histogram of operation duration
//   - ArtDedupTotal: Counter of checksum dedup outcomes (hit/miss/race_lost)
//   - ArtVariantsTotal: Counter of variant derivations by profile and outcome
//   - ArtNormalizationsTotal: Counter of codec normalization outcomes
//
// ## Database
//
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open database connections
//
// ## Filesystem
//
//   - FilesystemOperationDuration: Histogram of fs operation duration
//   - FilesystemOperationErrors: Counter of fs operation errors
//   - FilesystemRetryAttempts: Counter of retry attempts (NFS resilience)
//   - FilesystemStaleErrors: Counter of stale NFS handle errors
//
// # Recording Metrics
//
//	import "art-cache/internal/metrics"
//
//	metrics.ArtDedupTotal.WithLabelValues("hit").Inc()
//	metrics.DBQueryDuration.WithLabelValues("fetch_art").Observe(0.003)
package metrics
