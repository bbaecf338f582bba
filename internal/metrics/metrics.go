package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Artwork pipeline metrics
var (
	ArtOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_operations_total",
			Help: "Total number of cover-art operations",
		},
		[]string{"operation", "status"}, // operation: add, get, propagate
	)

	ArtOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "art_cache_operation_duration_seconds",
			Help:    "Cover-art operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ArtDedupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_dedup_total",
			Help: "Checksum dedup outcomes for add operations",
		},
		[]string{"outcome"}, // hit, miss, race_lost
	)

	ArtVariantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_variants_total",
			Help: "Size variant derivation outcomes per resolution profile",
		},
		[]string{"profile", "outcome"}, // outcome: resized, pointer, exists, error
	)

	ArtNormalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_normalizations_total",
			Help: "Codec normalization outcomes",
		},
		[]string{"outcome"}, // passthrough, converted, error
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "art_cache_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "art_cache_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "art_cache_fs_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"}, // stat, access, readdir, read
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_fs_operation_errors_total",
			Help: "Total number of filesystem operation errors",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_fs_retry_attempts_total",
			Help: "Total number of filesystem retry attempts",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "art_cache_fs_stale_errors_total",
			Help: "Total number of stale NFS handle errors encountered",
		},
		[]string{"operation"},
	)
)

// InitializeMetrics pre-populates expected label combinations so that every
// metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	ArtOperationsTotal.WithLabelValues("add", "success")
	ArtOperationsTotal.WithLabelValues("add", "no_art")
	ArtOperationsTotal.WithLabelValues("get", "success")
	ArtOperationsTotal.WithLabelValues("get", "miss")
	ArtOperationsTotal.WithLabelValues("propagate", "success")
	ArtOperationsTotal.WithLabelValues("propagate", "error")
	for _, op := range []string{"add", "get", "propagate"} {
		ArtOperationDuration.WithLabelValues(op)
	}

	for _, outcome := range []string{"hit", "miss", "race_lost"} {
		ArtDedupTotal.WithLabelValues(outcome)
	}

	for _, profile := range []string{"JPEG_TN", "JPEG_SM", "JPEG_MED", "JPEG_LRG"} {
		for _, outcome := range []string{"resized", "pointer", "exists", "error"} {
			ArtVariantsTotal.WithLabelValues(profile, outcome)
		}
	}

	for _, outcome := range []string{"passthrough", "converted", "error"} {
		ArtNormalizationsTotal.WithLabelValues(outcome)
	}

	for _, op := range []string{"initialize_schema", "find_by_checksum", "insert_original",
		"update_timestamp", "insert_variant", "fetch_art", "exists_original",
		"upsert_file", "set_cover_art"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, op := range []string{"stat", "access", "readdir", "read"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
