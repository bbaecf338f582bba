package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"art-cache/internal/logging"
	"art-cache/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database manages the ALBUM_ART store and the media catalog table.
type Database struct {
	db     *sql.DB
	dbPath string
}

// New opens (creating if necessary) the art database at dbPath.
// The parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Art database path: %s", dbPath)

	// WAL mode and busy_timeout keep concurrent scanner threads from
	// tripping over "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Art database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	-- Cover-art store: originals (parent_id IS NULL) and size variants.
	-- A row's payload is exactly one of: path, image, or ref_id (the
	-- pointer-only "use the original" marker).
	CREATE TABLE IF NOT EXISTS album_art (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT,
		image BLOB,
		ref_id INTEGER,
		checksum INTEGER,
		timestamp INTEGER,
		parent_id INTEGER REFERENCES album_art(id),
		profile INTEGER
	);

	-- The dedup key: one original per checksum.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_album_art_checksum
		ON album_art(checksum) WHERE parent_id IS NULL;

	-- At most one variant per original per resolution profile.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_album_art_variant
		ON album_art(parent_id, profile) WHERE parent_id IS NOT NULL;

	-- Media catalog: files eligible to carry cover art.
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		mod_time INTEGER NOT NULL,
		album_art_id INTEGER,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_files_album_art ON files(album_art_id);
	`

	_, err = d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}
