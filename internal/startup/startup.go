package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"art-cache/internal/artwork"
	"art-cache/internal/filesystem"
	"art-cache/internal/logging"
	"art-cache/internal/metrics"
)

// InitObservability registers the filesystem metrics observer and
// pre-populates the metric label combinations. Safe to call more than once.
func InitObservability() {
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	metrics.InitializeMetrics()
}

// NewCodec selects the image codec implementation: the libvips-backed one
// when the library initializes, the pure-Go one otherwise.
func NewCodec() artwork.Codec {
	if err := artwork.InitVips(); err != nil {
		logging.Info("libvips unavailable, using pure-Go image codec: %v", err)
		return artwork.NewImagingCodec()
	}
	codec, err := artwork.NewVipsCodec()
	if err != nil {
		logging.Info("libvips unavailable, using pure-Go image codec: %v", err)
		return artwork.NewImagingCodec()
	}
	return codec
}

// Config holds the cover-art cache configuration.
type Config struct {
	DatabaseDir  string
	DatabasePath string
	Art          artwork.Config
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	InitObservability()

	databaseDir := getEnv("DATABASE_DIR", "/database")
	artNames := getEnvList("ALBUM_ART_NAMES", artwork.DefaultArtNames)
	coverSuffixes := getEnvList("ALBUM_ART_SUFFIXES", artwork.DefaultCoverSuffixes)
	buildLevel := getEnvProfile("ALBUM_ART_BUILD_LEVEL", artwork.ProfileLRG)

	logging.Info("  DATABASE_DIR:           %s", databaseDir)
	logging.Info("  ALBUM_ART_NAMES:        %s", strings.Join(artNames, ", "))
	logging.Info("  ALBUM_ART_SUFFIXES:     %s", strings.Join(coverSuffixes, ", "))
	logging.Info("  ALBUM_ART_BUILD_LEVEL:  %s", buildLevel)
	logging.Info("  LOG_LEVEL:              %s", logging.GetLevel())

	databaseDir, err := filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	if err := os.MkdirAll(databaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable: %w", err)
	}

	art := artwork.DefaultConfig()
	art.ArtNames = artNames
	art.CoverSuffixes = coverSuffixes
	art.BuildLevel = buildLevel

	return &Config{
		DatabaseDir:  databaseDir,
		DatabasePath: filepath.Join(databaseDir, "art.db"),
		Art:          art,
	}, nil
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList parses a comma-separated environment variable into an ordered
// list, preserving configured precedence.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var names []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		return defaultValue
	}
	return names
}

// getEnvProfile parses a resolution profile name (e.g. "JPEG_MED").
func getEnvProfile(key string, defaultValue artwork.Profile) artwork.Profile {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	for p := artwork.ProfileTN; p <= artwork.ProfileLRG; p++ {
		if strings.EqualFold(value, p.String()) {
			return p
		}
	}
	logging.Warn("  Invalid %s %q, using default: %s", key, value, defaultValue)
	return defaultValue
}

// testWriteAccess verifies a directory is writable by creating and
// removing a test file.
func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove test file %s: %v", testFile, err)
	}
	return nil
}
