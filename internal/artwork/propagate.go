package artwork

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"art-cache/internal/filesystem"
	"art-cache/internal/logging"
	"art-cache/internal/mediatypes"
	"art-cache/internal/metrics"
)

// OnNewArtFile reacts to a newly discovered art file by re-scanning its
// directory for media files that should adopt it as cover art.
//
// When the name matches a file-specific suffix convention, only siblings
// sharing the derived base-name prefix adopt it; a generic art name covers
// every media sibling. Each adopting sibling runs through Add and, on
// success, is associated in the media catalog. A failure on one sibling
// never stops the rest.
func (c *Cache) OnNewArtFile(ctx context.Context, artPath string) {
	start := time.Now()
	defer func() {
		metrics.ArtOperationDuration.WithLabelValues("propagate").Observe(time.Since(start).Seconds())
	}()

	name := filepath.Base(artPath)

	prefix := ""
	for _, suffix := range c.cfg.CoverSuffixes {
		if strings.HasSuffix(name, "."+suffix) {
			prefix = strings.TrimSuffix(name, "."+suffix)
			break
		}
	}
	if prefix == "" {
		prefix = strings.TrimSuffix(name, filepath.Ext(name))
	}

	generic := c.isGenericArtName(name)

	dir := filepath.Dir(artPath)
	entries, err := filesystem.ReadDir(dir, c.cfg.Retry)
	if err != nil {
		logging.Debug("Cannot list %s for art propagation: %v", dir, err)
		metrics.ArtOperationsTotal.WithLabelValues("propagate", "error").Inc()
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !mediatypes.IsAudio(entry.Name()) && !mediatypes.IsVideo(entry.Name()) {
			continue
		}
		if !generic && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		sibling := filepath.Join(dir, entry.Name())
		logging.Debug("New file %s looks like cover art for %s", artPath, sibling)

		artID := c.Add(ctx, sibling, nil, false)
		if artID == 0 {
			continue
		}

		if c.catalog != nil {
			if err := c.catalog.SetCoverArt(ctx, sibling, artID); err != nil {
				logging.Debug("Error setting %s as cover art for %s: %v", name, sibling, err)
			}
		}
	}

	metrics.ArtOperationsTotal.WithLabelValues("propagate", "success").Inc()
}

// isGenericArtName reports whether name is one of the configured generic
// cover-art file names.
func (c *Cache) isGenericArtName(name string) bool {
	for _, artName := range c.cfg.ArtNames {
		if name == artName {
			return true
		}
	}
	return false
}
