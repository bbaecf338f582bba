package artwork

import (
	"path/filepath"
	"strings"

	"art-cache/internal/filesystem"
	"art-cache/internal/logging"
)

// imageTrialExtensions are tried, in order, when swapping a media file's
// extension for an image one (rules 2 and 3).
var imageTrialExtensions = []string{".jpg", ".png", ".webp"}

// findCandidate locates the best-matching art source for a media path using
// the precedence-ordered naming heuristic:
//
//  1. file-specific sidecar: mediaPath + "." + suffix for each configured suffix
//  2. same base name with the extension swapped for each image extension
//  3. the hidden-file form of (2): dot-prefixed filename, same trials
//  4. generic art names in the containing directory (directories go straight here)
//
// Returns (nil, nil) when nothing matches or the input cannot be stat'ed.
// A name that matches but then fails to stat or hash is terminal for the
// whole discovery: the error is returned and later rules are not tried.
func (c *Cache) findCandidate(mediaPath string) (*Record, error) {
	info, err := filesystem.Stat(mediaPath, c.cfg.Retry)
	if err != nil {
		return nil, nil
	}

	dir := filepath.Dir(mediaPath)
	if info.IsDir() {
		dir = mediaPath
	} else {
		// Rule 1: file-specific sidecar suffixes.
		for _, suffix := range c.cfg.CoverSuffixes {
			file := mediaPath + "." + suffix
			if filesystem.Readable(file, c.cfg.Retry) {
				return c.candidateFromFile(file)
			}
		}

		// Rules 2 and 3 need an extension to swap.
		if ext := filepath.Ext(mediaPath); ext != "" {
			base := strings.TrimSuffix(mediaPath, ext)
			for _, trial := range imageTrialExtensions {
				file := base + trial
				if filesystem.Readable(file, c.cfg.Retry) {
					return c.candidateFromFile(file)
				}
			}

			hidden := filepath.Join(dir, "."+strings.TrimSuffix(filepath.Base(mediaPath), ext))
			for _, trial := range imageTrialExtensions {
				file := hidden + trial
				if filesystem.Readable(file, c.cfg.Retry) {
					return c.candidateFromFile(file)
				}
			}
		}
	}

	// Rule 4: generic art names in the directory.
	for _, name := range c.cfg.ArtNames {
		file := filepath.Join(dir, name)
		if filesystem.Readable(file, c.cfg.Retry) {
			return c.candidateFromFile(file)
		}
	}

	return nil, nil
}

// candidateFromFile builds the file-backed record for a matched name.
// Failure here is deliberately terminal for discovery: once a name matched,
// a candidate that cannot be read yields no result rather than falling
// through to the next rule.
func (c *Cache) candidateFromFile(file string) (*Record, error) {
	logging.Debug("Found album art in %s", file)
	rec, err := newFileRecord(file, c.cfg.Retry)
	if err != nil {
		logging.Debug("Could not access matched album art %s: %v", file, err)
		return nil, err
	}
	return rec, nil
}
