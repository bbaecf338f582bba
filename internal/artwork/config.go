package artwork

import "art-cache/internal/filesystem"

// DefaultCoverSuffixes are the file-specific sidecar suffixes tried first
// during discovery: "song.mp3" matches "song.mp3.cover.jpg".
var DefaultCoverSuffixes = []string{"cover.jpg"}

// DefaultArtNames are the generic cover-art file names tried as a directory
// fallback, in precedence order.
var DefaultArtNames = []string{
	"Cover.jpg",
	"cover.jpg",
	"AlbumArtSmall.jpg",
	"albumartsmall.jpg",
	"AlbumArt.jpg",
	"albumart.jpg",
	"Album.jpg",
	"album.jpg",
	"Folder.jpg",
	"folder.jpg",
	"Thumb.jpg",
	"thumb.jpg",
}

// Config carries the injected discovery rules and derivation ceiling.
// Rule lists are ordered; first match wins.
type Config struct {
	// CoverSuffixes are file-specific suffix conventions appended to the
	// full media path with a dot separator.
	CoverSuffixes []string

	// ArtNames are generic cover-art file names looked up in the media
	// file's directory when no file-specific candidate exists.
	ArtNames []string

	// BuildLevel is the largest profile pre-built on insert.
	BuildLevel Profile

	// Retry configures filesystem retry behavior for discovery and
	// propagation.
	Retry filesystem.RetryConfig
}

// DefaultConfig returns the conventional rule lists with pre-building up to
// the largest profile.
func DefaultConfig() Config {
	return Config{
		CoverSuffixes: DefaultCoverSuffixes,
		ArtNames:      DefaultArtNames,
		BuildLevel:    ProfileLRG,
		Retry:         filesystem.DefaultRetryConfig(),
	}
}
