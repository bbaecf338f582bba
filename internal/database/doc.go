// Package database provides the SQLite persistence layer for the cover-art
// cache.
//
// It stores two things:
//   - album_art: originals and their derived size variants, deduplicated
//     by content checksum. Partial unique indexes enforce one original per
//     checksum and one variant per (parent, profile); both constraints are
//     the cache's serialization points under concurrent scanners, so
//     violations are handled as normal outcomes rather than errors.
//   - files: the slim media catalog used to associate art with the media
//     files that reference it.
//
// The database uses WAL mode with a busy timeout for concurrent access,
// and issues parameterized statements only.
package database
