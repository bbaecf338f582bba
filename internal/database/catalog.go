package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"art-cache/internal/logging"
)

// MediaFile is a media catalog row: a file eligible to carry cover art.
type MediaFile struct {
	ID         int64
	Name       string
	Path       string
	Kind       string
	ModTime    time.Time
	AlbumArtID int64
}

// UpsertFile inserts or refreshes a catalog row, keyed by path. The
// album_art_id association survives refreshes.
func (d *Database) UpsertFile(ctx context.Context, file *MediaFile) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_file", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
	INSERT INTO files (name, path, kind, mod_time, updated_at)
	VALUES (?, ?, ?, ?, strftime('%s', 'now'))
	ON CONFLICT(path) DO UPDATE SET
		name = excluded.name,
		kind = excluded.kind,
		mod_time = excluded.mod_time,
		updated_at = strftime('%s', 'now')
	`,
		file.Name,
		file.Path,
		file.Kind,
		file.ModTime.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}
	return nil
}

// SetCoverArt associates a stored art id with the catalog row for
// mediaPath. A path with no catalog row is not an error; the association
// simply does not happen.
func (d *Database) SetCoverArt(ctx context.Context, mediaPath string, artID int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("set_cover_art", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE files SET album_art_id = ? WHERE path = ?",
		artID, mediaPath,
	)
	if err != nil {
		return fmt.Errorf("set cover art: %w", err)
	}

	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
		logging.Debug("No catalog row for %s, cover art %d not associated", mediaPath, artID)
	}
	return nil
}

// GetCoverArtID returns the art id associated with a catalog row, or 0
// when the path is unknown or has no art.
func (d *Database) GetCoverArtID(ctx context.Context, mediaPath string) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_cover_art", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var artID int64
	err = d.db.QueryRowContext(ctx,
		"SELECT COALESCE(album_art_id, 0) FROM files WHERE path = ?",
		mediaPath,
	).Scan(&artID)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cover art id: %w", err)
	}
	return artID, nil
}
