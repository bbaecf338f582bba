package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"art-cache/internal/artwork"
	"art-cache/internal/logging"
	"art-cache/internal/metrics"
)

// Compile-time checks that Database satisfies the artwork collaborator
// interfaces.
var (
	_ artwork.Store   = (*Database)(nil)
	_ artwork.Catalog = (*Database)(nil)
)

// bindImage returns the path and blob bind values for a record's payload.
func bindImage(rec *artwork.Record) (path sql.NullString, blob []byte) {
	if rec.Image.IsBlob() {
		return sql.NullString{}, rec.Image.Blob()
	}
	return sql.NullString{String: rec.Image.Path(), Valid: true}, nil
}

// FindOriginalByChecksum returns the id and timestamp of the original with
// the given checksum, or 0 when none exists.
func (d *Database) FindOriginalByChecksum(ctx context.Context, checksum uint32) (int64, int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("find_by_checksum", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id, timestamp int64
	err = d.db.QueryRowContext(ctx,
		"SELECT id, timestamp FROM album_art WHERE parent_id IS NULL AND checksum = ?",
		int64(checksum),
	).Scan(&id, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("find original by checksum: %w", err)
	}
	return id, timestamp, nil
}

// InsertOriginal inserts rec as a parentless original and returns its id.
//
// Checksum uniqueness is enforced by the store's partial index, not by any
// lock held by the caller: a concurrent duplicate insert means someone else
// won the race, so the winner's id is re-queried and returned instead of
// surfacing the violation.
func (d *Database) InsertOriginal(ctx context.Context, rec *artwork.Record) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_original", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	path, blob := bindImage(rec)
	result, execErr := d.db.ExecContext(ctx,
		"INSERT INTO album_art (path, image, checksum, timestamp, parent_id, profile) VALUES (?, ?, ?, ?, NULL, NULL)",
		path, blob, int64(rec.Checksum), rec.Timestamp,
	)
	if execErr != nil {
		if isConstraintErr(execErr) {
			logging.Debug("Lost album art insert race for checksum %d, using winner", rec.Checksum)
			metrics.ArtDedupTotal.WithLabelValues("race_lost").Inc()
			id, _, findErr := d.FindOriginalByChecksum(ctx, rec.Checksum)
			if findErr != nil {
				err = findErr
				return 0, err
			}
			return id, nil
		}
		err = fmt.Errorf("insert original: %w", execErr)
		return 0, err
	}

	id, lastErr := result.LastInsertId()
	if lastErr != nil {
		err = fmt.Errorf("insert original rowid: %w", lastErr)
		return 0, err
	}
	return id, nil
}

// UpdateArtTimestamp rewrites the stored timestamp of an original; used
// when identical content reappears with a newer modification time.
func (d *Database) UpdateArtTimestamp(ctx context.Context, id int64, timestamp int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_timestamp", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx,
		"UPDATE album_art SET timestamp = ? WHERE id = ?",
		timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("update art timestamp: %w", err)
	}
	return nil
}

// InsertVariant inserts a size variant under parentID. A nil rec inserts a
// pointer-only row whose ref_id marks "use the original"; checksum and
// timestamp stay unset. A uniqueness conflict on (parent, profile) reports
// AlreadyExists: the idempotence mechanism, not an error.
func (d *Database) InsertVariant(ctx context.Context, rec *artwork.Record, profile artwork.Profile, parentID int64) (artwork.VariantResult, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_variant", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var result sql.Result
	if rec == nil {
		result, err = d.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO album_art (ref_id, parent_id, profile) VALUES (?, ?, ?)",
			parentID, parentID, int(profile),
		)
	} else {
		path, blob := bindImage(rec)
		result, err = d.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO album_art (path, image, checksum, timestamp, parent_id, profile) VALUES (?, ?, ?, ?, ?, ?)",
			path, blob, int64(rec.Checksum), rec.Timestamp, parentID, int(profile),
		)
	}
	if err != nil {
		return artwork.VariantResult{}, fmt.Errorf("insert variant: %w", err)
	}

	affected, raErr := result.RowsAffected()
	if raErr != nil {
		err = fmt.Errorf("insert variant rows affected: %w", raErr)
		return artwork.VariantResult{}, err
	}
	if affected == 0 {
		return artwork.VariantResult{AlreadyExists: true}, nil
	}

	id, lastErr := result.LastInsertId()
	if lastErr != nil {
		err = fmt.Errorf("insert variant rowid: %w", lastErr)
		return artwork.VariantResult{}, err
	}
	return artwork.VariantResult{ID: id}, nil
}

// FetchArt returns the original row (ProfileInvalid) or the variant row for
// (id, profile). Returns nil when no such row exists.
func (d *Database) FetchArt(ctx context.Context, id int64, profile artwork.Profile) (*artwork.StoredArt, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("fetch_art", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row *sql.Row
	if profile == artwork.ProfileInvalid {
		row = d.db.QueryRowContext(ctx,
			"SELECT id, path, image, ref_id, checksum, timestamp FROM album_art WHERE id = ? AND parent_id IS NULL",
			id,
		)
	} else {
		row = d.db.QueryRowContext(ctx,
			"SELECT id, path, image, ref_id, checksum, timestamp FROM album_art WHERE parent_id = ? AND profile = ?",
			id, int(profile),
		)
	}

	var (
		rowID     int64
		path      sql.NullString
		blob      []byte
		refID     sql.NullInt64
		checksum  sql.NullInt64
		timestamp sql.NullInt64
	)
	err = row.Scan(&rowID, &path, &blob, &refID, &checksum, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch art: %w", err)
	}

	stored := &artwork.StoredArt{
		ID:        rowID,
		Checksum:  uint32(checksum.Int64),
		Timestamp: timestamp.Int64,
	}

	switch {
	case refID.Valid:
		stored.Payload = artwork.VariantPayload{Kind: artwork.PayloadUseOriginal, Ref: refID.Int64}
	case path.Valid:
		stored.Payload = artwork.VariantPayload{Kind: artwork.PayloadPath, Path: path.String}
	default:
		stored.Payload = artwork.VariantPayload{Kind: artwork.PayloadBlob, Blob: blob}
	}

	return stored, nil
}

// ExistsAsOriginal reports whether id is a stored original.
func (d *Database) ExistsAsOriginal(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("exists_original", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var one int
	err = d.db.QueryRowContext(ctx,
		"SELECT 1 FROM album_art WHERE id = ? AND parent_id IS NULL",
		id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists as original: %w", err)
	}
	return true, nil
}
