package artwork

import (
	"context"
	"time"

	"art-cache/internal/filesystem"
	"art-cache/internal/logging"
	"art-cache/internal/metrics"
)

// Store is the persistence adapter for art records. Implementations map
// records onto the relational ALBUM_ART schema; each method is a single
// logical transaction.
type Store interface {
	// FindOriginalByChecksum returns the id and stored timestamp of the
	// original with the given checksum, or id 0 when none exists.
	FindOriginalByChecksum(ctx context.Context, checksum uint32) (id int64, timestamp int64, err error)

	// InsertOriginal inserts rec as a parentless original and returns its
	// id. A checksum uniqueness conflict is resolved by re-querying and
	// returning the winner's id, never surfaced as an error.
	InsertOriginal(ctx context.Context, rec *Record) (int64, error)

	// UpdateArtTimestamp rewrites the stored timestamp of an original.
	UpdateArtTimestamp(ctx context.Context, id int64, timestamp int64) error

	// InsertVariant inserts a size variant under parentID. A nil rec
	// inserts a pointer-only "use the original" marker. A uniqueness
	// conflict on (parent, profile) is reported via AlreadyExists.
	InsertVariant(ctx context.Context, rec *Record, profile Profile, parentID int64) (VariantResult, error)

	// FetchArt returns the original row (ProfileInvalid) or the matching
	// variant row, or nil when no row exists.
	FetchArt(ctx context.Context, id int64, profile Profile) (*StoredArt, error)

	// ExistsAsOriginal reports whether id is a stored original.
	ExistsAsOriginal(ctx context.Context, id int64) (bool, error)
}

// Catalog associates stored art with media catalog rows.
type Catalog interface {
	SetCoverArt(ctx context.Context, mediaPath string, artID int64) error
}

// Cache is the content-addressable cover-art cache. It is reentrant and
// blocking: safe for concurrent callers, with the store's uniqueness
// constraints as the only serialization points.
type Cache struct {
	store   Store
	catalog Catalog
	codec   Codec
	cfg     Config
}

// New creates a Cache. catalog may be nil when update propagation is not
// used.
func New(store Store, catalog Catalog, codec Codec, cfg Config) *Cache {
	if cfg.BuildLevel == ProfileInvalid {
		cfg.BuildLevel = ProfileLRG
	}
	return &Cache{
		store:   store,
		catalog: catalog,
		codec:   codec,
		cfg:     cfg,
	}
}

// Add discovers, normalizes, deduplicates, and persists cover art for a
// media file, returning the stored original's id.
//
// When blob is non-empty it is treated as embedded art extracted from the
// media file at path; makeCopy selects whether the record copies the bytes
// or borrows them for the duration of the call. Otherwise candidate
// discovery runs against path.
//
// Returns 0 when no art could be found or built. That is "nothing to
// attach", not an error: every failure degrades to no art and the caller's
// scan continues.
func (c *Cache) Add(ctx context.Context, path string, blob []byte, makeCopy bool) int64 {
	start := time.Now()
	id := c.add(ctx, path, blob, makeCopy)
	metrics.ArtOperationDuration.WithLabelValues("add").Observe(time.Since(start).Seconds())
	status := "success"
	if id == 0 {
		status = "no_art"
	}
	metrics.ArtOperationsTotal.WithLabelValues("add", status).Inc()
	return id
}

func (c *Cache) add(ctx context.Context, path string, blob []byte, makeCopy bool) int64 {
	var rec *Record

	if len(blob) > 0 {
		rec = c.recordFromBlob(path, blob, makeCopy)
	}
	if rec == nil {
		found, err := c.findCandidate(path)
		if err != nil || found == nil {
			return 0
		}
		rec, err = c.normalizeCandidate(found)
		if err != nil {
			logging.Debug("Cannot normalize album art for %s: %v", path, err)
			return 0
		}
	}

	// Checksum equality is the sole identity criterion; the path the art
	// came from never is.
	id, oldTimestamp, err := c.store.FindOriginalByChecksum(ctx, rec.Checksum)
	if err != nil {
		logging.Warn("Album art checksum lookup failed for %s: %v", path, err)
		return 0
	}

	if id != 0 {
		metrics.ArtDedupTotal.WithLabelValues("hit").Inc()
		if rec.Timestamp != oldTimestamp {
			if err := c.store.UpdateArtTimestamp(ctx, id, rec.Timestamp); err != nil {
				logging.Warn("Album art timestamp update failed for id %d: %v", id, err)
			}
		}
		return id
	}

	metrics.ArtDedupTotal.WithLabelValues("miss").Inc()
	id, err = c.store.InsertOriginal(ctx, rec)
	if err != nil {
		logging.Warn("Album art insert failed for %s: %v", path, err)
		return 0
	}
	if id == 0 {
		return 0
	}
	logging.Debug("Added new album art for %s [%d]", path, id)

	c.createSized(ctx, rec, id, c.cfg.BuildLevel)
	return id
}

// recordFromBlob builds a normalized record from embedded image bytes.
// The timestamp comes from the referencing media file at path; if that
// cannot be stat'ed there is no record.
func (c *Cache) recordFromBlob(path string, blob []byte, makeCopy bool) *Record {
	info, err := filesystem.Stat(path, c.cfg.Retry)
	if err != nil {
		return nil
	}
	timestamp := info.ModTime().Unix()

	img, err := c.codec.LoadBlob(blob)
	if err != nil {
		logging.Warn("Could not load embedded album art from %s: %v", path, err)
		return nil
	}

	if img.IsCanonical() {
		// Already canonical: store the caller's bytes, copied or borrowed
		// as requested.
		metrics.ArtNormalizationsTotal.WithLabelValues("passthrough").Inc()
		img.Close()
		return newBlobRecord(blob, makeCopy, timestamp)
	}

	converted, err := normalizeImage(img)
	if err != nil {
		logging.Warn("Failed to convert embedded album art from %s: %v", path, err)
		return nil
	}
	defer converted.Close()

	// Converted bytes are owned by the codec handle; always copy.
	return newBlobRecord(converted.EncodedBytes(), true, timestamp)
}

// normalizeCandidate ensures a discovered file-based record is in the
// canonical codec. A file that is already canonical stays a path reference
// so its bytes are never duplicated into the store; anything else becomes
// a blob record carrying the converted bytes but keeping the source file's
// checksum and timestamp.
func (c *Cache) normalizeCandidate(rec *Record) (*Record, error) {
	img, err := c.codec.LoadFile(rec.Image.Path())
	if err != nil {
		return nil, err
	}

	if img.IsCanonical() {
		metrics.ArtNormalizationsTotal.WithLabelValues("passthrough").Inc()
		img.Close()
		return rec, nil
	}

	converted, err := normalizeImage(img)
	if err != nil {
		return nil, err
	}
	defer converted.Close()

	return &Record{
		Image:     BlobImage(converted.EncodedBytes(), true),
		Checksum:  rec.Checksum,
		Timestamp: rec.Timestamp,
	}, nil
}

// Get resolves a stored id and resolution profile to an art record.
// ProfileInvalid fetches the original. A pointer-only variant whose
// reference equals the requested id resolves to the original's bytes. A
// row that comes back with an empty payload is treated as missing.
func (c *Cache) Get(ctx context.Context, id int64, profile Profile) *Record {
	start := time.Now()
	rec := c.get(ctx, id, profile)
	metrics.ArtOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	status := "success"
	if rec == nil {
		status = "miss"
	}
	metrics.ArtOperationsTotal.WithLabelValues("get", status).Inc()
	return rec
}

func (c *Cache) get(ctx context.Context, id int64, profile Profile) *Record {
	stored, err := c.store.FetchArt(ctx, id, profile)
	if err != nil {
		logging.Warn("Album art fetch failed for id %d profile %s: %v", id, profile, err)
		return nil
	}
	if stored == nil {
		return nil
	}

	var rec *Record
	switch stored.Payload.Kind {
	case PayloadUseOriginal:
		// The no-upscale self-reference: follow it back to the original,
		// but only when it actually points at the id being requested.
		if profile != ProfileInvalid && stored.Payload.Ref == id {
			return c.get(ctx, id, ProfileInvalid)
		}
		return nil
	case PayloadPath:
		rec = &Record{
			Image:     FileImage(stored.Payload.Path),
			Checksum:  stored.Checksum,
			Timestamp: stored.Timestamp,
		}
	case PayloadBlob:
		rec = &Record{
			Image:     BlobImage(stored.Payload.Blob, false),
			Checksum:  stored.Checksum,
			Timestamp: stored.Timestamp,
		}
	}

	if !rec.Valid() {
		return nil
	}
	return rec
}

// Exists reports whether id is a stored original.
func (c *Cache) Exists(ctx context.Context, id int64) bool {
	ok, err := c.store.ExistsAsOriginal(ctx, id)
	if err != nil {
		logging.Warn("Album art existence check failed for id %d: %v", id, err)
		return false
	}
	return ok
}

// loadImage opens a codec handle for a record's payload.
func (c *Cache) loadImage(rec *Record) (Image, error) {
	if rec.Image.IsBlob() {
		return c.codec.LoadBlob(rec.Image.Blob())
	}
	return c.codec.LoadFile(rec.Image.Path())
}
