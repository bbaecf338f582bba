package artwork

import (
	"context"

	"art-cache/internal/logging"
	"art-cache/internal/metrics"
)

// createSized derives every profile from ProfileTN up to buildLevel for a
// freshly stored original. The source is decoded once and shared across
// profiles. A failure on one profile never aborts the rest.
func (c *Cache) createSized(ctx context.Context, rec *Record, id int64, buildLevel Profile) {
	if !buildLevel.IsValid() {
		return
	}

	img, err := c.loadImage(rec)
	if err != nil {
		logging.Warn("Cannot load album art %d for size derivation: %v", id, err)
		return
	}
	defer img.Close()

	for p := ProfileTN; p <= buildLevel; p++ {
		if _, err := c.createSizedFromImage(ctx, img, id, p, rec.Timestamp); err != nil {
			logging.Debug("Failed to create %s variant of album art %d: %v", p, id, err)
		}
	}
}

// createSizedFromImage persists one size variant of a decoded original.
//
// The no-upscale policy: when the native image already fits within the
// profile box in both axes, a pointer-only variant referencing the original
// is stored instead of a resized copy. A resize failure also degrades to a
// pointer-only variant rather than losing the profile.
func (c *Cache) createSizedFromImage(ctx context.Context, img Image, id int64, profile Profile, timestamp int64) (VariantResult, error) {
	maxWidth, maxHeight := profile.Bounds()
	width, height := img.Dimensions()

	useOriginal := width <= maxWidth && height <= maxHeight

	var resized Image
	if !useOriginal {
		var err error
		resized, err = img.Resize(maxWidth, maxHeight)
		if err != nil {
			logging.Warn("Failed to resize album art %d to %s: %v", id, profile, err)
			useOriginal = true
		}
	}

	var res VariantResult
	var err error
	if useOriginal {
		res, err = c.store.InsertVariant(ctx, nil, profile, id)
	} else {
		defer resized.Close()
		rec := newBlobRecord(resized.EncodedBytes(), false, timestamp)
		res, err = c.store.InsertVariant(ctx, rec, profile, id)
	}
	if err != nil {
		metrics.ArtVariantsTotal.WithLabelValues(profile.String(), "error").Inc()
		return VariantResult{}, err
	}

	if res.AlreadyExists {
		// Someone else derived this profile first; expected outcome, not
		// a failure.
		metrics.ArtVariantsTotal.WithLabelValues(profile.String(), "exists").Inc()
		return res, nil
	}

	outcome := "resized"
	if useOriginal {
		outcome = "pointer"
	}
	metrics.ArtVariantsTotal.WithLabelValues(profile.String(), outcome).Inc()
	logging.Debug("Added %s variant of album art %d [%d]", profile, id, res.ID)
	return res, nil
}

// CreateSized derives a single size variant on demand for an existing
// original. A fresh variant comes back with its id; a variant that was
// already present comes back with AlreadyExists set (idempotent success,
// distinct from failure). The zero result means the original does not
// exist, cannot be decoded, or the insert failed.
func (c *Cache) CreateSized(ctx context.Context, id int64, profile Profile) VariantResult {
	if !profile.IsValid() {
		return VariantResult{}
	}

	rec := c.Get(ctx, id, ProfileInvalid)
	if rec == nil {
		return VariantResult{}
	}

	img, err := c.loadImage(rec)
	if err != nil {
		logging.Warn("Cannot load album art %d for on-demand derivation: %v", id, err)
		return VariantResult{}
	}
	defer img.Close()

	res, err := c.createSizedFromImage(ctx, img, id, profile, rec.Timestamp)
	if err != nil {
		return VariantResult{}
	}
	return res
}
