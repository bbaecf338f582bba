package artwork

import (
	"art-cache/internal/metrics"
)

// normalizeImage ensures a loaded image is in the canonical output codec.
//
// A canonical source is returned unchanged: the same handle, by identity,
// so callers must not assume a copy was made. Anything else is re-encoded
// without geometric change (orientation correction applied) and the source
// handle is released. Resizing to a resolution profile is never done here.
func normalizeImage(img Image) (Image, error) {
	if img.IsCanonical() {
		metrics.ArtNormalizationsTotal.WithLabelValues("passthrough").Inc()
		return img, nil
	}

	converted, err := img.Resize(-1, -1)
	img.Close()
	if err != nil {
		metrics.ArtNormalizationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ArtNormalizationsTotal.WithLabelValues("converted").Inc()
	return converted, nil
}
