// Package artwork implements a content-addressable cover-art cache: it
// discovers, normalizes, deduplicates, and persists cover-art images for
// media files, lazily deriving a fixed set of resolution variants.
//
// The pipeline, end to end:
//
//   - Candidate discovery walks a precedence-ordered naming convention
//     (sidecar suffixes, extension swaps, hidden files, generic names) to
//     find the art source for a media path.
//   - Normalization converts any input codec to JPEG, leaving images that
//     are already JPEG untouched (file candidates stay path references).
//   - A DJB checksum of the raw bytes is the sole identity of an original;
//     inserts dedup against it, with the store's uniqueness constraint as
//     the only serialization point between concurrent callers.
//   - Size variants (JPEG_TN through JPEG_LRG) are derived once per
//     original. An image that already fits a profile box is stored as a
//     pointer back to its original rather than an upscaled copy.
//
// The cache is invoked synchronously from the surrounding scanner's
// threads; it spawns nothing of its own and every failure degrades to "no
// art available".
package artwork
