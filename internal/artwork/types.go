package artwork

import (
	"fmt"

	"art-cache/internal/filesystem"
)

// Profile identifies a fixed resolution tier for derived cover art.
// Profiles are ordered by increasing pixel budget; ProfileInvalid is the
// sentinel for "the original, unscaled image".
type Profile int

const (
	// ProfileInvalid selects the original image rather than a size variant.
	ProfileInvalid Profile = iota
	// ProfileTN is the thumbnail tier (160x160).
	ProfileTN
	// ProfileSM is the small tier (640x480).
	ProfileSM
	// ProfileMED is the medium tier (1024x768).
	ProfileMED
	// ProfileLRG is the large tier (4096x4096).
	ProfileLRG
)

type profileBounds struct {
	name      string
	maxWidth  int
	maxHeight int
}

// profileTable follows the DLNA JPEG resolution classes.
var profileTable = [...]profileBounds{
	ProfileTN:  {"JPEG_TN", 160, 160},
	ProfileSM:  {"JPEG_SM", 640, 480},
	ProfileMED: {"JPEG_MED", 1024, 768},
	ProfileLRG: {"JPEG_LRG", 4096, 4096},
}

// IsValid reports whether p is a concrete resolution profile.
func (p Profile) IsValid() bool {
	return p >= ProfileTN && p <= ProfileLRG
}

// Bounds returns the maximum width and height for a profile.
// Returns (0, 0) for ProfileInvalid.
func (p Profile) Bounds() (maxWidth, maxHeight int) {
	if !p.IsValid() {
		return 0, 0
	}
	b := profileTable[p]
	return b.maxWidth, b.maxHeight
}

// String returns the DLNA name of the profile (e.g. "JPEG_TN").
func (p Profile) String() string {
	if !p.IsValid() {
		return ""
	}
	return profileTable[p].name
}

// ProfileFor classifies native image dimensions into the smallest profile
// whose pixel budget is not exceeded. Dimensions too large for every tier
// classify as the largest profile.
func ProfileFor(width, height int) Profile {
	pixels := int64(width) * int64(height)
	for p := ProfileTN; p <= ProfileLRG; p++ {
		b := profileTable[p]
		if int64(b.maxWidth)*int64(b.maxHeight) >= pixels {
			return p
		}
	}
	return ProfileLRG
}

// ArtImage is the payload of an in-memory art record: either raw encoded
// bytes or a reference to a readable file. Exactly one is populated.
type ArtImage struct {
	blob []byte
	path string
}

// BlobImage wraps encoded image bytes. When makeCopy is set the bytes are
// copied so the record owns its payload; otherwise the caller's slice is
// borrowed and must stay alive for the duration of the call.
func BlobImage(data []byte, makeCopy bool) ArtImage {
	if makeCopy {
		owned := make([]byte, len(data))
		copy(owned, data)
		return ArtImage{blob: owned}
	}
	return ArtImage{blob: data}
}

// FileImage wraps a path reference.
func FileImage(path string) ArtImage {
	return ArtImage{path: path}
}

// IsBlob reports whether the image payload is in-memory bytes.
func (a ArtImage) IsBlob() bool { return a.path == "" }

// Blob returns the in-memory payload, nil for file references.
func (a ArtImage) Blob() []byte { return a.blob }

// Path returns the file reference, empty for blob payloads.
func (a ArtImage) Path() string { return a.path }

// Record is a transient cover-art record built per pipeline invocation.
// Checksum is always computed from raw image bytes (or file contents),
// never from metadata. Timestamp is the source file's modification time,
// or for embedded art the referencing media file's modification time.
type Record struct {
	Image     ArtImage
	Checksum  uint32
	Timestamp int64
}

// Valid reports whether the record carries a non-empty payload.
// Construction already guarantees this; retrieval rechecks it because a
// corrupt or partially written row can come back empty.
func (r *Record) Valid() bool {
	if r == nil {
		return false
	}
	if r.Image.IsBlob() {
		return len(r.Image.Blob()) > 0
	}
	return r.Image.Path() != ""
}

// newFileRecord builds a Record referencing an art file on disk, hashing
// its contents and taking its modification time. Fails atomically: any
// stat or read error yields no record.
func newFileRecord(path string, retry filesystem.RetryConfig) (*Record, error) {
	info, err := filesystem.Stat(path, retry)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	sum, err := ChecksumFile(path)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", path, err)
	}

	return &Record{
		Image:     FileImage(path),
		Checksum:  sum,
		Timestamp: info.ModTime().Unix(),
	}, nil
}

// newBlobRecord builds a Record from encoded image bytes.
func newBlobRecord(data []byte, makeCopy bool, timestamp int64) *Record {
	if len(data) == 0 {
		return nil
	}
	return &Record{
		Image:     BlobImage(data, makeCopy),
		Checksum:  Checksum(data),
		Timestamp: timestamp,
	}
}

// PayloadKind discriminates the stored payload of a fetched art row.
type PayloadKind int

const (
	// PayloadBlob is resized or normalized image bytes stored in the row.
	PayloadBlob PayloadKind = iota
	// PayloadPath is a filesystem path stored in the row.
	PayloadPath
	// PayloadUseOriginal marks a pointer-only variant: the row carries no
	// image of its own, its payload is its parent original.
	PayloadUseOriginal
)

// VariantPayload is the explicit sum of the three stored payload shapes.
// A pointer-only variant records the id it refers back to so retrieval can
// verify the self-reference before following it.
type VariantPayload struct {
	Kind PayloadKind
	Blob []byte
	Path string
	Ref  int64
}

// StoredArt is a persisted art row as returned by the store adapter.
type StoredArt struct {
	ID        int64
	Payload   VariantPayload
	Checksum  uint32
	Timestamp int64
}

// VariantResult reports the outcome of a variant insert. A uniqueness
// conflict on (parent, profile) is a normal outcome, not an error.
type VariantResult struct {
	ID            int64
	AlreadyExists bool
}
