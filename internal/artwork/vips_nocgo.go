//go:build !cgo

package artwork

import "fmt"

// govips requires cgo; in cgo-free builds libvips is never available and
// callers fall back to the pure-Go codec via the usual InitVips error path.

// InitVips initializes the libvips library.
// This should be called once at startup.
func InitVips() error {
	return fmt.Errorf("libvips support requires cgo (built with CGO_ENABLED=0)")
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	return false
}

// VipsCodec is a Codec backed by libvips. It is substantially faster and
// more memory efficient than the pure-Go codec for large sources because
// vips can shrink during decode.
type VipsCodec struct{}

var _ Codec = (*VipsCodec)(nil)

// NewVipsCodec returns the vips-backed codec. InitVips must have been
// called first.
func NewVipsCodec() (*VipsCodec, error) {
	return nil, fmt.Errorf("libvips not available")
}

// LoadBlob decodes encoded image bytes with vips.
func (c *VipsCodec) LoadBlob(data []byte) (Image, error) {
	return nil, fmt.Errorf("libvips not available")
}

// LoadFile reads and decodes an image file with vips.
func (c *VipsCodec) LoadFile(path string) (Image, error) {
	return nil, fmt.Errorf("libvips not available")
}
