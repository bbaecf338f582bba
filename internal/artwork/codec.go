package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"art-cache/internal/filesystem"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// canonicalFormat is the single output codec every stored image is
// normalized to.
const canonicalFormat = "jpeg"

// jpegQuality matches the quality used across the rest of the server's
// image pipeline.
const jpegQuality = 90

// Codec loads encoded images into handles the pipeline can inspect,
// re-encode, and resize. Implementations are synchronous and CPU-bound.
type Codec interface {
	LoadBlob(data []byte) (Image, error)
	LoadFile(path string) (Image, error)
}

// Image is a loaded image handle.
//
// Resize(-1, -1) performs no geometric change: it re-encodes to the
// canonical codec with orientation correction applied. Callers own the
// returned handle and must Close both it and the source.
type Image interface {
	// IsCanonical reports whether the source encoding is already the
	// canonical output codec.
	IsCanonical() bool

	// Dimensions returns the pixel width and height.
	Dimensions() (width, height int)

	// Resize produces a new handle fitted within maxWidth x maxHeight,
	// preserving aspect ratio, encoded in the canonical codec.
	Resize(maxWidth, maxHeight int) (Image, error)

	// EncodedBytes returns the encoded payload. For a canonical source
	// this is the original input by identity; callers must not mutate it.
	EncodedBytes() []byte

	// Close releases pixel data held by the handle.
	Close()
}

// ImagingCodec is the default Codec built on the imaging library with the
// stdlib and x/image decoders (jpeg, png, gif, webp).
type ImagingCodec struct {
	retry filesystem.RetryConfig
}

var _ Codec = (*ImagingCodec)(nil)

// NewImagingCodec returns the pure-Go codec implementation.
func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{retry: filesystem.DefaultRetryConfig()}
}

type imagingImage struct {
	src     []byte      // original encoded bytes
	format  string      // detected source format
	decoded image.Image // oriented pixel data
}

// LoadBlob decodes encoded image bytes into a handle.
func (c *ImagingCodec) LoadBlob(data []byte) (Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image format: %w", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", format, err)
	}

	return &imagingImage{src: data, format: format, decoded: decoded}, nil
}

// LoadFile reads and decodes an image file into a handle. Reads go
// through the filesystem retry layer, like discovery's stat and access
// probes.
func (c *ImagingCodec) LoadFile(path string) (Image, error) {
	data, err := filesystem.ReadFile(path, c.retry)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return c.LoadBlob(data)
}

func (i *imagingImage) IsCanonical() bool {
	return i.format == canonicalFormat
}

func (i *imagingImage) Dimensions() (int, int) {
	b := i.decoded.Bounds()
	return b.Dx(), b.Dy()
}

func (i *imagingImage) Resize(maxWidth, maxHeight int) (Image, error) {
	out := i.decoded
	if maxWidth >= 0 && maxHeight >= 0 {
		out = imaging.Fit(i.decoded, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &imagingImage{src: buf.Bytes(), format: canonicalFormat, decoded: out}, nil
}

func (i *imagingImage) EncodedBytes() []byte {
	return i.src
}

func (i *imagingImage) Close() {
	// Drop pixel data; the GC reclaims it.
	i.decoded = nil
}
