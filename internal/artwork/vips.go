//go:build cgo

package artwork

import (
	"fmt"
	"sync"

	"art-cache/internal/filesystem"
	"art-cache/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library.
// This should be called once at startup.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Route vips log output through our leveled logger. The vips threshold
	// follows the application level so LOG_LEVEL controls both.
	vipsLevel := vips.LogLevelWarning
	if logging.IsDebugEnabled() {
		vipsLevel = vips.LogLevelInfo
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level <= vips.LogLevelError:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLevel)

	// Conservative memory settings: one image at a time, small operation cache.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsCodec is a Codec backed by libvips. It is substantially faster and
// more memory efficient than the pure-Go codec for large sources because
// vips can shrink during decode.
type VipsCodec struct {
	retry filesystem.RetryConfig
}

var _ Codec = (*VipsCodec)(nil)

// NewVipsCodec returns the vips-backed codec. InitVips must have been
// called first.
func NewVipsCodec() (*VipsCodec, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}
	return &VipsCodec{retry: filesystem.DefaultRetryConfig()}, nil
}

type vipsImage struct {
	ref *vips.ImageRef
	src []byte // encoded source bytes
}

// LoadBlob decodes encoded image bytes with vips.
func (c *VipsCodec) LoadBlob(data []byte) (Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	ref, err := vips.LoadImageFromBuffer(data, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}

	return &vipsImage{ref: ref, src: data}, nil
}

// LoadFile reads and decodes an image file with vips.
func (c *VipsCodec) LoadFile(path string) (Image, error) {
	data, err := filesystem.ReadFile(path, c.retry)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return c.LoadBlob(data)
}

func (i *vipsImage) IsCanonical() bool {
	return i.ref.Format() == vips.ImageTypeJPEG
}

func (i *vipsImage) Dimensions() (int, int) {
	return i.ref.Width(), i.ref.Height()
}

func (i *vipsImage) Resize(maxWidth, maxHeight int) (Image, error) {
	clone, err := i.ref.Copy()
	if err != nil {
		return nil, fmt.Errorf("vips copy failed: %w", err)
	}

	if maxWidth >= 0 && maxHeight >= 0 {
		// InterestingNone fits within the box preserving aspect ratio.
		if err := clone.Thumbnail(maxWidth, maxHeight, vips.InterestingNone); err != nil {
			clone.Close()
			return nil, fmt.Errorf("vips resize failed: %w", err)
		}
	}

	encoded, _, err := clone.ExportJpeg(&vips.JpegExportParams{
		Quality:        jpegQuality,
		OptimizeCoding: true,
	})
	if err != nil {
		clone.Close()
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	return &vipsImage{ref: clone, src: encoded}, nil
}

func (i *vipsImage) EncodedBytes() []byte {
	return i.src
}

func (i *vipsImage) Close() {
	i.ref.Close()
}
