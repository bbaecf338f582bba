package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"art-cache/internal/logging"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isStaleError reports whether err is a transient NFS error worth retrying.
func isStaleError(err error) bool {
	return errors.Is(err, syscall.ESTALE) ||
		errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.EAGAIN)
}

// withRetry runs op with bounded exponential backoff on stale NFS errors.
// Non-stale errors are returned immediately.
func withRetry(operation, path string, config RetryConfig, op func() error) error {
	start := time.Now()
	backoff := config.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := op()
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", operation, attempt, path)
			}
			if o := observe(); o != nil {
				o.ObserveOperation(operation, time.Since(start).Seconds(), nil)
			}
			return nil
		}

		lastErr = err

		if !isStaleError(err) {
			if o := observe(); o != nil {
				o.ObserveOperation(operation, time.Since(start).Seconds(), err)
			}
			return err
		}

		if o := observe(); o != nil {
			o.ObserveStaleError(operation)
		}

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			if o := observe(); o != nil {
				o.ObserveRetryAttempt(operation)
			}
			logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
				operation, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("NFS %s failed after %d retries for %s: %v", operation, config.MaxRetries, path, lastErr)
	if o := observe(); o != nil {
		o.ObserveOperation(operation, time.Since(start).Seconds(), lastErr)
	}
	return lastErr
}

// Stat performs os.Lstat with retry logic for NFS stale file handle errors.
func Stat(path string, config RetryConfig) (os.FileInfo, error) {
	var info os.FileInfo
	err := withRetry("stat", path, config, func() error {
		var statErr error
		info, statErr = os.Lstat(path)
		return statErr
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Readable reports whether path exists and is readable by the current
// process. It opens and immediately closes the file, the closest portable
// equivalent of access(2) with R_OK.
func Readable(path string, config RetryConfig) bool {
	err := withRetry("access", path, config, func() error {
		f, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		return f.Close()
	})
	return err == nil
}

// ReadDir lists a directory with retry logic for NFS stale file handle errors.
func ReadDir(path string, config RetryConfig) ([]os.DirEntry, error) {
	var entries []os.DirEntry
	err := withRetry("readdir", path, config, func() error {
		var readErr error
		entries, readErr = os.ReadDir(path)
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadFile reads a whole file with retry logic for NFS stale file handle errors.
func ReadFile(path string, config RetryConfig) ([]byte, error) {
	var data []byte
	err := withRetry("read", path, config, func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
