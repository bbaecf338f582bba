// Package logging provides a simple leveled logging interface for the
// cover-art cache.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//
// The log level is configured via the LOG_LEVEL environment variable,
// or DEBUG=1 as a shortcut for debug output.
package logging
