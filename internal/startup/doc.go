// Package startup loads the cover-art cache configuration from
// environment variables and validates the database directory before the
// cache is constructed.
package startup
