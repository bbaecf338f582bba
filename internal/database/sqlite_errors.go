//go:build cgo

package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// isConstraintErr reports whether err is a SQLite uniqueness/constraint
// violation. Those are normal control flow for this store, never failures.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
