//go:build !cgo

package database

// isConstraintErr reports whether err is a SQLite uniqueness/constraint
// violation. Those are normal control flow for this store, never failures.
// go-sqlite3 requires cgo; in cgo-free builds the driver cannot open a
// database, so no SQLite error can reach this path.
func isConstraintErr(err error) bool {
	return false
}
