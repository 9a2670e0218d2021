package sqlite

import (
	"errors"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// primaryCode extracts the primary SQLite result code from a driver error.
// Extended codes carry the primary code in their low byte.
func primaryCode(err error) (int, bool) {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

// IsConstraint reports whether err is a UNIQUE, CHECK, NOT NULL, PRIMARY KEY
// or FOREIGN KEY violation raised by SQLite.
func IsConstraint(err error) bool {
	code, ok := primaryCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT
}

// IsBusy reports whether err means the database is locked by another
// connection.
func IsBusy(err error) bool {
	code, ok := primaryCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}
