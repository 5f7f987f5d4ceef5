// Package sqlite opens SQLite databases through the pure Go
// modernc.org/sqlite driver, so the module builds with CGO_ENABLED=0.
//
// Use Open instead of sql.Open to get the pragmas every index database
// in this module relies on.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tribal2/docx/core/errors"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// busyTimeoutMS bounds how long a writer waits for a competing lock.
const busyTimeoutMS = 5000

// Open opens a read-write SQLite database at path, creating it if needed.
// Foreign keys are enforced and the journal runs in WAL mode.
func Open(path string) (*sql.DB, error) {
	return open(path, url.Values{
		"_pragma": {
			fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS),
			"foreign_keys(1)",
			"journal_mode(WAL)",
		},
	})
}

// OpenReadOnly opens an existing SQLite database in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return open(path, url.Values{
		"mode":    {"ro"},
		"_pragma": {fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS)},
	})
}

func open(path string, params url.Values) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn(path, params))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return db, nil
}

// dsn builds a file: URI for path. The path is percent-encoded so '?'
// and '#' in directory names stay part of the file name.
func dsn(path string, params url.Values) string {
	u := url.URL{Path: path}
	return "file:" + u.EscapedPath() + "?" + params.Encode()
}
