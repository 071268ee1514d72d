/*
Package sqlite3adapter opens SQLite3 database files for use with
sqlsource.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

/*
Open takes a path to an SQLite3 database file and a limit to the
number of connections opened at a time (0 meaning no limit) and returns
an open database handle on the file or an error if it fails to open as
an sqlite3 database.
*/
func Open(path string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite3 database %s: %v", path, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return db, nil
}
