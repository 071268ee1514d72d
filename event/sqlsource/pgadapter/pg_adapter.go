/*
Package pgadapter opens PostgreSQL databases for use with sqlsource.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of postgresql driver
	_ "github.com/lib/pq"
)

/*
Open takes a PostgreSQL connection URL and a limit to the number of
connections opened at a time (0 meaning no limit) and returns an open
database handle or an error if the URL cannot be opened as a
PostgreSQL database.
*/
func Open(url string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening postgresql database: %v", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return db, nil
}
