/*
Package sqlsource provides an event.Source that reads events from a
table of a database/sql database. Adapters for specific engines live in
the sqlite3adapter and pgadapter subpackages.
*/
package sqlsource

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/canopy/event"
)

/*
Source is an event.Source backed by a SQL table with one column per
metadata-declared variable, a label column and optionally a weight
column. Rows are read in the order the database returns them.
*/
type Source struct {
	db    *sql.DB
	table string
	md    *event.Metadata
}

/*
New takes an open database, a table name and a metadata description of
the table's columns and returns a Source reading events from it, or an
error if the metadata is invalid or the table or a column name contains
characters that cannot be quoted safely.
*/
func New(db *sql.DB, table string, md *event.Metadata) (*Source, error) {
	if err := md.Check(); err != nil {
		return nil, fmt.Errorf("opening sql source: %v", err)
	}
	columns := append([]string{md.Label, md.Weight, table}, md.Variables...)
	for _, c := range columns {
		if strings.ContainsAny(c, `"`) {
			return nil, fmt.Errorf(`opening sql source: name %s contains invalid character '"'`, c)
		}
	}
	return &Source{db, table, md}, nil
}

/*
Events queries the source's table and returns one event per row, or an
error if the query fails or a row cannot be parsed into an event.
*/
func (ss *Source) Events(ctx context.Context) ([]*event.Event, error) {
	rows, err := ss.db.QueryContext(ctx, ss.query())
	if err != nil {
		return nil, fmt.Errorf("querying events from %s: %v", ss.table, err)
	}
	defer rows.Close()
	var events []*event.Event
	for i := 0; rows.Next(); i++ {
		values := make([]float64, len(ss.md.Variables))
		var label string
		var weight sql.NullFloat64
		dests := make([]interface{}, 0, len(values)+2)
		for j := range values {
			dests = append(dests, &values[j])
		}
		dests = append(dests, &label)
		if ss.md.Weight != "" {
			dests = append(dests, &weight)
		}
		if err = rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanning row %d from %s: %v", i, ss.table, err)
		}
		signal, err := event.ParseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("parsing row %d from %s: %v", i, ss.table, err)
		}
		w := 1.0
		if weight.Valid {
			w = weight.Float64
		}
		events = append(events, event.New(values, signal, w))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("querying events from %s: %v", ss.table, err)
	}
	return events, nil
}

func (ss *Source) query() string {
	var queryBuffer bytes.Buffer
	queryBuffer.WriteString(`SELECT "`)
	queryBuffer.WriteString(strings.Join(ss.md.Variables, `", "`))
	queryBuffer.WriteString(`", "`)
	queryBuffer.WriteString(ss.md.Label)
	if ss.md.Weight != "" {
		queryBuffer.WriteString(`", "`)
		queryBuffer.WriteString(ss.md.Weight)
	}
	queryBuffer.WriteString(`" FROM "`)
	queryBuffer.WriteString(ss.table)
	queryBuffer.WriteString(`"`)
	return queryBuffer.String()
}
