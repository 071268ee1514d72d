/*
Package csv provides an event.Source that parses events from CSV
streams.

The header or first row of the CSV content is expected to contain the
columns the metadata declares: one per variable, the label column and,
if declared, the weight column, in any order. Extra columns are
ignored.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/canopy/event"
)

/*
Source is an event.Source that reads events from a CSV stream.
*/
type Source struct {
	r  io.Reader
	md *event.Metadata
}

/*
New takes an io.Reader for a CSV stream and a metadata description of
its columns and returns a Source that parses events from it.
*/
func New(r io.Reader, md *event.Metadata) *Source {
	return &Source{r, md}
}

/*
Open takes a filepath and a metadata description and returns a Source
that parses events from the file the filepath points to, or from STDIN
when the filepath is empty. An error is returned if the file cannot be
opened for reading. The caller owns the returned closer.
*/
func Open(filepath string, md *event.Metadata) (*Source, io.Closer, error) {
	if filepath == "" {
		return New(os.Stdin, md), os.Stdin, nil
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening events at %s: %v", filepath, err)
	}
	return New(f, md), f, nil
}

/*
Events parses every row of the source's stream into an event and
returns them in row order, or an error if the stream cannot be read, a
declared column is missing from the header or a value cannot be
parsed.
*/
func (cs *Source) Events(ctx context.Context) ([]*event.Event, error) {
	if err := cs.md.Check(); err != nil {
		return nil, fmt.Errorf("reading events: %v", err)
	}
	r := csv.NewReader(cs.r)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	variableColumns, labelColumn, weightColumn, err := parseColumnsFromCSVHeader(header, cs.md)
	if err != nil {
		return nil, err
	}
	var events []*event.Event
	for l := 2; ; l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		e, err := parseEventFromCSVRow(row, variableColumns, labelColumn, weightColumn)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func parseColumnsFromCSVHeader(header []string, md *event.Metadata) ([]int, int, int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		columns[name] = i
	}
	variableColumns := make([]int, len(md.Variables))
	for i, v := range md.Variables {
		c, ok := columns[v]
		if !ok {
			return nil, 0, 0, fmt.Errorf("parsing header: no column for variable %s", v)
		}
		variableColumns[i] = c
	}
	labelColumn, ok := columns[md.Label]
	if !ok {
		return nil, 0, 0, fmt.Errorf("parsing header: no column for label %s", md.Label)
	}
	weightColumn := -1
	if md.Weight != "" {
		if weightColumn, ok = columns[md.Weight]; !ok {
			return nil, 0, 0, fmt.Errorf("parsing header: no column for weight %s", md.Weight)
		}
	}
	return variableColumns, labelColumn, weightColumn, nil
}

func parseEventFromCSVRow(row []string, variableColumns []int, labelColumn, weightColumn int) (*event.Event, error) {
	values := make([]float64, len(variableColumns))
	for i, c := range variableColumns {
		if c >= len(row) {
			return nil, fmt.Errorf("row has no column %d", c)
		}
		v, err := strconv.ParseFloat(row[c], 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64: %v", row[c], err)
		}
		values[i] = v
	}
	if labelColumn >= len(row) {
		return nil, fmt.Errorf("row has no label column")
	}
	signal, err := event.ParseLabel(row[labelColumn])
	if err != nil {
		return nil, err
	}
	weight := 1.0
	if weightColumn >= 0 {
		if weightColumn >= len(row) {
			return nil, fmt.Errorf("row has no weight column")
		}
		weight, err = strconv.ParseFloat(row[weightColumn], 64)
		if err != nil {
			return nil, fmt.Errorf("converting weight %s to float64: %v", row[weightColumn], err)
		}
	}
	return event.New(values, signal, weight), nil
}
