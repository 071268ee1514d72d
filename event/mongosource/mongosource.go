/*
Package mongosource provides an event.Source that reads events from a
MongoDB collection.
*/
package mongosource

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/canopy/event"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Source is an event.Source backed by a MongoDB collection with one
document per event: a numeric field per metadata-declared variable, a
label field and optionally a numeric weight field.
*/
type Source struct {
	session    *mgo.Session
	collection string
	md         *event.Metadata
}

/*
New takes a MongoDB session, a collection name and a metadata
description of the collection's documents and returns a Source reading
events from the collection on the session's default database, or an
error if the metadata is invalid or declares reserved field names.
*/
func New(session *mgo.Session, collection string, md *event.Metadata) (*Source, error) {
	if err := md.Check(); err != nil {
		return nil, fmt.Errorf("opening mongo source: %v", err)
	}
	for _, f := range append([]string{md.Label, md.Weight}, md.Variables...) {
		if f == "_id" {
			return nil, fmt.Errorf("opening mongo source: invalid field name %q: reserved collection field", f)
		}
		if strings.ContainsAny(f, ".$") {
			return nil, fmt.Errorf("opening mongo source: invalid field name %q: contains reserved characters %q or %q", f, ".", "$")
		}
	}
	return &Source{session, collection, md}, nil
}

/*
Events iterates the source's collection and returns one event per
document, or an error if the collection cannot be iterated or a
document cannot be parsed into an event.
*/
func (ms *Source) Events(ctx context.Context) ([]*event.Event, error) {
	iter := ms.session.DB("").C(ms.collection).Find(nil).Iter()
	defer iter.Close()
	var events []*event.Event
	var doc bson.M
	for i := 0; iter.Next(&doc); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := ms.parseEvent(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing document %d from %s: %v", i, ms.collection, err)
		}
		events = append(events, e)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %v", ms.collection, err)
	}
	return events, nil
}

func (ms *Source) parseEvent(doc bson.M) (*event.Event, error) {
	values := make([]float64, len(ms.md.Variables))
	for i, v := range ms.md.Variables {
		value, err := floatField(doc, v)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	label, ok := doc[ms.md.Label]
	if !ok {
		return nil, fmt.Errorf("document has no %s field", ms.md.Label)
	}
	signal, err := event.ParseLabel(fmt.Sprintf("%v", label))
	if err != nil {
		return nil, err
	}
	weight := 1.0
	if ms.md.Weight != "" {
		if weight, err = floatField(doc, ms.md.Weight); err != nil {
			return nil, err
		}
	}
	return event.New(values, signal, weight), nil
}

func floatField(doc bson.M, field string) (float64, error) {
	switch value := doc[field].(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case nil:
		return 0, fmt.Errorf("document has no %s field", field)
	default:
		return 0, fmt.Errorf("document field %s holds a %T instead of a number", field, value)
	}
}
