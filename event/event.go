/*
Package event provides the training and evaluation records for canopy
ensembles: events carrying a feature vector, a signal/background label
and a mutable weight, and the ordered samples that own them.
*/
package event

import (
	"context"
	"fmt"
	"math"
	"strings"
)

/*
Event is a single record: a feature vector of float64 values, a boolean
class label (true for signal, false for background) and a non-negative
weight. The feature vector and the label never change after the event
is built; the weight is updated in place by boosting between training
rounds.
*/
type Event struct {
	values []float64
	signal bool
	weight float64
}

/*
New takes a slice of feature values, a signal flag and an initial
weight and returns an event built with them. The values slice is owned
by the event afterwards and must not be modified by the caller.
*/
func New(values []float64, signal bool, weight float64) *Event {
	return &Event{values, signal, weight}
}

/*
Values returns the feature vector of the event. The returned slice is
the event's own storage and must be treated as read-only.
*/
func (e *Event) Values() []float64 {
	return e.values
}

/*
Value returns the value of the i-th feature of the event.
*/
func (e *Event) Value(i int) float64 {
	return e.values[i]
}

/*
Signal returns true if the event is labelled as signal and false if it
is labelled as background.
*/
func (e *Event) Signal() bool {
	return e.signal
}

/*
Weight returns the current weight of the event.
*/
func (e *Event) Weight() float64 {
	return e.weight
}

/*
SetWeight sets the weight of the event. Weights must be kept
non-negative; reweighting passes only ever scale them by non-negative
factors.
*/
func (e *Event) SetWeight(w float64) {
	e.weight = w
}

/*
Source provides an ordered, finite collection of events, typically read
from an external row store.
*/
type Source interface {
	Events(context.Context) ([]*Event, error)
}

/*
Sample is an ordered sequence of events. It owns its events: trainers
and boosting strategies operate on borrowed references so that weight
mutations are visible to every consumer within the same training round.
*/
type Sample struct {
	events []*Event
}

/*
NewSample takes a slice of events and returns a sample that owns them.
*/
func NewSample(events []*Event) *Sample {
	return &Sample{events}
}

/*
FromSource takes a context, a source and a background scale and returns
a sample built with the events read from the source, or an error if the
source cannot be read. A backgroundScale greater than 0 scales the
initial weight of every background-labelled event by that factor before
training begins, simulating an altered class prior; any other value
leaves the weights as read.
*/
func FromSource(ctx context.Context, src Source, backgroundScale float64) (*Sample, error) {
	events, err := src.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("building sample: %v", err)
	}
	if backgroundScale > 0 {
		for _, e := range events {
			if !e.Signal() {
				e.SetWeight(backgroundScale * e.Weight())
			}
		}
	}
	return NewSample(events), nil
}

/*
Events returns the events of the sample in order. The returned slice is
the sample's own storage.
*/
func (s *Sample) Events() []*Event {
	return s.events
}

/*
Count returns the number of events in the sample.
*/
func (s *Sample) Count() int {
	return len(s.events)
}

/*
TotalWeight returns the sum of the weights of all events in the sample.
*/
func (s *Sample) TotalWeight() float64 {
	var sum float64
	for _, e := range s.events {
		sum += e.Weight()
	}
	return sum
}

/*
VariableCount returns the number of features each event in the sample
carries.
*/
func (s *Sample) VariableCount() int {
	if len(s.events) == 0 {
		return 0
	}
	return len(s.events[0].values)
}

/*
Check verifies the sample can be trained on: it must be non-empty, all
its events must carry feature vectors of the same length and all
weights must be finite and non-negative. It returns an error describing
the first violation found, or nil.
*/
func (s *Sample) Check() error {
	if len(s.events) == 0 {
		return fmt.Errorf("sample has no events")
	}
	variables := len(s.events[0].values)
	if variables == 0 {
		return fmt.Errorf("sample events have no features")
	}
	for i, e := range s.events {
		if len(e.values) != variables {
			return fmt.Errorf("event %d has %d features, expected %d", i, len(e.values), variables)
		}
		if math.IsNaN(e.weight) || math.IsInf(e.weight, 0) || e.weight < 0 {
			return fmt.Errorf("event %d has invalid weight %v", i, e.weight)
		}
	}
	return nil
}

/*
Metadata describes how event records map onto the columns of an
external row store: the names of the feature columns in order, the name
of the class label column and optionally the name of a weight column.
An empty Weight means every event starts with weight 1.
*/
type Metadata struct {
	Variables []string
	Label     string
	Weight    string
}

/*
Check verifies the metadata declares at least one variable and a label
column, returning an error describing the first violation found or nil.
*/
func (md *Metadata) Check() error {
	if len(md.Variables) == 0 {
		return fmt.Errorf("metadata declares no variables")
	}
	if md.Label == "" {
		return fmt.Errorf("metadata declares no label column")
	}
	for i, v := range md.Variables {
		if v == "" {
			return fmt.Errorf("metadata variable %d has an empty name", i)
		}
	}
	return nil
}

/*
ParseLabel takes the string value of a label column and returns true
for signal labels, false for background labels, or an error if the
value identifies neither. Accepted signal values are 1, s, sig, signal,
true and y; accepted background values are 0, b, bkg, background,
false and n. Matching is case-insensitive.
*/
func ParseLabel(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "s", "sig", "signal", "true", "y":
		return true, nil
	case "0", "b", "bkg", "background", "false", "n":
		return false, nil
	}
	return false, fmt.Errorf("unknown label value %q", value)
}
