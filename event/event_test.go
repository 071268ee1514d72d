package event_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/pbanos/canopy/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource []*event.Event

func (ss sliceSource) Events(ctx context.Context) ([]*event.Event, error) {
	return ss, nil
}

type failingSource struct{}

func (failingSource) Events(ctx context.Context) ([]*event.Event, error) {
	return nil, fmt.Errorf("source is down")
}

func TestEventAccessors(t *testing.T) {
	e := event.New([]float64{1.5, -2}, true, 3)
	assert.Equal(t, []float64{1.5, -2}, e.Values())
	assert.Equal(t, 1.5, e.Value(0))
	assert.Equal(t, -2.0, e.Value(1))
	assert.True(t, e.Signal())
	assert.Equal(t, 3.0, e.Weight())
	e.SetWeight(0.5)
	assert.Equal(t, 0.5, e.Weight())
}

func TestSampleCountAndTotalWeight(t *testing.T) {
	s := event.NewSample([]*event.Event{
		event.New([]float64{1}, true, 2),
		event.New([]float64{2}, false, 3),
	})
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.VariableCount())
	assert.InDelta(t, 5.0, s.TotalWeight(), 1e-12)
}

func TestFromSourceScalesBackgroundWeights(t *testing.T) {
	src := sliceSource{
		event.New([]float64{1}, true, 2),
		event.New([]float64{2}, false, 3),
	}
	s, err := event.FromSource(context.Background(), src, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Events()[0].Weight())
	assert.Equal(t, 6.0, s.Events()[1].Weight())
}

func TestFromSourceLeavesWeightsAloneWithoutAPositiveScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		src := sliceSource{event.New([]float64{1}, false, 3)}
		s, err := event.FromSource(context.Background(), src, scale)
		require.NoError(t, err)
		assert.Equal(t, 3.0, s.Events()[0].Weight())
	}
}

func TestFromSourceFailsWhenTheSourceFails(t *testing.T) {
	_, err := event.FromSource(context.Background(), failingSource{}, -1)
	assert.Error(t, err)
}

func TestSampleCheck(t *testing.T) {
	s := event.NewSample([]*event.Event{
		event.New([]float64{1, 2}, true, 1),
		event.New([]float64{3, 4}, false, 0),
	})
	assert.NoError(t, s.Check())

	assert.Error(t, event.NewSample(nil).Check())
	assert.Error(t, event.NewSample([]*event.Event{event.New(nil, true, 1)}).Check())
	assert.Error(t, event.NewSample([]*event.Event{
		event.New([]float64{1, 2}, true, 1),
		event.New([]float64{3}, false, 1),
	}).Check())
	assert.Error(t, event.NewSample([]*event.Event{event.New([]float64{1}, true, -1)}).Check())
	assert.Error(t, event.NewSample([]*event.Event{event.New([]float64{1}, true, math.NaN())}).Check())
	assert.Error(t, event.NewSample([]*event.Event{event.New([]float64{1}, true, math.Inf(1))}).Check())
}

func TestMetadataCheck(t *testing.T) {
	md := &event.Metadata{Variables: []string{"pt", "eta"}, Label: "class"}
	assert.NoError(t, md.Check())
	md = &event.Metadata{Variables: []string{"pt"}, Label: "class", Weight: "w"}
	assert.NoError(t, md.Check())

	assert.Error(t, (&event.Metadata{Label: "class"}).Check())
	assert.Error(t, (&event.Metadata{Variables: []string{"pt"}}).Check())
	assert.Error(t, (&event.Metadata{Variables: []string{"pt", ""}, Label: "class"}).Check())
}

func TestParseLabel(t *testing.T) {
	for _, value := range []string{"1", "s", "sig", "signal", "true", "y", "Signal", "S", "TRUE"} {
		signal, err := event.ParseLabel(value)
		require.NoError(t, err, "label %q", value)
		assert.True(t, signal, "label %q", value)
	}
	for _, value := range []string{"0", "b", "bkg", "background", "false", "n", "Background", "B", "FALSE"} {
		signal, err := event.ParseLabel(value)
		require.NoError(t, err, "label %q", value)
		assert.False(t, signal, "label %q", value)
	}
	_, err := event.ParseLabel("maybe")
	assert.Error(t, err)
}
