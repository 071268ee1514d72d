package canopy_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/tree"
	treejson "github.com/pbanos/canopy/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stumpTree(splitVal float64) *tree.Tree {
	return &tree.Tree{
		Variables: 1,
		Root: &tree.Node{
			SplitVar:   0,
			SplitVal:   splitVal,
			Gain:       1.2,
			Signal:     5,
			Background: 5,
			Left:       &tree.Node{SplitVar: -1, Signal: 0, Background: 5},
			Right:      &tree.Node{SplitVar: -1, Signal: 5, Background: 0},
		},
	}
}

func TestWriteForestProducesValidJSONInTrainingOrder(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stumpTree(0), 1.5)
	f.AppendEntry(stumpTree(0.5), 0.7)
	var buf bytes.Buffer
	err := canopy.WriteForest(context.Background(), f, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)
	require.True(t, json.Valid(buf.Bytes()))
	assert.True(t, strings.HasPrefix(buf.String(), `{"trees":2,"entries":[{"index":0,"weight":1.5,`))
	assert.Contains(t, buf.String(), `{"index":1,"weight":0.7,`)
}

func TestForestRoundTrip(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stumpTree(0), 1.5)
	f.AppendEntry(stumpTree(0.5), 0.7)
	f.AppendEntry(stumpTree(-0.5), 2.25)
	var buf bytes.Buffer
	err := canopy.WriteForest(context.Background(), f, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)

	restored := canopy.NewForest(true, true)
	err = canopy.ReadForest(context.Background(), restored, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)
	require.Equal(t, f.Count(), restored.Count())
	for i, entry := range f.Entries() {
		assert.Equal(t, entry.Weight, restored.Entries()[i].Weight)
	}
	for _, values := range [][]float64{{-1}, {0.25}, {1}} {
		e := event.New(values, true, 1)
		expected, err := f.Score(e)
		require.NoError(t, err)
		restoredScore, err := restored.Score(e)
		require.NoError(t, err)
		assert.Equal(t, expected, restoredScore)
	}
}

func TestReadForestReplacesPreviousContents(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stumpTree(0), 1)
	var buf bytes.Buffer
	err := canopy.WriteForest(context.Background(), f, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)

	restored := canopy.NewForest(true, true)
	restored.AppendEntry(stumpTree(0.5), 2)
	restored.AppendEntry(stumpTree(-0.5), 3)
	err = canopy.ReadForest(context.Background(), restored, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Count())
	assert.Equal(t, 1.0, restored.Entries()[0].Weight)
}

func TestReadForestDetectsOutOfSequenceEntries(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stumpTree(0), 1)
	f.AppendEntry(stumpTree(0.5), 1)
	var buf bytes.Buffer
	err := canopy.WriteForest(context.Background(), f, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)
	corrupted := strings.Replace(buf.String(), `{"index":1,`, `{"index":2,`, 1)

	restored := canopy.NewForest(true, true)
	err = canopy.ReadForest(context.Background(), restored, treejson.EncodeDecoder{}, strings.NewReader(corrupted))
	require.Error(t, err)
	assert.Equal(t, canopy.ErrCorruptForest, err)
	assert.Zero(t, restored.Count())
}

func TestReadForestRejectsMismatchedDeclaredSize(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stumpTree(0), 1)
	var buf bytes.Buffer
	err := canopy.WriteForest(context.Background(), f, treejson.EncodeDecoder{}, &buf)
	require.NoError(t, err)
	tampered := strings.Replace(buf.String(), `{"trees":1,`, `{"trees":3,`, 1)

	restored := canopy.NewForest(true, true)
	err = canopy.ReadForest(context.Background(), restored, treejson.EncodeDecoder{}, strings.NewReader(tampered))
	assert.Error(t, err)
}

func TestReadForestRejectsUnparsableStreams(t *testing.T) {
	restored := canopy.NewForest(true, true)
	err := canopy.ReadForest(context.Background(), restored, treejson.EncodeDecoder{}, strings.NewReader("not json"))
	assert.Error(t, err)
}
