package canopy_test

import (
	"testing"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
stubTree is a canopy.Tree that answers every evaluation with a fixed
score, for exercising aggregation and boosting without growing trees.
*/
type stubTree struct {
	score      float64
	importance []float64
	nodes      int
}

func (st stubTree) Prune(strength float64) {}

func (st stubTree) CountNodes() int {
	return st.nodes
}

func (st stubTree) Evaluate(e *event.Event, useYesNoLeaf bool) float64 {
	return st.score
}

func (st stubTree) ImportanceVector() []float64 {
	return st.importance
}

func TestForestScoreWeightsTreesByRoundWeight(t *testing.T) {
	f := canopy.NewForest(false, true)
	f.AppendEntry(stubTree{score: 0.8}, 2)
	f.AppendEntry(stubTree{score: 0.4}, 3)
	e := event.New([]float64{1}, true, 1)
	score, err := f.Score(e)
	require.NoError(t, err)
	assert.InDelta(t, 0.56, score, 1e-12)
}

func TestForestScoreAveragesPlainlyWithoutWeightedTrees(t *testing.T) {
	f := canopy.NewForest(false, false)
	f.AppendEntry(stubTree{score: 0.8}, 2)
	f.AppendEntry(stubTree{score: 0.4}, 3)
	e := event.New([]float64{1}, true, 1)
	score, err := f.Score(e)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-12)
}

func TestForestScoreFailsOnEmptyForest(t *testing.T) {
	f := canopy.NewForest(true, true)
	_, err := f.Score(event.New([]float64{1}, true, 1))
	assert.Error(t, err)
}

func TestForestScoreFailsWhenRoundWeightsSumToZero(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stubTree{score: 1}, 1)
	f.AppendEntry(stubTree{score: 1}, -1)
	_, err := f.Score(event.New([]float64{1}, true, 1))
	assert.Error(t, err)
}

func TestForestCountAndEntriesFollowTrainingOrder(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stubTree{score: 0.1}, 1.5)
	f.AppendEntry(stubTree{score: 0.2}, 0.5)
	require.Equal(t, 2, f.Count())
	entries := f.Entries()
	assert.Equal(t, 1.5, entries[0].Weight)
	assert.Equal(t, 0.5, entries[1].Weight)
}

func TestForestImportanceNormalizesAcrossTrees(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stubTree{importance: []float64{0.2, 0.8}}, 2)
	f.AppendEntry(stubTree{importance: []float64{0.4, 0.6}}, 1)
	importance, err := f.Importance()
	require.NoError(t, err)
	require.Len(t, importance, 2)
	assert.InDelta(t, 0.3, importance[0], 1e-12)
	assert.InDelta(t, 0.7, importance[1], 1e-12)
}

func TestForestImportanceFailsOnEmptyForest(t *testing.T) {
	f := canopy.NewForest(true, true)
	_, err := f.Importance()
	assert.Error(t, err)
}

func TestForestImportanceFailsOnMismatchedVariableCounts(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stubTree{importance: []float64{1}}, 1)
	f.AppendEntry(stubTree{importance: []float64{0.5, 0.5}}, 1)
	_, err := f.Importance()
	assert.Error(t, err)
}

func TestForestImportanceFailsWithoutAnyAttributedGain(t *testing.T) {
	f := canopy.NewForest(true, true)
	f.AppendEntry(stubTree{importance: []float64{0, 0}}, 1)
	_, err := f.Importance()
	assert.Error(t, err)
}
