package canopy_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
sliceSource is an event.Source over an in-memory slice of events.
*/
type sliceSource []*event.Event

func (ss sliceSource) Events(ctx context.Context) ([]*event.Event, error) {
	return ss, nil
}

type failingSource struct{}

func (failingSource) Events(ctx context.Context) ([]*event.Event, error) {
	return nil, fmt.Errorf("source is down")
}

/*
separableEvents returns n signal events clustered above 1 and n
background events clustered below -1 on a single variable, so that any
threshold near 0 separates them perfectly.
*/
func separableEvents(n int) []*event.Event {
	var events []*event.Event
	for i := 0; i < n; i++ {
		events = append(events, event.New([]float64{1 + float64(i)/10}, true, 1))
		events = append(events, event.New([]float64{-1 - float64(i)/10}, false, 1))
	}
	return events
}

func trainingConfig() canopy.Config {
	config := canopy.DefaultConfig()
	config.TreeCount = 3
	config.NodeMinEvents = 1
	config.CutCount = 10
	config.PruneStrength = 0
	return config
}

func TestNewRejectsInvalidConfigs(t *testing.T) {
	_, err := canopy.New(nil, canopy.DefaultConfig())
	assert.Error(t, err)
	config := canopy.DefaultConfig()
	config.TreeCount = 0
	_, err = canopy.New(tree.Builder{}, config)
	assert.Error(t, err)
	config = canopy.DefaultConfig()
	config.Separation = "entanglement"
	_, err = canopy.New(tree.Builder{}, config)
	assert.Error(t, err)
	config = canopy.DefaultConfig()
	config.Boosting = "gradient"
	_, err = canopy.New(tree.Builder{}, config)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	config := canopy.DefaultConfig()
	assert.Equal(t, 200, config.TreeCount)
	assert.Equal(t, "AdaBoost", config.Boosting)
	assert.Equal(t, "GiniIndex", config.Separation)
	assert.Equal(t, 400, config.NodeMinEvents)
	assert.Equal(t, 20, config.CutCount)
	assert.Equal(t, 10.0, config.PruneStrength)
	assert.True(t, config.UseYesNoLeaf)
	assert.True(t, config.UseWeightedTrees)
}

func TestTrainGrowsOneTreePerRound(t *testing.T) {
	trainer, err := canopy.New(tree.Builder{}, trainingConfig())
	require.NoError(t, err)
	var records []canopy.RoundRecord
	trainer.Monitor = func(r canopy.RoundRecord) {
		records = append(records, r)
	}
	forest, err := trainer.Train(context.Background(), event.NewSample(separableEvents(10)))
	require.NoError(t, err)
	require.Equal(t, 3, forest.Count())
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.Round)
		assert.Zero(t, r.ErrorFraction)
		assert.Greater(t, r.Nodes, 1)
		assert.GreaterOrEqual(t, r.NodesBeforePruning, r.Nodes)
	}
}

func TestTrainedForestSeparatesTheClasses(t *testing.T) {
	trainer, err := canopy.New(tree.Builder{}, trainingConfig())
	require.NoError(t, err)
	forest, err := trainer.Train(context.Background(), event.NewSample(separableEvents(10)))
	require.NoError(t, err)
	signalScore, err := forest.Score(event.New([]float64{1.5}, true, 1))
	require.NoError(t, err)
	backgroundScore, err := forest.Score(event.New([]float64{-1.5}, false, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, signalScore, 1e-12)
	assert.InDelta(t, 0.0, backgroundScore, 1e-12)
}

func TestTrainWithBaggingConservesEventCountWeight(t *testing.T) {
	config := trainingConfig()
	config.Boosting = "Bagging"
	trainer, err := canopy.New(tree.Builder{}, config)
	require.NoError(t, err)
	s := event.NewSample(separableEvents(10))
	forest, err := trainer.Train(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 3, forest.Count())
	assert.InDelta(t, float64(s.Count()), s.TotalWeight(), 1e-9)
}

func TestTrainFailsWithoutSample(t *testing.T) {
	trainer, err := canopy.New(tree.Builder{}, trainingConfig())
	require.NoError(t, err)
	_, err = trainer.Train(context.Background(), nil)
	assert.Error(t, err)
	_, err = trainer.Train(context.Background(), event.NewSample(nil))
	assert.Error(t, err)
}

func TestTrainFailsOnEndedContext(t *testing.T) {
	trainer, err := canopy.New(tree.Builder{}, trainingConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = trainer.Train(ctx, event.NewSample(separableEvents(10)))
	assert.Error(t, err)
}

func TestNewSampleAppliesBackgroundScale(t *testing.T) {
	config := trainingConfig()
	config.BackgroundScale = 2
	trainer, err := canopy.New(tree.Builder{}, config)
	require.NoError(t, err)
	src := sliceSource{
		event.New([]float64{1}, true, 1),
		event.New([]float64{-1}, false, 1),
	}
	s, err := trainer.NewSample(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Events()[0].Weight())
	assert.Equal(t, 2.0, s.Events()[1].Weight())
}

func TestNewSampleFailsWhenSourceFails(t *testing.T) {
	trainer, err := canopy.New(tree.Builder{}, trainingConfig())
	require.NoError(t, err)
	_, err = trainer.NewSample(context.Background(), failingSource{})
	assert.Error(t, err)
}
