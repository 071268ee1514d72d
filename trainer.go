package canopy

import (
	"context"
	"fmt"

	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/separation"
)

/*
RoundRecord is the per-round diagnostic record a trainer emits through
its monitor after every completed boosting round. Recording it is a
side effect for external monitoring with no influence on training.
*/
type RoundRecord struct {
	// Round is the index of the round, 0-based in training order.
	Round int
	// Weight is the round weight recorded with the tree.
	Weight float64
	// BoostWeight is the raw boost weight the strategy computed.
	BoostWeight float64
	// ErrorFraction is the weighted misclassified fraction of the
	// round's tree over the sample it was built from.
	ErrorFraction float64
	// NodesBeforePruning and Nodes are the tree's node counts before
	// and after pruning.
	NodesBeforePruning int
	Nodes              int
}

/*
Trainer grows a forest by running boosting rounds strictly in sequence:
each round builds a tree from the event weights the previous round left
behind, so rounds cannot be reordered or parallelized.

Its optional Monitor is called with a RoundRecord after every round.
*/
type Trainer struct {
	builder          TreeBuilder
	booster          Booster
	criterion        separation.Criterion
	treeCount        int
	nodeMinEvents    int
	cutCount         int
	backgroundScale  float64
	pruneStrength    float64
	useYesNoLeaf     bool
	useWeightedTrees bool

	Monitor func(RoundRecord)
}

/*
NewSample takes a context and an event source and returns a sample
built from it with the trainer's background scale applied, or an error
if the source cannot be read.
*/
func (t *Trainer) NewSample(ctx context.Context, src event.Source) (*event.Sample, error) {
	return event.FromSource(ctx, src, t.backgroundScale)
}

/*
Train takes a context and an event sample and grows a forest from it,
mutating the sample's event weights in place from round to round. It
returns the forest or an error if the sample fails its sanity check,
a tree cannot be built, a boosting round fails or the context ends
before all rounds complete. Any error aborts the whole run: no partial
forest is ever returned.
*/
func (t *Trainer) Train(ctx context.Context, s *event.Sample) (*Forest, error) {
	if s == nil {
		return nil, fmt.Errorf("training: no sample given")
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("training: sanity check failed: %v", err)
	}
	forest := NewForest(t.useYesNoLeaf, t.useWeightedTrees)
	for round := 0; round < t.treeCount; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training: round %d: %v", round, err)
		}
		dt, err := t.builder.Build(ctx, s.Events(), t.criterion, t.nodeMinEvents, t.cutCount)
		if err != nil {
			return nil, fmt.Errorf("training: round %d: building tree: %v", round, err)
		}
		nodesBeforePruning := dt.CountNodes()
		dt.Prune(t.pruneStrength)
		nodes := dt.CountNodes()
		result, err := t.booster.Boost(s, dt, round)
		if err != nil {
			return nil, fmt.Errorf("training: round %d: %v", round, err)
		}
		forest.append(dt, result.Weight)
		if t.Monitor != nil {
			t.Monitor(RoundRecord{
				Round:              round,
				Weight:             result.Weight,
				BoostWeight:        result.BoostWeight,
				ErrorFraction:      result.ErrorFraction,
				NodesBeforePruning: nodesBeforePruning,
				Nodes:              nodes,
			})
		}
	}
	return forest, nil
}
