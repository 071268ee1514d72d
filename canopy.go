/*
Package canopy grows boosted and bagged ensembles of binary decision
trees over weighted event samples, to classify events as signal or
background.

Training runs a fixed number of strictly sequential rounds. Each round
builds a tree from the current event weights, prunes it, lets the
boosting strategy reweight the sample in place and records the tree
with the scalar round weight the strategy returned. The resulting
forest scores events as the plain or weight-averaged vote of its trees
and can be serialized and restored entry by entry in training order.
*/
package canopy

import (
	"context"
	"fmt"

	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/separation"
)

/*
Tree is the contract a decision tree fulfils towards the ensemble: it
can be pruned in place with a given strength, report its node count,
evaluate an event to a score in [0,1] and attribute its split gains to
the input variables.

Evaluate takes an event and a leaf-scoring mode flag: with useYesNoLeaf
set, leaves answer with the hard class of their majority (1 for signal,
0 for background); without it they answer with their signal fraction.

ImportanceVector returns one non-negative scalar per input variable, in
the same order the variables have in the event feature vectors.
*/
type Tree interface {
	Prune(strength float64)
	CountNodes() int
	Evaluate(e *event.Event, useYesNoLeaf bool) float64
	ImportanceVector() []float64
}

/*
TreeBuilder is the contract of the tree-growing collaborator: it builds
a new tree from the given weighted events, guiding its split search
with the given separation criterion, stopping node expansion at
nodeMinEvents events in a node or at a purity extreme, and trying cuts
candidate threshold positions per variable per node.
*/
type TreeBuilder interface {
	Build(ctx context.Context, events []*event.Event, criterion separation.Criterion, nodeMinEvents, cuts int) (Tree, error)
}

/*
TreeEncodeDecoder is an interface for objects that allow encoding trees
into slices of bytes and decoding them back to trees. The encoded
representation is owned by the implementation and opaque to the forest
serialization, except that it must be valid JSON so that it can be
embedded in the serialized forest stream.
*/
type TreeEncodeDecoder interface {

	// Encode receives a Tree and returns a slice of bytes
	// with the tree encoded or an error if the encoding
	// could not be performed for some reason.
	Encode(Tree) ([]byte, error)

	// Decode receives a slice of bytes and returns a Tree
	// decoded from it or an error if the decoding could
	// not be performed for some reason.
	Decode([]byte) (Tree, error)
}

/*
Config gathers the training configuration surface.

Boosting and Separation select their strategy and criterion by name,
case-insensitively; unknown names are configuration errors reported by
New before any training work happens.
*/
type Config struct {
	// TreeCount is the number of trees to grow. Must be at least 1.
	TreeCount int
	// Boosting is the boosting strategy name: AdaBoost or Bagging.
	Boosting string
	// Separation is the separation criterion name applied in node
	// splitting: MisclassificationError, GiniIndex, CrossEntropy or
	// SignalOverSqrtSPlusB.
	Separation string
	// NodeMinEvents is the minimum number of events in a node below
	// which node expansion stops.
	NodeMinEvents int
	// CutCount is the number of candidate threshold positions searched
	// per variable per node.
	CutCount int
	// BackgroundScale, when greater than 0, scales the initial weight
	// of every background event before training begins, simulating an
	// altered class prior. Any other value switches the scaling off.
	BackgroundScale float64
	// PruneStrength adjusts the amount of cost-complexity pruning
	// applied to each tree after it is built. 0 disables pruning.
	PruneStrength float64
	// UseYesNoLeaf makes leaves answer with their majority class
	// instead of their signal fraction.
	UseYesNoLeaf bool
	// UseWeightedTrees makes the forest average tree scores weighted
	// by their round weights instead of plainly.
	UseWeightedTrees bool
}

/*
DefaultConfig returns a Config with the default training settings: 200
AdaBoost-boosted trees split on the GiniIndex criterion, stopping at
400 events per node, searching 20 cuts per variable, pruning with
strength 10, with hard-class leaves and weighted aggregation.
*/
func DefaultConfig() Config {
	return Config{
		TreeCount:        200,
		Boosting:         "AdaBoost",
		Separation:       "GiniIndex",
		NodeMinEvents:    400,
		CutCount:         20,
		BackgroundScale:  -1,
		PruneStrength:    10,
		UseYesNoLeaf:     true,
		UseWeightedTrees: true,
	}
}

/*
New takes a tree builder and a config and returns a trainer set up with
them, or an error if the config is invalid: a non-positive tree count,
an unknown separation criterion name or an unknown boosting strategy
name. No training work happens until Train is called on the returned
trainer.
*/
func New(builder TreeBuilder, config Config) (*Trainer, error) {
	if builder == nil {
		return nil, fmt.Errorf("no tree builder given")
	}
	if config.TreeCount < 1 {
		return nil, fmt.Errorf("invalid tree count %d: must be at least 1", config.TreeCount)
	}
	criterion, err := separation.New(config.Separation)
	if err != nil {
		return nil, err
	}
	booster, err := NewBooster(config.Boosting, config.UseYesNoLeaf)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		builder:          builder,
		booster:          booster,
		criterion:        criterion,
		treeCount:        config.TreeCount,
		nodeMinEvents:    config.NodeMinEvents,
		cutCount:         config.CutCount,
		backgroundScale:  config.BackgroundScale,
		pruneStrength:    config.PruneStrength,
		useYesNoLeaf:     config.UseYesNoLeaf,
		useWeightedTrees: config.UseWeightedTrees,
	}, nil
}
