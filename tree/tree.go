/*
Package tree grows the binary decision trees canopy ensembles are made
of: weighted events are partitioned recursively on the threshold, among
a fixed grid of candidates per variable, that improves the separation
criterion the most, until nodes run out of events or become pure.
*/
package tree

import (
	"context"
	"fmt"
	"math"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/separation"
)

/*
Node is a node of the tree
*/
type Node struct {
	// The index of the variable the node splits on, or -1 for leaves
	SplitVar int
	// The threshold of the split: events with a greater value for the
	// split variable continue on the right subtree, the rest on the
	// left one
	SplitVal float64
	// The weighted separation gain the split achieved when the tree
	// was grown
	Gain float64
	// The weighted signal and background counts of the training events
	// that reached the node
	Signal     float64
	Background float64
	// The subtrees under the node, both nil for leaves
	Left  *Node
	Right *Node
}

/*
Leaf returns true if the node has no subtrees under it.
*/
func (n *Node) Leaf() bool {
	return n.Left == nil && n.Right == nil
}

/*
Purity returns the signal fraction of the node: the weighted signal
count relative to the total weighted count of the node.
*/
func (n *Node) Purity() float64 {
	total := n.Signal + n.Background
	if total == 0 {
		return 0
	}
	return n.Signal / total
}

/*
SignalType returns true if the majority of the weight at the node is
signal.
*/
func (n *Node) SignalType() bool {
	return n.Signal >= n.Background
}

/*
Tree is a binary decision tree over events with a fixed number of input
variables. It is immutable once built and pruned within a training
round.
*/
type Tree struct {
	Root      *Node
	Variables int
}

/*
Builder grows trees from weighted events. It implements
canopy.TreeBuilder.
*/
type Builder struct{}

/*
Build takes a context, a slice of weighted events, a separation
criterion, the minimum number of events per node and the number of
candidate threshold positions per variable and grows a tree from them.
Node expansion stops when a node holds nodeMinEvents events or fewer,
when it is purely signal or background, or when no candidate threshold
improves the criterion. An error is returned if the events or the
parameters do not allow growing a tree or the context ends before the
tree is complete.
*/
func (b Builder) Build(ctx context.Context, events []*event.Event, criterion separation.Criterion, nodeMinEvents, cuts int) (canopy.Tree, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("growing tree: no events")
	}
	if criterion == nil {
		return nil, fmt.Errorf("growing tree: no separation criterion")
	}
	if nodeMinEvents < 1 {
		return nil, fmt.Errorf("growing tree: invalid minimum node size %d", nodeMinEvents)
	}
	if cuts < 1 {
		return nil, fmt.Errorf("growing tree: invalid cut count %d", cuts)
	}
	variables := len(events[0].Values())
	root, err := grow(ctx, events, variables, criterion, nodeMinEvents, cuts)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	return &Tree{Root: root, Variables: variables}, nil
}

func grow(ctx context.Context, events []*event.Event, variables int, criterion separation.Criterion, nodeMinEvents, cuts int) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := &Node{SplitVar: -1}
	for _, e := range events {
		if e.Signal() {
			n.Signal += e.Weight()
		} else {
			n.Background += e.Weight()
		}
	}
	if len(events) <= nodeMinEvents || n.Signal == 0 || n.Background == 0 {
		return n, nil
	}
	splitVar, splitVal, gain := bestSplit(events, n, variables, criterion, cuts)
	if splitVar < 0 {
		return n, nil
	}
	var left, right []*event.Event
	for _, e := range events {
		if e.Value(splitVar) > splitVal {
			right = append(right, e)
		} else {
			left = append(left, e)
		}
	}
	n.SplitVar, n.SplitVal, n.Gain = splitVar, splitVal, gain
	var err error
	n.Left, err = grow(ctx, left, variables, criterion, nodeMinEvents, cuts)
	if err != nil {
		return nil, err
	}
	n.Right, err = grow(ctx, right, variables, criterion, nodeMinEvents, cuts)
	if err != nil {
		return nil, err
	}
	return n, nil
}

/*
bestSplit searches, for every variable, cuts equally spaced thresholds
between the variable's minimum and maximum over the node's events, and
returns the variable, threshold and weighted separation gain of the
candidate improving the criterion the most, or a -1 variable if no
candidate improves it. The gain of a candidate is the magnitude of the
change between the weighted impurity cost of the node and the weighted
impurity costs of the two sides it produces, so criteria with an
inverted sign rank candidates the same way; candidates leaving either
side empty are discarded.
*/
func bestSplit(events []*event.Event, n *Node, variables int, criterion separation.Criterion, cuts int) (int, float64, float64) {
	parentCost := criterion.Index(n.Signal, n.Background) * (n.Signal + n.Background)
	bestVar, bestVal, bestGain := -1, 0.0, 0.0
	for v := 0; v < variables; v++ {
		min, max := math.Inf(1), math.Inf(-1)
		for _, e := range events {
			value := e.Value(v)
			if value < min {
				min = value
			}
			if value > max {
				max = value
			}
		}
		if !(max > min) {
			continue
		}
		step := (max - min) / float64(cuts+1)
		for c := 1; c <= cuts; c++ {
			threshold := min + float64(c)*step
			var ls, lb, rs, rb float64
			var leftCount, rightCount int
			for _, e := range events {
				if e.Value(v) > threshold {
					rightCount++
					if e.Signal() {
						rs += e.Weight()
					} else {
						rb += e.Weight()
					}
				} else {
					leftCount++
					if e.Signal() {
						ls += e.Weight()
					} else {
						lb += e.Weight()
					}
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}
			gain := math.Abs(parentCost - criterion.Index(ls, lb)*(ls+lb) - criterion.Index(rs, rb)*(rs+rb))
			if gain > bestGain {
				bestVar, bestVal, bestGain = v, threshold, gain
			}
		}
	}
	return bestVar, bestVal, bestGain
}

/*
CountNodes returns the number of nodes of the tree, leaves included.
*/
func (t *Tree) CountNodes() int {
	return countNodes(t.Root)
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.Left) + countNodes(n.Right)
}

/*
Evaluate takes an event and a leaf-scoring mode flag and descends the
tree with the event until a leaf is reached. With useYesNoLeaf set the
returned score is 1 if the leaf's majority class is signal and 0
otherwise; without it, it is the leaf's signal fraction. Evaluate is
read-only and safe for concurrent use.
*/
func (t *Tree) Evaluate(e *event.Event, useYesNoLeaf bool) float64 {
	n := t.Root
	for !n.Leaf() {
		if e.Value(n.SplitVar) > n.SplitVal {
			n = n.Right
		} else {
			n = n.Left
		}
	}
	if useYesNoLeaf {
		if n.SignalType() {
			return 1
		}
		return 0
	}
	return n.Purity()
}

/*
ImportanceVector returns the relative importance of every input
variable for the tree: the separation gain of every surviving split is
attributed to the variable it cuts on and the resulting vector is
normalized to sum 1. A tree with no splits attributes 0 to every
variable.
*/
func (t *Tree) ImportanceVector() []float64 {
	importance := make([]float64, t.Variables)
	var sum float64
	t.Root.walk(func(n *Node) {
		if !n.Leaf() {
			importance[n.SplitVar] += n.Gain
			sum += n.Gain
		}
	})
	if sum > 0 {
		for i := range importance {
			importance[i] /= sum
		}
	}
	return importance
}

func (n *Node) walk(f func(*Node)) {
	if n == nil {
		return
	}
	f(n)
	n.Left.walk(f)
	n.Right.walk(f)
}
