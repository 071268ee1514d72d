package canopy

import (
	"fmt"

	"github.com/pbanos/canopy/event"
)

/*
Entry is one tree of a forest together with the scalar round weight the
boosting strategy assigned to it when it was trained.
*/
type Entry struct {
	Tree   Tree
	Weight float64
}

/*
Forest is an ordered collection of trees with their round weights.
Insertion order is training order: the position of an entry is the
index of the boosting round that produced it, and serialization
preserves it.

A forest is either grown by a trainer, one entry per completed round,
or restored atomically from a serialized stream; either way it is
read-only afterwards and safe to score from concurrent readers.
*/
type Forest struct {
	entries          []Entry
	useYesNoLeaf     bool
	useWeightedTrees bool
}

/*
NewForest takes a leaf-scoring mode flag and an aggregation mode flag
and returns an empty forest set up with them. With useWeightedTrees
set, Score averages tree scores weighted by their round weights;
without it, it averages them plainly.
*/
func NewForest(useYesNoLeaf, useWeightedTrees bool) *Forest {
	return &Forest{useYesNoLeaf: useYesNoLeaf, useWeightedTrees: useWeightedTrees}
}

/*
Entries returns the entries of the forest in training order. The
returned slice is the forest's own storage and must be treated as
read-only.
*/
func (f *Forest) Entries() []Entry {
	return f.entries
}

/*
Count returns the number of trees in the forest.
*/
func (f *Forest) Count() int {
	return len(f.entries)
}

/*
Score takes an event and returns the ensemble score for it: the average
of the per-tree evaluations, weighted by the round weights when the
forest aggregates in weighted mode. An error is returned if the forest
is empty or its round weights sum to zero, as the average is undefined
then.
*/
func (f *Forest) Score(e *event.Event) (float64, error) {
	if len(f.entries) == 0 {
		return 0, fmt.Errorf("scoring event: forest has no trees")
	}
	var score, norm float64
	for _, entry := range f.entries {
		if f.useWeightedTrees {
			score += entry.Weight * entry.Tree.Evaluate(e, f.useYesNoLeaf)
			norm += entry.Weight
		} else {
			score += entry.Tree.Evaluate(e, f.useYesNoLeaf)
			norm++
		}
	}
	if norm == 0 {
		return 0, fmt.Errorf("scoring event: round weights sum to zero")
	}
	return score / norm, nil
}

/*
Importance returns the relative importance of every input variable for
the forest, as the element-wise sum of the per-tree split-gain
attributions normalized so the whole vector sums to 1. An error is
returned if the forest is empty or no tree attributes any gain to any
variable, as the normalization is undefined then.
*/
func (f *Forest) Importance() ([]float64, error) {
	if len(f.entries) == 0 {
		return nil, fmt.Errorf("ranking variables: forest has no trees")
	}
	var importance []float64
	for _, entry := range f.entries {
		treeImportance := entry.Tree.ImportanceVector()
		if importance == nil {
			importance = make([]float64, len(treeImportance))
		}
		if len(treeImportance) != len(importance) {
			return nil, fmt.Errorf("ranking variables: tree reports %d variables, expected %d", len(treeImportance), len(importance))
		}
		for i, v := range treeImportance {
			importance[i] += v
		}
	}
	var sum float64
	for _, v := range importance {
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("ranking variables: no split gain attributed to any variable")
	}
	for i := range importance {
		importance[i] /= sum
	}
	return importance, nil
}

func (f *Forest) append(t Tree, weight float64) {
	f.entries = append(f.entries, Entry{t, weight})
}
