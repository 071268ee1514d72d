/*
Package separation provides the impurity criteria that guide the choice
of node splits when growing decision trees.

A criterion maps the weighted signal and background counts at a node to
a non-negative index: the lower the index, the purer the node. The set
of criteria is closed and selected by name from configuration.
*/
package separation

import (
	"fmt"
	"math"
	"strings"
)

/*
Criterion is an impurity index over the weighted signal and background
counts at a node.

Its Index method takes the weighted signal count and the weighted
background count and returns the impurity of the node: lower values
mean purer nodes. The sign convention of every criterion in this
package makes "lower is better" hold for the shared comparison code in
the tree-growing algorithm.
*/
type Criterion interface {
	Name() string
	Index(signal, background float64) float64
}

type misclassificationError struct{}
type giniIndex struct{}
type crossEntropy struct{}
type signalOverSqrtSPlusB struct{}

/*
New takes a criterion name and returns the Criterion it identifies or
an error if the name does not identify any criterion. Names are matched
case-insensitively; the known ones are MisclassificationError,
GiniIndex, CrossEntropy and SignalOverSqrtSPlusB, the last one also
under its traditional SDivSqrtSPlusB spelling.
*/
func New(name string) (Criterion, error) {
	switch strings.ToLower(name) {
	case "misclassificationerror":
		return misclassificationError{}, nil
	case "giniindex":
		return giniIndex{}, nil
	case "crossentropy":
		return crossEntropy{}, nil
	case "signaloversqrtsplusb", "sdivsqrtsplusb":
		return signalOverSqrtSPlusB{}, nil
	}
	return nil, fmt.Errorf("unknown separation criterion %q", name)
}

/*
NewMisclassificationError returns the criterion 1 - max(S,B)/(S+B)
*/
func NewMisclassificationError() Criterion {
	return misclassificationError{}
}

/*
NewGiniIndex returns the criterion 2pq with p = S/(S+B) and q = 1-p
*/
func NewGiniIndex() Criterion {
	return giniIndex{}
}

/*
NewCrossEntropy returns the criterion -p·ln(p) - q·ln(q) with
p = S/(S+B) and q = 1-p. A zero-probability term contributes 0.
*/
func NewCrossEntropy() Criterion {
	return crossEntropy{}
}

/*
NewSignalOverSqrtSPlusB returns the criterion -S/sqrt(S+B). It is
negative where the others are positive, which keeps the purest
candidate the one with the lowest index.
*/
func NewSignalOverSqrtSPlusB() Criterion {
	return signalOverSqrtSPlusB{}
}

func (misclassificationError) Name() string {
	return "MisclassificationError"
}

func (misclassificationError) Index(signal, background float64) float64 {
	total := signal + background
	if total <= 0 {
		return 0
	}
	return 1 - math.Max(signal, background)/total
}

func (giniIndex) Name() string {
	return "GiniIndex"
}

func (giniIndex) Index(signal, background float64) float64 {
	total := signal + background
	if total <= 0 {
		return 0
	}
	return 2 * (signal / total) * (background / total)
}

func (crossEntropy) Name() string {
	return "CrossEntropy"
}

func (crossEntropy) Index(signal, background float64) float64 {
	total := signal + background
	if total <= 0 {
		return 0
	}
	var result float64
	for _, p := range []float64{signal / total, background / total} {
		if p > 0 {
			result -= p * math.Log(p)
		}
	}
	return result
}

func (signalOverSqrtSPlusB) Name() string {
	return "SignalOverSqrtSPlusB"
}

func (signalOverSqrtSPlusB) Index(signal, background float64) float64 {
	total := signal + background
	if total <= 0 {
		return 0
	}
	return -signal / math.Sqrt(total)
}
