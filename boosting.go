package canopy

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/pbanos/canopy/event"
)

// zeroErrorBoostWeight is the sentinel boost weight applied when a
// round misclassifies no weight at all, where (1-err)/err diverges.
const zeroErrorBoostWeight = 1000.0

/*
BoostResult gathers what a boosting round produced: the scalar round
weight recorded with the tree for weighted aggregation, and the raw
boost weight and weighted error fraction surfaced as diagnostics. For
strategies that carry no confidence signal the diagnostics are 1 and 0.
*/
type BoostResult struct {
	Weight        float64
	BoostWeight   float64
	ErrorFraction float64
}

/*
Booster is a boosting strategy: it consumes the current event sample
and the round's freshly built tree, mutates the event weights in place
and returns the scalar round weight for the tree.

The round parameter is the index of the round in the training sequence;
strategies that resample randomly seed their randomness with it, so the
same round index reproduces the same resampling.
*/
type Booster interface {
	Boost(s *event.Sample, t Tree, round int) (BoostResult, error)
}

type adaBoost struct {
	useYesNoLeaf bool
}

type bagging struct{}

/*
NewBooster takes a boosting strategy name and the leaf-scoring mode
flag and returns the Booster the name identifies or an error if the
name does not identify any strategy. Names are matched
case-insensitively; the known ones are AdaBoost and Bagging.
*/
func NewBooster(name string, useYesNoLeaf bool) (Booster, error) {
	switch strings.ToLower(name) {
	case "adaboost":
		return NewAdaBoost(useYesNoLeaf), nil
	case "bagging":
		return NewBagging(), nil
	}
	return nil, fmt.Errorf("unknown boosting strategy %q", name)
}

/*
NewAdaBoost takes a leaf-scoring mode flag and returns the AdaBoost
strategy: events the round's tree misclassifies have their weight
multiplied by (1-err)/err, with err the weighted misclassified
fraction, and all weights are then rescaled so the total sample weight
is conserved across the round. The returned round weight is the natural
logarithm of the boost weight.
*/
func NewAdaBoost(useYesNoLeaf bool) Booster {
	return &adaBoost{useYesNoLeaf}
}

/*
NewBagging returns the Bagging strategy: every event gets a fresh
uniform random weight drawn from a generator seeded with the round
index, and all weights are then rescaled so their total equals the
event count. The returned round weight is the constant 1.
*/
func NewBagging() Booster {
	return bagging{}
}

func (ab *adaBoost) Boost(s *event.Sample, t Tree, round int) (BoostResult, error) {
	events := s.Events()
	var sumw, sumwfalse float64
	correct := make([]bool, len(events))
	for i, e := range events {
		signalType := t.Evaluate(e, ab.useYesNoLeaf) > 0.5
		sumw += e.Weight()
		correct[i] = signalType == e.Signal()
		if !correct[i] {
			sumwfalse += e.Weight()
		}
	}
	if sumw <= 0 {
		return BoostResult{}, fmt.Errorf("boosting round %d: sample has no weight", round)
	}
	err := sumwfalse / sumw

	// No guard against err >= 0.5: a worse-than-random tree gets a
	// boost weight below 1 and a negative round weight, and downstream
	// aggregation tolerates it.
	boostWeight := zeroErrorBoostWeight
	if err > 0 {
		boostWeight = (1 - err) / err
	}

	var newSumw float64
	for i, e := range events {
		if !correct[i] {
			e.SetWeight(e.Weight() * boostWeight)
		}
		newSumw += e.Weight()
	}
	for _, e := range events {
		e.SetWeight(e.Weight() * sumw / newSumw)
	}
	return BoostResult{
		Weight:        math.Log(boostWeight),
		BoostWeight:   boostWeight,
		ErrorFraction: err,
	}, nil
}

func (bagging) Boost(s *event.Sample, t Tree, round int) (BoostResult, error) {
	events := s.Events()
	if len(events) == 0 {
		return BoostResult{}, fmt.Errorf("boosting round %d: sample has no events", round)
	}
	r := rand.New(rand.NewSource(int64(round)))
	var newSumw float64
	for _, e := range events {
		e.SetWeight(r.Float64())
		newSumw += e.Weight()
	}
	for _, e := range events {
		e.SetWeight(e.Weight() * float64(len(events)) / newSumw)
	}
	return BoostResult{Weight: 1, BoostWeight: 1, ErrorFraction: 0}, nil
}
