package tree

/*
Prune applies cost-complexity pruning to the tree in place with the
given strength: the split with the smallest separation gain among those
whose children are both leaves is collapsed into a leaf, repeatedly,
while that smallest gain stays below strength percent of the largest
split gain anywhere in the tree. A strength of 0 or less leaves the
tree untouched; strengths of 100 and above can collapse the tree down
to its root.
*/
func (t *Tree) Prune(strength float64) {
	if strength <= 0 || t.Root.Leaf() {
		return
	}
	var maxGain float64
	t.Root.walk(func(n *Node) {
		if n.Gain > maxGain {
			maxGain = n.Gain
		}
	})
	threshold := strength / 100 * maxGain
	for {
		weakest := weakestLink(t.Root)
		if weakest == nil || weakest.Gain >= threshold {
			return
		}
		weakest.Left, weakest.Right = nil, nil
		weakest.SplitVar, weakest.SplitVal, weakest.Gain = -1, 0, 0
	}
}

/*
weakestLink returns the node with the smallest split gain among the
nodes of the subtree whose children are both leaves, or nil if the
subtree is a single leaf.
*/
func weakestLink(n *Node) *Node {
	if n.Leaf() {
		return nil
	}
	if n.Left.Leaf() && n.Right.Leaf() {
		return n
	}
	weakest := weakestLink(n.Left)
	if right := weakestLink(n.Right); right != nil && (weakest == nil || right.Gain < weakest.Gain) {
		weakest = right
	}
	return weakest
}
