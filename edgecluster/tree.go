package edgecluster

import (
	"fmt"
)

// Merge joins two tree nodes. Leaves are numbered 0..N-1 in input order; the
// node created by Merges[k] is numbered N+k.
type Merge struct {
	A, B   int
	Height float64
	Size   int
}

// Tree is the result of agglomerative clustering of N items.
type Tree struct {
	N      int
	Merges []Merge

	// Order lists the leaves left to right as they would be drawn in a
	// dendrogram.
	Order []int
}

// add records a merge, placing a leaf before a cluster and otherwise the
// lower-numbered node first.
func (t *Tree) add(a, b int, height float64, size int) {
	aLeaf, bLeaf := a < t.N, b < t.N
	switch {
	case aLeaf && !bLeaf:
	case !aLeaf && bLeaf:
		a, b = b, a
	case a > b:
		a, b = b, a
	}

	t.Merges = append(t.Merges, Merge{A: a, B: b, Height: height, Size: size})
}

// Root returns the node id of the root.
func (t *Tree) Root() int {
	if t.N <= 1 {
		return 0
	}

	return t.N + len(t.Merges) - 1
}

// IsLeaf reports whether node is a leaf.
func (t *Tree) IsLeaf(node int) bool {
	return node < t.N
}

// Children returns the two children of an internal node.
func (t *Tree) Children(node int) (int, int, error) {
	if node < t.N || node >= t.N+len(t.Merges) {
		return 0, 0, fmt.Errorf("Node %d is not an internal node", node)
	}
	m := t.Merges[node-t.N]

	return m.A, m.B, nil
}

// Height returns the merge height of a node. Leaves have height 0.
func (t *Tree) Height(node int) float64 {
	if node < t.N || node >= t.N+len(t.Merges) {
		return 0
	}

	return t.Merges[node-t.N].Height
}

// Leaves returns the leaves beneath node in drawing order.
func (t *Tree) Leaves(node int) []int {
	out := make([]int, 0)
	stack := []int{node}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur < t.N {
			out = append(out, cur)
			continue
		}

		m := t.Merges[cur-t.N]
		// Push B first so that A is visited first.
		stack = append(stack, m.B, m.A)
	}

	return out
}

func (t *Tree) buildOrder() {
	if t.N == 0 {
		t.Order = []int{}
		return
	}

	t.Order = t.Leaves(t.Root())
}

// Cut assigns each leaf to one of k groups by undoing the last k-1 merges.
// Groups are numbered from 1 in order of their lowest-numbered leaf.
func (t *Tree) Cut(k int) ([]int, error) {
	if k < 1 || k > t.N {
		return nil, fmt.Errorf("Cannot cut %d items into %d groups", t.N, k)
	}

	parent := make([]int, t.N+len(t.Merges))
	for i := range parent {
		parent[i] = i
	}
	for step := 0; step < t.N-k; step++ {
		m := t.Merges[step]
		parent[m.A] = t.N + step
		parent[m.B] = t.N + step
	}

	root := func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	labels := make(map[int]int)
	out := make([]int, t.N)
	for leaf := 0; leaf < t.N; leaf++ {
		r := root(leaf)
		if _, exists := labels[r]; !exists {
			labels[r] = len(labels) + 1
		}
		out[leaf] = labels[r]
	}

	return out, nil
}
