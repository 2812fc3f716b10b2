// Package unionfind implements the disjoint-set unifier spec.md §4.1
// (C2) describes: union-find with path compression and union-by-size,
// where merging two subsets invokes a caller-supplied callback before any
// structural pointer is updated, so the caller can migrate metadata off
// the absorbed representative (spec.md's TypeConstraints._merge is the
// prototypical caller).
//
// The original (alive/typing.py's util.disjoint.DisjointSubsets) was
// filtered out of original_source/ (outside the code+build-config cap);
// this is written from its call-site contract in typing.py (rep, unify,
// subset, reps, add_key), not a line port.
package unionfind

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Key is anything usable as a map key. Ordered (not just comparable) is
// required so Reps and Subset can return results in a sorted, therefore
// deterministic, order — Go map iteration order is randomized, but the
// refinement checker's output must not be (spec.md §6).
type Key interface {
	constraints.Ordered
}

// OnMerge is invoked exactly once per unify that actually merges two
// distinct subsets, with (survivor, absorbed) in that order, before any
// internal pointer is repointed — giving the caller a chance to move
// metadata keyed by the absorbed representative onto the survivor.
type OnMerge[K Key] func(survivor, absorbed K)

type node[K Key] struct {
	parent K
	size   int
}

// Unifier is a disjoint-set over keys of type K.
type Unifier[K Key] struct {
	nodes map[K]*node[K]
}

func New[K Key]() *Unifier[K] {
	return &Unifier[K]{nodes: make(map[K]*node[K])}
}

// AddKey adds k as a new singleton subset if it is not already present.
func (u *Unifier[K]) AddKey(k K) {
	if _, ok := u.nodes[k]; !ok {
		u.nodes[k] = &node[K]{parent: k, size: 1}
	}
}

// Rep returns the canonical representative of k's subset, creating a
// singleton subset for k first if it was not already known.
func (u *Unifier[K]) Rep(k K) K {
	n, ok := u.nodes[k]
	if !ok {
		u.AddKey(k)
		return k
	}
	if n.parent == k {
		return k
	}
	root := u.Rep(n.parent)
	n.parent = root // path compression
	return root
}

// Unify merges the subsets containing a and b. If they are already in
// the same subset, onMerge is not called. Otherwise the larger subset
// (by member count) absorbs the smaller one (union-by-size); ties keep
// a's subset as survivor. onMerge, if non-nil, runs with the chosen
// (survivor, absorbed) representatives before parent pointers change.
func (u *Unifier[K]) Unify(a, b K, onMerge OnMerge[K]) {
	ra, rb := u.Rep(a), u.Rep(b)
	if ra == rb {
		return
	}
	na, nb := u.nodes[ra], u.nodes[rb]
	survivor, absorbed := ra, rb
	if nb.size > na.size {
		survivor, absorbed = rb, ra
	}
	if onMerge != nil {
		onMerge(survivor, absorbed)
	}
	sn, an := u.nodes[survivor], u.nodes[absorbed]
	an.parent = survivor
	sn.size += an.size
}

// Subset returns every member of r's subset (r need not itself be a
// representative), sorted ascending for deterministic output.
func (u *Unifier[K]) Subset(r K) []K {
	rep := u.Rep(r)
	var out []K
	for k := range u.nodes {
		if u.Rep(k) == rep {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Reps returns the canonical representative of every subset currently
// tracked, sorted ascending for deterministic output.
func (u *Unifier[K]) Reps() []K {
	seen := make(map[K]bool)
	var out []K
	for k := range u.nodes {
		r := u.Rep(k)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

// SubsetItems groups every tracked key by its representative, useful for
// a single pass that needs both the rep and its full membership (spec.md
// §4.4's "assign tyvars to the new terms"). Each group is sorted
// ascending for deterministic output.
func (u *Unifier[K]) SubsetItems() map[K][]K {
	groups := make(map[K][]K)
	for k := range u.nodes {
		r := u.Rep(k)
		groups[r] = append(groups[r], k)
	}
	for r := range groups {
		slices.Sort(groups[r])
	}
	return groups
}
