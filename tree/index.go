package tree

import (
	"maps"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

// Index is an arena of nodes with parent group key to ordered children
// mapping. Index is never modified after it was built, so it is safe for
// concurrent use without locking.
type Index struct {
	nodes  []Node
	byID   map[string]int
	groups map[string][]int
	genID  uuid.UUID
}

// Group is a read only view of ordered children of a single group key.
type Group struct {
	idx     *Index
	handles []int
}

// Len returns number of children in the group.
func (g Group) Len() int {
	return len(g.handles)
}

// At returns copy of i-th child.
func (g Group) At(i int) Node {
	return g.idx.node(g.handles[i])
}

// Slice returns copies of children in [start, end) clipped to group bounds.
func (g Group) Slice(start, end int) []Node {
	start, end = max(start, 0), min(end, len(g.handles))
	if start >= end {
		return []Node{}
	}
	out := make([]Node, 0, end-start)
	for _, h := range g.handles[start:end] {
		out = append(out, g.idx.node(h))
	}
	return out
}

// node returns a copy of stored node so callers could not change index
// through shared attribute maps.
func (idx *Index) node(h int) Node {
	n := idx.nodes[h]
	if n.Attrs != nil {
		n.Attrs = maps.Clone(n.Attrs)
	}
	return n
}

// Group returns children of the group key. Second value is false when key
// has no entry: node does not exist or it is a leaf.
func (idx *Index) Group(key string) (Group, bool) {
	handles, ok := idx.groups[key]
	if !ok {
		return Group{}, false
	}
	return Group{idx: idx, handles: handles}, true
}

// Children returns copies of all children of the group key.
func (idx *Index) Children(key string) ([]Node, bool) {
	g, ok := idx.Group(key)
	if !ok {
		return nil, false
	}
	return g.Slice(0, g.Len()), true
}

// ChildCount returns number of children of the group key, 0 for leaves and
// unknown keys.
func (idx *Index) ChildCount(key string) int {
	return len(idx.groups[key])
}

// Node looks up node by its id.
func (idx *Index) Node(id string) (Node, bool) {
	h, ok := idx.byID[id]
	if !ok {
		return Node{}, false
	}
	return idx.node(h), true
}

// Len returns total number of nodes.
func (idx *Index) Len() int {
	return len(idx.nodes)
}

// GenerationID uniquely identifies this particular index instance.
func (idx *Index) GenerationID() uuid.UUID {
	return idx.genID
}

// Groups returns all group keys in natural order with RootKey first.
func (idx *Index) Groups() []string {
	keys := slices.Collect(maps.Keys(idx.groups))
	sort.Sort(natural.StringSlice(keys))
	if i := slices.Index(keys, RootKey); i > 0 {
		keys = append(append([]string{RootKey}, keys[:i]...), keys[i+1:]...)
	}
	return keys
}

// WalkFunc is called for every node visited by Walk. Returning false from it
// skips node's descendants.
type WalkFunc func(n Node) bool

// Walk visits nodes depth first in index order starting with roots. Explicit
// stack is used, so depth of the tree is not limited by goroutine stack.
func (idx *Index) Walk(fn WalkFunc) {
	roots := idx.groups[RootKey]
	stack := make([]int, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := idx.nodes[h]
		if !fn(idx.node(h)) {
			continue
		}
		children := idx.groups[n.ID]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Stats describes the shape of the index.
type Stats struct {
	GenerationID string `json:"generationId"`
	Nodes        int    `json:"nodes"`
	Groups       int    `json:"groups"`
	Leaves       int    `json:"leaves"`
	Roots        int    `json:"roots"`
	MaxDepth     int    `json:"maxDepth"`
	MaxFanOut    int    `json:"maxFanOut"`
}

func (idx *Index) Stats() Stats {
	st := Stats{
		GenerationID: idx.genID.String(),
		Nodes:        len(idx.nodes),
		Groups:       len(idx.groups),
		Roots:        len(idx.groups[RootKey]),
	}
	for _, n := range idx.nodes {
		if n.IsLeaf {
			st.Leaves++
		}
		st.MaxDepth = max(st.MaxDepth, n.Depth)
	}
	for key, children := range idx.groups {
		if key == RootKey {
			continue
		}
		st.MaxFanOut = max(st.MaxFanOut, len(children))
	}
	return st
}
