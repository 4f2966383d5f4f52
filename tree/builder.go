package tree

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder accumulates nodes in insertion order. Insertion order of children
// is the row order used for paging.
type Builder struct {
	nodes  []Node
	byID   map[string]int
	groups map[string][]int
}

func NewBuilder() *Builder {
	return &Builder{
		byID:   make(map[string]int),
		groups: make(map[string][]int),
	}
}

// Len returns number of nodes added so far.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// AddRoot adds top-level node.
func (b *Builder) AddRoot(n Node) error {
	n.ParentID = ""
	n.Depth = 0
	_, err := b.add(RootKey, n)
	return err
}

// AddChild adds node as the last child of parent, node depth is derived from
// the parent.
func (b *Builder) AddChild(parentID string, n Node) error {
	ph, ok := b.byID[parentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParent, parentID)
	}
	n.ParentID = parentID
	n.Depth = b.nodes[ph].Depth + 1
	_, err := b.add(parentID, n)
	return err
}

func (b *Builder) add(key string, n Node) (int, error) {
	if len(n.ID) == 0 || n.ID == RootKey {
		return 0, fmt.Errorf("%w: id %q is not allowed", ErrInvalidNode, n.ID)
	}
	if _, exists := b.byID[n.ID]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}
	h := len(b.nodes)
	b.nodes = append(b.nodes, n)
	b.byID[n.ID] = h
	b.groups[key] = append(b.groups[key], h)
	return h, nil
}

// Build finalizes the index. Leaf flag of every node is recomputed: node is
// a leaf if and only if nothing was added under it. Builder must not be used
// after Build.
func (b *Builder) Build() (*Index, error) {
	for h := range b.nodes {
		_, parent := b.groups[b.nodes[h].ID]
		b.nodes[h].IsLeaf = !parent
	}
	if _, ok := b.groups[RootKey]; !ok {
		// empty tree still answers requests for root
		b.groups[RootKey] = []int{}
	}

	genID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate index id: %w", err)
	}

	idx := &Index{
		nodes:  b.nodes,
		byID:   b.byID,
		groups: b.groups,
		genID:  genID,
	}
	b.nodes, b.byID, b.groups = nil, nil, nil
	return idx, nil
}
