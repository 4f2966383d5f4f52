package tree

// RootKey is the group key under which top-level nodes are indexed.
const RootKey = "root"

// Node is a single tree element. Label and Attrs are display payload and
// have no meaning for paging.
type Node struct {
	ID       string            `json:"id"`
	ParentID string            `json:"parentId,omitempty"`
	Label    string            `json:"label"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	IsLeaf   bool              `json:"isLeaf"`
	Depth    int               `json:"depth"`
}

// IsRoot reports if node is a top-level node.
func (n Node) IsRoot() bool {
	return len(n.ParentID) == 0
}

// GroupKey returns key under which node's siblings (including node itself)
// are indexed.
func (n Node) GroupKey() string {
	if n.IsRoot() {
		return RootKey
	}
	return n.ParentID
}
