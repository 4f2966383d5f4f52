// Package tree provides immutable in-memory hierarchy indexed by parent group
// key, its builder and synthetic generator.
package tree

import "errors"

// Construction errors
var (
	// ErrInvalidConfig indicates that generator configuration cannot produce a tree.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrInvalidNode indicates that node cannot be added to the tree as is.
	ErrInvalidNode = errors.New("invalid node")

	// ErrDuplicateID indicates that node with the same id already exists.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrUnknownParent indicates that parent of the node being added does not exist.
	ErrUnknownParent = errors.New("unknown parent node")
)
