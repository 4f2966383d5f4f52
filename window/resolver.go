// Package window answers windowed row requests against immutable tree index.
package window

import (
	"context"
	"fmt"

	"treegrid/common"
	"treegrid/tree"
)

// Request asks for rows [StartRow, EndRow) of children of the last node in
// GroupPath, empty path means top-level nodes.
type Request struct {
	GroupPath []string `json:"groupPath"`
	StartRow  int      `json:"startRow"`
	EndRow    int      `json:"endRow"`
}

// Key returns group key request is addressed to.
func (r Request) Key() string {
	if len(r.GroupPath) == 0 {
		return tree.RootKey
	}
	return r.GroupPath[len(r.GroupPath)-1]
}

func (r Request) validate() error {
	if r.StartRow < 0 || r.StartRow > r.EndRow {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, r.StartRow, r.EndRow)
	}
	return nil
}

// Response carries requested rows and optionally window of the first row's
// own children (fold).
type Response struct {
	Rows     []tree.Node `json:"rows"`
	RowCount int         `json:"rowCount"`
	// StartRow is the position of Rows[0] among all children.
	StartRow       int       `json:"startRow"`
	FoldedChild    *Response `json:"foldedChild,omitempty"`
	FoldedChildKey string    `json:"foldedChildKey,omitempty"`
}

// Resolver has no mutable state and is safe for concurrent use.
type Resolver struct {
	idx         *tree.Index
	fold        common.FoldMode
	verifyPaths bool
}

// WithFoldMode selects fold behavior, default is common.FoldModeFirstRow.
func WithFoldMode(mode common.FoldMode) func(*Resolver) {
	return func(r *Resolver) {
		r.fold = mode
	}
}

// WithPathVerification makes resolver reject group paths which are not
// chains of parent and child ids.
func WithPathVerification(verify bool) func(*Resolver) {
	return func(r *Resolver) {
		r.verifyPaths = verify
	}
}

func NewResolver(idx *tree.Index, options ...func(*Resolver)) *Resolver {
	r := &Resolver{idx: idx, fold: common.FoldModeFirstRow}
	for _, setOpt := range options {
		setOpt(r)
	}
	return r
}

// Index returns index resolver works with.
func (r *Resolver) Index() *tree.Index {
	return r.idx
}

// Resolve returns requested slice of children. When the slice is shorter
// than requested and is not empty, the same [StartRow, EndRow) window of the
// first row's children is attached as FoldedChild. Note that folded window is
// not a continuation of the parent slice.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	key := req.Key()
	group, ok := r.idx.Group(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, key)
	}
	if r.verifyPaths {
		if err := r.checkPath(req.GroupPath); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		Rows:     group.Slice(req.StartRow, req.EndRow),
		RowCount: group.Len(),
		StartRow: req.StartRow,
	}

	remaining := (req.EndRow - req.StartRow) - len(resp.Rows)
	if remaining <= 0 || len(resp.Rows) == 0 || !r.fold.Enabled() {
		return resp, nil
	}

	anchor := resp.Rows[0].ID
	if child, ok := r.idx.Group(anchor); ok {
		if rows := child.Slice(req.StartRow, req.EndRow); len(rows) > 0 {
			resp.FoldedChild = &Response{
				Rows:     rows,
				RowCount: child.Len(),
				StartRow: req.StartRow,
			}
			resp.FoldedChildKey = anchor
		}
	}
	return resp, nil
}

// checkPath makes sure every path element is a child of the previous one and
// the first element is a top-level node.
func (r *Resolver) checkPath(path []string) error {
	parent := ""
	for i, id := range path {
		if i == 0 && id == tree.RootKey {
			continue
		}
		n, ok := r.idx.Node(id)
		if !ok || n.ParentID != parent {
			return fmt.Errorf("%w: path %v is broken at %q", ErrUnknownGroup, path, id)
		}
		parent = id
	}
	return nil
}
