// Package client bridges grid row model and window resolver: it fetches
// row windows and pushes folded child windows directly into the model.
package client

import (
	"context"
	"slices"

	"treegrid/window"
)

// Source answers window requests, locally or over the network.
type Source interface {
	Rows(ctx context.Context, req window.Request) (*window.Response, error)
}

// LocalSource answers requests with in-process resolver.
type LocalSource struct {
	r *window.Resolver
}

func NewLocalSource(r *window.Resolver) *LocalSource {
	return &LocalSource{r: r}
}

func (s *LocalSource) Rows(ctx context.Context, req window.Request) (*window.Response, error) {
	req.GroupPath = slices.Clone(req.GroupPath)
	return s.r.Resolve(ctx, req)
}
