package client

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"treegrid/window"
)

// DefaultMaxFoldDepth limits number of chained folds applied from a single
// response.
const DefaultMaxFoldDepth = 64

// GridOptions are row model tuning knobs. Adapter carries them for the row
// model and never interprets them itself.
type GridOptions struct {
	CacheBlockSize        int
	MaxBlocksInCache      int
	MaxConcurrentRequests int
	BlockLoadDebounce     time.Duration
}

// Adapter is a grid datasource: it answers row model requests from Source
// and applies any folded child windows to the model directly.
type Adapter struct {
	src          Source
	log          *zap.Logger
	opts         GridOptions
	maxFoldDepth int
}

func WithGridOptions(opts GridOptions) func(*Adapter) {
	return func(a *Adapter) {
		a.opts = opts
	}
}

func WithMaxFoldDepth(depth int) func(*Adapter) {
	return func(a *Adapter) {
		a.maxFoldDepth = depth
	}
}

func NewAdapter(src Source, log *zap.Logger, options ...func(*Adapter)) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{src: src, log: log, maxFoldDepth: DefaultMaxFoldDepth}
	for _, setOpt := range options {
		setOpt(a)
	}
	return a
}

// Options returns grid options adapter was created with.
func (a *Adapter) Options() GridOptions {
	return a.opts
}

// Fetch requests rows for req, hands them to the model as the answer and
// then applies every folded level at its own route. Returned response never
// has FoldedChild set. On failure model is notified and nothing is applied.
func (a *Adapter) Fetch(ctx context.Context, req window.Request, model RowModel) (*window.Response, error) {
	route := slices.Clone(req.GroupPath)
	req.GroupPath = slices.Clone(req.GroupPath)

	resp, err := a.src.Rows(ctx, req)
	if err != nil {
		model.Fail(route, err)
		return nil, err
	}

	fold := resp.FoldedChild
	resp.FoldedChild = nil

	model.Success(Block{Route: route, StartRow: resp.StartRow, Rows: resp.Rows, RowCount: resp.RowCount})
	a.applyFolds(route, resp.FoldedChildKey, fold, model)
	return resp, nil
}

// applyFolds walks chain of folded responses iteratively, every level is
// detached from the next one before model sees it.
func (a *Adapter) applyFolds(route []string, key string, fold *window.Response, model RowModel) {
	for depth := 0; fold != nil; depth++ {
		if depth >= a.maxFoldDepth {
			a.log.Warn("Fold chain is too deep, ignoring the rest", zap.String("route", RouteKey(route)), zap.Int("depth", depth))
			return
		}
		if len(key) == 0 {
			a.log.Warn("Folded rows without key, ignoring", zap.String("route", RouteKey(route)))
			return
		}

		route = append(slices.Clone(route), key)
		next, nextKey := fold.FoldedChild, fold.FoldedChildKey
		fold.FoldedChild = nil

		model.Apply(Block{Route: route, StartRow: fold.StartRow, Rows: fold.Rows, RowCount: fold.RowCount})
		a.log.Debug("Folded rows applied", zap.String("route", RouteKey(route)), zap.Int("start", fold.StartRow), zap.Int("rows", len(fold.Rows)))

		fold, key = next, nextKey
	}
}
