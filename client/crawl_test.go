package client

import (
	"context"
	"testing"
	"time"

	"treegrid/common"
	"treegrid/tree"
	"treegrid/window"
)

func generated(t *testing.T, total int) *tree.Index {
	t.Helper()

	idx, err := tree.Generate(tree.GeneratorConfig{
		MaxDepth:         5,
		ChildProbability: 0.5,
		TotalNodes:       total,
		Seed:             7,
		MinChildren:      tree.DefaultMinChildren,
		ChildSpread:      tree.DefaultChildSpread,
	})
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func checkCrawl(t *testing.T, idx *tree.Index, model *MemoryModel, rpt Report) {
	t.Helper()

	if rpt.Rows != idx.Len() {
		t.Errorf("crawled %d rows, index has %d", rpt.Rows, idx.Len())
	}
	if want := len(idx.Groups()); rpt.Routes != want {
		t.Errorf("crawled %d routes, index has %d groups", rpt.Routes, want)
	}
	for _, rc := range model.Routes() {
		key := tree.RootKey
		if len(rc.Route) > 0 {
			key = rc.Route[len(rc.Route)-1]
		}
		if want := idx.ChildCount(key); rc.RowCount != want {
			t.Errorf("route %s row count %d, want %d", RouteKey(rc.Route), rc.RowCount, want)
		}
	}
	if f := model.Failures(); len(f) != 0 {
		t.Errorf("unexpected failures: %+v", f)
	}
}

func TestCrawler_Run(t *testing.T) {
	tests := []struct {
		name string
		opts GridOptions
		fold bool
	}{
		{"defaults", GridOptions{}, true},
		{"small blocks", GridOptions{CacheBlockSize: 7, MaxConcurrentRequests: 2}, true},
		{"debounced", GridOptions{CacheBlockSize: 20, MaxConcurrentRequests: 3, BlockLoadDebounce: time.Millisecond}, true},
		{"no folding", GridOptions{CacheBlockSize: 20, MaxConcurrentRequests: 2}, false},
	}
	idx := generated(t, 500)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []func(*window.Resolver){}
			if !tt.fold {
				opts = append(opts, window.WithFoldMode(common.FoldModeNone))
			}
			src := NewLocalSource(window.NewResolver(idx, opts...))
			model := NewMemoryModel()
			c := NewCrawler(NewAdapter(src, nil, WithGridOptions(tt.opts)), model, nil, -1)

			rpt, err := c.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			checkCrawl(t, idx, model, rpt)

			if !tt.fold && model.Stats().Applies != 0 {
				t.Error("folded rows applied with folding disabled")
			}
			if tt.fold && model.Stats().Applies == 0 {
				t.Error("no folded rows applied")
			}
		})
	}
}

// limited counts routes and rows reachable when groups deeper than depth are
// not expanded.
func limited(idx *tree.Index, key string, level, depth int) (routes, rows int) {
	children, _ := idx.Children(key)
	routes, rows = 1, len(children)
	if level >= depth {
		return routes, rows
	}
	for _, n := range children {
		if n.IsLeaf {
			continue
		}
		r, c := limited(idx, n.ID, level+1, depth)
		routes += r
		rows += c
	}
	return routes, rows
}

func TestCrawler_DepthLimit(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		fold  bool
	}{
		{"top level", 0, false},
		{"top level folded", 0, true},
		{"two levels", 1, false},
		{"two levels folded", 1, true},
		{"three levels folded", 2, true},
	}
	idx := generated(t, 300)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []func(*window.Resolver){}
			if !tt.fold {
				opts = append(opts, window.WithFoldMode(common.FoldModeNone))
			}
			src := NewLocalSource(window.NewResolver(idx, opts...))
			model := NewMemoryModel()
			a := NewAdapter(src, nil, WithGridOptions(GridOptions{CacheBlockSize: 5, MaxConcurrentRequests: 2}))

			rpt, err := NewCrawler(a, model, nil, tt.depth).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			routes, rows := limited(idx, tree.RootKey, 0, tt.depth)
			if rpt.Routes != routes {
				t.Errorf("crawled %d routes, want %d", rpt.Routes, routes)
			}
			if rpt.Rows != rows {
				t.Errorf("crawled %d rows, want %d", rpt.Rows, rows)
			}
		})
	}
}

func TestCrawler_Cancelled(t *testing.T) {
	idx := generated(t, 100)
	src := NewLocalSource(window.NewResolver(idx))
	c := NewCrawler(NewAdapter(src, nil), NewMemoryModel(), nil, -1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Run(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
