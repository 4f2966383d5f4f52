package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"treegrid/window"
)

// DefaultBlockSize is used when grid options do not specify block size.
const DefaultBlockSize = 100

// Report summarizes crawl.
type Report struct {
	Routes   int
	Rows     int
	Requests int64
	// Blocks which were already present thanks to folding.
	Prefilled int64
	Elapsed   time.Duration
}

// Crawler loads the whole tree block by block through the adapter the same
// way the grid would do it with all groups expanded.
type Crawler struct {
	adapter   *Adapter
	sched     *Scheduler
	model     *MemoryModel
	log       *zap.Logger
	blockSize int
	maxDepth  int

	requests  atomic.Int64
	prefilled atomic.Int64
}

// NewCrawler creates crawler, maxDepth < 0 means no depth limit.
func NewCrawler(adapter *Adapter, model *MemoryModel, log *zap.Logger, maxDepth int) *Crawler {
	if log == nil {
		log = zap.NewNop()
	}
	opts := adapter.Options()
	blockSize := opts.CacheBlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Crawler{
		adapter:   adapter,
		sched:     NewScheduler(opts.MaxConcurrentRequests, opts.BlockLoadDebounce),
		model:     model,
		log:       log,
		blockSize: blockSize,
		maxDepth:  maxDepth,
	}
}

// Run crawls starting with top-level rows and verifies that every route
// received exactly as many rows as the server reported.
func (c *Crawler) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.block(gctx, g, []string{}, 0)
	})
	err := g.Wait()
	c.sched.Wait()

	rpt := Report{
		Requests:  c.requests.Load(),
		Prefilled: c.prefilled.Load(),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return rpt, err
	}

	for _, rc := range c.model.Routes() {
		if !c.crawled(rc.Route) {
			// partially prefilled by folds below depth limit
			continue
		}
		rpt.Routes++
		rpt.Rows += rc.Loaded()
		if rc.Loaded() != rc.RowCount {
			err = multierr.Append(err, fmt.Errorf("route %s has %d rows loaded out of %d", RouteKey(rc.Route), rc.Loaded(), rc.RowCount))
		}
	}
	return rpt, err
}

// crawled tells if route is loaded completely by the crawler.
func (c *Crawler) crawled(route []string) bool {
	return c.maxDepth < 0 || len(route) <= c.maxDepth
}

// expands tells if children of rows on route are crawled.
func (c *Crawler) expands(route []string) bool {
	return c.maxDepth < 0 || len(route) < c.maxDepth
}

func (c *Crawler) block(ctx context.Context, g *errgroup.Group, route []string, start int) error {
	end := start + c.blockSize

	if c.model.Covered(route, start, end) {
		c.prefilled.Add(1)
	} else {
		req := window.Request{GroupPath: route, StartRow: start, EndRow: end}
		key := RouteKey(route) + "@" + strconv.Itoa(start)

		err := <-c.sched.Submit(ctx, key, func(ctx context.Context) error {
			_, err := c.adapter.Fetch(ctx, req, c.model)
			return err
		})
		switch {
		case errors.Is(err, ErrSuperseded):
			// somebody else is loading the same block
			return nil
		case err != nil:
			return fmt.Errorf("unable to load rows [%d, %d) of %s: %w", start, end, RouteKey(route), err)
		}
		c.requests.Add(1)
		c.log.Debug("Block loaded", zap.String("route", RouteKey(route)), zap.Int("start", start))
	}

	rc, ok := c.model.Lookup(route)
	if !ok {
		return fmt.Errorf("route %s disappeared from the model", RouteKey(route))
	}
	if start == 0 {
		for next := c.blockSize; next < rc.RowCount; next += c.blockSize {
			g.Go(func() error {
				return c.block(ctx, g, route, next)
			})
		}
	}
	if !c.expands(route) {
		return nil
	}
	for _, n := range rc.Rows(start, end) {
		if n.IsLeaf {
			continue
		}
		child := append(slices.Clone(route), n.ID)
		g.Go(func() error {
			return c.block(ctx, g, child, 0)
		})
	}
	return nil
}
