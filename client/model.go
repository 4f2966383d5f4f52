package client

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"treegrid/tree"
)

// Block is a flat portion of rows of a single route. Blocks never reference
// other blocks.
type Block struct {
	Route    []string
	StartRow int
	Rows     []tree.Node
	RowCount int
}

// RowModel is implemented by the grid row model. Success answers the
// original request, Apply pushes rows for a route nobody asked for yet, Fail
// reports failed request.
type RowModel interface {
	Success(b Block)
	Apply(b Block)
	Fail(route []string, err error)
}

// RouteKey returns printable identifier of a route.
func RouteKey(route []string) string {
	if len(route) == 0 {
		return "/"
	}
	return "/" + strings.Join(route, "/")
}

// RouteCache keeps everything known about rows of a single route.
type RouteCache struct {
	Route    []string
	RowCount int
	rows     map[int]tree.Node
}

// Loaded returns number of rows present.
func (rc *RouteCache) Loaded() int {
	return len(rc.rows)
}

// Rows returns present rows from [start, end) in order, skipping holes.
func (rc *RouteCache) Rows(start, end int) []tree.Node {
	end = min(end, rc.RowCount)
	out := make([]tree.Node, 0, max(end-start, 0))
	for i := max(start, 0); i < end; i++ {
		if n, ok := rc.rows[i]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Covered reports if every row of [start, end) clipped to row count is
// present.
func (rc *RouteCache) Covered(start, end int) bool {
	end = min(end, rc.RowCount)
	for i := max(start, 0); i < end; i++ {
		if _, ok := rc.rows[i]; !ok {
			return false
		}
	}
	return true
}

// Failure is a recorded failed request.
type Failure struct {
	Route []string
	Err   error
}

// ModelStats summarizes model activity.
type ModelStats struct {
	Routes    int
	Rows      int
	Successes int
	Applies   int
	Failures  int
}

// MemoryModel is a RowModel keeping all rows in memory. It is safe for
// concurrent use.
type MemoryModel struct {
	mu        sync.Mutex
	routes    map[string]*RouteCache
	failures  []Failure
	successes int
	applies   int
}

func NewMemoryModel() *MemoryModel {
	return &MemoryModel{routes: make(map[string]*RouteCache)}
}

func (m *MemoryModel) store(b Block) {
	key := RouteKey(b.Route)
	rc, ok := m.routes[key]
	if !ok {
		rc = &RouteCache{Route: slices.Clone(b.Route), rows: make(map[int]tree.Node)}
		m.routes[key] = rc
	}
	rc.RowCount = b.RowCount
	for i, n := range b.Rows {
		rc.rows[b.StartRow+i] = n
	}
}

func (m *MemoryModel) Success(b Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.successes++
	m.store(b)
}

func (m *MemoryModel) Apply(b Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applies++
	m.store(b)
}

func (m *MemoryModel) Fail(route []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures = append(m.failures, Failure{Route: slices.Clone(route), Err: err})
}

func snapshot(rc *RouteCache) RouteCache {
	out := RouteCache{
		Route:    slices.Clone(rc.Route),
		RowCount: rc.RowCount,
		rows:     make(map[int]tree.Node, len(rc.rows)),
	}
	maps.Copy(out.rows, rc.rows)
	return out
}

// Lookup returns snapshot of route cache.
func (m *MemoryModel) Lookup(route []string) (RouteCache, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rc, ok := m.routes[RouteKey(route)]
	if !ok {
		return RouteCache{}, false
	}
	return snapshot(rc), true
}

// Covered reports if route has all rows of [start, end) loaded.
func (m *MemoryModel) Covered(route []string, start, end int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rc, ok := m.routes[RouteKey(route)]
	return ok && rc.Covered(start, end)
}

// Routes returns snapshots of all routes ordered by route key.
func (m *MemoryModel) Routes() []RouteCache {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := slices.Sorted(maps.Keys(m.routes))
	out := make([]RouteCache, 0, len(keys))
	for _, k := range keys {
		out = append(out, snapshot(m.routes[k]))
	}
	return out
}

// Failures returns recorded failures.
func (m *MemoryModel) Failures() []Failure {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.failures)
}

func (m *MemoryModel) Stats() ModelStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := ModelStats{
		Routes:    len(m.routes),
		Successes: m.successes,
		Applies:   m.applies,
		Failures:  len(m.failures),
	}
	for _, rc := range m.routes {
		st.Rows += len(rc.rows)
	}
	return st
}
