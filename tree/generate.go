package tree

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"strconv"
)

// Defaults matching demo data set.
const (
	DefaultMinChildren = 10
	DefaultChildSpread = 20
)

// GeneratorConfig describes the shape of synthetic tree.
type GeneratorConfig struct {
	// MaxDepth limits depth of parents picked when there are no queued
	// candidates left.
	MaxDepth int
	// ChildProbability is the probability for every child past MinChildren
	// of the same parent to become a leaf.
	ChildProbability float64
	// TotalNodes is the exact number of nodes in the resulting tree.
	TotalNodes int
	// Seed for random source used when none was supplied explicitly.
	Seed uint64
	// Every parent gets MinChildren + [0, ChildSpread) children.
	MinChildren int
	ChildSpread int
}

func (cfg GeneratorConfig) validate() error {
	switch {
	case cfg.MaxDepth < 1:
		return fmt.Errorf("%w: max depth %d must be at least 1", ErrInvalidConfig, cfg.MaxDepth)
	case cfg.ChildProbability < 0 || cfg.ChildProbability > 1:
		return fmt.Errorf("%w: child probability %v is outside of [0,1]", ErrInvalidConfig, cfg.ChildProbability)
	case cfg.TotalNodes < 1:
		return fmt.Errorf("%w: total node count %d must be at least 1", ErrInvalidConfig, cfg.TotalNodes)
	case cfg.MinChildren < 1:
		return fmt.Errorf("%w: min children %d must be at least 1", ErrInvalidConfig, cfg.MinChildren)
	case cfg.ChildSpread < 0:
		return fmt.Errorf("%w: child spread %d is negative", ErrInvalidConfig, cfg.ChildSpread)
	}
	return nil
}

type generateOptions struct {
	rng     *rand.Rand
	labeler *Labeler
}

// WithRand supplies random source, otherwise one seeded from configuration
// is used.
func WithRand(rng *rand.Rand) func(*generateOptions) {
	return func(opts *generateOptions) {
		opts.rng = rng
	}
}

// WithLabeler supplies node payload templates.
func WithLabeler(l *Labeler) func(*generateOptions) {
	return func(opts *generateOptions) {
		opts.labeler = l
	}
}

// NewRand returns deterministic random source for the seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type generator struct {
	cfg     GeneratorConfig
	rng     *rand.Rand
	labeler *Labeler
	b       *Builder
	paths   []string // level path per handle
	pending []int    // FIFO of parent candidates
	head    int
}

// Generate builds synthetic tree. Single root "0" is created first, after
// that parents are taken from FIFO queue of non-leaf nodes which were not
// given children yet, falling back to the deepest allowed non-leaf node and
// finally to the root. Each parent receives a batch of children, children
// past MinChildren become leaves with ChildProbability. Generation stops as
// soon as TotalNodes nodes exist, non-leaf nodes that did not get any
// children are turned into leaves.
func Generate(cfg GeneratorConfig, options ...func(*generateOptions)) (*Index, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := &generateOptions{}
	for _, setOpt := range options {
		setOpt(opts)
	}
	if opts.rng == nil {
		opts.rng = NewRand(cfg.Seed)
	}
	if opts.labeler == nil {
		l, err := NewLabeler("", "", false)
		if err != nil {
			return nil, err
		}
		opts.labeler = l
	}

	g := &generator{
		cfg:     cfg,
		rng:     opts.rng,
		labeler: opts.labeler,
		b:       NewBuilder(),
	}
	if err := g.run(); err != nil {
		return nil, err
	}
	return g.b.Build()
}

func (g *generator) run() error {
	if err := g.add(-1, 0, false); err != nil {
		return err
	}
	for g.b.Len() < g.cfg.TotalNodes {
		parent := g.pickParent()

		count := g.cfg.MinChildren
		if g.cfg.ChildSpread > 0 {
			count += g.rng.IntN(g.cfg.ChildSpread)
		}
		for j := 0; j < count && g.b.Len() < g.cfg.TotalNodes; j++ {
			leaf := false
			if j >= g.cfg.MinChildren {
				leaf = g.rng.Float64() < g.cfg.ChildProbability
			}
			if err := g.add(parent, j, leaf); err != nil {
				return err
			}
		}
	}
	return nil
}

// add creates next node under parent handle, -1 means root.
func (g *generator) add(parent, ordinal int, leaf bool) error {
	h := g.b.Len()
	n := Node{ID: strconv.Itoa(h), IsLeaf: leaf}

	v := LabelValues{ID: n.ID, Seq: h + 1, Ordinal: ordinal}
	parentPath := ""
	if parent >= 0 {
		p := g.b.nodes[parent]
		v.ParentID, v.Depth = p.ID, p.Depth+1
		parentPath = g.paths[parent]
	}
	if err := g.labeler.Apply(&n, parentPath, v); err != nil {
		return err
	}

	var err error
	if parent < 0 {
		err = g.b.AddRoot(n)
	} else {
		err = g.b.AddChild(g.b.nodes[parent].ID, n)
	}
	if err != nil {
		return err
	}
	g.paths = append(g.paths, n.Attrs[AttrLevelPath])
	if !leaf {
		g.pending = append(g.pending, h)
	}
	return nil
}

func (g *generator) pickParent() int {
	if g.head < len(g.pending) {
		h := g.pending[g.head]
		g.head++
		return h
	}

	created := g.b.Len()
	limit := min(g.cfg.MaxDepth-1, bits.Len(uint(created))-1)
	for h := created - 1; h >= 0; h-- {
		if n := g.b.nodes[h]; !n.IsLeaf && n.Depth <= limit {
			return h
		}
	}
	return 0
}
