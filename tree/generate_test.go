package tree

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testConfig(total int) GeneratorConfig {
	return GeneratorConfig{
		MaxDepth:         3,
		ChildProbability: 0.3,
		TotalNodes:       total,
		Seed:             42,
		MinChildren:      DefaultMinChildren,
		ChildSpread:      DefaultChildSpread,
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GeneratorConfig)
	}{
		{"zero depth", func(c *GeneratorConfig) { c.MaxDepth = 0 }},
		{"negative probability", func(c *GeneratorConfig) { c.ChildProbability = -0.1 }},
		{"probability above one", func(c *GeneratorConfig) { c.ChildProbability = 1.5 }},
		{"no nodes", func(c *GeneratorConfig) { c.TotalNodes = 0 }},
		{"no children", func(c *GeneratorConfig) { c.MinChildren = 0 }},
		{"negative spread", func(c *GeneratorConfig) { c.ChildSpread = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(100)
			tt.modify(&cfg)
			idx, err := Generate(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Generate() error = %v, want %v", err, ErrInvalidConfig)
			}
			if idx != nil {
				t.Error("Generate() returned index together with error")
			}
		})
	}
}

// checkInvariants verifies completeness, leaf and depth invariants.
func checkInvariants(t *testing.T, idx *Index) {
	t.Helper()

	visited := 0
	idx.Walk(func(n Node) bool {
		visited++

		_, group := idx.Group(n.ID)
		if n.IsLeaf == group {
			t.Errorf("node %q: leaf %v but group present %v", n.ID, n.IsLeaf, group)
		}
		if n.IsRoot() {
			if n.Depth != 0 {
				t.Errorf("root %q has depth %d", n.ID, n.Depth)
			}
			return true
		}
		p, ok := idx.Node(n.ParentID)
		if !ok {
			t.Errorf("node %q points to missing parent %q", n.ID, n.ParentID)
			return true
		}
		if n.Depth != p.Depth+1 {
			t.Errorf("node %q depth %d, parent depth %d", n.ID, n.Depth, p.Depth)
		}
		return true
	})
	if visited != idx.Len() {
		t.Errorf("reachable nodes %d, total nodes %d", visited, idx.Len())
	}
}

func TestGenerate_Invariants(t *testing.T) {
	for _, total := range []int{1, 2, 11, 50, 1000, 5000} {
		for _, p := range []float64{0, 0.3, 1} {
			cfg := testConfig(total)
			cfg.ChildProbability = p
			t.Run(strconv.Itoa(total)+"/"+strconv.FormatFloat(p, 'f', 1, 64), func(t *testing.T) {
				idx, err := Generate(cfg)
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				if idx.Len() != total {
					t.Errorf("Len() = %d, want %d", idx.Len(), total)
				}
				if roots := idx.ChildCount(RootKey); roots != 1 {
					t.Errorf("root count = %d, want 1", roots)
				}
				for i := range total {
					if _, ok := idx.Node(strconv.Itoa(i)); !ok {
						t.Fatalf("node %d is missing, ids must be sequential", i)
					}
				}
				checkInvariants(t, idx)
			})
		}
	}
}

func TestGenerate_ChildCounts(t *testing.T) {
	idx, err := Generate(testConfig(3000))
	if err != nil {
		t.Fatal(err)
	}
	last, _ := idx.Node(strconv.Itoa(idx.Len() - 1))
	for _, key := range idx.Groups() {
		if key == RootKey || key == last.ParentID {
			// last batch is cut when node budget is exhausted
			continue
		}
		if n := idx.ChildCount(key); n < 10 || n > 29 {
			t.Errorf("group %q has %d children, want 10..29", key, n)
		}
	}
}

func TestGenerate_LeafProbability(t *testing.T) {
	cfg := testConfig(2000)
	cfg.ChildProbability = 1
	idx, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	idx.Walk(func(n Node) bool {
		path := n.Attrs[AttrLevelPath]
		ordinal, err := strconv.Atoi(path[strings.LastIndexByte(path, '.')+1:])
		if err != nil {
			t.Fatalf("bad level path %q: %v", path, err)
		}
		if ordinal > DefaultMinChildren && !n.IsLeaf {
			t.Errorf("node %q (ordinal %d) must be a leaf with probability 1", n.ID, ordinal)
		}
		return true
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	collect := func(seed uint64) []Node {
		cfg := testConfig(700)
		cfg.Seed = seed
		idx, err := Generate(cfg)
		if err != nil {
			t.Fatal(err)
		}
		var nodes []Node
		idx.Walk(func(n Node) bool {
			nodes = append(nodes, n)
			return true
		})
		return nodes
	}

	if diff := cmp.Diff(collect(7), collect(7)); diff != "" {
		t.Errorf("same seed produced different trees (-first +second):\n%s", diff)
	}
	if cmp.Equal(collect(7), collect(8)) {
		t.Error("different seeds produced identical trees")
	}
}

func TestGenerate_WithRand(t *testing.T) {
	cfg := testConfig(300)
	a, err := Generate(cfg, WithRand(NewRand(99)))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Seed = 99
	b, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ac, _ := a.Children("0")
	bc, _ := b.Children("0")
	if diff := cmp.Diff(ac, bc); diff != "" {
		t.Errorf("explicit random source differs from seeded one (-explicit +seeded):\n%s", diff)
	}
}

// With zero leaf probability first children of every parent are parent
// candidates, only the final post-pass turns childless ones into leaves.
func TestGenerate_NoLeafProbability(t *testing.T) {
	cfg := testConfig(50)
	cfg.ChildProbability = 0

	g := &generator{cfg: cfg, rng: NewRand(cfg.Seed), b: NewBuilder()}
	g.labeler, _ = NewLabeler("", "", false)
	if err := g.run(); err != nil {
		t.Fatal(err)
	}
	for h := 1; h <= 10; h++ {
		if g.b.nodes[h].IsLeaf {
			t.Errorf("node %d was generated as a leaf", h)
		}
	}

	idx, err := g.b.Build()
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, idx)
	if idx.ChildCount("0") < 10 {
		t.Errorf("root got %d children, want at least 10", idx.ChildCount("0"))
	}
}

func TestGenerate_SingleNode(t *testing.T) {
	idx, err := Generate(testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	root, ok := idx.Node("0")
	if !ok {
		t.Fatal("root is missing")
	}
	if !root.IsLeaf {
		t.Error("lonely root must be reclassified as a leaf")
	}
	if _, ok := idx.Group("0"); ok {
		t.Error("leaf root must not have group entry")
	}
}

func TestGenerator_PickParentFallback(t *testing.T) {
	b := NewBuilder()
	_ = b.AddRoot(Node{ID: "0"})
	_ = b.AddChild("0", Node{ID: "1"})
	_ = b.AddChild("1", Node{ID: "2"})
	_ = b.AddChild("2", Node{ID: "3"})
	_ = b.AddChild("0", Node{ID: "4", IsLeaf: true})

	tests := []struct {
		name     string
		maxDepth int
		want     int
	}{
		// log2(5) = 2 caps the depth
		{"depth limited by size", 10, 2},
		{"depth limited by config", 2, 1},
		{"only root allowed", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &generator{cfg: GeneratorConfig{MaxDepth: tt.maxDepth}, b: b}
			if got := g.pickParent(); got != tt.want {
				t.Errorf("pickParent() = %d, want %d", got, tt.want)
			}
		})
	}

	g := &generator{cfg: GeneratorConfig{MaxDepth: 3}, b: b, pending: []int{3, 1}}
	if got := g.pickParent(); got != 3 {
		t.Errorf("pickParent() = %d, want queued 3", got)
	}
	if got := g.pickParent(); got != 1 {
		t.Errorf("pickParent() = %d, want queued 1", got)
	}
}
