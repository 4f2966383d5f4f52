package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"treegrid/common"
	"treegrid/utils/debug"
)

// DumpOptions controls tree dump.
type DumpOptions struct {
	Format common.DumpFmt
	// MaxDepth limits depth of dumped nodes, negative means no limit.
	MaxDepth int
	// Groups adds list of group keys with child counts to the text dump.
	Groups bool
}

type jsonDump struct {
	Stats  Stats               `json:"stats"`
	Nodes  []Node              `json:"nodes"`
	Groups map[string][]string `json:"groups"`
}

// Dump writes readable representation of the index. It exists for manual
// inspection of generated data.
func Dump(w io.Writer, idx *Index, opts DumpOptions) error {
	switch opts.Format {
	case common.DumpFmtText:
		return dumpText(w, idx, opts)
	case common.DumpFmtJson:
		return dumpJSON(w, idx, opts)
	default:
		return fmt.Errorf("unsupported dump format %s", opts.Format)
	}
}

func dumpText(w io.Writer, idx *Index, opts DumpOptions) error {
	tw := debug.NewTreeWriter(w)

	st := idx.Stats()
	tw.Line(0, "Index %s: nodes[%d] groups[%d] leaves[%d] depth[%d] fan-out[%d]",
		st.GenerationID, st.Nodes, st.Groups, st.Leaves, st.MaxDepth, st.MaxFanOut)

	idx.Walk(func(n Node) bool {
		if opts.MaxDepth >= 0 && n.Depth > opts.MaxDepth {
			return false
		}
		if n.IsLeaf {
			tw.Line(n.Depth+1, "[%s] %s line[%s] path[%s]", n.ID, n.Label, n.Attrs[AttrLineNum], n.Attrs[AttrLevelPath])
		} else {
			tw.Line(n.Depth+1, "[%s] %s line[%s] path[%s] children[%d]", n.ID, n.Label, n.Attrs[AttrLineNum], n.Attrs[AttrLevelPath], idx.ChildCount(n.ID))
		}
		// attributes not produced by Labeler
		for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
			if k != AttrLineNum && k != AttrLevelPath {
				tw.TextBlock(n.Depth+2, k, n.Attrs[k])
			}
		}
		return tw.Err() == nil
	})

	if opts.Groups {
		keys := idx.Groups()
		tw.Line(0, "Groups (%d entries)", len(keys))
		for _, k := range keys {
			tw.Line(1, "Group[%q] children[%d]", k, idx.ChildCount(k))
		}
	}
	return tw.Flush()
}

func dumpJSON(w io.Writer, idx *Index, opts DumpOptions) error {
	out := jsonDump{
		Stats:  idx.Stats(),
		Nodes:  make([]Node, 0, idx.Len()),
		Groups: make(map[string][]string),
	}
	idx.Walk(func(n Node) bool {
		if opts.MaxDepth >= 0 && n.Depth > opts.MaxDepth {
			return false
		}
		out.Nodes = append(out.Nodes, n)
		return true
	})
	for _, n := range out.Nodes {
		key := n.GroupKey()
		out.Groups[key] = append(out.Groups[key], n.ID)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("unable to encode tree: %w", err)
	}
	return nil
}
