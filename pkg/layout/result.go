package layout

import (
	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/tree"
)

// Result is the caller-owned outcome of one layout run: positioned node
// snapshots, the unchanged edges, and the frame geometry. Results from
// successive runs are independent; a newer result simply replaces an older
// one in whatever slot the caller keeps.
type Result struct {
	// Config is the spacing configuration the positions were computed with,
	// with defaults resolved.
	Config Config

	// Nodes are positioned copies of the input nodes in insertion order.
	Nodes []tree.Node

	// Edges are the input edges, unchanged, in insertion order.
	Edges []tree.Edge

	// Widths maps node ID to the subtree width computed for it, in layout
	// units including the trailing gap.
	Widths map[string]float64

	// Width and Height are the bounding frame of all node boxes.
	Width  float64
	Height float64
}

// Node returns the positioned snapshot for the given ID.
func (r Result) Node(id string) (tree.Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return tree.Node{}, false
}

// Bounds returns the minimum and maximum x-coordinate across all nodes.
func (r Result) Bounds() (minX, maxX float64) {
	if len(r.Nodes) == 0 {
		return 0, 0
	}
	minX, maxX = r.Nodes[0].Position.X, r.Nodes[0].Position.X
	for _, n := range r.Nodes[1:] {
		if n.Position.X < minX {
			minX = n.Position.X
		}
		if n.Position.X > maxX {
			maxX = n.Position.X
		}
	}
	return minX, maxX
}

// Layout converts the result to its serialization format for renderers and
// the API. Category boxes render at CategoryWidth and are centered within
// their NodeWidth slot, so their narrower width never disturbs spacing.
func (r Result) Layout() graph.Layout {
	out := graph.Layout{
		Width:           r.Width,
		Height:          r.Height,
		NodeWidth:       r.Config.NodeWidth,
		NodeHeight:      r.Config.NodeHeight,
		HorizontalGap:   r.Config.HorizontalGap,
		VerticalSpacing: r.Config.VerticalSpacing,
		Boxes:           make([]graph.Box, len(r.Nodes)),
		Edges:           make([]graph.Edge, len(r.Edges)),
	}
	for i, n := range r.Nodes {
		w := r.Config.NodeWidth
		x := n.Position.X
		if n.Kind == tree.KindCategory {
			x += (w - r.Config.CategoryWidth) / 2
			w = r.Config.CategoryWidth
		}
		out.Boxes[i] = graph.Box{
			ID:         n.ID,
			Label:      n.Label,
			Kind:       string(n.Kind),
			ChildCount: n.ChildCount,
			X:          x,
			Y:          n.Position.Y,
			Width:      w,
			Height:     r.Config.NodeHeight,
		}
	}
	for i, e := range r.Edges {
		out.Edges[i] = graph.Edge{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return out
}
