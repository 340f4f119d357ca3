package layout

import (
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/tree"
)

// =============================================================================
// Configuration
// =============================================================================

// Default spacing values in layout units.
const (
	DefaultNodeWidth       = 140.0
	DefaultNodeHeight      = 70.0
	DefaultHorizontalGap   = 20.0
	DefaultVerticalSpacing = 150.0
	DefaultCategoryWidth   = 120.0
)

// Config holds the spacing parameters for one layout run.
// The zero value lays out with defaults.
type Config struct {
	// NodeWidth is the horizontal size of one node box.
	NodeWidth float64
	// NodeHeight is the vertical size of one node box.
	NodeHeight float64
	// HorizontalGap is the spacing between adjacent leaf slots.
	HorizontalGap float64
	// VerticalSpacing is the distance between depth tiers.
	VerticalSpacing float64
	// CategoryWidth is the rendered width of category-tier boxes. It affects
	// rendering only, never spacing: every node occupies a NodeWidth slot so
	// positions don't depend on node kind.
	CategoryWidth float64
}

// DefaultConfig returns the standard spacing configuration.
func DefaultConfig() Config {
	return Config{
		NodeWidth:       DefaultNodeWidth,
		NodeHeight:      DefaultNodeHeight,
		HorizontalGap:   DefaultHorizontalGap,
		VerticalSpacing: DefaultVerticalSpacing,
		CategoryWidth:   DefaultCategoryWidth,
	}
}

func (c *Config) setDefaults() {
	if c.NodeWidth == 0 {
		c.NodeWidth = DefaultNodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = DefaultNodeHeight
	}
	if c.HorizontalGap == 0 {
		c.HorizontalGap = DefaultHorizontalGap
	}
	if c.VerticalSpacing == 0 {
		c.VerticalSpacing = DefaultVerticalSpacing
	}
	if c.CategoryWidth == 0 {
		c.CategoryWidth = DefaultCategoryWidth
	}
}

// Validate checks that all spacing parameters are usable.
// Zero values are allowed (they become defaults); negatives are not.
func (c Config) Validate() error {
	switch {
	case c.NodeWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node width cannot be negative")
	case c.NodeHeight < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node height cannot be negative")
	case c.HorizontalGap < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "horizontal gap cannot be negative")
	case c.VerticalSpacing < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "vertical spacing cannot be negative")
	case c.CategoryWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "category width cannot be negative")
	}
	return nil
}

// =============================================================================
// Layout Engine
// =============================================================================

// arena is an index-addressed node table. All traversals run over int
// indices with explicit stacks, so stack depth never scales with tree depth.
type arenaNode struct {
	node     *tree.Node
	children []int
	depth    int
	width    float64 // subtree width
	x        float64
}

// Build computes positions for every node of the tree and returns the result
// as a caller-owned snapshot. The input tree's node positions are written as
// a side effect; nothing else about the tree is touched, and no state is
// retained between calls.
//
// The computation runs in three passes:
//
//  1. Post-order: accumulate each node's subtree width from its children.
//  2. Pre-order: place leaves at a running cursor, center parents over the
//     cursor span their descendants consumed, set y from depth.
//  3. Center the whole tree so the bounding box midpoint sits at x = 0.
//
// Returns a MALFORMED_TREE error when the tree has dangling edges, no unique
// root, or nodes unreachable from the root. On failure no positions are
// written.
func Build(t *tree.Tree, cfg Config) (Result, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if t.NodeCount() == 0 {
		return Result{}, errors.New(errors.ErrCodeMalformedTree, "tree has no nodes")
	}
	if err := t.Validate(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeMalformedTree, err, "invalid tree")
	}

	arena, rootIdx := buildArena(t)
	slot := cfg.NodeWidth + cfg.HorizontalGap

	// preorder holds every node index in depth-first, sibling-order-preserving
	// order. Reversing it visits children before parents, which is exactly the
	// post-order pass 1 needs.
	preorder := make([]int, 0, len(arena))
	stack := make([]int, 0, len(arena))
	stack = append(stack, rootIdx)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		preorder = append(preorder, idx)
		children := arena[idx].children
		for i := len(children) - 1; i >= 0; i-- {
			arena[children[i]].depth = arena[idx].depth + 1
			stack = append(stack, children[i])
		}
	}

	// Pass 1: subtree widths, bottom-up.
	for i := len(preorder) - 1; i >= 0; i-- {
		a := &arena[preorder[i]]
		if len(a.children) == 0 {
			a.width = slot
			continue
		}
		sum := 0.0
		for _, c := range a.children {
			sum += arena[c].width
		}
		if sum < slot {
			sum = slot
		}
		a.width = sum
	}

	// Pass 2: x from a running cursor, parents centered over their span.
	type frame struct {
		idx          int
		next         int
		cursorBefore float64
	}
	cursor := 0.0
	frames := []frame{{idx: rootIdx}}
	for len(frames) > 0 {
		f := &frames[len(frames)-1]
		a := &arena[f.idx]
		if len(a.children) == 0 {
			a.x = cursor
			cursor += slot
			frames = frames[:len(frames)-1]
			continue
		}
		if f.next == 0 {
			f.cursorBefore = cursor
		}
		if f.next < len(a.children) {
			child := a.children[f.next]
			f.next++
			frames = append(frames, frame{idx: child})
			continue
		}
		a.x = (f.cursorBefore+cursor)/2 - cfg.NodeWidth/2
		frames = frames[:len(frames)-1]
	}

	// Pass 3: shift the bounding box midpoint onto x = 0.
	minX, maxX := arena[0].x, arena[0].x
	maxDepth := 0
	for i := range arena {
		if arena[i].x < minX {
			minX = arena[i].x
		}
		if arena[i].x > maxX {
			maxX = arena[i].x
		}
		if arena[i].depth > maxDepth {
			maxDepth = arena[i].depth
		}
	}
	centerOffset := minX + (maxX-minX)/2
	for i := range arena {
		arena[i].x -= centerOffset
	}

	return assemble(t, arena, cfg, maxX-minX, maxDepth)
}

func buildArena(t *tree.Tree) (arena []arenaNode, rootIdx int) {
	nodes := t.Nodes()
	index := make(map[string]int, len(nodes))
	arena = make([]arenaNode, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		arena[i].node = n
	}
	for i, n := range nodes {
		childIDs := t.Children(n.ID)
		if len(childIDs) == 0 {
			continue
		}
		children := make([]int, len(childIDs))
		for j, id := range childIDs {
			children[j] = index[id]
		}
		arena[i].children = children
	}
	// Validate already ran, so the unique root exists.
	root, _ := t.Root()
	return arena, index[root.ID]
}

func assemble(t *tree.Tree, arena []arenaNode, cfg Config, span float64, maxDepth int) (Result, error) {
	res := Result{
		Config: cfg,
		Nodes:  make([]tree.Node, len(arena)),
		Edges:  t.Edges(),
		Widths: make(map[string]float64, len(arena)),
		Width:  span + cfg.NodeWidth,
		Height: float64(maxDepth)*cfg.VerticalSpacing + cfg.NodeHeight,
	}
	for i := range arena {
		a := &arena[i]
		pos := tree.Position{X: a.x, Y: float64(a.depth) * cfg.VerticalSpacing}
		a.node.Position = pos

		snapshot := *a.node
		res.Nodes[i] = snapshot
		res.Widths[a.node.ID] = a.width
	}
	return res, nil
}
