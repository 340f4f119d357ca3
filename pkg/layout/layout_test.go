package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/tree"
)

const tolerance = 1e-9

func buildTree(t *testing.T, nodes []tree.Node, edges []tree.Edge) *tree.Tree {
	t.Helper()
	tr := tree.New()
	for _, n := range nodes {
		if err := tr.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := tr.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s): %v", e.ID, err)
		}
	}
	return tr
}

// rootWithLeaves builds a root node with n leaf children.
func rootWithLeaves(t *testing.T, n int) *tree.Tree {
	t.Helper()
	nodes := []tree.Node{{ID: "root", Kind: tree.KindRoot}}
	var edges []tree.Edge
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("leaf%d", i)
		nodes = append(nodes, tree.Node{ID: id, Kind: tree.KindField})
		edges = append(edges, tree.Edge{ID: "e" + id, Source: "root", Target: id})
	}
	return buildTree(t, nodes, edges)
}

func TestBuildRootOnly(t *testing.T) {
	tr := buildTree(t, []tree.Node{{ID: "root", Kind: tree.KindRoot}}, nil)

	res, err := Build(tr, Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Nodes) != 1 || len(res.Edges) != 0 {
		t.Fatalf("got %d nodes / %d edges, want 1 / 0", len(res.Nodes), len(res.Edges))
	}
	pos := res.Nodes[0].Position
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("root position = (%v, %v), want (0, 0)", pos.X, pos.Y)
	}
}

func TestBuildTwoLeaves(t *testing.T) {
	tr := rootWithLeaves(t, 2)

	res, err := Build(tr, Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	l0, _ := res.Node("leaf0")
	l1, _ := res.Node("leaf1")
	if l0.Position.X != -80 || l1.Position.X != 80 {
		t.Errorf("leaf x = %v, %v, want -80, 80", l0.Position.X, l1.Position.X)
	}
	if l0.Position.Y != DefaultVerticalSpacing || l1.Position.Y != DefaultVerticalSpacing {
		t.Errorf("leaf y = %v, %v, want %v", l0.Position.Y, l1.Position.Y, DefaultVerticalSpacing)
	}

	root, _ := res.Node("root")
	if root.Position.Y != 0 {
		t.Errorf("root y = %v, want 0", root.Position.Y)
	}
}

func TestBuildDeterministic(t *testing.T) {
	build := func() Result {
		nodes := []tree.Node{
			{ID: "root", Kind: tree.KindRoot},
			{ID: "a", Kind: tree.KindField},
			{ID: "b", Kind: tree.KindField},
			{ID: "b1", Kind: tree.KindCategory},
			{ID: "b2", Kind: tree.KindCategory},
		}
		edges := []tree.Edge{
			{ID: "e1", Source: "root", Target: "a"},
			{ID: "e2", Source: "root", Target: "b"},
			{ID: "e3", Source: "b", Target: "b1"},
			{ID: "e4", Source: "b", Target: "b2"},
		}
		res, err := Build(buildTree(t, nodes, edges), Config{})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return res
	}

	r1, r2 := build(), build()
	for i := range r1.Nodes {
		p1, p2 := r1.Nodes[i].Position, r2.Nodes[i].Position
		if p1 != p2 {
			t.Errorf("node %s position differs: %+v vs %+v", r1.Nodes[i].ID, p1, p2)
		}
	}
	for i := range r1.Edges {
		if r1.Edges[i] != r2.Edges[i] {
			t.Errorf("edge[%d] differs", i)
		}
	}
}

func TestBuildCentering(t *testing.T) {
	for _, leaves := range []int{1, 2, 3, 5, 8} {
		t.Run(fmt.Sprintf("%d leaves", leaves), func(t *testing.T) {
			res, err := Build(rootWithLeaves(t, leaves), Config{})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			minX, maxX := res.Bounds()
			mid := minX + (maxX-minX)/2
			if math.Abs(mid) > tolerance {
				t.Errorf("bounding box midpoint = %v, want 0", mid)
			}
		})
	}
}

func TestBuildDepthTiers(t *testing.T) {
	nodes := []tree.Node{
		{ID: "root", Kind: tree.KindRoot},
		{ID: "f", Kind: tree.KindField},
		{ID: "c1", Kind: tree.KindCategory},
		{ID: "c2", Kind: tree.KindCategory},
	}
	edges := []tree.Edge{
		{ID: "e1", Source: "root", Target: "f"},
		{ID: "e2", Source: "f", Target: "c1"},
		{ID: "e3", Source: "f", Target: "c2"},
	}
	res, err := Build(buildTree(t, nodes, edges), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantY := map[string]float64{"root": 0, "f": 150, "c1": 300, "c2": 300}
	for id, y := range wantY {
		n, ok := res.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Position.Y != y {
			t.Errorf("%s y = %v, want %v", id, n.Position.Y, y)
		}
	}
}

func TestBuildSiblingSubtreesDoNotOverlap(t *testing.T) {
	// Two sibling subtrees with different leaf counts under one root.
	nodes := []tree.Node{
		{ID: "root", Kind: tree.KindRoot},
		{ID: "left", Kind: tree.KindField},
		{ID: "right", Kind: tree.KindField},
	}
	edges := []tree.Edge{
		{ID: "el", Source: "root", Target: "left"},
		{ID: "er", Source: "root", Target: "right"},
	}
	var leftLeaves, rightLeaves []string
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("l%d", i)
		leftLeaves = append(leftLeaves, id)
		nodes = append(nodes, tree.Node{ID: id, Kind: tree.KindCategory})
		edges = append(edges, tree.Edge{ID: "e" + id, Source: "left", Target: id})
	}
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("r%d", i)
		rightLeaves = append(rightLeaves, id)
		nodes = append(nodes, tree.Node{ID: id, Kind: tree.KindCategory})
		edges = append(edges, tree.Edge{ID: "e" + id, Source: "right", Target: id})
	}

	res, err := Build(buildTree(t, nodes, edges), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	maxLeft := math.Inf(-1)
	minRight := math.Inf(1)
	for _, id := range leftLeaves {
		if n, ok := res.Node(id); ok && n.Position.X > maxLeft {
			maxLeft = n.Position.X
		}
	}
	for _, id := range rightLeaves {
		if n, ok := res.Node(id); ok && n.Position.X < minRight {
			minRight = n.Position.X
		}
	}
	if maxLeft+DefaultNodeWidth > minRight {
		t.Errorf("subtrees overlap: left extends to %v, right starts at %v", maxLeft+DefaultNodeWidth, minRight)
	}
}

func TestBuildSubtreeWidths(t *testing.T) {
	res, err := Build(rootWithLeaves(t, 2), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	slot := DefaultNodeWidth + DefaultHorizontalGap
	if got := res.Widths["leaf0"]; got != slot {
		t.Errorf("leaf subtree width = %v, want %v", got, slot)
	}
	if got := res.Widths["root"]; got != 2*slot {
		t.Errorf("root subtree width = %v, want %v", got, 2*slot)
	}
}

func TestBuildWritesPositionsIntoTree(t *testing.T) {
	tr := rootWithLeaves(t, 1)
	if _, err := Build(tr, Config{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, _ := tr.Node("leaf0")
	if n.Position.Y != DefaultVerticalSpacing {
		t.Errorf("tree node position not written: %+v", n.Position)
	}
}

func TestBuildCustomConfig(t *testing.T) {
	cfg := Config{NodeWidth: 100, HorizontalGap: 10, VerticalSpacing: 50}
	res, err := Build(rootWithLeaves(t, 2), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l0, _ := res.Node("leaf0")
	l1, _ := res.Node("leaf1")
	// slot = 110, leaves at 0 and 110 before centering; offset 55
	if l0.Position.X != -55 || l1.Position.X != 55 {
		t.Errorf("leaf x = %v, %v, want -55, 55", l0.Position.X, l1.Position.X)
	}
	if l0.Position.Y != 50 {
		t.Errorf("leaf y = %v, want 50", l0.Position.Y)
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name  string
		nodes []tree.Node
		edges []tree.Edge
	}{
		{
			name: "empty tree",
		},
		{
			name: "multiple roots",
			nodes: []tree.Node{
				{ID: "r1", Kind: tree.KindRoot},
				{ID: "r2", Kind: tree.KindRoot},
			},
		},
		{
			name: "no root",
			nodes: []tree.Node{
				{ID: "x", Kind: tree.KindField},
				{ID: "y", Kind: tree.KindField},
			},
			edges: []tree.Edge{
				{ID: "e1", Source: "x", Target: "y"},
				{ID: "e2", Source: "y", Target: "x"},
			},
		},
		{
			name: "detached cycle",
			nodes: []tree.Node{
				{ID: "root", Kind: tree.KindRoot},
				{ID: "x", Kind: tree.KindField},
				{ID: "y", Kind: tree.KindField},
			},
			edges: []tree.Edge{
				{ID: "e1", Source: "x", Target: "y"},
				{ID: "e2", Source: "y", Target: "x"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := buildTree(t, tt.nodes, tt.edges)
			_, err := Build(tr, Config{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeMalformedTree) {
				t.Errorf("error code = %q, want MALFORMED_TREE", errors.GetCode(err))
			}
			// no partial positions on failure
			for _, n := range tr.Nodes() {
				if n.Position != (tree.Position{}) {
					t.Errorf("node %s has partial position %+v", n.ID, n.Position)
				}
			}
		})
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	_, err := Build(rootWithLeaves(t, 1), Config{NodeWidth: -1})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %q, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestBuildDeepChain(t *testing.T) {
	const depth = 20000
	nodes := make([]tree.Node, 0, depth+1)
	edges := make([]tree.Edge, 0, depth)
	for i := 0; i <= depth; i++ {
		nodes = append(nodes, tree.Node{ID: fmt.Sprintf("n%d", i)})
	}
	for i := 0; i < depth; i++ {
		edges = append(edges, tree.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: fmt.Sprintf("n%d", i),
			Target: fmt.Sprintf("n%d", i+1),
		})
	}
	res, err := Build(buildTree(t, nodes, edges), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	last, _ := res.Node(fmt.Sprintf("n%d", depth))
	if last.Position.Y != depth*DefaultVerticalSpacing {
		t.Errorf("deepest y = %v, want %v", last.Position.Y, depth*DefaultVerticalSpacing)
	}
	// Each single-child parent centers over its one-slot span, which sits
	// half a gap right of the child box; global centering splits that skew
	// between the leaf and the parents.
	leafID := fmt.Sprintf("n%d", depth)
	skew := DefaultHorizontalGap / 4
	for _, n := range res.Nodes {
		want := skew
		if n.ID == leafID {
			want = -skew
		}
		if math.Abs(n.Position.X-want) > tolerance {
			t.Fatalf("node %s x = %v, want %v", n.ID, n.Position.X, want)
		}
	}
}

func TestResultLayoutCategoryWidth(t *testing.T) {
	nodes := []tree.Node{
		{ID: "root", Kind: tree.KindRoot},
		{ID: "f", Kind: tree.KindField},
		{ID: "c", Kind: tree.KindCategory},
	}
	edges := []tree.Edge{
		{ID: "e1", Source: "root", Target: "f"},
		{ID: "e2", Source: "f", Target: "c"},
	}
	res, err := Build(buildTree(t, nodes, edges), Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	l := res.Layout()
	catIdx, fieldIdx := -1, -1
	for i := range l.Boxes {
		switch l.Boxes[i].ID {
		case "c":
			catIdx = i
		case "f":
			fieldIdx = i
		}
	}
	if catIdx < 0 || fieldIdx < 0 {
		t.Fatal("boxes missing")
	}
	cb, fb := l.Boxes[catIdx], l.Boxes[fieldIdx]
	if cb.Width != DefaultCategoryWidth {
		t.Errorf("category width = %v, want %v", cb.Width, DefaultCategoryWidth)
	}
	if fb.Width != DefaultNodeWidth {
		t.Errorf("field width = %v, want %v", fb.Width, DefaultNodeWidth)
	}
	// narrower box stays centered in its own NodeWidth slot
	cn, ok := res.Node("c")
	if !ok {
		t.Fatal("node c missing")
	}
	if got, want := cb.CenterX(), cn.Position.X+DefaultNodeWidth/2; got != want {
		t.Errorf("category box center = %v, want slot center %v", got, want)
	}
	if fb.CenterX() != fb.X+DefaultNodeWidth/2 {
		t.Errorf("field box center = %v, want %v", fb.CenterX(), fb.X+DefaultNodeWidth/2)
	}
}
