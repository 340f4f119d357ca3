package render

import (
	"strings"
	"testing"

	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/tree"
)

func testLayout() graph.Layout {
	return graph.Layout{
		Width:           320,
		Height:          220,
		NodeWidth:       140,
		NodeHeight:      70,
		HorizontalGap:   20,
		VerticalSpacing: 150,
		Boxes: []graph.Box{
			{ID: "root", Label: "model", Kind: graph.KindRoot, X: 10, Y: 0, Width: 140, Height: 70},
			{ID: "a", Label: "a\n1", Kind: graph.KindField, X: -80, Y: 150, Width: 140, Height: 70},
			{ID: "b", Label: "b\n[3]", Kind: graph.KindField, X: 80, Y: 150, Width: 140, Height: 70},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "root", Target: "a"},
			{ID: "e2", Source: "root", Target: "b"},
		},
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(testLayout()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg header")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("missing closing tag")
	}

	for _, id := range []string{"node-root", "node-a", "node-b"} {
		if !strings.Contains(svg, id) {
			t.Errorf("missing box %s", id)
		}
	}
	if got := strings.Count(svg, "<line "); got != 2 {
		t.Errorf("line count = %d, want 2", got)
	}
	// multi-line labels become tspans
	if !strings.Contains(svg, ">[3]</tspan>") {
		t.Error("missing label line [3]")
	}
	// negative coordinates are shifted into view
	if strings.Contains(svg, `x="-`) {
		t.Error("svg contains negative x coordinates")
	}
}

func TestSVGWithoutEdges(t *testing.T) {
	svg := string(SVG(testLayout(), WithoutEdges()))
	if strings.Contains(svg, "<line ") {
		t.Error("edges rendered despite WithoutEdges")
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	l := graph.Layout{
		Width:  140,
		Height: 70,
		Boxes: []graph.Box{
			{ID: "x", Label: `a<b>&"c"`, Kind: graph.KindField, X: 0, Y: 0, Width: 140, Height: 70},
		},
	}
	svg := string(SVG(l))
	if strings.Contains(svg, "<b>") {
		t.Error("label markup not escaped")
	}
	if !strings.Contains(svg, "a&lt;b&gt;&amp;&quot;c&quot;") {
		t.Errorf("escaped label missing:\n%s", svg)
	}
}

func buildDOTTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()
	nodes := []tree.Node{
		{ID: "root", Label: "model", Kind: tree.KindRoot, ChildCount: 1},
		{ID: "f", Label: "elements\n{2}", Kind: tree.KindField, ChildCount: 2},
		{ID: "c", Label: "walls\n2 items", Kind: tree.KindCategory, ChildCount: 2},
	}
	for _, n := range nodes {
		if err := tr.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []tree.Edge{
		{ID: "e1", Source: "root", Target: "f"},
		{ID: "e2", Source: "f", Target: "c"},
	}
	for _, e := range edges {
		if err := tr.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildDOTTree(t), DOTOptions{})

	if !strings.HasPrefix(dot, "digraph model {") {
		t.Error("missing digraph header")
	}
	if !strings.Contains(dot, `"root" -> "f";`) {
		t.Error("missing root edge")
	}
	if !strings.Contains(dot, `"f" -> "c";`) {
		t.Error("missing category edge")
	}
	if !strings.Contains(dot, `label="model"`) {
		t.Error("missing root label")
	}
	// newline in label survives quoting
	if !strings.Contains(dot, `label="walls\n2 items"`) {
		t.Error("missing category label")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildDOTTree(t), DOTOptions{Detailed: true})
	if !strings.Contains(dot, "kind: category") {
		t.Error("detailed label missing kind")
	}
	if !strings.Contains(dot, "children: 2") {
		t.Error("detailed label missing child count")
	}
}
