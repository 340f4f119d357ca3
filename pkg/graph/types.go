package graph

import (
	"encoding/json"
	"fmt"

	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/tree"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds.
const (
	KindRoot     = "root"
	KindField    = "field"
	KindCategory = "category"
)

// Visual styles for rendering.
const (
	StyleSimple   = "simple"
	StyleNodelink = "nodelink"
)

// DefaultCollectionsField is the reserved top-level field whose sub-keys are
// expanded into category nodes.
const DefaultCollectionsField = "elements"

// =============================================================================
// Graph - Derived Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for derived graphs.
// Used for API responses, storage, caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// derive → export → re-import produces identical results.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the serialization form of one derived node.
type Node struct {
	ID         string `json:"id" bson:"id"`
	Label      string `json:"label,omitempty" bson:"label,omitempty"`
	Kind       string `json:"kind" bson:"kind"`
	ChildCount int    `json:"child_count,omitempty" bson:"child_count,omitempty"`
}

// Edge represents a directed connector in the derived graph.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// =============================================================================
// Tree ↔ Graph Conversion
// =============================================================================

// FromTree converts a tree to its serialization format.
// Node and edge order is preserved - it is significant for layout.
func FromTree(t *tree.Tree) Graph {
	nodes := t.Nodes()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, t.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:         n.ID,
			Label:      n.Label,
			Kind:       string(n.Kind),
			ChildCount: n.ChildCount,
		}
	}
	for i, e := range t.Edges() {
		out.Edges[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return out
}

// ToTree converts a Graph back into a tree container.
// Returns a MALFORMED_TREE error if the structure violates tree constraints
// (dangling edge endpoints, duplicate targets, duplicate node ids).
func ToTree(g Graph) (*tree.Tree, error) {
	t := tree.New()
	for _, n := range g.Nodes {
		err := t.AddNode(tree.Node{
			ID:         n.ID,
			Label:      n.Label,
			Kind:       tree.Kind(n.Kind),
			ChildCount: n.ChildCount,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedTree, err, "add node %s", n.ID)
		}
	}
	for _, e := range g.Edges {
		if err := t.AddEdge(tree.Edge{ID: e.ID, Source: e.Source, Target: e.Target}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedTree, err, "add edge %s->%s", e.Source, e.Target)
		}
	}
	return t, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}
