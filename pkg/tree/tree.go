package tree

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Tree.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Tree.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique within one tree.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Tree.AddEdge] when the Source node
	// does not exist in the tree.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Tree.AddEdge] when the Target node
	// does not exist in the tree.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateTarget is returned by [Tree.AddEdge] and [Tree.Validate]
	// when two edges share the same target. In a tree every node has at most
	// one parent.
	ErrDuplicateTarget = errors.New("node already has an incoming edge")

	// ErrInvalidEdgeEndpoint is returned by [Tree.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNoRoot is returned by [Tree.Root] and [Tree.Validate] when no node
	// without an incoming edge exists.
	ErrNoRoot = errors.New("no root node")

	// ErrMultipleRoots is returned by [Tree.Root] and [Tree.Validate] when
	// more than one node has no incoming edge. The layout engine refuses to
	// guess which one is the root.
	ErrMultipleRoots = errors.New("multiple root nodes")

	// ErrUnreachableNodes is returned by [Tree.Validate] when some nodes
	// cannot be reached from the root. This covers both disconnected
	// components and cycles detached from the root.
	ErrUnreachableNodes = errors.New("nodes unreachable from root")
)

// Kind classifies a node by its origin tier in the derived graph.
type Kind string

const (
	// KindRoot is the single synthetic root node of a derived graph.
	KindRoot Kind = "root"
	// KindField is a node derived from one top-level document field.
	KindField Kind = "field"
	// KindCategory is a node derived from one sub-key of the reserved
	// collections field.
	KindCategory Kind = "category"
)

// Position is a resolved 2-D layout coordinate in layout units.
type Position struct {
	X float64
	Y float64
}

// Node represents one visual box in the diagram. All fields except Position
// are immutable once the node is added to a tree; Position is output state
// written exactly once by the layout engine.
//
// The zero value is not usable - ID must be set before adding to a Tree.
type Node struct {
	ID         string   // Unique identifier within one tree
	Label      string   // Display label (may contain a newline-separated preview)
	Kind       Kind     // root, field, or category
	ChildCount int      // Number of direct children at derivation time
	Position   Position // Resolved layout coordinate (written by the layout engine)
}

// IsRoot reports whether the node is the synthetic root.
func (n Node) IsRoot() bool { return n.Kind == KindRoot }

// Edge represents a directed connector between a parent and a child node.
type Edge struct {
	ID     string // Unique identifier within one tree
	Source string // Parent node ID
	Target string // Child node ID
}

// Tree is an insertion-ordered node/edge container for tree-shaped graphs.
// Child order follows edge insertion order; this order is significant - it
// determines left-to-right sibling placement during layout and is never
// resorted.
//
// The zero value is not usable - use New to create a valid Tree instance.
// Tree is not safe for concurrent use without external synchronization.
type Tree struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> child IDs, edge insertion order
	incoming map[string]string   // nodeID -> parent ID
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string]string),
	}
}

// AddNode adds a node to the tree.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (t *Tree) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := t.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	t.nodes[node.ID] = node
	t.order = append(t.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing, or ErrDuplicateTarget if the target already has a parent.
func (t *Tree) AddEdge(e Edge) error {
	if _, ok := t.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := t.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if _, ok := t.incoming[e.Target]; ok {
		return ErrDuplicateTarget
	}
	t.edges = append(t.edges, e)
	t.outgoing[e.Source] = append(t.outgoing[e.Source], e.Target)
	t.incoming[e.Target] = e.Source
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node in the tree, so
// position writes by the layout engine are visible through it.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
// The returned slice contains pointers to the actual node structs.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, len(t.order))
	for _, id := range t.order {
		nodes = append(nodes, t.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (t *Tree) Edges() []Edge { return slices.Clone(t.edges) }

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges in the tree.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// Children returns the IDs of the node's children in edge insertion order.
// Returns nil if the node has no children or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (t *Tree) Children(id string) []string { return t.outgoing[id] }

// Parent returns the node's parent ID and true, or "" and false for the
// root or an unknown node.
func (t *Tree) Parent(id string) (string, bool) {
	p, ok := t.incoming[id]
	return p, ok
}

// Root returns the unique node with no incoming edge.
// Returns ErrNoRoot if every node has a parent (or the tree is empty), or
// ErrMultipleRoots if more than one candidate exists.
func (t *Tree) Root() (*Node, error) {
	var root *Node
	for _, id := range t.order {
		if _, ok := t.incoming[id]; ok {
			continue
		}
		if root != nil {
			return nil, ErrMultipleRoots
		}
		root = t.nodes[id]
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// Validate checks tree integrity and returns nil if valid.
// It verifies three constraints:
//
//  1. All edges connect existing nodes
//  2. Exactly one node has no incoming edge (the root)
//  3. Every node is reachable from the root (no detached cycles or islands)
//
// The reachability walk is an explicit stack loop, so validation cost is
// bounded by node count regardless of tree depth.
func (t *Tree) Validate() error {
	for _, e := range t.edges {
		if _, ok := t.nodes[e.Source]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := t.nodes[e.Target]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}

	root, err := t.Root()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(t.nodes))
	stack := []string{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, t.outgoing[id]...)
	}

	if len(seen) != len(t.nodes) {
		return ErrUnreachableNodes
	}
	return nil
}
