package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] and [TopologicalSort] when
	// a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] and [TopologicalSort]
	// when two nodes share a name. A package appears at most once in an
	// install plan.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph,
// such as the registry a package came from or its integrity hash. Metadata
// maps are never nil once stored in a DAG.
type Metadata map[string]any

// Node is a resolved package.
type Node struct {
	ID      string   // Package name
	Version string   // Exact resolved version
	Meta    Metadata // Never nil after AddNode
}

// Edge points from a package to one of its dependencies.
type Edge struct {
	From string   // Dependent package
	To   string   // Dependency
	Meta Metadata // Never nil after AddEdge
}

// DAG is a dependency graph that remembers insertion order. Nodes, Sources and
// Dependencies all report nodes in the order they were added, which keeps
// [DAG.Sort] deterministic.
//
// The zero value is not usable; use [New]. A DAG is not safe for concurrent
// use without external synchronization.
type DAG struct {
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> dependency IDs
	incoming map[string][]string // nodeID -> dependent IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node. It returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID when the ID is taken.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge records that e.From depends on e.To. Both nodes must exist.
// Repeated edges between the same pair are ignored.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns all nodes in insertion order. The pointers refer to the nodes
// stored in the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the dependencies of a node. The slice is a read-only view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the dependents of a node. The slice is a read-only view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes nothing depends on, in insertion order. For an install
// graph these are the direct dependencies of the manifest.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no dependencies, in insertion order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, d.nodes[id])
		}
	}
	return sinks
}

// Dependencies flattens the graph into the input form of [TopologicalSort].
func (d *DAG) Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(d.order))
	for _, id := range d.order {
		n := d.nodes[id]
		deps = append(deps, Dependency{
			Name:    n.ID,
			Version: n.Version,
			Deps:    slices.Clone(d.outgoing[id]),
		})
	}
	return deps
}

// Sort returns an install order in which every package follows its
// dependencies. See [TopologicalSort].
func (d *DAG) Sort() ([]string, error) {
	return TopologicalSort(d.Dependencies())
}

// FindCycle returns one dependency cycle as a path whose first and last
// elements are equal, or nil when the graph is acyclic.
func (d *DAG) FindCycle() []string {
	return findCycle(d.Dependencies())
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
