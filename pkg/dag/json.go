package dag

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonGraph struct {
	Meta  Metadata   `json:"meta,omitempty"`
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID      string   `json:"id"`
	Version string   `json:"version,omitempty"`
	Meta    Metadata `json:"meta,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes d as an indented document of nodes and edges in
// insertion order. [ReadJSON] reads it back.
func WriteJSON(d *DAG, w io.Writer) error {
	out := jsonGraph{
		Meta:  d.meta,
		Nodes: make([]jsonNode, 0, d.NodeCount()),
		Edges: make([]jsonEdge, 0, d.EdgeCount()),
	}
	for _, n := range d.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{ID: n.ID, Version: n.Version, Meta: n.Meta})
	}
	for _, e := range d.edges {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by [WriteJSON]:
//
//	{
//	  "nodes": [{"id": "a", "version": "1.0.0"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Duplicate node IDs and edges naming unknown nodes are errors, reported
// with the offending node or edge.
func ReadJSON(r io.Reader) (*DAG, error) {
	var in jsonGraph
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	d := New(in.Meta)
	for _, n := range in.Nodes {
		if err := d.AddNode(Node{ID: n.ID, Version: n.Version, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		if err := d.AddEdge(Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return d, nil
}
