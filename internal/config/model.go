package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified, format-agnostic representation of every graph found
// in the loaded files.
type Model struct {
	Graphs []*Graph
}

// Graph is the format-agnostic representation of a `graph` block.
type Graph struct {
	Name string
	// Source is the file the graph was read from.
	Source string
	Nodes  []*Node
}

// Node is one node of a graph. Nodes are referred to by name within their
// graph.
type Node struct {
	Op     string
	Name   string
	Props  map[string]cty.Value
	Inputs []*Input
}

// Input is an inbound edge: the node named From feeds this node under Role,
// written in its textual form, e.g. `value(1)`.
type Input struct {
	Role string
	From string
}

// Lookup returns the graph with the given name, or nil.
func (m *Model) Lookup(name string) *Graph {
	for _, g := range m.Graphs {
		if g.Name == name {
			return g
		}
	}
	return nil
}
