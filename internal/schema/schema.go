// Package schema holds the HCL decoding targets for graph description files.
package schema

import "github.com/hashicorp/hcl/v2"

// File is the top-level structure of a graph description file.
type File struct {
	Graphs []*Graph `hcl:"graph,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Graph represents a `graph` block.
type Graph struct {
	Name  string  `hcl:"name,label"`
	Nodes []*Node `hcl:"node,block"`
}

// Node represents a `node` block. Attributes left in Props are the node's
// properties.
type Node struct {
	Op     string   `hcl:"op,label"`
	Name   string   `hcl:"name,label"`
	Inputs []*Input `hcl:"input,block"`
	Props  hcl.Body `hcl:",remain"`
}

// Input represents an `input` block: one inbound edge of a node.
type Input struct {
	Role string `hcl:"role,label"`
	From string `hcl:"from"`
}
