package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateGraph converts the HCL-specific graph schema into the agnostic model.
func (l *Loader) translateGraph(s *schema.Graph, file string) (*config.Graph, error) {
	g := &config.Graph{Name: s.Name, Source: file}
	for _, n := range s.Nodes {
		node, err := l.translateNode(n)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", s.Name, err)
		}
		g.Nodes = append(g.Nodes, node)
	}
	return g, nil
}

// translateNode converts a node block. Every attribute of the block is a
// property and must be a constant expression.
func (l *Loader) translateNode(s *schema.Node) (*config.Node, error) {
	n := &config.Node{
		Op:    s.Op,
		Name:  s.Name,
		Props: make(map[string]cty.Value),
	}

	if s.Props != nil {
		attrs, diags := s.Props.JustAttributes()
		if diags := withoutBlockErrors(diags); diags.HasErrors() {
			return nil, fmt.Errorf("node %q: %w", s.Name, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("node %q: property %q: %w", s.Name, name, diags)
			}
			n.Props[name] = val
		}
	}

	for _, in := range s.Inputs {
		n.Inputs = append(n.Inputs, &config.Input{Role: in.Role, From: in.From})
	}
	return n, nil
}

// withoutBlockErrors drops the complaint JustAttributes makes about input
// blocks, which gohcl has already decoded into the node's inputs.
func withoutBlockErrors(diags hcl.Diagnostics) hcl.Diagnostics {
	var kept hcl.Diagnostics
	for _, d := range diags {
		if d.Summary == `Unexpected "input" block` {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
