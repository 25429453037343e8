package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// ErrInvalidGraph is wrapped by every error caused by the description itself.
var ErrInvalidGraph = errors.New("invalid graph")

// Builder turns graph descriptions into graphs.
type Builder struct {
	conv config.Converter
}

// New creates a builder that converts property values with conv.
func New(conv config.Converter) *Builder {
	return &Builder{conv: conv}
}

// Build creates the graph described by cg.
func (b *Builder) Build(ctx context.Context, cg *config.Graph) (*ir.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	g := ir.New()
	ids, err := b.createNodes(g, cg)
	if err != nil {
		return nil, err
	}
	if err := linkInputs(g, cg, ids); err != nil {
		return nil, err
	}
	if starts := g.FindNodes(ir.OpStart); len(starts) != 1 {
		return nil, fmt.Errorf("%w %q: want exactly one start node, found %d", ErrInvalidGraph, cg.Name, len(starts))
	}

	logger.Debug("Graph built.", "graph", cg.Name, "nodes", g.Len())
	return g, nil
}

// createNodes adds one node per description, in declaration order.
func (b *Builder) createNodes(g *ir.Graph, cg *config.Graph) (map[string]ir.NodeID, error) {
	ids := make(map[string]ir.NodeID, len(cg.Nodes))
	for _, n := range cg.Nodes {
		if _, dup := ids[n.Name]; dup {
			return nil, fmt.Errorf("%w %q: node %q is defined twice", ErrInvalidGraph, cg.Name, n.Name)
		}
		op, err := ir.ParseOp(n.Op)
		if err != nil {
			return nil, fmt.Errorf("%w %q: node %q: %w", ErrInvalidGraph, cg.Name, n.Name, err)
		}
		props, err := b.convertProps(n)
		if err != nil {
			return nil, fmt.Errorf("%w %q: node %q: %w", ErrInvalidGraph, cg.Name, n.Name, err)
		}
		ids[n.Name] = g.AddNode(op, props)
	}
	return ids, nil
}

// convertProps converts property values in sorted key order so conversion
// errors are reported deterministically.
func (b *Builder) convertProps(n *config.Node) (ir.Props, error) {
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make(ir.Props, len(keys))
	for _, k := range keys {
		v, err := b.conv.ToGoValue(n.Props[k])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		props[ir.Prop(k)] = v
	}
	return props, nil
}

func linkInputs(g *ir.Graph, cg *config.Graph, ids map[string]ir.NodeID) error {
	for _, n := range cg.Nodes {
		to := ids[n.Name]
		for _, in := range n.Inputs {
			from, ok := ids[in.From]
			if !ok {
				return fmt.Errorf("%w %q: node %q: input from unknown node %q", ErrInvalidGraph, cg.Name, n.Name, in.From)
			}
			role, err := ir.ParseRole(in.Role)
			if err != nil {
				return fmt.Errorf("%w %q: node %q: %w", ErrInvalidGraph, cg.Name, n.Name, err)
			}
			if role.IsValue() && !g.ProducesValue(from) {
				return fmt.Errorf("%w %q: node %q: %s input from %q, which produces no value", ErrInvalidGraph, cg.Name, n.Name, role, in.From)
			}
			g.Connect(from, to, role)
		}
	}
	return nil
}
