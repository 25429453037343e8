package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// Scheduler annotates a graph with a complete execution order.
//
// A Scheduler holds no state between calls; one value may schedule any number
// of graphs, but never the same graph twice.
type Scheduler struct{}

// New creates a scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Schedule runs the partial order, global schedule and local schedule phases.
func (s *Scheduler) Schedule(ctx context.Context, g *ir.Graph) error {
	logger := ctxlog.FromContext(ctx)

	if err := checkSchedulable(g); err != nil {
		return err
	}

	if err := s.PartiallyOrder(ctx, g); err != nil {
		return fmt.Errorf("partial order: %w", err)
	}
	if err := s.GlobalSchedule(ctx, g); err != nil {
		return fmt.Errorf("global schedule: %w", err)
	}
	if err := s.LocalSchedule(ctx, g); err != nil {
		return fmt.Errorf("local schedule: %w", err)
	}

	logger.Debug("Graph scheduled.", "nodes", g.Len())
	return nil
}

func checkSchedulable(g *ir.Graph) error {
	if starts := g.FindNodes(ir.OpStart); len(starts) != 1 {
		return fmt.Errorf("%w: found %d", ErrNoStart, len(starts))
	}
	for _, id := range g.Nodes() {
		for _, e := range g.Outputs(id) {
			if e.Role.IsSchedule() {
				return fmt.Errorf("%w: %s", ErrAlreadyScheduled, e)
			}
		}
	}
	return nil
}

// Sequence returns the sequence number of a fixed node.
func Sequence(g *ir.Graph, id ir.NodeID) (int, error) {
	seq, ok := g.Props(id).Int(ir.PropSequence)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingSequence, g.Node(id))
	}
	return seq, nil
}

// FixedAnchor follows global schedule edges from a node until it reaches a
// fixed node. A fixed node is its own anchor.
func FixedAnchor(g *ir.Graph, id ir.NodeID) (ir.NodeID, error) {
	start := id
	for steps := 0; steps <= g.Len(); steps++ {
		if g.IsFixed(id) {
			return id, nil
		}
		edges := g.OutputsNamed(id, ir.RoleGlobalSchedule)
		if len(edges) == 0 {
			return ir.NoNode, fmt.Errorf("%w: %s is not anchored", ErrMissingSchedule, g.Node(id))
		}
		if len(edges) > 1 {
			return ir.NoNode, fmt.Errorf("%w: %s has %d global schedule edges", ErrMissingAnchor, g.Node(id), len(edges))
		}
		id = edges[0].To
	}
	return ir.NoNode, fmt.Errorf("%w: anchor chain from %s does not end", ErrMissingAnchor, g.Node(start))
}
