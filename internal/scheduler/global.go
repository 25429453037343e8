package scheduler

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// GlobalSchedule anchors every floating node to a globally scheduled node with
// a global_schedule edge. It requires PartiallyOrder to have run.
//
// A floating node is placed once all its consumers are placed. Among the legal
// anchors, the one whose fixed anchor has the highest sequence wins; ties go to
// the lowest node ID.
func (s *Scheduler) GlobalSchedule(ctx context.Context, g *ir.Graph) error {
	logger := ctxlog.FromContext(ctx)

	var work []ir.NodeID
	for _, id := range g.Nodes() {
		if g.IsFloating(id) {
			work = append(work, id)
		}
	}
	logger.Debug("Global schedule started.", "floating_nodes", len(work))

	for len(work) > 0 {
		var deferred []ir.NodeID
		progressed := false

		for _, id := range work {
			if !readyToSchedule(g, id) {
				deferred = append(deferred, id)
				continue
			}

			candidates, err := scheduleCandidates(g, id)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				return fmt.Errorf("%w: no anchor for %s", ErrStuck, g.Node(id))
			}

			anchor, err := bestCandidate(g, candidates)
			if err != nil {
				return err
			}
			g.Connect(id, anchor, ir.GlobalSchedule())
			progressed = true
			logger.Debug("Node anchored.", "node", g.Node(id).String(), "anchor", g.Node(anchor).String())
		}

		if !progressed {
			return fmt.Errorf("%w: %d floating nodes never became ready, first %s", ErrStuck, len(deferred), g.Node(deferred[0]))
		}
		work = deferred
	}

	logger.Debug("Global schedule finished.")
	return nil
}

// globallyScheduled reports whether a node is fixed or already anchored.
func globallyScheduled(g *ir.Graph, id ir.NodeID) bool {
	return g.IsFixed(id) || len(g.OutputsNamed(id, ir.RoleGlobalSchedule)) > 0
}

// readyToSchedule reports whether every place the node's value is used has
// been placed.
func readyToSchedule(g *ir.Graph, id ir.NodeID) bool {
	for _, site := range g.UseSites(id) {
		if !globallyScheduled(g, site) {
			return false
		}
	}
	return true
}

// scheduleCandidates returns every node the floating node may be anchored to,
// in ascending ID order. A node used in a single place is anchored there.
func scheduleCandidates(g *ir.Graph, id ir.NodeID) ([]ir.NodeID, error) {
	consumers := uniqueNodes(g.UseSites(id))
	switch len(consumers) {
	case 0:
		return nil, fmt.Errorf("%w: %s has no consumers", ErrStuck, g.Node(id))
	case 1:
		return consumers, nil
	}

	inputs := uniqueNodes(g.ValueInputs(id))

	var candidates []ir.NodeID
	for _, candidate := range g.Nodes() {
		if candidate == id || g.Op(candidate) == ir.OpStart || !globallyScheduled(g, candidate) {
			continue
		}
		ok, err := validCandidate(g, candidate, inputs, consumers)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

// validCandidate reports whether control can flow from every scheduled input
// to the candidate, and from the candidate to every scheduled consumer.
func validCandidate(g *ir.Graph, candidate ir.NodeID, inputs, consumers []ir.NodeID) (bool, error) {
	for _, input := range inputs {
		if !globallyScheduled(g, input) {
			continue
		}
		ok, err := pathFromTo(g, input, candidate)
		if err != nil || !ok {
			return false, err
		}
	}
	for _, consumer := range consumers {
		if !globallyScheduled(g, consumer) {
			continue
		}
		ok, err := pathFromTo(g, candidate, consumer)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// pathFromTo reports whether a control-flow path leads from the fixed anchor of
// a to the fixed anchor of b. A node reaches itself.
func pathFromTo(g *ir.Graph, a, b ir.NodeID) (bool, error) {
	from, err := FixedAnchor(g, a)
	if err != nil {
		return false, err
	}
	to, err := FixedAnchor(g, b)
	if err != nil {
		return false, err
	}

	stack := []ir.NodeID{from}
	visited := make(map[ir.NodeID]struct{})
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true, nil
		}
		if _, seen := visited[n]; seen {
			continue
		}
		visited[n] = struct{}{}
		stack = append(stack, g.ControlSuccessors(n)...)
	}
	return false, nil
}

// bestCandidate picks the candidate whose fixed anchor has the highest
// sequence number. Candidates arrive in ascending ID order, so the first of
// equal candidates is kept.
func bestCandidate(g *ir.Graph, candidates []ir.NodeID) (ir.NodeID, error) {
	best, bestSeq := ir.NoNode, -1
	for _, candidate := range candidates {
		anchor, err := FixedAnchor(g, candidate)
		if err != nil {
			return ir.NoNode, err
		}
		seq, err := Sequence(g, anchor)
		if err != nil {
			return ir.NoNode, err
		}
		if seq > bestSeq {
			best, bestSeq = candidate, seq
		}
	}
	return best, nil
}

// uniqueNodes returns the distinct IDs in ascending order.
func uniqueNodes(ids []ir.NodeID) []ir.NodeID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
