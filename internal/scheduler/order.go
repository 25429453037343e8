package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// PartiallyOrder gives every fixed node a sequence number so that a node that
// must run after another has the larger number.
func (s *Scheduler) PartiallyOrder(ctx context.Context, g *ir.Graph) error {
	logger := ctxlog.FromContext(ctx)

	var work []ir.NodeID
	for _, id := range g.Nodes() {
		if g.IsFixed(id) {
			work = append(work, id)
		}
	}
	logger.Debug("Partial order started.", "fixed_nodes", len(work))

	for len(work) > 0 {
		var deferred []ir.NodeID
		progressed := false

		for _, id := range work {
			if g.Op(id) == ir.OpStart {
				g.Props(id)[ir.PropSequence] = 0
				progressed = true
				continue
			}

			preds := g.ControlPredecessors(id)
			if len(preds) == 0 {
				return fmt.Errorf("%w: fixed node %s has no control predecessor", ErrMissingSequence, g.Node(id))
			}

			highest, ready := highestSequence(g, preds)
			if !ready {
				deferred = append(deferred, id)
				continue
			}
			g.Props(id)[ir.PropSequence] = highest + 1
			progressed = true
		}

		if !progressed {
			return fmt.Errorf("%w: %d fixed nodes never became ready, first %s", ErrCyclicControl, len(deferred), g.Node(deferred[0]))
		}
		work = deferred
	}

	logger.Debug("Partial order finished.")
	return nil
}

// highestSequence returns the largest sequence among nodes, or false if any of
// them has not been sequenced yet.
func highestSequence(g *ir.Graph, ids []ir.NodeID) (int, bool) {
	highest := -1
	for _, id := range ids {
		seq, ok := g.Props(id).Int(ir.PropSequence)
		if !ok {
			return 0, false
		}
		highest = max(highest, seq)
	}
	return highest, true
}
