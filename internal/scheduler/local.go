package scheduler

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// LocalSchedule chains the nodes of every basic block with local_schedule
// edges. It requires GlobalSchedule to have run.
func (s *Scheduler) LocalSchedule(ctx context.Context, g *ir.Graph) error {
	logger := ctxlog.FromContext(ctx)

	owner := make(map[ir.NodeID]ir.NodeID)
	blocks := 0
	for _, first := range g.Nodes() {
		if !g.BeginsBlock(first) {
			continue
		}

		members := NodesInBlock(g, first)
		for _, id := range members {
			if isTerminalMerge(g, first, id) {
				continue
			}
			if prev, ok := owner[id]; ok {
				return fmt.Errorf("%w: %s belongs to blocks starting at %s and %s", ErrBlockOrder, g.Node(id), g.Node(prev), g.Node(first))
			}
			owner[id] = first
		}

		if err := scheduleBlock(g, first, members); err != nil {
			return err
		}
		blocks++
		logger.Debug("Block scheduled.", "first", g.Node(first).String(), "nodes", len(members))
	}

	logger.Debug("Local schedule finished.", "blocks", blocks)
	return nil
}

// NodesInBlock returns the nodes of the basic block that first begins, in
// ascending ID order.
//
// The walk follows inbound global_schedule edges and outbound control edges.
// It stops at a branch, and at a merge other than first: such a merge ends
// this block and begins its own. A start→finish edge is only followed when it
// is finish's sole control input.
func NodesInBlock(g *ir.Graph, first ir.NodeID) []ir.NodeID {
	stack := []ir.NodeID{first}
	block := make(map[ir.NodeID]struct{})

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := block[n]; seen {
			continue
		}
		block[n] = struct{}{}

		if isTerminalMerge(g, first, n) {
			continue
		}

		for _, e := range g.InputsNamed(n, ir.RoleGlobalSchedule) {
			stack = append(stack, e.From)
		}

		if g.Op(n) == ir.OpBranch {
			continue
		}
		for _, e := range g.OutputsWhere(n, ir.Role.IsControl) {
			if g.Op(n) == ir.OpStart && g.Op(e.To) == ir.OpFinish && len(g.ControlPredecessors(e.To)) > 1 {
				continue
			}
			stack = append(stack, e.To)
		}
	}

	ids := make([]ir.NodeID, 0, len(block))
	for id := range block {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func isTerminalMerge(g *ir.Graph, first, id ir.NodeID) bool {
	return id != first && g.Op(id) == ir.OpMerge
}

// isTerminator reports whether a node must be the last one of the block that
// first begins.
func isTerminator(g *ir.Graph, first, id ir.NodeID) bool {
	switch g.Op(id) {
	case ir.OpBranch, ir.OpFinish:
		return true
	case ir.OpMerge:
		return id != first
	}
	return false
}

// scheduleBlock orders members starting from first. A node is ready once all
// its inputs from inside the block are ordered. The lowest-ID ready node goes
// next; the block terminator, if any, goes last.
func scheduleBlock(g *ir.Graph, first ir.NodeID, members []ir.NodeID) error {
	inBlock := make(map[ir.NodeID]struct{}, len(members))
	for _, id := range members {
		inBlock[id] = struct{}{}
	}

	terminator := ir.NoNode
	for _, id := range members {
		if id == first || !isTerminator(g, first, id) {
			continue
		}
		if terminator != ir.NoNode {
			return fmt.Errorf("%w: block starting at %s ends at both %s and %s", ErrBlockOrder, g.Node(first), g.Node(terminator), g.Node(id))
		}
		terminator = id
	}

	scheduled := map[ir.NodeID]struct{}{first: {}}
	ready := func(id ir.NodeID) bool {
		for _, e := range g.Inputs(id) {
			if e.Role.Name == ir.RoleLocalSchedule {
				continue
			}
			// Nodes anchored to the first node still run after it.
			if id == first && e.Role.Name == ir.RoleGlobalSchedule {
				continue
			}
			if _, ok := inBlock[e.From]; !ok {
				continue
			}
			if _, ok := scheduled[e.From]; !ok {
				return false
			}
		}
		return true
	}

	if !ready(first) {
		return fmt.Errorf("%w: %s begins its block but depends on nodes inside it", ErrBlockOrder, g.Node(first))
	}

	pending := slices.DeleteFunc(slices.Clone(members), func(id ir.NodeID) bool {
		return id == first
	})

	tail := first
	for len(pending) > 0 {
		next := -1
		for i, id := range pending {
			if id == terminator && len(pending) > 1 {
				continue
			}
			if ready(id) {
				next = i
				break
			}
		}
		if next < 0 {
			return fmt.Errorf("%w: no ready node among %d left in block starting at %s", ErrBlockOrder, len(pending), g.Node(first))
		}

		id := pending[next]
		g.Connect(tail, id, ir.LocalSchedule())
		scheduled[id] = struct{}{}
		tail = id
		pending = slices.Delete(pending, next, next+1)
	}
	return nil
}
