package passes

import (
	"context"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// NoChoicePhis removes phis that choose between copies of one value. Their
// consumers read the value directly.
//
// A phi is kept if it has control outputs, or if the value it forwards
// consumes the phi itself.
type NoChoicePhis struct{}

// Name implements Pass.
func (NoChoicePhis) Name() string { return "no_choice_phis" }

// Run implements Pass.
func (NoChoicePhis) Run(ctx context.Context, g *ir.Graph) (bool, error) {
	removed := 0
	for _, phi := range g.FindNodes(ir.OpPhi) {
		src, ok := soleChoice(g, phi)
		if !ok {
			continue
		}
		g.ReplaceUses(phi, src)
		g.Remove(phi)
		removed++
	}

	if removed > 0 {
		ctxlog.FromContext(ctx).Debug("No-choice phis removed.", "count", removed)
	}
	return removed > 0, nil
}

func soleChoice(g *ir.Graph, phi ir.NodeID) (ir.NodeID, bool) {
	values := g.ValueInputs(phi)
	if len(values) == 0 || g.HasControlOutput(phi) {
		return ir.NoNode, false
	}
	src := values[0]
	for _, v := range values[1:] {
		if v != src {
			return ir.NoNode, false
		}
	}
	if src == phi {
		return ir.NoNode, false
	}
	for _, c := range g.Consumers(phi) {
		if c == src {
			return ir.NoNode, false
		}
	}
	return src, true
}
