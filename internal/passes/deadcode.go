package passes

import (
	"context"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// DeadCode removes floating nodes whose value nobody uses. Removing a node can
// leave its inputs unused, so it sweeps until nothing more goes.
type DeadCode struct{}

// Name implements Pass.
func (DeadCode) Name() string { return "dead_code" }

// Run implements Pass.
func (DeadCode) Run(ctx context.Context, g *ir.Graph) (bool, error) {
	removed := 0
	for {
		var dead []ir.NodeID
		for _, id := range g.Nodes() {
			if g.IsFloating(id) && len(g.Outputs(id)) == 0 {
				dead = append(dead, id)
			}
		}
		if len(dead) == 0 {
			break
		}
		for _, id := range dead {
			g.Remove(id)
		}
		removed += len(dead)
	}

	if removed > 0 {
		ctxlog.FromContext(ctx).Debug("Dead nodes removed.", "count", removed)
	}
	return removed > 0, nil
}
