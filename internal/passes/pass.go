package passes

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// ErrMalformedMatch is returned when a pass finds a node it rewrites but the
// node's surroundings are not the shape the rewrite requires.
var ErrMalformedMatch = errors.New("malformed match")

// Pass is one graph rewrite.
type Pass interface {
	// Name is the name the pass is registered under.
	Name() string
	// Run rewrites the graph in place and reports whether it changed it.
	Run(ctx context.Context, g *ir.Graph) (bool, error)
}

// Runner applies a fixed list of passes once each, in order.
type Runner struct {
	passes []Pass
}

// NewRunner creates a runner for the given passes.
func NewRunner(passes ...Pass) *Runner {
	return &Runner{passes: passes}
}

// Passes returns the names of the runner's passes in order.
func (r *Runner) Passes() []string {
	names := make([]string, 0, len(r.passes))
	for _, p := range r.passes {
		names = append(names, p.Name())
	}
	return names
}

// Run applies every pass once and reports whether any of them changed the
// graph. It stops at the first failing pass.
func (r *Runner) Run(ctx context.Context, g *ir.Graph) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	modified := false
	for _, p := range r.passes {
		changed, err := p.Run(ctx, g)
		if err != nil {
			return modified, fmt.Errorf("pass %s: %w", p.Name(), err)
		}
		logger.Debug("Pass finished.", "pass", p.Name(), "modified", changed, "nodes", g.Len())
		modified = modified || changed
	}
	return modified, nil
}

// Fixpoint runs the runner until a round changes nothing or limit rounds have
// run. It returns the number of rounds run.
func Fixpoint(ctx context.Context, r *Runner, g *ir.Graph, limit int) (int, error) {
	logger := ctxlog.FromContext(ctx)

	rounds := 0
	for rounds < limit {
		rounds++
		changed, err := r.Run(ctx, g)
		if err != nil {
			return rounds, fmt.Errorf("round %d: %w", rounds, err)
		}
		if !changed {
			break
		}
	}
	logger.Debug("Passes settled.", "rounds", rounds)
	return rounds, nil
}
