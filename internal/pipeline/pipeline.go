package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
	"github.com/vk/seasched/internal/linear"
	"github.com/vk/seasched/internal/passes"
	"github.com/vk/seasched/internal/scheduler"
)

// Pipeline compiles graphs. It holds no per-graph state and may be shared by
// concurrent callers as long as each passes its own graph.
type Pipeline struct {
	runner    *passes.Runner
	fixpoint  bool
	maxRounds int
	scheduler *scheduler.Scheduler
}

// New builds a pipeline from settings, resolving pass names in reg.
func New(s *Settings, reg *passes.Registry) (*Pipeline, error) {
	runner, err := reg.Runner(s.Pipeline.Passes)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		runner:    runner,
		fixpoint:  s.Pipeline.Fixpoint,
		maxRounds: s.Pipeline.MaxIterations,
		scheduler: scheduler.New(),
	}, nil
}

// Passes returns the names of the passes run before scheduling.
func (p *Pipeline) Passes() []string {
	return p.runner.Passes()
}

// Compile rewrites, schedules and linearizes g in place. On error the graph
// is left in whatever state the failing stage reached.
func (p *Pipeline) Compile(ctx context.Context, g *ir.Graph) ([]linear.Block, error) {
	logger := ctxlog.FromContext(ctx)

	if p.fixpoint {
		if _, err := passes.Fixpoint(ctx, p.runner, g, p.maxRounds); err != nil {
			return nil, err
		}
	} else if _, err := p.runner.Run(ctx, g); err != nil {
		return nil, err
	}

	if err := p.scheduler.Schedule(ctx, g); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	blocks, err := linear.Linearize(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("linearize: %w", err)
	}
	logger.Debug("Graph compiled.", "nodes", g.Len(), "blocks", len(blocks))
	return blocks, nil
}
