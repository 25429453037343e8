package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/linear"
	"golang.org/x/sync/errgroup"
)

// Run compiles every loaded graph and writes the listings in load order.
// Graphs are compiled concurrently, at most Workers at a time. The first
// failure cancels the rest and nothing is written.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if len(a.model.Graphs) == 0 {
		a.logger.Warn("No graphs found, nothing to compile.", "path", a.cfg.GraphPath)
		return nil
	}

	listings := make([]linear.Listing, len(a.model.Graphs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.cfg.Workers)
	for i, cg := range a.model.Graphs {
		i, cg := i, cg
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			blocks, err := a.compile(ctxlog.With(egCtx, "graph", cg.Name), cg)
			if err != nil {
				return fmt.Errorf("graph %q: %w", cg.Name, err)
			}
			listings[i] = linear.Listing{Graph: cg.Name, Blocks: blocks}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	a.logger.Info("Graphs compiled.", "count", len(listings))

	if err := a.write(listings); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) compile(ctx context.Context, cg *config.Graph) ([]linear.Block, error) {
	g, err := a.builder.Build(ctx, cg)
	if err != nil {
		return nil, err
	}
	return a.pipeline.Compile(ctx, g)
}

func (a *App) write(listings []linear.Listing) error {
	if a.cfg.OutPath == "" {
		return linear.Write(a.outW, a.format, listings)
	}

	f, err := os.Create(a.cfg.OutPath)
	if err != nil {
		return err
	}
	if err := linear.Write(f, a.format, listings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
