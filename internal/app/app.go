package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/seasched/internal/builder"
	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/passes"
	"github.com/vk/seasched/internal/pipeline"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	model    *config.Model
	builder  *builder.Builder
	pipeline *pipeline.Pipeline
	format   string
}

// NewApp is the constructor for the main application. Listings are written to
// outW and logs to logW. It loads the graph descriptions and the pipeline
// settings up front, so a returned App is ready to run.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load graphs: %w", err)
	}
	logger.Debug("Graph descriptions loaded.", "graphs", len(model.Graphs))

	reg := passes.NewRegistry()
	settings, err := pipeline.LoadSettings(cfg.SettingsPath, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if cfg.Format != "" {
		settings.Output.Format = cfg.Format
	}

	p, err := pipeline.New(settings, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	logger.Debug("Pipeline configured.", "passes", p.Passes(), "fixpoint", settings.Pipeline.Fixpoint, "format", settings.Output.Format)

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		model:    model,
		builder:  builder.New(converter),
		pipeline: p,
		format:   settings.Output.Format,
	}, nil
}

// Graphs returns the names of the loaded graphs in load order.
func (a *App) Graphs() []string {
	names := make([]string, 0, len(a.model.Graphs))
	for _, g := range a.model.Graphs {
		names = append(names, g.Name)
	}
	return names
}
