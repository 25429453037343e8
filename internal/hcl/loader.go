package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/fsutil"
	"github.com/vk/seasched/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and collects their graph
// blocks. Files are read in sorted order, so graph order is stable.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	seen := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, g := range root.Graphs {
			if prev, dup := seen[g.Name]; dup {
				return nil, nil, fmt.Errorf("graph %q in %s is already defined in %s", g.Name, file, prev)
			}
			seen[g.Name] = file

			graph, err := l.translateGraph(g, file)
			if err != nil {
				return nil, nil, err
			}
			model.Graphs = append(model.Graphs, graph)
		}
	}

	logger.Debug("HCL loading complete.", "graphs", len(model.Graphs))
	return model, NewConverter(), nil
}

var _ config.Loader = (*Loader)(nil)
