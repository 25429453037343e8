package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vk/seasched/internal/passes"
)

// Settings is the content of a pipeline settings file.
type Settings struct {
	Pipeline PassSettings   `toml:"pipeline"`
	Output   OutputSettings `toml:"output"`
}

// PassSettings selects the passes run before scheduling.
type PassSettings struct {
	Passes        []string `toml:"passes"`
	Fixpoint      bool     `toml:"fixpoint"`
	MaxIterations int      `toml:"max_iterations"`
}

// OutputSettings selects how listings are written.
type OutputSettings struct {
	Format string `toml:"format"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() *Settings {
	return &Settings{
		Pipeline: PassSettings{
			Passes:        []string{"dead_code", "no_choice_phis", "tagging_lowering"},
			MaxIterations: 8,
		},
		Output: OutputSettings{Format: "text"},
	}
}

// LoadSettings reads a settings file over the defaults. Keys absent from the
// file keep their default. An empty path or a missing file yields the
// defaults.
func LoadSettings(path string, reg *passes.Registry) (*Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}

	md, err := toml.DecodeFile(path, s)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown settings in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := s.Validate(reg); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the settings against the registered passes.
func (s *Settings) Validate(reg *passes.Registry) error {
	for _, name := range s.Pipeline.Passes {
		if !reg.Has(name) {
			return fmt.Errorf("unknown pass %q, available: %v", name, reg.Names())
		}
	}
	if s.Pipeline.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", s.Pipeline.MaxIterations)
	}
	switch s.Output.Format {
	case "text", "cbor":
	default:
		return fmt.Errorf("unknown output format %q: must be 'text' or 'cbor'", s.Output.Format)
	}
	return nil
}
