package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific graph description loader.
type Loader interface {
	// Load reads graph descriptions from the given paths, translates them into
	// the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter turns the format's property values into plain Go literals.
type Converter interface {
	// ToGoValue converts a property value into an int64, float64, string or
	// bool.
	ToGoValue(v cty.Value) (any, error)
}
