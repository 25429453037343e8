package hcl

import (
	"fmt"

	"github.com/vk/seasched/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ToGoValue converts a known, non-null primitive into a Go literal. Whole
// numbers become int64, other numbers float64.
func (c *Converter) ToGoValue(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("property value must be known and not null")
	}

	switch ty := v.Type(); {
	case ty.Equals(cty.Number):
		if v.AsBigFloat().IsInt() {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err != nil {
				return nil, err
			}
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil

	case ty.Equals(cty.Bool):
		var b bool
		err := gocty.FromCtyValue(v, &b)
		return b, err

	case ty.Equals(cty.String):
		var s string
		err := gocty.FromCtyValue(v, &s)
		return s, err
	}

	return nil, fmt.Errorf("unsupported property type %s", v.Type().FriendlyName())
}

var _ config.Converter = (*Converter)(nil)
