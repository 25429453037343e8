package ir

import "maps"

// Prop is the name of a node property.
type Prop string

const (
	PropSequence Prop = "sequence"
	PropRegister Prop = "register"
	PropKind     Prop = "kind"
	PropLine     Prop = "line"
	PropN        Prop = "n"
	PropValue    Prop = "value"
	PropName     Prop = "name"
	PropArgc     Prop = "argc"
)

// Props maps property names to literal values. Values are int, int64,
// float64, string or bool.
type Props map[Prop]any

// Has reports whether the property is set.
func (p Props) Has(key Prop) bool {
	_, ok := p[key]
	return ok
}

// Int returns an integral property.
func (p Props) Int(key Prop) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	}
	return 0, false
}

// String returns a string property.
func (p Props) String(key Prop) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Clone returns a shallow copy. Property values are immutable literals.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	return maps.Clone(p)
}
