package passes

import (
	"fmt"
	"sort"
)

// Registry maps pass names to passes.
type Registry struct {
	passes map[string]Pass
}

// NewRegistry creates a registry holding the built-in passes.
func NewRegistry() *Registry {
	r := &Registry{passes: make(map[string]Pass)}
	r.Register(DeadCode{})
	r.Register(NoChoicePhis{})
	r.Register(TaggingLowering{})
	return r
}

// Register adds a pass under its name. Registering a name twice is a
// programmer error.
func (r *Registry) Register(p Pass) {
	if _, exists := r.passes[p.Name()]; exists {
		panic(fmt.Sprintf("passes: pass %q registered twice", p.Name()))
	}
	r.passes[p.Name()] = p
}

// Names returns the registered pass names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.passes))
	for name := range r.passes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runner builds a runner applying the named passes in the given order.
func (r *Registry) Runner(names []string) (*Runner, error) {
	list := make([]Pass, 0, len(names))
	for _, name := range names {
		p, ok := r.passes[name]
		if !ok {
			return nil, fmt.Errorf("unknown pass %q, available: %v", name, r.Names())
		}
		list = append(list, p)
	}
	return NewRunner(list...), nil
}

// Has reports whether a pass is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.passes[name]
	return ok
}
