package passes

import (
	"context"
	"fmt"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// KindFixnum is the kind property value of a small-integer kind test.
const KindFixnum = "fixnum"

// TaggingLowering replaces small-integer operations with machine-integer
// operations surrounded by explicit untag and tag conversions.
//
//	kind_is(fixnum)  → is_tagged_fixnum
//	fixnum_add(a, b) → tag_fixnum(int64_add(untag_fixnum(a), untag_fixnum(b)))
//
// When the add is in control flow, each new tag node is also put in control
// flow between the add and the add's control successor, so it runs right after
// the add.
//
// An add without exactly two value inputs is a malformed match. It is
// reported before anything is rewritten, so the graph is left untouched.
type TaggingLowering struct{}

// Name implements Pass.
func (TaggingLowering) Name() string { return "tagging_lowering" }

// Run implements Pass.
func (TaggingLowering) Run(ctx context.Context, g *ir.Graph) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	modified := false

	adds := g.FindNodes(ir.OpFixnumAdd)
	for _, add := range adds {
		if err := checkFixnumAdd(g, add); err != nil {
			return false, err
		}
	}

	for _, id := range g.FindNodes(ir.OpKindIs) {
		if kind, _ := g.Props(id).String(ir.PropKind); kind != KindFixnum {
			continue
		}
		g.Replace(id, g.AddNode(ir.OpIsTaggedFixnum, carriedProps(g, id)))
		modified = true
	}

	for _, add := range adds {
		lowerFixnumAdd(g, add)
		modified = true
	}

	logger.Debug("Tagging lowered.", "modified", modified)
	return modified, nil
}

// checkFixnumAdd rejects an add that does not have exactly two value inputs.
// Every add is checked before the graph is touched.
func checkFixnumAdd(g *ir.Graph, add ir.NodeID) error {
	if inputs := g.InputsWhere(add, ir.Role.IsValue); len(inputs) != 2 {
		return fmt.Errorf("%w: %s has %d value inputs, want 2", ErrMalformedMatch, g.Node(add), len(inputs))
	}
	return nil
}

func lowerFixnumAdd(g *ir.Graph, add ir.NodeID) {
	for _, e := range g.InputsWhere(add, ir.Role.IsValue) {
		g.Interdict(e, g.AddNode(ir.OpUntagFixnum, nil))
	}

	var tags []ir.NodeID
	for _, e := range g.OutputsWhere(add, ir.Role.IsValue) {
		tag := g.AddNode(ir.OpTagFixnum, nil)
		g.Interdict(e, tag)
		tags = append(tags, tag)
	}

	if g.HasControlOutput(add) {
		next := g.ControlSuccessors(add)[0]
		for _, tag := range tags {
			g.Connect(add, tag, ir.Control())
			g.Connect(tag, next, ir.Control())
		}
	}

	g.Replace(add, g.AddNode(ir.OpInt64Add, carriedProps(g, add)))
}

// carriedProps copies the properties a lowered node keeps from the node it
// replaces.
func carriedProps(g *ir.Graph, id ir.NodeID) ir.Props {
	props := ir.Props{}
	if line, ok := g.Props(id)[ir.PropLine]; ok {
		props[ir.PropLine] = line
	}
	return props
}
