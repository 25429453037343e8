package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode_AssignsSequentialHandles(t *testing.T) {
	g := New()

	a := g.AddNode(OpStart, nil)
	b := g.AddNode(OpPush, Props{PropValue: int64(3)})

	assert.Equal(t, NodeID(0), a)
	assert.Equal(t, NodeID(1), b)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []NodeID{a, b}, g.Nodes())

	v, ok := g.Props(b).Int(PropValue)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestConnect_StoresEdgeOnBothEnds(t *testing.T) {
	g := New()
	a := g.AddNode(OpPush, nil)
	b := g.AddNode(OpAdd, nil)

	e := g.Connect(a, b, ValueN(0))

	assert.Equal(t, []Edge{e}, g.Outputs(a))
	assert.Equal(t, []Edge{e}, g.Inputs(b))
	assert.Equal(t, []NodeID{b}, g.Consumers(a))
	assert.Equal(t, []NodeID{a}, g.ValueInputs(b))
}

func TestFindNodes_AscendingOrder(t *testing.T) {
	g := New()
	g.AddNode(OpStart, nil)
	p1 := g.AddNode(OpPush, nil)
	g.AddNode(OpAdd, nil)
	p2 := g.AddNode(OpPush, nil)

	assert.Equal(t, []NodeID{p1, p2}, g.FindNodes(OpPush))
	assert.Empty(t, g.FindNodes(OpMerge))
}

func TestReplace_MovesAllEdgesInPlace(t *testing.T) {
	// --- Arrange ---
	g := New()
	start := g.AddNode(OpStart, nil)
	x := g.AddNode(OpPush, nil)
	y := g.AddNode(OpPush, nil)
	old := g.AddNode(OpKindIs, Props{PropKind: "fixnum"})
	other := g.AddNode(OpPush, nil)
	user := g.AddNode(OpBranch, nil)

	g.Connect(x, old, Value())
	g.Connect(other, user, Value())
	g.Connect(old, user, Condition())
	g.Connect(start, user, Control())
	g.Connect(y, user, Value())

	// --- Act ---
	repl := g.AddNode(OpIsTaggedFixnum, nil)
	g.Replace(old, repl)

	// --- Assert ---
	assert.False(t, g.Has(old))
	assert.Nil(t, g.Node(old))
	assert.Equal(t, []Edge{{From: x, To: repl, Role: Value()}}, g.Inputs(repl))
	assert.Equal(t, []Edge{{From: repl, To: user, Role: Condition()}}, g.Outputs(repl))
	assert.Equal(t, []Edge{{From: x, To: repl, Role: Value()}}, g.Outputs(x))

	// The condition edge keeps its slot between the two value edges.
	assert.Equal(t, []Edge{
		{From: other, To: user, Role: Value()},
		{From: repl, To: user, Role: Condition()},
		{From: start, To: user, Role: Control()},
		{From: y, To: user, Role: Value()},
	}, g.Inputs(user))
}

func TestReplaceUses_MovesValueOutputsOnly(t *testing.T) {
	g := New()
	merge := g.AddNode(OpMerge, nil)
	x := g.AddNode(OpPush, nil)
	phi := g.AddNode(OpPhi, nil)
	y := g.AddNode(OpPush, nil)
	add := g.AddNode(OpAdd, nil)
	ret := g.AddNode(OpFinish, nil)

	g.Connect(merge, phi, Control())
	g.Connect(x, phi, ValueN(0))
	g.Connect(y, add, ValueN(0))
	g.Connect(phi, add, ValueN(1))
	g.Connect(merge, ret, Control())
	g.Connect(add, ret, Value())

	g.ReplaceUses(phi, x)

	assert.Equal(t, []Edge{
		{From: y, To: add, Role: ValueN(0)},
		{From: x, To: add, Role: ValueN(1)},
	}, g.Inputs(add))
	assert.Empty(t, g.Outputs(phi))
	assert.Len(t, g.Inputs(phi), 2)
	assert.Equal(t, []NodeID{phi, add}, g.Consumers(x))
	assert.Panics(t, func() { g.ReplaceUses(x, x) })
}

func TestReplace_MissingNodePanics(t *testing.T) {
	g := New()
	a := g.AddNode(OpPush, nil)
	b := g.AddNode(OpPush, nil)
	g.Remove(a)

	assert.Panics(t, func() { g.Replace(a, b) })
	assert.Panics(t, func() { g.Replace(b, NodeID(42)) })
}

func TestInterdict_SplicesValueEdge(t *testing.T) {
	g := New()
	src := g.AddNode(OpPush, nil)
	dst := g.AddNode(OpFixnumAdd, nil)
	e := g.Connect(src, dst, ValueN(1))

	mid := g.AddNode(OpUntagFixnum, nil)
	g.Interdict(e, mid)

	assert.Equal(t, []Edge{{From: src, To: mid, Role: Value()}}, g.Outputs(src))
	assert.Equal(t, []Edge{{From: mid, To: dst, Role: ValueN(1)}}, g.Inputs(dst))
	assert.Equal(t, []NodeID{src}, g.ValueInputs(mid))
	assert.Equal(t, []NodeID{dst}, g.Consumers(mid))
}

func TestInterdict_SplicesControlEdge(t *testing.T) {
	g := New()
	start := g.AddNode(OpStart, nil)
	merge := g.AddNode(OpMerge, nil)
	e := g.Connect(start, merge, ControlN(1))

	guard := g.AddNode(OpSafepoint, nil)
	g.Interdict(e, guard)

	assert.Equal(t, []Edge{{From: start, To: guard, Role: Control()}}, g.Outputs(start))
	assert.Equal(t, []Edge{{From: guard, To: merge, Role: ControlN(1)}}, g.Inputs(merge))
}

func TestInterdict_MissingEdgePanics(t *testing.T) {
	g := New()
	a := g.AddNode(OpPush, nil)
	b := g.AddNode(OpAdd, nil)
	mid := g.AddNode(OpUntagFixnum, nil)

	assert.Panics(t, func() { g.Interdict(Edge{From: a, To: b, Role: Value()}, mid) })
}

func TestRemove_DisconnectsNeighbours(t *testing.T) {
	g := New()
	a := g.AddNode(OpPush, nil)
	b := g.AddNode(OpAdd, nil)
	c := g.AddNode(OpFinish, nil)
	g.Connect(a, b, Value())
	g.Connect(b, c, Value())

	g.Remove(b)

	assert.Equal(t, 2, g.Len())
	assert.Empty(t, g.Outputs(a))
	assert.Empty(t, g.Inputs(c))
	assert.Equal(t, []NodeID{a, c}, g.Nodes())
}

func TestClone_IsIndependent(t *testing.T) {
	g := New()
	a := g.AddNode(OpPush, Props{PropValue: int64(1)})
	b := g.AddNode(OpAdd, nil)
	g.Connect(a, b, Value())

	c := g.Clone()
	require.Equal(t, g, c)

	c.Props(a)[PropValue] = int64(2)
	c.Remove(b)

	v, _ := g.Props(a).Int(PropValue)
	assert.Equal(t, 1, v)
	assert.True(t, g.Has(b))
	assert.Len(t, g.Outputs(a), 1)
}

func TestClassification(t *testing.T) {
	g := New()
	start := g.AddNode(OpStart, nil)
	push := g.AddNode(OpPush, nil)
	branch := g.AddNode(OpBranch, nil)
	thenBlock := g.AddNode(OpTrace, nil)
	elseBlock := g.AddNode(OpTrace, nil)
	merge := g.AddNode(OpMerge, nil)
	tag := g.AddNode(OpTagFixnum, nil)
	finish := g.AddNode(OpFinish, nil)

	g.Connect(start, branch, Control())
	g.Connect(push, branch, Condition())
	g.Connect(branch, thenBlock, True())
	g.Connect(branch, elseBlock, False())
	g.Connect(thenBlock, merge, ControlN(0))
	g.Connect(elseBlock, merge, ControlN(1))
	g.Connect(merge, tag, Control())
	g.Connect(tag, finish, Control())

	testCases := []struct {
		name    string
		id      NodeID
		fixed   bool
		begins  bool
		produce bool
	}{
		{name: "start", id: start, fixed: true, begins: true},
		{name: "floating push", id: push, produce: true},
		{name: "branch", id: branch, fixed: true},
		{name: "true target", id: thenBlock, fixed: true, begins: true},
		{name: "false target", id: elseBlock, fixed: true, begins: true},
		{name: "merge", id: merge, fixed: true, begins: true},
		{name: "value op with control edges", id: tag, fixed: true, produce: true},
		{name: "finish", id: finish, fixed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.fixed, g.IsFixed(tc.id))
			assert.Equal(t, !tc.fixed, g.IsFloating(tc.id))
			assert.Equal(t, tc.begins, g.BeginsBlock(tc.id))
			assert.Equal(t, tc.produce, g.ProducesValue(tc.id))
		})
	}

	assert.Equal(t, []NodeID{thenBlock, elseBlock}, g.ControlSuccessors(branch))
	assert.Equal(t, []NodeID{thenBlock, elseBlock}, g.ControlPredecessors(merge))
	assert.True(t, g.HasControlOutput(merge))
	assert.False(t, g.HasControlOutput(finish))
}
