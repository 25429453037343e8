package testutil

import (
	"fmt"

	"github.com/vk/seasched/internal/ir"
)

// Fixture is a graph plus the IDs of its nodes by name.
type Fixture struct {
	Graph *ir.Graph
	ids   map[string]ir.NodeID
}

func newFixture() *Fixture {
	return &Fixture{Graph: ir.New(), ids: make(map[string]ir.NodeID)}
}

// ID returns the node created under name. It panics on unknown names so a
// typo in a test fails loudly.
func (f *Fixture) ID(name string) ir.NodeID {
	id, ok := f.ids[name]
	if !ok {
		panic(fmt.Sprintf("testutil: fixture has no node %q", name))
	}
	return id
}

func (f *Fixture) add(name string, op ir.Op, props ir.Props) ir.NodeID {
	id := f.Graph.AddNode(op, props)
	f.ids[name] = id
	return id
}

func (f *Fixture) edge(from, to string, role ir.Role) {
	f.Graph.Connect(f.ID(from), f.ID(to), role)
}

// AddGraph builds a program returning 3 + 4: start → finish with the
// pushes and the add floating.
func AddGraph() *Fixture {
	f := newFixture()
	f.add("start", ir.OpStart, nil)
	f.add("three", ir.OpPush, ir.Props{ir.PropValue: 3})
	f.add("four", ir.OpPush, ir.Props{ir.PropValue: 4})
	f.add("sum", ir.OpAdd, nil)
	f.add("ret", ir.OpFinish, nil)

	f.edge("three", "sum", ir.ValueN(0))
	f.edge("four", "sum", ir.ValueN(1))
	f.edge("start", "ret", ir.Control())
	f.edge("sum", "ret", ir.Value())
	return f
}

// FixnumAddGraph builds a program returning the small-integer sum of its
// two arguments. The add sits in control flow between start and finish.
func FixnumAddGraph() *Fixture {
	f := newFixture()
	f.add("start", ir.OpStart, nil)
	f.add("a", ir.OpArg, ir.Props{ir.PropN: 0})
	f.add("b", ir.OpArg, ir.Props{ir.PropN: 1})
	f.add("sum", ir.OpFixnumAdd, nil)
	f.add("ret", ir.OpFinish, nil)

	f.edge("a", "sum", ir.ValueN(0))
	f.edge("b", "sum", ir.ValueN(1))
	f.edge("start", "sum", ir.Control())
	f.edge("sum", "ret", ir.Control())
	f.edge("sum", "ret", ir.Value())
	return f
}

// KindTestGraph builds a program returning whether its argument is a small
// integer.
func KindTestGraph() *Fixture {
	f := newFixture()
	f.add("start", ir.OpStart, nil)
	f.add("x", ir.OpArg, ir.Props{ir.PropN: 0})
	f.add("test", ir.OpKindIs, ir.Props{ir.PropKind: "fixnum"})
	f.add("ret", ir.OpFinish, nil)

	f.edge("x", "test", ir.Value())
	f.edge("start", "ret", ir.Control())
	f.edge("test", "ret", ir.Value())
	return f
}

// DiamondGraph builds `x < 10 ? 1 : 2` as a branch, two arms, and a merge
// with a phi.
//
//	start → branch ─true→  then ─control(0)→ join → finish
//	              └false→ else ─control(1)→ ┘
func DiamondGraph() *Fixture {
	f := newFixture()
	f.add("start", ir.OpStart, nil)
	f.add("x", ir.OpArg, ir.Props{ir.PropN: 0})
	f.add("limit", ir.OpPush, ir.Props{ir.PropValue: 10})
	f.add("cond", ir.OpLt, nil)
	f.add("br", ir.OpBranch, nil)
	f.add("then", ir.OpTrace, ir.Props{ir.PropLine: 2})
	f.add("else", ir.OpTrace, ir.Props{ir.PropLine: 3})
	f.add("one", ir.OpPush, ir.Props{ir.PropValue: 1})
	f.add("two", ir.OpPush, ir.Props{ir.PropValue: 2})
	f.add("join", ir.OpMerge, nil)
	f.add("result", ir.OpPhi, nil)
	f.add("ret", ir.OpFinish, nil)

	f.edge("x", "cond", ir.ValueN(0))
	f.edge("limit", "cond", ir.ValueN(1))
	f.edge("start", "br", ir.Control())
	f.edge("cond", "br", ir.Condition())
	f.edge("br", "then", ir.True())
	f.edge("br", "else", ir.False())
	f.edge("then", "join", ir.ControlN(0))
	f.edge("else", "join", ir.ControlN(1))
	f.edge("join", "result", ir.Control())
	f.edge("one", "result", ir.ValueN(0))
	f.edge("two", "result", ir.ValueN(1))
	f.edge("join", "ret", ir.Control())
	f.edge("result", "ret", ir.Value())
	return f
}

// SendGraph builds `self.foo(x, 1)` followed by returning the result.
func SendGraph() *Fixture {
	f := newFixture()
	f.add("start", ir.OpStart, nil)
	f.add("self", ir.OpSelf, nil)
	f.add("x", ir.OpArg, ir.Props{ir.PropN: 0})
	f.add("one", ir.OpPush, ir.Props{ir.PropValue: 1})
	f.add("call", ir.OpSend, ir.Props{ir.PropName: "foo", ir.PropArgc: 2, ir.PropLine: 7})
	f.add("ret", ir.OpFinish, nil)

	f.edge("self", "call", ir.Receiver())
	f.edge("x", "call", ir.Arg(0))
	f.edge("one", "call", ir.Arg(1))
	f.edge("start", "call", ir.Control())
	f.edge("call", "ret", ir.Control())
	f.edge("call", "ret", ir.Value())
	return f
}

// OrphanGraph is AddGraph plus a push nobody consumes.
func OrphanGraph() *Fixture {
	f := AddGraph()
	f.add("orphan", ir.OpPush, ir.Props{ir.PropValue: 5})
	return f
}
