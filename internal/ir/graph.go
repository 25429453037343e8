package ir

import (
	"fmt"
	"slices"
)

// NodeID is a stable handle to a node in a Graph.
type NodeID int

// NoNode marks the absence of a node. Valid handles start at 0.
const NoNode NodeID = -1

func (id NodeID) String() string {
	return fmt.Sprintf("n%d", int(id))
}

// Edge is a directed edge. It is stored on both endpoints.
type Edge struct {
	From NodeID
	To   NodeID
	Role Role
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.From, e.Role, e.To)
}

// Node is one operation in the graph.
type Node struct {
	id      NodeID
	Op      Op
	Props   Props
	inputs  []Edge
	outputs []Edge
}

// ID returns the node's handle.
func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s", n.id, n.Op)
}

// Graph is an arena of nodes.
type Graph struct {
	nodes []*Node
	live  int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node to the arena and returns its handle.
func (g *Graph) AddNode(op Op, props Props) NodeID {
	id := NodeID(len(g.nodes))
	if props == nil {
		props = Props{}
	}
	g.nodes = append(g.nodes, &Node{id: id, Op: op, Props: props})
	g.live++
	return id
}

// Node returns the node for a handle, or nil if it was removed or never existed.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Has reports whether the handle names a live node.
func (g *Graph) Has(id NodeID) bool {
	return g.Node(id) != nil
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return g.live
}

// Nodes returns all live nodes in ascending ID order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, g.live)
	for _, n := range g.nodes {
		if n != nil {
			ids = append(ids, n.id)
		}
	}
	return ids
}

// FindNodes returns the live nodes with the given operation in ascending ID order.
func (g *Graph) FindNodes(op Op) []NodeID {
	var ids []NodeID
	for _, n := range g.nodes {
		if n != nil && n.Op == op {
			ids = append(ids, n.id)
		}
	}
	return ids
}

// Op returns a node's operation.
func (g *Graph) Op(id NodeID) Op {
	return g.mustNode(id).Op
}

// Props returns a node's property map. The map is shared with the node.
func (g *Graph) Props(id NodeID) Props {
	return g.mustNode(id).Props
}

// Inputs returns a copy of a node's inbound edges.
func (g *Graph) Inputs(id NodeID) []Edge {
	return slices.Clone(g.mustNode(id).inputs)
}

// Outputs returns a copy of a node's outbound edges.
func (g *Graph) Outputs(id NodeID) []Edge {
	return slices.Clone(g.mustNode(id).outputs)
}

// Connect adds an edge from one live node to another.
func (g *Graph) Connect(from, to NodeID, role Role) Edge {
	src, dst := g.mustNode(from), g.mustNode(to)
	e := Edge{From: from, To: to, Role: role}
	src.outputs = append(src.outputs, e)
	dst.inputs = append(dst.inputs, e)
	return e
}

// Disconnect removes one instance of an edge from both endpoints.
func (g *Graph) Disconnect(e Edge) {
	src, dst := g.mustNode(e.From), g.mustNode(e.To)
	i := slices.Index(src.outputs, e)
	j := slices.Index(dst.inputs, e)
	if i < 0 || j < 0 {
		panic(fmt.Sprintf("ir: edge %s is not in the graph", e))
	}
	src.outputs = slices.Delete(src.outputs, i, i+1)
	dst.inputs = slices.Delete(dst.inputs, j, j+1)
}

// Replace moves every edge of old onto replacement, preserving roles and the
// position of each edge in the neighbour's lists, then removes old.
func (g *Graph) Replace(old, replacement NodeID) {
	src := g.mustNode(old)
	dst := g.mustNode(replacement)
	if old == replacement {
		panic(fmt.Sprintf("ir: cannot replace %s with itself", src))
	}

	rename := func(id NodeID) NodeID {
		if id == old {
			return replacement
		}
		return id
	}

	for _, e := range src.inputs {
		moved := Edge{From: rename(e.From), To: replacement, Role: e.Role}
		if e.From != old {
			g.rewriteOutput(e.From, e, moved)
		}
		dst.inputs = append(dst.inputs, moved)
	}
	for _, e := range src.outputs {
		moved := Edge{From: replacement, To: rename(e.To), Role: e.Role}
		if e.To != old {
			g.rewriteInput(e.To, e, moved)
		}
		dst.outputs = append(dst.outputs, moved)
	}

	src.inputs, src.outputs = nil, nil
	g.drop(old)
}

// ReplaceUses moves every value-role output of old onto replacement, keeping
// each edge's role and its position in the consumer's inputs. old keeps its
// inputs and any other outputs.
func (g *Graph) ReplaceUses(old, replacement NodeID) {
	src := g.mustNode(old)
	dst := g.mustNode(replacement)
	if old == replacement {
		panic(fmt.Sprintf("ir: cannot replace uses of %s with itself", src))
	}

	var kept []Edge
	for _, e := range src.outputs {
		if !e.Role.IsValue() {
			kept = append(kept, e)
			continue
		}
		moved := Edge{From: replacement, To: e.To, Role: e.Role}
		g.rewriteInput(e.To, e, moved)
		dst.outputs = append(dst.outputs, moved)
	}
	src.outputs = kept
}

// Interdict splices mid onto an existing edge. The original target receives
// from mid under the edge's role; mid receives from the original source under
// the plain control or value role, matching the kind of the original edge.
func (g *Graph) Interdict(e Edge, mid NodeID) {
	m := g.mustNode(mid)
	src, dst := g.mustNode(e.From), g.mustNode(e.To)
	i := slices.Index(src.outputs, e)
	j := slices.Index(dst.inputs, e)
	if i < 0 || j < 0 {
		panic(fmt.Sprintf("ir: edge %s is not in the graph", e))
	}

	inbound := Value()
	if e.Role.IsControl() {
		inbound = Control()
	}
	head := Edge{From: e.From, To: mid, Role: inbound}
	tail := Edge{From: mid, To: e.To, Role: e.Role}

	src.outputs[i] = head
	dst.inputs[j] = tail
	m.inputs = append(m.inputs, head)
	m.outputs = append(m.outputs, tail)
}

// Remove disconnects every edge of a node and drops it from the arena.
func (g *Graph) Remove(id NodeID) {
	n := g.mustNode(id)
	for _, e := range slices.Clone(n.inputs) {
		g.Disconnect(e)
	}
	for _, e := range slices.Clone(n.outputs) {
		g.Disconnect(e)
	}
	g.drop(id)
}

// Clone returns a deep copy of the graph. Handles are preserved.
func (g *Graph) Clone() *Graph {
	c := &Graph{nodes: make([]*Node, len(g.nodes)), live: g.live}
	for i, n := range g.nodes {
		if n == nil {
			continue
		}
		c.nodes[i] = &Node{
			id:      n.id,
			Op:      n.Op,
			Props:   n.Props.Clone(),
			inputs:  slices.Clone(n.inputs),
			outputs: slices.Clone(n.outputs),
		}
	}
	return c
}

func (g *Graph) mustNode(id NodeID) *Node {
	n := g.Node(id)
	if n == nil {
		panic(fmt.Sprintf("ir: node %s is not in the graph", id))
	}
	return n
}

func (g *Graph) drop(id NodeID) {
	g.nodes[id] = nil
	g.live--
}

func (g *Graph) rewriteOutput(id NodeID, old, updated Edge) {
	n := g.mustNode(id)
	i := slices.Index(n.outputs, old)
	if i < 0 {
		panic(fmt.Sprintf("ir: edge %s missing from outputs of %s", old, n))
	}
	n.outputs[i] = updated
}

func (g *Graph) rewriteInput(id NodeID, old, updated Edge) {
	n := g.mustNode(id)
	i := slices.Index(n.inputs, old)
	if i < 0 {
		panic(fmt.Sprintf("ir: edge %s missing from inputs of %s", old, n))
	}
	n.inputs[i] = updated
}
