package ir

// IsFixed reports whether a node is anchored in control flow: its operation
// is intrinsically fixed, or it has an inbound or outbound control edge.
func (g *Graph) IsFixed(id NodeID) bool {
	n := g.mustNode(id)
	if n.Op.IntrinsicallyFixed() {
		return true
	}
	for _, e := range n.inputs {
		if e.Role.IsControl() {
			return true
		}
	}
	for _, e := range n.outputs {
		if e.Role.IsControl() {
			return true
		}
	}
	return false
}

// IsFloating reports whether a node still needs an anchor before code can be
// generated for it.
func (g *Graph) IsFloating(id NodeID) bool {
	return !g.IsFixed(id)
}

// BeginsBlock reports whether a node starts a basic block: start, merge, and
// any target of a true or false branch edge.
func (g *Graph) BeginsBlock(id NodeID) bool {
	n := g.mustNode(id)
	if n.Op == OpStart || n.Op == OpMerge {
		return true
	}
	for _, e := range n.inputs {
		if e.Role.Name == RoleTrue || e.Role.Name == RoleFalse {
			return true
		}
	}
	return false
}

// ProducesValue reports whether other nodes may consume this node through a
// value-role edge.
func (g *Graph) ProducesValue(id NodeID) bool {
	return g.mustNode(id).Op.ProducesValue()
}

// HasControlOutput reports whether any outbound edge carries control.
func (g *Graph) HasControlOutput(id NodeID) bool {
	for _, e := range g.mustNode(id).outputs {
		if e.Role.IsControl() {
			return true
		}
	}
	return false
}

// InputsWhere returns inbound edges whose role satisfies keep, in edge order.
func (g *Graph) InputsWhere(id NodeID, keep func(Role) bool) []Edge {
	var edges []Edge
	for _, e := range g.mustNode(id).inputs {
		if keep(e.Role) {
			edges = append(edges, e)
		}
	}
	return edges
}

// OutputsWhere returns outbound edges whose role satisfies keep, in edge order.
func (g *Graph) OutputsWhere(id NodeID, keep func(Role) bool) []Edge {
	var edges []Edge
	for _, e := range g.mustNode(id).outputs {
		if keep(e.Role) {
			edges = append(edges, e)
		}
	}
	return edges
}

// InputsNamed returns inbound edges with the given role name, in edge order.
func (g *Graph) InputsNamed(id NodeID, name string) []Edge {
	return g.InputsWhere(id, func(r Role) bool { return r.Name == name })
}

// OutputsNamed returns outbound edges with the given role name, in edge order.
func (g *Graph) OutputsNamed(id NodeID, name string) []Edge {
	return g.OutputsWhere(id, func(r Role) bool { return r.Name == name })
}

// ControlPredecessors returns the sources of inbound control edges.
func (g *Graph) ControlPredecessors(id NodeID) []NodeID {
	return sources(g.InputsWhere(id, Role.IsControl))
}

// ControlSuccessors returns the targets of outbound control edges.
func (g *Graph) ControlSuccessors(id NodeID) []NodeID {
	return targets(g.OutputsWhere(id, Role.IsControl))
}

// ValueInputs returns the producers feeding a node through value-role edges.
func (g *Graph) ValueInputs(id NodeID) []NodeID {
	return sources(g.InputsWhere(id, Role.IsValue))
}

// Consumers returns the nodes consuming a node through value-role edges.
func (g *Graph) Consumers(id NodeID) []NodeID {
	return targets(g.OutputsWhere(id, Role.IsValue))
}

func sources(edges []Edge) []NodeID {
	ids := make([]NodeID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.From)
	}
	return ids
}

func targets(edges []Edge) []NodeID {
	ids := make([]NodeID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.To)
	}
	return ids
}

// PhiMerge returns the merge a phi selects over: its control predecessor.
func (g *Graph) PhiMerge(phi NodeID) (NodeID, bool) {
	for _, pred := range g.ControlPredecessors(phi) {
		if g.Op(pred) == OpMerge {
			return pred, true
		}
	}
	return NoNode, false
}

// MergePredecessor returns the node feeding a merge's n-th control input. A
// plain control input counts as input 0.
func (g *Graph) MergePredecessor(merge NodeID, n int) (NodeID, bool) {
	for _, e := range g.InputsWhere(merge, Role.IsControl) {
		if e.Role.Index == n || (n == 0 && e.Role.Index == NoIndex) {
			return e.From, true
		}
	}
	return NoNode, false
}

// UseSites returns, for every value-role output of a node, the node where the
// value is needed. A phi operand value(n) is needed at the end of the merge's
// n-th predecessor rather than at the phi itself.
func (g *Graph) UseSites(id NodeID) []NodeID {
	var sites []NodeID
	for _, e := range g.OutputsWhere(id, Role.IsValue) {
		if g.Op(e.To) == OpPhi && e.Role.Name == RoleValue && e.Role.Numbered() {
			if merge, ok := g.PhiMerge(e.To); ok {
				if pred, ok := g.MergePredecessor(merge, e.Role.Index); ok {
					sites = append(sites, pred)
					continue
				}
			}
		}
		sites = append(sites, e.To)
	}
	return sites
}
