package linear

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/seasched/internal/ctxlog"
	"github.com/vk/seasched/internal/ir"
)

// chain is one basic block as recorded by the local schedule.
type chain struct {
	first ir.NodeID
	nodes []ir.NodeID
	// merge is the merge that ends the block, or ir.NoNode.
	merge   ir.NodeID
	returns bool
}

type predKey struct {
	merge ir.NodeID
	n     int
}

// Linearize turns a scheduled graph into an ordered list of basic blocks.
//
// Blocks are emitted in the order of the nodes that begin them, except that
// blocks ending in a return come last. Register properties are assigned to
// value-producing nodes that lack one. The graph is not otherwise changed.
func Linearize(ctx context.Context, g *ir.Graph) ([]Block, error) {
	logger := ctxlog.FromContext(ctx)

	chains, err := collectChains(g)
	if err != nil {
		return nil, err
	}
	if err := checkCoverage(g, chains); err != nil {
		return nil, err
	}

	ordered, err := orderChains(chains)
	if err != nil {
		return nil, err
	}

	blockIndex := make(map[ir.NodeID]int, len(ordered))
	preds := make(map[predKey]ir.NodeID)
	for i, c := range ordered {
		blockIndex[c.first] = i
		if c.merge != ir.NoNode {
			n, err := mergeInput(g, c)
			if err != nil {
				return nil, err
			}
			preds[predKey{merge: c.merge, n: n}] = c.first
		}
	}

	assignRegisters(g, ordered)

	blocks := make([]Block, len(ordered))
	for i, c := range ordered {
		block, err := emitBlock(g, c)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	if err := resolve(blocks, blockIndex, preds); err != nil {
		return nil, err
	}
	simplifyBranches(blocks)

	logger.Debug("Graph linearized.", "blocks", len(blocks))
	return blocks, nil
}

// collectChains follows the local schedule from every block-beginning node.
func collectChains(g *ir.Graph) ([]chain, error) {
	var chains []chain
	for _, first := range g.Nodes() {
		if !g.BeginsBlock(first) {
			continue
		}

		c := chain{first: first, merge: ir.NoNode}
		for n := first; ; {
			c.nodes = append(c.nodes, n)
			if g.Op(n) == ir.OpFinish {
				c.returns = true
			}
			if len(c.nodes) > g.Len() {
				return nil, fmt.Errorf("%w: local schedule from %s loops", ErrNotScheduled, g.Node(first))
			}

			next := g.OutputsNamed(n, ir.RoleLocalSchedule)
			if len(next) == 0 {
				break
			}
			if len(next) > 1 {
				return nil, fmt.Errorf("%w: %s has %d local schedule successors", ErrNotScheduled, g.Node(n), len(next))
			}
			n = next[0].To
			if g.Op(n) == ir.OpMerge {
				c.merge = n
				break
			}
		}
		chains = append(chains, c)
	}
	return chains, nil
}

// checkCoverage verifies that every node is on exactly one chain. A merge is
// only recorded on the chain it begins.
func checkCoverage(g *ir.Graph, chains []chain) error {
	seen := make(map[ir.NodeID]ir.NodeID)
	for _, c := range chains {
		for _, id := range c.nodes {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s is in blocks starting at %s and %s", ErrNotScheduled, g.Node(id), g.Node(prev), g.Node(c.first))
			}
			seen[id] = c.first
		}
	}
	for _, id := range g.Nodes() {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotScheduled, g.Node(id))
		}
	}
	return nil
}

// orderChains puts returning blocks after all others, keeping encounter order
// within each group.
func orderChains(chains []chain) ([]chain, error) {
	ordered := make([]chain, 0, len(chains))
	var returning []chain
	for _, c := range chains {
		if c.returns {
			returning = append(returning, c)
			continue
		}
		ordered = append(ordered, c)
	}
	if len(returning) == 0 {
		return nil, ErrNoReturn
	}
	return append(ordered, returning...), nil
}

// mergeInput returns the number of the merge input a block flows into.
func mergeInput(g *ir.Graph, c chain) (int, error) {
	for _, e := range g.InputsWhere(c.merge, ir.Role.IsControl) {
		if !slices.Contains(c.nodes, e.From) {
			continue
		}
		if e.Role.Numbered() {
			return e.Role.Index, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: block starting at %s reaches %s without a control edge", ErrUnresolvedPhi, g.Node(c.first), g.Node(c.merge))
}

// emitBlock builds the instructions of one chain. Block and predecessor
// references are left unresolved.
func emitBlock(g *ir.Graph, c chain) (Block, error) {
	var block Block
	for _, id := range c.nodes {
		switch g.Op(id) {
		case ir.OpStart, ir.OpMerge:
			continue
		}
		insn, err := emitInsn(g, id)
		if err != nil {
			return Block{}, err
		}
		block.Insns = append(block.Insns, insn)
	}

	if last := block.last(); last != nil && (last.Op == OpReturn || last.Op == OpBranch) {
		return block, nil
	}
	if c.merge == ir.NoNode {
		return Block{}, fmt.Errorf("%w: block starting at %s", ErrFallsOffBlock, g.Node(c.first))
	}
	block.Insns = append(block.Insns, Insn{Op: OpJump, Dest: NoRegister, Trailing: []Operand{nodeRef(c.merge)}})
	return block, nil
}

var immediateProps = []ir.Prop{ir.PropLine, ir.PropN, ir.PropValue}

func emitInsn(g *ir.Graph, id ir.NodeID) (Insn, error) {
	op := g.Op(id)
	props := g.Props(id)
	insn := Insn{Op: opcodeOf(op), Dest: NoRegister}

	if op.ProducesValue() {
		r, ok := props.Int(ir.PropRegister)
		if !ok {
			return Insn{}, fmt.Errorf("%w: %s has no register", ErrBadOperand, g.Node(id))
		}
		insn.Dest = Register(r)
	}

	for _, p := range immediateProps {
		if v, ok := props[p]; ok {
			insn.Imms = append(insn.Imms, v)
		}
	}

	values := g.InputsNamed(id, ir.RoleValue)
	slices.SortStableFunc(values, func(a, b ir.Edge) int { return a.Role.Index - b.Role.Index })

	switch op {
	case ir.OpPhi:
		merge, ok := g.PhiMerge(id)
		if !ok {
			return Insn{}, fmt.Errorf("%w: %s has no merge", ErrUnresolvedPhi, g.Node(id))
		}
		for _, e := range values {
			if !e.Role.Numbered() {
				return Insn{}, fmt.Errorf("%w: %s has a value input without a predecessor index", ErrBadOperand, g.Node(id))
			}
			r, err := register(g, e.From)
			if err != nil {
				return Insn{}, err
			}
			insn.Trailing = append(insn.Trailing, predRef(merge, e.Role.Index), Reg(r))
		}
		return insn, nil
	}

	for _, e := range values {
		r, err := register(g, e.From)
		if err != nil {
			return Insn{}, err
		}
		insn.Args = append(insn.Args, r)
	}

	switch op {
	case ir.OpBranch:
		cond, err := soleInput(g, id, ir.Condition())
		if err != nil {
			return Insn{}, err
		}
		r, err := register(g, cond)
		if err != nil {
			return Insn{}, err
		}
		ifTrue, err := soleOutput(g, id, ir.RoleTrue)
		if err != nil {
			return Insn{}, err
		}
		ifFalse, err := soleOutput(g, id, ir.RoleFalse)
		if err != nil {
			return Insn{}, err
		}
		insn.Trailing = []Operand{Reg(r), nodeRef(ifTrue), nodeRef(ifFalse)}

	case ir.OpSend:
		trailing, err := sendOperands(g, id)
		if err != nil {
			return Insn{}, err
		}
		insn.Trailing = trailing
	}
	return insn, nil
}

// sendOperands returns the receiver, the selector and the arguments of a send.
func sendOperands(g *ir.Graph, id ir.NodeID) ([]Operand, error) {
	receiver, err := soleInput(g, id, ir.Receiver())
	if err != nil {
		return nil, err
	}
	r, err := register(g, receiver)
	if err != nil {
		return nil, err
	}
	name, ok := g.Props(id).String(ir.PropName)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no selector name", ErrBadOperand, g.Node(id))
	}
	argc, ok := g.Props(id).Int(ir.PropArgc)
	if !ok {
		argc = len(g.InputsNamed(id, ir.RoleArg))
	}

	operands := []Operand{Reg(r), Selector(name)}
	for n := 0; n < argc; n++ {
		arg, err := soleInput(g, id, ir.Arg(n))
		if err != nil {
			return nil, err
		}
		r, err := register(g, arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, Reg(r))
	}
	return operands, nil
}

func register(g *ir.Graph, id ir.NodeID) (Register, error) {
	r, ok := g.Props(id).Int(ir.PropRegister)
	if !ok {
		return NoRegister, fmt.Errorf("%w: %s produces no register", ErrBadOperand, g.Node(id))
	}
	return Register(r), nil
}

func soleInput(g *ir.Graph, id ir.NodeID, role ir.Role) (ir.NodeID, error) {
	edges := g.InputsWhere(id, func(r ir.Role) bool { return r == role })
	if len(edges) != 1 {
		return ir.NoNode, fmt.Errorf("%w: %s has %d %s inputs", ErrBadOperand, g.Node(id), len(edges), role)
	}
	return edges[0].From, nil
}

func soleOutput(g *ir.Graph, id ir.NodeID, name string) (ir.NodeID, error) {
	edges := g.OutputsNamed(id, name)
	if len(edges) != 1 {
		return ir.NoNode, fmt.Errorf("%w: %s has %d %s outputs", ErrBadOperand, g.Node(id), len(edges), name)
	}
	return edges[0].To, nil
}

// resolve replaces node and predecessor references with block indices.
func resolve(blocks []Block, blockIndex map[ir.NodeID]int, preds map[predKey]ir.NodeID) error {
	for b := range blocks {
		for i := range blocks[b].Insns {
			trailing := blocks[b].Insns[i].Trailing
			for j, o := range trailing {
				switch o.Kind {
				case operandNode:
					index, ok := blockIndex[o.node]
					if !ok {
						return fmt.Errorf("%w: %s", ErrUnresolvedBlock, o.node)
					}
					trailing[j] = BlockRef(index)
				case operandPred:
					first, ok := preds[predKey{merge: o.node, n: o.index}]
					if !ok {
						return fmt.Errorf("%w: input %d of %s", ErrUnresolvedPhi, o.index, o.node)
					}
					index, ok := blockIndex[first]
					if !ok {
						return fmt.Errorf("%w: %s", ErrUnresolvedBlock, first)
					}
					trailing[j] = BlockRef(index)
				}
			}
		}
	}
	return nil
}
