package linear

// simplifyBranches rewrites block endings against the final block order so
// that the following block is reached by falling through.
//
//	jump next                  → (dropped)
//	branch c, t, next          → branch_if c, t
//	branch c, next, f          → branch_unless c, f
//	branch c, t, f             → branch_if c, t; jump f
func simplifyBranches(blocks []Block) {
	for i := range blocks {
		b := &blocks[i]
		last := b.last()
		if last == nil {
			continue
		}
		next := i + 1

		switch last.Op {
		case OpJump:
			if last.Trailing[0].Block == next {
				b.Insns = b.Insns[:len(b.Insns)-1]
			}

		case OpBranch:
			cond, ifTrue, ifFalse := last.Trailing[0], last.Trailing[1], last.Trailing[2]
			b.Insns = b.Insns[:len(b.Insns)-1]
			switch {
			case ifFalse.Block == next:
				b.Insns = append(b.Insns, conditional(OpBranchIf, cond, ifTrue))
			case ifTrue.Block == next:
				b.Insns = append(b.Insns, conditional(OpBranchUnless, cond, ifFalse))
			default:
				b.Insns = append(b.Insns,
					conditional(OpBranchIf, cond, ifTrue),
					Insn{Op: OpJump, Dest: NoRegister, Trailing: []Operand{ifFalse}},
				)
			}
		}
	}
}

func conditional(op Opcode, cond, target Operand) Insn {
	return Insn{Op: op, Dest: NoRegister, Trailing: []Operand{cond, target}}
}
