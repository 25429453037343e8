package linear

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/seasched/internal/ir"
)

// Opcode names an instruction. Most opcodes are graph operation names; the
// rest are introduced by linearization.
type Opcode string

const (
	OpReturn       Opcode = "return"
	OpBranch       Opcode = "branch"
	OpBranchIf     Opcode = "branch_if"
	OpBranchUnless Opcode = "branch_unless"
	OpJump         Opcode = "jump"
	OpPhi          Opcode = "phi"
)

// opcodeOf maps a graph operation to the opcode emitted for it.
func opcodeOf(op ir.Op) Opcode {
	if op == ir.OpFinish {
		return OpReturn
	}
	return Opcode(op.String())
}

// Register is a virtual register number.
type Register int

// NoRegister marks an instruction without a destination.
const NoRegister Register = -1

func (r Register) String() string {
	if r == NoRegister {
		return "-"
	}
	return "r" + strconv.Itoa(int(r))
}

// OperandKind tells which field of an Operand is meaningful.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota + 1
	OperandBlock
	OperandSelector

	// Unresolved references, only present while a listing is being built.
	operandNode
	operandPred
)

// Operand is an op-specific trailing field of an instruction.
type Operand struct {
	Kind     OperandKind `cbor:"k"`
	Register Register    `cbor:"r,omitempty"`
	Block    int         `cbor:"b,omitempty"`
	Selector string      `cbor:"s,omitempty"`

	node  ir.NodeID
	index int
}

// Reg is a register operand.
func Reg(r Register) Operand { return Operand{Kind: OperandRegister, Register: r} }

// BlockRef is a block-index operand.
func BlockRef(index int) Operand { return Operand{Kind: OperandBlock, Block: index} }

// Selector is a method-name operand.
func Selector(name string) Operand { return Operand{Kind: OperandSelector, Selector: name} }

// nodeRef refers to the block a node begins.
func nodeRef(id ir.NodeID) Operand { return Operand{Kind: operandNode, node: id} }

// predRef refers to the block that flows into the n-th input of a merge.
func predRef(merge ir.NodeID, n int) Operand {
	return Operand{Kind: operandPred, node: merge, index: n}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return o.Register.String()
	case OperandBlock:
		return "block" + strconv.Itoa(o.Block)
	case OperandSelector:
		return o.Selector
	case operandNode:
		return "?" + o.node.String()
	case operandPred:
		return fmt.Sprintf("?%s(%d)", o.node, o.index)
	}
	return "?"
}

// Insn is one flat instruction:
//
//	op [dest] [immediates...] [argument registers...] [trailing operands...]
type Insn struct {
	Op       Opcode     `cbor:"op"`
	Dest     Register   `cbor:"dest"`
	Imms     []any      `cbor:"imms,omitempty"`
	Args     []Register `cbor:"args,omitempty"`
	Trailing []Operand  `cbor:"trailing,omitempty"`
}

func (in Insn) String() string {
	parts := []string{string(in.Op)}
	if in.Dest != NoRegister {
		parts = append(parts, in.Dest.String())
	}
	for _, imm := range in.Imms {
		parts = append(parts, fmt.Sprint(imm))
	}
	for _, r := range in.Args {
		parts = append(parts, r.String())
	}
	for _, o := range in.Trailing {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, " ")
}

// Block is a basic block of instructions. Its index in the listing is its
// name.
type Block struct {
	Insns []Insn `cbor:"insns"`
}

// last returns the block's final instruction, or nil for an empty block.
func (b *Block) last() *Insn {
	if len(b.Insns) == 0 {
		return nil
	}
	return &b.Insns[len(b.Insns)-1]
}
