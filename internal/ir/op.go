package ir

import "fmt"

// Op is the operation tag of a node.
type Op uint8

const (
	OpInvalid Op = iota
	OpStart
	OpFinish
	OpBranch
	OpMerge
	OpPhi
	OpSend
	OpArg
	OpSelf
	OpPush
	OpLoad
	OpStore
	OpNot
	OpAdd
	OpSub
	OpMul
	OpLt
	OpEq
	OpKindIs
	OpIsTaggedFixnum
	OpFixnumAdd
	OpTagFixnum
	OpUntagFixnum
	OpInt64Add
	OpGuard
	OpSafepoint
	OpTrace
	opCount
)

// opInfo describes the static traits of an operation.
type opInfo struct {
	name string
	// fixed ops are anchored in control flow regardless of their edges.
	fixed bool
	// value ops may be consumed through value-role edges.
	value bool
}

var opTable = [opCount]opInfo{
	OpInvalid:        {name: "invalid"},
	OpStart:          {name: "start", fixed: true},
	OpFinish:         {name: "finish", fixed: true},
	OpBranch:         {name: "branch", fixed: true},
	OpMerge:          {name: "merge", fixed: true},
	OpPhi:            {name: "phi", fixed: true, value: true},
	OpSend:           {name: "send", fixed: true, value: true},
	OpArg:            {name: "arg", value: true},
	OpSelf:           {name: "self", value: true},
	OpPush:           {name: "push", value: true},
	OpLoad:           {name: "load", value: true},
	OpStore:          {name: "store", fixed: true},
	OpNot:            {name: "not", value: true},
	OpAdd:            {name: "add", value: true},
	OpSub:            {name: "sub", value: true},
	OpMul:            {name: "mul", value: true},
	OpLt:             {name: "lt", value: true},
	OpEq:             {name: "eq", value: true},
	OpKindIs:         {name: "kind_is", value: true},
	OpIsTaggedFixnum: {name: "is_tagged_fixnum", value: true},
	OpFixnumAdd:      {name: "fixnum_add", value: true},
	OpTagFixnum:      {name: "tag_fixnum", value: true},
	OpUntagFixnum:    {name: "untag_fixnum", value: true},
	OpInt64Add:       {name: "int64_add", value: true},
	OpGuard:          {name: "guard", fixed: true},
	OpSafepoint:      {name: "safepoint", fixed: true},
	OpTrace:          {name: "trace", fixed: true},
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, opCount)
	for op := OpInvalid + 1; op < opCount; op++ {
		m[opTable[op].name] = op
	}
	return m
}()

// String returns the operation's tag as written in graph files and listings.
func (op Op) String() string {
	if op >= opCount {
		return fmt.Sprintf("op(%d)", uint8(op))
	}
	return opTable[op].name
}

// IntrinsicallyFixed reports whether the operation is anchored in control flow
// by itself, independent of any edges.
func (op Op) IntrinsicallyFixed() bool {
	return op < opCount && opTable[op].fixed
}

// ProducesValue reports whether nodes with this operation may be consumed
// through value-role edges.
func (op Op) ProducesValue() bool {
	return op < opCount && opTable[op].value
}

// ParseOp resolves an operation tag by name.
func ParseOp(name string) (Op, error) {
	op, ok := opsByName[name]
	if !ok {
		return OpInvalid, fmt.Errorf("unknown operation %q", name)
	}
	return op, nil
}
