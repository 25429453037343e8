package linear

import "errors"

var (
	// ErrUnresolvedBlock means an instruction refers to a node that begins no
	// emitted block.
	ErrUnresolvedBlock = errors.New("unresolved block reference")
	// ErrUnresolvedPhi means a phi operand's predecessor block was never seen.
	ErrUnresolvedPhi = errors.New("unresolved phi predecessor")
	// ErrNoReturn means no block returns.
	ErrNoReturn = errors.New("no block returns")
	// ErrFallsOffBlock means a block ends without return, branch or merge.
	ErrFallsOffBlock = errors.New("block falls off its end")
	// ErrBadOperand means an operand is missing or has no register.
	ErrBadOperand = errors.New("bad operand")
	// ErrNotScheduled means a node is not on any local schedule chain.
	ErrNotScheduled = errors.New("node is not scheduled")
)
