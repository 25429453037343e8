// Package linear flattens a scheduled graph into basic blocks of
// register-machine instructions.
//
// Each block is the local schedule chain of one block-beginning node. Pure
// control markers (start, merge) emit nothing, finish becomes return, and a
// block that flows into a merge ends with a jump. Branch and jump targets are
// block indices. Blocks that return are placed last, and branch endings are
// rewritten to fall through to the next block where possible.
//
// The listing can be rendered as text or as canonical CBOR for a downstream
// register allocator.
package linear
