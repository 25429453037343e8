// Package ir holds the sea-of-nodes program representation that every later
// stage works on.
//
// # Why IR Package Exists
//
// A method is a single graph in which control flow and dataflow are both edges.
// Nothing orders two operations except the edges between them, which lets
// passes rewrite the program locally without maintaining a statement order.
// The scheduler later recovers a total order from these edges.
//
// # Representation
//
// A Graph is an arena of nodes addressed by NodeID handles. Each node carries
// an operation tag (Op), a property map (Props) and two edge lists. An Edge is
// stored on both of its endpoints and names the Role it plays:
//
//	control roles:  control, control(n), true, false
//	value roles:    value, value(n), receiver, arg(n), condition
//	schedule roles: global_schedule, local_schedule (added by the scheduler)
//
// Handles stay valid for the lifetime of the graph; removed nodes leave a hole
// in the arena so that IDs are never reused. Iteration with Nodes or FindNodes
// is always in ascending ID order, which keeps passes reproducible.
//
// # Surgery
//
// Passes mutate the graph through Replace, Interdict and Remove. These
// operations rewrite edge lists in place, so the relative order of a
// neighbour's edges survives a rewrite. Misuse (a node or edge that is not in
// the graph) is a programming error and panics.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent use. One goroutine owns a graph from
// construction to linearization.
package ir
