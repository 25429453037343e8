// Package scheduler recovers a total execution order from a sea-of-nodes graph.
//
// # Why Scheduler Exists
//
// After the passes have run, only control-affecting operations are anchored in
// the graph. Pure computations float: the graph says what they depend on but
// not where they run. Code generation needs every operation placed in a basic
// block and every block in a single order. The scheduler does this by
// annotating the graph, never by rewriting it.
//
// # How It Works
//
// Scheduling runs three phases over the same graph:
//
//  1. Partial order. Every fixed node gets a `sequence` property, one more than
//     the largest sequence among its control predecessors. `start` is 0.
//  2. Global schedule. Every floating node gets exactly one `global_schedule`
//     edge to the node it runs before. Nodes are placed consumers first; among
//     the legal anchors the one whose fixed anchor has the highest sequence wins,
//     which sinks computations as late as possible.
//  3. Local schedule. Within each basic block the nodes are chained with
//     `local_schedule` edges into one order that respects every intra-block
//     dependency. The block's first node is first; a block-ending branch,
//     finish or merge is last.
//
// The linear package turns the annotated graph into basic blocks of flat
// instructions.
//
// # Failure
//
// Every failure is a consistency violation in the input graph or a phase run
// out of order. Errors wrap one of the package's sentinel errors and name the
// node involved. No partial result should be used after an error.
package scheduler
