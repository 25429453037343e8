// Package builder constructs sea-of-nodes graphs from graph descriptions.
//
// # Why Builder Exists
//
// The scheduler and the passes operate on an ir.Graph and trust it to be well
// formed. Description files are written by people and cannot be trusted. The
// builder is the bridge: it resolves names into node handles, parses operation
// tags and edge roles, converts property values into Go literals, and rejects
// anything the rest of the pipeline assumes never happens.
//
// # What It Checks
//
//   - **Names:** every node name is unique within its graph, and every input
//     refers to a declared node.
//   - **Tags:** operation tags and edge roles are known. Schedule roles are
//     never accepted from a file.
//   - **Values:** a value-role edge always starts at a node that produces a
//     value.
//   - **Entry:** the graph has exactly one `start` node.
//
// Edges are added in declaration order, which fixes the order of each node's
// inputs and therefore the operand order of emitted instructions.
package builder
