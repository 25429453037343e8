// Package passes defines graph-rewriting passes and the runner that applies
// them.
//
// A pass rewrites an ir.Graph in place through Replace, Interdict and Remove
// and reports whether it changed anything. A Runner applies a fixed list of
// passes once each, in order. Fixpoint is a separate loop around a Runner for
// callers that want to repeat until nothing changes.
//
// Passes are looked up by name from the pipeline settings through a Registry.
package passes
