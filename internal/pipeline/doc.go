// Package pipeline turns one built graph into a block listing: it runs the
// configured passes, schedules the result and linearizes it.
//
// Which passes run, and whether they are repeated until the graph settles, is
// read from a TOML settings file. A missing file means defaults.
package pipeline
