// Package config defines the format-agnostic model of graph description files,
// along with the interfaces (Loader, Converter) for loading and interpreting
// them.
//
// The `config.Model` is the single source of truth for the `builder` package.
// Concrete implementations of the interfaces, such as for HCL, are provided in
// separate packages.
package config
