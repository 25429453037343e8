// Package hcl provides the concrete HCL implementation for the loading and
// value conversion interfaces defined in the `config` package. It is
// responsible for file parsing, HCL-to-model translation, and CTY-to-Go
// conversion of node properties.
package hcl
