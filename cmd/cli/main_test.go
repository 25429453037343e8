package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_CompilesGraph(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	graph := `
graph "add" {
  node "start" "start" {}
  node "push" "three" { value = 3 }
  node "push" "four" { value = 4 }
  node "add" "sum" {
    input "value(0)" { from = "three" }
    input "value(1)" { from = "four" }
  }
  node "finish" "ret" {
    input "control" { from = "start" }
    input "value" { from = "sum" }
  }
}
`
	dir := t.TempDir()
	filePath := filepath.Join(dir, "add.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(graph), 0600))
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, logs, []string{"--settings", filepath.Join(dir, "none.toml"), filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "graph add\n  push r0 3\n  push r1 4\n  add r2 r0 r1\n  return r2\n", out.String())
}

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A graph file with a syntax error fails while loading.
	invalidHCL := `
		graph "g" {
		  node "start" "start" {
		// Missing closing braces here
	`
	dir := t.TempDir()
	filePath := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	// --- Act ---
	runErr := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "startup failed")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MissingGraphPath(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "typo.hcl")

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{missing})

	require.Error(t, err)
	require.Contains(t, err.Error(), "startup failed")
	require.Contains(t, err.Error(), "typo.hcl does not exist")
}
