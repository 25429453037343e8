package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/seasched/internal/config"
	"github.com/vk/seasched/internal/hcl"
	"github.com/vk/seasched/internal/ir"
	"github.com/vk/seasched/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func TestBuild_FromHCL(t *testing.T) {
	t.Parallel()
	root := testutil.WriteFiles(t, map[string]string{"add.hcl": testutil.AddGraphHCL})
	model, conv, err := hcl.NewLoader().Load(context.Background(), root)
	require.NoError(t, err)

	g, err := New(conv).Build(context.Background(), model.Lookup("add"))
	require.NoError(t, err)

	// Handles follow declaration order, so the graph matches the fixture.
	want := testutil.AddGraph().Graph
	require.Equal(t, want.Len(), g.Len())
	for _, id := range want.Nodes() {
		assert.Equal(t, want.Op(id), g.Op(id))
		assert.Equal(t, want.Inputs(id), g.Inputs(id))
		assert.Equal(t, want.Outputs(id), g.Outputs(id))
	}
	v, ok := g.Props(1).Int(ir.PropValue)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestBuild_Rejects(t *testing.T) {
	t.Parallel()
	node := func(op, name string, inputs ...*config.Input) *config.Node {
		return &config.Node{Op: op, Name: name, Inputs: inputs}
	}
	from := func(role, name string) *config.Input {
		return &config.Input{Role: role, From: name}
	}

	testCases := []struct {
		name        string
		nodes       []*config.Node
		errContains string
	}{
		{
			name:        "duplicate name",
			nodes:       []*config.Node{node("start", "s"), node("push", "s")},
			errContains: `node "s" is defined twice`,
		},
		{
			name:        "unknown op",
			nodes:       []*config.Node{node("start", "s"), node("jump", "j")},
			errContains: `unknown operation "jump"`,
		},
		{
			name:        "unknown source",
			nodes:       []*config.Node{node("start", "s"), node("finish", "f", from("control", "nowhere"))},
			errContains: `unknown node "nowhere"`,
		},
		{
			name:        "schedule role",
			nodes:       []*config.Node{node("start", "s"), node("finish", "f", from("local_schedule", "s"))},
			errContains: "unknown role name",
		},
		{
			name:        "value from a non-value node",
			nodes:       []*config.Node{node("start", "s"), node("finish", "f", from("value", "s"))},
			errContains: "produces no value",
		},
		{
			name:        "no start",
			nodes:       []*config.Node{node("push", "p")},
			errContains: "exactly one start node",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(hcl.NewConverter()).Build(context.Background(), &config.Graph{Name: "g", Nodes: tc.nodes})
			require.ErrorIs(t, err, ErrInvalidGraph)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestBuild_BadProperty(t *testing.T) {
	t.Parallel()
	cg := &config.Graph{Name: "g", Nodes: []*config.Node{
		{Op: "start", Name: "s"},
		{Op: "push", Name: "p", Props: map[string]cty.Value{"value": cty.NullVal(cty.Number)}},
	}}

	_, err := New(hcl.NewConverter()).Build(context.Background(), cg)
	require.ErrorIs(t, err, ErrInvalidGraph)
	assert.Contains(t, err.Error(), `property "value"`)
}
