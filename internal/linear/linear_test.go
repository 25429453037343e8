package linear

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/seasched/internal/ir"
	"github.com/vk/seasched/internal/passes"
	"github.com/vk/seasched/internal/scheduler"
	"github.com/vk/seasched/internal/testutil"
)

func schedule(t *testing.T, g *ir.Graph) []Block {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, scheduler.New().Schedule(ctx, g))
	blocks, err := Linearize(ctx, g)
	require.NoError(t, err)
	return blocks
}

func TestLinearize_Listings(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		build func() *ir.Graph
		want  string
	}{
		{
			name:  "single block",
			build: func() *ir.Graph { return testutil.AddGraph().Graph },
			want: `  push r0 3
  push r1 4
  add r2 r0 r1
  return r2
`,
		},
		{
			name:  "diamond",
			build: func() *ir.Graph { return testutil.DiamondGraph().Graph },
			want: `  arg r0 0
  push r1 10
  lt r2 r0 r1
  branch_unless r2 block2
block1:
  trace 2
  push r3 1
  jump block3
block2:
  trace 3
  push r4 2
block3:
  phi r5 block1 r3 block2 r4
  return r5
`,
		},
		{
			name:  "send",
			build: func() *ir.Graph { return testutil.SendGraph().Graph },
			want: `  self r0
  arg r1 0
  push r2 1
  send r3 7 r0 foo r1 r2
  return r3
`,
		},
		{
			name: "lowered fixnum add",
			build: func() *ir.Graph {
				g := testutil.FixnumAddGraph().Graph
				_, err := passes.TaggingLowering{}.Run(context.Background(), g)
				require.NoError(t, err)
				return g
			},
			want: `  arg r0 0
  arg r1 1
  untag_fixnum r2 r0
  untag_fixnum r3 r1
  int64_add r4 r2 r3
  tag_fixnum r5 r4
  return r5
`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			blocks := schedule(t, tc.build())
			if diff := cmp.Diff(tc.want, Format(blocks)); diff != "" {
				t.Errorf("listing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinearize_SingleBlockInstructions(t *testing.T) {
	t.Parallel()
	blocks := schedule(t, testutil.AddGraph().Graph)

	want := []Block{{Insns: []Insn{
		{Op: "push", Dest: 0, Imms: []any{3}},
		{Op: "push", Dest: 1, Imms: []any{4}},
		{Op: "add", Dest: 2, Args: []Register{0, 1}},
		{Op: OpReturn, Dest: NoRegister, Args: []Register{2}},
	}}}
	if diff := cmp.Diff(want, blocks, cmp.AllowUnexported(Operand{})); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearize_FalseTargetFallsThrough(t *testing.T) {
	t.Parallel()
	f := testutil.DiamondGraph()
	g := f.Graph
	br := f.ID("br")

	// Swap the arms: the false arm now begins block 1, the true arm block 2.
	g.Disconnect(ir.Edge{From: br, To: f.ID("then"), Role: ir.True()})
	g.Disconnect(ir.Edge{From: br, To: f.ID("else"), Role: ir.False()})
	g.Connect(br, f.ID("then"), ir.False())
	g.Connect(br, f.ID("else"), ir.True())

	blocks := schedule(t, g)
	require.Len(t, blocks, 4)
	assert.Equal(t, "branch_if r2 block2", blocks[0].last().String())
}

func TestSimplifyBranches(t *testing.T) {
	t.Parallel()
	branch := func(ifTrue, ifFalse int) Insn {
		return Insn{Op: OpBranch, Dest: NoRegister, Trailing: []Operand{Reg(7), BlockRef(ifTrue), BlockRef(ifFalse)}}
	}
	jump := func(target int) Insn {
		return Insn{Op: OpJump, Dest: NoRegister, Trailing: []Operand{BlockRef(target)}}
	}

	testCases := []struct {
		name string
		end  Insn
		want []string
	}{
		{name: "false target is next", end: branch(2, 1), want: []string{"branch_if r7 block2"}},
		{name: "true target is next", end: branch(1, 2), want: []string{"branch_unless r7 block2"}},
		{name: "neither target is next", end: branch(2, 3), want: []string{"branch_if r7 block2", "jump block3"}},
		{name: "jump to next", end: jump(1), want: nil},
		{name: "jump elsewhere", end: jump(3), want: []string{"jump block3"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			blocks := []Block{{Insns: []Insn{tc.end}}, {}, {}, {}}
			simplifyBranches(blocks)

			var got []string
			for _, insn := range blocks[0].Insns {
				got = append(got, insn.String())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLinearize_ReturnBlockIsLast(t *testing.T) {
	t.Parallel()
	blocks := schedule(t, testutil.DiamondGraph().Graph)

	for i, b := range blocks {
		isReturn := b.last() != nil && b.last().Op == OpReturn
		assert.Equal(t, i == len(blocks)-1, isReturn, "block %d", i)
	}
}

func TestLinearize_ConservesInstructions(t *testing.T) {
	t.Parallel()
	g := testutil.DiamondGraph().Graph
	blocks := schedule(t, g)

	nodes := 0
	for _, id := range g.Nodes() {
		if op := g.Op(id); op != ir.OpStart && op != ir.OpMerge {
			nodes++
		}
	}
	insns := 0
	for _, b := range blocks {
		for _, insn := range b.Insns {
			if insn.Op != OpJump {
				insns++
			}
		}
	}
	assert.Equal(t, nodes, insns)
}

func TestLinearize_KeepsExistingRegisters(t *testing.T) {
	t.Parallel()
	f := testutil.AddGraph()
	f.Graph.Props(f.ID("sum"))[ir.PropRegister] = 9

	blocks := schedule(t, f.Graph)
	assert.Equal(t, "add r9 r10 r11", blocks[0].Insns[2].String())
}

func TestLinearize_Deterministic(t *testing.T) {
	t.Parallel()
	a := schedule(t, testutil.DiamondGraph().Graph)
	b := schedule(t, testutil.DiamondGraph().Graph)
	assert.Empty(t, cmp.Diff(a, b, cmp.AllowUnexported(Operand{})))
}

func TestLinearize_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unscheduled graph", func(t *testing.T) {
		_, err := Linearize(context.Background(), testutil.AddGraph().Graph)
		require.ErrorIs(t, err, ErrNotScheduled)
	})

	t.Run("no return", func(t *testing.T) {
		_, err := orderChains([]chain{{first: 0, merge: ir.NoNode}})
		require.ErrorIs(t, err, ErrNoReturn)
	})

	t.Run("falls off block", func(t *testing.T) {
		g := ir.New()
		start := g.AddNode(ir.OpStart, nil)
		_, err := emitBlock(g, chain{first: start, nodes: []ir.NodeID{start}, merge: ir.NoNode})
		require.ErrorIs(t, err, ErrFallsOffBlock)
	})

	t.Run("phi operand without index", func(t *testing.T) {
		g := ir.New()
		merge := g.AddNode(ir.OpMerge, nil)
		one := g.AddNode(ir.OpPush, ir.Props{ir.PropValue: 1, ir.PropRegister: 0})
		phi := g.AddNode(ir.OpPhi, ir.Props{ir.PropRegister: 1})
		g.Connect(merge, phi, ir.Control())
		g.Connect(one, phi, ir.ValueN(0))
		g.Connect(one, phi, ir.Value())

		_, err := emitInsn(g, phi)
		require.ErrorIs(t, err, ErrBadOperand)
	})

	t.Run("unresolved block", func(t *testing.T) {
		blocks := []Block{{Insns: []Insn{{Op: OpJump, Dest: NoRegister, Trailing: []Operand{nodeRef(4)}}}}}
		err := resolve(blocks, map[ir.NodeID]int{}, nil)
		require.ErrorIs(t, err, ErrUnresolvedBlock)
	})

	t.Run("unresolved phi", func(t *testing.T) {
		blocks := []Block{{Insns: []Insn{{Op: OpPhi, Dest: 0, Trailing: []Operand{predRef(4, 1), Reg(1)}}}}}
		err := resolve(blocks, map[ir.NodeID]int{}, map[predKey]ir.NodeID{})
		require.ErrorIs(t, err, ErrUnresolvedPhi)
	})
}

func TestCBOR_RoundTrip(t *testing.T) {
	t.Parallel()
	blocks := schedule(t, testutil.DiamondGraph().Graph)

	data, err := EncodeCBOR(blocks)
	require.NoError(t, err)

	decoded, err := DecodeCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, Format(blocks), Format(decoded))

	again, err := EncodeCBOR(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestWrite(t *testing.T) {
	t.Parallel()
	listings := []Listing{
		{Graph: "add", Blocks: schedule(t, testutil.AddGraph().Graph)},
		{Graph: "send", Blocks: schedule(t, testutil.SendGraph().Graph)},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "text", listings))
		assert.Equal(t, "graph add\n"+Format(listings[0].Blocks)+"\ngraph send\n"+Format(listings[1].Blocks), buf.String())
	})

	t.Run("cbor", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "cbor", listings))
		decoded, err := ReadListings(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, decoded, 2)
		assert.Equal(t, "send", decoded[1].Graph)
		assert.Equal(t, Format(listings[1].Blocks), Format(decoded[1].Blocks))
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.ErrorContains(t, Write(io.Discard, "xml", listings), `unknown output format "xml"`)
	})
}
