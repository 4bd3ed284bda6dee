package generator_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

func u32() types.Integer { return types.Integer{Bits: 32, Signed: false} }

// litOf wraps a constant integer as a typed literal expression, the shape a
// fully-folded numeric literal takes in the analyser's output tree.
func litOf(v int64, t types.Type) semantic.TypedExpr {
	c := &semantic.Constant{Type: t, Int: big.NewInt(v)}
	return &constExpr{c: c}
}

// constExpr is a minimal TypedExpr standing in for any node whose Const()
// is non-nil: emitExpr pushes such nodes as a single PushConst regardless of
// their concrete shape, so tests don't need the full TypedLiteral plumbing.
type constExpr struct{ c *semantic.Constant }

func (e *constExpr) Loc() source.Location { return source.Location{} }
func (e *constExpr) Type() types.Type     { return e.c.Type }
func (e *constExpr) Const() *semantic.Constant { return e.c }

func placeExpr(name string, t types.Type) *semantic.TypedPlace {
	return &semantic.TypedPlace{
		Place: &semantic.Place{Base: name, Type: t},
	}
}

// addFn builds "fn add(a: u32, b: u32) -> u32 { a + b }" as already-analysed
// IR, the shape semantic.Analyzer would have produced.
func addFn(typeID int, entry bool) *semantic.FunctionDecl {
	aPlace := placeExpr("a", u32())
	bPlace := placeExpr("b", u32())
	sum := &semantic.TypedBinary{Op: semantic.OpAdd, Left: aPlace, Right: bPlace}
	sum.Typ = u32()
	body := &semantic.TypedBlock{Trailing: sum}
	return &semantic.FunctionDecl{
		TypeID:  typeID,
		Name:    "add",
		IsEntry: entry,
		Params: []semantic.FunctionParam{
			{Name: "a", Type: u32()},
			{Name: "b", Type: u32()},
		},
		Returns: u32(),
		Body:    body,
	}
}

func TestGenerateProgramPatchesCallAddress(t *testing.T) {
	callee := addFn(0, false)

	callExpr := &semantic.TypedCall{TypeID: 0, Args: []semantic.TypedExpr{litOf(1, u32()), litOf(2, u32())}}
	callExpr.Typ = u32()
	caller := &semantic.FunctionDecl{
		TypeID:  1,
		Name:    "main",
		IsEntry: true,
		Returns: u32(),
		Body:    &semantic.TypedBlock{Trailing: callExpr},
	}

	prog := &semantic.Program{
		Kind:        semantic.EntryCircuit,
		EntryTypeID: 1,
		Functions:   []*semantic.FunctionDecl{callee, caller},
	}

	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)

	foundCall := false
	for _, ins := range app.Instructions {
		if ins.Op == generator.OpCall {
			foundCall = true
			assert.Equal(t, int64(app.FuncAddr[0]), ins.Imm, "call immediate must be patched to callee's resolved address")
		}
	}
	assert.True(t, foundCall, "expected a Call instruction in the generated stream")

	ep, ok := app.EntryByName("main")
	require.True(t, ok)
	assert.Equal(t, app.FuncAddr[1], ep.Address)
}

func TestEmitConditionalPatchesJumpTargets(t *testing.T) {
	cond := litOf(1, types.Bool{})
	thenBlock := &semantic.TypedBlock{Trailing: litOf(10, u32())}
	elseExpr := &semantic.TypedBlock{Trailing: litOf(20, u32())}
	c := &semantic.TypedConditional{Condition: cond, Then: thenBlock, Else: elseExpr}
	c.Typ = u32()

	fn := &semantic.FunctionDecl{TypeID: 0, Name: "pick", IsEntry: true, Returns: u32(), Body: &semantic.TypedBlock{Trailing: c}}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}

	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)

	var ifIns, elseIns *generator.Instruction
	for i := range app.Instructions {
		switch app.Instructions[i].Op {
		case generator.OpIf:
			ifIns = &app.Instructions[i]
		case generator.OpElse:
			elseIns = &app.Instructions[i]
		}
	}
	require.NotNil(t, ifIns)
	require.NotNil(t, elseIns)
	assert.True(t, int(ifIns.Imm) > 0 && int(ifIns.Imm) <= len(app.Instructions))
	assert.True(t, int(elseIns.Imm) > 0 && int(elseIns.Imm) <= len(app.Instructions))
	assert.NotEqual(t, ifIns.Imm, elseIns.Imm)
}

func TestMutatingMethodReturnIsWrappedWithRootHash(t *testing.T) {
	fn := &semantic.FunctionDecl{
		TypeID:     0,
		Name:       "deposit",
		Public:     true,
		IsEntry:    true,
		IsMutating: true,
		Returns:    types.Bool{},
		Body:       &semantic.TypedBlock{Trailing: litOf(1, types.Bool{})},
	}
	prog := &semantic.Program{Kind: semantic.EntryContract, Functions: []*semantic.FunctionDecl{fn}}

	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)

	ep, ok := app.EntryByName("deposit")
	require.True(t, ok)
	assert.True(t, ep.IsMutable)

	wrapped, ok := ep.Returns.(*types.Struct)
	require.True(t, ok, "a mutating method's Returns must be the synthetic {result, root_hash} struct")
	resultType, _, ok := wrapped.Field("result")
	require.True(t, ok)
	assert.True(t, types.Bool{}.Equal(resultType))
	rootHashType, _, ok := wrapped.Field("root_hash")
	require.True(t, ok)
	assert.True(t, types.Field{}.Equal(rootHashType))
	assert.Equal(t, 2, wrapped.FlatSize())

	last := app.Instructions[len(app.Instructions)-1]
	assert.Equal(t, generator.OpReturn, last.Op)
	assert.Equal(t, int64(2), last.Imm, "return must account for the appended root_hash slot")
}

func TestInputSkeletonCoversDeclaredParams(t *testing.T) {
	fn := addFn(0, true)
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)

	sk, err := app.InputSkeleton("add")
	require.NoError(t, err)
	assert.Equal(t, "0", sk["a"])
	assert.Equal(t, "0", sk["b"])
}
