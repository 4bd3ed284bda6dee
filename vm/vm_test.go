package vm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
	"github.com/matter-labs/zinc-sub006/vm"
)

func u32() types.Integer { return types.Integer{Bits: 32, Signed: false} }

// constExpr is a minimal TypedExpr standing in for any already-folded node:
// emitExpr pushes a single PushConst for any node whose Const() is non-nil,
// so hand-built test trees never need the full TypedLiteral plumbing.
type constExpr struct{ c *semantic.Constant }

func (e *constExpr) Loc() source.Location      { return source.Location{} }
func (e *constExpr) Type() types.Type          { return e.c.Type }
func (e *constExpr) Const() *semantic.Constant { return e.c }

func litOf(v int64, t types.Type) semantic.TypedExpr {
	return &constExpr{c: &semantic.Constant{Type: t, Int: big.NewInt(v)}}
}

func boolLit(v bool) semantic.TypedExpr {
	c := &semantic.Constant{Type: types.Bool{}, Bool: v}
	return &constExpr{c: c}
}

func placeExpr(name string, t types.Type) *semantic.TypedPlace {
	return &semantic.TypedPlace{Place: &semantic.Place{Base: name, Type: t}}
}

func mustBuild(t *testing.T, prog *semantic.Program) *generator.Application {
	t.Helper()
	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)
	return app
}

func TestCallSumAddsArguments(t *testing.T) {
	a, b := placeExpr("a", u32()), placeExpr("b", u32())
	sum := &semantic.TypedBinary{Op: semantic.OpAdd, Left: a, Right: b}
	sum.Typ = u32()
	fn := &semantic.FunctionDecl{
		TypeID: 0, Name: "add", IsEntry: true, Returns: u32(),
		Params: []semantic.FunctionParam{{Name: "a", Type: u32()}, {Name: "b", Type: u32()}},
		Body:   &semantic.TypedBlock{Trailing: sum},
	}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	result, err := instance.Call("add", []*big.Int{big.NewInt(7), big.NewInt(9)})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, big.NewInt(16), result[0])
}

func TestCallConditionalTakesTrueBranch(t *testing.T) {
	cond := boolLit(true)
	then := &semantic.TypedBlock{Trailing: litOf(10, u32())}
	els := &semantic.TypedBlock{Trailing: litOf(20, u32())}
	c := &semantic.TypedConditional{Condition: cond, Then: then, Else: els}
	c.Typ = u32()
	fn := &semantic.FunctionDecl{TypeID: 0, Name: "pick", IsEntry: true, Returns: u32(), Body: &semantic.TypedBlock{Trailing: c}}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	result, err := instance.Call("pick", nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, big.NewInt(10), result[0])
}

func TestCallConditionalTakesFalseBranch(t *testing.T) {
	cond := boolLit(false)
	then := &semantic.TypedBlock{Trailing: litOf(10, u32())}
	els := &semantic.TypedBlock{Trailing: litOf(20, u32())}
	c := &semantic.TypedConditional{Condition: cond, Then: then, Else: els}
	c.Typ = u32()
	fn := &semantic.FunctionDecl{TypeID: 0, Name: "pick", IsEntry: true, Returns: u32(), Body: &semantic.TypedBlock{Trailing: c}}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	result, err := instance.Call("pick", nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, big.NewInt(20), result[0])
}

// TestCallForLoopSumsRange builds "for i in 0..5 { sum = sum + i }; sum" and
// checks the induction variable is actually threaded through each iteration
// (0+1+2+3+4 == 10), not left at its initial zero value.
func TestCallForLoopSumsRange(t *testing.T) {
	i := placeExpr("i", u32())
	sumPlace := placeExpr("sum", u32())

	rangeConst := &semantic.RangeConstant{Low: big.NewInt(0), High: big.NewInt(5), Inclusive: false, ElemType: u32()}

	inner := &semantic.TypedBinary{Op: semantic.OpAdd, Left: sumPlace, Right: i}
	inner.Typ = u32()
	assign := &semantic.TypedBinary{Op: semantic.OpAssign, Left: sumPlace, Right: inner}
	assign.Typ = types.Unit{}

	loopBody := &semantic.TypedBlock{Statements: []semantic.TypedStmt{&semantic.TypedExprStmt{Expr: assign}}}
	loopBody.Typ = types.Unit{}
	forStmt := &semantic.TypedFor{Variable: "i", Range: rangeConst, Body: loopBody}

	initSum := &semantic.TypedLet{Place: &semantic.Place{Base: "sum", Type: u32()}, Value: litOf(0, u32())}

	fn := &semantic.FunctionDecl{
		TypeID: 0, Name: "sum_range", IsEntry: true, Returns: u32(),
		Body: &semantic.TypedBlock{
			Statements: []semantic.TypedStmt{initSum, forStmt},
			Trailing:   sumPlace,
		},
	}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	result, err := instance.Call("sum_range", nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, big.NewInt(10), result[0])
}

func TestCallBuiltinRequireFailsOnFalse(t *testing.T) {
	call := &semantic.TypedCall{IsBuiltin: true, Intrinsic: semantic.IntrinsicRequire, Args: []semantic.TypedExpr{boolLit(false)}}
	call.Typ = types.Unit{}
	fn := &semantic.FunctionDecl{TypeID: 0, Name: "guarded", IsEntry: true, Returns: types.Unit{}, Body: &semantic.TypedBlock{Trailing: call}}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	_, err := instance.Call("guarded", nil)
	assert.Error(t, err)
}

func TestCallBuiltinRequirePassesOnTrue(t *testing.T) {
	call := &semantic.TypedCall{IsBuiltin: true, Intrinsic: semantic.IntrinsicRequire, Args: []semantic.TypedExpr{boolLit(true)}}
	call.Typ = types.Unit{}
	fn := &semantic.FunctionDecl{TypeID: 0, Name: "guarded", IsEntry: true, Returns: types.Unit{}, Body: &semantic.TypedBlock{Trailing: call}}
	prog := &semantic.Program{Kind: semantic.EntryCircuit, EntryTypeID: 0, Functions: []*semantic.FunctionDecl{fn}}
	app := mustBuild(t, prog)

	instance := vm.New(app, nil)
	_, err := instance.Call("guarded", nil)
	assert.NoError(t, err)
}
