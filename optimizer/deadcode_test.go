package optimizer_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/optimizer"
	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
	"github.com/matter-labs/zinc-sub006/vm"
)

func u32() types.Integer { return types.Integer{Bits: 32, Signed: false} }

type constExpr struct{ c *semantic.Constant }

func (e *constExpr) Loc() source.Location      { return source.Location{} }
func (e *constExpr) Type() types.Type          { return e.c.Type }
func (e *constExpr) Const() *semantic.Constant { return e.c }

func litOf(v int64, t types.Type) semantic.TypedExpr {
	return &constExpr{c: &semantic.Constant{Type: t, Int: big.NewInt(v)}}
}

// buildProgram wires four functions: "main" (entry, type 0) calls "helper"
// (type 1); "dead_caller" (type 2) calls "dead_target" (type 3), but nothing
// calls dead_caller itself, so both 2 and 3 are unreachable - 3 only
// transitively, through 2.
func buildProgram(t *testing.T) *generator.Application {
	t.Helper()
	helperCall := &semantic.TypedCall{TypeID: 1}
	helperCall.Typ = u32()
	main := &semantic.FunctionDecl{TypeID: 0, Name: "main", IsEntry: true, Returns: u32(), Body: &semantic.TypedBlock{Trailing: helperCall}}

	helper := &semantic.FunctionDecl{TypeID: 1, Name: "helper", Returns: u32(), Body: &semantic.TypedBlock{Trailing: litOf(42, u32())}}

	deadTargetCall := &semantic.TypedCall{TypeID: 3}
	deadTargetCall.Typ = u32()
	deadCaller := &semantic.FunctionDecl{TypeID: 2, Name: "dead_caller", Returns: u32(), Body: &semantic.TypedBlock{Trailing: deadTargetCall}}

	deadTarget := &semantic.FunctionDecl{TypeID: 3, Name: "dead_target", Returns: u32(), Body: &semantic.TypedBlock{Trailing: litOf(99, u32())}}

	prog := &semantic.Program{
		Kind:        semantic.EntryCircuit,
		EntryTypeID: 0,
		Functions:   []*semantic.FunctionDecl{main, helper, deadCaller, deadTarget},
	}
	app, err := generator.GenerateProgram(prog)
	require.NoError(t, err)
	return app
}

func TestEliminateDeadFunctionsDropsUnreachableTransitively(t *testing.T) {
	app := buildProgram(t)
	before := len(app.Instructions)

	optimized := optimizer.EliminateDeadFunctions(app)

	assert.Less(t, len(optimized.Instructions), before, "unreachable functions' instructions should be dropped")
	assert.Len(t, optimized.FuncAddr, 2, "only main and helper should survive")
	_, hasMain := optimized.FuncAddr[0]
	_, hasHelper := optimized.FuncAddr[1]
	_, hasDeadCaller := optimized.FuncAddr[2]
	_, hasDeadTarget := optimized.FuncAddr[3]
	assert.True(t, hasMain)
	assert.True(t, hasHelper)
	assert.False(t, hasDeadCaller)
	assert.False(t, hasDeadTarget)
}

func TestEliminateDeadFunctionsPreservesExecutionSemantics(t *testing.T) {
	app := buildProgram(t)
	optimized := optimizer.EliminateDeadFunctions(app)

	ep, ok := optimized.EntryByName("main")
	require.True(t, ok)
	assert.Equal(t, optimized.FuncAddr[0], ep.Address)

	instance := vm.New(optimized, nil)
	result, err := instance.Call("main", nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, big.NewInt(42), result[0])
}

func TestEliminateDeadFunctionsLeavesOriginalUntouched(t *testing.T) {
	app := buildProgram(t)
	before := len(app.Instructions)
	_ = optimizer.EliminateDeadFunctions(app)
	assert.Equal(t, before, len(app.Instructions), "EliminateDeadFunctions must not mutate its input")
	assert.Len(t, app.FuncAddr, 4)
}
