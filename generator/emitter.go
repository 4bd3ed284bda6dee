package generator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/types"
)

// Emitter walks a semantic.Program's FunctionDecls and appends a flat
// Instruction stream, per spec.md §4.4. One Emitter lowers exactly one
// Program; reuse is not supported.
type Emitter struct {
	instrs   []Instruction
	funcAddr map[int]int
	fixups   []int // indices into instrs whose Imm still holds a callee type_id

	frame    map[string]int
	nextAddr int
}

// newEmitter returns an empty Emitter. GenerateProgram later patches the
// Call immediates recorded in fixups from type_id to the callee's resolved
// start address, the teacher's label/use-resolution discipline
// (asm/parser.go) generalised to whole-function addresses.
func newEmitter() *Emitter {
	return &Emitter{funcAddr: make(map[int]int)}
}

func (e *Emitter) emit(i Instruction) int {
	e.instrs = append(e.instrs, i)
	return len(e.instrs) - 1
}

// alloc reserves n contiguous frame slots and returns the first address.
func (e *Emitter) alloc(n int) int {
	addr := e.nextAddr
	e.nextAddr += n
	return addr
}

// GenerateProgram lowers prog into a complete Application, per spec.md
// §4.4's function-layout and address-patching discipline.
func GenerateProgram(prog *semantic.Program) (*Application, error) {
	e := newEmitter()
	for _, fn := range prog.Functions {
		e.funcAddr[fn.TypeID] = len(e.instrs)
		if err := e.emitFunction(fn); err != nil {
			return nil, errors.Wrapf(err, "function %q", fn.Name)
		}
	}
	for _, pos := range e.fixups {
		callee := int(e.instrs[pos].Imm)
		addr, ok := e.funcAddr[callee]
		if !ok {
			return nil, errors.Errorf("call to undeclared function id %d", callee)
		}
		e.instrs[pos].Imm = int64(addr)
	}

	entries := make([]EntryPoint, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		if !fn.IsEntry {
			continue
		}
		returns := fn.Returns
		if fn.IsMutating {
			returns = mutableReturn(fn.Returns)
		}
		entries = append(entries, EntryPoint{
			Name:      fn.Name,
			TypeID:    fn.TypeID,
			Address:   e.funcAddr[fn.TypeID],
			Params:    fn.Params,
			Returns:   returns,
			IsMutable: fn.IsMutating,
		})
	}

	kind := ApplicationLibrary
	switch prog.Kind {
	case semantic.EntryCircuit:
		kind = ApplicationCircuit
	case semantic.EntryContract:
		kind = ApplicationContract
	}

	app := &Application{
		Kind:         kind,
		Instructions: e.instrs,
		Entries:      entries,
		FuncAddr:     e.funcAddr,
	}
	if prog.Contract != nil {
		app.StorageSize = prog.Contract.StorageSize()
	}
	return app, nil
}

func (e *Emitter) emitFunction(fn *semantic.FunctionDecl) error {
	e.frame = make(map[string]int)
	e.nextAddr = 0

	e.emit(Instruction{Op: OpFunctionMarker, Imm: int64(fn.TypeID)})

	addrs := make([]int, len(fn.Params))
	for i, p := range fn.Params {
		addrs[i] = e.alloc(p.Type.FlatSize())
		e.frame[p.Name] = addrs[i]
	}
	// The caller pushed argument values left-to-right, so the last
	// parameter sits on top of the evaluation stack; pop params in reverse
	// to land each one at the frame address its body references resolve
	// to.
	for i := len(fn.Params) - 1; i >= 0; i-- {
		size := fn.Params[i].Type.FlatSize()
		if size == 0 {
			continue
		}
		if size == 1 {
			e.emit(Instruction{Op: OpStore, Imm: int64(addrs[i])})
		} else {
			e.emit(Instruction{Op: OpStoreSequence, Imm: int64(addrs[i]), CastBits: size})
		}
	}

	if err := e.emitBlockValue(fn.Body); err != nil {
		return err
	}
	retSize := fn.Returns.FlatSize()
	if fn.IsMutating {
		// A mutating contract method's caller observes {result, root_hash}
		// (spec.md §4.3.10); push a root-hash slot after the method's own
		// result. A real Merkle root over storage is out of scope (see
		// DESIGN.md), so this is a zero placeholder.
		e.emit(Instruction{Op: OpPushConst, Const: &semantic.Constant{Type: types.Field{}, Int: big.NewInt(0)}})
		retSize++
	}
	e.emit(Instruction{Op: OpReturn, Imm: int64(retSize)})
	return nil
}

// emitBlockValue emits a block's statements then, if present, its trailing
// expression, leaving the trailing value's flat-size slots on the
// evaluation stack (spec.md §4.3.7: a block's value is its trailing expr,
// or unit).
func (e *Emitter) emitBlockValue(b *semantic.TypedBlock) error {
	for _, s := range b.Statements {
		if err := e.emitStmt(s); err != nil {
			return err
		}
	}
	if b.Trailing != nil {
		return e.emitExpr(b.Trailing)
	}
	return nil
}
