package generator

import (
	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/semantic"
)

// dynamicSteps returns the steps of a place's access chain that need a
// runtime-computed offset, i.e. everything but the static field/tuple
// accesses TotalStaticOffset already folded into one constant.
func dynamicSteps(p *semantic.Place) []semantic.AccessStep {
	var dyn []semantic.AccessStep
	for _, s := range p.Steps {
		if !s.Static {
			dyn = append(dyn, s)
		}
	}
	return dyn
}

// emitDynamicOffset pushes the combined runtime offset contributed by a
// place's dynamic steps: sum(index_i * ElementSize_i). Left empty-handed
// (nothing pushed) only when steps is empty, which callers must not invoke
// with since the caller branches on len(dyn) == 0 beforehand.
func (e *Emitter) emitDynamicOffset(steps []semantic.AccessStep) error {
	for i, s := range steps {
		if err := e.emitExpr(s.Index); err != nil {
			return err
		}
		if s.ElementSize != 1 {
			e.emit(Instruction{Op: OpPushConst, Const: intConst(s.ElementSize)})
			e.emit(Instruction{Op: OpMul})
		}
		if i > 0 {
			e.emit(Instruction{Op: OpAdd})
		}
	}
	return nil
}

func intConst(v int) *semantic.Constant {
	return &semantic.Constant{Int: bigFromUint64(uint64(v))}
}

// emitLoadPlace realises a Place as a load from the data stack (a function's
// local frame) or contract storage, per spec.md §4.4's place-expression
// lowering: static steps fold into one constant offset ahead of time, any
// remaining dynamic steps are computed on the evaluation stack and combined
// into a single runtime offset before the final indexed load.
func (e *Emitter) emitLoadPlace(p *semantic.Place) error {
	size := p.Type.FlatSize()
	static := p.TotalStaticOffset()
	dyn := dynamicSteps(p)

	if p.IsStorage {
		if len(dyn) > 0 {
			return errors.New("generator: dynamic indexing into contract storage is not supported")
		}
		if size == 0 {
			return nil
		}
		e.emit(Instruction{Op: OpStorageLoad, Imm: int64(static), CastBits: size})
		return nil
	}

	base, ok := e.frame[p.Base]
	if !ok {
		return errors.Errorf("generator: unresolved local %q", p.Base)
	}
	addr := base + static

	if len(dyn) == 0 {
		if size == 0 {
			return nil
		}
		if size == 1 {
			e.emit(Instruction{Op: OpLoad, Imm: int64(addr)})
		} else {
			e.emit(Instruction{Op: OpLoadSequence, Imm: int64(addr), CastBits: size})
		}
		return nil
	}

	if err := e.emitDynamicOffset(dyn); err != nil {
		return err
	}
	e.emit(Instruction{Op: OpLoadSequenceByIndex, Imm: int64(addr), Imm2: 1, CastBits: size})
	return nil
}

// emitStorePlace is emitLoadPlace's mirror: the value to store is assumed
// already on top of the evaluation stack (size flat slots).
func (e *Emitter) emitStorePlace(p *semantic.Place) error {
	size := p.Type.FlatSize()
	static := p.TotalStaticOffset()
	dyn := dynamicSteps(p)

	if p.IsStorage {
		if len(dyn) > 0 {
			return errors.New("generator: dynamic indexing into contract storage is not supported")
		}
		if size == 0 {
			return nil
		}
		e.emit(Instruction{Op: OpStorageStore, Imm: int64(static), CastBits: size})
		return nil
	}

	base, ok := e.frame[p.Base]
	if !ok {
		return errors.Errorf("generator: unresolved local %q", p.Base)
	}
	addr := base + static

	if len(dyn) == 0 {
		if size == 0 {
			return nil
		}
		if size == 1 {
			e.emit(Instruction{Op: OpStore, Imm: int64(addr)})
		} else {
			e.emit(Instruction{Op: OpStoreSequence, Imm: int64(addr), CastBits: size})
		}
		return nil
	}

	if err := e.emitDynamicOffset(dyn); err != nil {
		return err
	}
	e.emit(Instruction{Op: OpStoreSequenceByIndex, Imm: int64(addr), Imm2: 1, CastBits: size})
	return nil
}
