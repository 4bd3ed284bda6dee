package generator

import (
	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/semantic"
)

func (e *Emitter) emitStmt(s semantic.TypedStmt) error {
	switch n := s.(type) {
	case *semantic.TypedLet:
		return e.emitLet(n)
	case *semantic.TypedConst:
		return nil // folded away; nothing to emit
	case *semantic.TypedFor:
		return e.emitFor(n)
	case *semantic.TypedWhile:
		return e.emitWhile(n)
	case *semantic.TypedExprStmt:
		if err := e.emitExpr(n.Expr); err != nil {
			return err
		}
		if n.Expr.Type().FlatSize() > 0 {
			e.emit(Instruction{Op: OpPop, Imm: int64(n.Expr.Type().FlatSize())})
		}
		return nil
	}
	return errors.Errorf("unsupported statement shape %T", s)
}

func (e *Emitter) emitLet(n *semantic.TypedLet) error {
	if err := e.emitExpr(n.Value); err != nil {
		return err
	}
	size := n.Value.Type().FlatSize()
	if n.Place.Base == "_" {
		if size > 0 {
			e.emit(Instruction{Op: OpPop, Imm: int64(size)})
		}
		return nil
	}
	addr := e.alloc(size)
	e.frame[n.Place.Base] = addr
	if size > 0 {
		if size == 1 {
			e.emit(Instruction{Op: OpStore, Imm: int64(addr)})
		} else {
			e.emit(Instruction{Op: OpStoreSequence, Imm: int64(addr), CastBits: size})
		}
	}
	return nil
}

// emitFor lowers a statically bounded for-loop, per spec.md §4.3.7/§4.4:
// the iteration count is always known at generation time, so the body is
// emitted once guarded by LoopBegin(n)/LoopEnd and the VM itself drives the
// induction variable, rather than the generator unrolling n copies of the
// body inline.
func (e *Emitter) emitFor(n *semantic.TypedFor) error {
	count := n.Range.Count()
	addr := e.alloc(1)
	e.frame[n.Variable] = addr
	e.emit(Instruction{Op: OpLoopBegin, Imm: count})
	// The loop body only sees the induction variable through its bound
	// frame slot, so each pass re-derives it from the VM's own iteration
	// counter (Range.Low + index) and stores it before the guard/body run.
	e.emit(Instruction{Op: OpLoopIndex})
	e.emit(Instruction{Op: OpPushConst, Const: &semantic.Constant{Type: n.Range.ElemType, Int: n.Range.Low}})
	e.emit(Instruction{Op: OpAdd})
	e.emit(Instruction{Op: OpStore, Imm: int64(addr)})
	var ifPos int
	hasGuard := n.While != nil
	if hasGuard {
		if err := e.emitExpr(n.While); err != nil {
			return err
		}
		ifPos = e.emit(Instruction{Op: OpIf})
	}
	if err := e.emitBlockValue(n.Body); err != nil {
		return err
	}
	if n.Body.Type().FlatSize() > 0 {
		e.emit(Instruction{Op: OpPop, Imm: int64(n.Body.Type().FlatSize())})
	}
	if hasGuard {
		e.emit(Instruction{Op: OpEndIf})
		// A false guard skips straight to EndIf, which falls through to
		// LoopEnd; the guard is re-checked every remaining iteration, so the
		// net effect is the same as breaking early once it stays false.
		e.instrs[ifPos].Imm = int64(len(e.instrs) - 1)
	}
	e.emit(Instruction{Op: OpLoopEnd})
	return nil
}

// emitWhile lowers a "while" loop the same way as a bounded for-loop: the
// VM has no unbounded looping construct (spec.md §4.3.7), so the generator
// emits the guard check once per iteration inside a LoopBegin/LoopEnd
// region sized to a fixed maximum of 1<<16 iterations.
func (e *Emitter) emitWhile(n *semantic.TypedWhile) error {
	const maxIterations = 1 << 16
	e.emit(Instruction{Op: OpLoopBegin, Imm: maxIterations})
	if err := e.emitExpr(n.Condition); err != nil {
		return err
	}
	ifPos := e.emit(Instruction{Op: OpIf})
	if err := e.emitBlockValue(n.Body); err != nil {
		return err
	}
	if n.Body.Type().FlatSize() > 0 {
		e.emit(Instruction{Op: OpPop, Imm: int64(n.Body.Type().FlatSize())})
	}
	e.emit(Instruction{Op: OpEndIf})
	e.instrs[ifPos].Imm = int64(len(e.instrs) - 1)
	e.emit(Instruction{Op: OpLoopEnd})
	return nil
}
