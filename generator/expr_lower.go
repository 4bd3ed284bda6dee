package generator

import (
	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/types"
)

var binaryOpcode = map[semantic.OperatorKind]Opcode{
	semantic.OpAdd: OpAdd, semantic.OpSub: OpSub, semantic.OpMul: OpMul, semantic.OpDiv: OpDiv, semantic.OpRem: OpRem,
	semantic.OpAnd: OpAnd, semantic.OpOr: OpOr, semantic.OpXor: OpXor,
	semantic.OpLt: OpLt, semantic.OpLe: OpLe, semantic.OpEq: OpEq, semantic.OpNe: OpNe, semantic.OpGe: OpGe, semantic.OpGt: OpGt,
	semantic.OpBitAnd: OpBitAnd, semantic.OpBitOr: OpBitOr, semantic.OpBitXor: OpBitXor, semantic.OpShl: OpBitShl, semantic.OpShr: OpBitShr,
}

var unaryOpcode = map[semantic.OperatorKind]Opcode{
	semantic.OpNeg: OpNeg, semantic.OpNot: OpNot, semantic.OpBitNot: OpBitNot,
}

// emitExpr walks te bottom-up (postorder), appending instructions in
// Reverse Polish order: operands before the operator that consumes them,
// per spec.md §9's design note ("let the generator emit RPN during
// generation via postorder traversal" rather than the analyser translating
// on the fly).
func (e *Emitter) emitExpr(te semantic.TypedExpr) error {
	// A fully folded node - of any shape, including aggregates - is pushed
	// as a single constant; the VM expands its flat slots from the
	// Constant's own Elements, so there is no need to re-walk an
	// already-evaluated subtree.
	if c := te.Const(); c != nil {
		e.emit(Instruction{Op: OpPushConst, Const: c})
		return nil
	}
	switch n := te.(type) {
	case *semantic.TypedLiteral:
		e.emit(Instruction{Op: OpPushConst, Const: n.Const()})
		return nil
	case *semantic.TypedPlace:
		return e.emitLoadPlace(n.Place)
	case *semantic.TypedBinary:
		return e.emitBinary(n)
	case *semantic.TypedUnary:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		op, ok := unaryOpcode[n.Op]
		if !ok {
			return errors.Errorf("unsupported unary operator kind %v", n.Op)
		}
		e.emit(Instruction{Op: op})
		return nil
	case *semantic.TypedCast:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		bits, signed := 254, false
		if it, ok := types.IsInteger(n.Type()); ok {
			bits, signed = it.Bits, it.Signed
		}
		e.emit(Instruction{Op: OpCast, CastBits: bits, CastSigned: signed})
		return nil
	case *semantic.TypedIndex:
		return e.emitIndexExpr(n)
	case *semantic.TypedCall:
		return e.emitCall(n)
	case *semantic.TypedTuple:
		for _, el := range n.Elements {
			if err := e.emitExpr(el); err != nil {
				return err
			}
		}
		return nil
	case *semantic.TypedArray:
		if n.Repeat != nil {
			for i := 0; i < n.RepeatN; i++ {
				if err := e.emitExpr(n.Repeat); err != nil {
					return err
				}
			}
			return nil
		}
		for _, el := range n.Elements {
			if err := e.emitExpr(el); err != nil {
				return err
			}
		}
		return nil
	case *semantic.TypedStruct:
		for _, f := range n.Fields {
			if err := e.emitExpr(f); err != nil {
				return err
			}
		}
		return nil
	case *semantic.TypedBlock:
		return e.emitBlockValue(n)
	case *semantic.TypedConditional:
		return e.emitConditional(n)
	case *semantic.TypedMatch:
		return e.emitMatch(n)
	}
	return errors.Errorf("generator: unsupported typed expression shape %T", te)
}

func (e *Emitter) emitBinary(n *semantic.TypedBinary) error {
	if n.Op == semantic.OpAssign {
		return e.emitAssign(n)
	}
	if err := e.emitExpr(n.Left); err != nil {
		return err
	}
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	op, ok := binaryOpcode[n.Op]
	if !ok {
		return errors.Errorf("unsupported binary operator kind %v", n.Op)
	}
	e.emit(Instruction{Op: op})
	return nil
}

func (e *Emitter) emitAssign(n *semantic.TypedBinary) error {
	place, ok := n.Left.(*semantic.TypedPlace)
	if !ok {
		return errors.New("assignment target is not a place")
	}
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	return e.emitStorePlace(place.Place)
}

// emitIndexExpr lowers a TypedIndex whose Operand is not addressable (no
// underlying Place to extend a load off of), so the result must be sliced
// out of the operand's own evaluation-stack value instead of the data
// stack. Three shapes: a dynamic "operand[index]", a constant-bounds slice
// "operand[lo..hi]", and a static field/tuple-index offset (n.Index and
// n.Slice both unset, n.Offset carries the flat-slot start).
func (e *Emitter) emitIndexExpr(n *semantic.TypedIndex) error {
	if err := e.emitExpr(n.Operand); err != nil {
		return err
	}
	if n.Index != nil {
		if err := e.emitExpr(n.Index); err != nil {
			return err
		}
		arrayLen := n.Operand.Type().FlatSize() / n.ElementSize
		e.emit(Instruction{Op: OpLoadByIndex, Imm: int64(n.ElementSize), Imm2: int64(arrayLen)})
		return nil
	}
	if n.Slice {
		e.emit(Instruction{Op: OpSlice, Imm: int64(n.Offset), Imm2: int64(n.Type().FlatSize())})
		return nil
	}
	e.emit(Instruction{Op: OpSlice, Imm: int64(n.Offset), Imm2: int64(n.ElementSize)})
	return nil
}

func (e *Emitter) emitCall(n *semantic.TypedCall) error {
	for _, arg := range n.Args {
		if err := e.emitExpr(arg); err != nil {
			return err
		}
	}
	if n.IsBuiltin {
		sizes := make([]int, len(n.Args))
		for i, arg := range n.Args {
			sizes[i] = arg.Type().FlatSize()
		}
		var aux []int64
		switch n.Intrinsic {
		case semantic.IntrinsicArrayReverse, semantic.IntrinsicArrayTruncate, semantic.IntrinsicArrayPad:
			if at, ok := n.Args[0].Type().(types.Array); ok {
				aux = []int64{int64(at.Element.FlatSize())}
			}
		case semantic.IntrinsicToBits:
			bits := int64(254)
			if it, ok := types.IsInteger(n.Args[0].Type()); ok {
				bits = int64(it.Bits)
			}
			aux = []int64{bits}
		}
		e.emit(Instruction{Op: OpCallBuiltin, Imm: int64(n.Intrinsic), ArgSizes: sizes, ResultSize: n.Type().FlatSize(), Aux: aux})
		return nil
	}
	pos := e.emit(Instruction{Op: OpCall, Imm: int64(n.TypeID)})
	e.fixups = append(e.fixups, pos)
	return nil
}

// emitConditional lowers "if cond { A } else { B }" to "cond; If; A; Else; B;
// EndIf", per spec.md §4.4. If's immediate is patched to the address right
// after Else (the start of B, or EndIf itself when there is no else); Else's
// immediate is patched to the address right after EndIf, so a VM that took
// the Then branch skips B instead of falling into it. Both targets are only
// known once the bracketed content has been emitted, the same two-pass
// discipline as package generator's function-call address fixups.
func (e *Emitter) emitConditional(n *semantic.TypedConditional) error {
	if err := e.emitExpr(n.Condition); err != nil {
		return err
	}
	ifPos := e.emit(Instruction{Op: OpIf})
	if err := e.emitBlockValue(n.Then); err != nil {
		return err
	}
	elsePos := e.emit(Instruction{Op: OpElse})
	e.instrs[ifPos].Imm = int64(len(e.instrs))
	if n.Else != nil {
		if err := e.emitExpr(n.Else); err != nil {
			return err
		}
	}
	e.emit(Instruction{Op: OpEndIf})
	e.instrs[elsePos].Imm = int64(len(e.instrs))
	return nil
}

// emitMatch lowers a match expression as a chain of equality tests against
// the scrutinee, each guarding its arm body the same way a conditional
// does; the wildcard arm (Discriminant == nil), if present, is the final
// unconditional fallback. Each arm's If is patched to fall through to the
// next arm's test on a mismatch; every arm's Else is patched, once the whole
// chain is known, to the shared landing point at the first of the chain's
// trailing EndIfs (no-op landing pads), so a
// matched arm skips the remaining tests entirely rather than falling
// through them.
func (e *Emitter) emitMatch(n *semantic.TypedMatch) error {
	var wildcard *semantic.TypedMatchArm
	for i := range n.Arms {
		if n.Arms[i].Discriminant == nil {
			wildcard = &n.Arms[i]
		}
	}
	var elsePositions []int
	for _, arm := range n.Arms {
		if arm.Discriminant == nil {
			continue
		}
		if err := e.emitExpr(n.Scrutinee); err != nil {
			return err
		}
		e.emit(Instruction{Op: OpPushConst, Const: &semantic.Constant{Type: n.Scrutinee.Type(), Int: bigFromUint64(*arm.Discriminant)}})
		e.emit(Instruction{Op: OpEq})
		ifPos := e.emit(Instruction{Op: OpIf})
		if err := e.emitExpr(arm.Body); err != nil {
			return err
		}
		elsePositions = append(elsePositions, e.emit(Instruction{Op: OpElse}))
		e.instrs[ifPos].Imm = int64(len(e.instrs))
	}
	if wildcard != nil {
		if err := e.emitExpr(wildcard.Body); err != nil {
			return err
		}
	}
	landing := int64(len(e.instrs))
	for _, pos := range elsePositions {
		e.instrs[pos].Imm = landing
	}
	for i := 0; i < len(elsePositions); i++ {
		e.emit(Instruction{Op: OpEndIf})
	}
	return nil
}
