package vm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/types"
)

// flatten expands a folded Constant into its ordered flat field-element
// slots, the runtime counterpart of types.Type.FlatSize(): a scalar becomes
// one slot, an aggregate's Elements are flattened depth-first in
// declaration/index order.
func flatten(c *semantic.Constant) ([]*big.Int, error) {
	if len(c.Elements) > 0 {
		var out []*big.Int
		for _, e := range c.Elements {
			vs, err := flatten(e)
			if err != nil {
				return nil, err
			}
			out = append(out, vs...)
		}
		return out, nil
	}
	switch {
	case c.Int != nil:
		return []*big.Int{reduce(c.Int)}, nil
	case c.Bool:
		return []*big.Int{one()}, nil
	default:
		// A zero-valued scalar (false, unit) or a string/range constant
		// that carries no runtime representation of its own.
		if c.Str != "" || c.Range != nil {
			return nil, nil
		}
		return []*big.Int{zero()}, nil
	}
}

// step executes one Instruction, advancing in.PC per its opcode family, per
// spec.md §3.8/§4.4. Control-flow opcodes set PC themselves; every other
// opcode falls through to the PC++ at the bottom.
func (in *Instance) step(ins generator.Instruction) error {
	switch ins.Op {
	case OpNoOperation, OpFileMarker, OpFunctionMarker, OpLineMarker, OpColumnMarker:
		// markers carry debugging metadata only; execution ignores them

	case OpPushConst:
		vs, err := flatten(ins.Const)
		if err != nil {
			return err
		}
		for _, v := range vs {
			in.push(v)
		}

	case OpPop:
		if _, err := in.popN(int(ins.Imm)); err != nil {
			return err
		}

	case OpSlice:
		// Slices out of a value already on the evaluation stack, used for
		// field/tuple-index access on a non-addressable operand.
		if _, err := in.sliceTop(int(ins.Imm), int(ins.Imm2)); err != nil {
			return err
		}

	case OpSwap:
		n := len(in.stack)
		if n < 2 {
			return errors.New("vm: swap needs two operands")
		}
		in.stack[n-1], in.stack[n-2] = in.stack[n-2], in.stack[n-1]

	case OpTee:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(v)
		in.push(new(big.Int).Set(v))

	case OpLoad:
		in.ensureMem(int(ins.Imm))
		in.push(new(big.Int).Set(in.mem[in.memBase+int(ins.Imm)]))

	case OpLoadSequence:
		size := ins.CastBits
		for k := 0; k < size; k++ {
			in.ensureMem(int(ins.Imm) + k)
			in.push(new(big.Int).Set(in.mem[in.memBase+int(ins.Imm)+k]))
		}

	case OpLoadByIndex:
		idxVal, err := in.pop()
		if err != nil {
			return err
		}
		elemSize := int(ins.Imm)
		arrayLen := int(ins.Imm2)
		total := elemSize * arrayLen
		elems, err := in.popN(total)
		if err != nil {
			return err
		}
		idx := int(idxVal.Int64())
		if idx < 0 || idx >= arrayLen {
			return errors.Errorf("vm: index %d out of bounds for length %d", idx, arrayLen)
		}
		for _, v := range elems[idx*elemSize : idx*elemSize+elemSize] {
			in.push(v)
		}

	case OpLoadSequenceByIndex:
		off, err := in.pop()
		if err != nil {
			return err
		}
		base := int(ins.Imm) + int(off.Int64())
		size := ins.CastBits
		for k := 0; k < size; k++ {
			in.ensureMem(base + k)
			in.push(new(big.Int).Set(in.mem[in.memBase+base+k]))
		}

	case OpLoadGlobal:
		idx := int(ins.Imm)
		if idx < 0 || idx >= len(in.storage) {
			return errors.Errorf("vm: storage index %d out of range", idx)
		}
		in.push(new(big.Int).Set(in.storage[idx]))

	case OpStore:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.ensureMem(int(ins.Imm))
		in.mem[in.memBase+int(ins.Imm)] = v

	case OpStoreSequence:
		size := ins.CastBits
		vs, err := in.popN(size)
		if err != nil {
			return err
		}
		for k := 0; k < size; k++ {
			in.ensureMem(int(ins.Imm) + k)
			in.mem[in.memBase+int(ins.Imm)+k] = vs[k]
		}

	case OpStoreByIndex:
		return errors.New("vm: store-by-index on a bare value has no target")

	case OpStoreSequenceByIndex:
		off, err := in.pop()
		if err != nil {
			return err
		}
		base := int(ins.Imm) + int(off.Int64())
		size := ins.CastBits
		vs, err := in.popN(size)
		if err != nil {
			return err
		}
		for k := 0; k < size; k++ {
			in.ensureMem(base + k)
			in.mem[in.memBase+base+k] = vs[k]
		}

	case OpStorageLoad:
		off := int(ins.Imm)
		size := ins.CastBits
		if size == 0 {
			size = 1
		}
		for k := 0; k < size; k++ {
			if off+k >= len(in.storage) {
				return errors.Errorf("vm: storage offset %d out of range", off+k)
			}
			in.push(new(big.Int).Set(in.storage[off+k]))
		}

	case OpStorageStore:
		off := int(ins.Imm)
		size := ins.CastBits
		if size == 0 {
			size = 1
		}
		vs, err := in.popN(size)
		if err != nil {
			return err
		}
		for k := 0; k < size; k++ {
			if off+k >= len(in.storage) {
				return errors.Errorf("vm: storage offset %d out of range", off+k)
			}
			in.storage[off+k] = vs[k]
		}

	case OpAdd, OpSub, OpMul, OpDiv, OpRem:
		if err := in.binaryArith(ins.Op); err != nil {
			return err
		}

	case OpNeg:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(reduce(new(big.Int).Neg(v)))

	case OpNot:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(boolCell(!truthy(v)))

	case OpAnd:
		if err := in.binaryBool(func(a, b bool) bool { return a && b }); err != nil {
			return err
		}
	case OpOr:
		if err := in.binaryBool(func(a, b bool) bool { return a || b }); err != nil {
			return err
		}
	case OpXor:
		if err := in.binaryBool(func(a, b bool) bool { return a != b }); err != nil {
			return err
		}

	case OpLt, OpLe, OpEq, OpNe, OpGe, OpGt:
		if err := in.compare(ins.Op); err != nil {
			return err
		}

	case OpBitShl, OpBitShr, OpBitAnd, OpBitOr, OpBitXor:
		if err := in.binaryBits(ins.Op); err != nil {
			return err
		}
	case OpBitNot:
		v, err := in.pop()
		if err != nil {
			return err
		}
		bits := uint(254)
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
		in.push(reduce(new(big.Int).Xor(v, mask)))

	case OpCast:
		if err := in.cast(ins); err != nil {
			return err
		}

	case OpIf:
		cond, err := in.pop()
		if err != nil {
			return err
		}
		if !truthy(cond) {
			in.PC = int(ins.Imm)
			return nil
		}

	case OpElse:
		in.PC = int(ins.Imm)
		return nil

	case OpEndIf:
		// landing pad only

	case OpLoopBegin:
		in.loops = append(in.loops, loopFrame{remaining: ins.Imm, bodyStart: in.PC + 1})

	case OpLoopIndex:
		n := len(in.loops)
		if n == 0 {
			return errors.New("vm: loop_index outside of a loop")
		}
		in.push(big.NewInt(in.loops[n-1].index))

	case OpLoopEnd:
		n := len(in.loops)
		if n == 0 {
			return errors.New("vm: loop_end without matching loop_begin")
		}
		lf := &in.loops[n-1]
		lf.remaining--
		if lf.remaining > 0 {
			lf.index++
			in.PC = lf.bodyStart
			return nil
		}
		in.loops = in.loops[:n-1]

	case OpCall:
		in.calls = append(in.calls, callFrame{returnPC: in.PC + 1, memBase: in.memBase})
		in.memBase = len(in.mem)
		in.PC = int(ins.Imm)
		return nil

	case OpReturn:
		n := len(in.calls)
		if n == 0 {
			return errors.New("vm: return with empty call stack")
		}
		f := in.calls[n-1]
		in.calls = in.calls[:n-1]
		in.mem = in.mem[:in.memBase]
		in.memBase = f.memBase
		in.PC = f.returnPC
		return nil

	case OpExit:
		in.PC = len(in.app.Instructions)
		return nil

	case OpCallBuiltin:
		if err := in.callBuiltin(semantic.Intrinsic(ins.Imm), ins); err != nil {
			return err
		}

	case OpDbg:
		if in.dbgWriter != nil {
			args, err := in.popN(int(ins.Imm))
			if err != nil {
				return err
			}
			in.dbgWriter(args)
		} else if _, err := in.popN(int(ins.Imm)); err != nil {
			return err
		}

	case OpAssert:
		v, err := in.pop()
		if err != nil {
			return err
		}
		if !truthy(v) {
			return errors.New("vm: assertion failed")
		}

	default:
		return errors.Errorf("vm: unimplemented opcode %s", ins.Op)
	}
	in.PC++
	return nil
}

// sliceTop replaces the top value-bearing run of the evaluation stack with
// the ElementSize-wide window starting at Offset, used to pick one
// field/element out of an aggregate value that has no Place to load from
// directly. The caller (generator.emitIndexExpr) guarantees the operand's
// flat slots are exactly on top of the stack.
func (in *Instance) sliceTop(offset, size int) ([]*big.Int, error) {
	if size == 0 {
		return nil, nil
	}
	if len(in.stack) < offset+size {
		return nil, errors.New("vm: slice out of range of evaluation stack")
	}
	start := len(in.stack) - offset - size
	window := in.stack[start : start+size]
	rest := in.stack[:start]
	in.stack = append(rest, window...)
	return window, nil
}

func (in *Instance) binaryArith(op Opcode) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	var r *big.Int
	switch op {
	case OpAdd:
		r = new(big.Int).Add(a, b)
	case OpSub:
		r = new(big.Int).Sub(a, b)
	case OpMul:
		r = new(big.Int).Mul(a, b)
	case OpDiv:
		if b.Sign() == 0 {
			return errors.New("vm: division by zero")
		}
		r = new(big.Int).Quo(a, b)
	case OpRem:
		if b.Sign() == 0 {
			return errors.New("vm: division by zero")
		}
		r = new(big.Int).Rem(a, b)
	}
	in.push(reduce(r))
	return nil
}

func (in *Instance) binaryBool(f func(a, b bool) bool) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(boolCell(f(truthy(a), truthy(b))))
	return nil
}

func (in *Instance) compare(op Opcode) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	c := a.Cmp(b)
	var r bool
	switch op {
	case OpLt:
		r = c < 0
	case OpLe:
		r = c <= 0
	case OpEq:
		r = c == 0
	case OpNe:
		r = c != 0
	case OpGe:
		r = c >= 0
	case OpGt:
		r = c > 0
	}
	in.push(boolCell(r))
	return nil
}

func (in *Instance) binaryBits(op Opcode) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	var r *big.Int
	switch op {
	case OpBitShl:
		r = new(big.Int).Lsh(a, uint(b.Uint64()))
	case OpBitShr:
		r = new(big.Int).Rsh(a, uint(b.Uint64()))
	case OpBitAnd:
		r = new(big.Int).And(a, b)
	case OpBitOr:
		r = new(big.Int).Or(a, b)
	case OpBitXor:
		r = new(big.Int).Xor(a, b)
	}
	in.push(reduce(r))
	return nil
}

func (in *Instance) cast(ins generator.Instruction) error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	target := types.Integer{Bits: ins.CastBits, Signed: ins.CastSigned}
	in.push(semantic.TruncateTo(v, target))
	return nil
}
