package vm

import (
	"fmt"
	"io"

	"github.com/matter-labs/zinc-sub006/generator"
)

// Disassemble writes one line per instruction in app's stream to w, in the
// same "address: mnemonic operand" shape as the teacher's
// asm.Disassemble/vm.Image.Disassemble, generalised from a single Cell
// immediate to Instruction's richer set of typed immediates. Function and
// entry-point boundaries are annotated as they're reached.
func Disassemble(app *generator.Application, w io.Writer) error {
	funcName := make(map[int]string, len(app.Entries))
	for _, ep := range app.Entries {
		funcName[ep.Address] = ep.Name
	}
	addrToID := make(map[int]int, len(app.FuncAddr))
	for id, addr := range app.FuncAddr {
		addrToID[addr] = id
	}

	for pc, ins := range app.Instructions {
		if id, ok := addrToID[pc]; ok {
			label := fmt.Sprintf("func#%d", id)
			if name, ok := funcName[pc]; ok {
				label = fmt.Sprintf("func#%d (%s)", id, name)
			}
			if _, err := fmt.Fprintf(w, "; %s\n", label); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%6d: %s\n", pc, disasmLine(ins)); err != nil {
			return err
		}
	}
	return nil
}

func disasmLine(ins generator.Instruction) string {
	switch ins.Op {
	case generator.OpPushConst:
		if ins.Const != nil && ins.Const.Int != nil {
			return fmt.Sprintf("push_const %s", ins.Const.Int.String())
		}
		return "push_const"
	case generator.OpCast:
		sign := "u"
		if ins.CastSigned {
			sign = "i"
		}
		return fmt.Sprintf("cast %s%d", sign, ins.CastBits)
	case generator.OpCallBuiltin:
		return fmt.Sprintf("call_builtin %d (args=%v result=%d)", ins.Imm, ins.ArgSizes, ins.ResultSize)
	case generator.OpIf, generator.OpElse:
		return fmt.Sprintf("%s -> %d", ins.Op, ins.Imm)
	case generator.OpCall:
		return fmt.Sprintf("call %d", ins.Imm)
	case generator.OpLoad, generator.OpStore, generator.OpLoadSequence, generator.OpStoreSequence,
		generator.OpLoadSequenceByIndex, generator.OpStoreSequenceByIndex:
		if ins.CastBits > 0 {
			return fmt.Sprintf("%s %d (size=%d)", ins.Op, ins.Imm, ins.CastBits)
		}
		return fmt.Sprintf("%s %d", ins.Op, ins.Imm)
	case generator.OpLoadByIndex:
		return fmt.Sprintf("load_idx elem=%d len=%d", ins.Imm, ins.Imm2)
	case generator.OpSlice:
		return fmt.Sprintf("slice offset=%d size=%d", ins.Imm, ins.Imm2)
	case generator.OpNoOperation, generator.OpEndIf, generator.OpLoopEnd, generator.OpExit,
		generator.OpAdd, generator.OpSub, generator.OpMul, generator.OpDiv, generator.OpRem, generator.OpNeg,
		generator.OpNot, generator.OpAnd, generator.OpOr, generator.OpXor,
		generator.OpLt, generator.OpLe, generator.OpEq, generator.OpNe, generator.OpGe, generator.OpGt,
		generator.OpBitShl, generator.OpBitShr, generator.OpBitAnd, generator.OpBitOr, generator.OpBitXor, generator.OpBitNot,
		generator.OpSwap, generator.OpTee, generator.OpDbg, generator.OpAssert:
		return ins.Op.String()
	}
	return ins.String()
}
