// Package generator lowers a semantic.Program into a flat bytecode stream,
// per spec.md §4.4. It keeps the teacher's (db47h/ngaro vm/core.go) flat
// opcode-switch model: one Opcode enum, one Instruction struct carrying an
// optional immediate, and a function emitted as a contiguous run of
// instructions addressed by type_id, patched to an absolute address once
// every function has been laid out.
package generator

import (
	"fmt"

	"github.com/matter-labs/zinc-sub006/semantic"
)

// Opcode enumerates the bytecode's instruction set, per spec.md §3.8,
// mirrored one-to-one against the instruction families it lists there.
type Opcode int

const (
	OpPushConst Opcode = iota
	OpPop
	OpSlice
	OpSwap
	OpTee

	OpLoad
	OpLoadSequence
	OpLoadByIndex
	OpLoadSequenceByIndex
	OpLoadGlobal

	OpStore
	OpStoreSequence
	OpStoreByIndex
	OpStoreSequenceByIndex
	OpStoreGlobal

	OpStorageLoad
	OpStorageStore

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg

	OpNot
	OpAnd
	OpOr
	OpXor

	OpLt
	OpLe
	OpEq
	OpNe
	OpGe
	OpGt

	OpBitShl
	OpBitShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot

	OpCast

	OpIf
	OpElse
	OpEndIf
	OpLoopBegin
	OpLoopIndex
	OpLoopEnd
	OpCall
	OpReturn
	OpExit

	OpCallBuiltin

	OpFileMarker
	OpFunctionMarker
	OpLineMarker
	OpColumnMarker
	OpDbg
	OpAssert

	OpNoOperation
)

var opcodeNames = [...]string{
	OpPushConst: "push_const", OpPop: "pop", OpSlice: "slice", OpSwap: "swap", OpTee: "tee",
	OpLoad: "load", OpLoadSequence: "load_seq", OpLoadByIndex: "load_idx", OpLoadSequenceByIndex: "load_seq_idx", OpLoadGlobal: "load_global",
	OpStore: "store", OpStoreSequence: "store_seq", OpStoreByIndex: "store_idx", OpStoreSequenceByIndex: "store_seq_idx", OpStoreGlobal: "store_global",
	OpStorageLoad: "storage_load", OpStorageStore: "storage_store",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpRem: "rem", OpNeg: "neg",
	OpNot: "not", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpLt: "lt", OpLe: "le", OpEq: "eq", OpNe: "ne", OpGe: "ge", OpGt: "gt",
	OpBitShl: "shl", OpBitShr: "shr", OpBitAnd: "bit_and", OpBitOr: "bit_or", OpBitXor: "bit_xor", OpBitNot: "bit_not",
	OpCast: "cast",
	OpIf: "if", OpElse: "else", OpEndIf: "end_if", OpLoopBegin: "loop_begin", OpLoopIndex: "loop_index", OpLoopEnd: "loop_end",
	OpCall: "call", OpReturn: "return", OpExit: "exit",
	OpCallBuiltin: "call_builtin",
	OpFileMarker:  "file_marker", OpFunctionMarker: "function_marker", OpLineMarker: "line_marker", OpColumnMarker: "column_marker",
	OpDbg: "dbg", OpAssert: "assert",
	OpNoOperation: "nop",
}

func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Instruction is one bytecode entry. Imm carries an opcode-specific
// immediate (PushConst's folded constant lives in Const instead): an
// address/offset for
// load/store family opcodes, a callee type_id (pre-patch) or absolute
// address (post-patch) for Call, an iteration count for LoopBegin, a
// builtin id for CallBuiltin.
type Instruction struct {
	Op    Opcode
	Imm   int64
	Imm2  int64              // second immediate: Slice's element count, alongside Imm's offset
	Const *semantic.Constant // set only for PushConst
	// CastBits / CastSigned describe a Cast instruction's checked
	// reinterpretation, needed by the VM to apply the correct range check.
	CastBits   int
	CastSigned bool
	// ArgSizes/ResultSize carry a CallBuiltin's argument/result flat sizes,
	// since an intrinsic's array/bit-width operands vary in length and the
	// VM has no type information to derive them from at execution time.
	ArgSizes   []int
	ResultSize int
	// Aux carries any further per-intrinsic scalar metadata ArgSizes can't
	// express, e.g. an array intrinsic's element width or a to_bits call's
	// source integer bit count.
	Aux []int64
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushConst:
		if i.Const != nil && i.Const.Int != nil {
			return fmt.Sprintf("push_const %s", i.Const.Int.String())
		}
		return "push_const"
	case OpCast:
		sign := "u"
		if i.CastSigned {
			sign = "i"
		}
		return fmt.Sprintf("cast %s%d", sign, i.CastBits)
	}
	return fmt.Sprintf("%s %d", i.Op, i.Imm)
}
