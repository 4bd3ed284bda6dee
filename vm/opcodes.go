package vm

import "github.com/matter-labs/zinc-sub006/generator"

// Opcode aliases generator.Opcode so the rest of this package can switch on
// bare names, the same split the teacher keeps between vm/core.go's Run
// loop and vm/opcodes.go's opcode table.
type Opcode = generator.Opcode

const (
	OpPushConst = generator.OpPushConst
	OpPop       = generator.OpPop
	OpSlice     = generator.OpSlice
	OpSwap      = generator.OpSwap
	OpTee       = generator.OpTee

	OpLoad                = generator.OpLoad
	OpLoadSequence        = generator.OpLoadSequence
	OpLoadByIndex         = generator.OpLoadByIndex
	OpLoadSequenceByIndex = generator.OpLoadSequenceByIndex
	OpLoadGlobal          = generator.OpLoadGlobal

	OpStore                = generator.OpStore
	OpStoreSequence        = generator.OpStoreSequence
	OpStoreByIndex         = generator.OpStoreByIndex
	OpStoreSequenceByIndex = generator.OpStoreSequenceByIndex
	OpStoreGlobal          = generator.OpStoreGlobal

	OpStorageLoad  = generator.OpStorageLoad
	OpStorageStore = generator.OpStorageStore

	OpAdd = generator.OpAdd
	OpSub = generator.OpSub
	OpMul = generator.OpMul
	OpDiv = generator.OpDiv
	OpRem = generator.OpRem
	OpNeg = generator.OpNeg

	OpNot = generator.OpNot
	OpAnd = generator.OpAnd
	OpOr  = generator.OpOr
	OpXor = generator.OpXor

	OpLt = generator.OpLt
	OpLe = generator.OpLe
	OpEq = generator.OpEq
	OpNe = generator.OpNe
	OpGe = generator.OpGe
	OpGt = generator.OpGt

	OpBitShl = generator.OpBitShl
	OpBitShr = generator.OpBitShr
	OpBitAnd = generator.OpBitAnd
	OpBitOr  = generator.OpBitOr
	OpBitXor = generator.OpBitXor
	OpBitNot = generator.OpBitNot

	OpCast = generator.OpCast

	OpIf        = generator.OpIf
	OpElse      = generator.OpElse
	OpEndIf     = generator.OpEndIf
	OpLoopBegin = generator.OpLoopBegin
	OpLoopIndex = generator.OpLoopIndex
	OpLoopEnd   = generator.OpLoopEnd
	OpCall      = generator.OpCall
	OpReturn    = generator.OpReturn
	OpExit      = generator.OpExit

	OpCallBuiltin = generator.OpCallBuiltin

	OpFileMarker     = generator.OpFileMarker
	OpFunctionMarker = generator.OpFunctionMarker
	OpLineMarker     = generator.OpLineMarker
	OpColumnMarker   = generator.OpColumnMarker
	OpDbg            = generator.OpDbg
	OpAssert         = generator.OpAssert

	OpNoOperation = generator.OpNoOperation
)
