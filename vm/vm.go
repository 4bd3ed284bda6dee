// Package vm executes a generator.Application's flat Instruction stream,
// grounded on the teacher's (db47h/ngaro vm/core.go) flat opcode-switch
// model: one Run loop, one big switch, small helper methods for the stack
// discipline. Unlike the teacher's single integer Cell, every slot here is
// a *big.Int field element, since the values flowing through a Zinc program
// are BN256 scalar-field residues rather than machine words.
package vm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/semantic"
)

// callFrame records what to restore when a Call returns: the instruction to
// resume at, and the local-memory base to go back to.
type callFrame struct {
	returnPC int
	memBase  int
}

// loopFrame tracks one active LoopBegin/LoopEnd region: how many iterations
// remain, and where the body starts so LoopEnd can jump back.
type loopFrame struct {
	remaining int64
	bodyStart int
	index     int64 // 0-based iteration counter, read back by OpLoopIndex
}

// Instance is one running (or finished) execution of an Application. A
// fresh Instance must be created per run; it is not reset or reused.
type Instance struct {
	app *generator.Application

	stack []*big.Int // evaluation stack: operand/result values

	mem      []*big.Int // local-frame memory, addressed relative to memBase
	memBase  int
	calls    []callFrame
	loops    []loopFrame
	storage  []*big.Int

	PC int

	insCount  int
	dbgWriter func(args []*big.Int)

	// mapStore backs every std::collections::MTreeMap value in the running
	// program. Per-instance rather than per-declared-map, since the
	// Instruction stream carries no map identity, only its key/value flat
	// sizes (see builtins.go) - a documented simplification for a single
	// active map per contract.
	mapStore map[string][]*big.Int
}

// SetDebugWriter installs a callback invoked once per executed dbg(...)
// call with the flat field-element slots of its interpolated arguments, the
// hook `zincc run` wires to its logger.
func (in *Instance) SetDebugWriter(f func(args []*big.Int)) { in.dbgWriter = f }

// New creates an Instance ready to execute app, with storage sized to the
// application's declared StorageSize and pre-seeded from initialStorage
// (nil for a fresh/zero contract).
func New(app *generator.Application, initialStorage []*big.Int) *Instance {
	storage := make([]*big.Int, app.StorageSize)
	for i := range storage {
		storage[i] = big.NewInt(0)
	}
	copy(storage, initialStorage)
	return &Instance{app: app, storage: storage}
}

// InsCount reports how many instructions the last Run executed, mirroring
// the teacher's Instance.insCount exposed for profiling (spec.md §7's
// supplemented instruction-count statistics).
func (in *Instance) InsCount() int { return in.insCount }

// Storage returns the contract's storage slots after execution.
func (in *Instance) Storage() []*big.Int { return in.storage }

func (in *Instance) push(v *big.Int) { in.stack = append(in.stack, v) }

func (in *Instance) pop() (*big.Int, error) {
	n := len(in.stack)
	if n == 0 {
		return nil, errors.New("vm: evaluation stack underflow")
	}
	v := in.stack[n-1]
	in.stack = in.stack[:n-1]
	return v, nil
}

func (in *Instance) popN(n int) ([]*big.Int, error) {
	if len(in.stack) < n {
		return nil, errors.New("vm: evaluation stack underflow")
	}
	v := in.stack[len(in.stack)-n:]
	in.stack = in.stack[:len(in.stack)-n]
	return v, nil
}

// ensureMem grows the current frame's memory region so addr is valid.
func (in *Instance) ensureMem(addr int) {
	need := in.memBase + addr + 1
	for len(in.mem) < need {
		in.mem = append(in.mem, big.NewInt(0))
	}
}

// Call invokes one of the application's entry points with args already
// encoded as flat field-element slots (per generator.Application's
// InputSkeleton shape) and runs to completion, returning the flat slots of
// its declared return type.
func (in *Instance) Call(entryName string, args []*big.Int) ([]*big.Int, error) {
	ep, ok := in.app.EntryByName(entryName)
	if !ok {
		return nil, errors.Errorf("vm: no entry point %q", entryName)
	}
	for _, a := range args {
		in.push(a)
	}
	in.PC = ep.Address
	// A synthetic frame whose return address is past the end of the
	// instruction stream makes Run's top-level loop terminate naturally on
	// the matching Return.
	in.calls = append(in.calls, callFrame{returnPC: len(in.app.Instructions), memBase: 0})
	retSize := ep.Returns.FlatSize()
	if err := in.Run(); err != nil {
		return nil, err
	}
	if retSize == 0 {
		return nil, nil
	}
	return in.popN(retSize)
}

// Run executes instructions from the current PC until it falls off the end
// of the instruction stream, the same exit condition as the teacher's
// Run loop ("PC will be equal to len(i.Image) and err will be nil").
func (in *Instance) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrapf(e, "vm: recovered error @pc=%d", in.PC)
				return
			}
			panic(r)
		}
	}()
	instrs := in.app.Instructions
	for in.PC < len(instrs) {
		ins := instrs[in.PC]
		if err := in.step(ins); err != nil {
			return errors.Wrapf(err, "@pc=%d (%s)", in.PC, ins.Op)
		}
		in.insCount++
	}
	return nil
}

func one() *big.Int  { return big.NewInt(1) }
func zero() *big.Int { return big.NewInt(0) }

func truthy(v *big.Int) bool { return v.Sign() != 0 }

func boolCell(b bool) *big.Int {
	if b {
		return one()
	}
	return zero()
}

// reduce keeps a value inside the BN256 scalar field, applied after every
// arithmetic opcode per spec.md §3.4 ("the full native prime field"). The
// VM does not range-check values against the Zinc-level integer types: Cast
// truncates to the target bit width instead of rejecting out-of-range
// values, and integer bounds are checked only for constants the analyser
// folds.
func reduce(v *big.Int) *big.Int {
	r := new(big.Int).Mod(v, semantic.FieldModulus)
	if r.Sign() < 0 {
		r.Add(r, semantic.FieldModulus)
	}
	return r
}
