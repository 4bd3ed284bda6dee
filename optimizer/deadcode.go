// Package optimizer implements the dead-function-elimination pass that runs
// over a fully generated generator.Application, per spec.md §4.5. It
// mirrors the same two-pass address-patching discipline
// generator.GenerateProgram already uses for Call fixups: first resolve
// every address-bearing reference against the unshrunk stream, then rewrite
// them once the surviving instruction ranges are known.
package optimizer

import (
	"sort"

	"github.com/matter-labs/zinc-sub006/generator"
)

// funcRange is one function's half-open instruction span [start, end) in an
// unoptimized Application's flat stream.
type funcRange struct {
	typeID int
	start  int
	end    int
}

// EliminateDeadFunctions drops every function unreachable from app's
// declared entry points. Three steps, per spec.md §4.5:
//  1. build the call graph by scanning each function's body for OpCall
//     targets, reachable from the entry points' own addresses;
//  2. mark every function not reached and patch its body to OpNoOperation in
//     place, so any address still pointing at it lands on an inert no-op
//     rather than stale bytecode;
//  3. filter the dead ranges out of the stream entirely and rewrite every
//     surviving address reference (Call targets, If/Else jump targets,
//     FuncAddr, and EntryPoint.Address) to match the shrunk layout.
// The input Application is left untouched; EliminateDeadFunctions returns a
// new one.
func EliminateDeadFunctions(app *generator.Application) *generator.Application {
	ranges := functionRanges(app)
	addrToRange := make(map[int]*funcRange, len(ranges))
	for i := range ranges {
		addrToRange[ranges[i].start] = &ranges[i]
	}

	reachable := markReachable(app, ranges, addrToRange)

	patched := make([]generator.Instruction, len(app.Instructions))
	copy(patched, app.Instructions)
	for _, r := range ranges {
		if reachable[r.typeID] {
			continue
		}
		for pc := r.start; pc < r.end; pc++ {
			patched[pc] = generator.Instruction{Op: generator.OpNoOperation}
		}
	}

	return shrink(app, patched, ranges, reachable)
}

// functionRanges derives each declared function's instruction span from
// app.FuncAddr, ordering ranges by their start address and closing each one
// at the next function's start (or the stream's end, for the last).
func functionRanges(app *generator.Application) []funcRange {
	starts := make([]int, 0, len(app.FuncAddr))
	idByStart := make(map[int]int, len(app.FuncAddr))
	for id, addr := range app.FuncAddr {
		starts = append(starts, addr)
		idByStart[addr] = id
	}
	sort.Ints(starts)
	ranges := make([]funcRange, len(starts))
	for i, s := range starts {
		end := len(app.Instructions)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		ranges[i] = funcRange{typeID: idByStart[s], start: s, end: end}
	}
	return ranges
}

// markReachable performs a breadth-first walk of the call graph starting at
// every entry point's function, following OpCall targets. Call immediates
// are already absolute instruction addresses at this stage (generator's own
// fixup pass resolves them from type_id at generation time), so they index
// addrToRange directly.
func markReachable(app *generator.Application, ranges []funcRange, addrToRange map[int]*funcRange) map[int]bool {
	reachable := make(map[int]bool, len(ranges))
	var queue []*funcRange
	for _, ep := range app.Entries {
		r, ok := addrToRange[ep.Address]
		if !ok || reachable[r.typeID] {
			continue
		}
		reachable[r.typeID] = true
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for pc := r.start; pc < r.end; pc++ {
			ins := app.Instructions[pc]
			if ins.Op != generator.OpCall {
				continue
			}
			tr, ok := addrToRange[int(ins.Imm)]
			if !ok || reachable[tr.typeID] {
				continue
			}
			reachable[tr.typeID] = true
			queue = append(queue, tr)
		}
	}
	return reachable
}

// shrink drops every unreachable range from instrs and rewrites the address
// references that survive: If/Else jump targets (absolute positions within
// the single shared instruction stream, shifted by however far their
// enclosing function moved), OpCall targets (remapped by the callee's new
// start address), FuncAddr, and every EntryPoint's Address.
func shrink(app *generator.Application, instrs []generator.Instruction, ranges []funcRange, reachable map[int]bool) *generator.Application {
	newStart := make(map[int]int, len(ranges))
	var out []generator.Instruction
	for _, r := range ranges {
		if !reachable[r.typeID] {
			continue
		}
		delta := len(out) - r.start
		newStart[r.start] = len(out)
		for pc := r.start; pc < r.end; pc++ {
			ins := instrs[pc]
			switch ins.Op {
			case generator.OpIf, generator.OpElse:
				ins.Imm += int64(delta)
			}
			out = append(out, ins)
		}
	}

	for i := range out {
		if out[i].Op != generator.OpCall {
			continue
		}
		if ns, ok := newStart[int(out[i].Imm)]; ok {
			out[i].Imm = int64(ns)
		}
	}

	newFuncAddr := make(map[int]int, len(newStart))
	for _, r := range ranges {
		if !reachable[r.typeID] {
			continue
		}
		newFuncAddr[r.typeID] = newStart[r.start]
	}

	entries := make([]generator.EntryPoint, len(app.Entries))
	for i, ep := range app.Entries {
		ep.Address = newFuncAddr[ep.TypeID]
		entries[i] = ep
	}

	return &generator.Application{
		BuildID:      app.BuildID,
		Kind:         app.Kind,
		Instructions: out,
		Entries:      entries,
		FuncAddr:     newFuncAddr,
		StorageSize:  app.StorageSize,
	}
}
