package semantic

import "github.com/matter-labs/zinc-sub006/types"

// EntryKind tags what an analyzed Program compiles to, per spec.md §4.3.8.
type EntryKind int

const (
	EntryCircuit EntryKind = iota
	EntryContract
	EntryLibrary
)

// FunctionDecl is one fully analyzed function, addressed by its global
// TypeID (spec.md §3.5/§4.3.8). Params lists each parameter's name and
// type; frame addresses are assigned later, by the generator.
type FunctionDecl struct {
	TypeID     int
	Name       string
	Public     bool
	IsTest     bool
	IsEntry    bool
	IsMutating bool // contract methods that may write storage, per spec.md §4.3.10
	Receiver   *types.Contract
	Params     []FunctionParam
	Returns    types.Type
	Body       *TypedBlock
}

// FunctionParam is one parameter binding.
type FunctionParam struct {
	Name string
	Type types.Type
}

// Program is the semantic analyser's final output for one compiled
// application, per spec.md §4.4 ("Application" artifact).
type Program struct {
	Kind      EntryKind
	Contract  *types.Contract
	Functions []*FunctionDecl
	// EntryTypeID names the function the generator treats as the program's
	// single executable entry point for a circuit; -1 for a contract, whose
	// entry points are its public mutating/view methods instead.
	EntryTypeID int
}

// FunctionByID looks up a declared function by its TypeID.
func (p *Program) FunctionByID(id int) *FunctionDecl {
	for _, f := range p.Functions {
		if f.TypeID == id {
			return f
		}
	}
	return nil
}
