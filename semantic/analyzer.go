// Package semantic implements Zinc's type checker and constant folder, per
// spec.md §4.3. It consumes the ast.Module tree the syntax package parses
// and produces a Program: a flat table of fully typed FunctionDecls plus,
// for a contract, its resolved storage layout. Per the design note in
// spec.md §9, the analyser keeps each function body as a canonical
// TypedExpr tree rather than translating to Reverse Polish on the fly;
// package generator performs that translation later via postorder
// traversal.
package semantic

import (
	"path"

	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/syntax"
	"github.com/matter-labs/zinc-sub006/types"
)

// Analyzer holds the state threaded through one compilation: the scope
// arena every declaration lives in, the file registry diagnostics point
// into, the module resolver for "mod foo;" items, and the monotonic
// function-id counter of spec.md §3.5.
type Analyzer struct {
	arena      *scope.Arena
	registry   *source.Registry
	resolver   ModuleResolver
	nextTypeID int

	functions   []*FunctionDecl
	contract    *types.Contract
	contractLoc source.Location

	entryTypeID int
	entryLoc    source.Location
	haveEntry   bool
}

// New creates an Analyzer. registry is used to register source files loaded
// through resolver while following "mod" items; resolver may be nil for a
// single-file compilation (any "mod foo;" item then reports
// ErrModuleFileNotFound).
func New(registry *source.Registry, resolver ModuleResolver) *Analyzer {
	return &Analyzer{
		arena:       scope.NewArena(),
		registry:    registry,
		resolver:    resolver,
		nextTypeID:  0,
		entryTypeID: -1,
	}
}

// AnalyzeSource parses src and analyzes it as the program's root module,
// per spec.md §4.3.1's two-pass discipline: declareItems registers every
// top-level name (so forward references and mutual recursion resolve),
// then defineItems fills in bodies and folds constants.
func (a *Analyzer) AnalyzeSource(file source.ID, src string) (*Program, error) {
	mod, err := syntax.Parse(file, src)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeModule(mod)
}

// AnalyzeModule runs the declare/define passes over an already-parsed
// module and returns the finished Program.
func (a *Analyzer) AnalyzeModule(mod *ast.Module) (*Program, error) {
	root := a.arena.Root()
	if err := a.declareItems(root, "", mod.Items); err != nil {
		return nil, err
	}
	if err := a.defineItems(root, "", mod.Items); err != nil {
		return nil, err
	}

	kind := EntryLibrary
	if a.contract != nil {
		kind = EntryContract
	} else if a.haveEntry {
		kind = EntryCircuit
	}
	return &Program{
		Kind:        kind,
		Contract:    a.contract,
		Functions:   a.functions,
		EntryTypeID: a.entryTypeID,
	}, nil
}

// declareItems registers a placeholder scope.Item for every top-level name
// before any body is analyzed, so a function may call one declared later in
// the same file and a struct may reference another not yet defined, per
// spec.md §4.3.1/§4.3.2.
func (a *Analyzer) declareItems(h scope.Handle, dir string, items []ast.Item) error {
	for _, it := range items {
		switch n := it.(type) {
		case *ast.StructItem:
			if !a.arena.Declare(h, &scope.Item{Kind: scope.KindStruct, Name: n.Name, Type: &types.Struct{Name: n.Name}}) {
				return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
			}
		case *ast.EnumItem:
			if !a.arena.Declare(h, &scope.Item{Kind: scope.KindEnum, Name: n.Name, Type: &types.Enum{Name: n.Name}}) {
				return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
			}
		case *ast.ContractItem:
			if a.contract != nil {
				return errf(n.Location, ErrDuplicateDeclaration, "only one contract may be declared per program")
			}
			ct := &types.Contract{Name: n.Name}
			a.contract = ct
			a.contractLoc = n.Location
			if !a.arena.Declare(h, &scope.Item{Kind: scope.KindContract, Name: n.Name, Type: ct}) {
				return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
			}
		case *ast.TypeAliasItem:
			if !a.arena.Declare(h, &scope.Item{Kind: scope.KindTypeAlias, Name: n.Name, Type: nil}) {
				return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
			}
		case *ast.FnItem:
			if err := a.declareFunc(h, n); err != nil {
				return err
			}
		case *ast.ConstItem:
			// Constants are declared in the define pass: their value must
			// fold immediately and cannot forward-reference another const
			// declared later (spec.md §4.3.2).
		case *ast.ModItem:
			if err := a.declareMod(h, dir, n); err != nil {
				return err
			}
		case *ast.UseItem:
			// Resolved lazily by name lookup; nothing to pre-declare.
		case *ast.ImplItem:
			// Methods attach to their target type in the define pass, once
			// the type itself is known to exist.
		}
	}
	return nil
}

func (a *Analyzer) declareFunc(h scope.Handle, n *ast.FnItem) error {
	id := a.nextTypeID
	a.nextTypeID++
	// Params/Returns are placeholder until resolveType can run against a
	// fully declared scope; recorded here only so recursive calls within the
	// same declare pass see a KindFunction entry to call.
	item := &scope.Item{Kind: scope.KindFunction, Name: n.Name, Type: types.Function{}, TypeID: id}
	if !a.arena.Declare(h, item) {
		return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
	}
	return nil
}

func (a *Analyzer) declareMod(h scope.Handle, dir string, n *ast.ModItem) error {
	inner := a.arena.New(h, n.Name)
	a.arena.Declare(h, &scope.Item{Kind: scope.KindModule, Name: n.Name, Inner: inner})
	if n.Items != nil {
		return a.declareItems(inner, dir, n.Items)
	}
	if a.resolver == nil {
		return errf(n.Location, ErrModuleFileNotFound, "no module resolver configured for %q", n.Name)
	}
	text, filename, ok := a.resolver.Resolve(dir, n.Name)
	if !ok {
		return errf(n.Location, ErrModuleFileNotFound, "module %q not found", n.Name)
	}
	var fileID source.ID
	if a.registry != nil {
		fileID = a.registry.Add(filename, text)
	}
	childMod, err := syntax.Parse(fileID, text)
	if err != nil {
		return err
	}
	return a.declareItems(inner, path.Dir(filename), childMod.Items)
}

// defineItems fills in the bodies of every item declared by declareItems,
// in the same traversal order.
func (a *Analyzer) defineItems(h scope.Handle, dir string, items []ast.Item) error {
	// Struct/enum field resolution runs first so later function signatures
	// and bodies can reference fully-formed aggregate types.
	for _, it := range items {
		switch n := it.(type) {
		case *ast.StructItem:
			if err := a.defineStruct(h, n); err != nil {
				return err
			}
		case *ast.EnumItem:
			if err := a.defineEnum(h, n); err != nil {
				return err
			}
		case *ast.TypeAliasItem:
			if err := a.defineAlias(h, n); err != nil {
				return err
			}
		case *ast.ContractItem:
			if err := a.defineContractStorage(h, n); err != nil {
				return err
			}
		}
	}
	for _, it := range items {
		switch n := it.(type) {
		case *ast.ConstItem:
			if err := a.defineConstItem(h, n); err != nil {
				return err
			}
		case *ast.FnItem:
			if err := a.defineFunc(h, n, nil); err != nil {
				return err
			}
		case *ast.ImplItem:
			if err := a.defineImpl(h, n); err != nil {
				return err
			}
		case *ast.ContractItem:
			if err := a.defineContractFuncs(h, n); err != nil {
				return err
			}
		case *ast.ModItem:
			inner, _, ok := a.arena.Lookup(h, n.Name)
			if !ok {
				continue
			}
			if n.Items != nil {
				if err := a.defineItems(inner.Inner, dir, n.Items); err != nil {
					return err
				}
			} else if a.resolver != nil {
				text, filename, ok := a.resolver.Resolve(dir, n.Name)
				if ok {
					var fileID source.ID
					if a.registry != nil {
						fileID = a.registry.Add(filename, text)
					}
					childMod, err := syntax.Parse(fileID, text)
					if err != nil {
						return err
					}
					if err := a.defineItems(inner.Inner, path.Dir(filename), childMod.Items); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (a *Analyzer) defineStruct(h scope.Handle, n *ast.StructItem) error {
	item, _, _ := a.arena.Lookup(h, n.Name)
	st := item.Type.(*types.Struct)
	fields := make([]types.StructField, len(n.Fields))
	for i, f := range n.Fields {
		ft, err := a.resolveType(h, f.Type)
		if err != nil {
			return err
		}
		fields[i] = types.StructField{Name: f.Name, Type: ft}
	}
	st.Fields = fields
	return nil
}

func (a *Analyzer) defineEnum(h scope.Handle, n *ast.EnumItem) error {
	item, _, _ := a.arena.Lookup(h, n.Name)
	en := item.Type.(*types.Enum)
	variants := make([]types.EnumVariant, len(n.Variants))
	next := uint64(0)
	for i, v := range n.Variants {
		val := next
		if v.Value != nil {
			c, err := a.analyzeExprConstant(h, v.Value)
			if err != nil {
				return err
			}
			if c.Const() == nil || c.Const().Int == nil {
				return errf(n.Location, ErrArgumentConstantness, "enum variant value must be a constant integer")
			}
			val = c.Const().Int.Uint64()
		}
		variants[i] = types.EnumVariant{Name: v.Name, Value: val}
		next = val + 1
	}
	en.Variants = variants
	return nil
}

func (a *Analyzer) defineAlias(h scope.Handle, n *ast.TypeAliasItem) error {
	target, err := a.resolveType(h, n.Type)
	if err != nil {
		return err
	}
	item, _, _ := a.arena.Lookup(h, n.Name)
	item.Type = aliasMarker{Resolved: target}
	return nil
}

func (a *Analyzer) defineContractStorage(h scope.Handle, n *ast.ContractItem) error {
	ct := a.contract
	storage := []types.ContractStorageField{
		{Name: "address", Type: types.Integer{Signed: false, Bits: 160}},
		{Name: "balances", Type: types.MTreeMap{Key: types.Integer{Signed: false, Bits: 160}, Value: types.Field{}}},
	}
	for _, f := range n.Fields {
		ft, err := a.resolveType(h, f.Type)
		if err != nil {
			return err
		}
		storage = append(storage, types.ContractStorageField{Name: f.Name, Type: ft})
	}
	ct.Storage = storage
	return nil
}

func (a *Analyzer) defineConstItem(h scope.Handle, n *ast.ConstItem) error {
	value, err := a.analyzeExprConstant(h, n.Value)
	if err != nil {
		return err
	}
	if n.Type != nil {
		want, err := a.resolveType(h, n.Type)
		if err != nil {
			return err
		}
		value, err = reinterpretLiteral(value, want)
		if err != nil {
			return err
		}
		if !value.Type().Equal(want) {
			return errf(n.Location, ErrTypeMismatch, "const %s: expected %s, got %s", n.Name, want, value.Type())
		}
	}
	if !a.arena.Declare(h, &scope.Item{Kind: scope.KindConstant, Name: n.Name, Type: value.Type(), Value: value.Const(), Declared: true}) {
		return errf(n.Location, ErrDuplicateDeclaration, "duplicate declaration of %q", n.Name)
	}
	return nil
}

// defineFunc resolves a function's signature, analyzes its body, and
// records it as a FunctionDecl. receiver is non-nil for contract methods,
// whose implicit "self" parameter resolves to the contract's own type.
func (a *Analyzer) defineFunc(h scope.Handle, n *ast.FnItem, receiver *types.Contract) error {
	item, _, _ := a.arena.Lookup(h, n.Name)

	fnScope := a.arena.New(h, n.Name)
	params := make([]FunctionParam, 0, len(n.Params))
	paramTypes := make([]types.Type, 0, len(n.Params))
	isMutating := false
	for _, p := range n.Params {
		if p.Name == "self" && p.Type == nil {
			if receiver == nil {
				return errf(n.Location, ErrTypeMismatch, "self parameter is only legal inside a contract method")
			}
			a.arena.Declare(fnScope, &scope.Item{Kind: scope.KindVariable, Name: "self", Type: receiver, Mutable: true, Address: -1, Declared: true})
			isMutating = true
			continue
		}
		pt, err := a.resolveType(h, p.Type)
		if err != nil {
			return err
		}
		a.arena.Declare(fnScope, &scope.Item{Kind: scope.KindVariable, Name: p.Name, Type: pt, Address: -1, Declared: true})
		params = append(params, FunctionParam{Name: p.Name, Type: pt})
		paramTypes = append(paramTypes, pt)
	}

	var ret types.Type = types.Unit{}
	if n.ReturnType != nil {
		rt, err := a.resolveType(h, n.ReturnType)
		if err != nil {
			return err
		}
		ret = rt
	}
	item.Type = types.Function{Params: paramTypes, Returns: ret}

	body, err := a.analyzeBlock(fnScope, n.Body)
	if err != nil {
		return err
	}
	body, err = coerceBlockResult(body, ret)
	if err != nil {
		return err
	}

	decl := &FunctionDecl{
		TypeID:     item.TypeID,
		Name:       n.Name,
		Public:     n.Public,
		IsTest:     n.IsTest,
		IsMutating: isMutating,
		Receiver:   receiver,
		Params:     params,
		Returns:    ret,
		Body:       body,
	}
	a.functions = append(a.functions, decl)

	if err := a.checkEntry(n, decl); err != nil {
		return err
	}
	return nil
}

// coerceBlockResult checks a function body's trailing value matches its
// declared return type, reinterpreting a bare literal if needed.
func coerceBlockResult(body *TypedBlock, ret types.Type) (*TypedBlock, error) {
	if body.Trailing == nil {
		if ret.FlatSize() != 0 {
			return nil, errf(body.Location, ErrTypeMismatch, "function must return %s but body has no trailing expression", ret)
		}
		return body, nil
	}
	coerced, err := reinterpretLiteral(body.Trailing, ret)
	if err != nil {
		return nil, err
	}
	if !coerced.Type().Equal(ret) {
		return nil, errf(body.Trailing.Loc(), ErrTypeMismatch, "function returns %s, expected %s", coerced.Type(), ret)
	}
	body.Trailing = coerced
	return body, nil
}

// checkEntry applies spec.md §4.3.8's entry-point rule: for a circuit
// (no contract in the program), the single top-level "fn main" is the
// entry point; ambiguity (more than one "main", or "main" alongside a
// declared contract) is rejected.
func (a *Analyzer) checkEntry(n *ast.FnItem, decl *FunctionDecl) error {
	if n.Name != "main" || n.IsTest {
		return nil
	}
	if n.IsConst {
		return &Error{Kind: ErrEntryPointConstant, Location: n.Location, Message: "entry point \"main\" may not be declared \"const fn\""}
	}
	if a.contract != nil {
		return &Error{Kind: ErrEntryPointAmbiguous, Location: n.Location, Other: a.contractLoc, Message: "\"main\" and a declared contract are both entry points"}
	}
	if a.haveEntry {
		return &Error{Kind: ErrEntryPointAmbiguous, Location: n.Location, Other: a.entryLoc, Message: "multiple definitions of entry point \"main\""}
	}
	a.haveEntry = true
	a.entryTypeID = decl.TypeID
	a.entryLoc = n.Location
	decl.IsEntry = true
	return nil
}

func (a *Analyzer) defineImpl(h scope.Handle, n *ast.ImplItem) error {
	target, _, ok := a.arena.Lookup(h, n.Type)
	if !ok {
		return errf(n.Location, ErrUnknownType, "impl block names unknown type %q", n.Type)
	}
	implScope := a.arena.New(h, n.Type)
	a.arena.Declare(h, &scope.Item{Kind: scope.KindImpl, Name: n.Type + "::impl", Inner: implScope})
	for _, fn := range n.Funcs {
		fnID := a.nextTypeID
		a.nextTypeID++
		qualified := n.Type + "::" + fn.Name
		a.arena.Declare(implScope, &scope.Item{Kind: scope.KindFunction, Name: fn.Name, Type: types.Function{}, TypeID: fnID})
		a.arena.Declare(h, &scope.Item{Kind: scope.KindFunction, Name: qualified, Type: types.Function{}, TypeID: fnID})
		receiver, _ := target.Type.(*types.Contract)
		if err := a.defineFunc(implScope, fn, receiver); err != nil {
			return err
		}
	}
	return nil
}

// defineContractFuncs analyzes a contract's own method bodies (spec.md
// §4.3.10): each public method is itself an entry point, distinct from a
// circuit's single "main".
func (a *Analyzer) defineContractFuncs(h scope.Handle, n *ast.ContractItem) error {
	ct := a.contract
	implScope := a.arena.New(h, n.Name)
	for _, fn := range n.Consts {
		if err := a.defineConstItem(implScope, fn); err != nil {
			return err
		}
	}
	for _, fn := range n.Funcs {
		id := a.nextTypeID
		a.nextTypeID++
		a.arena.Declare(implScope, &scope.Item{Kind: scope.KindFunction, Name: fn.Name, Type: types.Function{}, TypeID: id})
		a.arena.Declare(h, &scope.Item{Kind: scope.KindFunction, Name: n.Name + "::" + fn.Name, Type: types.Function{}, TypeID: id})
		if err := a.defineFunc(implScope, fn, ct); err != nil {
			return err
		}
		if fn.Public {
			if fn.IsConst {
				return &Error{Kind: ErrEntryPointConstant, Location: fn.Location, Message: "entry point method \"" + fn.Name + "\" may not be declared \"const fn\""}
			}
			for _, d := range a.functions {
				if d.TypeID == id {
					d.IsEntry = true
				}
			}
		}
	}
	return nil
}
