package semantic

import (
	"math/big"
	"strings"

	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

// Rule selects how strictly analyzeExpr accepts its result, per spec.md
// §4.3.5: Value accepts any element, Constant rejects anything not fully
// folded (array sizes, const initialisers).
type Rule int

const (
	RuleValue Rule = iota
	RuleConstant
)

func (a *Analyzer) analyzeExprConstant(h scope.Handle, e ast.Expr) (TypedExpr, error) {
	return a.analyzeExpr(h, e, RuleConstant)
}

func (a *Analyzer) analyzeExprValue(h scope.Handle, e ast.Expr) (TypedExpr, error) {
	return a.analyzeExpr(h, e, RuleValue)
}

// analyzeExpr walks e bottom-up, producing a TypedExpr decorated with a
// resolved type and (when foldable) a Constant, per spec.md §4.3.5/§4.3.6.
func (a *Analyzer) analyzeExpr(h scope.Handle, e ast.Expr, rule Rule) (TypedExpr, error) {
	te, err := a.analyzeExprAny(h, e)
	if err != nil {
		return nil, err
	}
	if rule == RuleConstant && te.Const() == nil {
		return nil, errf(e.Loc(), ErrArgumentConstantness, "expected a compile-time constant")
	}
	return te, nil
}

func (a *Analyzer) analyzeExprAny(h scope.Handle, e ast.Expr) (TypedExpr, error) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return a.analyzeIntegerLiteral(n)
	case *ast.BooleanLiteral:
		return &TypedLiteral{typedBase{n.Location, types.Bool{}, &Constant{Type: types.Bool{}, Bool: n.Value}}}, nil
	case *ast.StringLiteral:
		return &TypedLiteral{typedBase{n.Location, types.Unit{}, &Constant{Type: types.Unit{}, Str: n.Value}}}, nil
	case *ast.Identifier:
		return a.analyzeIdentifier(h, n.Location, n.Name)
	case *ast.Path:
		return a.analyzePath(h, n)
	case *ast.TupleExpr:
		return a.analyzeTuple(h, n)
	case *ast.ArrayExpr:
		return a.analyzeArray(h, n)
	case *ast.StructExpr:
		return a.analyzeStructExpr(h, n)
	case *ast.BlockExpr:
		return a.analyzeBlock(h, n)
	case *ast.ConditionalExpr:
		return a.analyzeConditional(h, n)
	case *ast.MatchExpr:
		return a.analyzeMatch(h, n)
	case *ast.BinaryExpr:
		return a.analyzeBinary(h, n)
	case *ast.UnaryExpr:
		return a.analyzeUnary(h, n)
	case *ast.CastExpr:
		return a.analyzeCast(h, n)
	case *ast.CallExpr:
		return a.analyzeCall(h, n)
	case *ast.IndexExpr:
		return a.analyzeIndex(h, n)
	case *ast.FieldExpr:
		return a.analyzeField(h, n)
	case *ast.TupleIndexExpr:
		return a.analyzeTupleIndex(h, n)
	}
	return nil, errf(e.Loc(), ErrTypeMismatch, "unsupported expression shape %T", e)
}

func (a *Analyzer) analyzeIntegerLiteral(n *ast.IntegerLiteral) (TypedExpr, error) {
	if n.IsFloat {
		return nil, errf(n.Location, ErrTypeMismatch, "floating-point literals are not supported")
	}
	v, ok := new(big.Int).SetString(n.Value, n.Radix)
	if !ok {
		return nil, errf(n.Location, ErrIntegerOutOfRange, "malformed integer literal %q", n.Text)
	}
	// An un-suffixed literal is provisionally typed field (the widest native
	// numeric type); context (let's type annotation, operand unification in
	// a binary expression) narrows it during later analysis, matching the
	// common rule that bare integer literals adapt to whichever concrete
	// integer type they are used with.
	c := &Constant{Type: types.Field{}, Int: new(big.Int).Set(v)}
	return &TypedLiteral{typedBase{n.Location, types.Field{}, c}}, nil
}

// reinterpretLiteral reinterprets a provisionally field-typed literal constant as t,
// range-checking it; used wherever a literal meets a concrete expectation
// (a declared let type, the other operand of a binary expression, a cast).
func reinterpretLiteral(te TypedExpr, t types.Type) (TypedExpr, error) {
	c := te.Const()
	if c == nil || c.Int == nil {
		return te, nil
	}
	it, ok := types.IsInteger(t)
	if !ok {
		return te, nil
	}
	nc, err := NewIntConstant(te.Loc(), c.Int, it)
	if err != nil {
		return nil, err
	}
	return &TypedLiteral{typedBase{te.Loc(), t, nc}}, nil
}

func (a *Analyzer) analyzeIdentifier(h scope.Handle, loc source.Location, name string) (TypedExpr, error) {
	item, _, ok := a.arena.Lookup(h, name)
	if !ok {
		return nil, errf(loc, ErrUnknownIdentifier, "unknown identifier %q", name)
	}
	switch item.Kind {
	case scope.KindVariable:
		place := &Place{Base: name, Address: item.Address, Type: item.Type}
		return &TypedPlace{typedBase{loc, item.Type, nil}, place}, nil
	case scope.KindConstant:
		c, _ := item.Value.(*Constant)
		return &TypedLiteral{typedBase{loc, item.Type, c}}, nil
	case scope.KindFunction:
		return &TypedLiteral{typedBase{loc, item.Type, nil}}, nil
	}
	return nil, errf(loc, ErrUnknownIdentifier, "%q does not name a value", name)
}

func (a *Analyzer) analyzePath(h scope.Handle, n *ast.Path) (TypedExpr, error) {
	joined := strings.Join(n.Segments, "::")
	if id, ok := LookupIntrinsic(joined); ok {
		return &TypedLiteral{typedBase{n.Location, types.Unit{}, nil}}, a.rememberIntrinsicPath(n.Location, id)
	}
	// Enum variant path: Name::Variant.
	if len(n.Segments) == 2 {
		if item, _, ok := a.arena.Lookup(h, n.Segments[0]); ok && item.Kind == scope.KindEnum {
			en := item.Type.(*types.Enum)
			if val, ok := en.Variant(n.Segments[1]); ok {
				c := &Constant{Type: en, Int: new(big.Int).SetUint64(val)}
				return &TypedLiteral{typedBase{n.Location, en, c}}, nil
			}
			return nil, errf(n.Location, ErrFieldDoesNotExist, "enum %s has no variant %s", en.Name, n.Segments[1])
		}
	}
	return a.analyzeIdentifier(h, n.Location, n.Segments[len(n.Segments)-1])
}

// rememberIntrinsicPath is a no-op placeholder: bare intrinsic paths (not
// immediately called) are only legal as the callee of a CallExpr, which
// re-resolves the path itself; see analyzeCall.
func (a *Analyzer) rememberIntrinsicPath(source.Location, Intrinsic) error { return nil }

func (a *Analyzer) analyzeTuple(h scope.Handle, n *ast.TupleExpr) (TypedExpr, error) {
	elems := make([]TypedExpr, len(n.Elements))
	types_ := make([]types.Type, len(n.Elements))
	allConst := true
	consts := make([]*Constant, len(n.Elements))
	for i, el := range n.Elements {
		te, err := a.analyzeExprValue(h, el)
		if err != nil {
			return nil, err
		}
		elems[i] = te
		types_[i] = te.Type()
		if te.Const() == nil {
			allConst = false
		} else {
			consts[i] = te.Const()
		}
	}
	tt := types.Tuple{Elements: types_}
	var c *Constant
	if allConst {
		c = &Constant{Type: tt, Elements: consts}
	}
	return &TypedTuple{typedBase{n.Location, tt, c}, elems}, nil
}

func (a *Analyzer) analyzeArray(h scope.Handle, n *ast.ArrayExpr) (TypedExpr, error) {
	if n.Repeat != nil {
		elem, err := a.analyzeExprValue(h, n.Elements[0])
		if err != nil {
			return nil, err
		}
		count, err := a.evalConstUsize(h, n.Repeat)
		if err != nil {
			return nil, err
		}
		at := types.Array{Element: elem.Type(), Size: count}
		var c *Constant
		if elem.Const() != nil {
			elements := make([]*Constant, count)
			for i := range elements {
				elements[i] = elem.Const()
			}
			c = &Constant{Type: at, Elements: elements}
		}
		return &TypedArray{typedBase{n.Location, at, c}, []TypedExpr{elem}, elem, count}, nil
	}
	if len(n.Elements) == 0 {
		return nil, errf(n.Location, ErrTypeMismatch, "empty array literal requires an explicit type")
	}
	elems := make([]TypedExpr, len(n.Elements))
	var elemType types.Type
	allConst := true
	consts := make([]*Constant, len(n.Elements))
	for i, el := range n.Elements {
		te, err := a.analyzeExprValue(h, el)
		if err != nil {
			return nil, err
		}
		if elemType == nil {
			elemType = te.Type()
		} else if !elemType.Equal(te.Type()) {
			return nil, errf(el.Loc(), ErrOperandTypesMismatch, "array elements must share one type, got %s and %s", elemType, te.Type())
		}
		elems[i] = te
		if te.Const() == nil {
			allConst = false
		} else {
			consts[i] = te.Const()
		}
	}
	at := types.Array{Element: elemType, Size: len(elems)}
	var c *Constant
	if allConst {
		c = &Constant{Type: at, Elements: consts}
	}
	return &TypedArray{typedBase{n.Location, at, c}, elems, nil, 0}, nil
}

func (a *Analyzer) analyzeStructExpr(h scope.Handle, n *ast.StructExpr) (TypedExpr, error) {
	name := n.Path[len(n.Path)-1]
	item, _, ok := a.arena.Lookup(h, name)
	if !ok || item.Kind != scope.KindStruct {
		return nil, errf(n.Location, ErrUnknownType, "unknown struct %q", name)
	}
	st := item.Type.(*types.Struct)
	fields := make([]TypedExpr, len(st.Fields))
	allConst := true
	consts := make([]*Constant, len(st.Fields))
	for _, fv := range n.Fields {
		idx := -1
		for i, sf := range st.Fields {
			if sf.Name == fv.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errf(n.Location, ErrFieldDoesNotExist, "struct %s has no field %s", st.Name, fv.Name)
		}
		te, err := a.analyzeExprValue(h, fv.Value)
		if err != nil {
			return nil, err
		}
		want := st.Fields[idx].Type
		te, err = reinterpretLiteral(te, want)
		if err != nil {
			return nil, err
		}
		if !te.Type().Equal(want) {
			return nil, errf(fv.Value.Loc(), ErrTypeMismatch, "field %s: expected %s, got %s", fv.Name, want, te.Type())
		}
		fields[idx] = te
		if te.Const() == nil {
			allConst = false
		} else {
			consts[idx] = te.Const()
		}
	}
	var c *Constant
	if allConst {
		c = &Constant{Type: st, Elements: consts}
	}
	return &TypedStruct{typedBase{n.Location, st, c}, fields}, nil
}
