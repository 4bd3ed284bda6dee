package semantic

import (
	"math/big"
	"strings"

	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

var binaryOpKind = map[ast.BinaryOp]OperatorKind{
	ast.OpAdd: OpAdd, ast.OpSub: OpSub, ast.OpMul: OpMul, ast.OpDiv: OpDiv, ast.OpRem: OpRem,
	ast.OpEq: OpEq, ast.OpNe: OpNe, ast.OpLt: OpLt, ast.OpLe: OpLe, ast.OpGt: OpGt, ast.OpGe: OpGe,
	ast.OpAndAnd: OpAnd, ast.OpOrOr: OpOr, ast.OpXorXor: OpXor,
	ast.OpBitAnd: OpBitAnd, ast.OpBitOr: OpBitOr, ast.OpBitXor: OpBitXor,
	ast.OpShl: OpShl, ast.OpShr: OpShr,
}

func isComparison(op ast.BinaryOp) bool {
	switch op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return true
	}
	return false
}

func isArithmetic(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem:
		return true
	}
	return false
}

func isBoolean(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAndAnd, ast.OpOrOr, ast.OpXorXor:
		return true
	}
	return false
}

func isBitwise(op ast.BinaryOp) bool {
	switch op {
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		return true
	}
	return false
}

func isAssignOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAssign, ast.OpAddAssign, ast.OpSubAssign, ast.OpMulAssign, ast.OpDivAssign,
		ast.OpRemAssign, ast.OpAndAssign, ast.OpOrAssign, ast.OpXorAssign, ast.OpShlAssign, ast.OpShrAssign:
		return true
	}
	return false
}

func (a *Analyzer) analyzeBinary(h scope.Handle, n *ast.BinaryExpr) (TypedExpr, error) {
	if isAssignOp(n.Op) {
		return a.analyzeAssign(h, n)
	}
	if n.Op == ast.OpRange || n.Op == ast.OpRangeIncl {
		return a.analyzeRange(h, n)
	}
	left, err := a.analyzeExprValue(h, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.analyzeExprValue(h, n.Right)
	if err != nil {
		return nil, err
	}
	left, right, err = unify(left, right)
	if err != nil {
		return nil, err
	}

	switch {
	case isArithmetic(n.Op):
		if _, ok := types.IsInteger(left.Type()); !ok {
			if _, isField := left.Type().(types.Field); isField {
				if n.Op == ast.OpDiv || n.Op == ast.OpRem {
					return nil, errf(n.Location, ErrOperandTypesMismatch, "field forbids division and remainder")
				}
			} else {
				return nil, errf(n.Location, ErrOperandTypesMismatch, "arithmetic requires integer or field operands, got %s", left.Type())
			}
		}
		if !left.Type().Equal(right.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "operand types differ: %s vs %s", left.Type(), right.Type())
		}
		return a.foldOrEmitBinary(n.Location, binaryOpKind[n.Op], left, right, left.Type())
	case isComparison(n.Op):
		if !left.Type().Equal(right.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "operand types differ: %s vs %s", left.Type(), right.Type())
		}
		return a.foldOrEmitBinary(n.Location, binaryOpKind[n.Op], left, right, types.Bool{})
	case isBoolean(n.Op):
		if _, ok := left.Type().(types.Bool); !ok {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "boolean operator requires bool operands")
		}
		if !left.Type().Equal(right.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "operand types differ")
		}
		return a.foldOrEmitBinary(n.Location, binaryOpKind[n.Op], left, right, types.Bool{})
	case isBitwise(n.Op):
		if !types.IsUnsignedInteger(left.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "bitwise operators require unsigned integer operands")
		}
		if (n.Op != ast.OpShl && n.Op != ast.OpShr) && !left.Type().Equal(right.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "operand types differ")
		}
		return a.foldOrEmitBinary(n.Location, binaryOpKind[n.Op], left, right, left.Type())
	}
	return nil, errf(n.Location, ErrTypeMismatch, "unsupported binary operator")
}

// unify reinterprets a bare (still field-typed) literal operand against its
// sibling's concrete type, the mechanism by which "1 + x" where x: u8
// types the literal as u8, per the common bidirectional literal-inference
// rule used throughout the operator semantics of spec.md §4.3.6.
func unify(left, right TypedExpr) (TypedExpr, TypedExpr, error) {
	lc, rc := left.Const(), right.Const()
	lIsLiteral := lc != nil && lc.Int != nil
	rIsLiteral := rc != nil && rc.Int != nil
	if lIsLiteral && !rIsLiteral {
		nl, err := reinterpretLiteral(left, right.Type())
		if err != nil {
			return nil, nil, err
		}
		return nl, right, nil
	}
	if rIsLiteral && !lIsLiteral {
		nr, err := reinterpretLiteral(right, left.Type())
		if err != nil {
			return nil, nil, err
		}
		return left, nr, nil
	}
	return left, right, nil
}

// foldOrEmitBinary folds left/right when both are constants (per spec.md
// §4.3.4/§4.3.6's exact-bigint-then-range-check discipline), or otherwise
// emits a TypedBinary carrying only the resolved result type.
func (a *Analyzer) foldOrEmitBinary(loc source.Location, op OperatorKind, left, right TypedExpr, result types.Type) (TypedExpr, error) {
	lc, rc := left.Const(), right.Const()
	if lc != nil && rc != nil {
		c, err := foldBinary(loc, op, lc, rc, result)
		if err != nil {
			return nil, err
		}
		return &TypedBinary{typedBase{loc, result, c}, op, left, right}, nil
	}
	return &TypedBinary{typedBase{loc, result, nil}, op, left, right}, nil
}

func foldBinary(loc source.Location, op OperatorKind, l, r *Constant, result types.Type) (*Constant, error) {
	switch op {
	case OpAnd:
		return &Constant{Type: types.Bool{}, Bool: l.Bool && r.Bool}, nil
	case OpOr:
		return &Constant{Type: types.Bool{}, Bool: l.Bool || r.Bool}, nil
	case OpXor:
		return &Constant{Type: types.Bool{}, Bool: l.Bool != r.Bool}, nil
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		var v bool
		if l.Int != nil {
			cmp := l.Int.Cmp(r.Int)
			switch op {
			case OpEq:
				v = cmp == 0
			case OpNe:
				v = cmp != 0
			case OpLt:
				v = cmp < 0
			case OpLe:
				v = cmp <= 0
			case OpGt:
				v = cmp > 0
			case OpGe:
				v = cmp >= 0
			}
		} else {
			switch op {
			case OpEq:
				v = l.Bool == r.Bool
			case OpNe:
				v = l.Bool != r.Bool
			}
		}
		return &Constant{Type: types.Bool{}, Bool: v}, nil
	}
	// Remaining operators are all integer/field arithmetic or bitwise, all
	// operating on l.Int/r.Int.
	x := new(big.Int)
	switch op {
	case OpAdd:
		x.Add(l.Int, r.Int)
	case OpSub:
		x.Sub(l.Int, r.Int)
	case OpMul:
		x.Mul(l.Int, r.Int)
	case OpDiv:
		if r.Int.Sign() == 0 {
			return nil, errf(loc, ErrDivisionByZero, "division by zero")
		}
		x.Quo(l.Int, r.Int)
	case OpRem:
		if r.Int.Sign() == 0 {
			return nil, errf(loc, ErrDivisionByZero, "division by zero")
		}
		x.Rem(l.Int, r.Int)
	case OpBitAnd:
		x.And(l.Int, r.Int)
	case OpBitOr:
		x.Or(l.Int, r.Int)
	case OpBitXor:
		x.Xor(l.Int, r.Int)
	case OpShl:
		x.Lsh(l.Int, uint(r.Int.Uint64()))
	case OpShr:
		x.Rsh(l.Int, uint(r.Int.Uint64()))
	default:
		return nil, errf(loc, ErrTypeMismatch, "unsupported constant operator")
	}
	if it, ok := types.IsInteger(result); ok {
		return NewIntConstant(loc, x, it)
	}
	return NewFieldConstant(x), nil
}

// analyzeAssign handles "=" and the compound "op=" operators; the target
// must be a mutable place (spec.md §4.3.7's assignment-to-immutable check).
func (a *Analyzer) analyzeAssign(h scope.Handle, n *ast.BinaryExpr) (TypedExpr, error) {
	target, err := a.analyzeExprValue(h, n.Left)
	if err != nil {
		return nil, err
	}
	tp, ok := target.(*TypedPlace)
	if !ok {
		return nil, errf(n.Location, ErrTypeMismatch, "left-hand side of assignment must be a place")
	}
	if !a.placeMutable(h, tp.Place) {
		return nil, errf(n.Location, ErrAssignmentToImmutable, "cannot assign to immutable variable %s", tp.Place.Base)
	}
	value, err := a.analyzeExprValue(h, n.Right)
	if err != nil {
		return nil, err
	}
	value, err = reinterpretLiteral(value, tp.Type())
	if err != nil {
		return nil, err
	}
	if n.Op != ast.OpAssign {
		op, ok := compoundAssignOp[n.Op]
		if !ok {
			return nil, errf(n.Location, ErrTypeMismatch, "unsupported compound assignment")
		}
		folded, err := a.foldOrEmitBinary(n.Location, op, target, value, tp.Type())
		if err != nil {
			return nil, err
		}
		value = folded
	}
	if !tp.Type().Equal(value.Type()) {
		return nil, errf(n.Location, ErrOperandTypesMismatch, "cannot assign %s to %s", value.Type(), tp.Type())
	}
	return &TypedBinary{typedBase{n.Location, types.Unit{}, nil}, OpAssign, tp, value}, nil
}

var compoundAssignOp = map[ast.BinaryOp]OperatorKind{
	ast.OpAddAssign: OpAdd, ast.OpSubAssign: OpSub, ast.OpMulAssign: OpMul,
	ast.OpDivAssign: OpDiv, ast.OpRemAssign: OpRem,
	ast.OpAndAssign: OpBitAnd, ast.OpOrAssign: OpBitOr, ast.OpXorAssign: OpBitXor,
	ast.OpShlAssign: OpShl, ast.OpShrAssign: OpShr,
}

// placeMutable reports whether the root variable a place is rooted at was
// declared "let mut", per spec.md §4.3.7. Storage places (self.*) are
// always mutable from within a mutable method; that check happens at the
// function-analysis level, not here.
func (a *Analyzer) placeMutable(h scope.Handle, p *Place) bool {
	if p.IsStorage {
		return true
	}
	item, _, ok := a.arena.Lookup(h, p.Base)
	return ok && item.Mutable
}

// analyzeRange folds "L..R" / "L..=R" into a RangeConstant, legal only
// between same-typed constant integer endpoints (spec.md §4.3.6), used for
// for-loop ranges; slice bounds in "a[l..h]" are analyzed by analyzeIndex.
func (a *Analyzer) analyzeRange(h scope.Handle, n *ast.BinaryExpr) (TypedExpr, error) {
	low, err := a.analyzeExprConstant(h, n.Left)
	if err != nil {
		return nil, err
	}
	high, err := a.analyzeExprConstant(h, n.Right)
	if err != nil {
		return nil, err
	}
	low, high, err = unify(low, high)
	if err != nil {
		return nil, err
	}
	it, ok := types.IsInteger(low.Type())
	if !ok || !low.Type().Equal(high.Type()) {
		return nil, errf(n.Location, ErrOperandTypesMismatch, "range endpoints must share one integer type")
	}
	rc := &RangeConstant{Low: low.Const().Int, High: high.Const().Int, Inclusive: n.Op == ast.OpRangeIncl, ElemType: it}
	c := &Constant{Type: it, Range: rc}
	return &TypedLiteral{typedBase{n.Location, it, c}}, nil
}

// analyzeUnary resolves "- ! ~ operand", per spec.md §3.3/§4.3.6.
func (a *Analyzer) analyzeUnary(h scope.Handle, n *ast.UnaryExpr) (TypedExpr, error) {
	operand, err := a.analyzeExprValue(h, n.Operand)
	if err != nil {
		return nil, err
	}
	var op OperatorKind
	switch n.Op {
	case ast.OpNeg:
		op = OpNeg
		if _, ok := types.IsInteger(operand.Type()); !ok {
			if _, isField := operand.Type().(types.Field); !isField {
				return nil, errf(n.Location, ErrOperandTypesMismatch, "unary - requires an integer or field operand")
			}
		}
	case ast.OpNot:
		op = OpNot
		if _, ok := operand.Type().(types.Bool); !ok {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "unary ! requires a bool operand")
		}
	case ast.OpBitNot:
		op = OpBitNot
		if !types.IsUnsignedInteger(operand.Type()) {
			return nil, errf(n.Location, ErrOperandTypesMismatch, "unary ~ requires an unsigned integer operand")
		}
	}
	if c := operand.Const(); c != nil {
		fc, err := foldUnary(n.Location, op, c, operand.Type())
		if err != nil {
			return nil, err
		}
		return &TypedUnary{typedBase{n.Location, operand.Type(), fc}, op, operand}, nil
	}
	return &TypedUnary{typedBase{n.Location, operand.Type(), nil}, op, operand}, nil
}

func foldUnary(loc source.Location, op OperatorKind, c *Constant, t types.Type) (*Constant, error) {
	switch op {
	case OpNeg:
		x := new(big.Int).Neg(c.Int)
		if it, ok := types.IsInteger(t); ok {
			return NewIntConstant(loc, x, it)
		}
		return NewFieldConstant(x), nil
	case OpNot:
		return &Constant{Type: types.Bool{}, Bool: !c.Bool}, nil
	case OpBitNot:
		it := t.(types.Integer)
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(it.Bits)), big.NewInt(1))
		x := new(big.Int).Xor(c.Int, mask)
		return NewIntConstant(loc, x, it)
	}
	return nil, errf(loc, ErrTypeMismatch, "unsupported unary operator")
}

// analyzeCast resolves "expr as T", per spec.md §4.3.6's widening/narrowing/
// field-conversion rules.
func (a *Analyzer) analyzeCast(h scope.Handle, n *ast.CastExpr) (TypedExpr, error) {
	operand, err := a.analyzeExprValue(h, n.Operand)
	if err != nil {
		return nil, err
	}
	target, err := a.resolveType(h, n.Type)
	if err != nil {
		return nil, err
	}
	fromInt, fromIsInt := types.IsInteger(operand.Type())
	_, fromIsField := operand.Type().(types.Field)
	_, fromIsEnum := operand.Type().(*types.Enum)
	toInt, toIsInt := types.IsInteger(target)
	_, toIsField := target.(types.Field)
	if !fromIsInt && !fromIsField && !fromIsEnum {
		return nil, errf(n.Location, ErrCastingFromInvalidType, "cannot cast from %s", operand.Type())
	}
	if !toIsInt && !toIsField {
		return nil, errf(n.Location, ErrCastingToInvalidType, "cannot cast to %s", target)
	}
	if c := operand.Const(); c != nil && c.Int != nil {
		var nc *Constant
		if toIsField {
			nc = NewFieldConstant(c.Int)
		} else if fromIsField || fromIsEnum {
			nc, err = NewIntConstant(n.Location, c.Int, toInt)
			if err != nil {
				return nil, err
			}
		} else if fromInt.Bits <= toInt.Bits && fromInt.Signed == toInt.Signed {
			nc, err = NewIntConstant(n.Location, c.Int, toInt)
			if err != nil {
				return nil, err
			}
		} else {
			nc = &Constant{Type: toInt, Int: TruncateTo(c.Int, toInt)}
		}
		return &TypedCast{typedBase{n.Location, target, nc}, operand}, nil
	}
	return &TypedCast{typedBase{n.Location, target, nil}, operand}, nil
}

// analyzeIndex resolves "operand[index]" and the slice form
// "operand[index..high]", per spec.md §3.7/§4.3.6.
func (a *Analyzer) analyzeIndex(h scope.Handle, n *ast.IndexExpr) (TypedExpr, error) {
	operand, err := a.analyzeExprValue(h, n.Operand)
	if err != nil {
		return nil, err
	}
	at, ok := operand.Type().(types.Array)
	if !ok {
		return nil, errf(n.Location, ErrNotIndexable, "cannot index into %s", operand.Type())
	}
	place, isPlace := placeOf(operand)

	if n.High != nil {
		lowIdx, err := a.evalConstUsize(h, n.Index)
		if err != nil {
			return nil, err
		}
		highIdx, err := a.evalConstUsize(h, n.High)
		if err != nil {
			return nil, err
		}
		if n.InclusiveHigh {
			highIdx++
		}
		if lowIdx < 0 || highIdx > at.Size || lowIdx > highIdx {
			return nil, errf(n.Location, ErrIndexOutOfBounds, "slice [%d..%d] out of bounds for length %d", lowIdx, highIdx, at.Size)
		}
		resultType := types.Array{Element: at.Element, Size: highIdx - lowIdx}
		if isPlace {
			np := clonePlace(place)
			np.Steps = append(np.Steps, AccessStep{Static: true, Offset: lowIdx * at.Element.FlatSize()})
			np.Type = resultType
			return &TypedPlace{typedBase{n.Location, resultType, nil}, np}, nil
		}
		return &TypedIndex{typedBase{n.Location, resultType, nil}, operand, nil, nil, true, at.Element.FlatSize(), lowIdx * at.Element.FlatSize()}, nil
	}

	index, err := a.analyzeExprValue(h, n.Index)
	if err != nil {
		return nil, err
	}
	if !types.IsUnsignedInteger(index.Type()) {
		return nil, errf(n.Location, ErrOperandTypesMismatch, "array index must be an unsigned integer")
	}
	if c := index.Const(); c != nil && c.Int != nil {
		idx := int(c.Int.Int64())
		if idx < 0 || idx >= at.Size {
			return nil, errf(n.Location, ErrIndexOutOfBounds, "index %d out of bounds for length %d", idx, at.Size)
		}
		if isPlace {
			np := clonePlace(place)
			np.Steps = append(np.Steps, AccessStep{Static: true, Offset: idx * at.Element.FlatSize()})
			np.Type = at.Element
			return &TypedPlace{typedBase{n.Location, at.Element, nil}, np}, nil
		}
	}
	if isPlace {
		np := clonePlace(place)
		np.Steps = append(np.Steps, AccessStep{ElementSize: at.Element.FlatSize(), Index: index})
		np.Type = at.Element
		return &TypedPlace{typedBase{n.Location, at.Element, nil}, np}, nil
	}
	return &TypedIndex{typedBase{n.Location, at.Element, nil}, operand, index, nil, false, at.Element.FlatSize(), 0}, nil
}

// placeOf extracts the underlying *Place from a TypedExpr when it is (or
// wraps) one, so index/field/tuple-index chains can extend an existing
// access path instead of emitting a fresh load.
func placeOf(te TypedExpr) (*Place, bool) {
	if tp, ok := te.(*TypedPlace); ok {
		return tp.Place, true
	}
	return nil, false
}

func clonePlace(p *Place) *Place {
	np := &Place{Base: p.Base, Address: p.Address, Type: p.Type, IsStorage: p.IsStorage}
	np.Steps = append(np.Steps, p.Steps...)
	return np
}

// analyzeField resolves "operand.name" against a struct or contract
// (self.*) type, per spec.md §3.7/§4.3.10.
func (a *Analyzer) analyzeField(h scope.Handle, n *ast.FieldExpr) (TypedExpr, error) {
	operand, err := a.analyzeExprValue(h, n.Operand)
	if err != nil {
		return nil, err
	}
	switch st := operand.Type().(type) {
	case *types.Struct:
		ft, off, ok := st.Field(n.Name)
		if !ok {
			return nil, errf(n.Location, ErrFieldDoesNotExist, "struct %s has no field %s", st.Name, n.Name)
		}
		if place, isPlace := placeOf(operand); isPlace {
			np := clonePlace(place)
			np.Steps = append(np.Steps, AccessStep{Static: true, Offset: off})
			np.Type = ft
			return &TypedPlace{typedBase{n.Location, ft, nil}, np}, nil
		}
		return &TypedIndex{typedBase{n.Location, ft, nil}, operand, nil, nil, false, ft.FlatSize(), off}, nil
	case *types.Contract:
		ft, off, ok := st.StorageField(n.Name)
		if !ok {
			return nil, errf(n.Location, ErrFieldDoesNotExist, "contract %s has no storage field %s", st.Name, n.Name)
		}
		place, _ := placeOf(operand)
		np := &Place{Base: "self", IsStorage: true, Type: ft}
		if place != nil {
			np = clonePlace(place)
		}
		np.Steps = append(np.Steps, AccessStep{Static: true, Offset: off})
		np.Type = ft
		return &TypedPlace{typedBase{n.Location, ft, nil}, np}, nil
	}
	return nil, errf(n.Location, ErrFieldDoesNotExist, "%s has no fields", operand.Type())
}

// analyzeTupleIndex resolves "operand.N".
func (a *Analyzer) analyzeTupleIndex(h scope.Handle, n *ast.TupleIndexExpr) (TypedExpr, error) {
	operand, err := a.analyzeExprValue(h, n.Operand)
	if err != nil {
		return nil, err
	}
	tt, ok := operand.Type().(types.Tuple)
	if !ok {
		return nil, errf(n.Location, ErrFieldDoesNotExist, "%s is not a tuple", operand.Type())
	}
	if n.Index < 0 || n.Index >= len(tt.Elements) {
		return nil, errf(n.Location, ErrFieldDoesNotExist, "tuple index %d out of range", n.Index)
	}
	off := 0
	for i := 0; i < n.Index; i++ {
		off += tt.Elements[i].FlatSize()
	}
	elemType := tt.Elements[n.Index]
	if place, isPlace := placeOf(operand); isPlace {
		np := clonePlace(place)
		np.Steps = append(np.Steps, AccessStep{Static: true, Offset: off})
		np.Type = elemType
		return &TypedPlace{typedBase{n.Location, elemType, nil}, np}, nil
	}
	return &TypedIndex{typedBase{n.Location, elemType, nil}, operand, nil, nil, false, elemType.FlatSize(), off}, nil
}

// analyzeCall resolves "callee(args...)": either an intrinsic path, a
// user function path, or a bare identifier naming one, per spec.md
// §4.3.8/§4.3.9.
func (a *Analyzer) analyzeCall(h scope.Handle, n *ast.CallExpr) (TypedExpr, error) {
	if path, ok := calleePath(n.Callee); ok {
		if id, ok := LookupIntrinsic(path); ok {
			return a.analyzeIntrinsicCall(h, n, id)
		}
	}
	name, ok := calleeName(n.Callee)
	if !ok {
		return nil, errf(n.Location, ErrNotCallable, "callee is not a function reference")
	}
	item, _, ok := a.arena.Lookup(h, name)
	if !ok || item.Kind != scope.KindFunction {
		return nil, errf(n.Location, ErrNotCallable, "%q is not a function", name)
	}
	fn := item.Type.(types.Function)
	if len(n.Args) != len(fn.Params) {
		return nil, errf(n.Location, ErrFunctionArgumentCount, "%s expects %d argument(s), got %d", name, len(fn.Params), len(n.Args))
	}
	args := make([]TypedExpr, len(n.Args))
	for i, argExpr := range n.Args {
		arg, err := a.analyzeExprValue(h, argExpr)
		if err != nil {
			return nil, err
		}
		arg, err = reinterpretLiteral(arg, fn.Params[i])
		if err != nil {
			return nil, err
		}
		if !arg.Type().Equal(fn.Params[i]) {
			return nil, errf(argExpr.Loc(), ErrFunctionArgumentType, "argument %d: expected %s, got %s", i, fn.Params[i], arg.Type())
		}
		args[i] = arg
	}
	ret := fn.Returns
	if ret == nil {
		ret = types.Unit{}
	}
	return &TypedCall{typedBase{n.Location, ret, nil}, item.TypeID, 0, false, args}, nil
}

func calleeName(e ast.Expr) (string, bool) {
	switch c := e.(type) {
	case *ast.Identifier:
		return c.Name, true
	case *ast.Path:
		return c.Segments[len(c.Segments)-1], true
	}
	return "", false
}

func calleePath(e ast.Expr) (string, bool) {
	if p, ok := e.(*ast.Path); ok {
		return strings.Join(p.Segments, "::"), true
	}
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name, true
	}
	return "", false
}

// analyzeIntrinsicCall type-checks a call to a standard-library intrinsic
// against the fixed signatures of spec.md §6.
func (a *Analyzer) analyzeIntrinsicCall(h scope.Handle, n *ast.CallExpr, id Intrinsic) (TypedExpr, error) {
	args := make([]TypedExpr, len(n.Args))
	for i, argExpr := range n.Args {
		arg, err := a.analyzeExprValue(h, argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	var ret types.Type = types.Unit{}
	switch id {
	case IntrinsicRequire:
		if len(args) < 1 || len(args) > 2 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "require expects 1 or 2 arguments")
		}
		if _, ok := args[0].Type().(types.Bool); !ok {
			return nil, errf(n.Location, ErrFunctionArgumentType, "require's first argument must be bool")
		}
	case IntrinsicDbg:
		// Variadic: format string plus any number of interpolated values.
	case IntrinsicSha256, IntrinsicPedersen:
		if len(args) != 1 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "%v expects 1 argument", id)
		}
		at, ok := args[0].Type().(types.Array)
		if !ok {
			return nil, errf(n.Location, ErrFunctionArgumentType, "%v expects an array of bool argument", id)
		}
		if id == IntrinsicPedersen && (at.Size <= 0 || at.Size > MaxPedersenPreimageBits) {
			return nil, errf(n.Location, ErrFunctionArgumentType, "%v preimage must have 1 to %d bits, got %d", id, MaxPedersenPreimageBits, at.Size)
		}
		ret = types.Array{Element: types.Bool{}, Size: 256}
	case IntrinsicSchnorrVerify:
		ret = types.Bool{}
	case IntrinsicToBits:
		if len(args) != 1 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "to_bits expects 1 argument")
		}
		bits := 254
		if it, ok := types.IsInteger(args[0].Type()); ok {
			bits = it.Bits
		}
		ret = types.Array{Element: types.Bool{}, Size: bits}
	case IntrinsicFromBitsUnsigned, IntrinsicFromBitsSigned:
		if len(args) != 1 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "from_bits expects 1 argument")
		}
		at, ok := args[0].Type().(types.Array)
		if !ok {
			return nil, errf(n.Location, ErrFunctionArgumentType, "from_bits expects an array of bool")
		}
		ret = types.Integer{Signed: id == IntrinsicFromBitsSigned, Bits: at.Size}
	case IntrinsicFromBitsField:
		ret = types.Field{}
	case IntrinsicArrayReverse, IntrinsicArrayTruncate, IntrinsicArrayPad:
		if len(args) < 1 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "array intrinsic requires at least 1 argument")
		}
		at, ok := args[0].Type().(types.Array)
		if !ok {
			return nil, errf(n.Location, ErrFunctionArgumentType, "array intrinsic requires an array argument")
		}
		ret = at
	case IntrinsicMapGet, IntrinsicMapContains, IntrinsicMapInsert, IntrinsicMapRemove:
		if len(args) < 1 {
			return nil, errf(n.Location, ErrFunctionArgumentCount, "map intrinsic requires a map argument")
		}
		mt, ok := args[0].Type().(types.MTreeMap)
		if !ok {
			return nil, errf(n.Location, ErrFunctionArgumentType, "map intrinsic requires an MTreeMap argument")
		}
		switch id {
		case IntrinsicMapGet:
			ret = mt.Value
		case IntrinsicMapContains:
			ret = types.Bool{}
		}
	case IntrinsicZksyncTransfer:
		ret = types.Unit{}
	}
	return &TypedCall{typedBase{n.Location, ret, nil}, -1, id, true, args}, nil
}
