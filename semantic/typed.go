package semantic

import (
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

// TypedExpr is the semantic analyser's output tree, per the design note in
// spec.md §9: rather than translate to Reverse Polish while walking, the
// analyser keeps a canonical tree (same shape as ast.Expr, decorated with
// resolved types and constant values) and lets package generator emit RPN
// from it via postorder traversal at generation time. Every node still
// carries its own Location so diagnostics and later passes need not walk
// back to the ast.
type TypedExpr interface {
	Loc() source.Location
	Type() types.Type
	// Const is non-nil when this node is a compile-time constant, per
	// spec.md §3.6.
	Const() *Constant
}

type typedBase struct {
	Location source.Location
	Typ      types.Type
	Constant *Constant
}

func (b *typedBase) Loc() source.Location { return b.Location }
func (b *typedBase) Type() types.Type     { return b.Typ }
func (b *typedBase) Const() *Constant     { return b.Constant }

// TypedLiteral is a leaf constant: integer, boolean, or string literal.
type TypedLiteral struct{ typedBase }

// TypedPlace is a reference to an addressable location: a bare variable, or
// a chain of field/tuple/index accesses rooted at one, per spec.md §3.7.
type TypedPlace struct {
	typedBase
	Place *Place
}

// TypedBinary is a fully resolved binary operation.
type TypedBinary struct {
	typedBase
	Op          OperatorKind
	Left, Right TypedExpr
}

// TypedUnary is a fully resolved unary operation.
type TypedUnary struct {
	typedBase
	Op      OperatorKind
	Operand TypedExpr
}

// TypedCast is "expr as T" after the cast has been checked legal.
type TypedCast struct {
	typedBase
	Operand TypedExpr
}

// TypedIndex is "operand[index]" or a slice "operand[l..r]" after the
// operand's array-ness has been checked; when Slice is true the result
// type is an Array of the sliced length.
type TypedIndex struct {
	typedBase
	Operand     TypedExpr
	Index       TypedExpr
	High        TypedExpr
	Slice       bool
	ElementSize int
	// Offset is the static flat-slot offset of a field/tuple-index access
	// performed on a non-addressable operand (e.g. "f().field"), realised
	// by the generator as an evaluation-stack slice rather than a data-stack
	// load, since there is no Place to extend in that case.
	Offset int
}

// TypedCall is a resolved call, either to a user function (TypeID >= 0) or
// an intrinsic (Intrinsic set, TypeID == -1).
type TypedCall struct {
	typedBase
	TypeID    int
	Intrinsic Intrinsic
	IsBuiltin bool
	Args      []TypedExpr
}

// TypedTuple/TypedArray/TypedStruct are aggregate literals.
type TypedTuple struct {
	typedBase
	Elements []TypedExpr
}
type TypedArray struct {
	typedBase
	Elements []TypedExpr
	Repeat   TypedExpr // set for the "[e; n]" form, nil otherwise
	RepeatN  int
}
type TypedStruct struct {
	typedBase
	Fields []TypedExpr // positional, in declared field order
}

// TypedBlock is "{ stmts; trailing }".
type TypedBlock struct {
	typedBase
	Statements []TypedStmt
	Trailing   TypedExpr
	Scope      interface{} // scope.Handle, kept as interface{} to avoid a semantic->scope->semantic cycle concern; set by the analyser
}

// TypedConditional is "if cond { then } else { else }"; both branches must
// produce the same type (spec.md §4.3.7).
type TypedConditional struct {
	typedBase
	Condition  TypedExpr
	Then       *TypedBlock
	Else       TypedExpr // *TypedBlock or *TypedConditional, nil if absent (unit result)
}

// TypedMatchArm pairs a discriminant (nil for the wildcard arm) with a
// resolved arm body.
type TypedMatchArm struct {
	Discriminant *uint64
	Body         TypedExpr
}

// TypedMatch is "match scrutinee { arms }", exhaustive per spec.md §4.3.7.
type TypedMatch struct {
	typedBase
	Scrutinee TypedExpr
	Arms      []TypedMatchArm
}

// ---- Statements ------------------------------------------------------

type TypedStmt interface{ stmtLoc() source.Location }

type TypedLet struct {
	Location source.Location
	Place    *Place
	Value    TypedExpr
}

func (s *TypedLet) stmtLoc() source.Location { return s.Location }

type TypedConst struct {
	Location source.Location
	Name     string
	Value    *Constant
}

func (s *TypedConst) stmtLoc() source.Location { return s.Location }

type TypedFor struct {
	Location  source.Location
	Variable  string
	Range     *RangeConstant
	While     TypedExpr
	Body      *TypedBlock
}

func (s *TypedFor) stmtLoc() source.Location { return s.Location }

type TypedWhile struct {
	Location  source.Location
	Condition TypedExpr
	Body      *TypedBlock
}

func (s *TypedWhile) stmtLoc() source.Location { return s.Location }

type TypedExprStmt struct {
	Location source.Location
	Expr     TypedExpr
}

func (s *TypedExprStmt) stmtLoc() source.Location { return s.Location }
