// Package ast defines the syntax tree produced by package syntax, per
// spec.md §3.3. Every construct carries its source Location. Node shapes are
// grounded on the IR/AST patterns seen across the retrieval pack (notably
// HugoDaniel-miniray's internal/ast, golangee-dyml's ast.go, and
// Hassandahiru-Compiler-in-Go's internal/ir), since the teacher (ngaro) has
// no static AST of its own beyond the flat assembler token stream.
package ast

import "github.com/matter-labs/zinc-sub006/source"

// Node is implemented by every syntax tree element.
type Node interface {
	Loc() source.Location
}

// ---- Types --------------------------------------------------------------

// TypeExpr is a parsed (not yet resolved) type expression.
type TypeExpr interface {
	Node
	typeExpr()
}

type Base struct{ Location source.Location }

func (b Base) Loc() source.Location { return b.Location }

// NamedType is an identifier or path used as a type: bool, field, u64,
// Foo, std::collections::MTreeMap.
type NamedType struct {
	Base
	Path []string
	Args []TypeExpr // generic arguments, e.g. MTreeMap<K, V>
}

func (*NamedType) typeExpr() {}

// UnitType is "()".
type UnitType struct{ Base }

func (*UnitType) typeExpr() {}

// ArrayType is "[T; N]".
type ArrayType struct {
	Base
	Element TypeExpr
	Size    Expr
}

func (*ArrayType) typeExpr() {}

// TupleType is "(T1, T2, ...)".
type TupleType struct {
	Base
	Elements []TypeExpr
}

func (*TupleType) typeExpr() {}

// FunctionType is "fn(T1, T2) -> T".
type FunctionType struct {
	Base
	Params  []TypeExpr
	Returns TypeExpr
}

func (*FunctionType) typeExpr() {}

// ---- Patterns -------------------------------------------------------------

type Pattern interface {
	Node
	pattern()
}

// IdentPattern binds name, optionally as mutable.
type IdentPattern struct {
	Base
	Name    string
	Mutable bool
}

func (*IdentPattern) pattern() {}

// WildcardPattern is "_".
type WildcardPattern struct{ Base }

func (*WildcardPattern) pattern() {}

// TuplePattern destructures a tuple: "(a, mut b, _)".
type TuplePattern struct {
	Base
	Elements []Pattern
}

func (*TuplePattern) pattern() {}

// ---- Expressions ----------------------------------------------------------

type Expr interface {
	Node
	expr()
}

// IntegerLiteral is a literal integer, preserving its source Base/fraction
// flag for diagnostics; the semantic analyser does the actual parsing into
// a big.Int.
type IntegerLiteral struct {
	Base
	Text    string
	Value   string // normalized digit text, see lexer.Token.IntValue
	Radix   int    // 2, 8, 10, 16
	IsFloat bool
}

func (*IntegerLiteral) expr() {}

// BooleanLiteral is "true" or "false".
type BooleanLiteral struct {
	Base
	Value bool
}

func (*BooleanLiteral) expr() {}

// StringLiteral is a quoted string (used for require() messages, dbg()
// format strings; Zinc has no runtime string type).
type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) expr() {}

// Identifier is a bare name reference.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) expr() {}

// Path is a "::"-separated reference, e.g. std::crypto::sha256.
type Path struct {
	Base
	Segments []string
}

func (*Path) expr() {}

// TupleExpr is "(e1, e2, ...)".
type TupleExpr struct {
	Base
	Elements []Expr
}

func (*TupleExpr) expr() {}

// ArrayExpr is "[e1, e2, ...]" or "[e; n]" (repeat form).
type ArrayExpr struct {
	Base
	Elements []Expr
	Repeat   Expr // non-nil for the "[e; n]" form; Elements[0] is e, Repeat is n
}

func (*ArrayExpr) expr() {}

// StructExpr is "Name { field: expr, ... }".
type StructExpr struct {
	Base
	Path   []string
	Fields []StructExprField
}

type StructExprField struct {
	Name  string
	Value Expr
}

func (*StructExpr) expr() {}

// BlockExpr is "{ stmt*; expr? }", used both as a statement block and as an
// expression (its trailing expression is the value).
type BlockExpr struct {
	Base
	Statements []Stmt
	Trailing   Expr // nil if the block has no trailing expression
}

func (*BlockExpr) expr() {}

// ConditionalExpr is "if cond { .. } else { .. }".
type ConditionalExpr struct {
	Base
	Condition Expr
	Then      *BlockExpr
	Else      Expr // *BlockExpr or *ConditionalExpr (else if), or nil
}

func (*ConditionalExpr) expr() {}

// MatchExpr is "match scrutinee { pattern => expr, ... }".
type MatchExpr struct {
	Base
	Scrutinee Expr
	Arms      []MatchArm
}

type MatchArm struct {
	// Pattern is either a path to an enum variant, an integer literal, or
	// "_" (wildcard), represented here as an Expr for simplicity; the
	// analyser restricts which shapes are legal.
	Pattern Expr
	Body    Expr
}

func (*MatchExpr) expr() {}

// BinaryOp enumerates the binary operators of spec.md §3.3's precedence
// table, including plain and compound assignment.
type BinaryOp int

const (
	OpAssign BinaryOp = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpShlAssign
	OpShrAssign
	OpRange
	OpRangeIncl
	OpOrOr
	OpXorXor
	OpAndAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpBitOr
	OpBitXor
	OpBitAnd
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
)

// BinaryExpr is "lhs op rhs".
type BinaryExpr struct {
	Base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) expr() {}

// UnaryOp enumerates "- ! ~".
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

// UnaryExpr is "op operand".
type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) expr() {}

// CastExpr is "expr as T".
type CastExpr struct {
	Base
	Operand Expr
	Type    TypeExpr
}

func (*CastExpr) expr() {}

// CallExpr is "callee(args...)".
type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) expr() {}

// IndexExpr is "operand[index]" or, when High is non-nil, a slice
// "operand[index..high]" / "operand[index..=high]" (InclusiveHigh).
type IndexExpr struct {
	Base
	Operand       Expr
	Index         Expr
	High          Expr
	InclusiveHigh bool
}

func (*IndexExpr) expr() {}

// FieldExpr is "operand.name".
type FieldExpr struct {
	Base
	Operand Expr
	Name    string
}

func (*FieldExpr) expr() {}

// TupleIndexExpr is "operand.0".
type TupleIndexExpr struct {
	Base
	Operand Expr
	Index   int
}

func (*TupleIndexExpr) expr() {}

// ---- Statements -----------------------------------------------------------

type Stmt interface {
	Node
	stmt()
}

// LetStmt is "let [mut] pattern [: T] = expr;".
type LetStmt struct {
	Base
	Pattern Pattern
	Type    TypeExpr // nil if inferred
	Value   Expr
}

func (*LetStmt) stmt() {}

// ConstStmt is "const NAME: T = expr;" at function-local scope.
type ConstStmt struct {
	Base
	Name  string
	Type  TypeExpr
	Value Expr
}

func (*ConstStmt) stmt() {}

// ForStmt is "for i in L..R [while cond] { body }".
type ForStmt struct {
	Base
	Variable  string
	RangeExpr Expr // a BinaryExpr with Op == OpRange/OpRangeIncl
	While     Expr // nil if absent
	Body      *BlockExpr
}

func (*ForStmt) stmt() {}

// WhileStmt is "while cond { body }" (lowered to a bounded loop by the
// generator, since the VM only supports statically-bounded loops: see
// spec.md §4.3.7).
type WhileStmt struct {
	Base
	Condition Expr
	Body      *BlockExpr
}

func (*WhileStmt) stmt() {}

// ExprStmt is an expression used as a statement, "expr;".
type ExprStmt struct {
	Base
	Expr Expr
}

func (*ExprStmt) stmt() {}

// ---- Items ----------------------------------------------------------------

type Item interface {
	Node
	item()
}

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FnItem is "fn name(params) -> T { body }".
type FnItem struct {
	Base
	Name       string
	Public     bool
	IsTest     bool // marked #[test] / unit-test entry, see spec.md §4.3.8
	IsConst    bool // marked "const fn"; illegal on an entry point, see spec.md §4.3.8
	Params     []Param
	ReturnType TypeExpr // nil means "()"
	Body       *BlockExpr
}

func (*FnItem) item() {}

// TypeAliasItem is "type Name = T;".
type TypeAliasItem struct {
	Base
	Name string
	Type TypeExpr
}

func (*TypeAliasItem) item() {}

// StructItem is "struct Name { f1: T1, ... }".
type StructItem struct {
	Base
	Name   string
	Fields []Param
}

func (*StructItem) item() {}

// EnumVariant is "Name = value" (value may be nil: auto-assigned).
type EnumVariant struct {
	Name  string
	Value Expr
}

// EnumItem is "enum Name { V1 = c1, ... }".
type EnumItem struct {
	Base
	Name     string
	Variants []EnumVariant
}

func (*EnumItem) item() {}

// ImplItem is "impl Name { fn ... }".
type ImplItem struct {
	Base
	Type  string
	Funcs []*FnItem
}

func (*ImplItem) item() {}

// ModItem is "mod name;" (external file/dir) or "mod name { items }"
// (inline).
type ModItem struct {
	Base
	Name  string
	Items []Item // nil when referring to an external file/dir
}

func (*ModItem) item() {}

// UseItem is "use path::to::Item;".
type UseItem struct {
	Base
	Path  []string
	Alias string // "" if none
}

func (*UseItem) item() {}

// ConstItem is a module-level "const NAME: T = expr;".
type ConstItem struct {
	Base
	Name  string
	Type  TypeExpr
	Value Expr
}

func (*ConstItem) item() {}

// ContractField is a storage field declaration inside a contract body.
type ContractField struct {
	Name string
	Type TypeExpr
}

// ContractItem is "contract Name { fields; consts; fns }".
type ContractItem struct {
	Base
	Name    string
	Fields  []ContractField
	Consts  []*ConstItem
	Funcs   []*FnItem
}

func (*ContractItem) item() {}

// Module is the root of a parsed file: a flat list of top-level items.
type Module struct {
	Base
	File  source.ID
	Items []Item
}

func (*Module) item() {}

// NewLoc is a helper for syntax to stamp a Base with a location.
func NewLoc(l source.Location) source.Location { return l }
