package semantic

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/types"
)

// analyzeStmt dispatches one block-level statement, per spec.md §4.3.7.
func (a *Analyzer) analyzeStmt(h scope.Handle, s ast.Stmt) (TypedStmt, error) {
	switch n := s.(type) {
	case *ast.LetStmt:
		return a.analyzeLet(h, n)
	case *ast.ConstStmt:
		return a.analyzeConstStmt(h, n)
	case *ast.ForStmt:
		return a.analyzeFor(h, n)
	case *ast.WhileStmt:
		return a.analyzeWhile(h, n)
	case *ast.ExprStmt:
		te, err := a.analyzeExprValue(h, n.Expr)
		if err != nil {
			return nil, err
		}
		return &TypedExprStmt{n.Location, te}, nil
	}
	return nil, errf(s.Loc(), ErrTypeMismatch, "unsupported statement shape %T", s)
}

// analyzeLet handles "let [mut] pattern [: T] = expr;". Only identifier and
// wildcard patterns bind a single place; tuple patterns destructure into
// one declared variable per leaf, per spec.md §3.3's pattern grammar.
func (a *Analyzer) analyzeLet(h scope.Handle, n *ast.LetStmt) (TypedStmt, error) {
	value, err := a.analyzeExprValue(h, n.Value)
	if err != nil {
		return nil, err
	}
	var want types.Type
	if n.Type != nil {
		want, err = a.resolveType(h, n.Type)
		if err != nil {
			return nil, err
		}
		value, err = reinterpretLiteral(value, want)
		if err != nil {
			return nil, err
		}
		if !value.Type().Equal(want) {
			return nil, errf(n.Location, ErrTypeMismatch, "let binding: expected %s, got %s", want, value.Type())
		}
	} else {
		want = value.Type()
	}
	place, err := a.bindPattern(h, n.Pattern, want)
	if err != nil {
		return nil, err
	}
	return &TypedLet{n.Location, place, value}, nil
}

// bindPattern declares the variable(s) a pattern names in scope h, returning
// the Place describing the (possibly sole) bound storage location.
func (a *Analyzer) bindPattern(h scope.Handle, p ast.Pattern, t types.Type) (*Place, error) {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		item := &scope.Item{Kind: scope.KindVariable, Name: pat.Name, Type: t, Mutable: pat.Mutable, Address: -1, Declared: true}
		a.arena.Declare(h, item)
		return &Place{Base: pat.Name, Type: t}, nil
	case *ast.WildcardPattern:
		return &Place{Base: "_", Type: t}, nil
	case *ast.TuplePattern:
		tt, ok := t.(types.Tuple)
		if !ok || len(tt.Elements) != len(pat.Elements) {
			return nil, errf(pat.Location, ErrTypeMismatch, "tuple pattern does not match type %s", t)
		}
		for i, sub := range pat.Elements {
			if _, err := a.bindPattern(h, sub, tt.Elements[i]); err != nil {
				return nil, err
			}
		}
		return &Place{Base: "", Type: t}, nil
	}
	return nil, errf(p.Loc(), ErrTypeMismatch, "unsupported pattern shape %T", p)
}

// analyzeConstStmt handles a function-local "const NAME: T = expr;".
func (a *Analyzer) analyzeConstStmt(h scope.Handle, n *ast.ConstStmt) (TypedStmt, error) {
	value, err := a.analyzeExprConstant(h, n.Value)
	if err != nil {
		return nil, err
	}
	if n.Type != nil {
		want, err := a.resolveType(h, n.Type)
		if err != nil {
			return nil, err
		}
		value, err = reinterpretLiteral(value, want)
		if err != nil {
			return nil, err
		}
		if !value.Type().Equal(want) {
			return nil, errf(n.Location, ErrTypeMismatch, "const: expected %s, got %s", want, value.Type())
		}
	}
	c := value.Const()
	item := &scope.Item{Kind: scope.KindConstant, Name: n.Name, Type: value.Type(), Value: c, Declared: true}
	a.arena.Declare(h, item)
	return &TypedConst{n.Location, n.Name, c}, nil
}

// analyzeFor handles "for i in L..R [while cond] { body }"; the range
// bounds must fold to constants (spec.md §4.3.7's static loop-unrolling
// requirement, ErrLoopBoundsExpectedConstantRange otherwise).
func (a *Analyzer) analyzeFor(h scope.Handle, n *ast.ForStmt) (TypedStmt, error) {
	rangeExpr, err := a.analyzeExprConstant(h, n.RangeExpr)
	if err != nil {
		return nil, err
	}
	rc := rangeExpr.Const()
	if rc == nil || rc.Range == nil {
		return nil, errf(n.Location, ErrLoopBoundsExpectedConstantRange, "for-loop bounds must be a constant range")
	}
	child := a.arena.New(h, "")
	a.arena.Declare(child, &scope.Item{Kind: scope.KindVariable, Name: n.Variable, Type: rc.Range.ElemType, Address: -1, Declared: true})

	var whileExpr TypedExpr
	if n.While != nil {
		whileExpr, err = a.analyzeExprValue(child, n.While)
		if err != nil {
			return nil, err
		}
		if _, ok := whileExpr.Type().(types.Bool); !ok {
			return nil, errf(n.While.Loc(), ErrTypeMismatch, "for-loop while clause must be bool")
		}
	}
	body, err := a.analyzeBlock(child, n.Body)
	if err != nil {
		return nil, err
	}
	return &TypedFor{n.Location, n.Variable, rc.Range, whileExpr, body}, nil
}

// analyzeWhile checks that a "while cond { body }" condition is bool and
// analyzes the body in a child scope. No iteration bound is determined here:
// the generator lowers the loop with a fixed cap of 1<<16 iterations, since
// the VM has no unbounded looping construct (spec.md §4.3.7).
func (a *Analyzer) analyzeWhile(h scope.Handle, n *ast.WhileStmt) (TypedStmt, error) {
	cond, err := a.analyzeExprValue(h, n.Condition)
	if err != nil {
		return nil, err
	}
	if _, ok := cond.Type().(types.Bool); !ok {
		return nil, errf(n.Condition.Loc(), ErrTypeMismatch, "while condition must be bool")
	}
	child := a.arena.New(h, "")
	body, err := a.analyzeBlock(child, n.Body)
	if err != nil {
		return nil, err
	}
	return &TypedWhile{n.Location, cond, body}, nil
}
