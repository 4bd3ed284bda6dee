package semantic

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/types"
)

// analyzeBlock opens a child scope, analyzes each statement in order, and
// resolves the trailing expression (if any) as the block's value, per
// spec.md §4.3.7.
func (a *Analyzer) analyzeBlock(h scope.Handle, n *ast.BlockExpr) (*TypedBlock, error) {
	child := a.arena.New(h, "")
	stmts := make([]TypedStmt, 0, len(n.Statements))
	for _, s := range n.Statements {
		ts, err := a.analyzeStmt(child, s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ts)
	}
	var trailing TypedExpr
	var resultType types.Type = types.Unit{}
	if n.Trailing != nil {
		te, err := a.analyzeExprValue(child, n.Trailing)
		if err != nil {
			return nil, err
		}
		trailing = te
		resultType = te.Type()
	}
	var c *Constant
	if trailing != nil {
		c = trailing.Const()
	} else {
		c = &Constant{Type: types.Unit{}}
	}
	return &TypedBlock{typedBase{n.Location, resultType, c}, stmts, trailing, child}, nil
}

func (a *Analyzer) analyzeConditional(h scope.Handle, n *ast.ConditionalExpr) (TypedExpr, error) {
	cond, err := a.analyzeExprValue(h, n.Condition)
	if err != nil {
		return nil, err
	}
	if _, ok := cond.Type().(types.Bool); !ok {
		return nil, errf(n.Condition.Loc(), ErrTypeMismatch, "if condition must be bool, got %s", cond.Type())
	}
	then, err := a.analyzeBlock(h, n.Then)
	if err != nil {
		return nil, err
	}
	var elseExpr TypedExpr
	resultType := then.Type()
	if n.Else != nil {
		switch e := n.Else.(type) {
		case *ast.BlockExpr:
			elseBlock, err := a.analyzeBlock(h, e)
			if err != nil {
				return nil, err
			}
			elseExpr = elseBlock
		case *ast.ConditionalExpr:
			ee, err := a.analyzeConditional(h, e)
			if err != nil {
				return nil, err
			}
			elseExpr = ee
		}
		if !resultType.Equal(elseExpr.Type()) {
			return nil, errf(n.Location, ErrTypeMismatch, "if/else branches must produce the same type, got %s and %s", resultType, elseExpr.Type())
		}
	} else if resultType.FlatSize() != 0 {
		return nil, errf(n.Location, ErrTypeMismatch, "if without else must produce ()")
	}
	var c *Constant
	if cc := cond.Const(); cc != nil {
		if cc.Bool {
			if then.Const() != nil {
				c = then.Const()
			}
		} else if elseExpr != nil && elseExpr.Const() != nil {
			c = elseExpr.Const()
		} else if elseExpr == nil {
			c = &Constant{Type: types.Unit{}}
		}
	}
	return &TypedConditional{typedBase{n.Location, resultType, c}, cond, then, elseExpr}, nil
}

// analyzeMatch resolves a match expression's arms against the scrutinee's
// enum/integer discriminant, per spec.md §4.3.7's exhaustiveness rule: a
// match with a "_" wildcard arm (in any position) is exhaustive; otherwise
// an enum match must name every variant, and an integer match is reported
// as ErrMatchNotExhausted. Duplicate arm discriminants are not rejected.
func (a *Analyzer) analyzeMatch(h scope.Handle, n *ast.MatchExpr) (TypedExpr, error) {
	scrutinee, err := a.analyzeExprValue(h, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	en, isEnum := scrutinee.Type().(*types.Enum)
	_, isInt := types.IsInteger(scrutinee.Type())
	if !isEnum && !isInt {
		return nil, errf(n.Location, ErrTypeMismatch, "match scrutinee must be an enum or integer type")
	}

	arms := make([]TypedMatchArm, 0, len(n.Arms))
	seen := make(map[uint64]bool)
	hasWildcard := false
	var resultType types.Type

	for _, arm := range n.Arms {
		var disc *uint64
		switch p := arm.Pattern.(type) {
		case *ast.Identifier:
			if p.Name == "_" {
				hasWildcard = true
			} else if isEnum {
				v, ok := en.Variant(p.Name)
				if !ok {
					return nil, errf(p.Location, ErrFieldDoesNotExist, "enum %s has no variant %s", en.Name, p.Name)
				}
				disc = &v
				seen[v] = true
			}
		case *ast.Path:
			name := p.Segments[len(p.Segments)-1]
			if isEnum {
				v, ok := en.Variant(name)
				if !ok {
					return nil, errf(p.Location, ErrFieldDoesNotExist, "enum %s has no variant %s", en.Name, name)
				}
				disc = &v
				seen[v] = true
			}
		case *ast.IntegerLiteral:
			lit, err := a.analyzeIntegerLiteral(p)
			if err != nil {
				return nil, err
			}
			v := lit.Const().Int.Uint64()
			disc = &v
			seen[v] = true
		}
		body, err := a.analyzeExprValue(h, arm.Body)
		if err != nil {
			return nil, err
		}
		if resultType == nil {
			resultType = body.Type()
		} else if !resultType.Equal(body.Type()) {
			return nil, errf(arm.Body.Loc(), ErrTypeMismatch, "match arms must produce the same type")
		}
		arms = append(arms, TypedMatchArm{Discriminant: disc, Body: body})
	}

	if isEnum && !hasWildcard && len(seen) != len(en.Variants) {
		return nil, errf(n.Location, ErrMatchNotExhausted, "match over %s is not exhaustive", en.Name)
	}
	if isInt && !hasWildcard {
		return nil, errf(n.Location, ErrMatchNotExhausted, "match over an integer type requires a wildcard arm")
	}
	if resultType == nil {
		resultType = types.Unit{}
	}

	var c *Constant
	if sc := scrutinee.Const(); sc != nil && sc.Int != nil {
		val := sc.Int.Uint64()
		for _, arm := range arms {
			if arm.Discriminant != nil && *arm.Discriminant == val {
				c = arm.Body.Const()
				break
			}
		}
	}
	return &TypedMatch{typedBase{n.Location, resultType, c}, scrutinee, arms}, nil
}
