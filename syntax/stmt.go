package syntax

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// parseBlockElement parses one statement, or — if it is an expression not
// followed by ';' and immediately before '}' — the block's trailing
// expression, per spec.md §3.3's "last expression is the block's value"
// rule.
func (p *Parser) parseBlockElement() (ast.Stmt, ast.Expr, error) {
	switch {
	case p.isKeyword(lexer.KwLet):
		s, err := p.parseLetStmt()
		return s, nil, err
	case p.isKeyword(lexer.KwConst):
		s, err := p.parseConstStmt()
		return s, nil, err
	case p.isKeyword(lexer.KwFor):
		s, err := p.parseForStmt()
		return s, nil, err
	case p.isKeyword(lexer.KwWhile):
		s, err := p.parseWhileStmt()
		return s, nil, err
	}

	loc := p.loc()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymSemicolon); err != nil {
		return nil, nil, err
	} else if ok {
		return &ast.ExprStmt{Base: ast.Base{Location: loc}, Expr: expr}, nil, nil
	}
	if p.isSymbol(lexer.SymRBrace) {
		return nil, expr, nil
	}
	// An expression statement whose tail (block/if/match) supplies its own
	// termination may be followed directly by further statements without a
	// semicolon, mirroring the teacher's "statement needs no terminator
	// after a brace" ergonomics.
	if isBraceTerminated(expr) {
		return &ast.ExprStmt{Base: ast.Base{Location: loc}, Expr: expr}, nil, nil
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, nil, err
	}
	return &ast.ExprStmt{Base: ast.Base{Location: loc}, Expr: expr}, nil, nil
}

func isBraceTerminated(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BlockExpr, *ast.ConditionalExpr, *ast.MatchExpr:
		return true
	}
	return false
}

func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if ok, err := p.eatSymbol(lexer.SymColon); err != nil {
		return nil, err
	} else if ok {
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectSymbol(lexer.SymAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Base: ast.Base{Location: loc}, Pattern: pat, Type: typ, Value: value}, nil
}

func (p *Parser) parseConstStmt() (*ast.ConstStmt, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseConstStmtTail(loc)
}

// parseConstStmtTail parses the "name: type = value;" tail of a const
// declaration, assuming the leading "const" keyword has already been
// consumed by the caller (which may need to look past it to disambiguate
// "const fn" first).
func (p *Parser) parseConstStmtTail(loc source.Location) (*ast.ConstStmt, error) {
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymColon); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	}
	return &ast.ConstStmt{Base: ast.Base{Location: loc}, Name: name, Type: typ, Value: value}, nil
}

func (p *Parser) parseForStmt() (*ast.ForStmt, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(lexer.KwIn); err != nil {
		return nil, err
	}
	saved := p.allowStructLiteral
	p.allowStructLiteral = false
	rangeExpr, err := p.parseRange()
	if err != nil {
		p.allowStructLiteral = saved
		return nil, err
	}
	var whileExpr ast.Expr
	if ok, werr := p.eatKeyword(lexer.KwWhile); werr != nil {
		p.allowStructLiteral = saved
		return nil, werr
	} else if ok {
		whileExpr, err = p.parseExpr()
		if err != nil {
			p.allowStructLiteral = saved
			return nil, err
		}
	}
	p.allowStructLiteral = saved
	body, err := p.parseBlockRaw()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Base: ast.Base{Location: loc}, Variable: name, RangeExpr: rangeExpr, While: whileExpr, Body: body}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	saved := p.allowStructLiteral
	p.allowStructLiteral = false
	cond, err := p.parseExpr()
	p.allowStructLiteral = saved
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockRaw()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: ast.Base{Location: loc}, Condition: cond, Body: body}, nil
}
