package syntax

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// parseExpr parses a full expression, entering the precedence-climbing
// ladder at the assignment level (the lowest precedence, right-associative),
// per spec.md §3.3's operator table.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

var assignOps = map[lexer.Symbol]ast.BinaryOp{
	lexer.SymAssign:    ast.OpAssign,
	lexer.SymPlusEq:    ast.OpAddAssign,
	lexer.SymMinusEq:   ast.OpSubAssign,
	lexer.SymStarEq:    ast.OpMulAssign,
	lexer.SymSlashEq:   ast.OpDivAssign,
	lexer.SymPercentEq: ast.OpRemAssign,
	lexer.SymAmpEq:     ast.OpAndAssign,
	lexer.SymPipeEq:    ast.OpOrAssign,
	lexer.SymCaretEq:   ast.OpXorAssign,
	lexer.SymShlEq:     ast.OpShlAssign,
	lexer.SymShrEq:     ast.OpShrAssign,
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	lhs, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.KindSymbol {
		if op, ok := assignOps[p.tok.Symbol]; ok {
			loc := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			rhs, err := p.parseAssignment() // right-associative
			if err != nil {
				return nil, err
			}
			return &ast.BinaryExpr{Base: ast.Base{Location: loc}, Op: op, Left: lhs, Right: rhs}, nil
		}
	}
	return lhs, nil
}

func (p *Parser) parseRange() (ast.Expr, error) {
	lhs, err := p.parseOrOr()
	if err != nil {
		return nil, err
	}
	if p.isSymbol(lexer.SymRange) || p.isSymbol(lexer.SymRangeIncl) {
		incl := p.isSymbol(lexer.SymRangeIncl)
		loc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseOrOr()
		if err != nil {
			return nil, err
		}
		op := ast.OpRange
		if incl {
			op = ast.OpRangeIncl
		}
		return &ast.BinaryExpr{Base: ast.Base{Location: loc}, Op: op, Left: lhs, Right: rhs}, nil
	}
	return lhs, nil
}

// binaryLevel parses a left-associative binary chain at one precedence
// level: it matches leading symbols in ops against next's result and folds
// left, e.g. "a || b || c" becomes ((a || b) || c).
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops map[lexer.Symbol]ast.BinaryOp) (ast.Expr, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == lexer.KindSymbol {
		op, ok := ops[p.tok.Symbol]
		if !ok {
			break
		}
		loc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Base: ast.Base{Location: loc}, Op: op, Left: lhs, Right: rhs}
	}
	return lhs, nil
}

var orOrOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymOrOr: ast.OpOrOr}
var xorXorOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymXorXor: ast.OpXorXor}
var andAndOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymAndAnd: ast.OpAndAnd}
var comparisonOps = map[lexer.Symbol]ast.BinaryOp{
	lexer.SymEq: ast.OpEq, lexer.SymNe: ast.OpNe,
	lexer.SymLt: ast.OpLt, lexer.SymLe: ast.OpLe,
	lexer.SymGt: ast.OpGt, lexer.SymGe: ast.OpGe,
}
var bitOrOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymPipe: ast.OpBitOr}
var bitXorOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymCaret: ast.OpBitXor}
var bitAndOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymAmp: ast.OpBitAnd}
var shiftOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymShl: ast.OpShl, lexer.SymShr: ast.OpShr}
var addOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymPlus: ast.OpAdd, lexer.SymMinus: ast.OpSub}
var mulOps = map[lexer.Symbol]ast.BinaryOp{lexer.SymStar: ast.OpMul, lexer.SymSlash: ast.OpDiv, lexer.SymPercent: ast.OpRem}

func (p *Parser) parseOrOr() (ast.Expr, error)      { return p.binaryLevel(p.parseXorXor, orOrOps) }
func (p *Parser) parseXorXor() (ast.Expr, error)    { return p.binaryLevel(p.parseAndAnd, xorXorOps) }
func (p *Parser) parseAndAnd() (ast.Expr, error)    { return p.binaryLevel(p.parseComparison, andAndOps) }
func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitOr, comparisonOps)
}
func (p *Parser) parseBitOr() (ast.Expr, error)  { return p.binaryLevel(p.parseBitXor, bitOrOps) }
func (p *Parser) parseBitXor() (ast.Expr, error) { return p.binaryLevel(p.parseBitAnd, bitXorOps) }
func (p *Parser) parseBitAnd() (ast.Expr, error) { return p.binaryLevel(p.parseShift, bitAndOps) }
func (p *Parser) parseShift() (ast.Expr, error)  { return p.binaryLevel(p.parseAdd, shiftOps) }
func (p *Parser) parseAdd() (ast.Expr, error)    { return p.binaryLevel(p.parseMul, addOps) }
func (p *Parser) parseMul() (ast.Expr, error)    { return p.binaryLevel(p.parseCast, mulOps) }

func (p *Parser) parseCast() (ast.Expr, error) {
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatKeyword(lexer.KwAs)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		loc := p.loc()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		operand = &ast.CastExpr{Base: ast.Base{Location: loc}, Operand: operand, Type: typ}
	}
	return operand, nil
}

var unaryOps = map[lexer.Symbol]ast.UnaryOp{
	lexer.SymMinus: ast.OpNeg, lexer.SymNot: ast.OpNot, lexer.SymTilde: ast.OpBitNot,
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.tok.Kind == lexer.KindSymbol {
		if op, ok := unaryOps[p.tok.Symbol]; ok {
			loc := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Base: ast.Base{Location: loc}, Op: op, Operand: operand}, nil
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isSymbol(lexer.SymLParen):
			expr, err = p.parseCall(expr)
		case p.isSymbol(lexer.SymLBracket):
			expr, err = p.parseIndex(expr)
		case p.isSymbol(lexer.SymDot):
			expr, err = p.parseFieldOrTupleIndex(expr)
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseCall(callee ast.Expr) (ast.Expr, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.isSymbol(lexer.SymRParen) {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			more, err := p.eatSymbol(lexer.SymComma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
	}
	if _, err := p.expectSymbol(lexer.SymRParen); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Base: ast.Base{Location: loc}, Callee: callee, Args: args}, nil
}

func (p *Parser) parseIndex(operand ast.Expr) (ast.Expr, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	idx, err := p.parseOrOr()
	if err != nil {
		return nil, err
	}
	ie := &ast.IndexExpr{Base: ast.Base{Location: loc}, Operand: operand, Index: idx}
	if p.isSymbol(lexer.SymRange) || p.isSymbol(lexer.SymRangeIncl) {
		ie.InclusiveHigh = p.isSymbol(lexer.SymRangeIncl)
		if err := p.advance(); err != nil {
			return nil, err
		}
		high, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ie.High = high
	}
	if _, err := p.expectSymbol(lexer.SymRBracket); err != nil {
		return nil, err
	}
	return ie, nil
}

func (p *Parser) parseFieldOrTupleIndex(operand ast.Expr) (ast.Expr, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.KindIntegerLiteral {
		idx := 0
		for _, c := range p.tok.IntValue {
			idx = idx*10 + int(c-'0')
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.TupleIndexExpr{Base: ast.Base{Location: loc}, Operand: operand, Index: idx}, nil
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	return &ast.FieldExpr{Base: ast.Base{Location: loc}, Operand: operand, Name: name}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	loc := p.loc()
	switch {
	case p.tok.Kind == lexer.KindIntegerLiteral:
		return p.parseIntegerLiteral(loc)
	case p.tok.Kind == lexer.KindBooleanLiteral:
		v := p.tok.BoolVal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BooleanLiteral{Base: ast.Base{Location: loc}, Value: v}, nil
	case p.tok.Kind == lexer.KindStringLiteral:
		v := p.tok.StrValue
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Base: ast.Base{Location: loc}, Value: v}, nil
	case p.isKeyword(lexer.KwIf):
		return p.parseConditional()
	case p.isKeyword(lexer.KwMatch):
		return p.parseMatch()
	case p.isSymbol(lexer.SymLBrace):
		return p.parseBlock()
	case p.isSymbol(lexer.SymLParen):
		return p.parseTupleExpr(loc)
	case p.isSymbol(lexer.SymLBracket):
		return p.parseArrayExpr(loc)
	case p.tok.Kind == lexer.KindIdentifier:
		return p.parseIdentOrStruct(loc)
	}
	return nil, &Error{Kind: ErrExpected, Location: loc, Want: "an expression", Got: p.describe()}
}

func (p *Parser) parseIntegerLiteral(loc source.Location) (ast.Expr, error) {
	radix := 10
	switch p.tok.IntBase {
	case lexer.Binary:
		radix = 2
	case lexer.Octal:
		radix = 8
	case lexer.Hexadecimal:
		radix = 16
	}
	lit := &ast.IntegerLiteral{
		Base: ast.Base{Location: loc}, Text: p.tok.Text, Value: p.tok.IntValue,
		Radix: radix, IsFloat: p.tok.IsFloat,
	}
	return lit, p.advance()
}

// parseIdentOrStruct parses an identifier, a "::"-path, or (when followed
// directly by '{') a struct literal; disambiguating struct literals from a
// bare identifier used as a condition is the caller's job (see
// parseConditional, which suppresses struct literals in condition position,
// matching the common rule that "if x { .. }" parses x as a condition, not
// the start of a struct literal named x).
func (p *Parser) parseIdentOrStruct(loc source.Location) (ast.Expr, error) {
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	segs, err := p.parsePathTail(name)
	if err != nil {
		return nil, err
	}
	if p.isSymbol(lexer.SymLBrace) && p.allowStructLiteral {
		return p.parseStructExprTail(loc, segs)
	}
	if len(segs) == 1 {
		return &ast.Identifier{Base: ast.Base{Location: loc}, Name: segs[0]}, nil
	}
	return &ast.Path{Base: ast.Base{Location: loc}, Segments: segs}, nil
}

func (p *Parser) parseStructExprTail(loc source.Location, path []string) (ast.Expr, error) {
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	se := &ast.StructExpr{Base: ast.Base{Location: loc}, Path: path}
	for !p.isSymbol(lexer.SymRBrace) {
		name, _, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		var value ast.Expr
		if ok, err := p.eatSymbol(lexer.SymColon); err != nil {
			return nil, err
		} else if ok {
			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		} else {
			value = &ast.Identifier{Base: ast.Base{Location: loc}, Name: name}
		}
		se.Fields = append(se.Fields, ast.StructExprField{Name: name, Value: value})
		more, err := p.eatSymbol(lexer.SymComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return se, nil
}

func (p *Parser) parseTupleExpr(loc source.Location) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymRParen); err != nil {
		return nil, err
	} else if ok {
		return &ast.TupleExpr{Base: ast.Base{Location: loc}}, nil
	}
	saved := p.allowStructLiteral
	p.allowStructLiteral = true
	defer func() { p.allowStructLiteral = saved }()

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	elems := []ast.Expr{first}
	isTuple := false
	for {
		more, err := p.eatSymbol(lexer.SymComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		isTuple = true
		if p.isSymbol(lexer.SymRParen) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expectSymbol(lexer.SymRParen); err != nil {
		return nil, err
	}
	if !isTuple {
		return first, nil // parenthesized expression, not a 1-tuple
	}
	return &ast.TupleExpr{Base: ast.Base{Location: loc}, Elements: elems}, nil
}

func (p *Parser) parseArrayExpr(loc source.Location) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymRBracket); err != nil {
		return nil, err
	} else if ok {
		return &ast.ArrayExpr{Base: ast.Base{Location: loc}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	} else if ok {
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol(lexer.SymRBracket); err != nil {
			return nil, err
		}
		return &ast.ArrayExpr{Base: ast.Base{Location: loc}, Elements: []ast.Expr{first}, Repeat: n}, nil
	}
	elems := []ast.Expr{first}
	for {
		more, err := p.eatSymbol(lexer.SymComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if p.isSymbol(lexer.SymRBracket) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expectSymbol(lexer.SymRBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayExpr{Base: ast.Base{Location: loc}, Elements: elems}, nil
}

func (p *Parser) parseConditional() (ast.Expr, error) {
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
	then, err := p.parseBlockRaw()
	if err != nil {
		return nil, err
	}
	ce := &ast.ConditionalExpr{Base: ast.Base{Location: loc}, Condition: cond, Then: then}
	if ok, err := p.eatKeyword(lexer.KwElse); err != nil {
		return nil, err
	} else if ok {
		if p.isKeyword(lexer.KwIf) {
			elseExpr, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			ce.Else = elseExpr
		} else {
			elseBlock, err := p.parseBlockRaw()
			if err != nil {
				return nil, err
			}
			ce.Else = elseBlock
		}
	}
	return ce, nil
}

func (p *Parser) parseMatch() (ast.Expr, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	saved := p.allowStructLiteral
	p.allowStructLiteral = false
	scrutinee, err := p.parseExpr()
	p.allowStructLiteral = saved
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	me := &ast.MatchExpr{Base: ast.Base{Location: loc}, Scrutinee: scrutinee}
	for !p.isSymbol(lexer.SymRBrace) {
		var pat ast.Expr
		if ok, err := p.eatSymbol(lexer.SymUnderscore); err != nil {
			return nil, err
		} else if ok {
			pat = &ast.Identifier{Base: ast.Base{Location: p.loc()}, Name: "_"}
		} else {
			pat, err = p.parseOrOr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expectSymbol(lexer.SymFatArrow); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		me.Arms = append(me.Arms, ast.MatchArm{Pattern: pat, Body: body})
		more, err := p.eatSymbol(lexer.SymComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return me, nil
}

// parseBlock parses a block used in expression position.
func (p *Parser) parseBlock() (ast.Expr, error) { return p.parseBlockRaw() }

func (p *Parser) parseBlockRaw() (*ast.BlockExpr, error) {
	loc := p.loc()
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	blk := &ast.BlockExpr{Base: ast.Base{Location: loc}}
	for !p.isSymbol(lexer.SymRBrace) {
		stmt, trailing, err := p.parseBlockElement()
		if err != nil {
			return nil, err
		}
		if trailing != nil {
			blk.Trailing = trailing
			break
		}
		blk.Statements = append(blk.Statements, stmt)
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return blk, nil
}
