package syntax

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// parseType parses a TypeExpr per spec.md §3.3's type grammar.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	loc := p.loc()
	switch {
	case p.isSymbol(lexer.SymLParen):
		return p.parseTupleOrUnitType(loc)
	case p.isSymbol(lexer.SymLBracket):
		return p.parseArrayType(loc)
	case p.isKeyword(lexer.KwFn):
		return p.parseFunctionType(loc)
	case p.tok.Kind == lexer.KindIdentifier || p.tok.Kind == lexer.KindKeyword:
		return p.parseNamedType(loc)
	}
	return nil, &Error{Kind: ErrExpectedType, Location: loc, Got: p.describe()}
}

func (p *Parser) parseTupleOrUnitType(loc source.Location) (ast.TypeExpr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymRParen); err != nil {
		return nil, err
	} else if ok {
		return &ast.UnitType{Base: ast.Base{Location: loc}}, nil
	}
	var elems []ast.TypeExpr
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		more, err := p.eatSymbol(lexer.SymComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if p.isSymbol(lexer.SymRParen) {
			break
		}
	}
	if _, err := p.expectSymbol(lexer.SymRParen); err != nil {
		return nil, err
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &ast.TupleType{Base: ast.Base{Location: loc}, Elements: elems}, nil
}

func (p *Parser) parseArrayType(loc source.Location) (ast.TypeExpr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	}
	size, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymRBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayType{Base: ast.Base{Location: loc}, Element: elem, Size: size}, nil
}

func (p *Parser) parseFunctionType(loc source.Location) (ast.TypeExpr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLParen); err != nil {
		return nil, err
	}
	var params []ast.TypeExpr
	if !p.isSymbol(lexer.SymRParen) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
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
	var ret ast.TypeExpr
	if ok, err := p.eatSymbol(lexer.SymArrow); err != nil {
		return nil, err
	} else if ok {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	return &ast.FunctionType{Base: ast.Base{Location: loc}, Params: params, Returns: ret}, nil
}

func (p *Parser) parseNamedType(loc source.Location) (ast.TypeExpr, error) {
	name, _, err := p.parseTypeWord()
	if err != nil {
		return nil, err
	}
	segs, err := p.parsePathTail(name)
	if err != nil {
		return nil, err
	}
	nt := &ast.NamedType{Base: ast.Base{Location: loc}, Path: segs}
	if ok, err := p.eatSymbol(lexer.SymLt); err != nil {
		return nil, err
	} else if ok {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			nt.Args = append(nt.Args, arg)
			more, err := p.eatSymbol(lexer.SymComma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
		if _, err := p.expectSymbol(lexer.SymGt); err != nil {
			return nil, err
		}
	}
	return nt, nil
}

// parseTypeWord consumes one identifier-shaped path segment that names a
// type: a plain identifier, or the reserved words bool/field/u{N}/i{N}
// which double as both keywords and type names.
func (p *Parser) parseTypeWord() (string, bool, error) {
	switch p.tok.Kind {
	case lexer.KindIdentifier:
		name := p.tok.Text
		return name, false, p.advance()
	case lexer.KindKeyword:
		switch p.tok.Keyword {
		case lexer.KwField, lexer.KwInteger:
			name := p.tok.Text
			return name, false, p.advance()
		}
	}
	return "", false, &Error{Kind: ErrExpectedType, Location: p.loc(), Got: p.describe()}
}

// parsePattern parses a Pattern: identifier (optionally "mut"), "_", or a
// tuple pattern.
func (p *Parser) parsePattern() (ast.Pattern, error) {
	loc := p.loc()
	if ok, err := p.eatSymbol(lexer.SymUnderscore); err != nil {
		return nil, err
	} else if ok {
		return &ast.WildcardPattern{Base: ast.Base{Location: loc}}, nil
	}
	if p.isSymbol(lexer.SymLParen) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Pattern
		for !p.isSymbol(lexer.SymRParen) {
			el, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			more, err := p.eatSymbol(lexer.SymComma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
		if _, err := p.expectSymbol(lexer.SymRParen); err != nil {
			return nil, err
		}
		return &ast.TuplePattern{Base: ast.Base{Location: loc}, Elements: elems}, nil
	}
	mutable, err := p.eatKeyword(lexer.KwMut)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.KindIdentifier {
		return nil, &Error{Kind: ErrExpectedBindingPattern, Location: loc, Got: p.describe()}
	}
	name := p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.IdentPattern{Base: ast.Base{Location: loc}, Name: name, Mutable: mutable}, nil
}
