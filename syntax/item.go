package syntax

import (
	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// parseItem parses one top-level or module-level item, per spec.md §3.3's
// item grammar, including an optional leading "pub" visibility modifier and
// "#[attr]" attribute list (currently only #[test] is meaningful).
func (p *Parser) parseItem() (ast.Item, error) {
	isTest, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	public, err := p.eatKeyword(lexer.KwPub)
	if err != nil {
		return nil, err
	}
	switch {
	case p.isKeyword(lexer.KwFn):
		return p.parseFnItem(public, isTest)
	case p.isKeyword(lexer.KwType):
		return p.parseTypeAliasItem()
	case p.isKeyword(lexer.KwStruct):
		return p.parseStructItem()
	case p.isKeyword(lexer.KwEnum):
		return p.parseEnumItem()
	case p.isKeyword(lexer.KwImpl):
		return p.parseImplItem()
	case p.isKeyword(lexer.KwMod):
		return p.parseModItem()
	case p.isKeyword(lexer.KwUse):
		return p.parseUseItem()
	case p.isKeyword(lexer.KwConst):
		return p.parseConstOrFnItem(public, isTest)
	case p.isKeyword(lexer.KwContract):
		return p.parseContractItem()
	}
	return nil, &Error{Kind: ErrExpected, Location: p.loc(), Want: "an item (fn/type/struct/enum/impl/mod/use/const/contract)", Got: p.describe()}
}

// parseAttributes consumes zero or more "#[name]" attributes preceding an
// item and reports whether #[test] was among them.
func (p *Parser) parseAttributes() (isTest bool, err error) {
	for p.isSymbol(lexer.SymHash) {
		if err := p.advance(); err != nil {
			return false, err
		}
		if _, err := p.expectSymbol(lexer.SymLBracket); err != nil {
			return false, err
		}
		name, _, err := p.expectIdentifier()
		if err != nil {
			return false, err
		}
		if name == "test" {
			isTest = true
		}
		for p.isSymbol(lexer.SymDoubleColon) {
			if err := p.advance(); err != nil {
				return false, err
			}
			if _, _, err := p.expectIdentifier(); err != nil {
				return false, err
			}
		}
		if _, err := p.expectSymbol(lexer.SymRBracket); err != nil {
			return false, err
		}
	}
	return isTest, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expectSymbol(lexer.SymLParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.isSymbol(lexer.SymRParen) {
		name, _, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		// "self", the implicit contract-storage receiver, carries no type
		// annotation: its type is the enclosing contract, known only once
		// the analyser resolves which contract owns this method.
		if name == "self" && !p.isSymbol(lexer.SymColon) {
			params = append(params, ast.Param{Name: name, Type: nil})
			more, err := p.eatSymbol(lexer.SymComma)
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			continue
		}
		if _, err := p.expectSymbol(lexer.SymColon); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: name, Type: typ})
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
	return params, nil
}

func (p *Parser) parseFnItem(public, isTest bool) (*ast.FnItem, error) {
	return p.parseFnItemConst(public, isTest, false, p.loc())
}

// parseFnItemConst parses a function item, assuming a leading "const" (if
// present) was already consumed by the caller to disambiguate it from a
// "const NAME: T = ..." declaration; loc is the item's reported location
// (the "const" keyword's location when isConst is set, so diagnostics like
// ErrEntryPointConstant point at the modifier, not at "fn").
func (p *Parser) parseFnItemConst(public, isTest, isConst bool, loc source.Location) (*ast.FnItem, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
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
	body, err := p.parseBlockRaw()
	if err != nil {
		return nil, err
	}
	return &ast.FnItem{
		Base: ast.Base{Location: loc}, Name: name, Public: public, IsTest: isTest, IsConst: isConst,
		Params: params, ReturnType: ret, Body: body,
	}, nil
}

func (p *Parser) parseTypeAliasItem() (*ast.TypeAliasItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymAssign); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	}
	return &ast.TypeAliasItem{Base: ast.Base{Location: loc}, Name: name, Type: typ}, nil
}

func (p *Parser) parseStructItem() (*ast.StructItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	var fields []ast.Param
	for !p.isSymbol(lexer.SymRBrace) {
		fname, _, err := p.expectIdentifier()
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
		fields = append(fields, ast.Param{Name: fname, Type: typ})
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
	return &ast.StructItem{Base: ast.Base{Location: loc}, Name: name, Fields: fields}, nil
}

func (p *Parser) parseEnumItem() (*ast.EnumItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	var variants []ast.EnumVariant
	for !p.isSymbol(lexer.SymRBrace) {
		vname, _, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		var value ast.Expr
		if ok, err := p.eatSymbol(lexer.SymAssign); err != nil {
			return nil, err
		} else if ok {
			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		variants = append(variants, ast.EnumVariant{Name: vname, Value: value})
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
	return &ast.EnumItem{Base: ast.Base{Location: loc}, Name: name, Variants: variants}, nil
}

func (p *Parser) parseImplItem() (*ast.ImplItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	impl := &ast.ImplItem{Base: ast.Base{Location: loc}, Type: name}
	for !p.isSymbol(lexer.SymRBrace) {
		isTest, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		public, err := p.eatKeyword(lexer.KwPub)
		if err != nil {
			return nil, err
		}
		if !p.isKeyword(lexer.KwFn) {
			return nil, &Error{Kind: ErrExpected, Location: p.loc(), Want: "fn", Got: p.describe()}
		}
		fn, err := p.parseFnItem(public, isTest)
		if err != nil {
			return nil, err
		}
		impl.Funcs = append(impl.Funcs, fn)
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return impl, nil
}

func (p *Parser) parseModItem() (*ast.ModItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if ok, err := p.eatSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	} else if ok {
		return &ast.ModItem{Base: ast.Base{Location: loc}, Name: name}, nil
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	mod := &ast.ModItem{Base: ast.Base{Location: loc}, Name: name, Items: []ast.Item{}}
	for !p.isSymbol(lexer.SymRBrace) {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		mod.Items = append(mod.Items, item)
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return mod, nil
}

func (p *Parser) parseUseItem() (*ast.UseItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	first, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	segs, err := p.parsePathTail(first)
	if err != nil {
		return nil, err
	}
	alias := ""
	if ok, err := p.eatKeyword(lexer.KwAs); err != nil {
		return nil, err
	} else if ok {
		alias, _, err = p.expectIdentifier()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectSymbol(lexer.SymSemicolon); err != nil {
		return nil, err
	}
	return &ast.UseItem{Base: ast.Base{Location: loc}, Path: segs, Alias: alias}, nil
}

// parseConstOrFnItem parses whichever of "const NAME: T = value;" or
// "const fn name(...)" follows a leading "const" keyword, disambiguating by
// looking one token past it; ast.Item is one of *ast.ConstItem or
// *ast.FnItem.
func (p *Parser) parseConstOrFnItem(public, isTest bool) (ast.Item, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isKeyword(lexer.KwFn) {
		return p.parseFnItemConst(public, isTest, true, loc)
	}
	s, err := p.parseConstStmtTail(loc)
	if err != nil {
		return nil, err
	}
	return &ast.ConstItem{Base: s.Base, Name: s.Name, Type: s.Type, Value: s.Value}, nil
}

func (p *Parser) parseContractItem() (*ast.ContractItem, error) {
	loc := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, _, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(lexer.SymLBrace); err != nil {
		return nil, err
	}
	item := &ast.ContractItem{Base: ast.Base{Location: loc}, Name: name}
	for !p.isSymbol(lexer.SymRBrace) {
		isTest, err := p.parseAttributes()
		if err != nil {
			return nil, err
		}
		public, err := p.eatKeyword(lexer.KwPub)
		if err != nil {
			return nil, err
		}
		switch {
		case p.isKeyword(lexer.KwFn):
			fn, err := p.parseFnItem(public, isTest)
			if err != nil {
				return nil, err
			}
			item.Funcs = append(item.Funcs, fn)
		case p.isKeyword(lexer.KwConst):
			it, err := p.parseConstOrFnItem(public, isTest)
			if err != nil {
				return nil, err
			}
			if fn, ok := it.(*ast.FnItem); ok {
				item.Funcs = append(item.Funcs, fn)
			} else {
				item.Consts = append(item.Consts, it.(*ast.ConstItem))
			}
		default:
			fname, _, err := p.expectIdentifier()
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
			item.Fields = append(item.Fields, ast.ContractField{Name: fname, Type: typ})
			if _, err := p.eatSymbol(lexer.SymComma); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expectSymbol(lexer.SymRBrace); err != nil {
		return nil, err
	}
	return item, nil
}
