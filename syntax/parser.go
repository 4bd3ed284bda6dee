// Package syntax implements the recursive-descent parser of spec.md §4.2:
// it consumes a lexer.Lexer's token stream and builds an ast.Module. The
// control structure — one method per grammar production, a single-token
// look-ahead cursor, error-as-return-value with no recovery — follows the
// teacher's assembler (db47h/ngaro asm/parser.go), generalized from a
// flat instruction grammar to the full expression/statement/item grammar
// of spec.md §3.3, with expression precedence handled by precedence
// climbing (Hassandahiru-Compiler-in-Go/internal/parser and
// hhramberg-go-vslc both structure their expression grammars this way).
package syntax

import (
	"strconv"

	"github.com/matter-labs/zinc-sub006/ast"
	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// Parser holds the cursor over one file's token stream.
type Parser struct {
	lex  *lexer.Lexer
	file source.ID

	tok Token
	err error

	// allowStructLiteral suppresses struct-literal parsing in condition
	// position ("if x { .. }", "match x { .. }"), where a brace must open
	// the body, not a struct literal. It starts true, is toggled off around
	// if/while conditions, match scrutinees and for-loop ranges, and is
	// turned back on inside parentheses.
	allowStructLiteral bool
}

// Token mirrors lexer.Token for parser-internal use; kept distinct so the
// parser can carry an EOF sentinel cleanly.
type Token = lexer.Token

// Parse parses the full contents of one source file into an ast.Module.
func Parse(file source.ID, src string) (*ast.Module, error) {
	p := &Parser{lex: lexer.New(file, src), file: file, allowStructLiteral: true}
	if err := p.advance(); err != nil {
		return nil, err
	}
	mod := &ast.Module{File: file}
	mod.Location = p.tok.Location
	for p.tok.Kind != lexer.KindEOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		mod.Items = append(mod.Items, item)
	}
	return mod, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return wrapLexError(err)
	}
	p.tok = tok
	return nil
}

func (p *Parser) loc() source.Location { return p.tok.Location }

func (p *Parser) atEOF() bool { return p.tok.Kind == lexer.KindEOF }

func (p *Parser) describe() string {
	if p.atEOF() {
		return "end of input"
	}
	return p.tok.String()
}

func (p *Parser) isSymbol(s lexer.Symbol) bool {
	return p.tok.Kind == lexer.KindSymbol && p.tok.Symbol == s
}

func (p *Parser) isKeyword(k lexer.Keyword) bool {
	return p.tok.Kind == lexer.KindKeyword && p.tok.Keyword == k
}

func (p *Parser) expectSymbol(s lexer.Symbol) (source.Location, error) {
	if !p.isSymbol(s) {
		return source.Location{}, &Error{Kind: ErrExpected, Location: p.loc(), Want: strconv.Quote(s.String()), Got: p.describe()}
	}
	loc := p.loc()
	return loc, p.advance()
}

func (p *Parser) expectKeyword(k lexer.Keyword) (source.Location, error) {
	if !p.isKeyword(k) {
		return source.Location{}, &Error{Kind: ErrExpected, Location: p.loc(), Want: strconv.Quote(k.String()), Got: p.describe()}
	}
	loc := p.loc()
	return loc, p.advance()
}

func (p *Parser) eatSymbol(s lexer.Symbol) (bool, error) {
	if !p.isSymbol(s) {
		return false, nil
	}
	return true, p.advance()
}

func (p *Parser) eatKeyword(k lexer.Keyword) (bool, error) {
	if !p.isKeyword(k) {
		return false, nil
	}
	return true, p.advance()
}

func (p *Parser) expectIdentifier() (string, source.Location, error) {
	if p.tok.Kind != lexer.KindIdentifier {
		return "", source.Location{}, &Error{Kind: ErrExpectedIdentifier, Location: p.loc(), Got: p.describe()}
	}
	name, loc := p.tok.Text, p.loc()
	return name, loc, p.advance()
}

// parsePathTail parses the rest of a "::"-separated path whose first
// segment, first, the caller has already consumed.
func (p *Parser) parsePathTail(first string) ([]string, error) {
	segs := []string{first}
	for p.isSymbol(lexer.SymDoubleColon) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, _, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		segs = append(segs, name)
	}
	return segs, nil
}
