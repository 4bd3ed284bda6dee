package lexer_test

import (
	"testing"

	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

func scanAll(t *testing.T, src string) []lexer.Token {
	t.Helper()
	reg := source.NewRegistry()
	id := reg.Add("test.zn", src)
	l := lexer.New(id, src)
	var toks []lexer.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == lexer.KindEOF {
			break
		}
	}
	return toks
}

func TestLexer_identifiersAndKeywords(t *testing.T) {
	toks := scanAll(t, "let mut x u8 i248 field foo_bar")
	want := []lexer.Kind{
		lexer.KindKeyword, lexer.KindKeyword, lexer.KindIdentifier,
		lexer.KindKeyword, lexer.KindKeyword, lexer.KindKeyword,
		lexer.KindIdentifier, lexer.KindEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s (%q)", i, toks[i].Kind, k, toks[i].Text)
		}
	}
	if toks[3].TypeBits != 8 || toks[3].TypeSigned {
		t.Errorf("u8: got bits=%d signed=%v", toks[3].TypeBits, toks[3].TypeSigned)
	}
	if toks[4].TypeBits != 248 || !toks[4].TypeSigned {
		t.Errorf("i248: got bits=%d signed=%v", toks[4].TypeBits, toks[4].TypeSigned)
	}
}

func TestLexer_integerLiterals(t *testing.T) {
	cases := []struct {
		src  string
		base lexer.IntegerBase
		val  string
	}{
		{"0b1010_1010", lexer.Binary, "10101010"},
		{"0o17", lexer.Octal, "17"},
		{"0xFF_ff", lexer.Hexadecimal, "ffff"},
		{"1_000", lexer.Decimal, "1000"},
		{"1.5", lexer.Decimal, "1.5"},
		{"1e10", lexer.Decimal, "1e10"},
	}
	for _, c := range cases {
		toks := scanAll(t, c.src)
		if toks[0].Kind != lexer.KindIntegerLiteral {
			t.Fatalf("%s: got kind %s", c.src, toks[0].Kind)
		}
		if toks[0].IntBase != c.base {
			t.Errorf("%s: got base %v, want %v", c.src, toks[0].IntBase, c.base)
		}
		if toks[0].IntValue != c.val {
			t.Errorf("%s: got value %q, want %q", c.src, toks[0].IntValue, c.val)
		}
	}
}

func TestLexer_symbolsMaximalMunch(t *testing.T) {
	toks := scanAll(t, ".. ..= -> => :: <<= >>")
	want := []lexer.Symbol{
		lexer.SymRange, lexer.SymRangeIncl, lexer.SymArrow, lexer.SymFatArrow,
		lexer.SymDoubleColon, lexer.SymShlEq, lexer.SymShr,
	}
	for i, sym := range want {
		if toks[i].Symbol != sym {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Symbol, sym)
		}
	}
}

func TestLexer_comments(t *testing.T) {
	toks := scanAll(t, "let // comment\nx /* block\ncomment */ = 1;")
	var kinds []lexer.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []lexer.Kind{
		lexer.KindKeyword, lexer.KindIdentifier, lexer.KindSymbol,
		lexer.KindIntegerLiteral, lexer.KindSymbol, lexer.KindEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %+v, want %d", len(kinds), toks, len(want))
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], k)
		}
	}
}

func TestLexer_tokenFidelity(t *testing.T) {
	// Token fidelity property from spec.md §8: concatenating token spans
	// reproduces the non-whitespace, non-comment bytes, approximated here by
	// checking that re-joining token Text fields with no separator yields
	// the same bytes as the input with whitespace stripped, for a
	// whitespace-only-separated source.
	src := "let x = 1 + 2 ;"
	toks := scanAll(t, src)
	var got string
	for _, tok := range toks {
		if tok.Kind == lexer.KindEOF {
			continue
		}
		got += tok.Text
	}
	want := "letx=1+2;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLexer_stringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello\nworld"`)
	if toks[0].Kind != lexer.KindStringLiteral {
		t.Fatalf("got kind %s", toks[0].Kind)
	}
	if toks[0].StrValue != "hello\nworld" {
		t.Errorf("got %q", toks[0].StrValue)
	}
}

func TestLexer_invalidCharacter(t *testing.T) {
	reg := source.NewRegistry()
	src := "let x = @;"
	id := reg.Add("t.zn", src)
	l := lexer.New(id, src)
	var err error
	for err == nil {
		_, err = l.Next()
	}
	lexErr, ok := err.(*lexer.Error)
	if !ok {
		t.Fatalf("got %T", err)
	}
	if lexErr.Kind != lexer.ErrInvalidCharacter {
		t.Errorf("got kind %v", lexErr.Kind)
	}
}
