package lexer

import (
	"fmt"

	"github.com/matter-labs/zinc-sub006/source"
)

// Kind tags the variant of a Lexeme, per spec.md §3.2.
type Kind int

const (
	KindEOF Kind = iota
	KindIdentifier
	KindKeyword
	KindIntegerLiteral
	KindBooleanLiteral
	KindStringLiteral
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindIdentifier:
		return "identifier"
	case KindKeyword:
		return "keyword"
	case KindIntegerLiteral:
		return "integer literal"
	case KindBooleanLiteral:
		return "boolean literal"
	case KindStringLiteral:
		return "string literal"
	case KindSymbol:
		return "symbol"
	}
	return "unknown"
}

// IntegerBase records which literal form an integer token was written in,
// so the parser/analyser can render it back faithfully in diagnostics.
type IntegerBase int

const (
	Decimal IntegerBase = iota
	Binary
	Octal
	Hexadecimal
)

// Token is a single lexeme together with its source location, per
// spec.md §3.2.
type Token struct {
	Kind     Kind
	Text     string // the literal source text of the lexeme
	Keyword  Keyword
	Symbol   Symbol
	IntValue string // digits in IntBase's radix, '_' removed, hex lower-cased; integer literals only
	IntBase  IntegerBase
	IsFloat  bool // literal had a '.' fraction or exponent

	// Set when Kind == KindKeyword && Keyword == KwInteger: the bit-length
	// and signedness of the u{N}/i{N} type keyword.
	TypeSigned bool
	TypeBits   int
	BoolVal  bool
	StrValue string // unescaped body, string literals only
	Location source.Location
}

func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return "<eof>"
	case KindKeyword:
		return fmt.Sprintf("keyword %q", t.Text)
	case KindSymbol:
		return fmt.Sprintf("%q", t.Symbol.String())
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}
