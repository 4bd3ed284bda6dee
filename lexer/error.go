package lexer

import (
	"fmt"

	"github.com/matter-labs/zinc-sub006/source"
)

// ErrorKind tags the taxonomy of lexical errors, per spec.md §4.1.
type ErrorKind int

const (
	ErrUnexpectedEnd ErrorKind = iota
	ErrInvalidCharacter
	ErrInvalidSymbol
	ErrInvalidIntegerLiteral
	ErrInvalidStringLiteral
)

// Error is a located lexical diagnostic. It satisfies the error interface
// and is never recovered from within the lexer: scanning aborts at the
// first Error, per spec.md §7.
type Error struct {
	Kind     ErrorKind
	Location source.Location
	Char     rune // set for ErrInvalidCharacter
	Detail   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpectedEnd:
		return fmt.Sprintf("%s: unexpected end of input", e.Location)
	case ErrInvalidCharacter:
		return fmt.Sprintf("%s: invalid character %q", e.Location, e.Char)
	case ErrInvalidSymbol:
		return fmt.Sprintf("%s: invalid symbol: %s", e.Location, e.Detail)
	case ErrInvalidIntegerLiteral:
		return fmt.Sprintf("%s: invalid integer literal: %s", e.Location, e.Detail)
	case ErrInvalidStringLiteral:
		return fmt.Sprintf("%s: invalid string literal: %s", e.Location, e.Detail)
	}
	return fmt.Sprintf("%s: lexical error", e.Location)
}
