package syntax

import (
	"fmt"

	"github.com/matter-labs/zinc-sub006/lexer"
	"github.com/matter-labs/zinc-sub006/source"
)

// ErrorKind tags the taxonomy of syntax errors, per spec.md §4.2.
type ErrorKind int

const (
	ErrUnexpectedEnd ErrorKind = iota
	ErrExpected
	ErrExpectedIdentifier
	ErrExpectedType
	ErrExpectedIntegerLiteral
	ErrExpectedBindingPattern
)

// Error is a located syntax diagnostic. The parser aborts at the first one,
// per spec.md §7 (no error recovery within a single module).
type Error struct {
	Kind     ErrorKind
	Location source.Location
	Want     string
	Got      string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpectedEnd:
		return fmt.Sprintf("%s: unexpected end of input", e.Location)
	case ErrExpected:
		return fmt.Sprintf("%s: expected %s, found %s", e.Location, e.Want, e.Got)
	case ErrExpectedIdentifier:
		return fmt.Sprintf("%s: expected identifier, found %s", e.Location, e.Got)
	case ErrExpectedType:
		return fmt.Sprintf("%s: expected type, found %s", e.Location, e.Got)
	case ErrExpectedIntegerLiteral:
		return fmt.Sprintf("%s: expected integer literal, found %s", e.Location, e.Got)
	case ErrExpectedBindingPattern:
		return fmt.Sprintf("%s: expected a binding pattern, found %s", e.Location, e.Got)
	}
	return fmt.Sprintf("%s: syntax error", e.Location)
}

// wrapLexError lifts an underlying lexer error (if any) into a *Error so callers only
// ever handle one error type once parsing has started.
func wrapLexError(err error) error {
	if err == nil {
		return nil
	}
	if le, ok := err.(*lexer.Error); ok {
		return &Error{Kind: ErrUnexpectedEnd, Location: le.Location, Got: le.Error()}
	}
	return err
}
