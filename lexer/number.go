package lexer

import (
	"strings"

	"github.com/matter-labs/zinc-sub006/source"
)

// scanNumber scans an integer literal: binary (0b), octal (0o), decimal
// (with optional ".fraction" and "E"-exponent), or hexadecimal (0x), with
// '_' allowed between digits as an ignored separator, per spec.md §3.2.
func (l *Lexer) scanNumber(loc source.Location) (Token, error) {
	start := l.pos
	base := Decimal
	isDigit := isDecDigit

	if l.at(0) == '0' && (l.at(1) == 'b' || l.at(1) == 'B') {
		base = Binary
		isDigit = isBinDigit
		l.advance(2)
	} else if l.at(0) == '0' && (l.at(1) == 'o' || l.at(1) == 'O') {
		base = Octal
		isDigit = isOctDigit
		l.advance(2)
	} else if l.at(0) == '0' && (l.at(1) == 'x' || l.at(1) == 'X') {
		base = Hexadecimal
		isDigit = isHexDigit
		l.advance(2)
	}

	bodyStart := l.pos
	var digits strings.Builder
	sawDigit := false
	for {
		c := l.at(0)
		if isDigit(c) {
			digits.WriteByte(lowerByte(c))
			sawDigit = true
			l.advance(1)
			continue
		}
		if c == '_' {
			l.advance(1)
			continue
		}
		break
	}
	if !sawDigit {
		return Token{}, &Error{Kind: ErrInvalidIntegerLiteral, Location: loc, Detail: "empty digit sequence"}
	}

	isFloat := false
	if base == Decimal {
		if l.at(0) == '.' && isDecDigit(l.at(1)) {
			isFloat = true
			digits.WriteByte('.')
			l.advance(1)
			for isDecDigit(l.at(0)) || l.at(0) == '_' {
				if l.at(0) != '_' {
					digits.WriteByte(l.at(0))
				}
				l.advance(1)
			}
		}
		if l.at(0) == 'e' || l.at(0) == 'E' {
			isFloat = true
			digits.WriteByte('e')
			l.advance(1)
			if l.at(0) == '+' || l.at(0) == '-' {
				digits.WriteByte(l.at(0))
				l.advance(1)
			}
			if !isDecDigit(l.at(0)) {
				return Token{}, &Error{Kind: ErrInvalidIntegerLiteral, Location: loc, Detail: "malformed exponent"}
			}
			for isDecDigit(l.at(0)) || l.at(0) == '_' {
				if l.at(0) != '_' {
					digits.WriteByte(l.at(0))
				}
				l.advance(1)
			}
		}
	}
	_ = bodyStart
	text := l.src[start:l.pos]
	return Token{
		Kind:     KindIntegerLiteral,
		Text:     text,
		IntValue: digits.String(),
		IntBase:  base,
		IsFloat:  isFloat,
		Location: loc,
	}, nil
}

func isDecDigit(c byte) bool { return c >= '0' && c <= '9' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isHexDigit(c byte) bool {
	return isDecDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'F' {
		return c - 'A' + 'a'
	}
	return c
}
