package parser

import (
	"errors"
	"fmt"

	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// ErrUnexpectedEOF is matched by errors.Is for every ParseError raised after
// the token stream ran out.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ParseError is the single failure kind of the parser. Token is the
// offending token, or nil when input ended first.
type ParseError struct {
	Message string
	Token   *lexer.Token
}

func (e *ParseError) Error() string {
	if e.Token == nil {
		return e.Message
	}
	return fmt.Sprintf("line %d, col %d: %s", e.Token.Line, e.Token.Column, e.Message)
}

// Position returns the 1-based line and column of the offending token.
// ok is false for the end-of-input variant.
func (e *ParseError) Position() (line, col int, ok bool) {
	if e.Token == nil {
		return 0, 0, false
	}
	return e.Token.Line, e.Token.Column, true
}

func (e *ParseError) Unwrap() error {
	if e.Token == nil {
		return ErrUnexpectedEOF
	}
	return nil
}

// describe renders a token for messages; nil means end of input
func describe(tok *lexer.Token) string {
	if tok == nil {
		return "end of input"
	}
	switch tok.Type {
	case lexer.TokenIdent, lexer.TokenInt, lexer.TokenFloat, lexer.TokenUnknown:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case lexer.TokenString, lexer.TokenChar:
		return tok.Type.String()
	}
	return fmt.Sprintf("'%s'", tok.Type)
}
