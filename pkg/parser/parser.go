// Package parser implements a recursive descent parser for a C subset.
//
// A Parser owns a cursor over an immutable token slice. Every grammar rule
// returns its node or a *ParseError; the first error aborts the parse.
package parser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// Parser parses a token stream into a cabs AST
type Parser struct {
	tokens []lexer.Token
	pos    int
	legacy bool
	inArgs bool // inside a call argument list
	log    *zap.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger routes parser debug events (skipped directives, skipped
// unknown tokens, sizeof fallbacks) to l.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithLegacyPrecedence makes bitwise-and bind relational operands directly,
// which leaves == and != without a production.
func WithLegacyPrecedence(on bool) Option {
	return func(p *Parser) {
		p.legacy = on
	}
}

// New creates a Parser over tokens. The slice is not modified.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource tokenizes src and parses it
func ParseSource(src string, opts ...Option) (*cabs.Program, error) {
	return New(lexer.Tokenize(src), opts...).Parse()
}

// cur returns the current token, or nil once input has ended. A TokenEOF
// token counts as the end.
func (p *Parser) cur() *lexer.Token {
	return p.peek(0)
}

// peek looks offset tokens ahead without moving the cursor
func (p *Parser) peek(offset int) *lexer.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) || p.tokens[i].Type == lexer.TokenEOF {
		return nil
	}
	return &p.tokens[i]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) atEnd() bool {
	return p.cur() == nil
}

func (p *Parser) curIs(t lexer.TokenType) bool {
	tok := p.cur()
	return tok != nil && tok.Type == t
}

// errorAt builds a ParseError for tok, which may be nil at end of input
func errorAt(tok *lexer.Token, format string, args ...any) *ParseError {
	e := &ParseError{Message: fmt.Sprintf(format, args...)}
	if tok != nil {
		t := *tok
		e.Token = &t
	}
	return e
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return errorAt(p.cur(), format, args...)
}

// expect consumes the current token if it has type t
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	tok := p.cur()
	if tok == nil || tok.Type != t {
		return lexer.Token{}, p.errorf("expected '%s', got %s", t, describe(tok))
	}
	p.advance()
	return *tok, nil
}

// expectValue consumes the current token if it has type t and exactly the
// given spelling
func (p *Parser) expectValue(t lexer.TokenType, lit string) (lexer.Token, error) {
	tok := p.cur()
	if tok == nil || tok.Type != t || tok.Literal != lit {
		return lexer.Token{}, p.errorf("expected %q, got %s", lit, describe(tok))
	}
	p.advance()
	return *tok, nil
}

// Parse parses the whole token stream into a Program
func (p *Parser) Parse() (*cabs.Program, error) {
	prog := &cabs.Program{Definitions: []cabs.Definition{}}

	for !p.atEnd() {
		tok := p.cur()
		switch {
		case tok.Type == lexer.TokenHash:
			p.skipDirective()
		case tok.Type.IsBaseType():
			def, err := p.parseExternalDeclaration()
			if err != nil {
				return nil, err
			}
			prog.Definitions = append(prog.Definitions, def)
		case tok.Type == lexer.TokenUnknown:
			p.log.Debug("skipping unknown token",
				zap.String("literal", tok.Literal),
				zap.Int("line", tok.Line),
				zap.Int("col", tok.Column))
			p.advance()
		case tok.Type == lexer.TokenSemicolon:
			p.advance()
		default:
			return nil, p.errorf("unexpected token %s at top level", describe(tok))
		}
	}

	return prog, nil
}

// skipDirective steps over a preprocessor line. Nothing is interpreted:
// after the optional directive name and include target every token up to
// the next base type keyword is dropped.
func (p *Parser) skipDirective() {
	start := p.cur()
	p.advance() // consume '#'

	name := ""
	if p.curIs(lexer.TokenIdent) {
		name = p.cur().Literal
		p.advance()
	}

	switch {
	case p.curIs(lexer.TokenLt):
		for !p.atEnd() && !p.curIs(lexer.TokenGt) && !p.curIs(lexer.TokenSemicolon) {
			p.advance()
		}
		if p.curIs(lexer.TokenGt) {
			p.advance()
		}
	case p.curIs(lexer.TokenString):
		p.advance()
	}

	skipped := 0
	for !p.atEnd() && !p.cur().Type.IsBaseType() {
		p.advance()
		skipped++
	}

	p.log.Debug("skipped directive",
		zap.String("name", name),
		zap.Int("line", start.Line),
		zap.Int("trailing_tokens", skipped))
}
