package parser

import (
	"strings"

	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// parseExternalDeclaration decides between a function and a global variable
// by looking past the type specifier: IDENT '(' starts a function.
func (p *Parser) parseExternalDeclaration() (cabs.Definition, error) {
	i := 1
	for {
		t := p.peek(i)
		if t == nil || !(t.Type.IsQualifier() || t.Type == lexer.TokenStar) {
			break
		}
		i++
	}

	name := p.peek(i)
	if name == nil || name.Type != lexer.TokenIdent {
		return nil, errorAt(name, "expected identifier after type, got %s", describe(name))
	}

	if next := p.peek(i + 1); next != nil && next.Type == lexer.TokenLParen {
		return p.parseFunctionDecl()
	}
	return p.parseVarDecl()
}

// parseTypeSpecifier reads a base type, then qualifiers (each placed in
// front of what was read so far), then pointer stars.
func (p *Parser) parseTypeSpecifier() (string, error) {
	tok := p.cur()
	if tok == nil || !tok.Type.IsBaseType() {
		return "", p.errorf("expected type specifier, got %s", describe(tok))
	}
	parts := []string{tok.Literal}
	p.advance()

	for tok = p.cur(); tok != nil && tok.Type.IsQualifier(); tok = p.cur() {
		parts = append([]string{tok.Literal}, parts...)
		p.advance()
	}

	for p.curIs(lexer.TokenStar) {
		parts = append(parts, "*")
		p.advance()
	}

	return strings.Join(parts, " "), nil
}

func (p *Parser) parseFunctionDecl() (cabs.FunctionDecl, error) {
	retType, err := p.parseTypeSpecifier()
	if err != nil {
		return cabs.FunctionDecl{}, err
	}
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return cabs.FunctionDecl{}, err
	}
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return cabs.FunctionDecl{}, err
	}
	params, err := p.parseParams()
	if err != nil {
		return cabs.FunctionDecl{}, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return cabs.FunctionDecl{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return cabs.FunctionDecl{}, err
	}

	return cabs.FunctionDecl{
		Name:       name.Literal,
		ReturnType: retType,
		Params:     params,
		Body:       &body,
	}, nil
}

// parseParams reads `type name` pairs up to the closing paren. A void
// directly before the paren yields no parameters.
func (p *Parser) parseParams() ([]cabs.Param, error) {
	params := []cabs.Param{}
	if p.atEnd() || p.curIs(lexer.TokenRParen) {
		return params, nil
	}

	for {
		if next := p.peek(1); p.curIs(lexer.TokenVoid) && next != nil && next.Type == lexer.TokenRParen {
			p.advance()
			break
		}

		typ, err := p.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		params = append(params, cabs.Param{Name: name.Literal, Type: typ})

		if !p.curIs(lexer.TokenComma) {
			break
		}
		p.advance()
	}

	return params, nil
}

// parseVarDecl reads `type name [= expr] ;`
func (p *Parser) parseVarDecl() (cabs.VarDecl, error) {
	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return cabs.VarDecl{}, err
	}
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return cabs.VarDecl{}, err
	}

	decl := cabs.VarDecl{Name: name.Literal, VarType: typ}
	if p.curIs(lexer.TokenAssign) {
		p.advance()
		decl.Initializer, err = p.parseOperand()
		if err != nil {
			return cabs.VarDecl{}, err
		}
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return cabs.VarDecl{}, err
	}
	return decl, nil
}
