package parser

import (
	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// parseBlock reads `{ stmt* }`. Bare semicolons are dropped.
func (p *Parser) parseBlock() (cabs.Block, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return cabs.Block{}, err
	}

	block := cabs.Block{Items: []cabs.Stmt{}}
	for !p.atEnd() && !p.curIs(lexer.TokenRBrace) {
		if p.curIs(lexer.TokenSemicolon) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return cabs.Block{}, err
		}
		block.Items = append(block.Items, stmt)
	}

	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return cabs.Block{}, err
	}
	return block, nil
}

func (p *Parser) parseStatement() (cabs.Stmt, error) {
	tok := p.cur()
	if tok == nil {
		return nil, p.errorf("unexpected end of input in statement")
	}

	switch {
	case tok.Type.IsBaseType():
		return p.parseVarDecl()
	case tok.Type == lexer.TokenIdent:
		return p.parseIdentStatement()
	case tok.Type == lexer.TokenIncrement || tok.Type == lexer.TokenDecrement:
		p.advance()
		name, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.IncDecStmt{Target: name.Literal, Op: tok.Literal, Prefix: true}, nil
	}

	switch tok.Type {
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenDo:
		return p.parseDoWhile()
	case lexer.TokenSwitch:
		return p.parseSwitch()
	case lexer.TokenBreak:
		p.advance()
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.Break{}, nil
	case lexer.TokenContinue:
		p.advance()
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.Continue{}, nil
	case lexer.TokenGoto:
		p.advance()
		label, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.Goto{Label: label.Literal}, nil
	case lexer.TokenSemicolon:
		p.advance()
		return cabs.EmptyStmt{}, nil
	case lexer.TokenLBrace:
		return p.parseBlock()
	}

	return nil, p.errorf("unexpected token %s in statement", describe(tok))
}

// parseIdentStatement handles the statement forms led by a name:
// assignment, call and postfix increment or decrement.
func (p *Parser) parseIdentStatement() (cabs.Stmt, error) {
	name := p.cur().Literal
	p.advance()

	tok := p.cur()
	switch {
	case tok != nil && tok.Type.IsAssignOp():
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.AssignStmt{Target: name, Op: tok.Literal, Value: value}, nil

	case tok != nil && tok.Type == lexer.TokenLParen:
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.CallStmt{Name: name, Args: args}, nil

	case tok != nil && (tok.Type == lexer.TokenIncrement || tok.Type == lexer.TokenDecrement):
		p.advance()
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return cabs.IncDecStmt{Target: name, Op: tok.Literal}, nil
	}

	return nil, p.errorf("expected assignment operator, '(', '++' or '--' after identifier %q, got %s",
		name, describe(tok))
}

func (p *Parser) parseReturn() (cabs.Stmt, error) {
	p.advance() // consume 'return'

	var ret cabs.Return
	if !p.atEnd() && !p.curIs(lexer.TokenSemicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		ret.Expr = expr
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return ret, nil
}

// parseCondition reads `( expr )`
func (p *Parser) parseCondition() (cabs.Expr, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf attaches an else to the innermost open if, since each branch is a
// single parseStatement call.
func (p *Parser) parseIf() (cabs.Stmt, error) {
	p.advance() // consume 'if'

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	stmt := cabs.If{Cond: cond, Then: then}
	if p.curIs(lexer.TokenElse) {
		p.advance()
		stmt.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (cabs.Stmt, error) {
	p.advance() // consume 'while'

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return cabs.While{Cond: cond, Body: body}, nil
}

// parseFor reads `for ( init ; cond ; post ) body`. A declaration init
// consumes its own semicolon.
func (p *Parser) parseFor() (cabs.Stmt, error) {
	p.advance() // consume 'for'
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	var stmt cabs.For
	switch tok := p.cur(); {
	case tok != nil && tok.Type.IsBaseType():
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		stmt.Init = decl
	case tok != nil && tok.Type != lexer.TokenSemicolon:
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Init = init
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
	default:
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
	}

	if !p.atEnd() && !p.curIs(lexer.TokenSemicolon) {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	if !p.atEnd() && !p.curIs(lexer.TokenRParen) {
		post, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseDoWhile() (cabs.Stmt, error) {
	p.advance() // consume 'do'

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenWhile); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return cabs.DoWhile{Body: body, Cond: cond}, nil
}

// parseSwitch reads the switch head and its case and default blocks. A
// second default is reported at its own token.
func (p *Parser) parseSwitch() (cabs.Stmt, error) {
	p.advance() // consume 'switch'

	expr, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	stmt := cabs.Switch{Expr: expr, Cases: []cabs.Case{}}
	for !p.atEnd() && !p.curIs(lexer.TokenRBrace) {
		switch tok := p.cur(); tok.Type {
		case lexer.TokenCase:
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			stmts, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, cabs.Case{Value: value, Stmts: stmts})

		case lexer.TokenDefault:
			if stmt.Default != nil {
				return nil, p.errorf("multiple default cases in switch statement")
			}
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			stmts, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Default = &cabs.Default{Stmts: stmts}

		default:
			return nil, p.errorf("unexpected token %s in switch statement", describe(tok))
		}
	}

	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCaseBody collects statements until the next case, default or '}'
func (p *Parser) parseCaseBody() ([]cabs.Stmt, error) {
	stmts := []cabs.Stmt{}
	for !p.atEnd() && !p.curIs(lexer.TokenCase) && !p.curIs(lexer.TokenDefault) && !p.curIs(lexer.TokenRBrace) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
