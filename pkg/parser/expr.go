package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// Expression levels, loosest first:
//
//	comma, assignment, conditional, ||, &&, |, ^, &, == !=,
//	< <= > >=, << >>, + -, * / %, unary, postfix, primary
//
// With legacy precedence the equality level is skipped.

// parseExpression is the full expression including the comma operator.
// Parentheses and sizeof reach it from inside argument lists, so the comma
// is allowed again below it.
func (p *Parser) parseExpression() (cabs.Expr, error) {
	saved := p.inArgs
	p.inArgs = false
	defer func() { p.inArgs = saved }()

	left, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.TokenComma) {
		p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		left = cabs.Binary{Op: ",", Left: left, Right: right}
	}
	return left, nil
}

// parseAssignment is right-associative: a = b = c groups as a = (b = c).
// The right side is a full expression, so a = b, c assigns (b, c).
func (p *Parser) parseAssignment() (cabs.Expr, error) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	tok := p.cur()
	if tok == nil || !tok.Type.IsAssignOp() {
		return left, nil
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return cabs.Assignment{Op: tok.Literal, Left: left, Right: right}, nil
}

// parseOperand reads the right side of an assignment, a cast operand or an
// initializer. Inside an argument list it stops at the next comma.
func (p *Parser) parseOperand() (cabs.Expr, error) {
	if p.inArgs {
		return p.parseAssignment()
	}
	return p.parseExpression()
}

// parseConditional reads cond ? then : else. The condition and the true
// branch stop at logical-or; the false branch nests to the right.
func (p *Parser) parseConditional() (cabs.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.TokenQuestion) {
		return cond, nil
	}
	p.advance()

	then, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	els, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return cabs.Conditional{Cond: cond, Then: then, Else: els}, nil
}

// parseBinary folds a left-associative chain of operands produced by next
// and joined by any of ops.
func (p *Parser) parseBinary(next func() (cabs.Expr, error), ops ...lexer.TokenType) (cabs.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()
		if tok == nil || !isOneOf(tok.Type, ops) {
			return left, nil
		}
		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}
		left = cabs.Binary{Op: tok.Type.String(), Left: left, Right: right}
	}
}

func isOneOf(t lexer.TokenType, set []lexer.TokenType) bool {
	for _, s := range set {
		if t == s {
			return true
		}
	}
	return false
}

func (p *Parser) parseLogicalOr() (cabs.Expr, error) {
	return p.parseBinary(p.parseLogicalAnd, lexer.TokenOr)
}

func (p *Parser) parseLogicalAnd() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitwiseOr, lexer.TokenAnd)
}

func (p *Parser) parseBitwiseOr() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitwiseXor, lexer.TokenPipe)
}

func (p *Parser) parseBitwiseXor() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitwiseAnd, lexer.TokenCaret)
}

func (p *Parser) parseBitwiseAnd() (cabs.Expr, error) {
	next := p.parseEquality
	if p.legacy {
		next = p.parseRelational
	}
	return p.parseBinary(next, lexer.TokenAmpersand)
}

func (p *Parser) parseEquality() (cabs.Expr, error) {
	return p.parseBinary(p.parseRelational, lexer.TokenEq, lexer.TokenNe)
}

func (p *Parser) parseRelational() (cabs.Expr, error) {
	return p.parseBinary(p.parseShift, lexer.TokenLt, lexer.TokenLe, lexer.TokenGt, lexer.TokenGe)
}

func (p *Parser) parseShift() (cabs.Expr, error) {
	return p.parseBinary(p.parseAdditive, lexer.TokenShl, lexer.TokenShr)
}

func (p *Parser) parseAdditive() (cabs.Expr, error) {
	return p.parseBinary(p.parseMultiplicative, lexer.TokenPlus, lexer.TokenMinus)
}

func (p *Parser) parseMultiplicative() (cabs.Expr, error) {
	return p.parseBinary(p.parseUnary, lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent)
}

func (p *Parser) parseUnary() (cabs.Expr, error) {
	tok := p.cur()
	if tok == nil {
		return nil, p.errorf("unexpected end of input in expression")
	}

	switch tok.Type {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenNot, lexer.TokenTilde,
		lexer.TokenStar, lexer.TokenAmpersand,
		lexer.TokenIncrement, lexer.TokenDecrement:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		prefix := tok.Type == lexer.TokenIncrement || tok.Type == lexer.TokenDecrement
		return cabs.Unary{Op: tok.Literal, Operand: operand, Prefix: prefix}, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (cabs.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.TokenIncrement) || p.curIs(lexer.TokenDecrement) {
		expr = cabs.Postfix{Op: p.cur().Literal, Operand: expr}
		p.advance()
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (cabs.Expr, error) {
	tok := p.cur()
	if tok == nil {
		return nil, p.errorf("unexpected end of input in expression")
	}

	switch tok.Type {
	case lexer.TokenInt:
		v, err := parseIntLiteral(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid integer constant %q", tok.Literal)
		}
		p.advance()
		return cabs.Literal{Type: cabs.LitInt, Text: tok.Literal, Int: v}, nil

	case lexer.TokenFloat:
		v, err := strconv.ParseFloat(strings.TrimRight(tok.Literal, "fFlL"), 64)
		if err != nil {
			return nil, p.errorf("invalid floating constant %q", tok.Literal)
		}
		p.advance()
		return cabs.Literal{Type: cabs.LitFloat, Text: tok.Literal, Float: v}, nil

	case lexer.TokenString:
		p.advance()
		return cabs.Literal{Type: cabs.LitString, Text: tok.Literal}, nil

	case lexer.TokenChar:
		p.advance()
		return cabs.Literal{Type: cabs.LitChar, Text: tok.Literal}, nil

	case lexer.TokenSizeof:
		return p.parseSizeof()

	case lexer.TokenLParen:
		p.advance()
		if next := p.cur(); next != nil && next.Type.IsBaseType() {
			return p.parseCast()
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.TokenIdent:
		p.advance()
		if !p.curIs(lexer.TokenLParen) {
			return cabs.Identifier{Name: tok.Literal}, nil
		}
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return cabs.Call{Name: tok.Literal, Args: args}, nil
	}

	return nil, p.errorf("unexpected token %s in expression", describe(tok))
}

// parseCast reads `type ) expr` after the opening paren. The operand takes
// the whole following expression, so (int)a + b casts a + b.
func (p *Parser) parseCast() (cabs.Expr, error) {
	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return cabs.Cast{TargetType: typ, Expr: operand}, nil
}

// parseArgs reads call arguments up to, not including, the closing paren.
// Each argument stops at a top-level comma.
func (p *Parser) parseArgs() ([]cabs.Expr, error) {
	args := []cabs.Expr{}
	if p.atEnd() || p.curIs(lexer.TokenRParen) {
		return args, nil
	}
	saved := p.inArgs
	p.inArgs = true
	defer func() { p.inArgs = saved }()

	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.curIs(lexer.TokenComma) {
			return args, nil
		}
		p.advance()
	}
}

// parseSizeof reads sizeof(type[dims]) or sizeof(expr). The type form is
// tried first on a saved cursor which is restored when it does not fit.
func (p *Parser) parseSizeof() (cabs.Expr, error) {
	p.advance() // consume 'sizeof'
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	if tok := p.cur(); tok != nil && tok.Type.IsBaseType() {
		saved := p.pos
		if node, ok := p.trySizeofType(); ok {
			return node, nil
		}
		p.pos = saved
		p.log.Debug("sizeof operand is not a type, parsing as expression",
			zap.Int("line", tok.Line),
			zap.Int("col", tok.Column))
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return cabs.Sizeof{Expr: expr}, nil
}

// trySizeofType parses `type [N]... )`. On failure the cursor is left
// wherever parsing stopped and the caller must restore it.
func (p *Parser) trySizeofType() (cabs.Sizeof, bool) {
	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return cabs.Sizeof{}, false
	}

	dims := []int64{}
	for p.curIs(lexer.TokenLBracket) {
		p.advance()
		if tok := p.cur(); tok != nil && tok.Type == lexer.TokenInt {
			n, err := parseIntLiteral(tok.Literal)
			if err != nil {
				return cabs.Sizeof{}, false
			}
			dims = append(dims, n)
			p.advance()
		} else {
			dims = append(dims, cabs.UnsizedDim)
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return cabs.Sizeof{}, false
		}
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return cabs.Sizeof{}, false
	}
	return cabs.Sizeof{TargetType: typ, Dims: dims}, true
}

// parseIntLiteral converts a C integer constant, accepting hex and octal
// prefixes and dropping u/l suffixes. Values above MaxInt64 wrap.
func parseIntLiteral(lit string) (int64, error) {
	s := strings.TrimRight(lit, "uUlL")
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}
