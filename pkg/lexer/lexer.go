package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes C source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      rune // current character
	line    int
	column  int
	eof     bool
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The returned slice always ends with a
// TokenEOF token.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		// stay put once the end is reached
		if l.eof {
			return
		}
		l.eof = true
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input)
		l.column++
		return
	}
	var width int
	l.ch, width = utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.readPos += width
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComments()
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.either('+', TokenIncrement, '=', TokenPlusAssign, TokenPlus)
	case '-':
		switch l.peekChar() {
		case '>':
			tok = l.twoChar(TokenArrow)
		default:
			tok = l.either('-', TokenDecrement, '=', TokenMinusAssign, TokenMinus)
		}
	case '*':
		tok = l.either('=', TokenStarAssign, 0, 0, TokenStar)
	case '/':
		tok = l.either('=', TokenSlashAssign, 0, 0, TokenSlash)
	case '%':
		tok = l.either('=', TokenPercentAssign, 0, 0, TokenPercent)
	case '=':
		tok = l.either('=', TokenEq, 0, 0, TokenAssign)
	case '!':
		tok = l.either('=', TokenNe, 0, 0, TokenNot)
	case '<':
		if l.peekChar() == '<' {
			tok = l.twoChar(TokenShl)
			if l.peekChar() == '=' {
				l.readChar()
				tok.Type = TokenShlAssign
				tok.Literal = "<<="
			}
		} else {
			tok = l.either('=', TokenLe, 0, 0, TokenLt)
		}
	case '>':
		if l.peekChar() == '>' {
			tok = l.twoChar(TokenShr)
			if l.peekChar() == '=' {
				l.readChar()
				tok.Type = TokenShrAssign
				tok.Literal = ">>="
			}
		} else {
			tok = l.either('=', TokenGe, 0, 0, TokenGt)
		}
	case '&':
		tok = l.either('&', TokenAnd, '=', TokenAndAssign, TokenAmpersand)
	case '|':
		tok = l.either('|', TokenOr, '=', TokenOrAssign, TokenPipe)
	case '^':
		tok = l.either('=', TokenXorAssign, 0, 0, TokenCaret)
	case '~':
		tok = l.newToken(TokenTilde, l.ch)
	case '?':
		tok = l.newToken(TokenQuestion, l.ch)
	case ':':
		tok = l.newToken(TokenColon, l.ch)
	case '#':
		tok = l.newToken(TokenHash, l.ch)
	case '(':
		tok = l.newToken(TokenLParen, l.ch)
	case ')':
		tok = l.newToken(TokenRParen, l.ch)
	case '{':
		tok = l.newToken(TokenLBrace, l.ch)
	case '}':
		tok = l.newToken(TokenRBrace, l.ch)
	case '[':
		tok = l.newToken(TokenLBracket, l.ch)
	case ']':
		tok = l.newToken(TokenRBracket, l.ch)
	case ';':
		tok = l.newToken(TokenSemicolon, l.ch)
	case ',':
		tok = l.newToken(TokenComma, l.ch)
	case '.':
		if isDigit(l.peekChar()) {
			tok.Literal, tok.Type = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenDot, l.ch)
	case '"':
		tok.Type = TokenString
		tok.Literal = l.readQuoted('"')
		return tok
	case '\'':
		tok.Type = TokenChar
		tok.Literal = l.readQuoted('\'')
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Literal, tok.Type = l.readNumber()
			return tok
		} else {
			tok = l.newToken(TokenUnknown, l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, ch rune) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

// twoChar builds a token from the current and next character, leaving the
// cursor on the second one.
func (l *Lexer) twoChar(tokenType TokenType) Token {
	tok := Token{Type: tokenType, Line: l.line, Column: l.column}
	first := l.ch
	l.readChar()
	tok.Literal = string(first) + string(l.ch)
	return tok
}

// either picks a two-character token when the next character is a or b,
// falling back to the single-character token.
func (l *Lexer) either(a rune, ta TokenType, b rune, tb TokenType, single TokenType) Token {
	switch next := l.peekChar(); {
	case next == a && a != 0:
		return l.twoChar(ta)
	case next == b && b != 0:
		return l.twoChar(tb)
	}
	return l.newToken(single, l.ch)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			// Multi-line comment
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					break
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber scans integer and floating constants including hex prefixes,
// exponents and C suffixes.
func (l *Lexer) readNumber() (string, TokenType) {
	pos := l.pos
	typ := TokenInt

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' {
			typ = TokenFloat
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			next := l.peekChar()
			if isDigit(next) || next == '+' || next == '-' {
				typ = TokenFloat
				l.readChar()
				if l.ch == '+' || l.ch == '-' {
					l.readChar()
				}
				for isDigit(l.ch) {
					l.readChar()
				}
			}
		}
	}

	for {
		switch l.ch {
		case 'u', 'U', 'l', 'L':
			l.readChar()
			continue
		case 'f', 'F':
			typ = TokenFloat
			l.readChar()
			continue
		}
		break
	}
	return l.input[pos:l.pos], typ
}

// readQuoted reads a string or character literal and returns its body
// without the delimiters. Escapes are kept verbatim.
func (l *Lexer) readQuoted(delim rune) string {
	l.readChar() // consume opening quote
	pos := l.pos
	for l.ch != delim && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar() // skip escape char
			if l.ch == 0 {
				break
			}
		}
		l.readChar()
	}
	str := l.input[pos:l.pos]
	if l.ch == delim {
		l.readChar() // consume closing quote
	}
	return str
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
