package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF     TokenType = iota
	TokenUnknown           // compiler-specific or unrecognized input

	// Literals
	TokenIdent  // main, foo, x
	TokenInt    // 42, 0x2a, 10UL
	TokenFloat  // 3.14, 1e9, 2.5f
	TokenString // "hello"
	TokenChar   // 'a'

	// Keywords
	TokenInt_     // int
	TokenVoid     // void
	TokenChar_    // char
	TokenFloat_   // float
	TokenDouble   // double
	TokenShort    // short
	TokenLong     // long
	TokenUnsigned // unsigned
	TokenSigned   // signed
	TokenConst    // const
	TokenStatic   // static
	TokenExtern   // extern
	TokenIf       // if
	TokenElse     // else
	TokenWhile    // while
	TokenFor      // for
	TokenDo       // do
	TokenSwitch   // switch
	TokenCase     // case
	TokenDefault  // default
	TokenBreak    // break
	TokenContinue // continue
	TokenGoto     // goto
	TokenReturn   // return
	TokenSizeof   // sizeof

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->
	TokenHash      // #
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenUnknown:       "UNKNOWN",
	TokenIdent:         "IDENT",
	TokenInt:           "INT",
	TokenFloat:         "FLOAT",
	TokenString:        "STRING",
	TokenChar:          "CHAR",
	TokenInt_:          "int",
	TokenVoid:          "void",
	TokenChar_:         "char",
	TokenFloat_:        "float",
	TokenDouble:        "double",
	TokenShort:         "short",
	TokenLong:          "long",
	TokenUnsigned:      "unsigned",
	TokenSigned:        "signed",
	TokenConst:         "const",
	TokenStatic:        "static",
	TokenExtern:        "extern",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenWhile:         "while",
	TokenFor:           "for",
	TokenDo:            "do",
	TokenSwitch:        "switch",
	TokenCase:          "case",
	TokenDefault:       "default",
	TokenBreak:         "break",
	TokenContinue:      "continue",
	TokenGoto:          "goto",
	TokenReturn:        "return",
	TokenSizeof:        "sizeof",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenLe:            "<=",
	TokenGt:            ">",
	TokenGe:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenTilde:         "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenArrow:         "->",
	TokenHash:          "#",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "?"
}

// IsBaseType reports whether t can start a type specifier.
func (t TokenType) IsBaseType() bool {
	switch t {
	case TokenInt_, TokenVoid, TokenChar_, TokenFloat_, TokenDouble,
		TokenShort, TokenLong, TokenUnsigned:
		return true
	}
	return false
}

// IsQualifier reports whether t is a qualifier or storage-class keyword
// allowed after the base type.
func (t TokenType) IsQualifier() bool {
	switch t {
	case TokenConst, TokenUnsigned, TokenSigned, TokenStatic, TokenExtern:
		return true
	}
	return false
}

// IsAssignOp reports whether t is = or a compound assignment operator.
func (t TokenType) IsAssignOp() bool {
	return t == TokenAssign || (t >= TokenPlusAssign && t <= TokenShrAssign)
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"int":      TokenInt_,
	"void":     TokenVoid,
	"char":     TokenChar_,
	"float":    TokenFloat_,
	"double":   TokenDouble,
	"short":    TokenShort,
	"long":     TokenLong,
	"unsigned": TokenUnsigned,
	"signed":   TokenSigned,
	"const":    TokenConst,
	"static":   TokenStatic,
	"extern":   TokenExtern,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"do":       TokenDo,
	"switch":   TokenSwitch,
	"case":     TokenCase,
	"default":  TokenDefault,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"goto":     TokenGoto,
	"return":   TokenReturn,
	"sizeof":   TokenSizeof,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
