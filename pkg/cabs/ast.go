// Package cabs defines the abstract syntax tree for the supported C subset.
//
// Each node kind has its own concrete struct; the Node, Expr, Stmt and
// Definition interfaces are sealed by unexported marker methods. Only Program
// and Block carry ordered children, every other relationship is a named field.
package cabs

// Kind tags every AST node.
type Kind int

const (
	KindProgram Kind = iota
	KindFunctionDeclaration
	KindVariableDeclaration
	KindStatement
	KindExpression // reserved; no parser production emits it
	KindBinaryExpression
	KindUnaryExpression
	KindAssignmentExpression
	KindLiteral
	KindIdentifier
	KindFunctionCall
	KindIfStatement
	KindWhileStatement
	KindForStatement
	KindDoWhileStatement
	KindSwitchStatement
	KindCaseStatement
	KindDefaultStatement
	KindBreakStatement
	KindContinueStatement
	KindGotoStatement
	KindReturnStatement
	KindBlockStatement
	KindCastExpression
	KindSizeofExpression
	KindConditionalExpression
	KindPostfixExpression
)

var kindNames = []string{
	"program", "function_declaration", "variable_declaration", "statement",
	"expression", "binary_expression", "unary_expression",
	"assignment_expression", "literal", "identifier", "function_call",
	"if_statement", "while_statement", "for_statement", "do_while_statement",
	"switch_statement", "case_statement", "default_statement",
	"break_statement", "continue_statement", "goto_statement",
	"return_statement", "block_statement", "cast_expression",
	"sizeof_expression", "conditional_expression", "postfix_expression",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Node is the base interface for all AST nodes
type Node interface {
	Kind() Kind
	implCabsNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implCabsExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implCabsStmt()
}

// Definition is the interface for top-level definitions
type Definition interface {
	Node
	implDefinition()
}

// LiteralType distinguishes literal categories
type LiteralType int

const (
	LitInt LiteralType = iota
	LitFloat
	LitString
	LitChar
)

func (t LiteralType) String() string {
	names := []string{"int", "float", "string", "char"}
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return "?"
}

// UnsizedDim marks an array dimension written as [] in sizeof.
const UnsizedDim int64 = -1

// Program is the root of a parse
type Program struct {
	Definitions []Definition
}

// Param is a single function parameter
type Param struct {
	Name string
	Type string
}

// FunctionDecl represents a function definition
type FunctionDecl struct {
	Name       string
	ReturnType string
	Params     []Param
	Body       *Block
}

// VarDecl represents a global or local variable declaration
type VarDecl struct {
	Name        string
	VarType     string
	Initializer Expr // nil when absent
}

// AssignStmt is the statement form `name op value;`
type AssignStmt struct {
	Target string
	Op     string
	Value  Expr
}

// CallStmt is the statement form `name(args);`
type CallStmt struct {
	Name string
	Args []Expr
}

// IncDecStmt is `name++;`, `name--;`, `++name;` or `--name;`
type IncDecStmt struct {
	Target string
	Op     string
	Prefix bool
}

// EmptyStmt is a lone `;`
type EmptyStmt struct{}

// Binary represents a binary expression, including the comma operator
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Unary represents a prefix unary expression
type Unary struct {
	Op      string
	Operand Expr
	Prefix  bool // set for ++ and --
}

// Assignment represents `left op right` for = and compound operators
type Assignment struct {
	Op    string
	Left  Expr
	Right Expr
}

// Literal represents a constant. Int is set for LitInt, Float for LitFloat;
// Text always holds the source spelling (without quotes).
type Literal struct {
	Type  LiteralType
	Text  string
	Int   int64
	Float float64
}

// Identifier represents a name expression
type Identifier struct {
	Name string
}

// Call represents a function call expression
type Call struct {
	Name string
	Args []Expr
}

// Conditional represents the ternary operator: cond ? then : else
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Cast represents `(type) expr`
type Cast struct {
	TargetType string
	Expr       Expr
}

// Sizeof is either sizeof(type[dims]) or sizeof(expr). Expr is nil in the
// first form and TargetType is empty in the second.
type Sizeof struct {
	TargetType string
	Dims       []int64
	Expr       Expr
}

// Postfix represents trailing ++ or --
type Postfix struct {
	Op      string
	Operand Expr
}

// If represents if/else; Else is nil without an else branch
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// While represents a while loop
type While struct {
	Cond Expr
	Body Stmt
}

// For represents a for loop. Init is a VarDecl, an Expr or nil.
type For struct {
	Init Node
	Cond Expr
	Post Expr
	Body Stmt
}

// DoWhile represents a do-while loop
type DoWhile struct {
	Body Stmt
	Cond Expr
}

// Switch represents a switch statement
type Switch struct {
	Expr    Expr
	Cases   []Case
	Default *Default
}

// Case is a `case value:` block
type Case struct {
	Value Expr
	Stmts []Stmt
}

// Default is the `default:` block
type Default struct {
	Stmts []Stmt
}

// Break represents a break statement
type Break struct{}

// Continue represents a continue statement
type Continue struct{}

// Goto represents a goto statement
type Goto struct {
	Label string
}

// Return represents a return statement
type Return struct {
	Expr Expr // nil for bare return
}

// Block represents a compound statement (block)
type Block struct {
	Items []Stmt
}

func (Program) Kind() Kind      { return KindProgram }
func (FunctionDecl) Kind() Kind { return KindFunctionDeclaration }
func (VarDecl) Kind() Kind      { return KindVariableDeclaration }
func (AssignStmt) Kind() Kind   { return KindStatement }
func (CallStmt) Kind() Kind     { return KindStatement }
func (IncDecStmt) Kind() Kind   { return KindStatement }
func (EmptyStmt) Kind() Kind    { return KindStatement }
func (Binary) Kind() Kind       { return KindBinaryExpression }
func (Unary) Kind() Kind        { return KindUnaryExpression }
func (Assignment) Kind() Kind   { return KindAssignmentExpression }
func (Literal) Kind() Kind      { return KindLiteral }
func (Identifier) Kind() Kind   { return KindIdentifier }
func (Call) Kind() Kind         { return KindFunctionCall }
func (Conditional) Kind() Kind  { return KindConditionalExpression }
func (Cast) Kind() Kind         { return KindCastExpression }
func (Sizeof) Kind() Kind       { return KindSizeofExpression }
func (Postfix) Kind() Kind      { return KindPostfixExpression }
func (If) Kind() Kind           { return KindIfStatement }
func (While) Kind() Kind        { return KindWhileStatement }
func (For) Kind() Kind          { return KindForStatement }
func (DoWhile) Kind() Kind      { return KindDoWhileStatement }
func (Switch) Kind() Kind       { return KindSwitchStatement }
func (Case) Kind() Kind         { return KindCaseStatement }
func (Default) Kind() Kind      { return KindDefaultStatement }
func (Break) Kind() Kind        { return KindBreakStatement }
func (Continue) Kind() Kind     { return KindContinueStatement }
func (Goto) Kind() Kind         { return KindGotoStatement }
func (Return) Kind() Kind       { return KindReturnStatement }
func (Block) Kind() Kind        { return KindBlockStatement }

// Marker methods for interface implementation
func (Program) implCabsNode() {}

func (FunctionDecl) implCabsNode()   {}
func (FunctionDecl) implDefinition() {}

func (VarDecl) implCabsNode()   {}
func (VarDecl) implCabsStmt()   {}
func (VarDecl) implDefinition() {}

func (AssignStmt) implCabsNode() {}
func (AssignStmt) implCabsStmt() {}

func (CallStmt) implCabsNode() {}
func (CallStmt) implCabsStmt() {}

func (IncDecStmt) implCabsNode() {}
func (IncDecStmt) implCabsStmt() {}

func (EmptyStmt) implCabsNode() {}
func (EmptyStmt) implCabsStmt() {}

func (Binary) implCabsNode() {}
func (Binary) implCabsExpr() {}

func (Unary) implCabsNode() {}
func (Unary) implCabsExpr() {}

func (Assignment) implCabsNode() {}
func (Assignment) implCabsExpr() {}

func (Literal) implCabsNode() {}
func (Literal) implCabsExpr() {}

func (Identifier) implCabsNode() {}
func (Identifier) implCabsExpr() {}

func (Call) implCabsNode() {}
func (Call) implCabsExpr() {}

func (Conditional) implCabsNode() {}
func (Conditional) implCabsExpr() {}

func (Cast) implCabsNode() {}
func (Cast) implCabsExpr() {}

func (Sizeof) implCabsNode() {}
func (Sizeof) implCabsExpr() {}

func (Postfix) implCabsNode() {}
func (Postfix) implCabsExpr() {}

func (If) implCabsNode() {}
func (If) implCabsStmt() {}

func (While) implCabsNode() {}
func (While) implCabsStmt() {}

func (For) implCabsNode() {}
func (For) implCabsStmt() {}

func (DoWhile) implCabsNode() {}
func (DoWhile) implCabsStmt() {}

func (Switch) implCabsNode() {}
func (Switch) implCabsStmt() {}

func (Case) implCabsNode() {}

func (Default) implCabsNode() {}

func (Break) implCabsNode() {}
func (Break) implCabsStmt() {}

func (Continue) implCabsNode() {}
func (Continue) implCabsStmt() {}

func (Goto) implCabsNode() {}
func (Goto) implCabsStmt() {}

func (Return) implCabsNode() {}
func (Return) implCabsStmt() {}

func (Block) implCabsNode() {}
func (Block) implCabsStmt() {}
