// Package cabs provides AST printing functionality
package cabs

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the AST as C source. Binary, assignment and conditional
// expressions are fully parenthesized so the parsed grouping is visible.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program
func (p *Printer) PrintProgram(prog *Program) {
	for _, def := range prog.Definitions {
		p.printDefinition(def)
		fmt.Fprintln(p.w)
	}
}

// PrintExpr prints a single expression without a trailing newline
func (p *Printer) PrintExpr(e Expr) {
	p.printExpr(e)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printDefinition(def Definition) {
	switch d := def.(type) {
	case FunctionDecl:
		p.printFunctionDecl(d)
	case VarDecl:
		p.printVarDecl(d)
		fmt.Fprintln(p.w, ";")
	default:
		fmt.Fprintf(p.w, "/* unknown definition %T */\n", def)
	}
}

func (p *Printer) printFunctionDecl(f FunctionDecl) {
	fmt.Fprintf(p.w, "%s(", declarator(f.ReturnType, f.Name))
	if len(f.Params) == 0 {
		fmt.Fprint(p.w, "void")
	}
	for i, param := range f.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprint(p.w, declarator(param.Type, param.Name))
	}
	fmt.Fprintln(p.w, ")")
	p.printBlock(f.Body)
}

// printVarDecl prints a declaration without the terminating semicolon
func (p *Printer) printVarDecl(v VarDecl) {
	fmt.Fprint(p.w, declarator(v.VarType, v.Name))
	if v.Initializer != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(v.Initializer)
	}
}

// declarator joins a type and a name, binding pointer stars to the name
func declarator(typ, name string) string {
	if strings.HasSuffix(typ, "*") {
		return typ + name
	}
	return typ + " " + name
}

func (p *Printer) printBlock(b *Block) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	if b != nil {
		for _, stmt := range b.Items {
			p.printStmt(stmt)
		}
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	// Nested blocks manage their own indentation
	if b, ok := stmt.(Block); ok {
		p.printBlock(&b)
		return
	}

	p.writeIndent()
	switch s := stmt.(type) {
	case VarDecl:
		p.printVarDecl(s)
		fmt.Fprintln(p.w, ";")
	case AssignStmt:
		fmt.Fprintf(p.w, "%s %s ", s.Target, s.Op)
		p.printExpr(s.Value)
		fmt.Fprintln(p.w, ";")
	case CallStmt:
		p.printCall(s.Name, s.Args)
		fmt.Fprintln(p.w, ";")
	case IncDecStmt:
		if s.Prefix {
			fmt.Fprintf(p.w, "%s%s;\n", s.Op, s.Target)
		} else {
			fmt.Fprintf(p.w, "%s%s;\n", s.Target, s.Op)
		}
	case EmptyStmt:
		fmt.Fprintln(p.w, ";")
	case Return:
		fmt.Fprint(p.w, "return")
		if s.Expr != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case If:
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printBody(s.Then)
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.printBody(s.Else)
		}
	case While:
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printBody(s.Body)
	case DoWhile:
		fmt.Fprintln(p.w, "do")
		p.printBody(s.Body)
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ");")
	case For:
		fmt.Fprint(p.w, "for (")
		switch init := s.Init.(type) {
		case VarDecl:
			p.printVarDecl(init)
		case Expr:
			p.printExpr(init)
		}
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		fmt.Fprintln(p.w, ")")
		p.printBody(s.Body)
	case Break:
		fmt.Fprintln(p.w, "break;")
	case Continue:
		fmt.Fprintln(p.w, "continue;")
	case Goto:
		fmt.Fprintf(p.w, "goto %s;\n", s.Label)
	case Switch:
		fmt.Fprint(p.w, "switch (")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ") {")
		for _, c := range s.Cases {
			p.writeIndent()
			fmt.Fprint(p.w, "case ")
			p.printExpr(c.Value)
			fmt.Fprintln(p.w, ":")
			p.printStmts(c.Stmts)
		}
		if s.Default != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "default:")
			p.printStmts(s.Default.Stmts)
		}
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */;\n", stmt)
	}
}

// printBody prints a branch or loop body one level deeper unless it is a block
func (p *Printer) printBody(s Stmt) {
	if _, ok := s.(Block); ok {
		p.printStmt(s)
		return
	}
	p.indent++
	p.printStmt(s)
	p.indent--
}

func (p *Printer) printStmts(stmts []Stmt) {
	p.indent++
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printCall(name string, args []Expr) {
	fmt.Fprintf(p.w, "%s(", name)
	for i, arg := range args {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printExpr(arg)
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Literal:
		p.printLiteral(e)
	case Identifier:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		fmt.Fprint(p.w, e.Op)
		// keep - -x from reading back as --x
		if inner, ok := e.Operand.(Unary); ok && e.Op != "" && inner.Op != "" && inner.Op[0] == e.Op[len(e.Op)-1] {
			fmt.Fprint(p.w, " ")
		}
		p.printExpr(e.Operand)
	case Postfix:
		p.printExpr(e.Operand)
		fmt.Fprint(p.w, e.Op)
	case Binary:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Left)
		if e.Op == "," {
			fmt.Fprint(p.w, ", ")
		} else {
			fmt.Fprintf(p.w, " %s ", e.Op)
		}
		p.printExpr(e.Right)
		fmt.Fprint(p.w, ")")
	case Assignment:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printExpr(e.Right)
		fmt.Fprint(p.w, ")")
	case Conditional:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printExpr(e.Else)
		fmt.Fprint(p.w, ")")
	case Call:
		p.printCall(e.Name, e.Args)
	case Cast:
		fmt.Fprintf(p.w, "(%s)", e.TargetType)
		p.printExpr(e.Expr)
	case Sizeof:
		if e.Expr != nil {
			fmt.Fprint(p.w, "sizeof(")
			p.printExpr(e.Expr)
			fmt.Fprint(p.w, ")")
			return
		}
		fmt.Fprintf(p.w, "sizeof(%s", e.TargetType)
		for _, d := range e.Dims {
			if d == UnsizedDim {
				fmt.Fprint(p.w, "[]")
			} else {
				fmt.Fprintf(p.w, "[%d]", d)
			}
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printLiteral(l Literal) {
	switch l.Type {
	case LitString:
		fmt.Fprintf(p.w, "\"%s\"", l.Text)
	case LitChar:
		fmt.Fprintf(p.w, "'%s'", l.Text)
	default:
		fmt.Fprint(p.w, l.Text)
	}
}
