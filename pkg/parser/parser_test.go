package parser

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// ExprSpec is an expression case from parse.yaml
type ExprSpec struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

// ProgramSpec is a whole-program case from parse.yaml
type ProgramSpec struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

// ParseFile represents the parse.yaml file structure
type ParseFile struct {
	Expressions []ExprSpec    `yaml:"expressions"`
	Programs    []ProgramSpec `yaml:"programs"`
}

// ErrorSpec is a failing case from errors.yaml
type ErrorSpec struct {
	Name    string `yaml:"name"`
	Input   string `yaml:"input"`
	Message string `yaml:"message"`
	Line    int    `yaml:"line"`
	Col     int    `yaml:"col"`
	EOF     bool   `yaml:"eof"`
}

// ErrorFile represents the errors.yaml file structure
type ErrorFile struct {
	Tests []ErrorSpec `yaml:"tests"`
}

func loadYAML(t *testing.T, path string, out any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
}

func mustParse(t *testing.T, src string, opts ...Option) *cabs.Program {
	t.Helper()
	prog, err := ParseSource(src, opts...)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

// returnExpr parses `int main() { return <expr>; }` and returns the expression
func returnExpr(t *testing.T, expr string, opts ...Option) cabs.Expr {
	t.Helper()
	prog := mustParse(t, "int main() { return "+expr+"; }", opts...)
	fn := prog.Definitions[0].(cabs.FunctionDecl)
	ret, ok := fn.Body.Items[0].(cabs.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", fn.Body.Items[0])
	}
	return ret.Expr
}

func exprString(e cabs.Expr) string {
	var buf bytes.Buffer
	cabs.NewPrinter(&buf).PrintExpr(e)
	return buf.String()
}

func TestParseYAMLExpressions(t *testing.T) {
	var file ParseFile
	loadYAML(t, "../../testdata/parse.yaml", &file)

	for _, tc := range file.Expressions {
		t.Run(tc.Name, func(t *testing.T) {
			got := exprString(returnExpr(t, tc.Input))
			if got != tc.Want {
				t.Errorf("%s\nexpected: %s\ngot:      %s", tc.Input, tc.Want, got)
			}
		})
	}
}

func TestParseYAMLPrograms(t *testing.T) {
	var file ParseFile
	loadYAML(t, "../../testdata/parse.yaml", &file)

	for _, tc := range file.Programs {
		t.Run(tc.Name, func(t *testing.T) {
			prog := mustParse(t, tc.Input)
			var buf bytes.Buffer
			cabs.NewPrinter(&buf).PrintProgram(prog)

			got := strings.TrimSpace(buf.String())
			want := strings.TrimSpace(tc.Want)
			if got != want {
				t.Errorf("expected:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}

func TestParseYAMLErrors(t *testing.T) {
	var file ErrorFile
	loadYAML(t, "../../testdata/errors.yaml", &file)

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			prog, err := ParseSource(tc.Input)
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if prog != nil {
				t.Error("no program should be returned with an error")
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Message != tc.Message {
				t.Errorf("message: expected %q, got %q", tc.Message, perr.Message)
			}
			if got := errors.Is(err, ErrUnexpectedEOF); got != tc.EOF {
				t.Errorf("errors.Is(ErrUnexpectedEOF) = %v, want %v", got, tc.EOF)
			}
			line, col, ok := perr.Position()
			if ok == tc.EOF {
				t.Errorf("Position ok = %v for eof = %v", ok, tc.EOF)
			}
			if !tc.EOF && (line != tc.Line || col != tc.Col) {
				t.Errorf("position: expected %d:%d, got %d:%d", tc.Line, tc.Col, line, col)
			}
		})
	}
}

func TestFunctionDeclarationsInOrder(t *testing.T) {
	src := `
int first(int a) { return a; }
void second(void) { }
char *third(char *s, int n, double d) { return s; }
`
	prog := mustParse(t, src)

	want := []struct {
		name   string
		ret    string
		params []cabs.Param
	}{
		{"first", "int", []cabs.Param{{Name: "a", Type: "int"}}},
		{"second", "void", []cabs.Param{}},
		{"third", "char *", []cabs.Param{
			{Name: "s", Type: "char *"},
			{Name: "n", Type: "int"},
			{Name: "d", Type: "double"},
		}},
	}
	if len(prog.Definitions) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(prog.Definitions))
	}
	for i, w := range want {
		fn, ok := prog.Definitions[i].(cabs.FunctionDecl)
		if !ok {
			t.Fatalf("definition %d: expected FunctionDecl, got %T", i, prog.Definitions[i])
		}
		if fn.Name != w.name || fn.ReturnType != w.ret {
			t.Errorf("definition %d: expected %s %s, got %s %s", i, w.ret, w.name, fn.ReturnType, fn.Name)
		}
		if !reflect.DeepEqual(fn.Params, w.params) {
			t.Errorf("%s params: expected %v, got %v", w.name, w.params, fn.Params)
		}
	}
}

func TestAddFunction(t *testing.T) {
	prog := mustParse(t, "int add(int a, int b) { return a + b; }")

	fn := prog.Definitions[0].(cabs.FunctionDecl)
	if fn.Name != "add" || fn.ReturnType != "int" {
		t.Fatalf("expected int add, got %s %s", fn.ReturnType, fn.Name)
	}
	wantParams := []cabs.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}}
	if !reflect.DeepEqual(fn.Params, wantParams) {
		t.Errorf("params: expected %v, got %v", wantParams, fn.Params)
	}
	if len(fn.Body.Items) != 1 {
		t.Fatalf("expected 1 body item, got %d", len(fn.Body.Items))
	}
	ret, ok := fn.Body.Items[0].(cabs.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", fn.Body.Items[0])
	}
	bin, ok := ret.Expr.(cabs.Binary)
	if !ok {
		t.Fatalf("expected Binary, got %T", ret.Expr)
	}
	if bin.Op != "+" || bin.Kind() != cabs.KindBinaryExpression {
		t.Errorf("expected binary +, got %s %v", bin.Op, bin.Kind())
	}
}

func TestChainedAssignment(t *testing.T) {
	prog := mustParse(t, "void f() { a = b = 5; }")
	stmt, ok := prog.Definitions[0].(cabs.FunctionDecl).Body.Items[0].(cabs.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", prog.Definitions[0].(cabs.FunctionDecl).Body.Items[0])
	}
	if stmt.Target != "a" || stmt.Op != "=" {
		t.Errorf("expected a =, got %s %s", stmt.Target, stmt.Op)
	}
	inner, ok := stmt.Value.(cabs.Assignment)
	if !ok {
		t.Fatalf("expected Assignment value, got %T", stmt.Value)
	}
	if _, ok := inner.Right.(cabs.Literal); !ok {
		t.Errorf("expected literal on the right of b =, got %T", inner.Right)
	}

	expr := returnExpr(t, "a = b = 5")
	outer, ok := expr.(cabs.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", expr)
	}
	if _, ok := outer.Right.(cabs.Assignment); !ok {
		t.Errorf("expected nested Assignment on the right, got %T", outer.Right)
	}
}

func TestAssignmentTakesComma(t *testing.T) {
	expr := returnExpr(t, "a = b, c")
	asg, ok := expr.(cabs.Assignment)
	if !ok {
		t.Fatalf("expected Assignment at the root, got %T", expr)
	}
	if comma, ok := asg.Right.(cabs.Binary); !ok || comma.Op != "," {
		t.Errorf("expected comma expression on the right, got %#v", asg.Right)
	}

	call, ok := returnExpr(t, "f(x = 1, (int)y, z)").(cabs.Call)
	if !ok || len(call.Args) != 3 {
		t.Fatalf("expected three arguments, got %#v", call)
	}

	prog := mustParse(t, "int x = 1, 2;")
	decl := prog.Definitions[0].(cabs.VarDecl)
	if comma, ok := decl.Initializer.(cabs.Binary); !ok || comma.Op != "," {
		t.Errorf("expected comma initializer, got %#v", decl.Initializer)
	}
}

func TestConditionalNestsRight(t *testing.T) {
	expr := returnExpr(t, "x ? y : z ? 1 : 2")
	outer, ok := expr.(cabs.Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %T", expr)
	}
	if id, ok := outer.Then.(cabs.Identifier); !ok || id.Name != "y" {
		t.Errorf("expected y as true branch, got %v", outer.Then)
	}
	if _, ok := outer.Else.(cabs.Conditional); !ok {
		t.Errorf("expected Conditional as false branch, got %T", outer.Else)
	}
}

func TestDuplicateDefaultPointsAtSecond(t *testing.T) {
	src := "int f(int x) { switch (x) { default: x = 1; case 2: break; default: break; } }"
	_, err := ParseSource(src)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Token == nil || perr.Token.Type != lexer.TokenDefault {
		t.Fatalf("expected error at default token, got %v", perr.Token)
	}
	if want := strings.LastIndex(src, "default") + 1; perr.Token.Column != want {
		t.Errorf("expected column %d, got %d", want, perr.Token.Column)
	}
}

func TestSwitchCases(t *testing.T) {
	prog := mustParse(t, "void f() { switch (k) { case 1: case 2: g(); break; default: ; } }")
	sw := prog.Definitions[0].(cabs.FunctionDecl).Body.Items[0].(cabs.Switch)
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
	if len(sw.Cases[0].Stmts) != 0 || len(sw.Cases[1].Stmts) != 2 {
		t.Errorf("unexpected case bodies: %d, %d", len(sw.Cases[0].Stmts), len(sw.Cases[1].Stmts))
	}
	if sw.Default == nil || len(sw.Default.Stmts) != 1 {
		t.Fatalf("expected default with one statement, got %+v", sw.Default)
	}
	if _, ok := sw.Default.Stmts[0].(cabs.EmptyStmt); !ok {
		t.Errorf("expected EmptyStmt in default, got %T", sw.Default.Stmts[0])
	}
}

func TestSizeof(t *testing.T) {
	expr := returnExpr(t, "sizeof(int[10])")
	sz, ok := expr.(cabs.Sizeof)
	if !ok {
		t.Fatalf("expected Sizeof, got %T", expr)
	}
	if sz.TargetType != "int" || !reflect.DeepEqual(sz.Dims, []int64{10}) || sz.Expr != nil {
		t.Errorf("unexpected sizeof type form: %+v", sz)
	}
	m := cabs.ToMap(sz)["attributes"].(map[string]any)
	if m["target_type"] != "int" || !reflect.DeepEqual(m["array_dimensions"], []any{int64(10)}) {
		t.Errorf("unexpected attributes: %v", m)
	}

	expr = returnExpr(t, "sizeof(x + 1)")
	sz, ok = expr.(cabs.Sizeof)
	if !ok {
		t.Fatalf("expected Sizeof, got %T", expr)
	}
	if sz.Expr == nil || sz.TargetType != "" {
		t.Errorf("unexpected sizeof expression form: %+v", sz)
	}
	m = cabs.ToMap(sz)["attributes"].(map[string]any)
	if _, has := m["target_type"]; has {
		t.Error("expression form must not carry target_type")
	}
	if _, has := m["expression"]; !has {
		t.Error("expression form must carry expression")
	}

	expr = returnExpr(t, "sizeof(int[2][])")
	if sz := expr.(cabs.Sizeof); !reflect.DeepEqual(sz.Dims, []int64{2, cabs.UnsizedDim}) {
		t.Errorf("expected dims [2 unsized], got %v", sz.Dims)
	}
}

func TestSizeofRestoresCursor(t *testing.T) {
	toks := lexer.Tokenize("sizeof(int y)")
	p := New(toks)
	_, err := p.parseSizeof()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	// the failed type attempt consumed `int`, the retry must start from it
	if perr.Token == nil || perr.Token.Type != lexer.TokenInt_ {
		t.Errorf("expected retry to fail at 'int', got %v", perr.Token)
	}
}

func TestIncludeIsTransparent(t *testing.T) {
	body := "int main(void) { int x = 1; return x * 2; }\n"
	with := mustParse(t, "#include <stdio.h>\n"+body)
	without := mustParse(t, body)

	if !reflect.DeepEqual(cabs.ToMap(with), cabs.ToMap(without)) {
		t.Errorf("include changed the tree:\n%v\n%v", cabs.ToMap(with), cabs.ToMap(without))
	}
}

func TestToMapIsStable(t *testing.T) {
	src := `
int g = 3;
int main(void) {
	for (int i = 0; i < g; i++) { if (i) g -= sizeof(char[4]); else f(i, g ? 1 : 2); }
	switch (g) { case 1: break; default: return (double)g; }
	return 0;
}`
	prog := mustParse(t, src)
	first := cabs.ToMap(prog)
	second := cabs.ToMap(prog)
	if !reflect.DeepEqual(first, second) {
		t.Error("ToMap is not stable across calls")
	}
	if first["type"] != "program" {
		t.Errorf("expected program root, got %v", first["type"])
	}
	if n := len(first["children"].([]any)); n != 2 {
		t.Errorf("expected 2 top-level children, got %d", n)
	}
}

func TestLegacyPrecedence(t *testing.T) {
	if got := exprString(returnExpr(t, "a < b & c", WithLegacyPrecedence(true))); got != "((a < b) & c)" {
		t.Errorf("legacy relational under &: got %s", got)
	}

	_, err := ParseSource("int main() { return a == b; }", WithLegacyPrecedence(true))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected == to be rejected with legacy precedence, got %v", err)
	}
	if perr.Token == nil || perr.Token.Type != lexer.TokenEq {
		t.Errorf("expected error at '==', got %v", perr.Token)
	}
}

func TestLiteralValues(t *testing.T) {
	tests := []struct {
		input string
		typ   cabs.LiteralType
		i     int64
		f     float64
		text  string
	}{
		{"42", cabs.LitInt, 42, 0, "42"},
		{"0x1F", cabs.LitInt, 31, 0, "0x1F"},
		{"017", cabs.LitInt, 15, 0, "017"},
		{"10UL", cabs.LitInt, 10, 0, "10UL"},
		{"3.5", cabs.LitFloat, 0, 3.5, "3.5"},
		{"2.5f", cabs.LitFloat, 0, 2.5, "2.5f"},
		{"1e3", cabs.LitFloat, 0, 1000, "1e3"},
		{`"abc"`, cabs.LitString, 0, 0, "abc"},
		{`'\n'`, cabs.LitChar, 0, 0, `\n`},
	}

	for _, tt := range tests {
		lit, ok := returnExpr(t, tt.input).(cabs.Literal)
		if !ok {
			t.Fatalf("%s: expected Literal", tt.input)
		}
		if lit.Type != tt.typ || lit.Int != tt.i || lit.Float != tt.f || lit.Text != tt.text {
			t.Errorf("%s: got %+v", tt.input, lit)
		}
	}
}

func TestDanglingElse(t *testing.T) {
	prog := mustParse(t, "void f() { if (a) if (b) x = 1; else x = 2; }")
	outer := prog.Definitions[0].(cabs.FunctionDecl).Body.Items[0].(cabs.If)
	if outer.Else != nil {
		t.Error("else must bind to the inner if")
	}
	inner, ok := outer.Then.(cabs.If)
	if !ok {
		t.Fatalf("expected inner If, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Error("inner if lost its else")
	}
}

func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "  // nothing\n", "#pragma once\n"} {
		prog := mustParse(t, src)
		if len(prog.Definitions) != 0 {
			t.Errorf("%q: expected no definitions, got %d", src, len(prog.Definitions))
		}
	}
}

func TestCursor(t *testing.T) {
	toks := lexer.Tokenize("int x")
	p := New(toks)

	if p.cur().Type != lexer.TokenInt_ || p.peek(1).Type != lexer.TokenIdent {
		t.Fatal("unexpected initial lookahead")
	}
	if p.peek(2) != nil {
		t.Error("peek at EOF should be nil")
	}

	if _, err := p.expectValue(lexer.TokenInt_, "long"); err == nil {
		t.Error("expectValue should reject a different spelling")
	}
	if tok, err := p.expectValue(lexer.TokenInt_, "int"); err != nil || tok.Literal != "int" {
		t.Fatalf("expectValue: %v %v", tok, err)
	}
	if _, err := p.expect(lexer.TokenSemicolon); err == nil {
		t.Error("expect should fail on IDENT")
	}
	if p.cur().Literal != "x" {
		t.Error("a failed expect must not move the cursor")
	}
	p.advance()
	if p.cur() != nil || !p.atEnd() {
		t.Error("cursor should be at end")
	}
	p.advance()
	p.advance()
	if p.cur() != nil {
		t.Error("advance past end should stay at end")
	}

	_, err := p.expect(lexer.TokenSemicolon)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected end-of-input error, got %v", err)
	}
}

func TestCursorWithoutEOFToken(t *testing.T) {
	toks := lexer.Tokenize("int x;")
	toks = toks[:len(toks)-1] // drop EOF
	prog, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Definitions) != 1 {
		t.Errorf("expected 1 definition, got %d", len(prog.Definitions))
	}
}

func TestParseErrorFormat(t *testing.T) {
	_, err := ParseSource("int main() {\n  return 1\n}")
	if err == nil || err.Error() != "line 3, col 1: expected ';', got '}'" {
		t.Errorf("unexpected error text: %v", err)
	}

	_, err = ParseSource("int main() {")
	if err == nil || err.Error() != "expected '}', got end of input" {
		t.Errorf("unexpected end-of-input text: %v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := "@\n#include <stdio.h>\nint main() { return sizeof(int z); }"
	_, _ = ParseSource(src, WithLogger(zap.New(core)))

	for _, msg := range []string{
		"skipped directive",
		"skipping unknown token",
		"sizeof operand is not a type, parsing as expression",
	} {
		if logs.FilterMessage(msg).Len() != 1 {
			t.Errorf("expected one %q entry, got %d", msg, logs.FilterMessage(msg).Len())
		}
	}
	dir := logs.FilterMessage("skipped directive").All()[0].ContextMap()
	if dir["name"] != "include" {
		t.Errorf("expected directive name include, got %v", dir["name"])
	}
}
