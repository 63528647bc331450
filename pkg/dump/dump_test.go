package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/Retryixagi/ZHCL/pkg/lexer"
	"github.com/Retryixagi/ZHCL/pkg/parser"
)

const sample = "int sq(int n) { return n * n; }"

func TestWriteC(t *testing.T) {
	prog, err := parser.ParseSource(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, prog, C); err != nil {
		t.Fatal(err)
	}
	want := "int sq(int n)\n{\n  return (n * n);\n}\n\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	prog, err := parser.ParseSource(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, prog, JSON); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Type     string `json:"type"`
		Children []struct {
			Type       string `json:"type"`
			Attributes struct {
				Name       string `json:"name"`
				ReturnType string `json:"return_type"`
				Parameters []struct {
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"parameters"`
			} `json:"attributes"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if got.Type != "program" || len(got.Children) != 1 {
		t.Fatalf("unexpected root: %+v", got)
	}
	fn := got.Children[0]
	if fn.Type != "function_declaration" || fn.Attributes.Name != "sq" || fn.Attributes.ReturnType != "int" {
		t.Errorf("unexpected function: %+v", fn)
	}
	if len(fn.Attributes.Parameters) != 1 || fn.Attributes.Parameters[0].Name != "n" {
		t.Errorf("unexpected parameters: %+v", fn.Attributes.Parameters)
	}
}

func TestWriteYAML(t *testing.T) {
	prog, err := parser.ParseSource("int x = 2;")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, prog, YAML); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	decl := got["children"].([]any)[0].(map[string]any)
	attrs := decl["attributes"].(map[string]any)
	if decl["type"] != "variable_declaration" || attrs["name"] != "x" || attrs["var_type"] != "int" {
		t.Errorf("unexpected declaration: %v", decl)
	}
	init := attrs["initializer"].(map[string]any)["attributes"].(map[string]any)
	if init["value"] != 2 || init["literal_type"] != "int" {
		t.Errorf("unexpected initializer: %v", init)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"c", "json", "yaml"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
	if err := Write(&bytes.Buffer{}, nil, Format("xml")); err == nil {
		t.Error("Write should reject unknown formats")
	}
}

func TestTokens(t *testing.T) {
	var buf bytes.Buffer
	if err := Tokens(&buf, lexer.Tokenize("x += 1;")); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"1:1\tIDENT\tx",
		"1:3\t+=",
		"1:6\tINT\t1",
		"1:7\t;",
		"1:8\tEOF",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}
