// Package dump renders parse results for the command line
package dump

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/Retryixagi/ZHCL/pkg/cabs"
	"github.com/Retryixagi/ZHCL/pkg/lexer"
)

// Format selects the AST rendering
type Format string

const (
	C    Format = "c"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case C, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want c, json or yaml)", s)
}

// Write renders prog to w. The json and yaml forms encode cabs.ToMap.
func Write(w io.Writer, prog *cabs.Program, format Format) error {
	switch format {
	case C:
		cabs.NewPrinter(w).PrintProgram(prog)
		return nil
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cabs.ToMap(prog))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cabs.ToMap(prog)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// Tokens writes one token per line as `line:col TYPE literal`
func Tokens(w io.Writer, toks []lexer.Token) error {
	for _, tok := range toks {
		var err error
		if tok.Literal == "" || tok.Literal == tok.Type.String() {
			_, err = fmt.Fprintf(w, "%d:%d\t%s\n", tok.Line, tok.Column, tok.Type)
		} else {
			_, err = fmt.Fprintf(w, "%d:%d\t%s\t%s\n", tok.Line, tok.Column, tok.Type, tok.Literal)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
