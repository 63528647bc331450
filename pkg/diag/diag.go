// Package diag turns parse errors into editor diagnostics and terminal
// reports.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/Retryixagi/ZHCL/pkg/parser"
)

// Source names the producer of every diagnostic
const Source = "zhcc"

// FromError maps err, raised while parsing src, to a single error
// diagnostic. Positions are zero-based and count UTF-16 code units; an
// error without a token position lands at 0:0.
func FromError(src string, err error) protocol.Diagnostic {
	var line, col uint32
	width := uint32(1)

	var perr *parser.ParseError
	if errors.As(err, &perr) {
		if l, c, ok := perr.Position(); ok {
			line, col = uint32(l-1), utf16Column(src, l, c)
			if n := utf16Len(perr.Token.Literal); n > 0 {
				width = n
			}
		}
	}

	msg := err.Error()
	if perr != nil {
		msg = perr.Message
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + width},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   Source,
		Message:  msg,
	}
}

// utf16Column converts a 1-based rune column on line into a zero-based
// UTF-16 offset. Columns past the end of the line count one unit each.
func utf16Column(src string, line, col int) uint32 {
	text := sourceLine(src, line)
	var n uint32
	i := 0
	for _, r := range text {
		if i >= col-1 {
			return n
		}
		n += uint32(utf16.RuneLen(r))
		i++
	}
	if i < col-1 {
		n += uint32(col - 1 - i)
	}
	return n
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}

// sourceLine returns the 1-based line of src without its terminator
func sourceLine(src string, line int) string {
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return ""
		}
		src = src[nl+1:]
	}
	if nl := strings.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	return strings.TrimRight(src, "\r")
}

// Publish builds the publishDiagnostics payload for path. A nil err clears
// the document's diagnostics.
func Publish(path string, version uint32, src string, err error) protocol.PublishDiagnosticsParams {
	return PublishURI(uri.File(path), version, src, err)
}

// PublishURI is Publish for a document already identified by URI
func PublishURI(u protocol.DocumentURI, version uint32, src string, err error) protocol.PublishDiagnosticsParams {
	params := protocol.PublishDiagnosticsParams{
		URI:         u,
		Version:     version,
		Diagnostics: []protocol.Diagnostic{},
	}
	if err != nil {
		params.Diagnostics = append(params.Diagnostics, FromError(src, err))
	}
	return params
}

// Report writes `file:line:col: message`, the offending source line and a
// caret under the column. End-of-input errors point past the last line.
func Report(w io.Writer, filename, src string, err error) {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "%s: %v\n", filename, err)
		return
	}

	lines := strings.Split(src, "\n")
	line, col, ok := perr.Position()
	if !ok {
		fmt.Fprintf(w, "%s:%d: %s\n", filename, len(lines), perr.Message)
		return
	}

	fmt.Fprintf(w, "%s:%d:%d: %s\n", filename, line, col, perr.Message)
	if line < 1 || line > len(lines) {
		return
	}
	text := strings.TrimRight(lines[line-1], "\r")
	fmt.Fprintln(w, text)

	// mirror tabs from the source line
	var pad strings.Builder
	i := 0
	for _, r := range text {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
		i++
	}
	fmt.Fprintf(w, "%s^\n", pad.String())
}
