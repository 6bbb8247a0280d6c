package compiler

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kristofer/dlox/pkg/lexer"
)

// CompileError is returned by Compile when one or more syntax errors
// were recorded during parsing (spec.md §7 "CompileError"). It wraps a
// *multierror.Error so callers that want every individual message can
// unwrap it, while fmt/%v gives the familiar newline-joined report —
// the same accumulate-then-report shape golox uses via
// hashicorp/go-multierror in its Parser.
type CompileError struct {
	errs *multierror.Error
}

func (e *CompileError) Error() string {
	return strings.Join(e.Messages(), "\n")
}

// Unwrap exposes the underlying *multierror.Error for errors.As/errors.Is.
func (e *CompileError) Unwrap() error {
	return e.errs
}

// Messages returns the individual formatted error strings, in the order
// they were recorded.
func (e *CompileError) Messages() []string {
	msgs := make([]string, len(e.errs.Errors))
	for i, err := range e.errs.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// formatErrorAt renders a single parse error in spec.md §6's exact
// diagnostic format: "[line N] Error at '<lexeme>': <msg>", or
// "[line N] Error at end: <msg>" for an EOF token. A scanner error token
// has no lexeme to point at and renders as "[line N] Error: <msg>",
// with the scanner's message taken from the token itself.
func formatErrorAt(tok lexer.Token, message string) string {
	if tok.Kind == lexer.EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", tok.Line, message)
	}
	if tok.Kind == lexer.Error {
		return fmt.Sprintf("[line %d] Error: %s", tok.Line, tok.Lexeme)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", tok.Line, tok.Lexeme, message)
}
