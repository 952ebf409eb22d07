package parser

import (
	"fmt"

	"github.com/soqlparser/soqlparser/lexer"
)

// LexError reports an unrecognized character or malformed literal.
type LexError struct {
	Line, Column int
	Message      string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// SyntaxError reports a token sequence that does not match any grammar
// rule, along with the alternatives the parser was prepared to accept.
type SyntaxError struct {
	Line, Column int
	Message      string
	Expected     []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("syntax error at %d:%d: %s (expected one of %v)", e.Line, e.Column, e.Message, e.Expected)
}

// ErrorListener accumulates every lex/syntax error seen during a parse
// pass, rather than failing on the first one — the grammar layer never
// stops scanning or parsing just because an earlier token was bad, so a
// caller with ContinueIfErrors can still get a best-effort CST back.
type ErrorListener struct {
	errors []error
}

func (l *ErrorListener) lexError(pos lexer.Position, msg string) {
	l.errors = append(l.errors, &LexError{Line: pos.Line, Column: pos.Column, Message: msg})
}

func (l *ErrorListener) syntaxError(pos lexer.Position, msg string, expected ...string) {
	l.errors = append(l.errors, &SyntaxError{Line: pos.Line, Column: pos.Column, Message: msg, Expected: expected})
}

// Errors returns every error collected so far, in the order encountered.
func (l *ErrorListener) Errors() []error {
	return l.errors
}

// HasErrors reports whether any error has been collected.
func (l *ErrorListener) HasErrors() bool {
	return len(l.errors) > 0
}
