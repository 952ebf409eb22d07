// Package soqlparser turns SOQL query text into the typed ast.Query value
// tree defined in package ast. ParseQuery is the library's main entry
// point: it runs the lexer, the CST parser, and the AST builder in
// sequence and reports every lex/syntax error it found along the way.
// IsQueryValid is a thin wrapper over it.
package soqlparser

import (
	"errors"
	"log/slog"

	"github.com/soqlparser/soqlparser/ast"
	"github.com/soqlparser/soqlparser/parser"
	"github.com/soqlparser/soqlparser/util"
)

// Options controls ParseQuery's behavior.
type Options struct {
	// ContinueIfErrors makes ParseQuery build and return a best-effort
	// *ast.Query, alongside the joined error, when the parser reported
	// errors; when it is false ParseQuery returns only the error. Either
	// way the parser runs to the end of the input and every error it finds
	// is reported. The returned *ast.Query may be incomplete when this is
	// set and errors were found.
	ContinueIfErrors bool

	// Logging turns on slog.Debug tracing of each pipeline stage, gated by
	// the LOG_LEVEL environment variable the way util.InitSlog reads it.
	Logging bool

	// IncludeSubqueryAsField controls whether a parenthesized subquery
	// projection becomes an ast.FieldSubquery in the result's Fields list
	// (true, the default) or is silently dropped from it (false).
	IncludeSubqueryAsField bool
}

// DefaultOptions returns the default options (IncludeSubqueryAsField on,
// everything else off); IsQueryValid parses with them.
func DefaultOptions() Options {
	return Options{IncludeSubqueryAsField: true}
}

func init() {
	util.InitSlog()
}

// ParseQuery parses SOQL source text into a Query. Every lex/syntax error
// the parser accumulated is joined into one returned error. When
// opts.ContinueIfErrors is false (the default) a *Query is never returned
// alongside an error; when it is true, ParseQuery still attempts to build
// and return a best-effort *Query from whatever structure the parser
// managed to produce.
func ParseQuery(text string, opts Options) (*ast.Query, error) {
	if opts.Logging {
		slog.Debug("parsing SOQL query", "length", len(text))
	}

	p := parser.New(text, opts.ContinueIfErrors)
	stmt := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		if opts.Logging {
			slog.Debug("parser reported errors", "count", len(errs))
		}
		if !opts.ContinueIfErrors {
			return nil, joinErrors(errs)
		}
		if stmt == nil {
			return nil, joinErrors(errs)
		}
		q, buildErr := ast.BuildQuery(stmt, ast.BuildOptions{IncludeSubqueryAsField: opts.IncludeSubqueryAsField})
		if buildErr != nil {
			errs = append(errs, buildErr)
		}
		if opts.Logging && q != nil {
			slog.Debug("built query despite errors", "query", q.DebugString())
		}
		return q, joinErrors(errs)
	}

	q, err := ast.BuildQuery(stmt, ast.BuildOptions{IncludeSubqueryAsField: opts.IncludeSubqueryAsField})
	if err != nil {
		return nil, err
	}
	if opts.Logging {
		slog.Debug("built query", "query", q.DebugString())
	}
	return q, nil
}

// IsQueryValid reports whether text parses and builds without error under
// the default options.
func IsQueryValid(text string) bool {
	_, err := ParseQuery(text, DefaultOptions())
	return err == nil
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
