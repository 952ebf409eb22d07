package ast

import "github.com/k0kubun/pp/v3"

// DebugString renders the query as a human-readable, indented dump —
// useful in debug logs and test failure output, not meant to round-trip
// back into SOQL text.
func (q *Query) DebugString() string {
	return pp.Sprint(q)
}

// DebugString renders the subquery the same way Query.DebugString does.
func (s *Subquery) DebugString() string {
	return pp.Sprint(s)
}
