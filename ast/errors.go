package ast

import "fmt"

// ShapeError is raised when the CST is grammar-legal but structurally
// impossible to build into a Query/Subquery — e.g. a TYPEOF with no WHEN
// branch, or a projection list that is empty after alias post-processing.
// It should never occur on grammar-accepting input; seeing one indicates
// a builder or grammar bug, not a user query mistake.
type ShapeError struct {
	Message string
}

func (e *ShapeError) Error() string {
	return "semantic shape error: " + e.Message
}

func shapeErrorf(format string, args ...any) error {
	return &ShapeError{Message: fmt.Sprintf(format, args...)}
}
