// Package parser turns a SOQL token stream into a concrete syntax tree
// (CST): a shape-faithful but not yet semantically interpreted
// representation of the query. The ast package's builder walks this tree
// to produce the typed Query/Subquery value; this package only knows the
// grammar, never field-alias resolution or literal classification beyond
// what the lexer's token type already tells it.
package parser

import "github.com/soqlparser/soqlparser/lexer"

// SelectStatementNode is the CST root for both a top-level query and a
// nested subquery — the grammar rule is identical (spec.md §4.2); which
// one a given node represents is decided by the caller's context
// (IsSubquery), not by a different node shape.
type SelectStatementNode struct {
	Fields []SelectFieldNode

	FromIdent  string
	FromAlias  string
	UsingScope string

	Where            *ConditionNode
	SecurityEnforced bool
	WithDataCategory []WithDataCategoryNode

	GroupBy *GroupByNode
	OrderBy []OrderByNode

	Limit  *int
	Offset *int

	For    string
	Update string
}

type FieldKind int

const (
	FieldKindPlain FieldKind = iota
	FieldKindFunction
	FieldKindSubquery
	FieldKindTypeof
)

// SelectFieldNode is one item of the select clause's projection list.
type SelectFieldNode struct {
	Kind FieldKind

	RawPath string // dotted field path, for FieldKindPlain

	Function *FunctionCallNode // for FieldKindFunction
	Subquery *SelectStatementNode
	Typeof   *TypeofNode

	Alias string
}

// FuncArgKind distinguishes the shapes a function argument can take.
type FuncArgKind int

const (
	FuncArgIdent FuncArgKind = iota
	FuncArgFunc
	FuncArgLiteral
)

type FuncArgNode struct {
	Kind    FuncArgKind
	Ident   string
	Func    *FunctionCallNode
	Literal *LiteralNode
}

// FunctionCallNode is a function invocation: COUNT(Id), DISTANCE(...),
// CALENDAR_YEAR(CreatedDate), CUBE(a, b), and so on.
type FunctionCallNode struct {
	Name string
	Args []FuncArgNode
}

// TypeofNode is a TYPEOF polymorphic projection.
type TypeofNode struct {
	Field string
	Whens []TypeofWhenNode
	Else  []string // nil if no ELSE branch
}

type TypeofWhenNode struct {
	ObjectType string
	Fields     []string
}

// LiteralNode is an atomic right-hand-side value as the lexer classified
// it: its token type, original image, and (for date-N literals) the
// parsed ":N" variable.
type LiteralNode struct {
	TokenType lexer.TokenType
	Image     string
	Variable  int
	HasVar    bool
}

// ConditionNode is one node of the left-linked WHERE/HAVING expression
// chain described in spec.md §3: a logical-prefix NOT, a parenthesis
// count on each side, an LHS that is either a field path or a function
// call, a relational/set operator, an RHS that is a literal, a list of
// literals, a subquery, or a bind variable, and a link to the next node
// joined by a logical connective.
type ConditionNode struct {
	LogicalPrefixNot bool
	OpenParen        int

	LHSField string
	LHSFunc  *FunctionCallNode

	Operator string // =, !=, <, <=, >, >=, LIKE, IN, NOT IN, INCLUDES, EXCLUDES

	RHSLiteral     *LiteralNode
	RHSLiteralList []LiteralNode
	RHSSubquery    *SelectStatementNode
	RHSBindVar     string

	CloseParen int

	Connective string // "AND", "OR", or "" when this is the last node
	Right      *ConditionNode
}

// GroupByNode is a GROUP BY clause: either a plain field list or a
// CUBE(...)/ROLLUP(...) function wrapper, plus an optional HAVING chain.
type GroupByNode struct {
	Fields []string
	Fn     *FunctionCallNode
	Having *ConditionNode
}

// OrderByNode is one ORDER BY criterion.
type OrderByNode struct {
	Field string
	Fn    *FunctionCallNode
	Order string // ASC, DESC, or ""
	Nulls string // FIRST, LAST, or ""
}

// WithDataCategoryNode is one condition of a WITH DATA CATEGORY clause.
type WithDataCategoryNode struct {
	GroupName  string
	Selector   string // AT, ABOVE, BELOW, ABOVE_OR_BELOW
	Parameters []string
}
