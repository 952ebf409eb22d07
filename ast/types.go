// Package ast defines the typed, immutable result of parsing a SOQL
// query — the Query/Subquery value tree described in spec.md §3 — and the
// builder that walks a parser.SelectStatementNode CST to produce one.
//
// Per spec.md §9's design note, the source's dynamic "type" string tag on
// every node is replaced here with a sealed set of Go struct types plus a
// private marker method; a TypeName() method on each synthesizes the tag
// only where something outside this package needs it (debug output,
// serialization boundaries).
package ast

// LiteralType classifies an atomic right-hand-side value.
type LiteralType string

const (
	LiteralString                   LiteralType = "STRING"
	LiteralInteger                  LiteralType = "INTEGER"
	LiteralDecimal                  LiteralType = "DECIMAL"
	LiteralIntegerWithCurrencyPrefix LiteralType = "INTEGER_WITH_CURRENCY_PREFIX"
	LiteralDecimalWithCurrencyPrefix LiteralType = "DECIMAL_WITH_CURRENCY_PREFIX"
	LiteralBoolean                  LiteralType = "BOOLEAN"
	LiteralDate                     LiteralType = "DATE"
	LiteralDatetime                 LiteralType = "DATETIME"
	LiteralNull                     LiteralType = "NULL"
	LiteralDateLiteral              LiteralType = "DATE_LITERAL"
	LiteralDateNLiteral             LiteralType = "DATE_N_LITERAL"
	LiteralApexBindVariable         LiteralType = "APEX_BIND_VARIABLE"
	LiteralSubquery                 LiteralType = "SUBQUERY"
)

// Query is the top-level result of parsing a non-subquery SELECT
// statement. All fields are populated once at construction time and never
// mutated afterward.
type Query struct {
	Fields        []FieldType
	SObject       string
	SObjectAlias  string
	SObjectPrefix []string

	UsingScope string

	Where                *Condition
	WithSecurityEnforced *bool
	WithDataCategory     *WithDataCategory

	GroupBy *GroupByClause
	OrderBy OrderByResult

	Limit  *int
	Offset *int

	For    string // "VIEW" or "REFERENCE"
	Update string // "TRACKING" or "VIEWSTAT"
}

// Subquery is structurally like Query except the sObject concept is
// replaced by a relationship traversed from the outer object, and it
// never carries a USING SCOPE clause.
type Subquery struct {
	Fields           []FieldType
	RelationshipName string
	SObjectPrefix    []string
	SObjectAlias     string

	Where                *Condition
	WithSecurityEnforced *bool
	WithDataCategory     *WithDataCategory

	GroupBy *GroupByClause
	OrderBy OrderByResult

	Limit  *int
	Offset *int

	For    string
	Update string
}

// OrderByResult models spec.md §9's open question: the source collapses
// a single ORDER BY criterion to a scalar and returns a sequence
// otherwise. List() always gives callers the sequence view regardless of
// which form was produced.
type OrderByResult struct {
	Single   *OrderByClause
	Multiple []OrderByClause
}

// List returns every ORDER BY criterion in order, regardless of whether
// the clause collapsed to a single scalar value.
func (o OrderByResult) List() []OrderByClause {
	if o.Single != nil {
		return []OrderByClause{*o.Single}
	}
	return o.Multiple
}

// IsEmpty reports whether there was no ORDER BY clause at all.
func (o OrderByResult) IsEmpty() bool {
	return o.Single == nil && o.Multiple == nil
}

// FieldType is the sealed set of projection-list item shapes.
type FieldType interface {
	TypeName() string
	isFieldType()
}

// Field is a direct column reference on the root object.
type Field struct {
	FieldName    string
	ObjectPrefix string // alias prefix stripped from a dotted path, if any
	Alias        string
}

func (Field) isFieldType()      {}
func (Field) TypeName() string { return "Field" }

// FieldRelationship is a dotted relationship path. Relationships holds the
// segments before the final field name; a leading segment equal to the
// root sObject's alias is moved into ObjectPrefix instead. RawValue keeps
// the original dotted text.
type FieldRelationship struct {
	FieldName     string
	Relationships []string
	ObjectPrefix  string
	Alias         string
	RawValue      string
}

func (FieldRelationship) isFieldType()      {}
func (FieldRelationship) TypeName() string { return "FieldRelationship" }

// FunctionParamKind distinguishes the shapes a function call parameter in
// the AST can take.
type FunctionParamKind int

const (
	FunctionParamIdent FunctionParamKind = iota
	FunctionParamLiteral
	FunctionParamNested
)

// FunctionParameter is one positional argument of a FieldFunctionExpression.
type FunctionParameter struct {
	Kind    FunctionParamKind
	Ident   string
	Literal string
	Nested  *FieldFunctionExpression
}

// RawValue reconstructs this parameter's contribution to the enclosing
// function's raw text.
func (p FunctionParameter) RawValue() string {
	switch p.Kind {
	case FunctionParamNested:
		return p.Nested.RawValue
	case FunctionParamLiteral:
		return p.Literal
	default:
		return p.Ident
	}
}

// FieldFunctionExpression is a function call: an aggregate (COUNT, SUM,
// ...), a date-part function (CALENDAR_YEAR, ...), FORMAT,
// CONVERT_CURRENCY, TOLABEL, DISTANCE, or GEOLOCATION.
type FieldFunctionExpression struct {
	FunctionName  string
	Parameters    []FunctionParameter
	IsAggregateFn bool
	Alias         string
	RawValue      string
}

func (FieldFunctionExpression) isFieldType()      {}
func (FieldFunctionExpression) TypeName() string { return "FieldFunctionExpression" }

// FieldSubquery is a nested relationship query projected as a field.
type FieldSubquery struct {
	Subquery *Subquery
}

func (FieldSubquery) isFieldType()      {}
func (FieldSubquery) TypeName() string { return "FieldSubquery" }

// TypeofCondition is one branch of a FieldTypeof: either a WHEN/THEN pair
// or the trailing ELSE.
type TypeofCondition struct {
	Type       string // "WHEN" or "ELSE"
	ObjectType string // empty for ELSE
	FieldList  []string
}

// FieldTypeof is a polymorphic TYPEOF projection.
type FieldTypeof struct {
	FieldName  string
	Conditions []TypeofCondition
}

func (FieldTypeof) isFieldType()      {}
func (FieldTypeof) TypeName() string { return "FieldTypeof" }

// Condition is one node of the left-linked WHERE/HAVING expression chain.
// The left-hand side is exactly one of Field or Fn; the right-hand side is
// exactly one of Value(+LiteralType[List]), ValueQuery, or ApexBindVariable.
type Condition struct {
	Field string
	Fn    *FieldFunctionExpression

	Operator string // relational or set operator

	Value               string
	LiteralType         LiteralType   // scalar tag; "" when LiteralTypeList is used instead
	LiteralTypeList      []LiteralType // non-nil only for heterogeneous array literals
	DateLiteralVariable  *int
	DateLiteralVariables []*int // parallel to LiteralTypeList/array elements; nil entries at non-date-N positions

	ValueQuery      *Subquery
	ApexBindVariable string

	LogicalPrefix string // "NOT" or ""
	OpenParen     int
	CloseParen    int

	LogicalOperator string // "AND"/"OR" joining to Right, or "" at the chain's end
	Right           *Condition
}

// GroupByClause models a GROUP BY, collapsing to a scalar Field when
// there is exactly one grouped field (spec.md §3), or carrying a CUBE/
// ROLLUP function expression instead.
type GroupByClause struct {
	Field  string
	Fields []string // used instead of Field when more than one column is grouped
	Fn     *FieldFunctionExpression
	Having *Condition
}

// OrderByClause is one ORDER BY criterion.
type OrderByClause struct {
	Field string
	Fn    *FieldFunctionExpression
	Order string // "ASC", "DESC", or ""
	Nulls string // "FIRST", "LAST", or ""
}

// WithDataCategoryCondition is one clause of a WITH DATA CATEGORY filter.
type WithDataCategoryCondition struct {
	GroupName  string
	Selector   string // AT, ABOVE, BELOW, ABOVE_OR_BELOW
	Parameters []string
}

// WithDataCategory holds every condition of a WITH DATA CATEGORY clause.
// Per spec.md §9's resolved open question, conditions from a repeated
// "AND" chain and from multiple WITH DATA CATEGORY clauses both flatten
// into this one sequence.
type WithDataCategory struct {
	Conditions []WithDataCategoryCondition
}
