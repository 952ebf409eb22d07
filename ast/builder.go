package ast

import (
	"strings"

	"github.com/soqlparser/soqlparser/lexer"
	"github.com/soqlparser/soqlparser/parser"
	"github.com/soqlparser/soqlparser/util"
)

// BuildOptions mirrors the subset of the façade's Options that changes
// the builder's behavior.
type BuildOptions struct {
	// IncludeSubqueryAsField, when false, drops a parenthesized subquery
	// projection from the resulting Fields list instead of representing
	// it as a FieldSubquery — the query's sObject/relationshipName and
	// every other clause are unaffected.
	IncludeSubqueryAsField bool
}

// DefaultBuildOptions matches the façade's documented option defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{IncludeSubqueryAsField: true}
}

// BuildQuery walks a top-level SelectStatementNode CST into a typed Query.
func BuildQuery(stmt *parser.SelectStatementNode, opts BuildOptions) (*Query, error) {
	if stmt == nil {
		return nil, shapeErrorf("nil select statement")
	}

	prefix, name := splitSObjectPath(stmt.FromIdent)
	q := &Query{
		SObject:       name,
		SObjectPrefix: prefix,
		SObjectAlias:  stmt.FromAlias,
		UsingScope:    stmt.UsingScope,
		For:           stmt.For,
		Update:        stmt.Update,
		Limit:         stmt.Limit,
		Offset:        stmt.Offset,
	}

	fields, err := buildFields(stmt.Fields, stmt.FromAlias, opts)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, shapeErrorf("projection list is empty after alias post-processing")
	}
	q.Fields = fields

	if stmt.Where != nil {
		where, err := buildCondition(stmt.Where, opts)
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	if stmt.SecurityEnforced {
		t := true
		q.WithSecurityEnforced = &t
	}
	if len(stmt.WithDataCategory) > 0 {
		q.WithDataCategory = buildWithDataCategory(stmt.WithDataCategory)
	}

	if stmt.GroupBy != nil {
		gb, err := buildGroupBy(stmt.GroupBy, opts)
		if err != nil {
			return nil, err
		}
		q.GroupBy = gb
	}

	ob, err := buildOrderBy(stmt.OrderBy)
	if err != nil {
		return nil, err
	}
	q.OrderBy = ob

	return q, nil
}

// BuildSubquery walks a nested SelectStatementNode CST into a typed
// Subquery, recursing into any further-nested subqueries.
func BuildSubquery(stmt *parser.SelectStatementNode, opts BuildOptions) (*Subquery, error) {
	if stmt == nil {
		return nil, shapeErrorf("nil select statement")
	}

	prefix, name := splitSObjectPath(stmt.FromIdent)
	sq := &Subquery{
		RelationshipName: name,
		SObjectPrefix:    prefix,
		SObjectAlias:     stmt.FromAlias,
		For:              stmt.For,
		Update:           stmt.Update,
		Limit:            stmt.Limit,
		Offset:           stmt.Offset,
	}

	fields, err := buildFields(stmt.Fields, stmt.FromAlias, opts)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, shapeErrorf("projection list is empty after alias post-processing")
	}
	sq.Fields = fields

	if stmt.Where != nil {
		where, err := buildCondition(stmt.Where, opts)
		if err != nil {
			return nil, err
		}
		sq.Where = where
	}

	if stmt.SecurityEnforced {
		t := true
		sq.WithSecurityEnforced = &t
	}
	if len(stmt.WithDataCategory) > 0 {
		sq.WithDataCategory = buildWithDataCategory(stmt.WithDataCategory)
	}

	if stmt.GroupBy != nil {
		gb, err := buildGroupBy(stmt.GroupBy, opts)
		if err != nil {
			return nil, err
		}
		sq.GroupBy = gb
	}

	ob, err := buildOrderBy(stmt.OrderBy)
	if err != nil {
		return nil, err
	}
	sq.OrderBy = ob

	return sq, nil
}

// --- projection list + alias resolution --------------------------------

// buildFields performs spec.md §4.3's two-step projection normalization:
// first build every field at face value (splitting dotted paths into
// FieldRelationship), then reconcile against the sObject alias discovered
// from the FROM clause — a FieldRelationship whose first relationship
// segment equals the alias has that segment promoted to ObjectPrefix, and
// is rewritten to a plain Field if nothing else remains.
func buildFields(nodes []parser.SelectFieldNode, sObjectAlias string, opts BuildOptions) ([]FieldType, error) {
	built := make([]FieldType, 0, len(nodes))
	for _, n := range nodes {
		f, err := buildOneField(n, opts)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue // subquery dropped by IncludeSubqueryAsField=false
		}
		built = append(built, f)
	}

	if sObjectAlias == "" {
		return built, nil
	}
	for i, f := range built {
		if fr, ok := f.(FieldRelationship); ok && len(fr.Relationships) > 0 && fr.Relationships[0] == sObjectAlias {
			fr.ObjectPrefix = sObjectAlias
			fr.Relationships = fr.Relationships[1:]
			if len(fr.Relationships) == 0 {
				built[i] = Field{FieldName: fr.FieldName, ObjectPrefix: fr.ObjectPrefix, Alias: fr.Alias}
			} else {
				built[i] = fr
			}
		}
	}
	return built, nil
}

func buildOneField(n parser.SelectFieldNode, opts BuildOptions) (FieldType, error) {
	switch n.Kind {
	case parser.FieldKindPlain:
		return splitFieldPath(n.RawPath, n.Alias), nil

	case parser.FieldKindFunction:
		fn := buildFunctionExpression(n.Function)
		fn.Alias = n.Alias
		return *fn, nil

	case parser.FieldKindSubquery:
		if !opts.IncludeSubqueryAsField {
			return nil, nil
		}
		sq, err := BuildSubquery(n.Subquery, opts)
		if err != nil {
			return nil, err
		}
		return FieldSubquery{Subquery: sq}, nil

	case parser.FieldKindTypeof:
		return buildTypeof(n.Typeof)

	default:
		return nil, shapeErrorf("unknown select field kind %d", n.Kind)
	}
}

// splitSObjectPath splits a FROM clause's dotted sObject/relationship
// path into its namespace/path prefix segments and the final sObject or
// relationship name (spec.md §3's sObjectPrefix).
func splitSObjectPath(path string) (prefix []string, name string) {
	if !strings.Contains(path, ".") {
		return nil, path
	}
	segments := strings.Split(path, ".")
	return segments[:len(segments)-1], segments[len(segments)-1]
}

func splitFieldPath(path, alias string) FieldType {
	if !strings.Contains(path, ".") {
		return Field{FieldName: path, Alias: alias}
	}
	segments := strings.Split(path, ".")
	return FieldRelationship{
		FieldName:     segments[len(segments)-1],
		Relationships: append([]string(nil), segments[:len(segments)-1]...),
		Alias:         alias,
		RawValue:      path,
	}
}

func buildTypeof(n *parser.TypeofNode) (FieldType, error) {
	if n == nil || len(n.Whens) == 0 {
		return nil, shapeErrorf("TYPEOF requires at least one WHEN branch")
	}
	ft := FieldTypeof{FieldName: n.Field}
	for _, w := range n.Whens {
		ft.Conditions = append(ft.Conditions, TypeofCondition{
			Type: "WHEN", ObjectType: w.ObjectType, FieldList: w.Fields,
		})
	}
	if n.Else != nil {
		ft.Conditions = append(ft.Conditions, TypeofCondition{Type: "ELSE", FieldList: n.Else})
	}
	return ft, nil
}

// --- function expressions --------------------------------------------------

// aggregateFunctionNames mirrors lexer.AggregateFunctions by name, since a
// FunctionCallNode only carries the function's spelled-out name, plus
// DISTANCE — spec.md §4.3 calls out DISTANCE(...) as always building with
// isAggregateFn = true, same as the numeric aggregates.
var aggregateFunctionNames = map[string]bool{
	"COUNT": true, "COUNT_DISTINCT": true, "SUM": true, "AVG": true,
	"MIN": true, "MAX": true, "DISTANCE": true,
}

func buildFunctionExpression(n *parser.FunctionCallNode) *FieldFunctionExpression {
	fn := &FieldFunctionExpression{
		FunctionName:  n.Name,
		IsAggregateFn: aggregateFunctionNames[n.Name],
	}
	fn.Parameters = util.TransformSlice(n.Args, buildFunctionParam)
	params := util.TransformSlice(fn.Parameters, FunctionParameter.RawValue)
	fn.RawValue = n.Name + "(" + strings.Join(params, ", ") + ")"
	return fn
}

func buildFunctionParam(arg parser.FuncArgNode) FunctionParameter {
	switch arg.Kind {
	case parser.FuncArgFunc:
		return FunctionParameter{Kind: FunctionParamNested, Nested: buildFunctionExpression(arg.Func)}
	case parser.FuncArgLiteral:
		return FunctionParameter{Kind: FunctionParamLiteral, Literal: arg.Literal.Image}
	default:
		return FunctionParameter{Kind: FunctionParamIdent, Ident: arg.Ident}
	}
}

// --- where / having expression tree --------------------------------------------------

func buildCondition(n *parser.ConditionNode, opts BuildOptions) (*Condition, error) {
	head := &Condition{}
	cur := head
	src := n
	for src != nil {
		cur.OpenParen = src.OpenParen
		cur.CloseParen = src.CloseParen
		if src.LogicalPrefixNot {
			cur.LogicalPrefix = "NOT"
		}
		cur.Operator = src.Operator

		if src.LHSFunc != nil {
			cur.Fn = buildFunctionExpression(src.LHSFunc)
		} else {
			cur.Field = src.LHSField
		}

		switch {
		case src.RHSSubquery != nil:
			sq, err := BuildSubquery(src.RHSSubquery, opts)
			if err != nil {
				return nil, err
			}
			cur.ValueQuery = sq
		case src.RHSBindVar != "":
			cur.ApexBindVariable = src.RHSBindVar
		case src.RHSLiteralList != nil:
			classifyLiteralList(cur, src.RHSLiteralList)
		case src.RHSLiteral != nil:
			lt, dv := classifyLiteral(src.RHSLiteral)
			cur.Value = src.RHSLiteral.Image
			cur.LiteralType = lt
			cur.DateLiteralVariable = dv
		}

		if src.Right != nil {
			cur.LogicalOperator = src.Connective
			next := &Condition{}
			cur.Right = next
			cur = next
		}
		src = src.Right
	}
	return head, nil
}

func classifyLiteral(lit *parser.LiteralNode) (LiteralType, *int) {
	switch lit.TokenType {
	case lexer.NULL:
		return LiteralNull, nil
	case lexer.TRUE, lexer.FALSE:
		return LiteralBoolean, nil
	case lexer.STRING_LITERAL:
		return LiteralString, nil
	case lexer.UNSIGNED_INTEGER, lexer.SIGNED_INTEGER:
		return LiteralInteger, nil
	case lexer.REAL_NUMBER:
		return LiteralDecimal, nil
	case lexer.CURRENCY_PREFIXED_INTEGER:
		return LiteralIntegerWithCurrencyPrefix, nil
	case lexer.CURRENCY_PREFIXED_DECIMAL:
		return LiteralDecimalWithCurrencyPrefix, nil
	case lexer.DATE_LITERAL_TOKEN:
		return LiteralDate, nil
	case lexer.DATETIME_LITERAL_TOKEN:
		return LiteralDatetime, nil
	default:
		if lexer.DateLiterals[lit.TokenType] {
			return LiteralDateLiteral, nil
		}
		if lexer.DateNLiterals[lit.TokenType] {
			v := lit.Variable
			return LiteralDateNLiteral, &v
		}
		return LiteralString, nil
	}
}

// classifyLiteralList implements spec.md §4.3's array-literal classification:
// each element is classified independently; if every tag agrees the
// enclosing literalType collapses to that scalar tag, otherwise the full
// per-element sequence is kept. A parallel date-N variable sequence is
// attached whenever any element is a date-N literal.
func classifyLiteralList(cond *Condition, lits []parser.LiteralNode) {
	types := make([]LiteralType, len(lits))
	vars := make([]*int, len(lits))
	hasDateN := false
	values := make([]string, len(lits))
	for i, l := range lits {
		lt, dv := classifyLiteral(&l)
		types[i] = lt
		vars[i] = dv
		values[i] = l.Image
		if dv != nil {
			hasDateN = true
		}
	}

	cond.Value = "(" + strings.Join(values, ", ") + ")"

	homogeneous := true
	for _, t := range types[1:] {
		if t != types[0] {
			homogeneous = false
			break
		}
	}
	if homogeneous {
		cond.LiteralType = types[0]
	} else {
		cond.LiteralTypeList = types
	}
	if hasDateN {
		cond.DateLiteralVariables = vars
	}
}

// --- group by / order by / with data category --------------------------------------------------

func buildGroupBy(n *parser.GroupByNode, opts BuildOptions) (*GroupByClause, error) {
	gb := &GroupByClause{}
	if n.Fn != nil {
		gb.Fn = buildFunctionExpression(n.Fn)
	} else if len(n.Fields) == 1 {
		gb.Field = n.Fields[0]
	} else {
		gb.Fields = n.Fields
	}
	if n.Having != nil {
		having, err := buildCondition(n.Having, opts)
		if err != nil {
			return nil, err
		}
		gb.Having = having
	}
	return gb, nil
}

func buildOrderBy(nodes []parser.OrderByNode) (OrderByResult, error) {
	if len(nodes) == 0 {
		return OrderByResult{}, nil
	}
	items := make([]OrderByClause, 0, len(nodes))
	for _, n := range nodes {
		item := OrderByClause{Order: n.Order, Nulls: n.Nulls}
		if n.Fn != nil {
			item.Fn = buildFunctionExpression(n.Fn)
		} else {
			item.Field = n.Field
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return OrderByResult{Single: &items[0]}, nil
	}
	return OrderByResult{Multiple: items}, nil
}

func buildWithDataCategory(nodes []parser.WithDataCategoryNode) *WithDataCategory {
	wdc := &WithDataCategory{}
	for _, n := range nodes {
		wdc.Conditions = append(wdc.Conditions, WithDataCategoryCondition{
			GroupName: n.GroupName, Selector: n.Selector, Parameters: n.Parameters,
		})
	}
	return wdc
}
