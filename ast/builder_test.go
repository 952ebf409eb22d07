package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soqlparser/soqlparser/lexer"
	"github.com/soqlparser/soqlparser/parser"
)

func mustBuild(t *testing.T, sql string) *Query {
	t.Helper()
	p := parser.New(sql, false)
	stmt := p.Parse()
	require.Empty(t, p.Errors())
	q, err := BuildQuery(stmt, DefaultBuildOptions())
	require.NoError(t, err)
	return q
}

func TestBuildQuerySimpleField(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM Account")
	require.Len(t, q.Fields, 1)
	f, ok := q.Fields[0].(Field)
	require.True(t, ok)
	assert.Equal(t, "Id", f.FieldName)
	assert.Equal(t, "Account", q.SObject)
}

func TestBuildQueryNamespacedSObject(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM My_Namespace__mynamespace.Account__c")
	assert.Equal(t, "Account__c", q.SObject)
	assert.Equal(t, []string{"My_Namespace__mynamespace"}, q.SObjectPrefix)
}

func TestBuildQueryWhereStringLiteral(t *testing.T) {
	q := mustBuild(t, "SELECT Id, Name FROM Account WHERE Name = 'foo'")
	require.NotNil(t, q.Where)
	assert.Equal(t, "Name", q.Where.Field)
	assert.Equal(t, "=", q.Where.Operator)
	assert.Equal(t, LiteralString, q.Where.LiteralType)
	assert.Equal(t, "'foo'", q.Where.Value)
}

func TestBuildQueryDateNLiteral(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM Opportunity WHERE CreatedDate = LAST_N_DAYS:7")
	require.NotNil(t, q.Where)
	assert.Equal(t, LiteralDateNLiteral, q.Where.LiteralType)
	require.NotNil(t, q.Where.DateLiteralVariable)
	assert.Equal(t, 7, *q.Where.DateLiteralVariable)
	assert.Equal(t, "LAST_N_DAYS:7", q.Where.Value)
}

func TestBuildQueryAliasResolution(t *testing.T) {
	q := mustBuild(t, "SELECT a.Id, a.Name, a.Owner.Name FROM Account a")
	require.Len(t, q.Fields, 3)

	f0, ok := q.Fields[0].(Field)
	require.True(t, ok)
	assert.Equal(t, "Id", f0.FieldName)
	assert.Equal(t, "a", f0.ObjectPrefix)

	f1, ok := q.Fields[1].(Field)
	require.True(t, ok)
	assert.Equal(t, "Name", f1.FieldName)
	assert.Equal(t, "a", f1.ObjectPrefix)

	f2, ok := q.Fields[2].(FieldRelationship)
	require.True(t, ok)
	assert.Equal(t, "Name", f2.FieldName)
	assert.Equal(t, "a", f2.ObjectPrefix)
	assert.Equal(t, []string{"Owner"}, f2.Relationships)
}

func TestBuildQuerySubqueryField(t *testing.T) {
	q := mustBuild(t, "SELECT Id, (SELECT Id FROM Contacts) FROM Account")
	require.Len(t, q.Fields, 2)
	sub, ok := q.Fields[1].(FieldSubquery)
	require.True(t, ok)
	assert.Equal(t, "Contacts", sub.Subquery.RelationshipName)
	assert.Len(t, sub.Subquery.Fields, 1)
}

func TestBuildQueryDroppedSubqueryField(t *testing.T) {
	p := parser.New("SELECT Id, (SELECT Id FROM Contacts) FROM Account", false)
	stmt := p.Parse()
	require.Empty(t, p.Errors())
	q, err := BuildQuery(stmt, BuildOptions{IncludeSubqueryAsField: false})
	require.NoError(t, err)
	require.Len(t, q.Fields, 1)
	f, ok := q.Fields[0].(Field)
	require.True(t, ok)
	assert.Equal(t, "Id", f.FieldName)
}

func TestBuildQueryAggregateGroupByHaving(t *testing.T) {
	q := mustBuild(t, "SELECT COUNT(Id), Type FROM Account GROUP BY Type HAVING COUNT(Id) > 5")
	fn, ok := q.Fields[0].(FieldFunctionExpression)
	require.True(t, ok)
	assert.True(t, fn.IsAggregateFn)
	assert.Equal(t, "COUNT(Id)", fn.RawValue)

	require.NotNil(t, q.GroupBy)
	assert.Equal(t, "Type", q.GroupBy.Field)
	require.NotNil(t, q.GroupBy.Having)
	assert.Equal(t, ">", q.GroupBy.Having.Operator)
	assert.Equal(t, "5", q.GroupBy.Having.Value)
}

func TestBuildQueryDistanceFunctionIsAggregate(t *testing.T) {
	q := mustBuild(t, "SELECT DISTANCE(Location__c, GEOLOCATION(37.775,-122.418), 'mi') FROM Warehouse__c WHERE DISTANCE(Location__c, GEOLOCATION(37.775,-122.418), 'mi') < 20")
	fn, ok := q.Fields[0].(FieldFunctionExpression)
	require.True(t, ok)
	assert.True(t, fn.IsAggregateFn)

	require.NotNil(t, q.Where)
	require.NotNil(t, q.Where.Fn)
	assert.True(t, q.Where.Fn.IsAggregateFn)
	assert.Equal(t, "<", q.Where.Operator)
}

func TestBuildQueryOrderByCollapsesToScalar(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM Account ORDER BY Name DESC")
	assert.False(t, q.OrderBy.IsEmpty())
	require.NotNil(t, q.OrderBy.Single)
	assert.Equal(t, "Name", q.OrderBy.Single.Field)
	assert.Equal(t, "DESC", q.OrderBy.Single.Order)
	assert.Len(t, q.OrderBy.List(), 1)
}

func TestBuildQueryOrderByMultiple(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM Account ORDER BY Name ASC, CreatedDate DESC NULLS FIRST")
	require.Len(t, q.OrderBy.Multiple, 2)
	assert.Equal(t, "FIRST", q.OrderBy.Multiple[1].Nulls)
}

func TestBuildQueryWithDataCategoryFlattensAndChain(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM KnowledgeArticleVersion WITH DATA CATEGORY Geography__c AT California__c AND Product__c ABOVE_OR_BELOW Mobile_Phones__c")
	require.NotNil(t, q.WithDataCategory)
	require.Len(t, q.WithDataCategory.Conditions, 2)
	assert.Equal(t, "Geography__c", q.WithDataCategory.Conditions[0].GroupName)
	assert.Equal(t, "ABOVE_OR_BELOW", q.WithDataCategory.Conditions[1].Selector)
}

func TestBuildQueryParenthesesPreserved(t *testing.T) {
	q := mustBuild(t, "SELECT Id FROM Account WHERE (Industry NOT IN ('Banking')) AND Name LIKE 'A%'")
	require.NotNil(t, q.Where)
	assert.Equal(t, 1, q.Where.OpenParen)
	assert.Equal(t, 1, q.Where.CloseParen)
	assert.Equal(t, "NOT IN", q.Where.Operator)
	require.NotNil(t, q.Where.Right)
	assert.Equal(t, "AND", q.Where.LogicalOperator)
	assert.Equal(t, "LIKE", q.Where.Right.Operator)
}

func TestBuildQueryHomogeneousLiteralListCollapses(t *testing.T) {
	p := parser.New("SELECT Id FROM Account WHERE Industry IN ('Banking', 'Energy')", false)
	stmt := p.Parse()
	require.Empty(t, p.Errors())
	q, err := BuildQuery(stmt, DefaultBuildOptions())
	require.NoError(t, err)
	assert.Equal(t, LiteralString, q.Where.LiteralType)
	assert.Nil(t, q.Where.LiteralTypeList)
}

func TestBuildQueryTypeofRejectsEmptyWhens(t *testing.T) {
	_, err := buildTypeof(&parser.TypeofNode{Field: "What"})
	require.Error(t, err)
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestClassifyLiteralCurrencyPrefixed(t *testing.T) {
	lt, dv := classifyLiteral(&parser.LiteralNode{TokenType: lexer.CURRENCY_PREFIXED_DECIMAL, Image: "USD100.50"})
	assert.Equal(t, LiteralDecimalWithCurrencyPrefix, lt)
	assert.Nil(t, dv)
}
