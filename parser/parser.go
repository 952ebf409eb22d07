package parser

import (
	"strconv"
	"strings"

	"github.com/soqlparser/soqlparser/lexer"
)

// maxParseDepth bounds subquery nesting (each nested SELECT and each
// condition expression inside it counts one level) so that a pathological
// input (thousands of nested subqueries) fails with a SyntaxError instead
// of exhausting the goroutine stack. Parentheses around conditions are
// counted in a loop without recursion, so they are not limited by it.
const maxParseDepth = 512

// Parser is a hand-written recursive-descent parser over a SOQL token
// stream. It owns its tokenizer and error listener; nothing is shared
// between Parser instances.
type Parser struct {
	tk               *lexer.Tokenizer
	cur              lexer.Token
	errs             *ErrorListener
	continueIfErrors bool
	depth            int
}

// New creates a Parser over SOQL source text.
func New(sql string, continueIfErrors bool) *Parser {
	p := &Parser{
		tk:               lexer.NewTokenizer(sql),
		errs:             &ErrorListener{},
		continueIfErrors: continueIfErrors,
	}
	p.cur = p.scanNext()
	return p
}

// Errors returns the accumulated lex/syntax errors.
func (p *Parser) Errors() []error {
	return p.errs.Errors()
}

// scanNext pulls tokens from the tokenizer until it gets something other
// than ILLEGAL, recording a LexError for each one it skips — an
// unrecognized character is always a lex problem, never a grammar one, so
// it is reported and discarded rather than handed to the grammar rules.
func (p *Parser) scanNext() lexer.Token {
	for {
		tok := p.tk.Scan()
		if tok.Type != lexer.ILLEGAL {
			return tok
		}
		p.errs.lexError(tok.Pos, "unrecognized input: "+tok.Image)
		if tok.Type == lexer.EOF {
			return tok
		}
	}
}

func (p *Parser) advance() {
	if p.cur.Type == lexer.EOF {
		return
	}
	p.cur = p.scanNext()
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur.Type == tt
}

// expect consumes the current token if it matches tt, recording a syntax
// error otherwise. It always returns the token that was current, and a
// synthetic EOF-shaped one is returned when input has already run out.
func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	if p.cur.Type != tt {
		p.errs.syntaxError(p.cur.Pos, "unexpected "+lexer.TokenTypeName(p.cur.Type), what)
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) enterDepth() bool {
	p.depth++
	if p.depth > maxParseDepth {
		p.errs.syntaxError(p.cur.Pos, "maximum nesting depth exceeded")
		return false
	}
	return true
}

func (p *Parser) exitDepth() {
	p.depth--
}

// failing reports whether the parser should stop producing structure —
// true only when errors exist and the caller asked not to continue.
func (p *Parser) failing() bool {
	return p.errs.HasErrors() && !p.continueIfErrors
}

// Parse parses a full top-level SELECT statement.
func (p *Parser) Parse() *SelectStatementNode {
	stmt := p.parseSelectStatement(false)
	if p.cur.Type != lexer.EOF {
		p.errs.syntaxError(p.cur.Pos, "unexpected trailing input: "+lexer.TokenTypeName(p.cur.Type))
	}
	return stmt
}

func (p *Parser) parseSelectStatement(isSubquery bool) *SelectStatementNode {
	if !p.enterDepth() {
		return nil
	}
	defer p.exitDepth()

	stmt := &SelectStatementNode{}

	p.expect(lexer.SELECT, "SELECT")
	stmt.Fields = p.parseSelectClause()

	p.expect(lexer.FROM, "FROM")
	stmt.FromIdent, stmt.FromAlias = p.parseFromClause()

	if !isSubquery && p.at(lexer.USING) {
		stmt.UsingScope = p.parseUsingScopeClause()
	}

	if p.at(lexer.WHERE) {
		stmt.Where = p.parseWhereClause()
	}

	for p.at(lexer.WITH) {
		securityEnforced, category := p.parseWithClause()
		if securityEnforced {
			stmt.SecurityEnforced = true
		}
		if category != nil {
			stmt.WithDataCategory = append(stmt.WithDataCategory, category...)
		}
	}

	if p.at(lexer.GROUP) {
		stmt.GroupBy = p.parseGroupByClause()
	}

	if p.at(lexer.ORDER) {
		stmt.OrderBy = p.parseOrderByClause()
	}

	if p.at(lexer.LIMIT) {
		p.advance()
		n := p.parseUnsignedInt("LIMIT value")
		stmt.Limit = &n
	}

	if p.at(lexer.OFFSET) {
		p.advance()
		n := p.parseUnsignedInt("OFFSET value")
		stmt.Offset = &n
	}

	if !isSubquery && p.at(lexer.FOR) {
		p.advance()
		switch p.cur.Type {
		case lexer.VIEW:
			stmt.For = "VIEW"
			p.advance()
		case lexer.REFERENCE:
			stmt.For = "REFERENCE"
			p.advance()
		default:
			p.errs.syntaxError(p.cur.Pos, "expected VIEW or REFERENCE", "VIEW", "REFERENCE")
		}
	}

	if !isSubquery && p.at(lexer.UPDATE) {
		p.advance()
		switch p.cur.Type {
		case lexer.TRACKING:
			stmt.Update = "TRACKING"
			p.advance()
		case lexer.VIEWSTAT:
			stmt.Update = "VIEWSTAT"
			p.advance()
		default:
			p.errs.syntaxError(p.cur.Pos, "expected TRACKING or VIEWSTAT", "TRACKING", "VIEWSTAT")
		}
	}

	return stmt
}

func (p *Parser) parseUnsignedInt(what string) int {
	tok := p.expect(lexer.UNSIGNED_INTEGER, what)
	n, _ := strconv.Atoi(tok.Image)
	return n
}

// --- select clause -----------------------------------------------------

func (p *Parser) parseSelectClause() []SelectFieldNode {
	var fields []SelectFieldNode
	fields = append(fields, p.parseSelectField())
	for p.at(lexer.COMMA) {
		p.advance()
		fields = append(fields, p.parseSelectField())
	}
	return fields
}

func (p *Parser) parseSelectField() SelectFieldNode {
	switch {
	case p.at(lexer.TYPEOF):
		return SelectFieldNode{Kind: FieldKindTypeof, Typeof: p.parseTypeof()}
	case p.at(lexer.LPAREN):
		p.advance()
		sub := p.parseSelectStatement(true)
		p.expect(lexer.RPAREN, ")")
		return SelectFieldNode{Kind: FieldKindSubquery, Subquery: sub}
	case lexer.FunctionNameTokens[p.cur.Type]:
		name := strings.ToUpper(p.cur.Image)
		p.advance()
		fn := p.parseFunctionCallArgs(name)
		alias := p.parseOptionalAlias()
		return SelectFieldNode{Kind: FieldKindFunction, Function: fn, Alias: alias}
	case p.at(lexer.IDENT):
		path := p.cur.Image
		p.advance()
		alias := p.parseOptionalAlias()
		return SelectFieldNode{Kind: FieldKindPlain, RawPath: path, Alias: alias}
	default:
		p.errs.syntaxError(p.cur.Pos, "expected a field, function call, TYPEOF, or subquery", "Identifier", "TYPEOF", "(")
		p.advance()
		return SelectFieldNode{Kind: FieldKindPlain}
	}
}

func (p *Parser) parseOptionalAlias() string {
	if p.at(lexer.AS) {
		p.advance()
	}
	if p.at(lexer.IDENT) {
		alias := p.cur.Image
		p.advance()
		return alias
	}
	return ""
}

// parseFunctionCallArgs parses the "(arg, arg, ...)" part of a function
// call whose name token has already been consumed.
func (p *Parser) parseFunctionCallArgs(name string) *FunctionCallNode {
	fn := &FunctionCallNode{Name: name}
	p.expect(lexer.LPAREN, "(")
	if !p.at(lexer.RPAREN) {
		fn.Args = append(fn.Args, p.parseFuncArg())
		for p.at(lexer.COMMA) {
			p.advance()
			fn.Args = append(fn.Args, p.parseFuncArg())
		}
	}
	p.expect(lexer.RPAREN, ")")
	return fn
}

func (p *Parser) parseFuncArg() FuncArgNode {
	switch {
	case lexer.FunctionNameTokens[p.cur.Type]:
		name := strings.ToUpper(p.cur.Image)
		p.advance()
		return FuncArgNode{Kind: FuncArgFunc, Func: p.parseFunctionCallArgs(name)}
	case p.at(lexer.IDENT):
		ident := p.cur.Image
		p.advance()
		return FuncArgNode{Kind: FuncArgIdent, Ident: ident}
	default:
		lit := p.parseLiteral()
		return FuncArgNode{Kind: FuncArgLiteral, Literal: lit}
	}
}

func (p *Parser) parseTypeof() *TypeofNode {
	p.expect(lexer.TYPEOF, "TYPEOF")
	node := &TypeofNode{}
	fieldTok := p.expect(lexer.IDENT, "field")
	node.Field = fieldTok.Image

	for p.at(lexer.WHEN) {
		p.advance()
		objTok := p.expect(lexer.IDENT, "object type")
		p.expect(lexer.THEN, "THEN")
		node.Whens = append(node.Whens, TypeofWhenNode{
			ObjectType: objTok.Image,
			Fields:     p.parseIdentList(),
		})
	}

	if p.at(lexer.ELSE) {
		p.advance()
		node.Else = p.parseIdentList()
	}

	p.expect(lexer.END, "END")
	return node
}

func (p *Parser) parseIdentList() []string {
	var idents []string
	tok := p.expect(lexer.IDENT, "field")
	idents = append(idents, tok.Image)
	for p.at(lexer.COMMA) {
		p.advance()
		tok := p.expect(lexer.IDENT, "field")
		idents = append(idents, tok.Image)
	}
	return idents
}

// --- from / using scope --------------------------------------------------

func (p *Parser) parseFromClause() (ident, alias string) {
	tok := p.expect(lexer.IDENT, "sObject name")
	ident = tok.Image
	if p.at(lexer.IDENT) {
		alias = p.cur.Image
		p.advance()
	}
	return ident, alias
}

var scopeValues = map[string]bool{
	"delegated": true, "everything": true, "mine": true,
	"mine_and_my_groups": true, "my_territory": true,
	"my_team_territory": true, "team": true,
}

func (p *Parser) parseUsingScopeClause() string {
	p.expect(lexer.USING, "USING")
	p.expect(lexer.SCOPE, "SCOPE")
	tok := p.expect(lexer.IDENT, "scope value")
	if !scopeValues[strings.ToLower(tok.Image)] {
		p.errs.syntaxError(tok.Pos, "unknown USING SCOPE value: "+tok.Image)
	}
	return tok.Image
}

// --- where / having --------------------------------------------------

func (p *Parser) parseWhereClause() *ConditionNode {
	p.expect(lexer.WHERE, "WHERE")
	return p.parseConditionChain()
}

func (p *Parser) parseHavingClause() *ConditionNode {
	p.expect(lexer.HAVING, "HAVING")
	return p.parseConditionChain()
}

// parseConditionChain parses "conditionExpression (logicalOp conditionExpression)*"
// directly into the left-linked Condition chain spec.md §3 describes.
func (p *Parser) parseConditionChain() *ConditionNode {
	head := p.parseConditionExpression()
	node := head
	for p.at(lexer.AND) || p.at(lexer.OR) {
		connective := "AND"
		if p.at(lexer.OR) {
			connective = "OR"
		}
		p.advance()
		node.Connective = connective
		node.Right = p.parseConditionExpression()
		node = node.Right
	}
	return head
}

func (p *Parser) parseConditionExpression() *ConditionNode {
	if !p.enterDepth() {
		return &ConditionNode{}
	}
	defer p.exitDepth()

	node := &ConditionNode{}
	if p.at(lexer.NOT) {
		p.advance()
		node.LogicalPrefixNot = true
	}
	for p.at(lexer.LPAREN) {
		node.OpenParen++
		p.advance()
	}

	switch {
	case lexer.FunctionNameTokens[p.cur.Type]:
		name := strings.ToUpper(p.cur.Image)
		p.advance()
		node.LHSFunc = p.parseFunctionCallArgs(name)
	case p.at(lexer.IDENT):
		node.LHSField = p.cur.Image
		p.advance()
	default:
		p.errs.syntaxError(p.cur.Pos, "expected a field or function in condition", "Identifier")
	}

	node.Operator = p.parseRelOrSetOperator()
	p.parseConditionRHS(node)

	for p.at(lexer.RPAREN) {
		node.CloseParen++
		p.advance()
	}
	return node
}

func (p *Parser) parseRelOrSetOperator() string {
	op, ok := relSetOperators[p.cur.Type]
	if !ok {
		p.errs.syntaxError(p.cur.Pos, "expected a comparison operator")
		return ""
	}
	p.advance()
	return op
}

var relSetOperators = map[lexer.TokenType]string{
	lexer.EQ: "=", lexer.NEQ: "!=", lexer.LT: "<", lexer.LE: "<=", lexer.GT: ">", lexer.GE: ">=",
	lexer.LIKE: "LIKE", lexer.IN: "IN", lexer.NOT_IN: "NOT IN",
	lexer.INCLUDES: "INCLUDES", lexer.EXCLUDES: "EXCLUDES",
}

func (p *Parser) parseConditionRHS(node *ConditionNode) {
	switch {
	case p.at(lexer.LPAREN):
		// Either a parenthesized literal list or a subquery.
		if p.tk.Peek().Type == lexer.SELECT {
			p.advance()
			node.RHSSubquery = p.parseSelectStatement(true)
			p.expect(lexer.RPAREN, ")")
			return
		}
		p.advance()
		node.RHSLiteralList = append(node.RHSLiteralList, *p.parseLiteral())
		for p.at(lexer.COMMA) {
			p.advance()
			node.RHSLiteralList = append(node.RHSLiteralList, *p.parseLiteral())
		}
		p.expect(lexer.RPAREN, ")")
	case p.at(lexer.APEX_BIND_VARIABLE_TOKEN):
		node.RHSBindVar = p.cur.Image
		p.advance()
	default:
		lit := p.parseLiteral()
		node.RHSLiteral = lit
	}
}

func (p *Parser) parseLiteral() *LiteralNode {
	tok := p.cur
	switch tok.Type {
	case lexer.STRING_LITERAL, lexer.UNSIGNED_INTEGER, lexer.SIGNED_INTEGER,
		lexer.REAL_NUMBER, lexer.CURRENCY_PREFIXED_INTEGER, lexer.CURRENCY_PREFIXED_DECIMAL,
		lexer.DATE_LITERAL_TOKEN, lexer.DATETIME_LITERAL_TOKEN,
		lexer.NULL, lexer.TRUE, lexer.FALSE:
		p.advance()
		return &LiteralNode{TokenType: tok.Type, Image: tok.Image}
	default:
		if lexer.DateLiterals[tok.Type] || lexer.DateNLiterals[tok.Type] {
			p.advance()
			return &LiteralNode{TokenType: tok.Type, Image: tok.Image, Variable: tok.Variable, HasVar: tok.HasVar}
		}
		p.errs.syntaxError(tok.Pos, "expected a literal value")
		p.advance()
		return &LiteralNode{TokenType: lexer.ILLEGAL, Image: tok.Image}
	}
}

// --- with clauses --------------------------------------------------

// parseWithClause parses a single "WITH SECURITY_ENFORCED" or
// "WITH DATA CATEGORY cond (AND cond)*" clause. Per the resolution of
// spec.md §9's open question, repeated conditions (whether from one
// clause's "AND" chain or from multiple WITH DATA CATEGORY clauses in the
// same query) all accumulate into one flat list; this function returns
// them and the caller appends.
func (p *Parser) parseWithClause() (securityEnforced bool, category []WithDataCategoryNode) {
	p.expect(lexer.WITH, "WITH")
	if p.at(lexer.SECURITY_ENFORCED) {
		p.advance()
		return true, nil
	}
	p.expect(lexer.DATA, "DATA")
	p.expect(lexer.CATEGORY, "CATEGORY")

	category = append(category, p.parseWithDataCategoryCondition())
	for p.at(lexer.AND) {
		p.advance()
		category = append(category, p.parseWithDataCategoryCondition())
	}
	return false, category
}

func (p *Parser) parseWithDataCategoryCondition() WithDataCategoryNode {
	node := WithDataCategoryNode{}
	tok := p.expect(lexer.IDENT, "category group")
	node.GroupName = tok.Image

	switch p.cur.Type {
	case lexer.AT:
		node.Selector = "AT"
		p.advance()
	case lexer.ABOVE:
		node.Selector = "ABOVE"
		p.advance()
	case lexer.BELOW:
		node.Selector = "BELOW"
		p.advance()
	case lexer.ABOVE_OR_BELOW:
		node.Selector = "ABOVE_OR_BELOW"
		p.advance()
	default:
		p.errs.syntaxError(p.cur.Pos, "expected AT, ABOVE, BELOW, or ABOVE_OR_BELOW")
	}

	wrapInParen := p.at(lexer.LPAREN)
	if wrapInParen {
		p.advance()
	}
	node.Parameters = append(node.Parameters, p.expect(lexer.IDENT, "category value").Image)
	for p.at(lexer.COMMA) {
		p.advance()
		node.Parameters = append(node.Parameters, p.expect(lexer.IDENT, "category value").Image)
	}
	if wrapInParen {
		p.expect(lexer.RPAREN, ")")
	}
	return node
}

// --- group by / order by --------------------------------------------------

func (p *Parser) parseGroupByClause() *GroupByNode {
	p.expect(lexer.GROUP, "GROUP")
	p.expect(lexer.BY, "BY")

	node := &GroupByNode{}
	if p.at(lexer.CUBE) || p.at(lexer.ROLLUP) {
		name := strings.ToUpper(p.cur.Image)
		p.advance()
		node.Fn = p.parseFunctionCallArgs(name)
	} else {
		node.Fields = p.parseIdentList()
	}

	if p.at(lexer.HAVING) {
		node.Having = p.parseHavingClause()
	}
	return node
}

func (p *Parser) parseOrderByClause() []OrderByNode {
	p.expect(lexer.ORDER, "ORDER")
	p.expect(lexer.BY, "BY")

	var items []OrderByNode
	items = append(items, p.parseOrderByItem())
	for p.at(lexer.COMMA) {
		p.advance()
		items = append(items, p.parseOrderByItem())
	}
	return items
}

func (p *Parser) parseOrderByItem() OrderByNode {
	item := OrderByNode{}
	if lexer.FunctionNameTokens[p.cur.Type] {
		name := strings.ToUpper(p.cur.Image)
		p.advance()
		item.Fn = p.parseFunctionCallArgs(name)
	} else {
		tok := p.expect(lexer.IDENT, "field")
		item.Field = tok.Image
	}

	switch p.cur.Type {
	case lexer.ASC:
		item.Order = "ASC"
		p.advance()
	case lexer.DESC:
		item.Order = "DESC"
		p.advance()
	}

	if p.at(lexer.NULLS) {
		p.advance()
		switch p.cur.Type {
		case lexer.FIRST:
			item.Nulls = "FIRST"
			p.advance()
		case lexer.LAST:
			item.Nulls = "LAST"
			p.advance()
		default:
			p.errs.syntaxError(p.cur.Pos, "expected FIRST or LAST")
		}
	}
	return item
}
