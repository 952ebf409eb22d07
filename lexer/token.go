// Package lexer tokenizes SOQL query text into a stream of typed tokens.
//
// The tokenizer follows the shape of a hand-rolled SQL lexer: a cursor over
// a byte buffer, a keyword table built once at init time, and dedicated
// scanIdentOrKeyword/scanNumberOrDate/scanString helpers. Token type names are part
// of the package's public contract: the parser and AST builder switch on
// them directly, so renaming one is a breaking change.
package lexer

import (
	"strings"
)

// TokenType identifies the lexical category of a Token. Names are stable
// and referenced by the parser and the AST builder for literal
// classification.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	// Punctuation
	LPAREN
	RPAREN
	COMMA
	COLON
	EQ
	NEQ
	LT
	LE
	GT
	GE

	// Identifiers and literals
	IDENT
	STRING_LITERAL
	UNSIGNED_INTEGER
	SIGNED_INTEGER
	REAL_NUMBER
	CURRENCY_PREFIXED_INTEGER
	CURRENCY_PREFIXED_DECIMAL
	DATE_LITERAL_TOKEN // a DATE value such as 2022-01-01
	DATETIME_LITERAL_TOKEN
	APEX_BIND_VARIABLE_TOKEN

	// Core keywords
	SELECT
	FROM
	WHERE
	WITH
	DATA
	CATEGORY
	GROUP
	BY
	HAVING
	ORDER
	ASC
	DESC
	NULLS
	FIRST
	LAST
	LIMIT
	OFFSET
	FOR
	VIEW
	REFERENCE
	UPDATE
	TRACKING
	VIEWSTAT
	USING
	SCOPE
	TYPEOF
	WHEN
	THEN
	ELSE
	END
	SECURITY_ENFORCED
	AT
	ABOVE
	BELOW
	ABOVE_OR_BELOW
	NULL
	TRUE
	FALSE
	AND
	OR
	NOT
	LIKE
	IN
	NOT_IN
	INCLUDES
	EXCLUDES
	AS

	// Aggregate / date / misc functions
	COUNT
	COUNT_DISTINCT
	SUM
	AVG
	MIN
	MAX
	CALENDAR_MONTH
	CALENDAR_QUARTER
	CALENDAR_YEAR
	DAY_IN_MONTH
	DAY_IN_WEEK
	DAY_IN_YEAR
	DAY_ONLY
	FISCAL_MONTH
	FISCAL_QUARTER
	FISCAL_YEAR
	HOUR_IN_DAY
	WEEK_IN_MONTH
	WEEK_IN_YEAR
	CUBE
	ROLLUP
	GROUPING
	FORMAT
	CONVERT_CURRENCY
	TOLABEL
	DISTANCE
	GEOLOCATION

	// Date literals
	YESTERDAY
	TODAY
	TOMORROW
	LAST_WEEK
	THIS_WEEK
	NEXT_WEEK
	LAST_MONTH
	THIS_MONTH
	NEXT_MONTH
	LAST_90_DAYS
	NEXT_90_DAYS
	THIS_QUARTER
	LAST_QUARTER
	NEXT_QUARTER
	THIS_YEAR
	LAST_YEAR
	NEXT_YEAR
	THIS_FISCAL_QUARTER
	LAST_FISCAL_QUARTER
	NEXT_FISCAL_QUARTER
	THIS_FISCAL_YEAR
	LAST_FISCAL_YEAR
	NEXT_FISCAL_YEAR

	// Date-N literals (take a ":N" suffix)
	NEXT_N_DAYS
	LAST_N_DAYS
	N_DAYS_AGO
	NEXT_N_WEEKS
	LAST_N_WEEKS
	N_WEEKS_AGO
	NEXT_N_MONTHS
	LAST_N_MONTHS
	N_MONTHS_AGO
	NEXT_N_QUARTERS
	LAST_N_QUARTERS
	N_QUARTERS_AGO
	NEXT_N_YEARS
	LAST_N_YEARS
	N_YEARS_AGO
	NEXT_N_FISCAL_QUARTERS
	LAST_N_FISCAL_QUARTERS
	N_FISCAL_QUARTERS_AGO
	NEXT_N_FISCAL_YEARS
	LAST_N_FISCAL_YEARS
	N_FISCAL_YEARS_AGO
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	LPAREN: "(", RPAREN: ")", COMMA: ",", COLON: ":",
	EQ: "=", NEQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
	IDENT: "Identifier", STRING_LITERAL: "StringIdentifier",
	UNSIGNED_INTEGER: "UNSIGNED_INTEGER", SIGNED_INTEGER: "SIGNED_INTEGER",
	REAL_NUMBER:               "REAL_NUMBER",
	CURRENCY_PREFIXED_INTEGER: "CURRENCY_PREFIXED_INTEGER",
	CURRENCY_PREFIXED_DECIMAL: "CURRENCY_PREFIXED_DECIMAL",
	DATE_LITERAL_TOKEN:        "DATE", DATETIME_LITERAL_TOKEN: "DATETIME",
	APEX_BIND_VARIABLE_TOKEN: "APEX_BIND_VARIABLE",
}

// keywords maps case-folded keyword/function/date-literal spellings to
// their token type. Built once; identifiers are matched against it with a
// lower-cased lookup so that keyword recognition is case-insensitive while
// the original token image (used for identifiers) stays case-preserving.
var keywords = map[string]TokenType{
	"select": SELECT, "from": FROM, "where": WHERE, "with": WITH,
	"data": DATA, "category": CATEGORY, "group": GROUP, "by": BY,
	"having": HAVING, "order": ORDER, "asc": ASC, "desc": DESC,
	"nulls": NULLS, "first": FIRST, "last": LAST, "limit": LIMIT,
	"offset": OFFSET, "for": FOR, "view": VIEW, "reference": REFERENCE,
	"update": UPDATE, "tracking": TRACKING, "viewstat": VIEWSTAT,
	"using": USING, "scope": SCOPE, "typeof": TYPEOF, "when": WHEN,
	"then": THEN, "else": ELSE, "end": END,
	"security_enforced": SECURITY_ENFORCED,
	"at": AT, "above": ABOVE, "below": BELOW, "above_or_below": ABOVE_OR_BELOW,
	"null": NULL, "true": TRUE, "false": FALSE,
	"and": AND, "or": OR, "not": NOT, "like": LIKE, "in": IN,
	"includes": INCLUDES, "excludes": EXCLUDES, "as": AS,

	"count": COUNT, "count_distinct": COUNT_DISTINCT, "sum": SUM,
	"avg": AVG, "min": MIN, "max": MAX,
	"calendar_month": CALENDAR_MONTH, "calendar_quarter": CALENDAR_QUARTER,
	"calendar_year": CALENDAR_YEAR, "day_in_month": DAY_IN_MONTH,
	"day_in_week": DAY_IN_WEEK, "day_in_year": DAY_IN_YEAR,
	"day_only": DAY_ONLY, "fiscal_month": FISCAL_MONTH,
	"fiscal_quarter": FISCAL_QUARTER, "fiscal_year": FISCAL_YEAR,
	"hour_in_day": HOUR_IN_DAY, "week_in_month": WEEK_IN_MONTH,
	"week_in_year": WEEK_IN_YEAR, "cube": CUBE, "rollup": ROLLUP,
	"grouping": GROUPING, "format": FORMAT,
	"convert_currency": CONVERT_CURRENCY, "tolabel": TOLABEL,
	"distance": DISTANCE, "geolocation": GEOLOCATION,

	"yesterday": YESTERDAY, "today": TODAY, "tomorrow": TOMORROW,
	"last_week": LAST_WEEK, "this_week": THIS_WEEK, "next_week": NEXT_WEEK,
	"last_month": LAST_MONTH, "this_month": THIS_MONTH, "next_month": NEXT_MONTH,
	"last_90_days": LAST_90_DAYS, "next_90_days": NEXT_90_DAYS,
	"this_quarter": THIS_QUARTER, "last_quarter": LAST_QUARTER, "next_quarter": NEXT_QUARTER,
	"this_year": THIS_YEAR, "last_year": LAST_YEAR, "next_year": NEXT_YEAR,
	"this_fiscal_quarter": THIS_FISCAL_QUARTER, "last_fiscal_quarter": LAST_FISCAL_QUARTER,
	"next_fiscal_quarter": NEXT_FISCAL_QUARTER, "this_fiscal_year": THIS_FISCAL_YEAR,
	"last_fiscal_year": LAST_FISCAL_YEAR, "next_fiscal_year": NEXT_FISCAL_YEAR,

	"next_n_days": NEXT_N_DAYS, "last_n_days": LAST_N_DAYS, "n_days_ago": N_DAYS_AGO,
	"next_n_weeks": NEXT_N_WEEKS, "last_n_weeks": LAST_N_WEEKS, "n_weeks_ago": N_WEEKS_AGO,
	"next_n_months": NEXT_N_MONTHS, "last_n_months": LAST_N_MONTHS, "n_months_ago": N_MONTHS_AGO,
	"next_n_quarters": NEXT_N_QUARTERS, "last_n_quarters": LAST_N_QUARTERS, "n_quarters_ago": N_QUARTERS_AGO,
	"next_n_years": NEXT_N_YEARS, "last_n_years": LAST_N_YEARS, "n_years_ago": N_YEARS_AGO,
	"next_n_fiscal_quarters": NEXT_N_FISCAL_QUARTERS, "last_n_fiscal_quarters": LAST_N_FISCAL_QUARTERS,
	"n_fiscal_quarters_ago": N_FISCAL_QUARTERS_AGO,
	"next_n_fiscal_years":   NEXT_N_FISCAL_YEARS, "last_n_fiscal_years": LAST_N_FISCAL_YEARS,
	"n_fiscal_years_ago": N_FISCAL_YEARS_AGO,
}

func init() {
	for text, tt := range keywords {
		tokenNames[tt] = strings.ToUpper(text)
	}
}

// DateLiterals is the set of token types matching spec.md's enumerated
// relative date literals (no ":N" suffix).
var DateLiterals = map[TokenType]bool{
	YESTERDAY: true, TODAY: true, TOMORROW: true,
	LAST_WEEK: true, THIS_WEEK: true, NEXT_WEEK: true,
	LAST_MONTH: true, THIS_MONTH: true, NEXT_MONTH: true,
	LAST_90_DAYS: true, NEXT_90_DAYS: true,
	THIS_QUARTER: true, LAST_QUARTER: true, NEXT_QUARTER: true,
	THIS_YEAR: true, LAST_YEAR: true, NEXT_YEAR: true,
	THIS_FISCAL_QUARTER: true, LAST_FISCAL_QUARTER: true, NEXT_FISCAL_QUARTER: true,
	THIS_FISCAL_YEAR: true, LAST_FISCAL_YEAR: true, NEXT_FISCAL_YEAR: true,
}

// DateNLiterals is the set of token types matching spec.md's ":N"-suffixed
// relative date literals.
var DateNLiterals = map[TokenType]bool{
	NEXT_N_DAYS: true, LAST_N_DAYS: true, N_DAYS_AGO: true,
	NEXT_N_WEEKS: true, LAST_N_WEEKS: true, N_WEEKS_AGO: true,
	NEXT_N_MONTHS: true, LAST_N_MONTHS: true, N_MONTHS_AGO: true,
	NEXT_N_QUARTERS: true, LAST_N_QUARTERS: true, N_QUARTERS_AGO: true,
	NEXT_N_YEARS: true, LAST_N_YEARS: true, N_YEARS_AGO: true,
	NEXT_N_FISCAL_QUARTERS: true, LAST_N_FISCAL_QUARTERS: true, N_FISCAL_QUARTERS_AGO: true,
	NEXT_N_FISCAL_YEARS: true, LAST_N_FISCAL_YEARS: true, N_FISCAL_YEARS_AGO: true,
}

// AggregateFunctions is the set of function-name token types that are
// aggregate functions per spec.md §4.3.
var AggregateFunctions = map[TokenType]bool{
	COUNT: true, COUNT_DISTINCT: true, SUM: true, AVG: true, MIN: true, MAX: true,
}

// FunctionNameTokens is every token type that can begin a function-call
// projection, GROUP BY/ORDER BY expression, or condition LHS.
var FunctionNameTokens = map[TokenType]bool{
	COUNT: true, COUNT_DISTINCT: true, SUM: true, AVG: true, MIN: true, MAX: true,
	CALENDAR_MONTH: true, CALENDAR_QUARTER: true, CALENDAR_YEAR: true,
	DAY_IN_MONTH: true, DAY_IN_WEEK: true, DAY_IN_YEAR: true, DAY_ONLY: true,
	FISCAL_MONTH: true, FISCAL_QUARTER: true, FISCAL_YEAR: true,
	HOUR_IN_DAY: true, WEEK_IN_MONTH: true, WEEK_IN_YEAR: true,
	CUBE: true, ROLLUP: true, GROUPING: true, FORMAT: true,
	CONVERT_CURRENCY: true, TOLABEL: true, DISTANCE: true, GEOLOCATION: true,
}

// TokenTypeName returns the stable name for a token type, used in error
// messages and debug output.
func TokenTypeName(tt TokenType) string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}
