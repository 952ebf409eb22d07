package lexer

import "testing"

func scanAll(sql string) []Token {
	tk := NewTokenizer(sql)
	var toks []Token
	for {
		t := tk.Scan()
		toks = append(toks, t)
		if t.Type == EOF {
			return toks
		}
	}
}

func TestScanBasicSelect(t *testing.T) {
	toks := scanAll("SELECT Id, Name FROM Account")
	want := []TokenType{SELECT, IDENT, COMMA, IDENT, FROM, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, TokenTypeName(toks[i].Type), TokenTypeName(tt))
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks := scanAll("WHERE Name = 'it\\'s a test'")
	var found bool
	for _, tok := range toks {
		if tok.Type == STRING_LITERAL {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a STRING_LITERAL token, got %+v", toks)
	}
}

func TestScanDateNLiteral(t *testing.T) {
	toks := scanAll("CreatedDate = LAST_N_DAYS:7")
	var tok Token
	for _, tk := range toks {
		if tk.Type == LAST_N_DAYS {
			tok = tk
		}
	}
	if tok.Type != LAST_N_DAYS {
		t.Fatalf("expected LAST_N_DAYS token, got %+v", toks)
	}
	if !tok.HasVar || tok.Variable != 7 {
		t.Errorf("got variable %d (hasVar=%v), want 7", tok.Variable, tok.HasVar)
	}
}

func TestScanNotIn(t *testing.T) {
	toks := scanAll("Id NOT IN (1,2)")
	found := false
	for _, tk := range toks {
		if tk.Type == NOT_IN {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected NOT_IN token, got %+v", toks)
	}
}

func TestScanApexBindVariable(t *testing.T) {
	toks := scanAll("Name = :myVar")
	found := false
	for _, tk := range toks {
		if tk.Type == APEX_BIND_VARIABLE_TOKEN && tk.Image == ":myVar" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected apex bind variable token, got %+v", toks)
	}
}

func TestScanCurrencyPrefixed(t *testing.T) {
	toks := scanAll("Amount > USD100.50")
	found := false
	for _, tk := range toks {
		if tk.Type == CURRENCY_PREFIXED_DECIMAL && tk.Image == "USD100.50" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected currency-prefixed decimal token, got %+v", toks)
	}
}

func TestScanDate(t *testing.T) {
	toks := scanAll("CreatedDate = 2022-01-01")
	found := false
	for _, tk := range toks {
		if tk.Type == DATE_LITERAL_TOKEN && tk.Image == "2022-01-01" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DATE token, got %+v", toks)
	}
}

func TestScanDatetime(t *testing.T) {
	toks := scanAll("CreatedDate = 2022-01-01T10:00:00Z")
	found := false
	for _, tk := range toks {
		if tk.Type == DATETIME_LITERAL_TOKEN {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DATETIME token, got %+v", toks)
	}
}

func TestScanRelationshipPath(t *testing.T) {
	toks := scanAll("Account.Owner.Name")
	if len(toks) != 2 || toks[0].Type != IDENT || toks[0].Image != "Account.Owner.Name" {
		t.Fatalf("expected single dotted identifier token, got %+v", toks)
	}
}
