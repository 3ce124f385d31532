package lexer

import (
	"testing"

	"github.com/varlens/varlens/internal/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	toks := l.Tokenize()
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	return toks
}

func TestSimpleAssignment(t *testing.T) {
	toks := tokenize(t, "x = 1\n")

	expected := []struct {
		typ     token.TokenType
		lexeme  string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.NEWLINE, ""},
		{token.EOF, ""},
	}
	if len(toks) != len(expected) {
		t.Fatalf("token count: got %d, want %d (%v)", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want.typ {
			t.Errorf("token %d: got type %s, want %s", i, toks[i].Type, want.typ)
		}
		if want.lexeme != "" && toks[i].Lexeme != want.lexeme {
			t.Errorf("token %d: got lexeme %q, want %q", i, toks[i].Lexeme, want.lexeme)
		}
	}
}

func TestIndentDedent(t *testing.T) {
	input := "def f():\n    x = 1\n    return x\ny = 2\n"
	toks := tokenize(t, input)

	var types []token.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}

	expected := []token.TokenType{
		token.DEF, token.IDENT, token.LPAREN, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.RETURN, token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	}
	if len(types) != len(expected) {
		t.Fatalf("token types:\ngot  %v\nwant %v", types, expected)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Fatalf("token %d: got %s, want %s\nfull: %v", i, types[i], expected[i], types)
		}
	}
}

func TestNestedDedents(t *testing.T) {
	input := "if a:\n    if b:\n        x = 1\ny = 2\n"
	toks := tokenize(t, input)

	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("got %d INDENT / %d DEDENT, want 2/2", indents, dedents)
	}
}

func TestBlankLinesCollapse(t *testing.T) {
	toks := tokenize(t, "x = 1\n\n\ny = 2\n")

	newlines := 0
	for _, tok := range toks {
		if tok.Type == token.NEWLINE {
			newlines++
		}
	}
	if newlines != 2 {
		t.Fatalf("got %d NEWLINE tokens, want 2", newlines)
	}
}

func TestImplicitLineJoining(t *testing.T) {
	toks := tokenize(t, "xs = [1,\n    2,\n    3]\n")

	for _, tok := range toks {
		if tok.Type == token.INDENT || tok.Type == token.DEDENT {
			t.Fatalf("unexpected %s inside brackets", tok.Type)
		}
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
	}{
		{":=", token.WALRUS},
		{"//", token.FLOORDIV},
		{"**", token.POWER},
		{"==", token.EQ},
		{"!=", token.NOT_EQ},
		{"<=", token.LT_EQ},
		{">=", token.GT_EQ},
		{"+=", token.PLUS_ASSIGN},
		{"-=", token.MINUS_ASSIGN},
	}
	for _, tt := range tests {
		toks := tokenize(t, "a "+tt.input+" b\n")
		if toks[1].Type != tt.typ {
			t.Errorf("%q: got %s, want %s", tt.input, toks[1].Type, tt.typ)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "for item in items:\n    pass\n")
	expected := []token.TokenType{
		token.FOR, token.IDENT, token.IN, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE, token.DEDENT, token.EOF,
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Type, want)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	toks := tokenize(t, "a = 42\nb = 3.14\n")
	if toks[2].Type != token.INT {
		t.Errorf("got %s, want INT", toks[2].Type)
	}
	if v, ok := toks[2].Literal.(int64); !ok || v != 42 {
		t.Errorf("int literal: got %v", toks[2].Literal)
	}
	if toks[6].Type != token.FLOAT {
		t.Errorf("got %s, want FLOAT", toks[6].Type)
	}
	if v, ok := toks[6].Literal.(float64); !ok || v != 3.14 {
		t.Errorf("float literal: got %v", toks[6].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := tokenize(t, `s = "a\nb"` + "\n")
	if toks[2].Type != token.STRING {
		t.Fatalf("got %s, want STRING", toks[2].Type)
	}
	if v, ok := toks[2].Literal.(string); !ok || v != "a\nb" {
		t.Fatalf("string literal: got %q", toks[2].Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`s = "oops` + "\n")
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatal("expected error for unterminated string")
	}
}

func TestInconsistentIndentation(t *testing.T) {
	l := New("if a:\n        x = 1\n    y = 2\n")
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatal("expected error for inconsistent dedent")
	}
}

func TestComments(t *testing.T) {
	toks := tokenize(t, "x = 1  # trailing\n# full line\ny = 2\n")
	for _, tok := range toks {
		if tok.Type == token.ILLEGAL {
			t.Fatalf("unexpected ILLEGAL token %q", tok.Lexeme)
		}
	}

	idents := 0
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			idents++
		}
	}
	if idents != 2 {
		t.Fatalf("got %d identifiers, want 2", idents)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	toks := tokenize(t, "x = 1\ny = 2\n")
	if toks[0].Line != 1 {
		t.Errorf("first token line: got %d, want 1", toks[0].Line)
	}

	var yTok *token.Token
	for i := range toks {
		if toks[i].Lexeme == "y" {
			yTok = &toks[i]
			break
		}
	}
	if yTok == nil || yTok.Line != 2 {
		t.Errorf("y token line: got %+v, want line 2", yTok)
	}
}
