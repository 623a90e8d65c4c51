package lexer

import (
	"atlas-lang/internal/token"
	"testing"
)

func kindsOf(t *testing.T, source string) []token.Kind {
	t.Helper()
	tokens, diags := New(source, "test.atlas").Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	kinds := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func expectKinds(t *testing.T, source string, expected ...token.Kind) {
	t.Helper()
	got := kindsOf(t, source)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(got), got)
	}
	for i, exp := range expected {
		if got[i] != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, got[i])
		}
	}
}

func TestTokenizeDeclaration(t *testing.T) {
	expectKinds(t, `let x: Float = 2.0;`,
		token.KW_LET, token.IDENT, token.COLON, token.TY_FLOAT,
		token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF)
}

func TestTokenizeKeywords(t *testing.T) {
	expectKinds(t, `let print if then else while true false`,
		token.KW_LET, token.KW_PRINT, token.KW_IF, token.KW_THEN,
		token.KW_ELSE, token.KW_WHILE, token.KW_TRUE, token.KW_FALSE, token.EOF)
}

func TestTokenizeTypeAliases(t *testing.T) {
	expectKinds(t, `Int int Float float String string Boolean bool`,
		token.TY_INT, token.TY_INT, token.TY_FLOAT, token.TY_FLOAT,
		token.TY_STRING, token.TY_STRING, token.TY_BOOLEAN, token.TY_BOOLEAN, token.EOF)
}

func TestTokenizeOperators(t *testing.T) {
	expectKinds(t, `= == != < <= > >= + - * / % ( ) { } ; :`,
		token.ASSIGN, token.EQ, token.NEQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.SEMICOLON, token.COLON, token.EOF)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, _ := New(`3 3.75 10.`, "test.atlas").Tokenize()
	want := []string{"3", "3.75", "10"}
	for i, w := range want {
		if tokens[i].Kind != token.NUMBER || tokens[i].Lexeme != w {
			t.Errorf("token[%d]: expected NUMBER %q, got %s %q", i, w, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
	// the trailing '.' is not part of the number
	if tokens[3].Kind != token.ILLEGAL {
		t.Errorf("expected ILLEGAL for stray '.', got %s", tokens[3].Kind)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, diags := New(`"a\tb\n\"q\"\\"`, "test.atlas").Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Lexeme != "a\tb\n\"q\"\\" {
		t.Errorf("unexpected lexeme %q", tokens[0].Lexeme)
	}
}

func TestTokenizeComments(t *testing.T) {
	expectKinds(t, "print 1 // trailing\n# whole line\nprint 2",
		token.KW_PRINT, token.NUMBER, token.NEWLINE,
		token.NEWLINE,
		token.KW_PRINT, token.NUMBER, token.EOF)
}

func TestTokenizePositions(t *testing.T) {
	tokens, _ := New("let a: Int\n  print a", "test.atlas").Tokenize()
	var printTok token.Token
	for _, tok := range tokens {
		if tok.Kind == token.KW_PRINT {
			printTok = tok
		}
	}
	if printTok.Span.Start.Line != 2 || printTok.Span.Start.Column != 3 {
		t.Errorf("expected print at 2:3, got %s", printTok.Span.Start)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, diags := New("print \"abc\nprint 1", "test.atlas").Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1001" {
		t.Fatalf("expected one E1001 diagnostic, got %v", diags)
	}
	if diags[0].File != "test.atlas" {
		t.Errorf("expected file name on diagnostic, got %q", diags[0].File)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tokens, diags := New("print 1 @ 2", "test.atlas").Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1003" {
		t.Fatalf("expected one E1003 diagnostic, got %v", diags)
	}
	if tokens[2].Kind != token.ILLEGAL || tokens[2].Lexeme != "@" {
		t.Errorf("expected ILLEGAL '@', got %s %q", tokens[2].Kind, tokens[2].Lexeme)
	}
}

func TestBangNeedsEquals(t *testing.T) {
	_, diags := New("print !true", "test.atlas").Tokenize()
	if len(diags) != 1 || diags[0].Code != "E1003" {
		t.Fatalf("expected one E1003 diagnostic, got %v", diags)
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	tokens, diags := New("let größe: Int = 1", "test.atlas").Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[1].Kind != token.IDENT || tokens[1].Lexeme != "größe" {
		t.Errorf("expected IDENT größe, got %s %q", tokens[1].Kind, tokens[1].Lexeme)
	}
}
