package lexer

import "testing"

func TestNextTokenSymbols(t *testing.T) {
	input := `(){},.-+;*/! != = == < <= > >=`
	want := []TokenKind{
		LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Minus,
		Plus, Semicolon, Star, Slash, Bang, BangEqual, Equal, EqualEqual,
		Less, LessEqual, Greater, GreaterEqual, EOF,
	}

	s := New(input)
	for i, wantKind := range want {
		tok := s.Next()
		if tok.Kind != wantKind {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, wantKind)
		}
	}
}

func TestNextTokenLiterals(t *testing.T) {
	input := `var x = "hello"; print 12.5;`
	s := New(input)

	kinds := []TokenKind{Var, Identifier, Equal, String, Semicolon, Print, Number, Semicolon, EOF}
	for i, want := range kinds {
		tok := s.Next()
		if tok.Kind != want {
			t.Fatalf("token %d: got %s (%q), want %s", i, tok.Kind, tok.Lexeme, want)
		}
	}
}

func TestNextTokenKeywords(t *testing.T) {
	input := "and class else false for fun if nil or print return super this true var while notakeyword"
	want := []TokenKind{
		And, Class, Else, False, For, Fun, If, Nil, Or, Print, Return,
		Super, This, True, Var, While, Identifier, EOF,
	}
	s := New(input)
	for i, k := range want {
		tok := s.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, k)
		}
	}
}

func TestLineTracking(t *testing.T) {
	input := "var a = 1;\nvar b = 2;\nprint a + b;"
	s := New(input)

	var lastLine int
	for {
		tok := s.Next()
		if tok.Kind == EOF {
			lastLine = tok.Line
			break
		}
	}
	if lastLine != 3 {
		t.Errorf("expected EOF on line 3, got %d", lastLine)
	}
}

func TestUnterminatedString(t *testing.T) {
	s := New(`"no closing quote`)
	tok := s.Next()
	if tok.Kind != Error {
		t.Fatalf("expected Error token, got %s", tok.Kind)
	}
}

func TestSkipLineComments(t *testing.T) {
	input := "// a comment\nvar x = 1; // trailing\n"
	s := New(input)
	tok := s.Next()
	if tok.Kind != Var {
		t.Fatalf("expected VAR after comment, got %s", tok.Kind)
	}
}

func TestNegativeNumberIsTwoTokens(t *testing.T) {
	// dlox has no unary-minus-in-lexer special case: "-5" scans as MINUS, NUMBER.
	s := New("-5")
	first := s.Next()
	second := s.Next()
	if first.Kind != Minus || second.Kind != Number {
		t.Fatalf("got %s %s, want MINUS NUMBER", first.Kind, second.Kind)
	}
}
