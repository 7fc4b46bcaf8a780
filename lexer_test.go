package jsonpath

import "testing"

func TestLexerTokenKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []lexKind
	}{
		{
			name: "path_segments",
			src:  "$.a[0].b",
			want: []lexKind{lexDollar, lexDot, lexIdent, lexLBracket, lexNumber, lexRBracket, lexDot, lexIdent, lexEOF},
		},
		{
			name: "division_not_regex",
			src:  "@.a / @.b",
			want: []lexKind{lexAt, lexDot, lexIdent, lexSlash, lexAt, lexDot, lexIdent, lexEOF},
		},
		{
			name: "comparison_operators",
			src:  "a <= b >= c != d == e",
			want: []lexKind{lexIdent, lexLte, lexIdent, lexGte, lexIdent, lexNotEq, lexIdent, lexEqEq, lexIdent, lexEOF},
		},
		{
			name: "braces_for_json_object",
			src:  "{}",
			want: []lexKind{lexLBrace, lexRBrace, lexEOF},
		},
		{
			name: "regex_match_operator_alone",
			src:  "@.a =~",
			want: []lexKind{lexAt, lexDot, lexIdent, lexRegexMatch, lexEOF},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := newLexer(tt.src)
			var got []lexKind
			for {
				tok, err := l.next()
				if err != nil {
					t.Fatalf("next() error: %v", err)
				}
				got = append(got, tok.kind)
				if tok.kind == lexEOF {
					break
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexRegexLiteralAfterMatchOperator(t *testing.T) {
	t.Parallel()

	l := newLexer(`=~ /ab+c/i`)
	tok, err := l.next()
	if err != nil || tok.kind != lexRegexMatch {
		t.Fatalf("expected lexRegexMatch, got %v err %v", tok.kind, err)
	}
	regexTok, err := l.lexRegexLiteral()
	if err != nil {
		t.Fatalf("lexRegexLiteral() error: %v", err)
	}
	if regexTok.pattern != "ab+c" {
		t.Fatalf("pattern = %q, want %q", regexTok.pattern, "ab+c")
	}
	if !regexTok.caseInsensitive {
		t.Fatalf("caseInsensitive = false, want true")
	}
}

func TestLexerStringEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "simple_escapes", src: `"a\nb\tc"`, want: "a\nb\tc"},
		{name: "unicode_escape", src: "\"\\u0041\"", want: "A"},
		{name: "surrogate_pair", src: "\"\\uD83D\\uDE00\"", want: "\U0001F600"},
		{name: "single_quoted", src: `'it''s'`, want: "it"}, // no special-casing of doubled quotes
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := newLexer(tt.src)
			tok, err := l.next()
			if err != nil {
				t.Fatalf("next() error: %v", err)
			}
			if tok.kind != lexString {
				t.Fatalf("kind = %v, want lexString", tok.kind)
			}
			if tok.text != tt.want {
				t.Fatalf("text = %q, want %q", tok.text, tt.want)
			}
		})
	}
}

func TestLexNumberRejectsTrailingGarbage(t *testing.T) {
	t.Parallel()

	l := newLexer("1.2.3")
	tok, err := l.next()
	if err != nil {
		t.Fatalf("next() error: %v", err)
	}
	if tok.kind != lexNumber || tok.text != "1.2" {
		t.Fatalf("got kind=%v text=%q, want lexNumber \"1.2\"", tok.kind, tok.text)
	}
}
