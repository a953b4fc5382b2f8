package mathlang

import (
	"testing"
)

// tk abbreviates the expected kind and text of one token.
type tk struct {
	kind TokenKind
	text string
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		src  string
		want []tk
	}{
		// spaces
		{"", nil},
		{" \t \r ", nil},
		{"\n", []tk{{TokenNewline, ""}}},
		{" \n \n ", []tk{{TokenNewline, ""}, {TokenNewline, ""}}},
		// numbers
		{"0", []tk{{TokenNumber, "0"}}},
		{"9876543210", []tk{{TokenNumber, "9876543210"}}},
		{"3.14", []tk{{TokenNumber, "3.14"}}},
		{"2.5e10", []tk{{TokenNumber, "2.5e10"}}},
		{"1e-3", []tk{{TokenNumber, "1e-3"}}},
		{"10E+2", []tk{{TokenNumber, "10E+2"}}},
		// incomplete fractions and exponents fall to the next token
		{"1.", []tk{{TokenNumber, "1"}, {TokenDot, "."}}},
		{"1e", []tk{{TokenNumber, "1"}, {TokenIdent, "e"}}},
		{"1e+", []tk{{TokenNumber, "1"}, {TokenIdent, "e"}, {TokenPlus, "+"}}},
		{"1.5.2", []tk{{TokenNumber, "1.5"}, {TokenDot, "."}, {TokenNumber, "2"}}},
		// identifiers and keywords
		{"x", []tk{{TokenIdent, "x"}}},
		{"_tmp1", []tk{{TokenIdent, "_tmp1"}}},
		{"andover", []tk{{TokenIdent, "andover"}}},
		{"and", []tk{{TokenAnd, "and"}}},
		{"or", []tk{{TokenOr, "or"}}},
		{"not x", []tk{{TokenNot, "not"}, {TokenIdent, "x"}}},
		// one-character operators
		{"1+2", []tk{{TokenNumber, "1"}, {TokenPlus, "+"}, {TokenNumber, "2"}}},
		{"a*b/c", []tk{{TokenIdent, "a"}, {TokenStar, "*"}, {TokenIdent, "b"}, {TokenSlash, "/"}, {TokenIdent, "c"}}},
		{"x=1", []tk{{TokenIdent, "x"}, {TokenAssign, "="}, {TokenNumber, "1"}}},
		{"a<b", []tk{{TokenIdent, "a"}, {TokenLess, "<"}, {TokenIdent, "b"}}},
		{"a;b", []tk{{TokenIdent, "a"}, {TokenSemi, ";"}, {TokenIdent, "b"}}},
		{"c?1:2", []tk{{TokenIdent, "c"}, {TokenQuestion, "?"}, {TokenNumber, "1"}, {TokenColon, ":"}, {TokenNumber, "2"}}},
		// two-character operators are greedy
		{"a==b", []tk{{TokenIdent, "a"}, {TokenEq, "=="}, {TokenIdent, "b"}}},
		{"a!=b", []tk{{TokenIdent, "a"}, {TokenNeq, "!="}, {TokenIdent, "b"}}},
		{"a<=b", []tk{{TokenIdent, "a"}, {TokenLessEq, "<="}, {TokenIdent, "b"}}},
		{"a>=b", []tk{{TokenIdent, "a"}, {TokenGreaterEq, ">="}, {TokenIdent, "b"}}},
		{"a&&b", []tk{{TokenIdent, "a"}, {TokenAndAnd, "&&"}, {TokenIdent, "b"}}},
		{"a||b", []tk{{TokenIdent, "a"}, {TokenOrOr, "||"}, {TokenIdent, "b"}}},
		{"a.*b", []tk{{TokenIdent, "a"}, {TokenDotStar, ".*"}, {TokenIdent, "b"}}},
		{"a./b", []tk{{TokenIdent, "a"}, {TokenDotSlash, "./"}, {TokenIdent, "b"}}},
		{"a.%b", []tk{{TokenIdent, "a"}, {TokenDotPercent, ".%"}, {TokenIdent, "b"}}},
		{"a.^b", []tk{{TokenIdent, "a"}, {TokenDotCaret, ".^"}, {TokenIdent, "b"}}},
		{"1.*2", []tk{{TokenNumber, "1"}, {TokenDotStar, ".*"}, {TokenNumber, "2"}}},
		{"a.b", []tk{{TokenIdent, "a"}, {TokenDot, "."}, {TokenIdent, "b"}}},
		{"x==&&", []tk{{TokenIdent, "x"}, {TokenEq, "=="}, {TokenAndAnd, "&&"}}},
		// strings
		{`"hi"`, []tk{{TokenString, "hi"}}},
		{`""`, []tk{{TokenString, ""}}},
		{`"a\nb"`, []tk{{TokenString, "a\nb"}}},
		{`"t\tr\rq\"s\\"`, []tk{{TokenString, "t\tr\rq\"s\\"}}},
		{`"\q"`, []tk{{TokenString, "q"}}},
		{"\"a\nb\"", []tk{{TokenString, "a\nb"}}},
		{`'hi'`, []tk{{TokenString, "hi"}}},
		// a lone quote is the transpose operator
		{"x'", []tk{{TokenIdent, "x"}, {TokenQuote, "'"}}},
		{"[1]'", []tk{{TokenLBracket, "["}, {TokenNumber, "1"}, {TokenRBracket, "]"}, {TokenQuote, "'"}}},
		// a quote with a later quote opens a string instead
		{"a' + b'", []tk{{TokenIdent, "a"}, {TokenString, " + b"}}},
		// brackets
		{"([{}])", []tk{{TokenLParen, "("}, {TokenLBracket, "["}, {TokenLBrace, "{"}, {TokenRBrace, "}"}, {TokenRBracket, "]"}, {TokenRParen, ")"}}},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.src)
		if err != nil {
			t.Errorf("tokenizing %q: unexpected error %v", c.src, err)
			continue
		}
		if len(toks) != len(c.want)+1 {
			t.Errorf("tokenizing %q: want %d tokens, got %v", c.src, len(c.want)+1, toks)
			continue
		}
		for i, want := range c.want {
			if toks[i].Kind != want.kind || toks[i].Text != want.text {
				t.Errorf("tokenizing %q: token %d: want %v(%q), got %v(%q)", c.src, i, want.kind, want.text, toks[i].Kind, toks[i].Text)
			}
		}
		if last := toks[len(toks)-1]; last.Kind != TokenEOF {
			t.Errorf("tokenizing %q: last token is %v, not EOF", c.src, last)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	src := "x = 10\n  y = x + 2\nz"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing %q: %v", src, err)
	}
	want := []Token{
		{TokenIdent, "x", 1, 1},
		{TokenAssign, "=", 1, 3},
		{TokenNumber, "10", 1, 5},
		{TokenNewline, "", 1, 7},
		{TokenIdent, "y", 2, 3},
		{TokenAssign, "=", 2, 5},
		{TokenIdent, "x", 2, 7},
		{TokenPlus, "+", 2, 9},
		{TokenNumber, "2", 2, 11},
		{TokenNewline, "", 2, 12},
		{TokenIdent, "z", 3, 1},
		{TokenEOF, "", 3, 2},
	}
	if len(toks) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token %d: want %v, got %v", i, w, toks[i])
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		src        string
		line, col  int
		wantingEOF bool
	}{
		{"@", 1, 1, false},
		{"1 + #", 1, 5, false},
		{"a & b", 1, 3, false},
		{"a | b", 1, 3, false},
		{"x = 1\n2 $", 2, 3, false},
		{`"unterminated`, 1, 14, true},
		{`"bad \`, 1, 7, true},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.src)
		if err == nil {
			t.Errorf("tokenizing %q: no error, tokens %v", c.src, toks)
			continue
		}
		if toks != nil {
			t.Errorf("tokenizing %q: got tokens %v alongside error %v", c.src, toks, err)
		}
		le, ok := err.(*LexError)
		if !ok {
			t.Errorf("tokenizing %q: error is %T, not *LexError", c.src, err)
			continue
		}
		if le.Line != c.line || le.Col != c.col {
			t.Errorf("tokenizing %q: error at %d:%d, want %d:%d", c.src, le.Line, le.Col, c.line, c.col)
		}
		if c.wantingEOF != (le.Text == "") {
			t.Errorf("tokenizing %q: error text %q", c.src, le.Text)
		}
	}
}
