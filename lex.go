package mathlang

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// eof marks the end of input in the scanner.
const eof rune = -1

// LexError reports text the tokenizer cannot form into a token.
type LexError struct {
	// Line and Col locate the offending character.
	Line, Col int
	// Text is the offending character, or empty when the input ended inside
	// a string literal.
	Text string
}

func (err *LexError) Error() string {
	if err.Text == "" {
		return errpos(err.Line, err.Col, "unterminated string")
	}
	return errpos(err.Line, err.Col, "unexpected character "+strconv.Quote(err.Text))
}

// Position returns the line and column of the offending character.
func (err *LexError) Position() (line, col int) {
	return err.Line, err.Col
}

// lexer scans source text into tokens, tracking line and column.
type lexer struct {
	src  string
	off  int
	line int
	col  int
	// startLine and startCol locate the first character of the token being
	// scanned.
	startLine int
	startCol  int
	toks      []Token
}

// Tokenize converts source text into a token list ending with a TokenEOF.
// Whitespace other than newlines separates tokens and is discarded; newlines
// are tokens because they separate statements. The only lexical error is a
// character that cannot begin any token, or an unterminated string.
func Tokenize(src string) ([]Token, SyntaxError) {
	l := lexer{src: src, line: 1, col: 1}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) run() SyntaxError {
	for {
		l.skipSpace()
		l.startLine, l.startCol = l.line, l.col
		r := l.advance()
		if r == eof {
			break
		}
		switch {
		case r == '\n':
			l.add(TokenNewline, "")
		case isDigit(r):
			l.number(r)
		case r == '_' || unicode.IsLetter(r):
			l.ident(r)
		case r == '"':
			if err := l.str('"'); err != nil {
				return err
			}
		case r == '\'':
			// A quote with a matching quote anywhere later opens a string;
			// otherwise it is the transpose operator.
			if strings.ContainsRune(l.src[l.off:], '\'') {
				if err := l.str('\''); err != nil {
					return err
				}
			} else {
				l.add(TokenQuote, "'")
			}
		default:
			if err := l.operator(r); err != nil {
				return err
			}
		}
	}
	l.startLine, l.startCol = l.line, l.col
	l.add(TokenEOF, "")
	return nil
}

// add appends a token starting at the saved start position.
func (l *lexer) add(kind TokenKind, text string) {
	l.toks = append(l.toks, Token{Kind: kind, Text: text, Line: l.startLine, Col: l.startCol})
}

// peek returns the next rune without consuming it, or eof.
func (l *lexer) peek() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

// peekAt returns the rune k runes past the next one, or eof.
func (l *lexer) peekAt(k int) rune {
	off := l.off
	for ; k > 0; k-- {
		if off >= len(l.src) {
			return eof
		}
		_, sz := utf8.DecodeRuneInString(l.src[off:])
		off += sz
	}
	if off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

// advance consumes and returns the next rune, updating line and column.
func (l *lexer) advance() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += sz
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// match consumes the next rune if it is r.
func (l *lexer) match(r rune) bool {
	if l.peek() != r {
		return false
	}
	l.advance()
	return true
}

// skipSpace discards spaces, tabs, and carriage returns. Newlines stay; they
// are statement separators.
func (l *lexer) skipSpace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

// number scans a numeric literal: digits, then an optional fraction, then an
// optional exponent. The fraction and exponent are taken only when complete,
// so "1." leaves the dot for the next token and "1e" leaves an identifier.
func (l *lexer) number(r rune) {
	var b strings.Builder
	b.WriteRune(r)
	for isDigit(l.peek()) {
		b.WriteRune(l.advance())
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		b.WriteRune(l.advance())
		for isDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		k := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			k = 2
		}
		if isDigit(l.peekAt(k)) {
			b.WriteRune(l.advance())
			if s := l.peek(); s == '+' || s == '-' {
				b.WriteRune(l.advance())
			}
			for isDigit(l.peek()) {
				b.WriteRune(l.advance())
			}
		}
	}
	l.add(TokenNumber, b.String())
}

// ident scans an identifier or keyword.
func (l *lexer) ident(r rune) {
	var b strings.Builder
	b.WriteRune(r)
	for {
		r := l.peek()
		if r == eof || (r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			break
		}
		b.WriteRune(l.advance())
	}
	text := b.String()
	if k, ok := keywords[text]; ok {
		l.add(k, text)
		return
	}
	l.add(TokenIdent, text)
}

// str scans a string literal after its opening quote q. Strings may span
// newlines. Recognized escapes are \n, \t, \r, \\, \", and \'; a backslash
// before any other character passes that character through.
func (l *lexer) str(q rune) SyntaxError {
	var b strings.Builder
	for {
		r := l.advance()
		switch r {
		case eof:
			return &LexError{Line: l.line, Col: l.col}
		case q:
			l.add(TokenString, b.String())
			return nil
		case '\\':
			switch esc := l.advance(); esc {
			case eof:
				return &LexError{Line: l.line, Col: l.col}
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

// operator scans punctuation, matching the two-character operators greedily
// before their one-character prefixes.
func (l *lexer) operator(r rune) SyntaxError {
	switch r {
	case '=':
		if l.match('=') {
			l.add(TokenEq, "==")
		} else {
			l.add(TokenAssign, "=")
		}
	case '!':
		if l.match('=') {
			l.add(TokenNeq, "!=")
		} else {
			l.add(TokenBang, "!")
		}
	case '<':
		if l.match('=') {
			l.add(TokenLessEq, "<=")
		} else {
			l.add(TokenLess, "<")
		}
	case '>':
		if l.match('=') {
			l.add(TokenGreaterEq, ">=")
		} else {
			l.add(TokenGreater, ">")
		}
	case '&':
		if !l.match('&') {
			return l.unexpected("&")
		}
		l.add(TokenAndAnd, "&&")
	case '|':
		if !l.match('|') {
			return l.unexpected("|")
		}
		l.add(TokenOrOr, "||")
	case '.':
		switch {
		case l.match('*'):
			l.add(TokenDotStar, ".*")
		case l.match('/'):
			l.add(TokenDotSlash, "./")
		case l.match('%'):
			l.add(TokenDotPercent, ".%")
		case l.match('^'):
			l.add(TokenDotCaret, ".^")
		default:
			l.add(TokenDot, ".")
		}
	case '+':
		l.add(TokenPlus, "+")
	case '-':
		l.add(TokenMinus, "-")
	case '*':
		l.add(TokenStar, "*")
	case '/':
		l.add(TokenSlash, "/")
	case '%':
		l.add(TokenPercent, "%")
	case '^':
		l.add(TokenCaret, "^")
	case '(':
		l.add(TokenLParen, "(")
	case ')':
		l.add(TokenRParen, ")")
	case '[':
		l.add(TokenLBracket, "[")
	case ']':
		l.add(TokenRBracket, "]")
	case '{':
		l.add(TokenLBrace, "{")
	case '}':
		l.add(TokenRBrace, "}")
	case ',':
		l.add(TokenComma, ",")
	case ':':
		l.add(TokenColon, ":")
	case ';':
		l.add(TokenSemi, ";")
	case '?':
		l.add(TokenQuestion, "?")
	default:
		return l.unexpected(string(r))
	}
	return nil
}

func (l *lexer) unexpected(text string) SyntaxError {
	return &LexError{Line: l.startLine, Col: l.startCol, Text: text}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
