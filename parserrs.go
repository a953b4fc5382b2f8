package mathlang

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError is implemented by every error reported at parse time. The
// position is the 1-based line and column of the offending source text.
type SyntaxError interface {
	error
	Position() (line, col int)
}

// TokenError reports a grammar violation at a token. It is a hard error: the
// parser stops at the first one.
type TokenError struct {
	// Line and Col locate the offending token.
	Line, Col int
	// Msg describes what the parser expected or found.
	Msg string
}

func (err *TokenError) Error() string {
	return errpos(err.Line, err.Col, err.Msg)
}

// Position returns the line and column of the offending token.
func (err *TokenError) Position() (line, col int) {
	return err.Line, err.Col
}

// SepError reports a complete statement followed by something other than a
// newline, a semicolon, or the end of input. It is soft: the parser records
// it and resumes at the offending token.
type SepError struct {
	// Line and Col locate the token found where a separator was expected.
	Line, Col int
	// Tok is that token's text.
	Tok string
}

func (err *SepError) Error() string {
	return errpos(err.Line, err.Col, "expected newline or ';' before "+strconv.Quote(err.Tok))
}

// Position returns the line and column of the token.
func (err *SepError) Position() (line, col int) {
	return err.Line, err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(line, col int, msg string) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(col) + ": " + msg
}

// tokErr creates a TokenError at a token's position.
func tokErr(t Token, msg string) *TokenError {
	return &TokenError{Line: t.Line, Col: t.Col, Msg: msg}
}

// Snippet renders the source line holding the given position with a marker
// under the offending column, preceded by up to two lines of context. It
// returns the empty string if the position is outside src.
func Snippet(src string, line, col int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) || col < 1 {
		return ""
	}
	var b strings.Builder
	lo := line - 2
	if lo < 1 {
		lo = 1
	}
	for i := lo; i <= line; i++ {
		fmt.Fprintf(&b, "%4d | %s\n", i, lines[i-1])
	}
	fmt.Fprintf(&b, "     | %s^", strings.Repeat(" ", col-1))
	return b.String()
}

var (
	_ SyntaxError = (*LexError)(nil)
	_ SyntaxError = (*TokenError)(nil)
	_ SyntaxError = (*SepError)(nil)
)
