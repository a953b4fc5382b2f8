package mathlang

import "strconv"

// TokenKind classifies a lexical unit.
type TokenKind int8

const (
	// TokenNone is an invalid token kind.
	TokenNone TokenKind = iota
	// TokenEOF marks the end of the input. The tokenizer emits exactly one,
	// carrying the position just past the final character.
	TokenEOF
	// TokenNewline is a line break, which separates statements.
	TokenNewline
	// TokenNumber is a numeric literal. Its text is the literal as written.
	TokenNumber
	// TokenString is a string literal. Its text is the decoded value, with
	// escape sequences already processed.
	TokenString
	// TokenIdent is a variable, constant, function, or unit name.
	TokenIdent

	// TokenAnd is the keyword and.
	TokenAnd
	// TokenOr is the keyword or.
	TokenOr
	// TokenNot is the keyword not.
	TokenNot

	// TokenPlus is +.
	TokenPlus
	// TokenMinus is -.
	TokenMinus
	// TokenStar is *.
	TokenStar
	// TokenSlash is /.
	TokenSlash
	// TokenPercent is %.
	TokenPercent
	// TokenCaret is ^.
	TokenCaret
	// TokenBang is !, both logical negation and factorial.
	TokenBang
	// TokenQuote is ', the transpose operator. A quote that has a matching
	// quote later in the input opens a string instead.
	TokenQuote
	// TokenAssign is =.
	TokenAssign
	// TokenLess is <.
	TokenLess
	// TokenGreater is >.
	TokenGreater
	// TokenLParen is (.
	TokenLParen
	// TokenRParen is ).
	TokenRParen
	// TokenLBracket is [.
	TokenLBracket
	// TokenRBracket is ].
	TokenRBracket
	// TokenLBrace is {.
	TokenLBrace
	// TokenRBrace is }.
	TokenRBrace
	// TokenComma is ,.
	TokenComma
	// TokenColon is :.
	TokenColon
	// TokenSemi is ;.
	TokenSemi
	// TokenQuestion is ?.
	TokenQuestion
	// TokenDot is a bare ., the member access operator.
	TokenDot

	// TokenEq is ==.
	TokenEq
	// TokenNeq is !=.
	TokenNeq
	// TokenLessEq is <=.
	TokenLessEq
	// TokenGreaterEq is >=.
	TokenGreaterEq
	// TokenAndAnd is &&.
	TokenAndAnd
	// TokenOrOr is ||.
	TokenOrOr
	// TokenDotStar is .*, element-wise multiplication.
	TokenDotStar
	// TokenDotSlash is ./, element-wise division.
	TokenDotSlash
	// TokenDotPercent is .%, element-wise remainder.
	TokenDotPercent
	// TokenDotCaret is .^, element-wise exponentiation.
	TokenDotCaret
)

var kindNames = [...]string{
	TokenNone:       "None",
	TokenEOF:        "EOF",
	TokenNewline:    "Newline",
	TokenNumber:     "Number",
	TokenString:     "String",
	TokenIdent:      "Ident",
	TokenAnd:        "And",
	TokenOr:         "Or",
	TokenNot:        "Not",
	TokenPlus:       "Plus",
	TokenMinus:      "Minus",
	TokenStar:       "Star",
	TokenSlash:      "Slash",
	TokenPercent:    "Percent",
	TokenCaret:      "Caret",
	TokenBang:       "Bang",
	TokenQuote:      "Quote",
	TokenAssign:     "Assign",
	TokenLess:       "Less",
	TokenGreater:    "Greater",
	TokenLParen:     "LParen",
	TokenRParen:     "RParen",
	TokenLBracket:   "LBracket",
	TokenRBracket:   "RBracket",
	TokenLBrace:     "LBrace",
	TokenRBrace:     "RBrace",
	TokenComma:      "Comma",
	TokenColon:      "Colon",
	TokenSemi:       "Semi",
	TokenQuestion:   "Question",
	TokenDot:        "Dot",
	TokenEq:         "Eq",
	TokenNeq:        "Neq",
	TokenLessEq:     "LessEq",
	TokenGreaterEq:  "GreaterEq",
	TokenAndAnd:     "AndAnd",
	TokenOrOr:       "OrOr",
	TokenDotStar:    "DotStar",
	TokenDotSlash:   "DotSlash",
	TokenDotPercent: "DotPercent",
	TokenDotCaret:   "DotCaret",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) && k >= 0 {
		return kindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical unit of a program.
type Token struct {
	Kind TokenKind
	// Text is the token's source text. For strings it is the decoded value;
	// for newlines and end of input it is empty.
	Text string
	// Line and Col locate the token's first character, both 1-based. Columns
	// count runes, not bytes.
	Line int
	Col  int
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Text + ")@" + strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Col)
}

// keywords maps the reserved words to their token kinds. Every other
// identifier-shaped lexeme is a TokenIdent.
var keywords = map[string]TokenKind{
	"and": TokenAnd,
	"or":  TokenOr,
	"not": TokenNot,
}
