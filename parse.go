package mathlang

import (
	"strconv"
	"strings"
)

// ValidationResult is the outcome of parsing one program.
type ValidationResult struct {
	// Valid reports whether the source parsed cleanly. It is true exactly
	// when Errors is empty, and AST is non-nil exactly when it is true.
	Valid bool
	// Errors lists every syntax error found, in source order.
	Errors []SyntaxError
	// Tokens is the token stream, kept so callers can inspect it without
	// tokenizing again. It is nil when tokenizing itself failed.
	Tokens []Token
	// AST is the parsed program.
	AST *Node
}

// Parse tokenizes and parses source text. It never evaluates anything and
// never panics; pass the resulting AST to Evaluate to run it.
func Parse(src string, opts ...ParseOption) *ValidationResult {
	var pc parsectx
	for _, opt := range opts {
		pc = opt.parseOption(pc)
	}
	if pc.max > 0 && len(src) > pc.max {
		err := &TokenError{Line: 1, Col: 1, Msg: "source exceeds maximum length of " + strconv.Itoa(pc.max) + " bytes"}
		return &ValidationResult{Errors: []SyntaxError{err}}
	}
	toks, lerr := Tokenize(src)
	if lerr != nil {
		return &ValidationResult{Errors: []SyntaxError{lerr}}
	}
	p := parser{toks: toks}
	ast := p.program()
	if len(p.errs) > 0 {
		return &ValidationResult{Errors: p.errs, Tokens: toks}
	}
	return &ValidationResult{Valid: true, Tokens: toks, AST: ast}
}

// parser holds the cursor state for one parse. Hard grammar violations
// propagate up the call chain and end the parse; missing separators are
// recorded and parsing resumes at the offending token.
type parser struct {
	toks []Token
	i    int
	errs []SyntaxError
	// noRange suppresses range expressions while parsing the consequent of a
	// conditional and inside index brackets, where a bare ':' belongs to the
	// surrounding construct.
	noRange bool
}

// at returns the token at index k, or the final TokenEOF past the end.
func (p *parser) at(k int) Token {
	if k >= len(p.toks) {
		k = len(p.toks) - 1
	}
	return p.toks[k]
}

func (p *parser) cur() Token { return p.at(p.i) }

func (p *parser) peek() Token { return p.at(p.i + 1) }

// next consumes and returns the current token. TokenEOF is never consumed,
// so the cursor cannot run off the end.
func (p *parser) next() Token {
	t := p.cur()
	if t.Kind != TokenEOF {
		p.i++
	}
	return t
}

// expect consumes a token of kind k, or fails with msg and a description of
// what was found instead.
func (p *parser) expect(k TokenKind, msg string) (Token, SyntaxError) {
	t := p.cur()
	if t.Kind != k {
		return t, tokErr(t, msg+", found "+describe(t))
	}
	p.i++
	return t, nil
}

// describe renders a token for an error message.
func describe(t Token) string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "end of line"
	case TokenString:
		return "string literal"
	default:
		return strconv.Quote(t.Text)
	}
}

// program parses statements until the end of input.
func (p *parser) program() *Node {
	prog := &Node{Kind: NodeProgram}
	for {
		p.skipSeps()
		if p.cur().Kind == TokenEOF {
			return prog
		}
		p.noRange = false
		stmt, err := p.statement()
		if err != nil {
			p.errs = append(p.errs, err)
			return nil
		}
		prog.List = append(prog.List, stmt)
		switch p.cur().Kind {
		case TokenNewline, TokenSemi, TokenEOF:
		default:
			t := p.cur()
			p.errs = append(p.errs, &SepError{Line: t.Line, Col: t.Col, Tok: t.Text})
		}
	}
}

// skipSeps discards a run of statement separators.
func (p *parser) skipSeps() {
	for p.cur().Kind == TokenNewline || p.cur().Kind == TokenSemi {
		p.i++
	}
}

func (p *parser) statement() (*Node, SyntaxError) {
	if p.assignAhead() {
		return p.assignment()
	}
	return p.expression()
}

// assignAhead reports whether an assignment begins at the cursor: an
// identifier, optionally followed by parenthesized groups in the function
// definition form, directly before '='. The cursor is restored before
// returning.
func (p *parser) assignAhead() bool {
	save := p.i
	defer func() { p.i = save }()
	if p.next().Kind != TokenIdent {
		return false
	}
	for p.cur().Kind == TokenLParen {
		p.i++
		for depth := 1; depth > 0; {
			switch p.next().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			case TokenEOF, TokenNewline, TokenSemi:
				return false
			}
		}
	}
	return p.cur().Kind == TokenAssign
}

func (p *parser) assignment() (*Node, SyntaxError) {
	target, err := p.assignTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAssign, "expected '='"); err != nil {
		return nil, err
	}
	var right *Node
	if p.assignAhead() {
		right, err = p.assignment()
	} else {
		right, err = p.expression()
	}
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeAssign, Left: target, Right: right}, nil
}

// assignTarget parses the left side of an assignment: a plain identifier, or
// the function definition form f(x, y) with any number of call groups.
func (p *parser) assignTarget() (*Node, SyntaxError) {
	name := p.next()
	if p.cur().Kind != TokenLParen {
		return &Node{Kind: NodeIdent, Text: name.Text}, nil
	}
	args, err := p.arglist()
	if err != nil {
		return nil, err
	}
	target := &Node{Kind: NodeCall, Text: name.Text, List: args}
	for p.cur().Kind == TokenLParen {
		args, err := p.arglist()
		if err != nil {
			return nil, err
		}
		target = &Node{Kind: NodeCall, Left: target, List: args}
	}
	return target, nil
}

func (p *parser) expression() (*Node, SyntaxError) {
	return p.conditional()
}

// conditional parses the ternary tier. It is right-associative, and the
// consequent may not contain a bare range: a ':' there ends the branch.
func (p *parser) conditional() (*Node, SyntaxError) {
	cond, err := p.logicalOr()
	if err != nil || p.cur().Kind != TokenQuestion {
		return cond, err
	}
	p.i++
	save := p.noRange
	p.noRange = true
	cons, err := p.conditional()
	p.noRange = save
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "expected ':' in conditional"); err != nil {
		return nil, err
	}
	alt, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeCond, Left: cond, Right: cons, Third: alt}, nil
}

// binaryTier parses a left-associative run of the given operators with
// operands from sub.
func (p *parser) binaryTier(sub func() (*Node, SyntaxError), kinds ...TokenKind) (*Node, SyntaxError) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for hasKind(kinds, p.cur().Kind) {
		op := p.next()
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Text: op.Text, Left: left, Right: right}
	}
	return left, nil
}

func hasKind(kinds []TokenKind, k TokenKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (p *parser) logicalOr() (*Node, SyntaxError) {
	return p.binaryTier(p.logicalAnd, TokenOr, TokenOrOr)
}

func (p *parser) logicalAnd() (*Node, SyntaxError) {
	return p.binaryTier(p.comparison, TokenAnd, TokenAndAnd)
}

func (p *parser) comparison() (*Node, SyntaxError) {
	return p.binaryTier(p.rangeExpr, TokenEq, TokenNeq, TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq)
}

// rangeExpr parses start:end and start:end:step with additive bounds.
func (p *parser) rangeExpr() (*Node, SyntaxError) {
	start, err := p.additive()
	if err != nil || p.noRange || p.cur().Kind != TokenColon {
		return start, err
	}
	p.i++
	end, err := p.additive()
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: NodeRange, Left: start, Right: end}
	if p.cur().Kind == TokenColon {
		p.i++
		if n.Third, err = p.additive(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) additive() (*Node, SyntaxError) {
	return p.binaryTier(p.multiplicative, TokenPlus, TokenMinus)
}

func (p *parser) multiplicative() (*Node, SyntaxError) {
	return p.binaryTier(p.power, TokenStar, TokenSlash, TokenPercent, TokenDotStar, TokenDotSlash, TokenDotPercent)
}

// power parses the exponentiation tier, which is right-associative and binds
// looser than the unary operators: -2^2 is (-2)^2.
func (p *parser) power() (*Node, SyntaxError) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	if k := p.cur().Kind; k != TokenCaret && k != TokenDotCaret {
		return left, nil
	}
	op := p.next()
	right, err := p.power()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeBinary, Text: op.Text, Left: left, Right: right}, nil
}

// unary parses the right-associative prefix operators. Doubled unary '+' is
// rejected outright.
func (p *parser) unary() (*Node, SyntaxError) {
	switch p.cur().Kind {
	case TokenPlus:
		if p.peek().Kind == TokenPlus {
			return nil, tokErr(p.peek(), "unexpected '+' after unary '+'")
		}
		fallthrough
	case TokenMinus, TokenNot, TokenBang:
		op := p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeUnary, Text: op.Text, Left: operand}, nil
	}
	return p.postfix()
}

// postfix parses the tightest operator tier: factorial, transpose, indexing,
// slicing, and member access, all applying left to right.
func (p *parser) postfix() (*Node, SyntaxError) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case TokenBang, TokenQuote:
			op := p.next()
			left = &Node{Kind: NodePostfix, Text: op.Text, Left: left}
		case TokenLBracket:
			left, err = p.indexOrSlice(left)
			if err != nil {
				return nil, err
			}
		case TokenDot:
			p.i++
			name, err := p.expect(TokenIdent, "expected member name after '.'")
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: NodeMember, Text: name.Text, Left: left}
		default:
			return left, nil
		}
	}
}

// indexOrSlice parses the bracketed postfix forms a[i], a[lo:hi], a[:hi],
// a[lo:], and a[:]. Ranges are suppressed inside the brackets so that ':'
// separates the bounds.
func (p *parser) indexOrSlice(target *Node) (*Node, SyntaxError) {
	p.i++
	save := p.noRange
	p.noRange = true
	defer func() { p.noRange = save }()
	var lo, hi *Node
	var err SyntaxError
	if p.cur().Kind != TokenColon {
		lo, err = p.expression()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind == TokenRBracket {
			p.i++
			return &Node{Kind: NodeIndex, Left: target, Right: lo}, nil
		}
	}
	if _, err := p.expect(TokenColon, "expected ']' or ':' in index"); err != nil {
		return nil, err
	}
	if p.cur().Kind != TokenRBracket {
		hi, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRBracket, "expected ']'"); err != nil {
		return nil, err
	}
	return &Node{Kind: NodeSlice, Left: target, Right: lo, Third: hi}, nil
}

func (p *parser) primary() (*Node, SyntaxError) {
	t := p.cur()
	switch t.Kind {
	case TokenNumber:
		p.i++
		return p.unitSuffix(&Node{Kind: NodeNumber, Text: t.Text}), nil
	case TokenString:
		p.i++
		return &Node{Kind: NodeString, Text: t.Text}, nil
	case TokenIdent:
		p.i++
		if p.cur().Kind != TokenLParen {
			return &Node{Kind: NodeIdent, Text: t.Text}, nil
		}
		if t.Text == "sigma" {
			return p.summation()
		}
		args, err := p.arglist()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeCall, Text: t.Text, List: args}, nil
	case TokenLParen:
		p.i++
		save := p.noRange
		p.noRange = false
		inner, err := p.expression()
		p.noRange = save
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return p.unitSuffix(inner), nil
	case TokenLBracket:
		return p.arrayLit()
	case TokenLBrace:
		return p.objectLit()
	}
	return nil, tokErr(t, "unexpected "+describe(t))
}

// unitSuffix reinterprets a trailing identifier as a unit name, as in 5 kg
// or (1+2) m. Compound units chain '*' or '/' and another identifier, as in
// kg*m/s.
func (p *parser) unitSuffix(operand *Node) *Node {
	if p.cur().Kind != TokenIdent {
		return operand
	}
	var b strings.Builder
	b.WriteString(p.next().Text)
	for {
		if k := p.cur().Kind; k != TokenStar && k != TokenSlash {
			break
		}
		if p.peek().Kind != TokenIdent {
			break
		}
		b.WriteString(p.next().Text)
		b.WriteString(p.next().Text)
	}
	return &Node{Kind: NodeUnit, Left: operand, Text: b.String()}
}

// arglist parses a parenthesized, comma-separated argument list. The cursor
// must be on '('.
func (p *parser) arglist() ([]*Node, SyntaxError) {
	p.i++
	save := p.noRange
	p.noRange = false
	defer func() { p.noRange = save }()
	var args []*Node
	if p.cur().Kind == TokenRParen {
		p.i++
		return args, nil
	}
	for {
		a, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur().Kind != TokenComma {
			break
		}
		p.i++
	}
	if _, err := p.expect(TokenRParen, "expected ',' or ')' in call"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) arrayLit() (*Node, SyntaxError) {
	p.i++
	save := p.noRange
	p.noRange = false
	defer func() { p.noRange = save }()
	n := &Node{Kind: NodeArray}
	if p.cur().Kind == TokenRBracket {
		p.i++
		return n, nil
	}
	for {
		el, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.List = append(n.List, el)
		if p.cur().Kind != TokenComma {
			break
		}
		p.i++
	}
	if _, err := p.expect(TokenRBracket, "expected ',' or ']' in array"); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) objectLit() (*Node, SyntaxError) {
	p.i++
	save := p.noRange
	p.noRange = false
	defer func() { p.noRange = save }()
	n := &Node{Kind: NodeObject}
	if p.cur().Kind == TokenRBrace {
		p.i++
		return n, nil
	}
	for {
		key := p.cur()
		if key.Kind != TokenIdent && key.Kind != TokenString {
			return nil, tokErr(key, "expected object key, found "+describe(key))
		}
		p.i++
		if _, err := p.expect(TokenColon, "expected ':' after object key"); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.Keys = append(n.Keys, key.Text)
		n.List = append(n.List, val)
		if p.cur().Kind != TokenComma {
			break
		}
		p.i++
	}
	if _, err := p.expect(TokenRBrace, "expected ',' or '}' in object"); err != nil {
		return nil, err
	}
	return n, nil
}

// summation parses sigma(variable, start, end, body). The argument list is
// positional, not a general call. The cursor must be on '('.
func (p *parser) summation() (*Node, SyntaxError) {
	p.i++
	save := p.noRange
	p.noRange = false
	defer func() { p.noRange = save }()
	v, err := p.expect(TokenIdent, "sigma expects a variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenComma, "expected ',' after sigma variable"); err != nil {
		return nil, err
	}
	start, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenComma, "expected ',' after sigma start"); err != nil {
		return nil, err
	}
	end, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenComma, "expected ',' after sigma end"); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, "expected ')' after sigma body"); err != nil {
		return nil, err
	}
	return &Node{Kind: NodeSum, Text: v.Text, Left: start, Right: end, Third: body}, nil
}
