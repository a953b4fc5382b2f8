package mathlang

import (
	"math"
	"strings"
)

// Evaluate walks an AST against a context and returns the value it
// produces. A non-nil error is always an *EvalError; internal panics are
// recovered into one, so Evaluate never crashes the caller.
func Evaluate(ast *Node, ctx *Context) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = Value{}, evalErrf(UnsupportedNode, "internal: %v", r)
		}
	}()
	if ast == nil {
		return Value{}, evalErr(UnsupportedNode, "nil node")
	}
	res, eerr := ctx.eval(ast)
	if eerr != nil {
		return Value{}, eerr
	}
	return res, nil
}

// EvalString parses and evaluates source in one step. A syntax error
// returns the first positioned error from the parse.
func EvalString(src string, ctx *Context) (Value, error) {
	r := Parse(src)
	if !r.Valid {
		return Value{}, r.Errors[0]
	}
	return Evaluate(r.AST, ctx)
}

// eval dispatches on node kind. It is total over the kinds the parser
// emits; anything else reports UnsupportedNode.
func (ctx *Context) eval(n *Node) (Value, *EvalError) {
	switch n.Kind {
	case NodeProgram:
		var v Value
		for _, stmt := range n.List {
			var err *EvalError
			if v, err = ctx.eval(stmt); err != nil {
				return Value{}, err
			}
		}
		return v, nil
	case NodeNumber:
		return Num(ctx.arith.ParseDecimal(n.Text)), nil
	case NodeString:
		return Str(n.Text), nil
	case NodeIdent:
		v, ok := ctx.lookup(n.Text)
		if !ok {
			return Value{}, evalErrf(UndefinedVariable, "undefined variable %q", n.Text)
		}
		return v, nil
	case NodeAssign:
		return ctx.evalAssign(n)
	case NodeBinary:
		return ctx.evalBinary(n)
	case NodeUnary:
		return ctx.evalUnary(n)
	case NodePostfix:
		return ctx.evalPostfix(n)
	case NodeCall:
		return ctx.evalCall(n)
	case NodeArray:
		out := make([]Value, len(n.List))
		for i, el := range n.List {
			v, err := ctx.eval(el)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return Arr(out), nil
	case NodeObject:
		return ctx.evalObject(n)
	case NodeCond:
		cond, err := ctx.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		if cond.Truthy() {
			return ctx.eval(n.Right)
		}
		return ctx.eval(n.Third)
	case NodeUnit:
		return ctx.evalUnit(n)
	case NodeRange:
		return ctx.evalRange(n)
	case NodeSum:
		return ctx.evalSum(n)
	case NodeIndex:
		return ctx.evalIndex(n)
	case NodeSlice:
		return ctx.evalSlice(n)
	case NodeMember:
		return ctx.evalMember(n)
	}
	return Value{}, evalErrf(UnsupportedNode, "node kind %v", n.Kind)
}

func (ctx *Context) evalAssign(n *Node) (Value, *EvalError) {
	v, err := ctx.eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	if n.Left.Kind != NodeIdent {
		return Value{}, evalErr(TypeMismatch, "cannot assign to a function definition")
	}
	ctx.vars[n.Left.Text] = v
	return v, nil
}

func (ctx *Context) evalBinary(n *Node) (Value, *EvalError) {
	l, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := ctx.eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	return ctx.binary(n.Text, l, r)
}

// binary applies one binary operator to finished values.
func (ctx *Context) binary(op string, l, r Value) (Value, *EvalError) {
	switch op {
	case "+", "-", "*", "/", "%", "^":
		if l.Tag == TagArray || r.Tag == TagArray {
			return ctx.broadcast(op, l, r)
		}
		return ctx.scalar(op, l, r)
	case ".*", "./", ".%", ".^":
		// The element-wise spellings broadcast unconditionally; on plain
		// scalars they match the plain operator.
		return ctx.broadcast(op[1:], l, r)
	case "==":
		return Bool(equalValues(l, r, ctx.arith)), nil
	case "!=":
		return Bool(!equalValues(l, r, ctx.arith)), nil
	case "<", "<=", ">", ">=":
		return ctx.compare(op, l, r)
	case "and", "&&":
		return Bool(l.Truthy() && r.Truthy()), nil
	case "or", "||":
		return Bool(l.Truthy() || r.Truthy()), nil
	}
	return Value{}, evalErrf(UnsupportedOperator, "operator %q", op)
}

// broadcast applies op element-wise, recursing into nested arrays. Arrays
// pair element by element and must have equal lengths at every level; a
// scalar pairs with every element of an array.
func (ctx *Context) broadcast(op string, l, r Value) (Value, *EvalError) {
	switch {
	case l.Tag == TagArray && r.Tag == TagArray:
		la, ra := l.arr, r.arr
		if len(la) != len(ra) {
			return Value{}, evalErrf(ArrayLengthMismatch, "cannot apply %q to arrays of length %d and %d", op, len(la), len(ra))
		}
		out := make([]Value, len(la))
		for i := range la {
			v, err := ctx.broadcast(op, la[i], ra[i])
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return Arr(out), nil
	case l.Tag == TagArray:
		out := make([]Value, len(l.arr))
		for i, el := range l.arr {
			v, err := ctx.broadcast(op, el, r)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return Arr(out), nil
	case r.Tag == TagArray:
		out := make([]Value, len(r.arr))
		for i, el := range r.arr {
			v, err := ctx.broadcast(op, l, el)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return Arr(out), nil
	}
	return ctx.scalar(op, l, r)
}

// scalar applies an arithmetic operator through the decimal engine. The one
// non-numeric case is '*' against a unit value.
func (ctx *Context) scalar(op string, l, r Value) (Value, *EvalError) {
	if op == "*" {
		if l.Tag == TagNumber && r.Tag == TagString {
			return scaleUnit(ctx.arith, r.str, l.num), nil
		}
		if l.Tag == TagString && r.Tag == TagNumber {
			return scaleUnit(ctx.arith, l.str, r.num), nil
		}
	}
	if l.Tag != TagNumber || r.Tag != TagNumber {
		return Value{}, evalErrf(TypeMismatch, "cannot apply %q to %s and %s", op, l.Tag, r.Tag)
	}
	a := ctx.arith
	x, y := l.num, r.num
	switch op {
	case "+":
		return Num(a.Add(x, y)), nil
	case "-":
		return Num(a.Sub(x, y)), nil
	case "*":
		return Num(a.Mul(x, y)), nil
	case "/":
		return Num(a.Div(x, y)), nil
	case "%":
		return Num(a.Mod(x, y)), nil
	case "^":
		return Num(a.Pow(x, y)), nil
	}
	return Value{}, evalErrf(UnsupportedOperator, "operator %q", op)
}

// scaleUnit multiplies the numeric prefix of a unit value, or prefixes a
// bare unit with the number: 2 * "5 kg" is "10 kg", and 2 * "kg" is "2 kg".
func scaleUnit(a *Arith, s string, k float64) Value {
	if f, unit, ok := splitUnit(s); ok {
		return Str(formatUnit(a.Mul(f, k), unit))
	}
	return Str(formatUnit(k, strings.TrimSpace(s)))
}

// compare orders two numbers. Ordering is defined only for numbers, and
// every ordering of NaN is false.
func (ctx *Context) compare(op string, l, r Value) (Value, *EvalError) {
	if l.Tag != TagNumber || r.Tag != TagNumber {
		return Value{}, evalErrf(TypeMismatch, "cannot order %s and %s", l.Tag, r.Tag)
	}
	x, y := l.num, r.num
	if math.IsNaN(x) || math.IsNaN(y) {
		return Bool(false), nil
	}
	c := ctx.arith.Cmp(x, y)
	switch op {
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	case ">=":
		return Bool(c >= 0), nil
	}
	return Value{}, evalErrf(UnsupportedOperator, "operator %q", op)
}

func (ctx *Context) evalUnary(n *Node) (Value, *EvalError) {
	v, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	switch n.Text {
	case "-":
		if v.Tag != TagNumber {
			return Value{}, evalErrf(TypeMismatch, "cannot negate %s", v.Tag)
		}
		return Num(-v.num), nil
	case "+":
		if v.Tag != TagNumber {
			return Value{}, evalErrf(TypeMismatch, "unary '+' on %s", v.Tag)
		}
		return v, nil
	case "not", "!":
		return Bool(!v.Truthy()), nil
	}
	return Value{}, evalErrf(UnsupportedOperator, "unary operator %q", n.Text)
}

func (ctx *Context) evalPostfix(n *Node) (Value, *EvalError) {
	v, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	switch n.Text {
	case "!":
		return factorialValue(ctx, v)
	case "'":
		return transpose(v)
	}
	return Value{}, evalErrf(UnsupportedOperator, "postfix operator %q", n.Text)
}

// transpose implements the ' operator: scalars pass through, a flat numeric
// array becomes a column, and a rectangular matrix flips rows and columns.
func transpose(v Value) (Value, *EvalError) {
	if v.Tag == TagNumber {
		return v, nil
	}
	if v.Tag != TagArray {
		return Value{}, evalErrf(TypeMismatch, "cannot transpose %s", v.Tag)
	}
	rows := v.arr
	if len(rows) == 0 {
		return v, nil
	}
	numbers, arrays := 0, 0
	for _, el := range rows {
		switch el.Tag {
		case TagNumber:
			numbers++
		case TagArray:
			arrays++
		}
	}
	switch {
	case numbers == len(rows):
		out := make([]Value, len(rows))
		for i, el := range rows {
			out[i] = Arr([]Value{el})
		}
		return Arr(out), nil
	case arrays == len(rows):
		w := len(rows[0].arr)
		for _, r := range rows {
			if len(r.arr) != w {
				return Value{}, evalErr(ArrayLengthMismatch, "cannot transpose a ragged matrix")
			}
		}
		out := make([]Value, w)
		for j := 0; j < w; j++ {
			col := make([]Value, len(rows))
			for i, r := range rows {
				col[i] = r.arr[j]
			}
			out[j] = Arr(col)
		}
		return Arr(out), nil
	}
	return Value{}, evalErr(TypeMismatch, "transpose needs all numbers or all rows")
}

func (ctx *Context) evalCall(n *Node) (Value, *EvalError) {
	if n.Text == "" {
		// Calls without a callee name come only from assignment targets.
		return Value{}, evalErr(TypeMismatch, "cannot call a call expression")
	}
	if !ctx.allowed[n.Text] {
		return Value{}, evalErrf(FunctionNotAllowed, "function %q is not allowed", n.Text)
	}
	fn, ok := builtins[n.Text]
	if !ok {
		return Value{}, evalErrf(UndefinedFunction, "undefined function %q", n.Text)
	}
	args := make([]Value, len(n.List))
	for i, an := range n.List {
		v, err := ctx.eval(an)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return fn(ctx, args)
}

func (ctx *Context) evalObject(n *Node) (Value, *EvalError) {
	obj := &ObjectValue{Entries: make(map[string]Value, len(n.List))}
	for i, vn := range n.List {
		v, err := ctx.eval(vn)
		if err != nil {
			return Value{}, err
		}
		k := n.Keys[i]
		if _, dup := obj.Entries[k]; !dup {
			obj.Keys = append(obj.Keys, k)
		}
		obj.Entries[k] = v
	}
	return Obj(obj), nil
}

func (ctx *Context) evalUnit(n *Node) (Value, *EvalError) {
	v, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	if v.Tag != TagNumber {
		return Value{}, evalErrf(TypeMismatch, "unit %q needs a numeric operand, got %s", n.Text, v.Tag)
	}
	return Str(formatUnit(v.num, n.Text)), nil
}

// evalLoopLimit bounds both the elements a range materializes and the
// iterations a sigma runs.
const evalLoopLimit = 1 << 20

// evalRange expands start:end:step into a concrete array, inclusive of end.
// The default step is 1. A zero step, a non-finite bound, or a span of more
// than evalLoopLimit elements is an error rather than an unbounded loop.
func (ctx *Context) evalRange(n *Node) (Value, *EvalError) {
	start, err := ctx.evalNumber(n.Left, "range start")
	if err != nil {
		return Value{}, err
	}
	end, err := ctx.evalNumber(n.Right, "range end")
	if err != nil {
		return Value{}, err
	}
	step := 1.0
	if n.Third != nil {
		if step, err = ctx.evalNumber(n.Third, "range step"); err != nil {
			return Value{}, err
		}
	}
	if step == 0 {
		return Value{}, evalErr(TypeMismatch, "range step cannot be zero")
	}
	if special(start, end, step) {
		return Value{}, evalErr(TypeMismatch, "range bounds must be finite")
	}
	if count := math.Floor((end-start)/step) + 1; count > evalLoopLimit {
		return Value{}, evalErrf(IterationLimitExceeded, "range produces more than %d elements", evalLoopLimit)
	}
	a := ctx.arith
	var out []Value
	if step > 0 {
		for v := start; a.Cmp(v, end) <= 0; v = a.Add(v, step) {
			out = append(out, Num(v))
		}
	} else {
		for v := start; a.Cmp(v, end) >= 0; v = a.Add(v, step) {
			out = append(out, Num(v))
		}
	}
	return Arr(out), nil
}

// evalSum runs a summation. The loop variable shadows any existing binding
// and the old binding comes back on every exit path, error or not.
func (ctx *Context) evalSum(n *Node) (Value, *EvalError) {
	start, err := ctx.sumBound(n.Left)
	if err != nil {
		return Value{}, err
	}
	end, err := ctx.sumBound(n.Right)
	if err != nil {
		return Value{}, err
	}
	// The difference cannot overflow in uint64 once end >= start.
	if end >= start && uint64(end)-uint64(start) >= evalLoopLimit {
		return Value{}, evalErrf(IterationLimitExceeded, "sigma runs more than %d iterations", evalLoopLimit)
	}
	name := n.Text
	old, had := ctx.vars[name]
	defer func() {
		if had {
			ctx.vars[name] = old
		} else {
			delete(ctx.vars, name)
		}
	}()
	total := 0.0
	for i := start; i <= end; i++ {
		ctx.vars[name] = Num(float64(i))
		v, err := ctx.eval(n.Third)
		if err != nil {
			return Value{}, err
		}
		if v.Tag != TagNumber {
			return Value{}, evalErrf(SummationBodyNotNumeric, "sigma body produced %s", v.Tag)
		}
		total = ctx.arith.Add(total, v.num)
	}
	return Num(total), nil
}

func (ctx *Context) sumBound(n *Node) (int64, *EvalError) {
	v, err := ctx.eval(n)
	if err != nil {
		return 0, err
	}
	if v.Tag != TagNumber {
		return 0, evalErrf(SummationBoundsNotNumber, "sigma bound is %s", v.Tag)
	}
	x := v.num
	if math.IsInf(x, 0) || x != math.Trunc(x) {
		return 0, evalErrf(SummationBoundsNotInteger, "sigma bound %s is not an integer", formatNumber(x))
	}
	return int64(x), nil
}

func (ctx *Context) evalIndex(n *Node) (Value, *EvalError) {
	target, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	x, err := ctx.evalNumber(n.Right, "index")
	if err != nil {
		return Value{}, err
	}
	if x != math.Trunc(x) || math.IsInf(x, 0) {
		return Value{}, evalErrf(TypeMismatch, "index %s is not an integer", formatNumber(x))
	}
	i := int(x)
	switch target.Tag {
	case TagArray:
		if i < 0 || i >= len(target.arr) {
			return Value{}, evalErrf(TypeMismatch, "index %d out of range for length %d", i, len(target.arr))
		}
		return target.arr[i], nil
	case TagString:
		rs := []rune(target.str)
		if i < 0 || i >= len(rs) {
			return Value{}, evalErrf(TypeMismatch, "index %d out of range for length %d", i, len(rs))
		}
		return Str(string(rs[i])), nil
	}
	return Value{}, evalErrf(TypeMismatch, "cannot index %s", target.Tag)
}

// evalSlice takes the half-open slice of an array or string. Bounds clamp
// to the valid range, and a start past the end yields an empty result.
func (ctx *Context) evalSlice(n *Node) (Value, *EvalError) {
	target, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	var ln int
	switch target.Tag {
	case TagArray:
		ln = len(target.arr)
	case TagString:
		ln = len([]rune(target.str))
	default:
		return Value{}, evalErrf(TypeMismatch, "cannot slice %s", target.Tag)
	}
	lo, err := ctx.sliceBound(n.Right, 0, ln)
	if err != nil {
		return Value{}, err
	}
	hi, err := ctx.sliceBound(n.Third, ln, ln)
	if err != nil {
		return Value{}, err
	}
	if lo > hi {
		lo = hi
	}
	if target.Tag == TagArray {
		out := make([]Value, hi-lo)
		copy(out, target.arr[lo:hi])
		return Arr(out), nil
	}
	return Str(string([]rune(target.str)[lo:hi])), nil
}

func (ctx *Context) sliceBound(n *Node, def, ln int) (int, *EvalError) {
	if n == nil {
		return def, nil
	}
	x, err := ctx.evalNumber(n, "slice bound")
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || x != math.Trunc(x) {
		return 0, evalErrf(TypeMismatch, "slice bound %s is not an integer", formatNumber(x))
	}
	switch {
	case x < 0:
		return 0, nil
	case x > float64(ln):
		return ln, nil
	}
	return int(x), nil
}

func (ctx *Context) evalMember(n *Node) (Value, *EvalError) {
	target, err := ctx.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	if target.Tag != TagObject {
		return Value{}, evalErrf(TypeMismatch, "cannot access member %q of %s", n.Text, target.Tag)
	}
	v, ok := target.obj.Entries[n.Text]
	if !ok {
		return Value{}, evalErrf(TypeMismatch, "object has no member %q", n.Text)
	}
	return v, nil
}

// evalNumber evaluates a node that must produce a number.
func (ctx *Context) evalNumber(n *Node, what string) (float64, *EvalError) {
	v, err := ctx.eval(n)
	if err != nil {
		return 0, err
	}
	if v.Tag != TagNumber {
		return 0, evalErrf(TypeMismatch, "%s must be a number, got %s", what, v.Tag)
	}
	return v.num, nil
}
