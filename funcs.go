package mathlang

import (
	"math"
	"sort"
)

// builtin evaluates one function over already-evaluated arguments.
type builtin func(ctx *Context, args []Value) (Value, *EvalError)

// builtins is every function the evaluator can dispatch. The Context
// allow-list controls which of these a program may call.
var builtins = map[string]builtin{
	// Rounding and sign. These are exact in float64, so they skip the
	// decimal engine.
	"abs":   numeric1("abs", func(ctx *Context, x float64) float64 { return math.Abs(x) }),
	"round": numeric1("round", func(ctx *Context, x float64) float64 { return math.Round(x) }),
	"floor": numeric1("floor", func(ctx *Context, x float64) float64 { return math.Floor(x) }),
	"ceil":  numeric1("ceil", func(ctx *Context, x float64) float64 { return math.Ceil(x) }),
	"trunc": numeric1("trunc", func(ctx *Context, x float64) float64 { return math.Trunc(x) }),
	"sign":  numeric1("sign", func(ctx *Context, x float64) float64 { return sign(x) }),

	// Roots, exponentials, and logarithms.
	"sqrt":  numeric1("sqrt", func(ctx *Context, x float64) float64 { return ctx.arith.Sqrt(x) }),
	"cbrt":  numeric1("cbrt", func(ctx *Context, x float64) float64 { return ctx.arith.Cbrt(x) }),
	"exp":   numeric1("exp", func(ctx *Context, x float64) float64 { return ctx.arith.Exp(x) }),
	"ln":    numeric1("ln", func(ctx *Context, x float64) float64 { return ctx.arith.Ln(x) }),
	"log":   numeric1("log", func(ctx *Context, x float64) float64 { return ctx.arith.Ln(x) }),
	"log10": numeric1("log10", func(ctx *Context, x float64) float64 { return ctx.arith.Log10(x) }),
	"log2":  numeric1("log2", func(ctx *Context, x float64) float64 { return ctx.arith.Log2(x) }),

	// Trigonometry, honoring the context's angle mode.
	"sin":  numeric1("sin", func(ctx *Context, x float64) float64 { return ctx.arith.Sin(x, ctx.angle) }),
	"cos":  numeric1("cos", func(ctx *Context, x float64) float64 { return ctx.arith.Cos(x, ctx.angle) }),
	"tan":  numeric1("tan", func(ctx *Context, x float64) float64 { return ctx.arith.Tan(x, ctx.angle) }),
	"asin": numeric1("asin", func(ctx *Context, x float64) float64 { return ctx.arith.Asin(x, ctx.angle) }),
	"acos": numeric1("acos", func(ctx *Context, x float64) float64 { return ctx.arith.Acos(x, ctx.angle) }),
	"atan": numeric1("atan", func(ctx *Context, x float64) float64 { return ctx.arith.Atan(x, ctx.angle) }),
	"atan2": numeric2("atan2", func(ctx *Context, y, x float64) float64 {
		return ctx.arith.Atan2(y, x, ctx.angle)
	}),

	// Hyperbolic functions take plain numbers; the angle mode does not
	// apply.
	"sinh":  numeric1("sinh", func(ctx *Context, x float64) float64 { return ctx.arith.Sinh(x) }),
	"cosh":  numeric1("cosh", func(ctx *Context, x float64) float64 { return ctx.arith.Cosh(x) }),
	"tanh":  numeric1("tanh", func(ctx *Context, x float64) float64 { return ctx.arith.Tanh(x) }),
	"asinh": numeric1("asinh", func(ctx *Context, x float64) float64 { return ctx.arith.Asinh(x) }),
	"acosh": numeric1("acosh", func(ctx *Context, x float64) float64 { return ctx.arith.Acosh(x) }),
	"atanh": numeric1("atanh", func(ctx *Context, x float64) float64 { return ctx.arith.Atanh(x) }),

	// Aggregates flatten nested arrays and refuse empty input.
	"min": aggregate("min", func(ctx *Context, xs []float64) float64 {
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Min(m, x)
		}
		return m
	}),
	"max": aggregate("max", func(ctx *Context, xs []float64) float64 {
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Max(m, x)
		}
		return m
	}),
	"sum":    aggregate("sum", sum),
	"mean":   aggregate("mean", mean),
	"median": aggregate("median", median),
	"var":    aggregate("var", variance),
	"std": aggregate("std", func(ctx *Context, xs []float64) float64 {
		return ctx.arith.Sqrt(variance(ctx, xs))
	}),

	"factorial": func(ctx *Context, args []Value) (Value, *EvalError) {
		if len(args) != 1 {
			return Value{}, arityErr("factorial", 1, len(args))
		}
		return factorialValue(ctx, args[0])
	},
	"gamma": numeric1("gamma", func(ctx *Context, x float64) float64 { return ctx.arith.Gamma(x) }),
}

// BuiltinNames returns the names of every built-in function, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// numeric1 adapts a one-argument numeric function.
func numeric1(name string, f func(*Context, float64) float64) builtin {
	return func(ctx *Context, args []Value) (Value, *EvalError) {
		if len(args) != 1 {
			return Value{}, arityErr(name, 1, len(args))
		}
		x, err := numArg(name, args[0])
		if err != nil {
			return Value{}, err
		}
		return Num(f(ctx, x)), nil
	}
}

// numeric2 adapts a two-argument numeric function.
func numeric2(name string, f func(*Context, float64, float64) float64) builtin {
	return func(ctx *Context, args []Value) (Value, *EvalError) {
		if len(args) != 2 {
			return Value{}, arityErr(name, 2, len(args))
		}
		x, err := numArg(name, args[0])
		if err != nil {
			return Value{}, err
		}
		y, err := numArg(name, args[1])
		if err != nil {
			return Value{}, err
		}
		return Num(f(ctx, x, y)), nil
	}
}

// aggregate adapts a statistics function over the flattened numeric content
// of its arguments. Empty input is an error naming the function.
func aggregate(name string, f func(*Context, []float64) float64) builtin {
	return func(ctx *Context, args []Value) (Value, *EvalError) {
		var xs []float64
		var err *EvalError
		for _, a := range args {
			if xs, err = flatten(name, a, xs); err != nil {
				return Value{}, err
			}
		}
		if len(xs) == 0 {
			return Value{}, evalErrf(TypeMismatch, "%s of empty input", name)
		}
		return Num(f(ctx, xs)), nil
	}
}

// flatten appends every number in v to dst, recursing into arrays.
func flatten(name string, v Value, dst []float64) ([]float64, *EvalError) {
	switch v.Tag {
	case TagNumber:
		return append(dst, v.num), nil
	case TagArray:
		var err *EvalError
		for _, el := range v.arr {
			if dst, err = flatten(name, el, dst); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	return nil, evalErrf(TypeMismatch, "%s expects numbers, got %s", name, v.Tag)
}

func arityErr(name string, want, got int) *EvalError {
	return evalErrf(TypeMismatch, "%s expects %d argument(s), got %d", name, want, got)
}

func numArg(name string, v Value) (float64, *EvalError) {
	if v.Tag != TagNumber {
		return 0, evalErrf(TypeMismatch, "%s expects a number, got %s", name, v.Tag)
	}
	return v.num, nil
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func sum(ctx *Context, xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t = ctx.arith.Add(t, x)
	}
	return t
}

func mean(ctx *Context, xs []float64) float64 {
	return ctx.arith.Div(sum(ctx, xs), float64(len(xs)))
}

func median(ctx *Context, xs []float64) float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return ctx.arith.Div(ctx.arith.Add(s[mid-1], s[mid]), 2)
}

// variance divides by n-1 unless the context asks for population
// statistics. The variance of a single sample is NaN.
func variance(ctx *Context, xs []float64) float64 {
	a := ctx.arith
	m := mean(ctx, xs)
	acc := 0.0
	for _, x := range xs {
		d := a.Sub(x, m)
		acc = a.Add(acc, a.Mul(d, d))
	}
	n := float64(len(xs))
	if ctx.sample {
		n--
	}
	return a.Div(acc, n)
}

// factorialValue validates and computes n! for the postfix operator and the
// function form alike.
func factorialValue(ctx *Context, v Value) (Value, *EvalError) {
	if v.Tag != TagNumber {
		return Value{}, evalErrf(InvalidFactorialOperand, "factorial of %s", v.Tag)
	}
	x := v.num
	if x < 0 || x != math.Trunc(x) {
		return Value{}, evalErrf(InvalidFactorialOperand, "factorial requires a non-negative integer, got %s", formatNumber(x))
	}
	if x > 170 {
		return Num(math.Inf(1)), nil
	}
	return Num(ctx.arith.Factorial(int64(x))), nil
}
