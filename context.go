package mathlang

import "sort"

// Context is the environment an AST evaluates against: mutable variables,
// fixed constants, the function allow-list, and the arithmetic settings. A
// Context is not safe for concurrent use.
type Context struct {
	vars    map[string]Value
	consts  map[string]Value
	allowed map[string]bool
	arith   *Arith
	angle   AngleMode
	digits  int
	mode    RoundMode
	sample  bool
}

// ContextOption is an option for creating a Context.
type ContextOption interface {
	ctxOption(*Context)
}

type (
	varopt struct {
		name string
		val  Value
	}
	digitsopt int
	roundopt  RoundMode
	angleopt  AngleMode
	funcsopt  []string
	popopt    struct{}
)

func (o varopt) ctxOption(ctx *Context)    { ctx.vars[o.name] = o.val }
func (o digitsopt) ctxOption(ctx *Context) { ctx.digits = int(o) }
func (o roundopt) ctxOption(ctx *Context)  { ctx.mode = RoundMode(o) }
func (o angleopt) ctxOption(ctx *Context)  { ctx.angle = AngleMode(o) }
func (o popopt) ctxOption(ctx *Context)    { ctx.sample = false }

func (o funcsopt) ctxOption(ctx *Context) {
	ctx.allowed = make(map[string]bool, len(o))
	for _, name := range o {
		ctx.allowed[name] = true
	}
}

// SetVar sets the value of a variable when the context is created.
func SetVar(name string, v Value) ContextOption {
	return varopt{name, v}
}

// Digits sets the significant decimal digits arithmetic rounds to. n < 1
// selects DefaultDigits.
func Digits(n int) ContextOption {
	return digitsopt(n)
}

// Rounding sets the rounding mode for the final digit.
func Rounding(mode RoundMode) ContextOption {
	return roundopt(mode)
}

// Angle sets the unit of trigonometric arguments and results.
func Angle(mode AngleMode) ContextOption {
	return angleopt(mode)
}

// Functions restricts the function allow-list to the given names. Allowing
// a name does not define it: calling an allowed name with no definition is
// still an error. Without this option every built-in function is allowed.
func Functions(names ...string) ContextOption {
	return funcsopt(names)
}

// PopulationStats makes std and var divide by n instead of n-1.
func PopulationStats() ContextOption {
	return popopt{}
}

// NewContext creates an evaluation context with the given options.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		vars:   make(map[string]Value),
		digits: DefaultDigits,
		mode:   HalfUp,
		sample: true,
	}
	for _, opt := range opts {
		opt.ctxOption(ctx)
	}
	ctx.arith = NewArith(ctx.digits, ctx.mode)
	ctx.consts = map[string]Value{
		"pi":  Num(ctx.arith.Pi()),
		"e":   Num(ctx.arith.E()),
		"tau": Num(ctx.arith.Tau()),
		"phi": Num(ctx.arith.Phi()),
	}
	if ctx.allowed == nil {
		ctx.allowed = make(map[string]bool, len(builtins))
		for name := range builtins {
			ctx.allowed[name] = true
		}
	}
	return ctx
}

// SetVariable binds a variable.
func (ctx *Context) SetVariable(name string, v Value) {
	ctx.vars[name] = v
}

// GetVariable returns the value bound to a variable.
func (ctx *Context) GetVariable(name string) (Value, bool) {
	v, ok := ctx.vars[name]
	return v, ok
}

// ClearVariables removes every variable binding. Constants stay.
func (ctx *Context) ClearVariables() {
	ctx.vars = make(map[string]Value)
}

// ListVariables returns the bound variable names, sorted.
func (ctx *Context) ListVariables() []string {
	return sortedKeys(ctx.vars)
}

// ListConstants returns the constant names, sorted.
func (ctx *Context) ListConstants() []string {
	return sortedKeys(ctx.consts)
}

// ListFunctions returns the allow-listed function names, sorted.
func (ctx *Context) ListFunctions() []string {
	names := make([]string, 0, len(ctx.allowed))
	for name := range ctx.allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Arith returns the context's arithmetic layer.
func (ctx *Context) Arith() *Arith {
	return ctx.arith
}

// lookup resolves a name. Constants shadow variables.
func (ctx *Context) lookup(name string) (Value, bool) {
	if v, ok := ctx.consts[name]; ok {
		return v, true
	}
	v, ok := ctx.vars[name]
	return v, ok
}

func sortedKeys(m map[string]Value) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
