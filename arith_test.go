package mathlang

import (
	"math"
	"testing"
)

// TestArithExact pins the identities the decimal layer guarantees. Every
// comparison is exact float64 equality; none of these hold in native
// floating point.
func TestArithExact(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"0.1+0.2", a.Add(0.1, 0.2), 0.3},
		{"0.3-0.1", a.Sub(0.3, 0.1), 0.2},
		{"1.4*3", a.Mul(1.4, 3), 4.2},
		{"0.1*3", a.Mul(0.1, 3), 0.3},
		{"4.2/3", a.Div(4.2, 3), 1.4},
		{"1/3", a.Div(1, 3), 1.0 / 3},
		{"2/3", a.Div(2, 3), 2.0 / 3},
		{"32/7", a.Div(32, 7), 32.0 / 7},
		{"0.3/2", a.Div(0.3, 2), 0.15},

		{"0.3%0.1", a.Mod(0.3, 0.1), 0},
		{"2.4%0.4", a.Mod(2.4, 0.4), 0},
		{"1%0.3", a.Mod(1, 0.3), 0.1},
		{"0.5%0.2", a.Mod(0.5, 0.2), 0.1},
		{"10%3", a.Mod(10, 3), 1},
		{"-7%3", a.Mod(-7, 3), -1},
		{"7%-3", a.Mod(7, -3), 1},
		{"5.5%2", a.Mod(5.5, 2), 1.5},

		{"sqrt 2", a.Sqrt(2), math.Sqrt2},
		{"sqrt 4", a.Sqrt(4), 2},
		{"sqrt*sqrt", a.Mul(a.Sqrt(2), a.Sqrt(2)), 2},

		{"2^10", a.Pow(2, 10), 1024},
		{"2^-1", a.Pow(2, -1), 0.5},
		{"10^-2", a.Pow(10, -2), 0.01},
		{"0.1^2", a.Pow(0.1, 2), 0.01},
		{"4^0.5", a.Pow(4, 0.5), 2},
		{"2^0.5", a.Pow(2, 0.5), math.Sqrt2},
		{"8^(1/3)", a.Pow(8, 1.0/3), 2},
		{"27^(1/3)", a.Pow(27, 1.0/3), 3},
		{"(-2)^2", a.Pow(-2, 2), 4},
		{"(-2)^3", a.Pow(-2, 3), -8},

		{"exp 0", a.Exp(0), 1},
		{"exp 1", a.Exp(1), math.E},
		{"ln 1", a.Ln(1), 0},
		{"ln e", a.Ln(math.E), 1},
		{"log10 1000", a.Log10(1000), 3},
		{"log10 0.001", a.Log10(0.001), -3},
		{"log2 1024", a.Log2(1024), 10},
		{"log2 0.5", a.Log2(0.5), -1},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestArithSpecials(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	nans := []struct {
		name string
		got  float64
	}{
		{"nan+1", a.Add(math.NaN(), 1)},
		{"0/0", a.Div(0, 0)},
		{"1%0", a.Mod(1, 0)},
		{"inf-inf", a.Add(math.Inf(1), math.Inf(-1))},
		{"sqrt -1", a.Sqrt(-1)},
		{"ln -1", a.Ln(-1)},
		{"(-2)^0.5", a.Pow(-2, 0.5)},
	}
	for _, c := range nans {
		if !math.IsNaN(c.got) {
			t.Errorf("%s: got %v, want NaN", c.name, c.got)
		}
	}
	infs := []struct {
		name string
		got  float64
		sign int
	}{
		{"1/0", a.Div(1, 0), 1},
		{"-1/0", a.Div(-1, 0), -1},
		{"ln 0", a.Ln(0), -1},
		{"inf*2", a.Mul(math.Inf(1), 2), 1},
	}
	for _, c := range infs {
		if !math.IsInf(c.got, c.sign) {
			t.Errorf("%s: got %v, want infinity of sign %d", c.name, c.got, c.sign)
		}
	}
	if got := a.Pow(0, 0); got != 1 {
		t.Errorf("0^0: got %v, want 1", got)
	}
}

func TestArithEquals(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"exact", 0.5, 0.5, true},
		{"one ulp", 1, 1.0000000000000004, true},
		{"two femto", 1, 1.000000000000002, false},
		{"tiny vs zero", 0, 1.2e-16, true},
		{"small vs zero", 0, 1e-14, false},
		{"scaled in", 1e15, 1e15 + 1, true},
		{"scaled out", 1e15, 1e15 + 2, false},
		{"inf", math.Inf(1), math.Inf(1), true},
		{"inf signs", math.Inf(1), math.Inf(-1), false},
		{"inf vs large", math.Inf(1), math.MaxFloat64, false},
		{"nan", math.NaN(), math.NaN(), false},
		{"nan vs zero", math.NaN(), 0, false},
	}
	for _, c := range cases {
		if got := a.Equals(c.x, c.y); got != c.want {
			t.Errorf("%s: Equals(%v, %v) = %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}

	// fewer digits widen the tolerance
	a4 := NewArith(4, HalfUp)
	if !a4.Equals(1, 1.00005) {
		t.Error("Equals(1, 1.00005) at 4 digits: got false")
	}
	if a4.Equals(1, 1.001) {
		t.Error("Equals(1, 1.001) at 4 digits: got true")
	}
}

func TestArithCmp(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		x, y float64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{0.3, 0.3, 0},
		{1, 1.0000000000000002, 0},
		{math.Inf(-1), math.Inf(1), -1},
	}
	for _, c := range cases {
		if got := a.Cmp(c.x, c.y); got != c.want {
			t.Errorf("Cmp(%v, %v) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

// TestArithRounding exercises the three rounding modes on the digit past
// the precision, at four significant digits where the effect is visible.
func TestArithRounding(t *testing.T) {
	cases := []struct {
		mode RoundMode
		text string
		want float64
	}{
		{HalfUp, "1.0005", 1.001},
		{HalfUp, "-1.0005", -1.001},
		{HalfUp, "1.0004", 1},
		{HalfUp, "99995", 100000},
		{HalfEven, "1.0005", 1},
		{HalfEven, "1.0015", 1.002},
		{HalfEven, "0.10015", 0.1002},
		{HalfEven, "1.00051", 1.001},
		{Truncate, "1.0005", 1},
		{Truncate, "1.9999", 1.999},
	}
	for _, c := range cases {
		a := NewArith(4, c.mode)
		if got := a.ParseDecimal(c.text); got != c.want {
			t.Errorf("mode %d: ParseDecimal(%q) = %v, want %v", c.mode, c.text, got, c.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	if got := a.ParseDecimal("3.14159265358979323846"); got != math.Pi {
		t.Errorf("long pi literal: got %v, want math.Pi", got)
	}
	if got := a.ParseDecimal("1e99999"); !math.IsInf(got, 1) {
		t.Errorf("1e99999: got %v, want +Infinity", got)
	}
	if got := a.ParseDecimal("1e-99999"); got != 0 {
		t.Errorf("1e-99999: got %v, want 0", got)
	}
	if got := a.ParseDecimal("0"); got != 0 {
		t.Errorf("0: got %v, want 0", got)
	}
}

func TestArithDigitsGuard(t *testing.T) {
	for _, d := range []int{0, -3} {
		a := NewArith(d, HalfUp)
		if got := a.Digits(); got != DefaultDigits {
			t.Errorf("NewArith(%d): Digits() = %d, want %d", d, got, DefaultDigits)
		}
	}
	if got := NewArith(7, Truncate).Digits(); got != 7 {
		t.Errorf("NewArith(7): Digits() = %d, want 7", got)
	}
}

func TestArithConstants(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"pi", a.Pi(), math.Pi},
		{"tau", a.Tau(), 2 * math.Pi},
		{"e", a.E(), math.E},
		{"phi", a.Phi(), (1 + math.Sqrt(5)) / 2},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestArithTrig(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"sin 30 deg", a.Sin(30, Degrees), 0.5},
		{"cos 60 deg", a.Cos(60, Degrees), 0.5},
		{"tan 45 deg", a.Tan(45, Degrees), 1},
		{"sin 90 deg", a.Sin(90, Degrees), 1},
		{"asin 1 deg", a.Asin(1, Degrees), 90},
		{"acos 0 deg", a.Acos(0, Degrees), 90},
		{"atan 1 deg", a.Atan(1, Degrees), 45},
		{"atan2 1 1 deg", a.Atan2(1, 1, Degrees), 45},
		{"sin pi/2", a.Sin(math.Pi/2, Radians), 1},
		{"cos 0", a.Cos(0, Radians), 1},
		{"sinh 0", a.Sinh(0), 0},
		{"cosh 0", a.Cosh(0), 1},
		{"tanh 0", a.Tanh(0), 0},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
	// sin(pi) is not exactly zero, but it is zero to the comparison
	sp := a.Sin(math.Pi, Radians)
	if sp == 0 || !a.Equals(sp, 0) {
		t.Errorf("sin(pi): got %v, want a nonzero value equal to 0 under tolerance", sp)
	}
}

func TestRoundNative(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		in   float64
		want float64
	}{
		{0.1 + 0.2, 0.3},
		{math.Pi, 3.14159265358979},
		{1.2246467991473532e-16, 1.22464679914735e-16},
		{0, 0},
		{math.Inf(1), math.Inf(1)},
	}
	for _, c := range cases {
		if got := a.roundNative(c.in); got != c.want {
			t.Errorf("roundNative(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	// configured digits below 15 narrow the native rounding too
	a4 := NewArith(4, HalfUp)
	if got := a4.roundNative(0.123456); got != 0.1235 {
		t.Errorf("roundNative(0.123456) at 4 digits = %v, want 0.1235", got)
	}
}

func TestFactorial(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		n    int64
		want float64
	}{
		{0, 1},
		{1, 1},
		{5, 120},
		{20, 2432902008176640000},
	}
	for _, c := range cases {
		if got := a.Factorial(c.n); got != c.want {
			t.Errorf("Factorial(%d) = %v, want %v", c.n, got, c.want)
		}
	}
	if got := a.Factorial(170); math.IsInf(got, 0) || got < 7e306 {
		t.Errorf("Factorial(170) = %v, want a finite value above 7e306", got)
	}
	if got := a.Factorial(171); !math.IsInf(got, 1) {
		t.Errorf("Factorial(171) = %v, want +Infinity", got)
	}
}

func TestGamma(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	exact := []struct {
		x    float64
		want float64
	}{
		{1, 1},
		{2, 1},
		{5, 24},
		{11, 3628800},
		{0, math.Inf(1)},
		{172, math.Inf(1)},
	}
	for _, c := range exact {
		if got := a.Gamma(c.x); got != c.want {
			t.Errorf("Gamma(%v) = %v, want %v", c.x, got, c.want)
		}
	}
	for _, x := range []float64{-1, -2, -100, math.NaN()} {
		if got := a.Gamma(x); !math.IsNaN(got) {
			t.Errorf("Gamma(%v) = %v, want NaN", x, got)
		}
	}
	near := []struct {
		x    float64
		want float64
	}{
		{0.5, math.Sqrt(math.Pi)},
		{-0.5, -2 * math.Sqrt(math.Pi)},
		{6.5, 287.88527781504433},
	}
	for _, c := range near {
		got := a.Gamma(c.x)
		if math.Abs(got-c.want) > 1e-12*math.Abs(c.want) {
			t.Errorf("Gamma(%v) = %v, want about %v", c.x, got, c.want)
		}
	}
}

func TestNumber(t *testing.T) {
	a := NewArith(DefaultDigits, HalfUp)
	cases := []struct {
		v    Value
		want float64
		ok   bool
	}{
		{Num(5), 5, true},
		{Num(-0.5), -0.5, true},
		{Str("5 kg"), 5, true},
		{Str("-2.5 m/s"), -2.5, true},
		{Str("3e2 Hz"), 300, true},
		{Str("kg"), 0, false},
		{Str(""), 0, false},
		{Bool(true), 0, false},
	}
	for _, c := range cases {
		got, ok := a.Number(c.v)
		if got != c.want || ok != c.ok {
			t.Errorf("Number(%v) = %v, %v, want %v, %v", c.v, got, ok, c.want, c.ok)
		}
	}
}

func TestSplitUnit(t *testing.T) {
	cases := []struct {
		s    string
		f    float64
		unit string
		ok   bool
	}{
		{"5 kg", 5, "kg", true},
		{"10m", 10, "m", true},
		{"-2.5 m/s", -2.5, "m/s", true},
		{"3e2 Hz", 300, "Hz", true},
		{" 42 ", 42, "", true},
		{"kg", 0, "", false},
		{"", 0, "", false},
		{"-", 0, "", false},
	}
	for _, c := range cases {
		f, unit, ok := splitUnit(c.s)
		if f != c.f || unit != c.unit || ok != c.ok {
			t.Errorf("splitUnit(%q) = %v, %q, %v, want %v, %q, %v", c.s, f, unit, ok, c.f, c.unit, c.ok)
		}
	}
}
