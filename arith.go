package mathlang

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// RoundMode selects how Arith rounds the first digit past the precision.
type RoundMode int8

const (
	// HalfUp rounds a remainder of one half away from zero.
	HalfUp RoundMode = iota
	// HalfEven rounds a remainder of one half to the nearest even digit.
	HalfEven
	// Truncate drops all digits past the precision.
	Truncate
)

// AngleMode selects the unit of trigonometric arguments and results.
type AngleMode int8

const (
	// Radians is the default angle unit.
	Radians AngleMode = iota
	// Degrees converts arguments from and results to degrees. Hyperbolic
	// functions are unaffected.
	Degrees
)

// DefaultDigits is the number of significant decimal digits Arith keeps by
// default.
const DefaultDigits = 20

const (
	log2of10  = 3.321928094887362
	radPerDeg = math.Pi / 180
	degPerRad = 180 / math.Pi
)

// Arith is the decimal arithmetic layer. Operands convert in through their
// shortest decimal form, computation happens on big floats with guard bits,
// and each result rounds once to the configured significant digits on the
// way back to float64, so identities like 0.1+0.2 == 0.3 hold exactly.
//
// Non-finite operands bypass the big computation and take ordinary IEEE
// semantics: dividing by zero yields an infinity, not an error.
type Arith struct {
	digits int
	mode   RoundMode
	// prec is the working binary precision in bits.
	prec uint
}

// NewArith creates an arithmetic layer rounding to the given significant
// decimal digits. digits < 1 selects DefaultDigits.
func NewArith(digits int, mode RoundMode) *Arith {
	if digits < 1 {
		digits = DefaultDigits
	}
	return &Arith{
		digits: digits,
		mode:   mode,
		prec:   uint(math.Ceil(float64(digits)*log2of10)) + 32,
	}
}

// Digits returns the configured significant decimal digits.
func (a *Arith) Digits() int { return a.digits }

// special reports whether any operand needs native IEEE handling. big.Float
// has no NaN, and its arithmetic panics on the indeterminate forms.
func special(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// float converts a host float to a big float through its shortest decimal
// form, so that the operand is exactly the decimal number it prints as.
func (a *Arith) float(f float64) *big.Float {
	z := new(big.Float).SetPrec(a.prec)
	v, _, err := z.Parse(strconv.FormatFloat(f, 'g', -1, 64), 10)
	if err != nil {
		panic("mathlang: unparseable float: " + err.Error())
	}
	return v
}

// round converts a big result to float64 after rounding it to the
// configured significant digits.
func (a *Arith) round(z *big.Float) float64 {
	if z.IsInf() {
		return math.Inf(z.Sign())
	}
	if z.Sign() == 0 {
		return 0
	}
	f, _ := strconv.ParseFloat(a.text(z), 64)
	return f
}

// text renders z in scientific notation with the configured digits,
// applying the rounding mode to the dropped remainder.
func (a *Arith) text(z *big.Float) string {
	// Three guard digits cover the binary conversion's own rounding.
	s := z.Text('e', a.digits+2)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	k := strings.IndexByte(s, 'e')
	mant := strings.Replace(s[:k], ".", "", 1)
	exp, err := strconv.Atoi(s[k+1:])
	if err != nil {
		panic("mathlang: bad exponent in " + s)
	}
	keep, rest := mant[:a.digits], mant[a.digits:]
	up := false
	switch a.mode {
	case HalfUp:
		up = rest[0] >= '5'
	case HalfEven:
		switch {
		case rest[0] > '5':
			up = true
		case rest[0] == '5':
			if strings.Trim(rest[1:], "0") != "" {
				up = true
			} else {
				up = (keep[len(keep)-1]-'0')%2 == 1
			}
		}
	case Truncate:
	}
	if up {
		b := []byte(keep)
		i := len(b) - 1
		for ; i >= 0; i-- {
			if b[i] != '9' {
				b[i]++
				break
			}
			b[i] = '0'
		}
		if i < 0 {
			b = append([]byte{'1'}, b[:len(b)-1]...)
			exp++
		}
		keep = string(b)
	}
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte(keep[0])
	if len(keep) > 1 {
		sb.WriteByte('.')
		sb.WriteString(keep[1:])
	}
	sb.WriteByte('e')
	sb.WriteString(strconv.Itoa(exp))
	return sb.String()
}

// roundNative rounds a natively computed transcendental result. The host
// functions carry at most about 15 correct decimal digits, so the width is
// capped there regardless of the configured digits.
func (a *Arith) roundNative(f float64) float64 {
	if special(f) || f == 0 {
		return f
	}
	d := a.digits
	if d > 15 {
		d = 15
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'e', d-1, 64), 64)
	return r
}

// ParseDecimal converts a decimal literal to a number at the configured
// precision. The tokenizer validates literals, so the text is trusted to be
// well formed; a literal beyond the representable range becomes an infinity
// or zero.
func (a *Arith) ParseDecimal(text string) float64 {
	z, _, err := new(big.Float).SetPrec(a.prec).Parse(text, 10)
	if err != nil {
		if strings.Contains(text, "e-") || strings.Contains(text, "E-") {
			return 0
		}
		return math.Inf(1)
	}
	return a.round(z)
}

// Number extracts the numeric content of a value: numbers pass through, and
// strings yield their leading decimal prefix, which is how unit values
// re-enter arithmetic. The second result reports whether extraction
// succeeded.
func (a *Arith) Number(v Value) (float64, bool) {
	switch v.Tag {
	case TagNumber:
		return v.num, true
	case TagString:
		f, _, ok := splitUnit(v.str)
		return f, ok
	}
	return 0, false
}

// Add returns x+y.
func (a *Arith) Add(x, y float64) float64 {
	if special(x, y) {
		return x + y
	}
	z := new(big.Float).SetPrec(a.prec).Add(a.float(x), a.float(y))
	return a.round(z)
}

// Sub returns x-y.
func (a *Arith) Sub(x, y float64) float64 {
	if special(x, y) {
		return x - y
	}
	z := new(big.Float).SetPrec(a.prec).Sub(a.float(x), a.float(y))
	return a.round(z)
}

// Mul returns x*y.
func (a *Arith) Mul(x, y float64) float64 {
	if special(x, y) {
		return x * y
	}
	z := new(big.Float).SetPrec(a.prec).Mul(a.float(x), a.float(y))
	return a.round(z)
}

// Div returns x/y. Dividing by zero takes IEEE semantics: an infinity by
// the sign of x, or NaN for 0/0.
func (a *Arith) Div(x, y float64) float64 {
	if special(x, y) || y == 0 {
		return x / y
	}
	z := new(big.Float).SetPrec(a.prec).Quo(a.float(x), a.float(y))
	return a.round(z)
}

// Mod returns the remainder of truncated division, matching math.Mod in
// sign. The quotient rounds to the configured digits before truncating, so
// decimal operands behave as typed: 0.3 % 0.1 is 0, not a parse residue.
func (a *Arith) Mod(x, y float64) float64 {
	if special(x, y) || y == 0 {
		return math.Mod(x, y)
	}
	q := math.Trunc(a.Div(x, y))
	return a.Sub(x, a.Mul(q, y))
}

// Pow returns x**y. A negative base is defined for integer exponents only;
// any other negative-base power is NaN, as with math.Pow.
//
// The base converts through its printed decimal form like any operand, so
// 0.1^2 is exactly 0.01. The exponent keeps its exact binary value instead:
// a computed fraction like 1/3 sits nearer the true third in binary than in
// print, which is what lands 8^(1/3) on 2.
func (a *Arith) Pow(x, y float64) float64 {
	if special(x, y) || x == 0 || y == 0 {
		return math.Pow(x, y)
	}
	if x < 0 {
		if y != math.Trunc(y) {
			return math.NaN()
		}
		m := a.Pow(-x, y)
		if math.Mod(y, 2) != 0 {
			return -m
		}
		return m
	}
	// A result with binary exponent past 1100 is already an infinity or a
	// zero in float64.
	if e := y * math.Log2(x); e > 1100 || e < -1100 {
		return math.Pow(x, y)
	}
	z := new(big.Float).SetPrec(a.prec)
	e := new(big.Float).SetPrec(a.prec).SetFloat64(y)
	bigfloat.Pow(z, a.float(x), e)
	return a.round(z)
}

// Sqrt returns the square root of x. Negative x is NaN, not an error.
func (a *Arith) Sqrt(x float64) float64 {
	if special(x) || x < 0 {
		return math.Sqrt(x)
	}
	z := new(big.Float).SetPrec(a.prec)
	z.Sqrt(a.float(x))
	return a.round(z)
}

// Exp returns e**x.
func (a *Arith) Exp(x float64) float64 {
	if special(x) || x > 1100 || x < -1100 {
		return math.Exp(x)
	}
	z := new(big.Float).SetPrec(a.prec)
	bigfloat.Exp(z, a.float(x))
	return a.round(z)
}

// Ln returns the natural logarithm of x. Zero and negative arguments take
// IEEE semantics: -Inf and NaN. The operand keeps its exact binary value,
// which holds ln(e) at exactly 1.
func (a *Arith) Ln(x float64) float64 {
	if special(x) || x <= 0 {
		return math.Log(x)
	}
	z := new(big.Float).SetPrec(a.prec)
	bigfloat.Log(z, new(big.Float).SetPrec(a.prec).SetFloat64(x))
	return a.round(z)
}

// Log10 returns the base-10 logarithm of x.
func (a *Arith) Log10(x float64) float64 {
	return a.logBase(x, 10, math.Log10)
}

// Log2 returns the base-2 logarithm of x.
func (a *Arith) Log2(x float64) float64 {
	return a.logBase(x, 2, math.Log2)
}

func (a *Arith) logBase(x float64, base int64, native func(float64) float64) float64 {
	if special(x) || x <= 0 {
		return native(x)
	}
	z := new(big.Float).SetPrec(a.prec)
	bigfloat.Log(z, new(big.Float).SetPrec(a.prec).SetFloat64(x))
	d := new(big.Float).SetPrec(a.prec).SetInt64(base)
	bigfloat.Log(d, d)
	return a.round(z.Quo(z, d))
}

// Cbrt returns the cube root of x.
func (a *Arith) Cbrt(x float64) float64 {
	return a.roundNative(math.Cbrt(x))
}

// Sin returns the sine of x in the given angle unit.
func (a *Arith) Sin(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		x *= radPerDeg
	}
	return a.roundNative(math.Sin(x))
}

// Cos returns the cosine of x in the given angle unit.
func (a *Arith) Cos(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		x *= radPerDeg
	}
	return a.roundNative(math.Cos(x))
}

// Tan returns the tangent of x in the given angle unit.
func (a *Arith) Tan(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		x *= radPerDeg
	}
	return a.roundNative(math.Tan(x))
}

// Asin returns the arcsine of x as an angle in the given unit.
func (a *Arith) Asin(x float64, mode AngleMode) float64 {
	return a.angleOut(math.Asin(x), mode)
}

// Acos returns the arccosine of x as an angle in the given unit.
func (a *Arith) Acos(x float64, mode AngleMode) float64 {
	return a.angleOut(math.Acos(x), mode)
}

// Atan returns the arctangent of x as an angle in the given unit.
func (a *Arith) Atan(x float64, mode AngleMode) float64 {
	return a.angleOut(math.Atan(x), mode)
}

// Atan2 returns the angle of the point (x, y) in the given unit.
func (a *Arith) Atan2(y, x float64, mode AngleMode) float64 {
	return a.angleOut(math.Atan2(y, x), mode)
}

// angleOut converts a radian result to the output unit before rounding, so
// that exact angles like atan(1) in degrees survive as exact values.
func (a *Arith) angleOut(rad float64, mode AngleMode) float64 {
	if mode == Degrees {
		rad *= degPerRad
	}
	return a.roundNative(rad)
}

// Sinh returns the hyperbolic sine of x. Hyperbolic functions take plain
// numbers, not angles, so they have no angle mode.
func (a *Arith) Sinh(x float64) float64 { return a.roundNative(math.Sinh(x)) }

// Cosh returns the hyperbolic cosine of x.
func (a *Arith) Cosh(x float64) float64 { return a.roundNative(math.Cosh(x)) }

// Tanh returns the hyperbolic tangent of x.
func (a *Arith) Tanh(x float64) float64 { return a.roundNative(math.Tanh(x)) }

// Asinh returns the inverse hyperbolic sine of x.
func (a *Arith) Asinh(x float64) float64 { return a.roundNative(math.Asinh(x)) }

// Acosh returns the inverse hyperbolic cosine of x.
func (a *Arith) Acosh(x float64) float64 { return a.roundNative(math.Acosh(x)) }

// Atanh returns the inverse hyperbolic tangent of x.
func (a *Arith) Atanh(x float64) float64 { return a.roundNative(math.Atanh(x)) }

// lanczos7 is the g=7, n=9 coefficient set for the Lanczos approximation of
// the gamma function.
var lanczos7 = [9]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// Gamma returns the gamma function of x: the reflection formula for
// negative arguments, the recurrence gamma(x) = gamma(x+1)/x on (0,1), and
// the Lanczos series elsewhere. gamma(0) is +Inf, and the poles at negative
// integers are NaN, matching math.Gamma.
func (a *Arith) Gamma(x float64) float64 {
	return a.roundNative(gamma(x))
}

func gamma(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x == 0:
		return math.Inf(1)
	case x < 0:
		if x == math.Trunc(x) {
			return math.NaN()
		}
		return math.Pi / (math.Sin(math.Pi*x) * gamma(1-x))
	case x > 171.625:
		// Past the largest finite gamma value for float64.
		return math.Inf(1)
	case x < 1:
		return gamma(x+1) / x
	}
	x--
	t := lanczos7[0]
	for i := 1; i < len(lanczos7); i++ {
		t += lanczos7[i] / (x + float64(i))
	}
	w := x + 7.5
	return math.Sqrt(2*math.Pi) * math.Pow(w, x+0.5) * math.Exp(-w) * t
}

// Factorial returns n! for a non-negative integer n, computed exactly and
// then rounded like any other product. n > 170 overflows float64 and is
// +Inf. Validating the operand is the caller's job.
func (a *Arith) Factorial(n int64) float64 {
	if n > 170 {
		return math.Inf(1)
	}
	z := new(big.Float).SetPrec(a.prec).SetInt64(1)
	var f big.Float
	for i := int64(2); i <= n; i++ {
		z.Mul(z, f.SetInt64(i))
	}
	return a.round(z)
}

// Pi returns pi at the configured precision.
func (a *Arith) Pi() float64 {
	z := new(big.Float).SetPrec(a.prec)
	return a.round(bigfloat.Pi(z))
}

// E returns Euler's number at the configured precision.
func (a *Arith) E() float64 {
	one := new(big.Float).SetPrec(a.prec).SetInt64(1)
	z := new(big.Float).SetPrec(a.prec)
	return a.round(bigfloat.Exp(z, one))
}

// Tau returns 2*pi at the configured precision.
func (a *Arith) Tau() float64 {
	z := new(big.Float).SetPrec(a.prec)
	bigfloat.Pi(z)
	return a.round(z.Add(z, z))
}

// Phi returns the golden ratio at the configured precision.
func (a *Arith) Phi() float64 {
	z := new(big.Float).SetPrec(a.prec).SetInt64(5)
	z.Sqrt(z)
	one := new(big.Float).SetPrec(a.prec).SetInt64(1)
	z.Add(z, one)
	two := new(big.Float).SetPrec(a.prec).SetInt64(2)
	z.Quo(z, two)
	return a.round(z)
}

// Equals compares two numbers with the engine's tolerance: values within
// one part in 10^min(digits, 15) of each other, scaled by magnitude, are
// equal. NaN equals nothing, including itself.
func (a *Arith) Equals(x, y float64) bool {
	if x == y {
		return true
	}
	if special(x, y) {
		return false
	}
	d := a.digits
	if d > 15 {
		d = 15
	}
	eps := math.Pow(10, -float64(d))
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	return math.Abs(x-y) <= eps*scale
}

// Cmp orders x and y with the equality tolerance: -1, 0, or 1.
func (a *Arith) Cmp(x, y float64) int {
	switch {
	case a.Equals(x, y):
		return 0
	case x < y:
		return -1
	}
	return 1
}
