package mathlang_test

import (
	"errors"
	"testing"

	"github.com/mathlang/mathlang"
)

// FuzzEval checks that evaluation is total: any source that parses either
// produces a renderable value or reports an *EvalError, and never panics.
func FuzzEval(f *testing.F) {
	f.Add("x = 2; y = x^3 + 1; y % 5")
	f.Add("sigma(i, 1, 10, i^2 / (i + 1))")
	f.Add("(1:10:2) .* [1, 2, 3, 4, 5]")
	f.Add(`5 kg == "5 kg" ? [1,2]' : {a: 1}.a`)
	f.Add("mean(0.1:0.5:0.1) + median([1, 3, 2])")
	f.Add("gamma(-0.5) * atan2(1, -1) - ln(2)^2")
	f.Add("1/0 >= 0/0 or -(2^-1074) < 0")
	f.Add("2 +")
	f.Fuzz(func(t *testing.T, src string) {
		res := mathlang.Parse(src, mathlang.MaxLength(4096))
		if !res.Valid {
			return
		}
		v, err := mathlang.Evaluate(res.AST, mathlang.NewContext())
		if err != nil {
			var ee *mathlang.EvalError
			if !errors.As(err, &ee) {
				t.Errorf("evaluating %q: %v is not an *EvalError", src, err)
			}
			return
		}
		_ = v.String()
	})
}
