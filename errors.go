package mathlang

import "fmt"

// ErrCode classifies an evaluation failure.
type ErrCode string

// The evaluation error codes. Division by zero and domain errors of the
// transcendental functions are not errors; they produce IEEE infinities and
// NaN instead.
const (
	// UndefinedVariable is a reference to a name with no binding.
	UndefinedVariable ErrCode = "UndefinedVariable"
	// UndefinedFunction is a call to a name that is allowed but not defined.
	UndefinedFunction ErrCode = "UndefinedFunction"
	// FunctionNotAllowed is a call to a name outside the allow-list.
	FunctionNotAllowed ErrCode = "FunctionNotAllowed"
	// ArrayLengthMismatch is an element-wise operation over arrays of
	// different lengths.
	ArrayLengthMismatch ErrCode = "ArrayLengthMismatch"
	// TypeMismatch is an operation applied to values it is not defined for.
	TypeMismatch ErrCode = "TypeMismatch"
	// InvalidFactorialOperand is a factorial of anything but a non-negative
	// integer.
	InvalidFactorialOperand ErrCode = "InvalidFactorialOperand"
	// SummationBoundsNotNumber is a sigma bound that is not a number.
	SummationBoundsNotNumber ErrCode = "SummationBoundsNotNumber"
	// SummationBoundsNotInteger is a sigma bound with a fractional part.
	SummationBoundsNotInteger ErrCode = "SummationBoundsNotInteger"
	// SummationBodyNotNumeric is a sigma body producing a non-number.
	SummationBodyNotNumeric ErrCode = "SummationBodyNotNumeric"
	// IterationLimitExceeded is a range or sigma demanding more work than
	// the evaluator is willing to do in one expression.
	IterationLimitExceeded ErrCode = "IterationLimitExceeded"
	// UnsupportedOperator is an operator the evaluator does not implement.
	UnsupportedOperator ErrCode = "UnsupportedOperator"
	// UnsupportedNode is an AST shape the evaluator does not implement,
	// including recovered internal panics.
	UnsupportedNode ErrCode = "UnsupportedNode"
)

// EvalError is any failure produced while evaluating an AST. Evaluation
// errors carry no source position; they describe values, not text.
type EvalError struct {
	Code ErrCode
	Msg  string
}

func (err *EvalError) Error() string {
	return string(err.Code) + ": " + err.Msg
}

func evalErr(code ErrCode, msg string) *EvalError {
	return &EvalError{Code: code, Msg: msg}
}

func evalErrf(code ErrCode, format string, args ...interface{}) *EvalError {
	return &EvalError{Code: code, Msg: fmt.Sprintf(format, args...)}
}
