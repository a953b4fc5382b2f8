// Package mathlang implements a small mathematical language: a tokenizer, a
// recursive descent parser, and a tree-walking evaluator over
// decimal-rounded arithmetic.
//
// Programs are statements separated by newlines or semicolons. Statements
// are assignments like "x = 2 + 3" or bare expressions; the value of a
// program is the value of its last statement. Beyond scalar arithmetic the
// language has arrays with element-wise broadcasting, ranges like 1:10:2,
// summations like sigma(i, 1, 5, i^2), conditionals, comparisons, unit
// suffixes like 5 kg, factorial, and matrix transpose.
//
// Arithmetic routes through a decimal engine that computes on big floats
// and rounds once to a configured number of significant digits, so
// "0.1 + 0.2 == 0.3" is true and "1.4 * 3" is exactly 4.2. Division by zero
// and domain violations are not errors; they propagate IEEE infinities and
// NaN like the underlying floats.
//
// Parsing and evaluating are separate steps with separate failure modes:
// Parse gathers positioned syntax errors without evaluating anything, and
// Evaluate walks the parsed program against a Context holding variables,
// constants, and the function allow-list.
package mathlang
