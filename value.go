package mathlang

import (
	"math"
	"strconv"
	"strings"
)

// ValueTag classifies a Value.
type ValueTag int8

const (
	// TagNull tags the zero Value, produced only by an empty program.
	TagNull ValueTag = iota
	// TagNumber tags a number.
	TagNumber
	// TagString tags a string, including formatted unit values.
	TagString
	// TagBool tags a boolean.
	TagBool
	// TagArray tags an ordered list, possibly nested and heterogeneous.
	TagArray
	// TagObject tags an ordered set of key/value pairs.
	TagObject
)

var tagNames = [...]string{"null", "number", "string", "boolean", "array", "object"}

func (t ValueTag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "ValueTag(" + strconv.Itoa(int(t)) + ")"
}

// Value is one value of the language. The zero Value is null.
type Value struct {
	Tag ValueTag
	num float64
	str string
	b   bool
	arr []Value
	obj *ObjectValue
}

// ObjectValue is the payload of an object value. Keys preserves insertion
// order; Entries holds the bindings.
type ObjectValue struct {
	Keys    []string
	Entries map[string]Value
}

// Num makes a number value.
func Num(f float64) Value { return Value{Tag: TagNumber, num: f} }

// Str makes a string value.
func Str(s string) Value { return Value{Tag: TagString, str: s} }

// Bool makes a boolean value.
func Bool(b bool) Value { return Value{Tag: TagBool, b: b} }

// Arr makes an array value of the given elements. The slice is not copied.
func Arr(els []Value) Value { return Value{Tag: TagArray, arr: els} }

// Obj makes an object value.
func Obj(o *ObjectValue) Value { return Value{Tag: TagObject, obj: o} }

// Num returns the payload of a number value, or 0 for any other tag.
func (v Value) Num() float64 { return v.num }

// Str returns the payload of a string value, or "" for any other tag.
func (v Value) Str() string { return v.str }

// Bool returns the payload of a boolean value, or false for any other tag.
func (v Value) Bool() bool { return v.b }

// Arr returns the elements of an array value, or nil for any other tag.
func (v Value) Arr() []Value { return v.arr }

// Obj returns the payload of an object value, or nil for any other tag.
func (v Value) Obj() *ObjectValue { return v.obj }

// Truthy reports the non-strict truth of a value: null, false, zero, NaN,
// and the empty string are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Tag {
	case TagNull:
		return false
	case TagNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TagString:
		return v.str != ""
	case TagBool:
		return v.b
	}
	return true
}

// String renders the value the way results print: numbers in their shortest
// round-trip decimal form, strings bare at the top level and quoted inside
// arrays and objects.
func (v Value) String() string {
	if v.Tag == TagString {
		return v.str
	}
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.Tag {
	case TagNull:
	case TagNumber:
		b.WriteString(formatNumber(v.num))
	case TagString:
		b.WriteString(strconv.Quote(v.str))
	case TagBool:
		b.WriteString(strconv.FormatBool(v.b))
	case TagArray:
		b.WriteByte('[')
		for i, el := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			el.render(b)
		}
		b.WriteByte(']')
	case TagObject:
		b.WriteByte('{')
		for i, k := range v.obj.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			v.obj.Entries[k].render(b)
		}
		b.WriteByte('}')
	}
}

// formatNumber renders a float64 in its shortest round-trip decimal form.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatUnit renders a unit value: the number, a space, and the unit name.
// An empty unit renders as the bare number.
func formatUnit(f float64, unit string) string {
	if unit == "" {
		return formatNumber(f)
	}
	return formatNumber(f) + " " + unit
}

// splitUnit splits a unit value string into its leading decimal number and
// the remaining unit name. It reports false when s does not start with a
// number, as with a bare unit like "kg".
func splitUnit(s string) (f float64, unit string, ok bool) {
	t := strings.TrimSpace(s)
	i := 0
	if i < len(t) && (t[i] == '+' || t[i] == '-') {
		i++
	}
	start := i
	for i < len(t) && '0' <= t[i] && t[i] <= '9' {
		i++
	}
	if i == start {
		return 0, "", false
	}
	if i < len(t) && t[i] == '.' {
		j := i + 1
		for j < len(t) && '0' <= t[j] && t[j] <= '9' {
			j++
		}
		if j > i+1 {
			i = j
		}
	}
	if i < len(t) && (t[i] == 'e' || t[i] == 'E') {
		j := i + 1
		if j < len(t) && (t[j] == '+' || t[j] == '-') {
			j++
		}
		k := j
		for k < len(t) && '0' <= t[k] && t[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	f, err := strconv.ParseFloat(t[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return f, strings.TrimSpace(t[i:]), true
}

// equalValues reports structural equality. Numbers compare through the
// engine's tolerance so results compare as they print; arrays match
// element-wise and objects key-wise.
func equalValues(a, b Value, ar *Arith) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNumber:
		return ar.Equals(a.num, b.num)
	case TagString:
		return a.str == b.str
	case TagBool:
		return a.b == b.b
	case TagArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !equalValues(a.arr[i], b.arr[i], ar) {
				return false
			}
		}
		return true
	case TagObject:
		if len(a.obj.Entries) != len(b.obj.Entries) {
			return false
		}
		for k, av := range a.obj.Entries {
			bv, ok := b.obj.Entries[k]
			if !ok || !equalValues(av, bv, ar) {
				return false
			}
		}
		return true
	}
	return true
}
