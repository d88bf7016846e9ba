package query

import "strconv"

// ValueKind discriminates the shapes a filter value can take.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindRange
)

// Value is a tagged union of the filter value shapes: a scalar (string,
// number or bool), a list of scalars for IN, a min/max pair for BETWEEN, or
// nothing for the null checks. Values are built through the constructors, so
// a malformed shape (a BETWEEN without both bounds, a list inside a list)
// cannot be represented.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	lo   *Value
	hi   *Value
}

// NoValue is the value for operators that take none (IS NULL, IS NOT NULL).
func NoValue() Value {
	return Value{kind: KindNone}
}

// String returns a string scalar value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric scalar value. It renders unquoted.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool returns a boolean scalar value. It renders unquoted.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a list value for the IN operator. All elements must be
// scalars and the list must not be empty.
func List(elems ...Value) (Value, error) {
	if len(elems) == 0 {
		return Value{}, &ValidationError{Reason: "IN list must not be empty"}
	}
	for _, e := range elems {
		if !e.isScalar() {
			return Value{}, &ValidationError{Reason: "IN list elements must be scalars"}
		}
	}
	list := make([]Value, len(elems))
	copy(list, elems)
	return Value{kind: KindList, list: list}, nil
}

// Range returns a min/max pair for the BETWEEN operator. Both bounds must be
// scalars of the same kind.
func Range(lo, hi Value) (Value, error) {
	if !lo.isScalar() || !hi.isScalar() {
		return Value{}, &ValidationError{Reason: "BETWEEN bounds must be scalars"}
	}
	if lo.kind != hi.kind {
		return Value{}, &ValidationError{Reason: "BETWEEN bounds must have the same kind"}
	}
	return Value{kind: KindRange, lo: &lo, hi: &hi}, nil
}

// Kind returns the value's shape tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) isScalar() bool {
	switch v.kind {
	case KindString, KindNumber, KindBool:
		return true
	}
	return false
}

// Display returns the value as the builder UI shows it, without SQL quoting.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		out := ""
		for i, e := range v.list {
			if i > 0 {
				out += ", "
			}
			out += e.Display()
		}
		return out
	case KindRange:
		return v.lo.Display() + " .. " + v.hi.Display()
	}
	return ""
}
