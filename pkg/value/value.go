// Package value provides the tagged value type used at every boundary
// between entity fields and database parameters or results. A Value holds
// exactly one scalar, array, or null payload together with its runtime
// kind, and defines the coercion rules between kinds.
package value

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

// Kind identifies the payload held by a Value.
type Kind int

const (
	// KindNull is the null payload.
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindInt holds a 64-bit signed integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
	// KindString holds a string.
	KindString
	// KindBytes holds a raw byte slice.
	KindBytes
	// KindTime holds a timestamp.
	KindTime
	// KindArray holds an ordered list of Values.
	KindArray
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the supported payload kinds. The zero
// Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	t    time.Time
	arr  []Value
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps a 64-bit integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a 64-bit float.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String wraps a string.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bytes wraps a byte slice.
func Bytes(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// Time wraps a timestamp.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Array wraps an ordered list of Values.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Kind returns the payload kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value holds the null payload.
func (v Value) IsNull() bool { return v.kind == KindNull }

// FromAny wraps an arbitrary Go value as a Value. Nil pointers and nil
// interfaces become Null; integer and float widths are widened; []byte,
// time.Time, and Value itself pass through. Slices and arrays of
// supported element types become KindArray.
func FromAny(v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	switch tv := v.(type) {
	case Value:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case int:
		return Int(int64(tv)), nil
	case int8:
		return Int(int64(tv)), nil
	case int16:
		return Int(int64(tv)), nil
	case int32:
		return Int(int64(tv)), nil
	case int64:
		return Int(tv), nil
	case uint:
		if uint64(tv) > math.MaxInt64 {
			return Null(), fmt.Errorf("uint value %d overflows int64", tv)
		}
		return Int(int64(tv)), nil
	case uint8:
		return Int(int64(tv)), nil
	case uint16:
		return Int(int64(tv)), nil
	case uint32:
		return Int(int64(tv)), nil
	case uint64:
		if tv > math.MaxInt64 {
			return Null(), fmt.Errorf("uint64 value %d overflows int64", tv)
		}
		return Int(int64(tv)), nil
	case float32:
		return Float(float64(tv)), nil
	case float64:
		return Float(tv), nil
	case string:
		return String(tv), nil
	case []byte:
		return Bytes(tv), nil
	case time.Time:
		return Time(tv), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Null(), err
			}
			elems[i] = ev
		}
		return Array(elems...), nil
	}
	return Null(), fmt.Errorf("unsupported value type %T", v)
}

// Driver unwraps the Value to a form bindable through database/sql.
// Null becomes nil; Array is not bindable and unwraps element-wise only
// through explicit iteration by the caller.
func (v Value) Driver() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.raw
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Len returns the element count of a length-bearing Value. Only String,
// Bytes, and Array carry a length.
func (v Value) Len() (int, error) {
	switch v.kind {
	case KindString:
		return len(v.s), nil
	case KindBytes:
		return len(v.raw), nil
	case KindArray:
		return len(v.arr), nil
	default:
		return 0, fmt.Errorf("value of kind %s has no length", v.kind)
	}
}

// Elements returns the payload of an Array value.
func (v Value) Elements() ([]Value, error) {
	if v.kind != KindArray {
		return nil, fmt.Errorf("value of kind %s is not an array", v.kind)
	}
	return v.arr, nil
}
