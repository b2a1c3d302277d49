package validate

import (
	"fmt"
	"reflect"
)

// Kind is the runtime category of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBool
	KindArray
	KindObject
	KindOther
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a caller-supplied field value reduced to the categories the
// validators care about. The zero Value is Absent.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	b    bool
	size int
}

// Absent returns the value of a field that was not supplied.
func Absent() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps a signed integer.
func Int(n int64) Value { return Value{kind: KindInteger, num: n} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array describes a present sequence of n elements.
func Array(n int) Value { return Value{kind: KindArray, size: n} }

// Object describes a present map, record or struct with n fields.
func Object(n int) Value { return Value{kind: KindObject, size: n} }

// OptionalString maps nil to Absent.
func OptionalString(s *string) Value {
	if s == nil {
		return Absent()
	}
	return String(*s)
}

// OptionalInt maps nil to Absent.
func OptionalInt(n *int) Value {
	if n == nil {
		return Absent()
	}
	return Int(int64(*n))
}

// Kind returns the runtime category.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the field was not supplied.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Len returns the element count of an Array or the field count of an Object.
func (v Value) Len() int { return v.size }

// Of classifies an arbitrary Go value. nil, nil pointers, nil slices, nil maps
// and nil interfaces are Absent; pointers are followed.
func Of(x any) Value {
	if x == nil {
		return Absent()
	}
	if v, ok := x.(Value); ok {
		return v
	}
	return ofReflect(reflect.ValueOf(x))
}

func ofReflect(rv reflect.Value) Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Absent()
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return Float(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Slice:
		if rv.IsNil() {
			return Absent()
		}
		return Array(rv.Len())
	case reflect.Array:
		return Array(rv.Len())
	case reflect.Map:
		if rv.IsNil() {
			return Absent()
		}
		return Object(rv.Len())
	case reflect.Struct:
		return Object(rv.NumField())
	default:
		// channels, funcs, complex numbers
		return Value{kind: KindOther}
	}
}
