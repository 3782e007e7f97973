package convert

import (
	"reflect"
	"time"
)

var (
	enumKey      = reflect.TypeOf(EnumValue(0))
	durationType = reflect.TypeOf(time.Duration(0))
)

// Normalize maps a declared parameter type to the registry key its converter
// is looked up under: slices map to their element type, pointers to their
// element type, enum-like types to the shared EnumValue key, and everything
// else to itself. Normalize is pure and idempotent; a nil type is a caller
// bug and panics.
func Normalize(t reflect.Type) reflect.Type {
	if t == nil {
		panic("convert: Normalize called with nil type")
	}
	switch {
	case t.Kind() == reflect.Slice:
		return Normalize(t.Elem())
	case t.Kind() == reflect.Pointer:
		return Normalize(t.Elem())
	case isEnum(t):
		return enumKey
	default:
		return t
	}
}

// isEnum reports whether t is an enum-like type: a defined integer type from
// some package. time.Duration is integer-backed but a quantity, not an
// enumeration, and keeps its own converter.
func isEnum(t reflect.Type) bool {
	if t.PkgPath() == "" || t == durationType {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
