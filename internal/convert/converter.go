package convert

import (
	"context"
	"fmt"
	"reflect"
)

// Input carries the per-token state handed to a converter.
type Input struct {
	// Raw is the raw token currently under the cursor.
	Raw string

	// Target is the declared parameter type the converted value will be
	// assigned to (the element type for variadic parameters). Converters
	// that serve a whole family of types, such as the enum converter,
	// consult it; most converters ignore it.
	Target reflect.Type

	// Event is the opaque host event payload that triggered the invocation.
	Event any
}

// DispatchFunc is the type-erased entry point compiled for one target type.
// The boolean result distinguishes "converted a value" from "token produced
// no value"; a non-nil error is an unexpected conversion fault.
type DispatchFunc func(ctx context.Context, in *Input) (any, bool, error)

// EnumValue is the shared conversion target for every enum-like parameter
// type. The normalizer maps all defined integer types to this key and the
// parser re-types converted values back to the declared type.
type EnumValue int64

const convertMethodName = "Convert"

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	inputType = reflect.TypeOf((*Input)(nil))
	errType   = reflect.TypeOf((*error)(nil)).Elem()
)

// methodTarget validates that fn has the converter capability shape
// (ctx, *Input) -> (T, bool, error), offset by recv receiver arguments,
// and returns T.
func methodTarget(fn reflect.Type, recv int) (reflect.Type, error) {
	if fn.NumIn() != recv+2 || fn.NumOut() != 3 {
		return nil, fmt.Errorf("want Convert(context.Context, *convert.Input) (T, bool, error), have %s", fn)
	}
	if fn.In(recv) != ctxType || fn.In(recv+1) != inputType {
		return nil, fmt.Errorf("want Convert(context.Context, *convert.Input) (T, bool, error), have %s", fn)
	}
	if fn.Out(1).Kind() != reflect.Bool || fn.Out(2) != errType {
		return nil, fmt.Errorf("want Convert(context.Context, *convert.Input) (T, bool, error), have %s", fn)
	}
	return fn.Out(0), nil
}

// targetOf inspects a converter type and reports the value type its Convert
// method produces. Pointer and value method sets are both considered.
func targetOf(t reflect.Type) (reflect.Type, error) {
	lookup := t
	if t.Kind() == reflect.Struct {
		lookup = reflect.PointerTo(t)
	}
	m, ok := lookup.MethodByName(convertMethodName)
	if !ok {
		return nil, fmt.Errorf("type %s has no %s method", t, convertMethodName)
	}
	target, err := methodTarget(m.Type, 1)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", t, err)
	}
	return target, nil
}
