// This file coerces manifest `default` expressions, which arrive as
// cty.Values, into the parameter's declared Go type.

package manifest

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var durationType = reflect.TypeOf(time.Duration(0))

// defaultFromCty converts a manifest default value to the declared Go type.
// Durations are written as strings ("5s"); enum defaults are numeric, since
// symbolic enum names belong to the converter layer, not the manifest. A
// null default is allowed only for optional (pointer) parameters, where it
// means "absent".
func defaultFromCty(val cty.Value, target reflect.Type) (any, error) {
	if val.IsNull() {
		if target.Kind() == reflect.Pointer {
			return reflect.Zero(target).Interface(), nil
		}
		return nil, fmt.Errorf("default value must not be null")
	}

	if target.Kind() == reflect.Pointer {
		inner, err := defaultFromCty(val, target.Elem())
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(reflect.ValueOf(inner))
		return ptr.Interface(), nil
	}

	if target == durationType {
		if val.Type() != cty.String {
			return nil, fmt.Errorf("duration default must be a string like \"5s\", got %s", val.Type().FriendlyName())
		}
		d, err := time.ParseDuration(val.AsString())
		if err != nil {
			return nil, fmt.Errorf("invalid duration default %q: %w", val.AsString(), err)
		}
		return d, nil
	}

	wantType := ctyTypeFor(target)
	converted, err := convert.Convert(val, wantType)
	if err != nil {
		return nil, fmt.Errorf("cannot convert default of type %s to %s: %w", val.Type().FriendlyName(), target, err)
	}

	ptr := reflect.New(target)
	if err := gocty.FromCtyValue(converted, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot decode default into %s: %w", target, err)
	}
	return ptr.Elem().Interface(), nil
}

// ctyTypeFor maps a declared Go type to the cty type its manifest default is
// converted through.
func ctyTypeFor(t reflect.Type) cty.Type {
	switch t.Kind() {
	case reflect.String:
		return cty.String
	case reflect.Bool:
		return cty.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cty.Number
	default:
		return cty.DynamicPseudoType
	}
}
