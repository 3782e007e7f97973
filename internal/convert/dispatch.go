package convert

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
)

// dispatcher compiles and caches the type-erased dispatch function for each
// target type. Compilation walks reflection once; the returned function only
// pays for a reflect.Call per invocation.
type dispatcher struct {
	mu       sync.Mutex
	compiled map[reflect.Type]*compiledDispatch
}

type compiledDispatch struct {
	fn    DispatchFunc
	bound any
}

func newDispatcher() *dispatcher {
	return &dispatcher{compiled: make(map[reflect.Type]*compiledDispatch)}
}

// compile returns the dispatch function for target bound to instance,
// synthesizing it on first use. A compiled dispatch never rebinds: asking
// for the same target with a different converter instance is a
// configuration error.
func (d *dispatcher) compile(ctx context.Context, target reflect.Type, instance any) (DispatchFunc, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.compiled[target]; ok {
		if !sameInstance(entry.bound, instance) {
			return nil, fmt.Errorf("dispatch for %s is already bound to a different converter", target)
		}
		return entry.fn, nil
	}

	fn, err := synthesize(target, instance)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Compiled dispatch function.", "target", target.String(), "converter", fmt.Sprintf("%T", instance))
	d.compiled[target] = &compiledDispatch{fn: fn, bound: instance}
	return fn, nil
}

// synthesize wraps the converter's strongly-typed Convert method in the
// uniform DispatchFunc shape.
func synthesize(target reflect.Type, instance any) (DispatchFunc, error) {
	method := reflect.ValueOf(instance).MethodByName(convertMethodName)
	if !method.IsValid() {
		return nil, fmt.Errorf("converter %T has no %s method", instance, convertMethodName)
	}
	produced, err := methodTarget(method.Type(), 0)
	if err != nil {
		return nil, fmt.Errorf("converter %T: %w", instance, err)
	}
	if produced != target {
		return nil, fmt.Errorf("converter %T produces %s, registered for %s", instance, produced, target)
	}

	return func(ctx context.Context, in *Input) (any, bool, error) {
		out := method.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(in)})
		if ferr, _ := out[2].Interface().(error); ferr != nil {
			return nil, false, ferr
		}
		if !out[1].Bool() {
			return nil, false, nil
		}
		return out[0].Interface(), true, nil
	}, nil
}
