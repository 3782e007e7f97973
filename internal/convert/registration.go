package convert

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Resolver constructs converter instances that were registered by type
// rather than by value. It is typically backed by a service container so
// converter constructors can receive injected dependencies.
type Resolver interface {
	Resolve(ctx context.Context, t reflect.Type) (any, error)
}

type sourceKind int

const (
	sourceInstance sourceKind = iota
	sourceType
	sourceDispatch
)

func (k sourceKind) String() string {
	switch k {
	case sourceInstance:
		return "instance"
	case sourceType:
		return "type"
	case sourceDispatch:
		return "dispatch"
	}
	return "unknown"
}

// Registration binds a target value type to one converter source: a ready
// instance, a type to construct through the resolver, or a pre-compiled
// dispatch function. The target type is fixed at construction; the source is
// resolved to a live converter at most once.
type Registration struct {
	target reflect.Type
	kind   sourceKind

	instance      any          // sourceInstance, or the instance a dispatch is bound to
	converterType reflect.Type // sourceType
	dispatch      DispatchFunc // sourceDispatch

	once     sync.Once
	resolved any
	err      error
}

// NewInstanceRegistration registers a ready converter value. The target type
// is discovered from the instance's Convert method.
func NewInstanceRegistration(instance any) (*Registration, error) {
	if instance == nil {
		return nil, fmt.Errorf("converter instance must not be nil")
	}
	target, err := targetOf(reflect.TypeOf(instance))
	if err != nil {
		return nil, err
	}
	return &Registration{target: target, kind: sourceInstance, instance: instance}, nil
}

// NewTypeRegistration registers a converter type to be constructed through
// the resolver during Finalize.
func NewTypeRegistration(t reflect.Type) (*Registration, error) {
	if t == nil {
		return nil, fmt.Errorf("converter type must not be nil")
	}
	target, err := targetOf(t)
	if err != nil {
		return nil, err
	}
	return &Registration{target: target, kind: sourceType, converterType: t}, nil
}

// NewDispatchRegistration registers a pre-compiled dispatch function together
// with the converter instance it is bound to, which stands in for the
// function's declaring scope.
func NewDispatchRegistration(target reflect.Type, bound any, fn DispatchFunc) (*Registration, error) {
	if target == nil || fn == nil {
		return nil, fmt.Errorf("dispatch registration requires a target type and a function")
	}
	if bound == nil {
		return nil, fmt.Errorf("dispatch registration for %s has no bound converter", target)
	}
	return &Registration{target: target, kind: sourceDispatch, instance: bound, dispatch: fn}, nil
}

// Target returns the value type this registration's converter produces.
func (r *Registration) Target() reflect.Type {
	return r.target
}

// Converter resolves the registration to a live converter instance, at most
// once. Instance and dispatch sources already carry their converter; type
// sources are constructed through the resolver.
func (r *Registration) Converter(ctx context.Context, resolver Resolver) (any, error) {
	r.once.Do(func() {
		switch r.kind {
		case sourceInstance, sourceDispatch:
			r.resolved = r.instance
		case sourceType:
			if resolver == nil {
				r.err = fmt.Errorf("converter type %s requires a resolver", r.converterType)
				return
			}
			r.resolved, r.err = resolver.Resolve(ctx, r.converterType)
			if r.err != nil {
				r.err = fmt.Errorf("constructing converter %s: %w", r.converterType, r.err)
			}
		}
	})
	return r.resolved, r.err
}

// Dispatch returns the pre-compiled dispatch function, if this registration
// carries one.
func (r *Registration) Dispatch() (DispatchFunc, bool) {
	return r.dispatch, r.dispatch != nil
}

// Equal reports whether two registrations describe the same converter: the
// target types match and the sources are the same instance, the same
// concrete type, or the same function. Sources of different kinds are never
// equal.
func (r *Registration) Equal(other *Registration) bool {
	if other == nil || r.target != other.target || r.kind != other.kind {
		return false
	}
	switch r.kind {
	case sourceInstance:
		return sameInstance(r.instance, other.instance)
	case sourceType:
		return r.converterType == other.converterType
	case sourceDispatch:
		return reflect.ValueOf(r.dispatch).Pointer() == reflect.ValueOf(other.dispatch).Pointer()
	}
	return false
}

// sameInstance compares converter instances without panicking on
// uncomparable struct values. Pointers to zero-size values are compared by
// type alone: the runtime may hand every such allocation the same address,
// so pointer identity carries no information there, and a stateless
// converter is interchangeable with any other of its type anyway.
func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Pointer {
		if va.Type().Elem().Size() == 0 {
			return true
		}
		return va.Pointer() == vb.Pointer()
	}
	if !va.Type().Comparable() {
		return false
	}
	return a == b
}
