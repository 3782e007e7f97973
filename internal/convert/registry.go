package convert

import (
	"context"
	"fmt"
	"reflect"

	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
)

// Module is implemented by packages that contribute converters to a registry.
type Module interface {
	Register(ctx context.Context, r *Registry)
}

// Registry owns the mapping from target value type to converter
// registration. Registrations are collected during startup; Finalize then
// resolves every entry and freezes the two lookup maps used on the parse
// hot path.
type Registry struct {
	regs  map[reflect.Type]*Registration
	order []reflect.Type

	dispatcher *dispatcher

	finalized   bool
	instances   map[reflect.Type]any
	dispatchFns map[reflect.Type]DispatchFunc
}

// New creates an empty converter registry.
func New() *Registry {
	return &Registry{
		regs:       make(map[reflect.Type]*Registration),
		dispatcher: newDispatcher(),
	}
}

// Register inserts a registration under its target type. A second
// registration for an already-claimed type is ignored: the existing entry
// wins, and a conflict between non-equal registrations is reported as a
// diagnostic rather than an error.
func (g *Registry) Register(ctx context.Context, reg *Registration) {
	logger := ctxlog.FromContext(ctx)
	if g.finalized {
		logger.Warn("Converter registered after finalize has no effect.", "target", reg.Target().String())
		return
	}
	existing, ok := g.regs[reg.Target()]
	if ok {
		if !existing.Equal(reg) {
			logger.Warn("Duplicate converter registration ignored, existing entry wins.",
				"target", reg.Target().String(), "existing_source", existing.kind.String(), "ignored_source", reg.kind.String())
		}
		return
	}
	logger.Debug("Registering converter.", "target", reg.Target().String(), "source", reg.kind.String())
	g.regs[reg.Target()] = reg
	g.order = append(g.order, reg.Target())
}

// RegisterFromTypes registers every candidate type that looks like a
// converter implementation. Interfaces and other uninstantiable candidates
// are filtered silently; candidates whose Convert method cannot be located
// or has the wrong shape are reported as invalid implementations and
// skipped. Nothing here is fatal.
func (g *Registry) RegisterFromTypes(ctx context.Context, candidates []reflect.Type) {
	logger := ctxlog.FromContext(ctx)
	for _, t := range candidates {
		if t == nil {
			continue
		}
		if t.Kind() == reflect.Interface {
			logger.Debug("Skipping uninstantiable converter candidate.", "candidate", t.String())
			continue
		}
		reg, err := NewTypeRegistration(t)
		if err != nil {
			logger.Warn("Candidate type is not a valid converter implementation, skipping.",
				"candidate", t.String(), "error", err)
			continue
		}
		g.Register(ctx, reg)
	}
}

// Finalize resolves every registration to a converter instance and a
// dispatch function, then freezes both maps. Any resolution failure aborts
// the whole finalize: a registry that cannot resolve is a startup
// configuration error, not something to limp past. Finalize runs once,
// single-threaded; afterwards the registry is read-only and safe to share.
func (g *Registry) Finalize(ctx context.Context, resolver Resolver) error {
	if g.finalized {
		return fmt.Errorf("converter registry is already finalized")
	}
	logger := ctxlog.FromContext(ctx)

	instances := make(map[reflect.Type]any, len(g.order))
	dispatchFns := make(map[reflect.Type]DispatchFunc, len(g.order))

	for _, target := range g.order {
		reg := g.regs[target]

		instance, err := reg.Converter(ctx, resolver)
		if err != nil {
			return fmt.Errorf("finalize converter for %s: %w", target, err)
		}

		fn, ok := reg.Dispatch()
		if !ok {
			fn, err = g.dispatcher.compile(ctx, target, instance)
			if err != nil {
				return fmt.Errorf("finalize dispatch for %s: %w", target, err)
			}
		}

		instances[target] = instance
		dispatchFns[target] = fn
	}

	g.instances = instances
	g.dispatchFns = dispatchFns
	g.finalized = true
	logger.Info("Converter registry finalized.", "converters", len(instances))
	return nil
}

// Dispatch returns the frozen dispatch function for a registry key. Asking
// for an unregistered type, or asking before Finalize, means the metadata
// model and the registry disagree; that is a programming error and panics.
func (g *Registry) Dispatch(target reflect.Type) DispatchFunc {
	if !g.finalized {
		panic("convert: Dispatch called before Finalize")
	}
	fn, ok := g.dispatchFns[target]
	if !ok {
		panic(fmt.Sprintf("convert: no converter registered for %s", target))
	}
	return fn
}

// Converter returns the frozen converter instance for a registry key.
func (g *Registry) Converter(target reflect.Type) (any, bool) {
	if !g.finalized {
		panic("convert: Converter called before Finalize")
	}
	instance, ok := g.instances[target]
	return instance, ok
}

// Finalized reports whether the registry has been frozen.
func (g *Registry) Finalized() bool {
	return g.finalized
}

// Targets returns the registered target types in registration order.
func (g *Registry) Targets() []reflect.Type {
	out := make([]reflect.Type, len(g.order))
	copy(out, g.order)
	return out
}
