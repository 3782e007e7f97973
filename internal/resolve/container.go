// Package resolve provides the service container used to construct
// converters that are registered by type. Services are provided by value;
// construction of a requested type allocates it and injects provided
// services into tagged fields.
package resolve

import (
	"context"
	"fmt"
	"reflect"

	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
)

// injectTag marks struct fields that receive a service during construction.
const injectTag = "cmdargs"

// Container is a minimal by-type service registry. It is populated during
// startup and read-only afterwards.
type Container struct {
	services map[reflect.Type]any
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{services: make(map[reflect.Type]any)}
}

// Provide registers a service under its concrete type. Providing a second
// service of the same type replaces the first.
func (c *Container) Provide(service any) {
	if service == nil {
		panic("resolve: Provide called with nil service")
	}
	c.services[reflect.TypeOf(service)] = service
}

// lookup finds a provided service assignable to t: an exact concrete match
// first, then any service implementing t when t is an interface.
func (c *Container) lookup(t reflect.Type) (any, bool) {
	if s, ok := c.services[t]; ok {
		return s, true
	}
	if t.Kind() == reflect.Interface {
		for st, s := range c.services {
			if st.Implements(t) {
				return s, true
			}
		}
	}
	return nil, false
}

// Resolve returns an instance of the requested type. A provided service is
// returned as-is; otherwise a struct (or pointer-to-struct) type is
// constructed fresh, with every field tagged `cmdargs:"inject"` populated
// from the container. A tagged field with no matching service fails the
// resolution.
func (c *Container) Resolve(ctx context.Context, t reflect.Type) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("resolve: nil type requested")
	}
	logger := ctxlog.FromContext(ctx)

	if s, ok := c.lookup(t); ok {
		return s, nil
	}

	structType := t
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("no service provided for %s and it is not constructible", t)
	}

	ptr := reflect.New(structType)
	value := ptr.Elem()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Tag.Get(injectTag) != "inject" {
			continue
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("constructing %s: injected field %s must be exported", structType, field.Name)
		}
		service, ok := c.lookup(field.Type)
		if !ok {
			return nil, fmt.Errorf("constructing %s: no service provided for field %s (%s)", structType, field.Name, field.Type)
		}
		logger.Debug("Injecting service into constructed type.", "type", structType.String(), "field", field.Name)
		value.Field(i).Set(reflect.ValueOf(service))
	}

	return ptr.Interface(), nil
}
