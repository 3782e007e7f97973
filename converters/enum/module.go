// Package enum provides the single converter that serves every enum-like
// parameter type. The normalizer maps all defined integer types to
// convert.EnumValue, so one registration covers the whole family; symbolic
// member names are looked up in a per-type table hosts populate with
// RegisterNames.
package enum

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/selfdocumentingcode/cmdargs/internal/convert"
)

// Module implements convert.Module for this package.
type Module struct{}

var (
	namesMu sync.RWMutex
	names   = make(map[reflect.Type]map[string]convert.EnumValue)
)

// Integer constrains RegisterNames to enum-shaped types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterNames installs the symbolic member names for one enum type.
// Lookups are case-insensitive; registration happens at startup, before any
// parse runs.
func RegisterNames[T Integer](values map[string]T) {
	t := reflect.TypeOf(*new(T))
	table := make(map[string]convert.EnumValue, len(values))
	for name, v := range values {
		table[strings.ToLower(name)] = convert.EnumValue(v)
	}
	namesMu.Lock()
	defer namesMu.Unlock()
	names[t] = table
}

// lookupName resolves a symbolic member name for the declared enum type.
func lookupName(target reflect.Type, raw string) (convert.EnumValue, bool) {
	namesMu.RLock()
	defer namesMu.RUnlock()
	table, ok := names[target]
	if !ok {
		return 0, false
	}
	v, ok := table[strings.ToLower(raw)]
	return v, ok
}

// Converter converts a token into the shared EnumValue target. A symbolic
// name registered for the declared type wins; otherwise the token must be a
// plain integer.
type Converter struct{}

func (c *Converter) Convert(_ context.Context, in *convert.Input) (convert.EnumValue, bool, error) {
	if in.Target != nil {
		if v, ok := lookupName(in.Target, in.Raw); ok {
			return v, true, nil
		}
	}
	v, err := strconv.ParseInt(in.Raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return convert.EnumValue(v), true, nil
}

// Register registers the shared enum converter as a ready instance.
func (m *Module) Register(ctx context.Context, r *convert.Registry) {
	reg, err := convert.NewInstanceRegistration(&Converter{})
	if err != nil {
		panic(err)
	}
	r.Register(ctx, reg)
}
