// Package temporal provides converters for time-valued parameters. Both
// converters are registered by type and constructed through the service
// resolver, which injects the Clock used to anchor relative instants.
package temporal

import (
	"context"
	"reflect"
	"time"

	"github.com/selfdocumentingcode/cmdargs/internal/convert"
)

// Module implements convert.Module for this package.
type Module struct{}

// Clock supplies the current instant. Hosts provide SystemClock; tests
// provide a fixed one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DurationConverter parses Go duration strings such as "1h30m".
type DurationConverter struct{}

func (c *DurationConverter) Convert(_ context.Context, in *convert.Input) (time.Duration, bool, error) {
	d, err := time.ParseDuration(in.Raw)
	if err != nil {
		return 0, false, nil
	}
	return d, true, nil
}

// TimeConverter parses RFC 3339 instants and the literal "now", which is
// resolved against the injected clock.
type TimeConverter struct {
	Clock Clock `cmdargs:"inject"`
}

func (c *TimeConverter) Convert(_ context.Context, in *convert.Input) (time.Time, bool, error) {
	if in.Raw == "now" {
		return c.Clock.Now(), true, nil
	}
	t, err := time.Parse(time.RFC3339, in.Raw)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// Register registers both converters by type; instances are constructed
// during registry finalize.
func (m *Module) Register(ctx context.Context, r *convert.Registry) {
	for _, t := range []reflect.Type{
		reflect.TypeOf(DurationConverter{}),
		reflect.TypeOf(TimeConverter{}),
	} {
		reg, err := convert.NewTypeRegistration(t)
		if err != nil {
			panic(err)
		}
		r.Register(ctx, reg)
	}
}
