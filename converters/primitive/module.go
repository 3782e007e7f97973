// Package primitive provides converters for the built-in scalar parameter
// types. An unparseable token yields "no value" rather than an error; errors
// are reserved for genuine faults.
package primitive

import (
	"context"
	"strconv"

	"github.com/selfdocumentingcode/cmdargs/internal/convert"
)

// Module implements convert.Module for this package.
type Module struct{}

// StringConverter passes the raw token through unchanged.
type StringConverter struct{}

func (c *StringConverter) Convert(_ context.Context, in *convert.Input) (string, bool, error) {
	return in.Raw, true, nil
}

// BoolConverter accepts the forms strconv.ParseBool understands.
type BoolConverter struct{}

func (c *BoolConverter) Convert(_ context.Context, in *convert.Input) (bool, bool, error) {
	v, err := strconv.ParseBool(in.Raw)
	if err != nil {
		return false, false, nil
	}
	return v, true, nil
}

// IntConverter parses base-10 signed integers.
type IntConverter struct{}

func (c *IntConverter) Convert(_ context.Context, in *convert.Input) (int, bool, error) {
	v, err := strconv.ParseInt(in.Raw, 10, 0)
	if err != nil {
		return 0, false, nil
	}
	return int(v), true, nil
}

// Int64Converter parses base-10 signed 64-bit integers.
type Int64Converter struct{}

func (c *Int64Converter) Convert(_ context.Context, in *convert.Input) (int64, bool, error) {
	v, err := strconv.ParseInt(in.Raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

// Uint64Converter parses base-10 unsigned 64-bit integers.
type Uint64Converter struct{}

func (c *Uint64Converter) Convert(_ context.Context, in *convert.Input) (uint64, bool, error) {
	v, err := strconv.ParseUint(in.Raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

// Float64Converter parses decimal floating point numbers.
type Float64Converter struct{}

func (c *Float64Converter) Convert(_ context.Context, in *convert.Input) (float64, bool, error) {
	v, err := strconv.ParseFloat(in.Raw, 64)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

// Register registers every scalar converter as a ready instance.
func (m *Module) Register(ctx context.Context, r *convert.Registry) {
	for _, instance := range []any{
		&StringConverter{},
		&BoolConverter{},
		&IntConverter{},
		&Int64Converter{},
		&Uint64Converter{},
		&Float64Converter{},
	} {
		reg, err := convert.NewInstanceRegistration(instance)
		if err != nil {
			panic(err)
		}
		r.Register(ctx, reg)
	}
}
