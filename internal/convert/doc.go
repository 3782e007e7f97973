// Package convert is the core of the argument conversion pipeline: a
// registry of per-type converters, a reflection-compiled dispatch layer that
// erases the converter's target type behind a uniform call surface, and the
// type normalization rules that decide which registry key a declared
// parameter type maps to.
//
// A converter is any value with a method of the shape
//
//	Convert(ctx context.Context, in *convert.Input) (T, bool, error)
//
// where T is the target value type. Returning (zero, false, nil) means the
// token produced no value; a non-nil error is an unexpected fault. The
// registry discovers T reflectively from that method, so converters never
// register under an explicitly spelled type.
//
// The registry is built once at startup: registrations are collected,
// Finalize resolves every registration to a live converter instance plus a
// compiled dispatch function, and the resulting two maps are frozen. After
// Finalize the registry is safe for unsynchronized concurrent reads.
package convert
