// Package parse drives a token cursor across a command's declared
// parameters, converting each raw token through the converter registry and
// applying defaulting and variadic-collection rules. A parse either yields a
// fully populated command context or pushes exactly one structured failure
// to the notification channel; conversion faults never escape the parser.
package parse

import (
	"context"
	"fmt"
	"reflect"

	"github.com/selfdocumentingcode/cmdargs/internal/convert"
	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
	"github.com/selfdocumentingcode/cmdargs/internal/metadata"
)

// Cursor is the abstraction over raw input tokens. NextParameter moves to
// the next declared parameter; NextArgument moves to the next raw token
// within the invocation. Both are one-directional.
type Cursor interface {
	NextParameter() bool
	NextArgument() bool
	Command() *metadata.Command
	Parameter() *metadata.Parameter
	Argument() string
}

// Context is the command context handed to the caller after a parse. The
// factory that builds it may attach host state through Host.
type Context struct {
	Command   *metadata.Command
	Event     any
	Arguments *Arguments
	Host      any
}

// ContextFactory builds the command context. It is invoked exactly once per
// parse: on the success path with the full argument set, or on the failure
// path with whatever was populated before the failure.
type ContextFactory func(cur Cursor, event any, args *Arguments) *Context

// Failure is the single shape every parse failure is normalized into. Cause
// is set only when a conversion raised a fault; a conversion that simply
// produced no value carries a synthetic message and no cause.
type Failure struct {
	Command   *metadata.Command
	Parameter *metadata.Parameter
	Cause     error
	Message   string
	Context   *Context
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

// Unwrap exposes the conversion fault, when one exists.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Notifier receives parse failures. Delivery is fire-and-forget from the
// parser's perspective.
type Notifier interface {
	Notify(ctx context.Context, failure *Failure)
}

// Parser is the per-invocation hot path over a finalized registry. It holds
// no per-parse state, so one Parser serves arbitrarily many concurrent
// parses.
type Parser struct {
	registry *convert.Registry
	notifier Notifier
	factory  ContextFactory
}

// New creates a parser over a finalized converter registry.
func New(registry *convert.Registry, notifier Notifier, factory ContextFactory) *Parser {
	if !registry.Finalized() {
		panic("parse: parser requires a finalized registry")
	}
	if factory == nil {
		factory = func(cur Cursor, event any, args *Arguments) *Context {
			return &Context{Command: cur.Command(), Event: event, Arguments: args}
		}
	}
	return &Parser{registry: registry, notifier: notifier, factory: factory}
}

// Parse walks the cursor and returns the populated command context. On
// failure it returns (nil, false) after pushing exactly one Failure to the
// notifier; the failure carries a context built from the partial argument
// set.
func (p *Parser) Parse(ctx context.Context, cur Cursor, event any) (*Context, bool) {
	logger := ctxlog.FromContext(ctx).With("command", cur.Command().Name)
	args := newArguments()

	if failure := p.run(ctx, cur, event, args); failure != nil {
		failure.Command = cur.Command()
		failure.Context = p.factory(cur, event, args)
		logger.Debug("Argument parsing failed.", "parameter", failureParameterName(failure), "error", failure.Error())
		if p.notifier != nil {
			p.notifier.Notify(ctx, failure)
		}
		return nil, false
	}

	logger.Debug("Argument parsing succeeded.", "arguments", args.Len())
	return p.factory(cur, event, args), true
}

// run advances parameter by parameter, converting tokens as it goes, and
// returns the first failure. Parameters the cursor never reached are
// reconciled from defaults afterwards.
func (p *Parser) run(ctx context.Context, cur Cursor, event any, args *Arguments) *Failure {
	for cur.NextParameter() {
		param := cur.Parameter()
		key := convert.Normalize(param.Type)
		dispatch := p.registry.Dispatch(key)

		if param.Variadic {
			value, failure := p.collectVariadic(ctx, cur, dispatch, param, event)
			if failure != nil {
				return failure
			}
			args.set(param, value)
			continue
		}

		if !cur.NextArgument() {
			if value, ok := param.Default(); ok {
				args.set(param, value)
				continue
			}
			return missingArgument(param)
		}

		value, ok, err := p.convertOne(ctx, dispatch, param, cur.Argument(), event)
		if err != nil {
			return &Failure{
				Parameter: param,
				Cause:     err,
				Message:   fmt.Sprintf("could not convert argument for parameter %q", param.Name),
			}
		}
		if !ok {
			// No value from a required parameter's conversion: same failure
			// channel as a fault, but without a cause.
			return &Failure{
				Parameter: param,
				Message:   fmt.Sprintf("value %q is not valid for parameter %q", cur.Argument(), param.Name),
			}
		}
		args.set(param, retype(value, param.Type, param))
	}

	// The cursor may stop early when trailing parameters are optional; fill
	// the remainder from defaults, in declaration order.
	for _, param := range cur.Command().Parameters {
		if args.has(param) {
			continue
		}
		if param.Variadic {
			args.set(param, reflect.MakeSlice(param.Type, 0, 0).Interface())
			continue
		}
		value, ok := param.Default()
		if !ok {
			return missingArgument(param)
		}
		args.set(param, value)
	}
	return nil
}

// collectVariadic repeatedly applies the single-value conversion across the
// remaining tokens. A conversion that yields no value truncates the
// collection without failing the parse; a fault aborts it.
func (p *Parser) collectVariadic(ctx context.Context, cur Cursor, dispatch convert.DispatchFunc, param *metadata.Parameter, event any) (any, *Failure) {
	collected := reflect.MakeSlice(param.Type, 0, 0)
	elem := param.Type.Elem()
	for cur.NextArgument() {
		value, ok, err := p.convertOne(ctx, dispatch, param, cur.Argument(), event)
		if err != nil {
			return nil, &Failure{
				Parameter: param,
				Cause:     err,
				Message:   fmt.Sprintf("could not convert argument for variadic parameter %q", param.Name),
			}
		}
		if !ok {
			break
		}
		collected = reflect.Append(collected, reflect.ValueOf(retype(value, elem, param)))
	}
	return collected.Interface(), nil
}

// convertOne invokes one dispatch call, containing panics so that a
// misbehaving converter surfaces as an ordinary conversion fault instead of
// tearing down the caller.
func (p *Parser) convertOne(ctx context.Context, dispatch convert.DispatchFunc, param *metadata.Parameter, raw string, event any) (value any, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = nil, false
			err = fmt.Errorf("converter panicked on parameter %q: %v", param.Name, r)
		}
	}()
	in := &convert.Input{Raw: raw, Target: targetType(param), Event: event}
	return dispatch(ctx, in)
}

// targetType is the declared type a single converted token is assigned to:
// the element type for variadic parameters, the pointed-to type for
// optional pointer parameters.
func targetType(param *metadata.Parameter) reflect.Type {
	t := param.Type
	if param.Variadic && t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// retype converts a dispatch result to the declared parameter type. The
// dispatch layer produces normalized-key values (EnumValue for enums), so
// enum and pointer declarations need a final reflective conversion. A value
// that cannot be re-typed means the registry and metadata disagree, which is
// a programming error.
func retype(value any, target reflect.Type, param *metadata.Parameter) any {
	if target.Kind() == reflect.Pointer {
		inner := retype(value, target.Elem(), param)
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(reflect.ValueOf(inner))
		return ptr.Interface()
	}
	rv := reflect.ValueOf(value)
	if rv.Type() == target {
		return value
	}
	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target).Interface()
	}
	panic(fmt.Sprintf("parse: converter produced %T for parameter %q of type %s", value, param.Name, target))
}

func missingArgument(param *metadata.Parameter) *Failure {
	return &Failure{
		Parameter: param,
		Message:   fmt.Sprintf("missing required argument for parameter %q", param.Name),
	}
}

func failureParameterName(f *Failure) string {
	if f.Parameter == nil {
		return ""
	}
	return f.Parameter.Name
}
