package convert_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/selfdocumentingcode/cmdargs/internal/convert"
	"github.com/selfdocumentingcode/cmdargs/internal/resolve"
)

// faultyConverter always reports a conversion fault.
type faultyConverter struct{}

func (c *faultyConverter) Convert(_ context.Context, _ *convert.Input) (float64, bool, error) {
	return 0, false, errors.New("backend unavailable")
}

// needyConverter requires a service the container may not have.
type needyConverter struct {
	Dep *fakeStringConverter `cmdargs:"inject"`
}

func (c *needyConverter) Convert(_ context.Context, in *convert.Input) (uint32, bool, error) {
	return 0, false, nil
}

func mustInstance(t *testing.T, instance any) *convert.Registration {
	t.Helper()
	reg, err := convert.NewInstanceRegistration(instance)
	require.NoError(t, err)
	return reg
}

func TestRegistry_DuplicateNonEqualRegistration_FirstWins(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	registry := convert.New()
	first := &offsetIntConverter{offset: 1}
	second := &offsetIntConverter{offset: 2}

	// --- Act ---
	registry.Register(ctx, mustInstance(t, first))
	registry.Register(ctx, mustInstance(t, second))
	require.NoError(t, registry.Finalize(ctx, nil))

	// --- Assert ---
	require.Len(t, registry.Targets(), 1)
	instance, ok := registry.Converter(reflect.TypeOf(0))
	require.True(t, ok)
	require.Same(t, first, instance)
}

func TestRegistry_EqualRegistrationTwice_IsQuietlyAccepted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()
	instance := &fakeIntConverter{}

	registry.Register(ctx, mustInstance(t, instance))
	registry.Register(ctx, mustInstance(t, instance))

	require.Len(t, registry.Targets(), 1)
}

func TestRegistry_RegisterFromTypes_ValidCandidateLandsInBothMaps(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	registry := convert.New()
	candidates := []reflect.Type{
		reflect.TypeOf(fakeIntConverter{}),
		reflect.TypeOf(fakeStringConverter{}),
	}

	// --- Act ---
	registry.RegisterFromTypes(ctx, candidates)
	require.NoError(t, registry.Finalize(ctx, resolve.NewContainer()))

	// --- Assert ---
	for _, target := range []reflect.Type{reflect.TypeOf(0), reflect.TypeOf("")} {
		_, ok := registry.Converter(target)
		require.True(t, ok, "converter instance missing for %s", target)
		require.NotNil(t, registry.Dispatch(target), "dispatch function missing for %s", target)
	}
}

func TestRegistry_RegisterFromTypes_FiltersUnusableCandidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()

	registry.RegisterFromTypes(ctx, []reflect.Type{
		nil,
		reflect.TypeOf((*convert.Resolver)(nil)).Elem(), // interface
		reflect.TypeOf(notAConverter{}),                 // no capability
		reflect.TypeOf(wrongShapeConverter{}),           // wrong shape
		reflect.TypeOf(fakeIntConverter{}),
	})

	require.Equal(t, []reflect.Type{reflect.TypeOf(0)}, registry.Targets())
}

func TestRegistry_Finalize_ConstructsTypeSourcesThroughContainer(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	registry := convert.New()
	container := resolve.NewContainer()
	container.Provide(&fakeStringConverter{})

	reg, err := convert.NewTypeRegistration(reflect.TypeOf(needyConverter{}))
	require.NoError(t, err)
	registry.Register(ctx, reg)

	// --- Act ---
	require.NoError(t, registry.Finalize(ctx, container))

	// --- Assert ---
	instance, ok := registry.Converter(reflect.TypeOf(uint32(0)))
	require.True(t, ok)
	require.NotNil(t, instance.(*needyConverter).Dep)
}

func TestRegistry_Finalize_UnresolvableConverterIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()
	reg, err := convert.NewTypeRegistration(reflect.TypeOf(needyConverter{}))
	require.NoError(t, err)
	registry.Register(ctx, reg)

	err = registry.Finalize(ctx, resolve.NewContainer())

	require.Error(t, err)
	require.Contains(t, err.Error(), "finalize converter")
	require.False(t, registry.Finalized())
}

func TestRegistry_Finalize_SecondCallFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()
	registry.Register(ctx, mustInstance(t, &fakeIntConverter{}))
	require.NoError(t, registry.Finalize(ctx, nil))

	require.Error(t, registry.Finalize(ctx, nil))
}

func TestRegistry_RegistrationAfterFinalize_HasNoEffect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()
	registry.Register(ctx, mustInstance(t, &fakeIntConverter{}))
	require.NoError(t, registry.Finalize(ctx, nil))

	registry.Register(ctx, mustInstance(t, &fakeStringConverter{}))

	require.Len(t, registry.Targets(), 1)
	require.Panics(t, func() { registry.Dispatch(reflect.TypeOf("")) })
}

func TestRegistry_DispatchForUnregisteredType_Panics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := convert.New()
	registry.Register(ctx, mustInstance(t, &fakeIntConverter{}))
	require.NoError(t, registry.Finalize(ctx, nil))

	require.Panics(t, func() { registry.Dispatch(reflect.TypeOf(false)) })
}

func TestRegistry_DispatchBeforeFinalize_Panics(t *testing.T) {
	t.Parallel()

	registry := convert.New()

	require.Panics(t, func() { registry.Dispatch(reflect.TypeOf(0)) })
}

func TestRegistry_PrecompiledDispatchIsUsedAsIs(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	registry := convert.New()
	called := 0
	fn := func(_ context.Context, in *convert.Input) (any, bool, error) {
		called++
		return in.Raw + "!", true, nil
	}
	reg, err := convert.NewDispatchRegistration(reflect.TypeOf(""), &fakeStringConverter{}, fn)
	require.NoError(t, err)
	registry.Register(ctx, reg)
	require.NoError(t, registry.Finalize(ctx, nil))

	// --- Act ---
	value, ok, convErr := registry.Dispatch(reflect.TypeOf(""))(ctx, &convert.Input{Raw: "hey"})

	// --- Assert ---
	require.NoError(t, convErr)
	require.True(t, ok)
	require.Equal(t, "hey!", value)
	require.Equal(t, 1, called)
}
