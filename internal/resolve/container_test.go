package resolve_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/selfdocumentingcode/cmdargs/internal/resolve"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type widget struct {
	Greeter greeter `cmdargs:"inject"`
	Plain   string
}

type needsMissing struct {
	Absent *widget `cmdargs:"inject"`
}

func TestContainer_ResolveProvidedService_ReturnsSameValue(t *testing.T) {
	t.Parallel()

	container := resolve.NewContainer()
	service := &widget{}
	container.Provide(service)

	got, err := container.Resolve(context.Background(), reflect.TypeOf(service))

	require.NoError(t, err)
	require.Same(t, service, got)
}

func TestContainer_ResolveInterface_FindsImplementingService(t *testing.T) {
	t.Parallel()

	container := resolve.NewContainer()
	container.Provide(englishGreeter{})

	got, err := container.Resolve(context.Background(), reflect.TypeOf((*greeter)(nil)).Elem())

	require.NoError(t, err)
	require.Equal(t, "hello", got.(greeter).Greet())
}

func TestContainer_ConstructStruct_InjectsTaggedFields(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	container := resolve.NewContainer()
	container.Provide(englishGreeter{})

	// --- Act ---
	got, err := container.Resolve(context.Background(), reflect.TypeOf(widget{}))

	// --- Assert ---
	require.NoError(t, err)
	constructed := got.(*widget)
	require.NotNil(t, constructed.Greeter)
	require.Equal(t, "hello", constructed.Greeter.Greet())
	require.Empty(t, constructed.Plain, "untagged fields stay zero")
}

func TestContainer_ConstructStruct_MissingServiceFails(t *testing.T) {
	t.Parallel()

	container := resolve.NewContainer()

	_, err := container.Resolve(context.Background(), reflect.TypeOf(needsMissing{}))

	require.Error(t, err)
	require.Contains(t, err.Error(), "no service provided for field Absent")
}

func TestContainer_ResolveUnconstructibleType_Fails(t *testing.T) {
	t.Parallel()

	container := resolve.NewContainer()

	_, err := container.Resolve(context.Background(), reflect.TypeOf("plain string"))

	require.Error(t, err)
	require.Contains(t, err.Error(), "not constructible")
}
