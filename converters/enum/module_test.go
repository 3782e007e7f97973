package enum_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/selfdocumentingcode/cmdargs/converters/enum"
	"github.com/selfdocumentingcode/cmdargs/internal/convert"
)

type color uint8

const (
	colorRed  color = 1
	colorBlue color = 2
)

type priority int

func TestConverter_ResolvesRegisteredNameCaseInsensitively(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	enum.RegisterNames(map[string]color{"Red": colorRed, "Blue": colorBlue})
	c := &enum.Converter{}
	target := reflect.TypeOf(color(0))

	// --- Act ---
	v, ok, err := c.Convert(context.Background(), &convert.Input{Raw: "bLuE", Target: target})

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, convert.EnumValue(colorBlue), v)
}

func TestConverter_FallsBackToIntegerLiteral(t *testing.T) {
	t.Parallel()

	v, ok, err := (&enum.Converter{}).Convert(context.Background(), &convert.Input{
		Raw:    "7",
		Target: reflect.TypeOf(priority(0)),
	})

	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, convert.EnumValue(7), v)
}

func TestConverter_UnknownNameYieldsNoValue(t *testing.T) {
	t.Parallel()

	_, ok, err := (&enum.Converter{}).Convert(context.Background(), &convert.Input{
		Raw:    "chartreuse",
		Target: reflect.TypeOf(priority(0)),
	})

	require.NoError(t, err)
	require.False(t, ok)
}

func TestConverter_NameTablesAreScopedPerType(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	enum.RegisterNames(map[string]color{"red": colorRed})

	// --- Act: a color name asked against a different declared type misses ---
	_, ok, err := (&enum.Converter{}).Convert(context.Background(), &convert.Input{
		Raw:    "red",
		Target: reflect.TypeOf(priority(0)),
	})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, ok)
}

func TestModule_RegistersSharedEnumTarget(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	registry := convert.New()

	// --- Act ---
	(&enum.Module{}).Register(ctx, registry)
	require.NoError(t, registry.Finalize(ctx, nil))

	// --- Assert ---
	_, ok := registry.Converter(reflect.TypeOf(convert.EnumValue(0)))
	require.True(t, ok)
}
