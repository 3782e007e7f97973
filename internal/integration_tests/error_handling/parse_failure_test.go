package error_handling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/selfdocumentingcode/cmdargs/internal/testutil"
)

func TestParse_UnconvertibleToken_LogsOneFailure(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"commands.hcl": `
command "roll" {
  parameter "sides" {
    type = int
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunParseTest(t, files, "roll", "twenty")

	// --- Assert ---
	require.NoError(t, result.Err)
	require.False(t, result.OK)
	require.Nil(t, result.Ctx)
	require.Contains(t, result.LogOutput, "Command argument parsing failed.")
	require.Contains(t, result.LogOutput, `value \"twenty\" is not valid for parameter \"sides\"`)
}

func TestParse_MissingRequiredArgument_LogsFailure(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"commands.hcl": `
command "greet" {
  parameter "name" {
    type = string
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunParseTest(t, files, "greet", "")

	// --- Assert ---
	require.NoError(t, result.Err)
	require.False(t, result.OK)
	require.Contains(t, result.LogOutput, "missing required argument")
	require.Contains(t, result.LogOutput, "parameter=name")
}

func TestParse_UnknownCommand_Fails(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"commands.hcl": `command "greet" {}`,
	}

	// --- Act ---
	result := testutil.RunParseTest(t, files, "shout", "hello")

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `unknown command "shout"`)
}

func TestStartup_MalformedManifest_Fails(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"commands.hcl": `
command "broken" {
  parameter "values" {
    type     = list(int)
    variadic = true
  }
  parameter "after" {
    type = string
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunParseTest(t, files, "broken", "1 2")

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "must be the last parameter")
}

func TestStartup_UnknownParameterType_Fails(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{
		"commands.hcl": `
command "widgetize" {
  parameter "w" {
    type = widget
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunParseTest(t, files, "widgetize", "x")

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), `unknown type "widget"`)
}
