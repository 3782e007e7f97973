package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/selfdocumentingcode/cmdargs/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is the command invocation named on the command line.
type Invocation struct {
	Command string
	Line    string
}

// Parse processes command-line arguments. It returns the app configuration
// and the invocation to parse, a boolean indicating a clean early exit, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, *Invocation, bool, error) {
	flagSet := flag.NewFlagSet("cmdargs", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
cmdargs - type-driven command argument parsing against HCL manifests.

Usage:
  cmdargs [options] COMMAND [ARGUMENTS...]

Arguments:
  COMMAND
    Name of a command declared in the manifests.
  ARGUMENTS
    Raw tokens to parse against the command's parameters.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestsFlag := flagSet.String("manifests", "", "Path to a manifest file or a directory of .hcl manifests.")
	mFlag := flagSet.String("m", "", "Path to the manifests (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, true, nil
		}
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	manifests := *manifestsFlag
	if manifests == "" {
		manifests = *mFlag
	}
	if manifests == "" {
		flagSet.Usage()
		return nil, nil, true, nil
	}

	if flagSet.NArg() == 0 {
		return nil, nil, false, &ExitError{Code: 2, Message: "no command named; expected COMMAND [ARGUMENTS...]"}
	}
	invocation := &Invocation{
		Command: flagSet.Arg(0),
		Line:    strings.Join(flagSet.Args()[1:], " "),
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ManifestPath: manifests,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, invocation, false, nil
}
