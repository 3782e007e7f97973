package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/selfdocumentingcode/cmdargs/internal/app"
	"github.com/selfdocumentingcode/cmdargs/internal/cli"
	"github.com/selfdocumentingcode/cmdargs/internal/manifest"
)

// main is the entrypoint for the cmdargs inspection binary.
func main() {
	// Minimal logger until the app configures its own.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, invocation, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// App construction panics on configuration errors; recover into a clean
	// exit message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical startup error occurred: %v", r)
		}
	}()

	cmdargsApp := app.NewApp(outW, appConfig, manifest.NewLoader())
	defer cmdargsApp.Close()

	cmdCtx, ok, err := cmdargsApp.ParseLine(context.Background(), invocation.Command, invocation.Line)
	if err != nil {
		return err
	}
	if !ok {
		return &cli.ExitError{Code: 1, Message: "argument parsing failed"}
	}

	for _, arg := range cmdCtx.Arguments.Ordered() {
		fmt.Fprintf(outW, "%s = %v\n", arg.Parameter.Name, arg.Value)
	}
	return nil
}
