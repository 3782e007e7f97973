// Package testutil provides the shared harness for integration tests: it
// materializes manifest files in a temp directory, boots a full App with
// log capture, and runs one parse through it.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/selfdocumentingcode/cmdargs/internal/app"
	"github.com/selfdocumentingcode/cmdargs/internal/convert"
	"github.com/selfdocumentingcode/cmdargs/internal/manifest"
	"github.com/selfdocumentingcode/cmdargs/internal/parse"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Result holds the outcomes of one harness run.
type Result struct {
	LogOutput string
	Err       error
	App       *app.App
	Ctx       *parse.Context
	OK        bool
}

// RunParseTest boots an App from the given manifest files and parses one
// invocation line against the named command, using the default converter
// modules and a plain manifest loader.
func RunParseTest(t *testing.T, files map[string]string, command, line string) *Result {
	t.Helper()
	return RunParseTestWith(t, files, manifest.NewLoader(), nil, command, line)
}

// RunParseTestWith is RunParseTest with a caller-prepared loader (for named
// manifest types) and converter module list.
func RunParseTestWith(t *testing.T, files map[string]string, loader *manifest.Loader, modules []convert.Module, command, line string) *Result {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig, err := app.NewConfig(app.Config{
		ManifestPath: tmpDir,
		LogLevel:     "debug",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &Result{}

	// App construction panics on configuration errors; surface those as an
	// error on the result instead of failing the test run.
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(logBuffer, appConfig, loader, modules...)
	}()

	if result.Err == nil {
		t.Cleanup(result.App.Close)
		result.Ctx, result.OK, result.Err = result.App.ParseLine(context.Background(), command, line)
		// The bus delivers asynchronously; close it so failure logs land
		// before the test inspects LogOutput.
		result.App.Close()
	}

	result.LogOutput = logBuffer.String()
	return result
}
