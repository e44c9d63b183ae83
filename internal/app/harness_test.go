package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/specialistvlad/taskgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harnessResult holds the outcome of running a grid through the app.
type harnessResult struct {
	App    *App
	Output *testutil.SafeBuffer
	Err    error
}

// setupAppTest writes files into a temp directory and creates an App that
// loads them. cfg.GridPath is overwritten with the directory.
func setupAppTest(t *testing.T, cfg Config, files map[string]string, modules ...handlers.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg.GridPath = dir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, appConfig, modules...)

	t.Cleanup(func() {
		if os.Getenv("TASKGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

// runGrid runs the given files through a fresh App.
func runGrid(t *testing.T, cfg Config, files map[string]string, modules ...handlers.Module) *harnessResult {
	t.Helper()
	testApp, out := setupAppTest(t, cfg, files, modules...)
	err := testApp.Run(context.Background())
	return &harnessResult{App: testApp, Output: out, Err: err}
}
