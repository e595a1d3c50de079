// Package testutil runs the whole launcher against files written to a
// temporary directory and a recording host.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/livelaunch/internal/app"
	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/hcl"
	"github.com/vk/livelaunch/internal/host/hosttest"
	"github.com/vk/livelaunch/internal/yamlconfig"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
	Dir    string
}

// Loaders is the loader set the real binary uses.
func Loaders() config.Loaders {
	return config.Loaders{
		".hcl":  hcl.NewLoader(),
		".yaml": yamlconfig.NewLoader(),
		".yml":  yamlconfig.NewLoader(),
	}
}

// RunLauncher provides a standardized harness for running integration tests
// using a default background context.
func RunLauncher(t *testing.T, files map[string]string, appConfig app.Config, fake *hosttest.Fake) *HarnessResult {
	t.Helper()
	return RunLauncherWithContext(context.Background(), t, files, appConfig, fake)
}

// RunLauncherWithContext writes files (relative paths) into a temporary
// directory, resolves appConfig.ConfigPath against it and runs the App with
// fake as its host. Startup panics are returned as errors.
func RunLauncherWithContext(ctx context.Context, t *testing.T, files map[string]string, appConfig app.Config, fake *hosttest.Fake) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	if appConfig.ConfigPath != "" {
		appConfig.ConfigPath = filepath.Join(tmpDir, appConfig.ConfigPath)
	}
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "text"
	appConfig.NoWait = true

	out := &app.SafeBuffer{}
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, &appConfig, Loaders(), app.WithHost(fake), app.WithWorkDir(tmpDir))
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: out.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
			Dir:    tmpDir,
		}
	}

	runErr := testApp.Run(ctx)
	if os.Getenv("LIVELAUNCH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
	}

	return &HarnessResult{
		Output: out.String(),
		Err:    runErr,
		App:    testApp,
		Dir:    tmpDir,
	}
}
