package app

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/vk/livelaunch/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// LoaderFunc adapts a function to config.Loader.
type LoaderFunc func(ctx context.Context, path string) (*config.Model, error)

// Load implements config.Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (*config.Model, error) {
	return f(ctx, path)
}

// StaticLoader always returns cfg, ignoring the path.
func StaticLoader(cfg *config.Model) config.Loader {
	return LoaderFunc(func(context.Context, string) (*config.Model, error) {
		return cfg, nil
	})
}

// SetupAppTest creates a new app instance for system testing. Output and
// debug logs go to the returned buffer.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader, opts ...Option) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(logBuffer, appConfig, loader, opts...)

	t.Cleanup(func() {
		if os.Getenv("LIVELAUNCH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
