package integration_tests

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/livelaunch/internal/app"
	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/host"
	"github.com/vk/livelaunch/internal/host/hosttest"
	"github.com/vk/livelaunch/internal/launch"
	"github.com/vk/livelaunch/internal/testutil"
)

const installCmd = "python -m pip install -q fastapi uvicorn gradio requests psutil python-multipart"

func pythonHost() *hosttest.Fake {
	return hosttest.New().Respond("python --version", "Python 3.10.4")
}

// TestLaunch_StockSequenceFromHCL runs the original batch behavior, declared
// in HCL, end to end.
func TestLaunch_StockSequenceFromHCL(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"launcher.hcl": `
			readiness {
			  mode  = "sleep"
			  delay = "5s"
			}
		`,
	}
	fake := pythonHost()

	// --- Act ---
	result := testutil.RunLauncher(t, files, app.Config{Command: app.CommandLaunch, ConfigPath: "launcher.hcl"}, fake)

	// --- Assert ---
	require.NoError(t, result.Err)

	var ops []string
	for _, c := range fake.Calls(hosttest.OpOutput, hosttest.OpMkdirAll, hosttest.OpStart, hosttest.OpSleep) {
		ops = append(ops, c.Op+" "+c.Arg)
	}
	want := []string{
		"output python --version",
		"output " + installCmd,
		"mkdir " + filepath.Join(result.Dir, "uploads"),
		"mkdir " + filepath.Join(result.Dir, "logs"),
		"start backend",
		"sleep 5s",
		"start frontend",
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("host call sequence mismatch (-want +got):\n%s", diff)
	}

	starts := fake.Calls(hosttest.OpStart)
	require.Len(t, starts, 2)
	assert.GreaterOrEqual(t, starts[1].At.Sub(starts[0].At), 5*time.Second)
	assert.Equal(t, host.ProcessSpec{
		Name:    "backend",
		Title:   "LiveTalking Backend",
		Command: "python",
		Args:    []string{"backend_simple.py"},
		Dir:     result.Dir,
		LogPath: filepath.Join(result.Dir, "logs", "backend.log"),
		Env: []string{
			"LIVETALKING_PATH=" + config.DefaultLiveTalkingPath,
			"TTS_SERVER=http://127.0.0.1:50000",
			"BACKEND_URL=http://localhost:8000",
		},
	}, starts[0].Spec)

	assert.Contains(t, result.Output, "http://localhost:8000")
	assert.Contains(t, result.Output, "http://localhost:7860")
}

// TestLaunch_RelaunchIsIdempotent runs the launcher twice against the same
// host; the second run finds the directories and creates nothing.
func TestLaunch_RelaunchIsIdempotent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"launcher.yaml": `
directories:
  - /srv/livetalking/uploads
  - /srv/livetalking/logs
log_dir: /srv/livetalking/logs
readiness:
  mode: sleep
`,
	}
	fake := pythonHost()

	// --- Act ---
	first := testutil.RunLauncher(t, files, app.Config{ConfigPath: "launcher.yaml"}, fake)
	require.NoError(t, first.Err)
	createdFirst := len(fake.Calls(hosttest.OpMkdirAll))

	second := testutil.RunLauncher(t, files, app.Config{ConfigPath: "launcher.yaml"}, fake)

	// --- Assert ---
	require.NoError(t, second.Err)
	assert.Equal(t, 2, createdFirst)
	assert.Len(t, fake.Calls(hosttest.OpMkdirAll), 2, "the second run must not create directories again")
	assert.Len(t, fake.Calls(hosttest.OpStart), 4)
	assert.Equal(t, "/srv/livetalking/logs/frontend.log", fake.Calls(hosttest.OpStart)[3].Spec.LogPath)
}

// TestLaunch_ProbeWaitsForBackend points the probe at a back end that turns
// healthy on the third poll.
func TestLaunch_ProbeWaitsForBackend(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"status":"healthy"}`)
	}))
	defer srv.Close()
	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)

	files := map[string]string{
		"launcher.hcl": fmt.Sprintf(`
			service "backend" {
			  host = "127.0.0.1"
			  port = %s
			}
			readiness {
			  mode             = "probe"
			  initial_interval = "10ms"
			  max_interval     = "20ms"
			  timeout          = "5s"
			}
		`, port),
	}
	fake := pythonHost()

	// --- Act ---
	result := testutil.RunLauncher(t, files, app.Config{ConfigPath: "launcher.hcl"}, fake)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, int32(3), polls.Load())
	assert.Len(t, fake.Calls(hosttest.OpStart), 2)
	assert.Contains(t, result.Output, "http://127.0.0.1:"+port)
}

func TestLaunch_FailedInstallAbortsBeforeSpawning(t *testing.T) {
	t.Parallel()

	fake := pythonHost().Fail(installCmd, "ERROR: Could not find a version that satisfies the requirement gradio")

	result := testutil.RunLauncher(t, nil, app.Config{SkipInstall: false, Readiness: "sleep"}, fake)

	require.ErrorIs(t, result.Err, launch.ErrInstallFailed)
	assert.Empty(t, fake.Calls(hosttest.OpStart))
	assert.Empty(t, fake.Calls(hosttest.OpMkdirAll))
	assert.Contains(t, result.Output, "Could not find a version")
}

func TestLaunch_MissingInterpreterNamedInHCL(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"launcher.hcl": `
			interpreter {
			  command = "python3.11"
			}
		`,
	}
	fake := hosttest.New().Missing("python3.11")

	result := testutil.RunLauncher(t, files, app.Config{ConfigPath: "launcher.hcl"}, fake)

	require.ErrorIs(t, result.Err, launch.ErrInterpreterMissing)
	assert.Empty(t, fake.Calls(hosttest.OpStart))
	assert.Contains(t, result.Output, launch.ErrorMarker)
	assert.Contains(t, result.Output, "python3.11 not found on PATH")
}

func TestLaunch_UnknownHCLAttributePanicsAtStartup(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"launcher.hcl": `
			service "backend" {
			  workers = 4
			}
		`,
	}

	result := testutil.RunLauncher(t, files, app.Config{ConfigPath: "launcher.hcl"}, pythonHost())

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "application startup panicked")
	assert.Contains(t, result.Err.Error(), "workers")
	assert.Nil(t, result.App)
}
