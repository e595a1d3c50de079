package launch

import (
	"time"

	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/host/hosttest"
)

const (
	versionCmd = "python --version"
	installCmd = "python -m pip install -q fastapi uvicorn gradio requests psutil python-multipart"
)

// sleepConfig returns the stock configuration with the fixed readiness wait.
func sleepConfig() *config.Model {
	cfg := config.Default()
	cfg.Readiness.Mode = config.ReadinessSleep
	return cfg
}

// healthyHost is a Fake with a working, recent interpreter.
func healthyHost() *hosttest.Fake {
	return hosttest.New().Respond(versionCmd, "Python 3.10.4\n")
}

func startedNames(f *hosttest.Fake) []string {
	var names []string
	for _, c := range f.Calls(hosttest.OpStart) {
		names = append(names, c.Arg)
	}
	return names
}

type recordedStep struct {
	name string
	err  error
}

type fakeRecorder struct {
	spawned  []string
	attempts int
	steps    []recordedStep
	launched bool
}

func (r *fakeRecorder) ServiceSpawned(s string) { r.spawned = append(r.spawned, s) }
func (r *fakeRecorder) ProbeAttempts(n int)     { r.attempts += n }
func (r *fakeRecorder) ObserveStep(s string, _ time.Duration, err error) {
	r.steps = append(r.steps, recordedStep{s, err})
}
func (r *fakeRecorder) Launched(time.Time) { r.launched = true }
