package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"
)

// OS is the Host backed by the real operating system.
type OS struct{}

// New returns the real Host.
func New() *OS {
	return &OS{}
}

// LookPath implements Host.
func (o *OS) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output implements Host.
func (o *OS) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, fmt.Errorf("%s exited with status %d: %w", name, exitErr.ExitCode(), err)
		}
		return out, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}

// Stat implements Host.
func (o *OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll implements Host.
func (o *OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Start implements Host. The child is placed outside the launcher's process
// group and released immediately; it is never waited on.
func (o *OS) Start(spec ProcessSpec) (*Process, error) {
	cmd, closeOutput, err := detachedCommand(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", spec.Name, err)
	}
	defer closeOutput()

	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return nil, fmt.Errorf("failed to release %s (pid %d): %w", spec.Name, pid, err)
	}
	proc := &Process{Name: spec.Name}
	if startsServiceDirectly {
		proc.PID = pid
	}
	return proc, nil
}

// Sleep implements Host. It returns early with the context's error.
func (o *OS) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
