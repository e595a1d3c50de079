//go:build !windows

package host

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// The started process is the service itself.
const startsServiceDirectly = true

// detachedCommand starts the service in its own session with output
// appended to spec.LogPath, since there is no console to hand it.
func detachedCommand(spec ProcessSpec) (*exec.Cmd, func(), error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if spec.LogPath == "" {
		return cmd, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(spec.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	cmd.Stdout = f
	cmd.Stderr = f
	// The child holds its own descriptor once started.
	return cmd, func() { f.Close() }, nil
}
