// Package host is the boundary between the launcher and the operating
// system: command execution, the filesystem, detached process spawning and
// sleeping. Everything the launch sequence does to the machine goes through
// the Host interface so tests can record it.
package host

import (
	"context"
	"io/fs"
	"time"
)

// ProcessSpec describes a service process to spawn.
type ProcessSpec struct {
	// Name labels the process in logs and names its output file.
	Name string
	// Title is shown on the process's console window where the platform has one.
	Title   string
	Command string
	Args    []string
	Dir     string
	// LogPath receives stdout and stderr on platforms without a per-process console.
	LogPath string
	Env     []string
}

// Process identifies a spawned process. The launcher does not track it
// further. PID is 0 where the service is started through a shim whose own
// PID would be misleading (Windows `start`).
type Process struct {
	Name string
	PID  int
}

// Host abstracts the OS operations the launcher performs.
type Host interface {
	LookPath(file string) (string, error)
	// Output runs a command to completion and returns its combined output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string) error
	// Start spawns a detached process that outlives the launcher.
	Start(spec ProcessSpec) (*Process, error)
	Sleep(ctx context.Context, d time.Duration) error
}
