// Package hosttest provides a recording host.Host for tests.
package hosttest

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/vk/livelaunch/internal/host"
)

// Operations recorded by Fake.
const (
	OpLookPath = "lookpath"
	OpOutput   = "output"
	OpStat     = "stat"
	OpMkdirAll = "mkdir"
	OpStart    = "start"
	OpSleep    = "sleep"
)

// Call is one recorded Host call.
type Call struct {
	Op   string
	Arg  string
	Spec host.ProcessSpec
	At   time.Time
}

type result struct {
	out string
	err error
}

// Fake is an in-memory host.Host. Binaries not registered with Missing are
// present, commands succeed with empty output unless configured, and only
// paths added with Exist or MkdirAll exist. Sleep advances a virtual clock
// instead of blocking.
type Fake struct {
	mu       sync.Mutex
	calls    []Call
	missing  map[string]bool
	outputs  map[string]result
	existing map[string]bool
	startErr map[string]error
	offset   time.Duration
	nextPID  int
	noPIDs   bool
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		missing:  make(map[string]bool),
		outputs:  make(map[string]result),
		existing: make(map[string]bool),
		startErr: make(map[string]error),
		nextPID:  4000,
	}
}

// Missing makes a binary unresolvable.
func (f *Fake) Missing(name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

// Respond sets the output of the command line "name arg1 arg2...".
func (f *Fake) Respond(cmdline, out string) *Fake {
	return f.setOutput(cmdline, out, nil)
}

// Fail makes the command line exit non-zero with the given output.
func (f *Fake) Fail(cmdline, out string) *Fake {
	return f.setOutput(cmdline, out, fmt.Errorf("%s exited with status 1", strings.Fields(cmdline)[0]))
}

func (f *Fake) setOutput(cmdline, out string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[cmdline] = result{out: out, err: err}
	return f
}

// Exist marks paths as present.
func (f *Fake) Exist(paths ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		f.existing[clean(p)] = true
	}
	return f
}

// FailStart makes spawning the named service fail.
func (f *Fake) FailStart(name string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr[name] = err
	return f
}

// HidePIDs makes Start report PID 0, as a shim-based platform does.
func (f *Fake) HidePIDs() *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noPIDs = true
	return f
}

// Calls returns a copy of the recorded calls, optionally filtered by op.
func (f *Fake) Calls(ops ...string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if len(ops) == 0 || contains(ops, c.Op) {
			out = append(out, c)
		}
	}
	return out
}

// Exists reports whether p was marked present or created.
func (f *Fake) Exists(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[clean(p)]
}

func (f *Fake) record(c Call) {
	c.At = time.Now().Add(f.offset)
	f.calls = append(f.calls, c)
}

// LookPath implements host.Host.
func (f *Fake) LookPath(file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: OpLookPath, Arg: file})
	if f.missing[file] {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + file, nil
}

// Output implements host.Host.
func (f *Fake) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.record(Call{Op: OpOutput, Arg: cmdline})
	if f.missing[name] {
		return nil, fmt.Errorf("failed to run %s: %w", name, &exec.Error{Name: name, Err: exec.ErrNotFound})
	}
	r := f.outputs[cmdline]
	return []byte(r.out), r.err
}

// Stat implements host.Host.
func (f *Fake) Stat(p string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: OpStat, Arg: p})
	if !f.existing[clean(p)] {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return fileInfo{name: path.Base(clean(p))}, nil
}

// MkdirAll implements host.Host.
func (f *Fake) MkdirAll(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: OpMkdirAll, Arg: p})
	f.existing[clean(p)] = true
	return nil
}

// Start implements host.Host.
func (f *Fake) Start(spec host.ProcessSpec) (*host.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: OpStart, Arg: spec.Name, Spec: spec})
	if err := f.startErr[spec.Name]; err != nil {
		return nil, err
	}
	if f.noPIDs {
		return &host.Process{Name: spec.Name}, nil
	}
	f.nextPID++
	return &host.Process{Name: spec.Name, PID: f.nextPID}, nil
}

// Sleep implements host.Host by advancing the virtual clock.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: OpSleep, Arg: d.String()})
	f.offset += d
	return nil
}

func clean(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fileInfo struct{ name string }

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return 0 }
func (fi fileInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return true }
func (fi fileInfo) Sys() any           { return nil }
