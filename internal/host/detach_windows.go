//go:build windows

package host

import (
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// The started process is the cmd.exe shim, which exits once the service's
// window is open.
const startsServiceDirectly = false

// detachedCommand opens the service in its own titled console window the
// way `start "title" ...` does in a batch file. The intermediate cmd.exe is
// hidden and exits as soon as the window is open.
func detachedCommand(spec ProcessSpec) (*exec.Cmd, func(), error) {
	title := spec.Title
	if title == "" {
		title = spec.Name
	}

	parts := []string{"/C", "start", `"` + strings.ReplaceAll(title, `"`, "") + `"`}
	if spec.Dir != "" {
		parts = append(parts, "/D", syscall.EscapeArg(spec.Dir))
	}
	parts = append(parts, syscall.EscapeArg(spec.Command))
	for _, a := range spec.Args {
		parts = append(parts, syscall.EscapeArg(a))
	}

	cmd := exec.Command("cmd.exe")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       "cmd.exe " + strings.Join(parts, " "),
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_NO_WINDOW,
		HideWindow:    true,
	}
	return cmd, func() {}, nil
}
