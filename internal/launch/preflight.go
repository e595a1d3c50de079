package launch

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/host"
)

// CheckInterpreter verifies that the interpreter resolves on PATH, runs its
// version command successfully and, when a minimum is configured, is recent
// enough. It returns the interpreter's version output.
func CheckInterpreter(ctx context.Context, h host.Host, ic config.Interpreter) (string, error) {
	logger := ctxlog.FromContext(ctx)

	path, err := h.LookPath(ic.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found on PATH: %w", ErrInterpreterMissing, ic.Command, err)
	}
	logger.Debug("Interpreter resolved.", "command", ic.Command, "path", path)

	out, err := h.Output(ctx, ic.Command, ic.VersionArgs...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInterpreterMissing, commandLine(ic.Command, ic.VersionArgs), err)
	}
	reported := strings.TrimSpace(string(out))

	if ic.MinVersion == "" {
		return reported, nil
	}
	version, err := parseVersion(reported)
	if err != nil {
		// The interpreter runs; an odd banner is not worth refusing to launch.
		logger.Warn("Could not determine interpreter version.", "output", reported, "error", err)
		return reported, nil
	}
	ok, err := atLeast(version, ic.MinVersion)
	if err != nil {
		return reported, err
	}
	if !ok {
		return reported, fmt.Errorf("%w: found %s, need %s or newer", ErrInterpreterTooOld, reported, ic.MinVersion)
	}
	return reported, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
