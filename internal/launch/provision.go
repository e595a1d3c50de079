package launch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/vk/livelaunch/internal/ctxlog"
)

const outputTailLines = 15

// installPackages runs the installer through the interpreter. A failure
// aborts the launch with the end of the installer's output attached.
func (s *Sequencer) installPackages(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	inst := s.cfg.Install

	if inst.Skip || len(inst.Packages) == 0 {
		logger.Info("Package installation skipped.", "skip", inst.Skip, "packages", len(inst.Packages))
		s.console.detail("package installation skipped")
		return nil
	}

	if inst.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inst.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, inst.Args...), inst.Packages...)
	logger.Info("Installing packages.", "packages", inst.Packages)
	out, err := s.host.Output(ctx, s.cfg.Interpreter.Command, args...)
	if err != nil {
		if tail := lastLines(string(out), outputTailLines); tail != "" {
			return fmt.Errorf("%w: %w\n%s", ErrInstallFailed, err, tail)
		}
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	s.console.detail("packages ready: " + strings.Join(inst.Packages, ", "))
	return nil
}

// ensureDirectories creates each configured directory that does not exist
// yet and returns the ones it created. Existing directories are left alone.
func (s *Sequencer) ensureDirectories(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var created []string
	for _, d := range s.cfg.Directories {
		p := s.resolve(d)
		_, err := s.host.Stat(p)
		if err == nil {
			logger.Debug("Directory already present.", "path", p)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("%w: %w", ErrDirectoryFailed, err)
		}
		if err := s.host.MkdirAll(p); err != nil {
			return created, fmt.Errorf("%w: %s: %w", ErrDirectoryFailed, p, err)
		}
		logger.Info("Directory created.", "path", p)
		created = append(created, p)
	}
	if len(created) > 0 {
		s.console.detail("created " + strings.Join(created, ", "))
	}
	return created, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\r\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
