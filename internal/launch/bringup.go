package launch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/host"
	"github.com/vk/livelaunch/internal/probe"
)

// bringUp spawns the back end, waits for it, then spawns the front end.
// The front end is never spawned if the back end failed to start or to
// become ready.
func (s *Sequencer) bringUp(ctx context.Context, res *Result) error {
	backend, err := s.spawn(ctx, s.cfg.Backend)
	if err != nil {
		return err
	}
	res.Backend = backend

	attempts, err := s.awaitBackend(ctx)
	res.ProbeAttempts = attempts
	if err != nil {
		return err
	}

	frontend, err := s.spawn(ctx, s.cfg.Frontend)
	if err != nil {
		return err
	}
	res.Frontend = frontend
	return nil
}

func (s *Sequencer) spawn(ctx context.Context, svc config.Service) (*host.Process, error) {
	logger := ctxlog.FromContext(ctx).With("service", svc.Name)

	spec := host.ProcessSpec{
		Name:    svc.Name,
		Title:   svc.Title,
		Command: s.cfg.Interpreter.Command,
		Args:    append([]string{svc.Entry}, svc.Args...),
		Dir:     s.workDir,
		LogPath: filepath.Join(s.resolve(s.cfg.LogDir), svc.Name+".log"),
		Env:     s.serviceEnv(svc),
	}

	proc, err := s.host.Start(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSpawnFailed, svc.Name, err)
	}
	s.recorder.ServiceSpawned(svc.Name)
	logger.Info("Service spawned.", "pid", proc.PID, "entry", svc.Entry, "log", spec.LogPath)
	if proc.PID > 0 {
		s.console.detail(fmt.Sprintf("%s started (pid %d)", svc.Title, proc.PID))
	} else {
		s.console.detail(fmt.Sprintf("%s started in its own window", svc.Title))
	}
	return proc, nil
}

// awaitBackend is the pause between the two spawns. In sleep mode it is a
// fixed delay; in probe mode it polls the back end's health URL. It returns
// the number of probe requests made.
func (s *Sequencer) awaitBackend(ctx context.Context) (int, error) {
	logger := ctxlog.FromContext(ctx)
	r := s.cfg.Readiness

	if r.Mode == config.ReadinessSleep {
		s.console.detail(fmt.Sprintf("waiting %s for the back end to settle", r.Delay))
		logger.Debug("Sleeping before front-end start.", "delay", r.Delay)
		if err := s.host.Sleep(ctx, r.Delay); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBackendNotReady, err)
		}
		return 0, nil
	}

	url := s.cfg.Backend.HealthURL()
	s.console.detail("waiting for " + url)
	policy := probe.Policy{
		InitialInterval: r.InitialInterval,
		MaxInterval:     r.MaxInterval,
		Timeout:         r.Timeout,
		MaxAttempts:     r.MaxAttempts,
	}
	attempts, err := probe.WaitReady(ctx, s.http, url, policy, func(attempt int, err error, next time.Duration) {
		logger.Info("Back end not ready.", "attempt", attempt, "retry_in", next.Round(time.Millisecond))
	})
	s.recorder.ProbeAttempts(attempts)
	if err != nil {
		return attempts, fmt.Errorf("%w: %w", ErrBackendNotReady, err)
	}
	s.console.detail(fmt.Sprintf("back end ready after %d attempt(s)", attempts))
	return attempts, nil
}

// serviceEnv tells a service where its collaborators live. The service's
// own configured variables come last so they win.
func (s *Sequencer) serviceEnv(svc config.Service) []string {
	env := []string{
		"LIVETALKING_PATH=" + s.cfg.External.LiveTalkingPath,
		"TTS_SERVER=" + s.cfg.External.CosyVoiceURL,
		"BACKEND_URL=" + s.cfg.Backend.URL(),
	}
	return append(env, svc.Env...)
}
