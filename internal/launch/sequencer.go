package launch

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/host"
)

// Recorder receives launch measurements. *metrics.Collector implements it.
type Recorder interface {
	ServiceSpawned(service string)
	ProbeAttempts(n int)
	ObserveStep(step string, d time.Duration, err error)
	Launched(at time.Time)
}

type nopRecorder struct{}

func (nopRecorder) ServiceSpawned(string)                    {}
func (nopRecorder) ProbeAttempts(int)                        {}
func (nopRecorder) ObserveStep(string, time.Duration, error) {}
func (nopRecorder) Launched(time.Time)                       {}

// Result describes what a run did, as far as it got.
type Result struct {
	InterpreterVersion string
	CreatedDirectories []string
	Backend            *host.Process
	Frontend           *host.Process
	ProbeAttempts      int
}

// Sequencer runs the launch sequence for one configuration.
type Sequencer struct {
	cfg      *config.Model
	host     host.Host
	console  *console
	http     *http.Client
	recorder Recorder
	workDir  string
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithHTTPClient sets the client used by the readiness probe.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sequencer) { s.http = c }
}

// WithRecorder sets where measurements go.
func WithRecorder(r Recorder) Option {
	return func(s *Sequencer) { s.recorder = r }
}

// WithWorkDir sets the launch location: relative directories are resolved
// against it and services run in it. The default is the current directory.
func WithWorkDir(dir string) Option {
	return func(s *Sequencer) { s.workDir = dir }
}

// New creates a Sequencer that performs OS operations through h and writes
// operator banners to out.
func New(cfg *config.Model, h host.Host, out io.Writer, opts ...Option) *Sequencer {
	s := &Sequencer{
		cfg:      cfg,
		host:     h,
		console:  &console{w: out},
		http:     &http.Client{Timeout: 2 * time.Second},
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes preflight, provisioning and bring-up in order, stopping at
// the first failing step. The returned error is a *StepError.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Launch sequence started.", "readiness", s.cfg.Readiness.Mode)
	s.console.banner("LiveTalking Digital Human Launcher")

	res := &Result{}

	s.console.step(1, "Checking Python environment")
	err := s.step(ctx, StepPreflight, func(ctx context.Context) error {
		v, err := CheckInterpreter(ctx, s.host, s.cfg.Interpreter)
		res.InterpreterVersion = v
		if err == nil {
			s.console.detail(v)
		}
		return err
	})
	if err != nil {
		return res, s.fail(err)
	}

	s.console.step(2, "Installing dependencies and creating directories")
	err = s.step(ctx, StepProvision, func(ctx context.Context) error {
		if err := s.installPackages(ctx); err != nil {
			return err
		}
		created, err := s.ensureDirectories(ctx)
		res.CreatedDirectories = created
		return err
	})
	if err != nil {
		return res, s.fail(err)
	}

	s.console.step(3, "Starting services")
	if err := s.step(ctx, StepBringUp, func(ctx context.Context) error {
		return s.bringUp(ctx, res)
	}); err != nil {
		return res, s.fail(err)
	}

	s.recorder.Launched(time.Now())
	s.console.started(s.cfg)
	logger.Info("Launch sequence finished.", "backend_pid", res.Backend.PID, "frontend_pid", res.Frontend.PID)
	return res, nil
}

func (s *Sequencer) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = ctxlog.With(ctx, "step", name)
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.recorder.ObserveStep(name, elapsed, err)

	if err != nil {
		logger.Error("Launch step failed.", "elapsed", elapsed, "error", err)
		return &StepError{Step: name, Err: err}
	}
	logger.Debug("Launch step finished.", "elapsed", elapsed)
	return nil
}

func (s *Sequencer) fail(err error) error {
	s.console.failure(err, hint(err))
	return err
}

func (s *Sequencer) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.workDir == "" {
		return p
	}
	return filepath.Join(s.workDir, p)
}
