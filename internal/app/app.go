package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/host"
	"github.com/vk/livelaunch/internal/metrics"
	"golang.org/x/term"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	in         io.Reader
	logger     *slog.Logger
	appConfig  *Config
	config     *config.Model
	host       host.Host
	metrics    *metrics.Collector
	httpClient *http.Client
	workDir    string

	interactive func() bool
	httpServer  *http.Server
}

// Option customizes an App. Tests use options to replace the OS.
type Option func(*App)

// WithHost replaces the real OS process and filesystem layer.
func WithHost(h host.Host) Option {
	return func(a *App) { a.host = h }
}

// WithInput makes the App read acknowledgements from r and treat it as an
// interactive terminal.
func WithInput(r io.Reader) Option {
	return func(a *App) {
		a.in = r
		a.interactive = func() bool { return true }
	}
}

// WithHTTPClient sets the client used to reach the back end.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.httpClient = c }
}

// WithWorkDir sets the directory entry points and directories are relative to.
func WithWorkDir(dir string) Option {
	return func(a *App) { a.workDir = dir }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and metrics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW).
		With("run_id", uuid.NewString(), "command", appConfig.Command)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if err := config.ApplyEnv(cfgModel); err != nil {
		panic(err)
	}
	applyOverrides(cfgModel, appConfig)
	if err := cfgModel.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "path", appConfig.ConfigPath,
		"backend", cfgModel.Backend.URL(), "frontend", cfgModel.Frontend.URL(), "readiness", cfgModel.Readiness.Mode)

	a := &App{
		ctx:         ctx,
		outW:        outW,
		in:          os.Stdin,
		logger:      logger,
		appConfig:   appConfig,
		config:      cfgModel,
		host:        host.New(),
		metrics:     metrics.NewCollector("livelaunch"),
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		interactive: stdinIsTerminal,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// applyOverrides layers command-line flags over the loaded configuration.
func applyOverrides(m *config.Model, c *Config) {
	if c.SkipInstall {
		m.Install.Skip = true
	}
	if c.Readiness != "" {
		m.Readiness.Mode = c.Readiness
	}
	if c.Delay > 0 {
		m.Readiness.Delay = c.Delay
	}
}

// Config returns the effective launcher configuration. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}

// Metrics returns the application's metrics collector.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}
