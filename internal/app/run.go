package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/vk/livelaunch/internal/backendapi"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/diag"
	"github.com/vk/livelaunch/internal/launch"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	var err error
	switch a.appConfig.Command {
	case CommandCheck:
		_, err = diag.NewChecker(a.config, a.host, a.outW, a.workDir, a.metrics,
			diag.WithHTTPClient(a.httpClient)).Run(ctx)
	case CommandStatus:
		client := backendapi.New(a.config.Backend.URL(), a.httpClient)
		_, err = diag.NewReporter(a.config, client, a.outW).Run(ctx)
	default:
		err = a.launch(ctx)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) launch(ctx context.Context) error {
	seq := launch.New(a.config, a.host, a.outW,
		launch.WithRecorder(a.metrics),
		launch.WithHTTPClient(a.httpClient),
		launch.WithWorkDir(a.workDir),
	)
	res, err := seq.Run(ctx)
	if err != nil {
		if errors.Is(err, launch.ErrInterpreterMissing) || errors.Is(err, launch.ErrInterpreterTooOld) {
			a.acknowledge(ctx, "Press Enter to exit...")
		}
		return err
	}
	a.logger.Info("🚀 Services launched.",
		"backend_pid", res.Backend.PID, "frontend_pid", res.Frontend.PID, "probe_attempts", res.ProbeAttempts)

	if _, err := a.healthCheckServer(); err != nil {
		a.logger.Warn("Continuing without health check server.", "error", err)
	}
	defer a.closeHealthCheckServer()

	a.acknowledge(ctx, "Press Enter to close this launcher (the services keep running)...")
	return nil
}

// acknowledge blocks until the operator presses Enter, the input ends or ctx
// is done. It returns immediately when -no-wait is set or stdin is not a
// terminal.
func (a *App) acknowledge(ctx context.Context, prompt string) {
	if a.appConfig.NoWait || !a.interactive() {
		return
	}
	fmt.Fprintln(a.outW, prompt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = bufio.NewReader(a.in).ReadString('\n')
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
