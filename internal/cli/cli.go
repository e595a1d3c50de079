package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/livelaunch/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("livelaunch", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
livelaunch - Starts the LiveTalking digital human demo.

Usage:
  livelaunch [options] [COMMAND]

Commands:
  launch   Check Python, install dependencies, start the back end and the
           front end (default).
  check    Audit this machine: Python, packages, project files, LiveTalking,
           FFmpeg, ports and GPU.
  status   Report on the LiveTalking installation and the running back end.

Configuration is read from -config (.hcl, .yaml or .yml), then LIVELAUNCH_*
environment variables, then the options below.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a launcher configuration file.")
	cFlag := flagSet.String("c", "", "Path to a launcher configuration file (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health and metrics server while launched. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noWaitFlag := flagSet.Bool("no-wait", false, "Return as soon as the services are started instead of waiting for Enter.")
	skipInstallFlag := flagSet.Bool("skip-install", false, "Do not install Python packages.")
	readinessFlag := flagSet.String("readiness", "", "How to wait for the back end. Options: 'probe' or 'sleep'.")
	delayFlag := flagSet.Duration("delay", 0, "Fixed wait before the front end starts in 'sleep' readiness mode.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	command := app.CommandLaunch
	if flagSet.NArg() == 1 {
		command = strings.ToLower(flagSet.Arg(0))
	}

	path := *configFlag
	if path == "" {
		path = *cFlag
	}
	slog.Debug("Configuration path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	readiness := strings.ToLower(*readinessFlag)
	switch readiness {
	case "", "probe", "sleep":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid readiness: must be 'probe' or 'sleep'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:         command,
		ConfigPath:      path,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		NoWait:          *noWaitFlag,
		SkipInstall:     *skipInstallFlag,
		Readiness:       readiness,
		Delay:           *delayFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
