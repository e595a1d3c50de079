package app

import (
	"fmt"
	"time"
)

// Commands understood by App.Run.
const (
	CommandLaunch = "launch"
	CommandCheck  = "check"
	CommandStatus = "status"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    string
	ConfigPath string // .hcl, .yaml or .yml; empty means built-in defaults

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Overrides applied on top of the file and the environment. Zero values
	// leave the loaded configuration untouched.
	NoWait      bool
	SkipInstall bool
	Readiness   string
	Delay       time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandLaunch
	}
	switch cfg.Command {
	case CommandLaunch, CommandCheck, CommandStatus:
	default:
		return nil, fmt.Errorf("unknown command %q: must be 'launch', 'check' or 'status'", cfg.Command)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck-port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative, got %s", cfg.Delay)
	}

	return &cfg, nil
}
