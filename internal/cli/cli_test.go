package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/livelaunch/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, exit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, app.CommandLaunch, cfg.Command)
	assert.Equal(t, "", cfg.ConfigPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.NoWait)
	assert.Equal(t, "", cfg.Readiness)
}

func TestParse_AllOptions(t *testing.T) {
	t.Parallel()

	args := []string{
		"-c", "launcher.hcl",
		"-log-format", "JSON",
		"-log-level", "debug",
		"-healthcheck-port", "9090",
		"-no-wait", "-skip-install",
		"-readiness", "sleep", "-delay", "7s",
		"check",
	}

	cfg, exit, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		Command:         app.CommandCheck,
		ConfigPath:      "launcher.hcl",
		LogFormat:       "json",
		LogLevel:        "debug",
		HealthcheckPort: 9090,
		NoWait:          true,
		SkipInstall:     true,
		Readiness:       "sleep",
		Delay:           7 * time.Second,
	}, cfg)
}

func TestParse_LongConfigFlagWins(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"-c", "short.yaml", "-config", "long.yaml", "status"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "long.yaml", cfg.ConfigPath)
	assert.Equal(t, app.CommandStatus, cfg.Command)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, exit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-skip-install")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"-bogus"}, "flag provided but not defined"},
		{"bad log format", []string{"-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "trace"}, "invalid log-level"},
		{"bad readiness", []string{"-readiness", "guess"}, "invalid readiness"},
		{"unknown command", []string{"stop"}, `unknown command "stop"`},
		{"extra arguments", []string{"launch", "now"}, "unexpected arguments: now"},
		{"bad port", []string{"-healthcheck-port", "-1"}, "out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, exit, err := Parse(tc.args, &bytes.Buffer{})

			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
