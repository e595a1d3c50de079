package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "LIVELAUNCH_"

// ApplyEnv overrides fields of m from LIVELAUNCH_* environment variables.
// Variables that are not set leave the current value untouched.
func ApplyEnv(m *Model) error {
	return applyEnv(m, nil)
}

func applyEnv(m *Model, environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(m, opts); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}
