package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every problem found in the model at once.
func (m *Model) Validate() error {
	var errs []error

	if strings.TrimSpace(m.Interpreter.Command) == "" {
		errs = append(errs, errors.New("interpreter.command must not be empty"))
	}

	for _, svc := range []struct {
		key string
		s   Service
	}{{"backend", m.Backend}, {"frontend", m.Frontend}} {
		if strings.TrimSpace(svc.s.Entry) == "" {
			errs = append(errs, fmt.Errorf("%s.entry must not be empty", svc.key))
		}
		if svc.s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name must not be empty", svc.key))
		}
		if svc.s.Port < 1 || svc.s.Port > 65535 {
			errs = append(errs, fmt.Errorf("%s.port %d is out of range 1-65535", svc.key, svc.s.Port))
		}
	}
	if m.Backend.Port == m.Frontend.Port {
		errs = append(errs, fmt.Errorf("backend and frontend cannot share port %d", m.Backend.Port))
	}

	switch m.Readiness.Mode {
	case ReadinessProbe:
		if m.Readiness.Timeout <= 0 {
			errs = append(errs, errors.New("readiness.timeout must be positive in probe mode"))
		}
	case ReadinessSleep:
		if m.Readiness.Delay <= 0 {
			errs = append(errs, errors.New("readiness.delay must be positive in sleep mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("readiness.mode %q is invalid: must be %q or %q", m.Readiness.Mode, ReadinessProbe, ReadinessSleep))
	}

	for i, d := range m.Directories {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Errorf("directories[%d] must not be empty", i))
		}
	}

	for _, p := range m.Ports {
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("port %d (%s) is out of range 1-65535", p.Port, p.Service))
		}
	}

	return errors.Join(errs...)
}
