package hcl

import (
	"fmt"
	"time"

	"github.com/vk/livelaunch/internal/config"
)

// translate overlays the decoded HCL schema onto m.
func translate(root *fileRoot, m *config.Model) error {
	if root.Directories != nil {
		m.Directories = root.Directories
	}
	setString(&m.LogDir, root.LogDir)

	if b := root.Interpreter; b != nil {
		setString(&m.Interpreter.Command, b.Command)
		setString(&m.Interpreter.MinVersion, b.MinVersion)
		if b.VersionArgs != nil {
			m.Interpreter.VersionArgs = b.VersionArgs
		}
	}

	if b := root.Install; b != nil {
		if b.Args != nil {
			m.Install.Args = b.Args
		}
		if b.Packages != nil {
			m.Install.Packages = b.Packages
		}
		if b.Skip != nil {
			m.Install.Skip = *b.Skip
		}
		if err := setDuration(&m.Install.Timeout, b.Timeout, "install.timeout"); err != nil {
			return err
		}
	}

	for _, b := range root.Services {
		var svc *config.Service
		switch b.Key {
		case "backend":
			svc = &m.Backend
		case "frontend":
			svc = &m.Frontend
		default:
			return fmt.Errorf(`unknown service %q: must be "backend" or "frontend"`, b.Key)
		}
		translateService(b, svc)
	}

	if b := root.Readiness; b != nil {
		setString(&m.Readiness.Mode, b.Mode)
		if err := setDuration(&m.Readiness.Delay, b.Delay, "readiness.delay"); err != nil {
			return err
		}
		if err := setDuration(&m.Readiness.InitialInterval, b.InitialInterval, "readiness.initial_interval"); err != nil {
			return err
		}
		if err := setDuration(&m.Readiness.MaxInterval, b.MaxInterval, "readiness.max_interval"); err != nil {
			return err
		}
		if err := setDuration(&m.Readiness.Timeout, b.Timeout, "readiness.timeout"); err != nil {
			return err
		}
		if b.MaxAttempts != nil {
			if *b.MaxAttempts < 0 {
				return fmt.Errorf("readiness.max_attempts must not be negative")
			}
			m.Readiness.MaxAttempts = uint(*b.MaxAttempts)
		}
	}

	if b := root.External; b != nil {
		setString(&m.External.LiveTalkingPath, b.LiveTalkingPath)
		setString(&m.External.CosyVoiceURL, b.CosyVoiceURL)
		setString(&m.External.FFmpeg, b.FFmpeg)
	}

	if b := root.Check; b != nil {
		if b.Modules != nil {
			m.Check.Modules = b.Modules
		}
		if b.ProjectFiles != nil {
			m.Check.ProjectFiles = b.ProjectFiles
		}
		if err := setDuration(&m.Check.Timeout, b.Timeout, "check.timeout"); err != nil {
			return err
		}
	}

	// Port blocks replace the default list as a whole.
	if len(root.Ports) > 0 {
		m.Ports = make([]config.Port, 0, len(root.Ports))
		for _, p := range root.Ports {
			m.Ports = append(m.Ports, config.Port{Port: p.Port, Service: p.Service})
		}
	}
	return nil
}

func translateService(b *serviceBlock, svc *config.Service) {
	setString(&svc.Name, b.Name)
	setString(&svc.Title, b.Title)
	setString(&svc.Entry, b.Entry)
	setString(&svc.Host, b.Host)
	setString(&svc.HealthPath, b.HealthPath)
	if b.Args != nil {
		svc.Args = b.Args
	}
	if b.Env != nil {
		svc.Env = b.Env
	}
	if b.Port != nil {
		svc.Port = *b.Port
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, field string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
