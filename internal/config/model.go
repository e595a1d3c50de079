package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Readiness modes.
const (
	ReadinessProbe = "probe"
	ReadinessSleep = "sleep"
)

// Model is the unified, format-agnostic representation of the launcher
// configuration.
type Model struct {
	Interpreter Interpreter `yaml:"interpreter" envPrefix:"INTERPRETER_"`
	Install     Install     `yaml:"install" envPrefix:"INSTALL_"`
	Directories []string    `yaml:"directories" env:"DIRECTORIES" envSeparator:","`
	LogDir      string      `yaml:"log_dir" env:"LOG_DIR"`
	Backend     Service     `yaml:"backend" envPrefix:"BACKEND_"`
	Frontend    Service     `yaml:"frontend" envPrefix:"FRONTEND_"`
	Readiness   Readiness   `yaml:"readiness" envPrefix:"READINESS_"`
	External    External    `yaml:"external" envPrefix:"EXTERNAL_"`
	Check       Check       `yaml:"check" envPrefix:"CHECK_"`
	Ports       []Port      `yaml:"ports"`
}

// Interpreter describes the runtime the services are launched with.
type Interpreter struct {
	Command     string   `yaml:"command" env:"COMMAND"`
	VersionArgs []string `yaml:"version_args" env:"VERSION_ARGS" envSeparator:" "`
	MinVersion  string   `yaml:"min_version" env:"MIN_VERSION"`
}

// Install describes how third-party packages are installed. Args are passed
// to the interpreter, followed by the package names.
type Install struct {
	Args     []string      `yaml:"args" env:"ARGS" envSeparator:" "`
	Packages []string      `yaml:"packages" env:"PACKAGES" envSeparator:","`
	Skip     bool          `yaml:"skip" env:"SKIP"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Service is one locally spawned process, the back end or the front end.
type Service struct {
	Name       string   `yaml:"name" env:"NAME"`
	Title      string   `yaml:"title" env:"TITLE"`
	Entry      string   `yaml:"entry" env:"ENTRY"`
	Args       []string `yaml:"args" env:"ARGS" envSeparator:" "`
	Host       string   `yaml:"host" env:"HOST"`
	Port       int      `yaml:"port" env:"PORT"`
	HealthPath string   `yaml:"health_path" env:"HEALTH_PATH"`
	// Env holds extra KEY=VALUE variables for the spawned process.
	Env        []string `yaml:"env" env:"ENV" envSeparator:","`
}

// URL is the base address the service is expected to listen on.
func (s Service) URL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

// HealthURL is the address polled by the readiness probe.
func (s Service) HealthURL() string {
	p := s.HealthPath
	if p == "" {
		p = "/"
	}
	u, err := url.JoinPath(s.URL(), p)
	if err != nil {
		return s.URL() + "/" + strings.TrimPrefix(p, "/")
	}
	return u
}

// Readiness controls how the launcher waits for the back end before it
// spawns the front end.
type Readiness struct {
	Mode            string        `yaml:"mode" env:"MODE"`
	Delay           time.Duration `yaml:"delay" env:"DELAY"`
	InitialInterval time.Duration `yaml:"initial_interval" env:"INITIAL_INTERVAL"`
	MaxInterval     time.Duration `yaml:"max_interval" env:"MAX_INTERVAL"`
	Timeout         time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxAttempts     uint          `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
}

// External locates the collaborators the services depend on.
type External struct {
	LiveTalkingPath string `yaml:"livetalking_path" env:"LIVETALKING_PATH"`
	CosyVoiceURL    string `yaml:"cosyvoice_url" env:"COSYVOICE_URL"`
	FFmpeg          string `yaml:"ffmpeg" env:"FFMPEG"`
}

// Check configures the `check` command.
type Check struct {
	Modules      []string      `yaml:"modules" env:"MODULES" envSeparator:","`
	ProjectFiles []string      `yaml:"project_files" env:"PROJECT_FILES" envSeparator:","`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Port is a well-known local port checked for conflicts.
type Port struct {
	Port    int    `yaml:"port"`
	Service string `yaml:"service"`
}
