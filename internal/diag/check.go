package diag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/livelaunch/internal/avatar"
	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/host"
	"github.com/vk/livelaunch/internal/launch"
	"github.com/vk/livelaunch/internal/probe"
	"golang.org/x/sync/errgroup"
)

// ErrCriticalCheckFailed is returned when a critical check does not pass.
var ErrCriticalCheckFailed = errors.New("critical system check failed")

// Severity decides whether a failing check blocks the launch.
type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
)

// Result is the outcome of one check.
type Result struct {
	Name     string
	Severity Severity
	OK       bool
	Summary  string
	Details  []string
}

// Report is the outcome of a full check run, in declaration order.
type Report struct {
	Results []Result
}

// Passed reports whether every critical check passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.OK && res.Severity == Critical {
			return false
		}
	}
	return true
}

// FailureRecorder receives failing checks. *metrics.Collector implements it.
type FailureRecorder interface {
	CheckFailed(check, severity string)
}

type check struct {
	name     string
	severity Severity
	run      func(ctx context.Context) Result
}

// Checker audits the machine against a configuration.
type Checker struct {
	cfg      *config.Model
	host     host.Host
	out      io.Writer
	workDir  string
	recorder FailureRecorder
	http     *http.Client
	parallel int
}

// CheckerOption customizes a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient sets the client used to reach external services.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) { c.http = client }
}

// NewChecker creates a Checker. workDir is where project files are looked
// up; empty means the current directory. recorder may be nil.
func NewChecker(cfg *config.Model, h host.Host, out io.Writer, workDir string, recorder FailureRecorder, opts ...CheckerOption) *Checker {
	c := &Checker{
		cfg:      cfg,
		host:     h,
		out:      out,
		workDir:  workDir,
		recorder: recorder,
		http:     &http.Client{Timeout: 2 * time.Second},
		parallel: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes every check, prints the report and returns
// ErrCriticalCheckFailed if a critical check failed. Checks are
// independent and run concurrently.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	checks := c.checks()
	results := make([]Result, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)
	for i, chk := range checks {
		g.Go(func() error {
			cctx := gctx
			if c.cfg.Check.Timeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(gctx, c.cfg.Check.Timeout)
				defer cancel()
			}
			start := time.Now()
			res := chk.run(cctx)
			res.Name, res.Severity = chk.name, chk.severity
			results[i] = res
			logger.Debug("Check finished.", "check", chk.name, "ok", res.OK, "elapsed", time.Since(start))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("system check interrupted: %w", err)
	}

	report := &Report{Results: results}
	for _, res := range results {
		if !res.OK && c.recorder != nil {
			c.recorder.CheckFailed(res.Name, string(res.Severity))
		}
	}
	printReport(c.out, report)

	if !report.Passed() {
		return report, ErrCriticalCheckFailed
	}
	return report, nil
}

func (c *Checker) checks() []check {
	return []check{
		{"Python", Critical, c.checkInterpreter},
		{"Packages", Critical, c.checkModules},
		{"Project files", Critical, c.checkProjectFiles},
		{"LiveTalking", Critical, c.checkLiveTalking},
		{"FFmpeg", Warning, c.checkFFmpeg},
		{"Ports", Warning, c.checkPorts},
		{"CosyVoice", Warning, c.checkCosyVoice},
		{"GPU", Warning, c.checkGPU},
	}
}

func (c *Checker) checkInterpreter(ctx context.Context) Result {
	v, err := launch.CheckInterpreter(ctx, c.host, c.cfg.Interpreter)
	if err != nil {
		return Result{Summary: err.Error(), Details: []string{"Python " + c.cfg.Interpreter.MinVersion + "+ is required"}}
	}
	return Result{OK: true, Summary: v}
}

const findSpecScript = "import importlib.util, sys; sys.exit(0 if importlib.util.find_spec(%q) else 1)"

func (c *Checker) checkModules(ctx context.Context) Result {
	var missing []string
	for _, mod := range c.cfg.Check.Modules {
		if _, err := c.host.Output(ctx, c.cfg.Interpreter.Command, "-c", fmt.Sprintf(findSpecScript, mod)); err != nil {
			missing = append(missing, mod)
		}
	}
	if len(missing) > 0 {
		return Result{
			Summary: "missing " + strings.Join(missing, ", "),
			Details: []string{"install with: pip install " + strings.Join(missing, " ")},
		}
	}
	return Result{OK: true, Summary: fmt.Sprintf("%d modules importable", len(c.cfg.Check.Modules))}
}

func (c *Checker) checkProjectFiles(ctx context.Context) Result {
	var missing []string
	for _, f := range c.cfg.Check.ProjectFiles {
		p := f
		if c.workDir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(c.workDir, p)
		}
		if _, err := c.host.Stat(p); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Result{Summary: "missing " + strings.Join(missing, ", ")}
	}
	return Result{OK: true, Summary: strings.Join(c.cfg.Check.ProjectFiles, ", ")}
}

func (c *Checker) checkLiveTalking(ctx context.Context) Result {
	layout := avatar.Layout{Root: c.cfg.External.LiveTalkingPath}
	if _, err := c.host.Stat(layout.Root); err != nil {
		return Result{
			Summary: "not found at " + layout.Root,
			Details: []string{"set external.livetalking_path or LIVELAUNCH_EXTERNAL_LIVETALKING_PATH"},
		}
	}

	res := Result{OK: true, Summary: layout.Root}
	for _, f := range []string{layout.AppScript(), layout.GenAvatarScript()} {
		if _, err := c.host.Stat(f); err != nil {
			res.OK = false
			res.Details = append(res.Details, "missing "+f)
		}
	}
	return res
}

func (c *Checker) checkFFmpeg(ctx context.Context) Result {
	out, err := c.host.Output(ctx, c.cfg.External.FFmpeg, "-version")
	if err != nil {
		return Result{
			Summary: "not installed (needed to turn images into videos)",
			Details: []string{"download from https://ffmpeg.org/download.html and add it to PATH"},
		}
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return Result{OK: true, Summary: strings.TrimSpace(first)}
}

func (c *Checker) checkPorts(ctx context.Context) Result {
	res := Result{OK: true}
	var busy []string
	for _, p := range c.cfg.Ports {
		if probe.PortOpen(ctx, "localhost", p.Port, 500*time.Millisecond) {
			busy = append(busy, fmt.Sprintf("%d (%s)", p.Port, p.Service))
		}
	}
	if len(busy) > 0 {
		res.OK = false
		res.Summary = "in use: " + strings.Join(busy, ", ")
		return res
	}
	res.Summary = fmt.Sprintf("%d ports free", len(c.cfg.Ports))
	return res
}

// checkCosyVoice only needs an HTTP answer; the TTS server has no health
// endpoint, so any status code means it is up.
func (c *Checker) checkCosyVoice(ctx context.Context) Result {
	url := c.cfg.External.CosyVoiceURL
	if url == "" {
		return Result{Summary: "external.cosyvoice_url is not set, speech will not work"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Summary: fmt.Sprintf("invalid URL %q: %v", url, err)}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{
			Summary: "not reachable at " + url,
			Details: []string{"start the CosyVoice TTS server before chatting with an avatar"},
		}
	}
	resp.Body.Close()
	return Result{OK: true, Summary: fmt.Sprintf("reachable at %s (HTTP %d)", url, resp.StatusCode)}
}

const cudaScript = "import torch; print(torch.cuda.get_device_name(0) if torch.cuda.is_available() else '')"

func (c *Checker) checkGPU(ctx context.Context) Result {
	out, err := c.host.Output(ctx, c.cfg.Interpreter.Command, "-c", cudaScript)
	if err != nil {
		return Result{Summary: "PyTorch not installed, cannot check for CUDA"}
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return Result{Summary: "CUDA not available, the CPU will be used (slow)"}
	}
	return Result{OK: true, Summary: "CUDA available: " + name}
}
