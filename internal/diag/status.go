package diag

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/livelaunch/internal/avatar"
	"github.com/vk/livelaunch/internal/backendapi"
	"github.com/vk/livelaunch/internal/config"
	"github.com/vk/livelaunch/internal/ctxlog"
	"github.com/vk/livelaunch/internal/fsutil"
)

// Status is a snapshot of an installation and its running back end.
type Status struct {
	Directories map[string]int
	Files       map[string]bool
	Avatars     []avatar.Avatar
	Health      *backendapi.Health
	Running     []backendapi.Avatar
	BackendErr  error
}

// Reporter gathers and prints installation status.
type Reporter struct {
	cfg    *config.Model
	client *backendapi.Client
	out    io.Writer
}

// NewReporter creates a Reporter. client talks to the configured back end.
func NewReporter(cfg *config.Model, client *backendapi.Client, out io.Writer) *Reporter {
	return &Reporter{cfg: cfg, client: client, out: out}
}

// Run gathers the status and prints it. An unreachable back end is part of
// the report, not an error; only an unreadable avatars directory is.
func (r *Reporter) Run(ctx context.Context) (*Status, error) {
	logger := ctxlog.FromContext(ctx)
	layout := avatar.Layout{Root: r.cfg.External.LiveTalkingPath}
	st := &Status{
		Directories: make(map[string]int),
		Files:       make(map[string]bool),
	}

	dirs := []string{layout.AvatarsDir(), layout.WavDir(), layout.ResultsDir()}
	for _, d := range dirs {
		n, err := fsutil.CountEntries(d)
		if err != nil {
			logger.Debug("Directory not readable.", "dir", d, "error", err)
			n = -1
		}
		st.Directories[d] = n
	}
	files := []string{layout.AppScript(), layout.GenAvatarScript()}
	for _, f := range files {
		st.Files[f] = fsutil.Exists(f)
	}

	if st.Directories[layout.AvatarsDir()] >= 0 {
		avatars, err := avatar.Scan(layout)
		if err != nil {
			return nil, fmt.Errorf("failed to scan avatars: %w", err)
		}
		st.Avatars = avatars
	}

	st.Health, st.BackendErr = r.client.Health(ctx)
	if st.BackendErr == nil {
		st.Running, st.BackendErr = r.client.Avatars(ctx)
	}
	if st.BackendErr != nil {
		logger.Info("Back end not reachable.", "url", r.cfg.Backend.URL(), "error", st.BackendErr)
	}

	r.print(st, dirs, files)
	return st, nil
}

func (r *Reporter) print(st *Status, dirs, files []string) {
	w := r.out
	fmt.Fprintf(w, "%s\n   LiveTalking Status\n%s\n", rule, rule)
	fmt.Fprintf(w, "LiveTalking: %s\n\nDirectories:\n", r.cfg.External.LiveTalkingPath)
	for _, d := range dirs {
		if n := st.Directories[d]; n >= 0 {
			fmt.Fprintf(w, "  [PASS] %s (%d entries)\n", d, n)
		} else {
			fmt.Fprintf(w, "  [FAIL] %s (missing)\n", d)
		}
	}

	fmt.Fprintln(w, "\nFiles:")
	for _, f := range files {
		m := "[FAIL]"
		if st.Files[f] {
			m = "[PASS]"
		}
		fmt.Fprintf(w, "  %s %s\n", m, f)
	}

	fmt.Fprintf(w, "\nAvatars on disk: %d\n", len(st.Avatars))
	for _, a := range st.Avatars {
		audio := "no audio"
		if a.HasAudio {
			audio = "audio"
		}
		fmt.Fprintf(w, "  - %s (%s, %s)\n", a.Name, a.ID, audio)
	}

	fmt.Fprintf(w, "\nBackend %s:\n", r.cfg.Backend.URL())
	if st.BackendErr != nil {
		fmt.Fprintf(w, "  [WARN] not reachable: %v\n", st.BackendErr)
		fmt.Fprintln(w, "  start it with: livelaunch launch")
		return
	}
	m := "[PASS]"
	if !st.Health.OK() {
		m = "[WARN]"
	}
	fmt.Fprintf(w, "  %s status: %s\n  avatars: %d, running: %d, training: %d\n",
		m, st.Health.Status, st.Health.AvatarCount(), st.Health.RunningAvatars(), st.Health.TrainingAvatars())
	for _, a := range st.Running {
		fmt.Fprintf(w, "  - %s [%s]\n", a.Key(), a.State())
	}
}
