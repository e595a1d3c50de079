package backendapi

// Health is the union of both back ends' /health payloads.
type Health struct {
	Status string `json:"status"`

	// Simple back end.
	AvatarsCount  *int `json:"avatars_count,omitempty"`
	RunningCount  *int `json:"running_count,omitempty"`
	TrainingCount *int `json:"training_count,omitempty"`

	// V2 back end.
	LiveTalkingPath string `json:"livetalking_path,omitempty"`
	AvatarsDir      *bool  `json:"avatars_dir,omitempty"`
	ResultsDir      *bool  `json:"results_dir,omitempty"`
	TotalAvatars    *int   `json:"total_avatars,omitempty"`
	Running         *int   `json:"running,omitempty"`
	Training        *int   `json:"training,omitempty"`
}

// OK reports whether the back end describes itself as healthy.
func (h *Health) OK() bool {
	return h.Status == "ok" || h.Status == "healthy"
}

// AvatarCount is the number of avatars the back end knows about.
func (h *Health) AvatarCount() int { return first(h.AvatarsCount, h.TotalAvatars) }

// RunningAvatars is the number of running avatar processes.
func (h *Health) RunningAvatars() int { return first(h.RunningCount, h.Running) }

// TrainingAvatars is the number of avatars being trained.
func (h *Health) TrainingAvatars() int { return first(h.TrainingCount, h.Training) }

func first(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// Avatar is one entry of GET /avatars.
type Avatar struct {
	ID        string `json:"id,omitempty"`
	AvatarID  string `json:"avatar_id,omitempty"`
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	HasAudio  *bool  `json:"has_audio,omitempty"`
	IsRunning bool   `json:"is_running"`
	Status    string `json:"status,omitempty"`
	PID       int    `json:"pid,omitempty"`
}

// Key is the avatar identifier regardless of back-end variant.
func (a Avatar) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.AvatarID
}

// State is "running", "training" or "ready".
func (a Avatar) State() string {
	if a.Status != "" {
		return a.Status
	}
	if a.IsRunning {
		return "running"
	}
	return "ready"
}
