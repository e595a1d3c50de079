package config

import "time"

// DefaultLiveTalkingPath is where the demo installation expects the
// LiveTalking toolkit.
const DefaultLiveTalkingPath = `D:\Projects\See You Again\src\LiveTalking\LiveTalking-main`

// Default returns the configuration of the stock Windows launcher.
func Default() *Model {
	return &Model{
		Interpreter: Interpreter{
			Command:     "python",
			VersionArgs: []string{"--version"},
			MinVersion:  "3.8",
		},
		Install: Install{
			Args:     []string{"-m", "pip", "install", "-q"},
			Packages: []string{"fastapi", "uvicorn", "gradio", "requests", "psutil", "python-multipart"},
			Timeout:  10 * time.Minute,
		},
		Directories: []string{"uploads", "logs"},
		LogDir:      "logs",
		Backend: Service{
			Name:       "backend",
			Title:      "LiveTalking Backend",
			Entry:      "backend_simple.py",
			Host:       "localhost",
			Port:       8000,
			HealthPath: "/health",
		},
		Frontend: Service{
			Name:       "frontend",
			Title:      "LiveTalking Frontend",
			Entry:      "frontend_simple.py",
			Host:       "localhost",
			Port:       7860,
			HealthPath: "/",
		},
		Readiness: Readiness{
			Mode:            ReadinessProbe,
			Delay:           5 * time.Second,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Timeout:         60 * time.Second,
			MaxAttempts:     20,
		},
		External: External{
			LiveTalkingPath: DefaultLiveTalkingPath,
			CosyVoiceURL:    "http://127.0.0.1:50000",
			FFmpeg:          "ffmpeg",
		},
		Check: Check{
			Modules:      []string{"fastapi", "uvicorn", "gradio", "requests", "psutil"},
			ProjectFiles: []string{"backend_simple.py", "frontend_simple.py"},
			Timeout:      10 * time.Second,
		},
		Ports: []Port{
			{Port: 8000, Service: "backend API"},
			{Port: 7860, Service: "frontend UI"},
			{Port: 8010, Service: "WebRTC"},
			{Port: 50000, Service: "CosyVoice"},
		},
	}
}
