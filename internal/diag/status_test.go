package diag

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/livelaunch/internal/backendapi"
	"github.com/vk/livelaunch/internal/config"
)

func livetalkingTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{
		"data/avatars/wav2lip256_alice",
		"data/avatars/wav2lip256_bob",
		"data/avatars/other",
		"wav",
		"wav2lip",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for _, f := range []string{"app.py", "wav/wav2lip256_alice.wav"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), nil, 0o644))
	}
	return root
}

func TestStatus_BackendUp(t *testing.T) {
	// --- Arrange ---
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy","total_avatars":2,"running":1,"training":0}`))
		case "/avatars":
			_, _ = w.Write([]byte(`{"avatars":[{"avatar_id":"wav2lip256_alice","name":"alice","status":"running","pid":42}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.External.LiveTalkingPath = livetalkingTree(t)
	out := &bytes.Buffer{}

	// --- Act ---
	st, err := NewReporter(cfg, backendapi.New(srv.URL, srv.Client()), out).Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.NoError(t, st.BackendErr)

	require.Len(t, st.Avatars, 2)
	assert.Equal(t, "alice", st.Avatars[0].Name)
	assert.True(t, st.Avatars[0].HasAudio)
	assert.False(t, st.Avatars[1].HasAudio)
	assert.Equal(t, 3, st.Directories[filepath.Join(cfg.External.LiveTalkingPath, "data", "avatars")])
	assert.Equal(t, -1, st.Directories[filepath.Join(cfg.External.LiveTalkingPath, "wav2lip", "results", "avatars")])
	assert.True(t, st.Files[filepath.Join(cfg.External.LiveTalkingPath, "app.py")])
	assert.False(t, st.Files[filepath.Join(cfg.External.LiveTalkingPath, "wav2lip", "genavatar.py")])

	assert.Equal(t, 2, st.Health.AvatarCount())
	require.Len(t, st.Running, 1)
	assert.Equal(t, "wav2lip256_alice", st.Running[0].Key())

	assert.Contains(t, out.String(), "[PASS] status: healthy")
	assert.Contains(t, out.String(), "avatars: 2, running: 1, training: 0")
	assert.Contains(t, out.String(), "wav2lip256_alice [running]")
	assert.Contains(t, out.String(), "- bob (wav2lip256_bob, no audio)")
}

func TestStatus_BackendDownIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := config.Default()
	cfg.External.LiveTalkingPath = filepath.Join(t.TempDir(), "absent")
	out := &bytes.Buffer{}

	st, err := NewReporter(cfg, backendapi.New(url, nil), out).Run(context.Background())

	require.NoError(t, err)
	assert.Error(t, st.BackendErr)
	assert.Empty(t, st.Avatars)
	assert.Contains(t, out.String(), "[WARN] not reachable")
	assert.Contains(t, out.String(), "(missing)")
}

func TestStatus_BackendReportsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"degraded","avatars_count":1,"running_count":0,"training_count":1}`))
		default:
			_, _ = w.Write([]byte(`{"avatars":[]}`))
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.External.LiveTalkingPath = livetalkingTree(t)
	out := &bytes.Buffer{}

	st, err := NewReporter(cfg, backendapi.New(srv.URL, srv.Client()), out).Run(context.Background())

	require.NoError(t, err)
	require.NoError(t, st.BackendErr)
	assert.False(t, st.Health.OK())
	assert.Contains(t, out.String(), "[WARN] status: degraded")
	assert.Contains(t, out.String(), "avatars: 1, running: 0, training: 1")
}
