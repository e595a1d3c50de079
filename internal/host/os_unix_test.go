//go:build unix

package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestOS_StartDetachesIntoNewSession(t *testing.T) {
	sleepBin, err := New().LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}

	// --- Arrange ---
	logPath := filepath.Join(t.TempDir(), "logs", "backend.log")
	spec := ProcessSpec{Name: "backend", Command: sleepBin, Args: []string{"30"}, LogPath: logPath}

	// --- Act ---
	proc, err := New().Start(spec)
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Kill(proc.PID, unix.SIGKILL) })

	// --- Assert ---
	childSID, err := unix.Getsid(proc.PID)
	require.NoError(t, err)
	ownSID, err := unix.Getsid(os.Getpid())
	require.NoError(t, err)

	assert.Equal(t, proc.PID, childSID, "the child should lead its own session")
	assert.NotEqual(t, ownSID, childSID, "the child must not share the launcher's session")
	assert.FileExists(t, logPath)
}

func TestOS_OutputReportsExitStatus(t *testing.T) {
	if _, err := New().LookPath("false"); err != nil {
		t.Skip("false binary not available")
	}
	_, err := New().Output(context.Background(), "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with status 1")
}

func TestOS_OutputReportsMissingBinary(t *testing.T) {
	_, err := New().Output(context.Background(), "livelaunch-no-such-binary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run livelaunch-no-such-binary")
}

func TestOS_SleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := New().Sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOS_MkdirAllIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	h := New()
	require.NoError(t, h.MkdirAll(dir))
	require.NoError(t, h.MkdirAll(dir))

	info, err := h.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
