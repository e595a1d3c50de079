package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = Policy{
	InitialInterval: 5 * time.Millisecond,
	MaxInterval:     20 * time.Millisecond,
	Timeout:         2 * time.Second,
	MaxAttempts:     10,
}

func TestWaitReady_SucceedsAfterWarmup(t *testing.T) {
	// --- Arrange ---
	// The server reports 503 for the first two requests, like a back end
	// that is still importing its dependencies.
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var notified []int
	notify := func(attempt int, err error, next time.Duration) {
		notified = append(notified, attempt)
		assert.Positive(t, next)
	}

	// --- Act ---
	attempts, err := WaitReady(context.Background(), srv.Client(), srv.URL+"/health", fastPolicy, notify)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, notified)
}

func TestWaitReady_GivesUpAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := fastPolicy
	p.MaxAttempts = 3
	attempts, err := WaitReady(context.Background(), srv.Client(), srv.URL, p, nil)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	var unhealthy *UnhealthyError
	require.ErrorAs(t, err, &unhealthy)
	assert.Equal(t, http.StatusInternalServerError, unhealthy.StatusCode)
}

func TestWaitReady_ConnectionRefused(t *testing.T) {
	addr := unusedAddr(t)

	p := fastPolicy
	p.MaxAttempts = 2
	attempts, err := WaitReady(context.Background(), nil, "http://"+addr+"/health", p, nil)

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "not ready after 2 attempts")
}

func TestWaitReady_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitReady(ctx, nil, "http://"+unusedAddr(t), fastPolicy, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPortOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	assert.True(t, PortOpen(context.Background(), "127.0.0.1", port, time.Second))

	_, closedPort, _ := net.SplitHostPort(unusedAddr(t))
	p, _ := strconv.Atoi(closedPort)
	assert.False(t, PortOpen(context.Background(), "127.0.0.1", p, 200*time.Millisecond))
}

// unusedAddr returns an address nothing listens on.
func unusedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}
