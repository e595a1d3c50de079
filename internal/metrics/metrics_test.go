package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsLaunch(t *testing.T) {
	c := NewCollector("livelaunch")

	c.ServiceSpawned("backend")
	c.ServiceSpawned("frontend")
	c.ServiceSpawned("backend")
	c.ProbeAttempts(3)
	c.ObserveStep("preflight", 20*time.Millisecond, nil)
	c.ObserveStep("provision", time.Second, errors.New("pip failed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.spawnsTotal.WithLabelValues("backend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.spawnsTotal.WithLabelValues("frontend")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.probeAttempts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stepFailures.WithLabelValues("provision")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.stepFailures.WithLabelValues("preflight")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	// Two collectors in one process must not panic on duplicate registration.
	a := NewCollector("livelaunch")
	b := NewCollector("livelaunch")
	a.ServiceSpawned("backend")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.spawnsTotal.WithLabelValues("backend")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("livelaunch")
	c.CheckFailed("ffmpeg", "warning")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `livelaunch_check_failures_total{check="ffmpeg",severity="warning"} 1`)
}
