// Package probe polls local services until they accept requests.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/vk/livelaunch/internal/ctxlog"
)

// Policy bounds a readiness wait.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Timeout caps the total time spent waiting.
	Timeout time.Duration
	// MaxAttempts caps the number of requests; zero means unlimited.
	MaxAttempts uint
}

// NotifyFunc is called after every failed attempt with the delay before the
// next one.
type NotifyFunc func(attempt int, err error, next time.Duration)

// UnhealthyError is returned for a response outside the 2xx range.
type UnhealthyError struct {
	URL        string
	StatusCode int
}

func (e *UnhealthyError) Error() string {
	return fmt.Sprintf("%s answered %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// WaitReady issues GET requests against url with exponential backoff until
// one returns 2xx. It returns the number of attempts made.
func WaitReady(ctx context.Context, client *http.Client, url string, p Policy, notify NotifyFunc) (int, error) {
	logger := ctxlog.FromContext(ctx)
	if client == nil {
		client = http.DefaultClient
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(b)}
	if p.Timeout > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.Timeout))
	}
	if p.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxAttempts))
	}

	attempts := 0
	opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
		logger.Debug("Service not ready yet.", "url", url, "attempt", attempts, "retry_in", next, "error", err)
		if notify != nil {
			notify(attempts, err, next)
		}
	}))

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, get(ctx, client, url)
	}, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return attempts, fmt.Errorf("%s not ready after %d attempts: %w", url, attempts, err)
	}
	logger.Debug("Service ready.", "url", url, "attempts", attempts)
	return attempts, nil
}

func get(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UnhealthyError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}

// PortOpen reports whether something accepts TCP connections on host:port.
func PortOpen(ctx context.Context, host string, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
