// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry engine and HTTP helpers shared by
// every network-calling component.
package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/chirp/internal/logging"
)

// Backoff selects how the delay between attempts grows.
type Backoff string

const (
	BackoffExponential Backoff = "exponential"
	BackoffLinear      Backoff = "linear"
	BackoffFixed       Backoff = "fixed"
)

// ParseBackoff maps a config string to a Backoff kind.
func ParseBackoff(s string) (Backoff, error) {
	switch b := Backoff(strings.ToLower(strings.TrimSpace(s))); b {
	case BackoffExponential, BackoffLinear, BackoffFixed:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backoff %q (want exponential, linear or fixed)", s)
	}
}

// Policy describes how often and how patiently an operation is retried.
// Policies are plain values; copy them to derive a variant.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay returns the wait before the retry that follows the 0-based attempt.
//
//	exponential: min(base*2^attempt, max)
//	linear:      min(base*(attempt+1), max)
//	fixed:       min(base, max)
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	var d time.Duration
	switch p.Backoff {
	case BackoffExponential:
		d = p.BaseDelay
		for i := 0; i < attempt; i++ {
			d *= 2
			if p.MaxDelay > 0 && d >= p.MaxDelay {
				break
			}
			// Overflow guard for absurd attempt counts.
			if d <= 0 {
				d = p.MaxDelay
				break
			}
		}
	case BackoffLinear:
		d = p.BaseDelay * time.Duration(attempt+1)
	default:
		d = p.BaseDelay
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Validate reports whether the policy can be used.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", p.MaxAttempts)
	}
	if _, err := ParseBackoff(string(p.Backoff)); err != nil {
		return err
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it immediately. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retry runs op until it succeeds, returns a permanent error, the context
// ends, or policy.MaxAttempts attempts have failed. The last error is
// returned unchanged (permanent wrappers are removed). Only the calling
// goroutine waits between attempts.
func Retry[T any](ctx context.Context, log *logging.Logger, policy Policy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	log = logging.OrNop(log)
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		remaining := attempts - attempt - 1
		if remaining == 0 {
			break
		}

		delay := policy.Delay(attempt)
		log.Warn("retry", "attempt_failed", logging.Fields{
			"operation": name,
			"attempt":   attempt + 1,
			"remaining": remaining,
			"delay_ms":  delay.Milliseconds(),
			"error":     err.Error(),
		})

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	log.Error("retry", "attempts_exhausted", lastErr, logging.Fields{
		"operation": name,
		"attempts":  attempts,
	})
	return zero, lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DoWithRetry executes an HTTP request and retries it on HTTP 429 and 5xx
// responses according to policy. Transport errors are retried as well.
// On each retried response the body is drained and closed. After the last
// attempt the final response is returned so the caller can inspect it.
// A request body is replayed on every attempt, through req.GetBody when set
// or from a copy read up front.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy Policy, log *logging.Logger) (*http.Response, error) {
	if err := rewindable(req); err != nil {
		return nil, err
	}
	var last *http.Response
	resp, err := Retry(ctx, log, policy, req.URL.Path, func(ctx context.Context) (*http.Response, error) {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, Permanent(fmt.Errorf("rewinding request body: %w", err))
			}
			attempt.Body = body
		}
		resp, err := client.Do(attempt)
		if err != nil {
			return nil, err
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if last != nil {
			io.Copy(io.Discard, last.Body)
			last.Body.Close()
		}
		last = resp
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	})
	if err == nil {
		if last != nil && last != resp {
			io.Copy(io.Discard, last.Body)
			last.Body.Close()
		}
		return resp, nil
	}
	if last != nil && ctx.Err() == nil {
		return last, nil
	}
	if last != nil {
		last.Body.Close()
	}
	return nil, err
}

// rewindable makes sure req.GetBody can produce the body again.
func rewindable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.Body, _ = req.GetBody()
	return nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
