// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/chirp/internal/extract"
)

var (
	// ErrNoTweetID reports a create call that succeeded without returning
	// the new tweet's id. It is a data-integrity anomaly and not retried.
	ErrNoTweetID = errors.New("Tweet created but no ID returned")

	// ErrTimeout reports a request aborted by the per-call timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrEmptyTweet reports a post with neither text nor media.
	ErrEmptyTweet = errors.New("tweet text is empty")

	// ErrNotFound reports a lookup that resolved to nothing.
	ErrNotFound = errors.New("not found")
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 300

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	text := http.StatusText(e.StatusCode)
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, text, body)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}

// APIError is a well-formed response carrying an errors array.
type APIError struct {
	Errors []extract.APIError
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if item.Code != 0 {
			msgs = append(msgs, fmt.Sprintf("%s (code %d)", item.Message, item.Code))
		} else {
			msgs = append(msgs, item.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// HasCode reports whether any error item carries code.
func (e *APIError) HasCode(code int) bool {
	for _, item := range e.Errors {
		if item.Code == code {
			return true
		}
	}
	return false
}

// PostError collects every failure observed across the posting tiers.
type PostError struct {
	Failures []string
}

func (e *PostError) Error() string {
	return strings.Join(e.Failures, "; ")
}
