// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Result is the discriminated outcome the command layer renders for every
// client operation: either a value or a human-readable error message.
type Result[T any] struct {
	Success bool   `json:"success" yaml:"success"`
	Value   T      `json:"value,omitempty" yaml:"value,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Success: true, Value: v}
}

// Fail wraps a failure message.
func Fail[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// ResultOf converts a Go (value, error) pair into a Result.
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err.Error())
	}
	return OK(v)
}

// PostResult is the outcome of a tweet or reply.
type PostResult struct {
	TweetID string `json:"tweet_id" yaml:"tweet_id"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}
