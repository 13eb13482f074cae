// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns raw GraphQL response trees into flat domain
// records. The upstream schema is partial and drifts, so nothing here is
// decoded into full Go structs: every accessor is an optional path lookup
// that degrades to an empty value. All functions are pure and never fail.
package extract

import (
	"github.com/tidwall/gjson"
)

// firstString returns the first non-empty string found at paths under r.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// optInt returns a pointer to the number at path, or nil when the path is
// absent or not numeric.
func optInt(r gjson.Result, paths ...string) *int {
	for _, p := range paths {
		v := r.Get(p)
		if v.Type == gjson.Number {
			n := int(v.Int())
			return &n
		}
	}
	return nil
}

// firstObject returns the first object found at paths under r.
func firstObject(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		v := r.Get(p)
		if v.IsObject() {
			return v
		}
	}
	return gjson.Result{}
}

// APIError is one entry of a GraphQL "errors" array.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Errors returns the application-level errors carried by a response body.
// A body without an errors array yields nil.
func Errors(body gjson.Result) []APIError {
	arr := body.Get("errors")
	if !arr.IsArray() {
		return nil
	}
	var out []APIError
	for _, e := range arr.Array() {
		item := APIError{
			Code:    int(e.Get("code").Int()),
			Message: firstString(e, "message", "detail"),
		}
		if item.Code == 0 {
			item.Code = int(e.Get("extensions.code").Int())
		}
		out = append(out, item)
	}
	return out
}

// CreatedTweetID returns the id of the tweet a create call produced, from
// either the GraphQL or the legacy response shape.
func CreatedTweetID(body gjson.Result) string {
	return firstString(body,
		"data.create_tweet.tweet_results.result.rest_id",
		"data.notetweet_create.tweet_results.result.rest_id",
		"data.create_tweet.tweet_results.result.tweet.rest_id",
		"id_str",
	)
}
