// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errclass tags arbitrary errors as authentication, storage or
// process-fatal failures so callers can pick a recovery policy: fatal
// terminates the process, auth asks for new credentials, storage aborts the
// current operation.
package errclass

import (
	"fmt"
	"reflect"
	"strings"
)

// Category names a keyword set.
type Category string

const (
	CategoryAuth    Category = "auth"
	CategoryStorage Category = "storage"
	CategoryFatal   Category = "fatal"
)

// Keywords maps each category to the lowercase substrings that select it.
// Numeric keywords (HTTP statuses) only match as a whole number, so ids
// that happen to contain the digits do not select a category. New upstream
// error strings go here, not into Classify.
var Keywords = map[Category][]string{
	CategoryAuth: {
		"unauthorized",
		"unauthenticated",
		"not authenticated",
		"authentication",
		"could not authenticate",
		"bad authentication data",
		"invalid or expired token",
		"auth_token",
		"csrf",
		"login required",
		"forbidden",
		"401",
		"403",
	},
	CategoryStorage: {
		"database",
		"sqlite",
		"disk image is malformed",
		"malformed database schema",
		"corrupt",
		"no such table",
		"readonly",
		"disk i/o error",
		"unable to open",
	},
	CategoryFatal: {
		"unauthenticated",
		"not authenticated",
		"could not authenticate",
		"bad authentication data",
		"unauthorized",
		"forbidden",
		"401",
		"403",
		"disk image is malformed",
		"malformed database schema",
		"corrupt",
		"unable to open database",
		"unable to open",
		"cannot open",
	},
}

// Classification is the verdict for one error.
type Classification struct {
	IsAuth    bool
	IsStorage bool
	IsFatal   bool
	Message   string
}

// Classify inspects v, which may be an error, a string, a map or any other
// value, and never panics.
func Classify(v any) Classification {
	msg := Message(v)
	lower := strings.ToLower(msg)
	return Classification{
		IsAuth:    matches(lower, Keywords[CategoryAuth]),
		IsStorage: matches(lower, Keywords[CategoryStorage]),
		IsFatal:   matches(lower, Keywords[CategoryFatal]),
		Message:   msg,
	}
}

func matches(s string, keywords []string) bool {
	for _, k := range keywords {
		if isDigits(k) {
			if containsNumber(s, k) {
				return true
			}
			continue
		}
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// containsNumber reports whether n occurs in s with no digit on either side.
func containsNumber(s, n string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], n)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(n)
		if (start == 0 || !isDigit(s[start-1])) && (end == len(s) || !isDigit(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Message extracts a human-readable message from v. It prefers an explicit
// message (error value, "message" map key, Message struct field), then a
// string form, then fmt's default formatting.
func Message(v any) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%T", v)
		}
	}()

	switch x := v.(type) {
	case nil:
		return ""
	case error:
		return x.Error()
	case string:
		return x
	case map[string]any:
		if m, ok := x["message"].(string); ok && m != "" {
			return m
		}
		if m, ok := x["error"].(string); ok && m != "" {
			return m
		}
	case map[string]string:
		if m := x["message"]; m != "" {
			return m
		}
	case fmt.Stringer:
		return x.String()
	}

	if m := messageField(v); m != "" {
		return m
	}
	return fmt.Sprint(v)
}

func messageField(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ""
	}
	f := rv.FieldByName("Message")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}
