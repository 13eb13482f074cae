// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credentials resolves the browser session cookies (auth_token and
// ct0) the client authenticates with. Sources are consulted in order:
// explicit values, environment, a .env file, then a secrets directory of
// plain-text files.
package credentials

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/pkg/types"
)

// ErrMissingCredentials is returned when auth_token or ct0 cannot be found
// in any source. It is a precondition failure and never retried.
var ErrMissingCredentials = errors.New("missing credentials: auth_token and ct0 are required (set --auth-token/--ct0, AUTH_TOKEN/CT0, or .secrets/)")

// Environment variable names, in lookup order.
var (
	authTokenEnv = []string{"AUTH_TOKEN", "TWITTER_AUTH_TOKEN", "CHIRP_AUTH_TOKEN"}
	ct0Env       = []string{"CT0", "TWITTER_CT0", "CHIRP_CT0"}
	cookieEnv    = []string{"TWITTER_COOKIE", "CHIRP_COOKIE"}
)

// Options selects where credentials may come from.
type Options struct {
	// AuthToken and CT0 are explicit values, typically from flags.
	AuthToken string
	CT0       string

	// DotEnvPath is a .env file to read; empty skips it.
	DotEnvPath string

	// SecretsDir is a directory of plain-text secret files; empty skips it.
	SecretsDir string

	// Getenv replaces os.Getenv, for tests.
	Getenv func(string) string

	Log *logging.Logger
}

type layer struct {
	name      string
	authToken string
	ct0       string
	cookie    string
}

// Resolve returns the first complete credential pair. Partial sources are
// combined only within one source, never across sources, so a stale ct0
// from one place is not paired with a fresh auth_token from another.
func Resolve(opts Options) (types.Credentials, error) {
	log := logging.OrNop(opts.Log)
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	layers := []layer{{name: "flag", authToken: opts.AuthToken, ct0: opts.CT0}}
	layers = append(layers, layer{
		name:      "env",
		authToken: firstEnv(getenv, authTokenEnv),
		ct0:       firstEnv(getenv, ct0Env),
		cookie:    firstEnv(getenv, cookieEnv),
	})

	if opts.DotEnvPath != "" {
		if env, err := godotenv.Read(opts.DotEnvPath); err == nil {
			lookup := func(k string) string { return env[k] }
			layers = append(layers, layer{
				name:      "dotenv",
				authToken: firstEnv(lookup, authTokenEnv),
				ct0:       firstEnv(lookup, ct0Env),
				cookie:    firstEnv(lookup, cookieEnv),
			})
		} else if !os.IsNotExist(err) {
			log.Warn("credentials", "dotenv_unreadable", logging.Fields{"path": opts.DotEnvPath, "error": err.Error()})
		}
	}

	if opts.SecretsDir != "" {
		s, err := LoadSecrets(opts.SecretsDir, log)
		if err != nil {
			return types.Credentials{}, err
		}
		layers = append(layers, layer{
			name:      "secrets",
			authToken: s["auth-token"],
			ct0:       s["ct0"],
			cookie:    s["cookie"],
		})
	}

	for _, l := range layers {
		authToken, ct0 := l.authToken, l.ct0
		if l.cookie != "" {
			cookies := ParseCookieHeader(l.cookie)
			if authToken == "" {
				authToken = cookies["auth_token"]
			}
			if ct0 == "" {
				ct0 = cookies["ct0"]
			}
		}
		if authToken == "" || ct0 == "" {
			continue
		}
		creds := types.Credentials{
			AuthToken:    authToken,
			CT0:          ct0,
			CookieHeader: CookieHeader(authToken, ct0, l.cookie),
			Source:       l.name,
		}
		log.Debug("credentials", "resolved", logging.Fields{"source": l.name})
		return creds, nil
	}
	return types.Credentials{}, ErrMissingCredentials
}

func firstEnv(getenv func(string) string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// ParseCookieHeader splits a Cookie header into name/value pairs.
func ParseCookieHeader(h string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(h, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return out
}

// CookieHeader builds the Cookie header. auth_token and ct0 always come
// first; other cookies from extra (such as twid) are appended in order.
func CookieHeader(authToken, ct0, extra string) string {
	parts := []string{"auth_token=" + authToken, "ct0=" + ct0}
	for _, part := range strings.Split(extra, ";") {
		part = strings.TrimSpace(part)
		name, _, ok := strings.Cut(part, "=")
		if !ok || name == "auth_token" || name == "ct0" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
