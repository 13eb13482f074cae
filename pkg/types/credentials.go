// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Credentials are the browser session cookies that authenticate the client.
type Credentials struct {
	AuthToken string `json:"-" yaml:"-"`
	CT0       string `json:"-" yaml:"-"`

	// CookieHeader is the full Cookie header value sent upstream. It always
	// contains auth_token and ct0 and may carry additional cookies (twid).
	CookieHeader string `json:"-" yaml:"-"`

	// Source names where the tokens came from (flag, env, dotenv, secrets).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Valid reports whether both required tokens are present.
func (c Credentials) Valid() bool {
	return c.AuthToken != "" && c.CT0 != ""
}
