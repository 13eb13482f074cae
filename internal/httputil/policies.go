// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"sort"
	"time"

	"github.com/pdiddy/chirp/pkg/types"
)

// Policy names used by the client.
const (
	PolicySearch      = "search"
	PolicyUserLookup  = "user-lookup"
	PolicyTimeline    = "timeline"
	PolicyTweetDetail = "tweet-detail"
	PolicyLongPoll    = "long-poll"
	PolicyUpload      = "upload"
	PolicyQueryIDs    = "query-ids"
	PolicyPost        = "post"
	PolicyDefault     = "default"
)

var defaultPolicies = map[string]Policy{
	PolicySearch:      {MaxAttempts: 3, Backoff: BackoffExponential, BaseDelay: 2 * time.Second, MaxDelay: 8 * time.Second},
	PolicyUserLookup:  {MaxAttempts: 3, Backoff: BackoffExponential, BaseDelay: 2 * time.Second, MaxDelay: 8 * time.Second},
	PolicyTimeline:    {MaxAttempts: 3, Backoff: BackoffExponential, BaseDelay: 2 * time.Second, MaxDelay: 8 * time.Second},
	PolicyTweetDetail: {MaxAttempts: 3, Backoff: BackoffExponential, BaseDelay: 2 * time.Second, MaxDelay: 8 * time.Second},
	PolicyLongPoll:    {MaxAttempts: 24, Backoff: BackoffFixed, BaseDelay: 5 * time.Second, MaxDelay: 5 * time.Second},
	PolicyUpload:      {MaxAttempts: 2, Backoff: BackoffFixed, BaseDelay: 5 * time.Second, MaxDelay: 5 * time.Second},
	PolicyQueryIDs:    {MaxAttempts: 2, Backoff: BackoffFixed, BaseDelay: time.Second, MaxDelay: time.Second},
	PolicyPost:        {MaxAttempts: 1, Backoff: BackoffFixed},
	PolicyDefault:     {MaxAttempts: 1, Backoff: BackoffFixed},
}

// Registry resolves retry policies by operation name. The zero value
// serves the built-in defaults. Registries are immutable; With returns a
// modified copy.
type Registry struct {
	overrides map[string]Policy
}

// DefaultRegistry returns a registry with only the built-in policies.
func DefaultRegistry() Registry {
	return Registry{}
}

// PolicyFor returns the policy registered under name, falling back to the
// default policy for unknown names.
func (r Registry) PolicyFor(name string) Policy {
	if p, ok := r.overrides[name]; ok {
		return p
	}
	if p, ok := defaultPolicies[name]; ok {
		return p
	}
	return defaultPolicies[PolicyDefault]
}

// With returns a copy of r where name resolves to p.
func (r Registry) With(name string, p Policy) Registry {
	next := make(map[string]Policy, len(r.overrides)+1)
	for k, v := range r.overrides {
		next[k] = v
	}
	next[name] = p
	return Registry{overrides: next}
}

// Names lists every policy name the registry knows, sorted.
func (r Registry) Names() []string {
	seen := make(map[string]bool)
	for k := range defaultPolicies {
		seen[k] = true
	}
	for k := range r.overrides {
		seen[k] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ApplyOverrides layers config overrides onto the registry. Zero fields in
// an override keep the current value for that policy.
func (r Registry) ApplyOverrides(overrides map[string]types.RetryOverride) (Registry, error) {
	out := r
	for name, o := range overrides {
		p := out.PolicyFor(name)
		if o.MaxAttempts != 0 {
			p.MaxAttempts = o.MaxAttempts
		}
		if o.Backoff != "" {
			b, err := ParseBackoff(o.Backoff)
			if err != nil {
				return r, fmt.Errorf("retry policy %s: %w", name, err)
			}
			p.Backoff = b
		}
		if o.BaseDelay != 0 {
			p.BaseDelay = o.BaseDelay
		}
		if o.MaxDelay != 0 {
			p.MaxDelay = o.MaxDelay
		}
		if err := p.Validate(); err != nil {
			return r, fmt.Errorf("retry policy %s: %w", name, err)
		}
		out = out.With(name, p)
	}
	return out, nil
}
