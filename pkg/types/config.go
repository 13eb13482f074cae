package types

import "time"

// HTTPConfig holds shared HTTP settings used by every component that makes
// network requests.
type HTTPConfig struct {
	// Timeout bounds each individual request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the X client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// QuoteDepth bounds how many levels of quoted tweets are materialized
	// (default 1, 0 disables quoted tweets).
	QuoteDepth int `json:"quote_depth" yaml:"quote_depth"`

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// QueryIDs overrides bundled GraphQL query identifiers by operation name.
	QueryIDs map[string]string `json:"query_ids,omitempty" yaml:"query_ids,omitempty"`
}

// RetryOverride replaces fields of a named retry policy. Zero fields keep
// the registry default.
type RetryOverride struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`
	Backoff     string        `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
	BaseDelay   time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay    time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
}

// StoreConfig holds settings for the local SQLite cache.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}

// LogConfig holds settings for the structured logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// Config groups every configuration section.
type Config struct {
	Client ClientConfig             `json:"client" yaml:"client"`
	Retry  map[string]RetryOverride `json:"retry,omitempty" yaml:"retry,omitempty"`
	Store  StoreConfig              `json:"store" yaml:"store"`
	Log    LogConfig                `json:"log" yaml:"log"`
}
