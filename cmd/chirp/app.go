// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chirp/internal/credentials"
	"github.com/pdiddy/chirp/internal/errclass"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/internal/store"
	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

// loadConfig assembles the configuration from viper (file, CHIRP_ env and
// bound flags).
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("timeout"),
				UserAgent: v.GetString("user_agent"),
			},
			QuoteDepth:        v.GetInt("quote_depth"),
			RequestsPerSecond: v.GetFloat64("requests_per_second"),
		},
		Store: types.StoreConfig{Path: v.GetString("store.path")},
		Log:   types.LogConfig{Level: v.GetString("log_level"), Pretty: v.GetBool("log_pretty")},
	}
	if !v.IsSet("quote_depth") {
		cfg.Client.QuoteDepth = 1
	}

	if ids := v.GetStringMapString("query_ids"); len(ids) > 0 {
		cfg.Client.QueryIDs = make(map[string]string, len(ids))
		for name, id := range ids {
			op, ok := queryid.Canonical(name)
			if !ok {
				return types.Config{}, fmt.Errorf("query_ids: unknown operation %q", name)
			}
			cfg.Client.QueryIDs[op] = id
		}
	}

	if v.IsSet("retry") {
		if err := v.UnmarshalKey("retry", &cfg.Retry); err != nil {
			return types.Config{}, fmt.Errorf("parsing retry config: %w", err)
		}
	}
	return cfg, nil
}

// session bundles what a command needs to talk to the API.
type session struct {
	client   *twitter.Client
	registry *prometheus.Registry
	cfg      types.Config
}

// newSession resolves credentials and builds the client.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	retries, err := httputil.DefaultRegistry().ApplyOverrides(cfg.Retry)
	if err != nil {
		return nil, err
	}

	authToken, _ := cmd.Flags().GetString("auth-token")
	ct0, _ := cmd.Flags().GetString("ct0")
	envFile, _ := cmd.Flags().GetString("env-file")
	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	creds, err := credentials.Resolve(credentials.Options{
		AuthToken:  authToken,
		CT0:        ct0,
		DotEnvPath: envFile,
		SecretsDir: secretsDir,
		Getenv:     os.Getenv,
		Log:        log,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("chirp", "credentials_resolved", logging.Fields{"source": creds.Source})

	reg := prometheus.NewRegistry()
	client, err := twitter.New(twitter.Options{
		Credentials: creds,
		Config:      cfg.Client,
		Retries:     &retries,
		Logger:      log,
		Registerer:  reg,
	})
	if err != nil {
		return nil, err
	}
	return &session{client: client, registry: reg, cfg: cfg}, nil
}

// finish writes the metrics file when one was requested.
func (s *session) finish() {
	path := viper.GetString("metrics_file")
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		log.Warn("chirp", "metrics_write_failed", logging.Fields{"path": path, "error": err.Error()})
	}
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// cacheResults saves what a read returned when --cache is on. Storage
// failures abort only the cache write; the read result still stands.
func cacheResults(ctx context.Context, tweets []types.TweetRecord, users []types.UserRecord) {
	if !viper.GetBool("cache") || (len(tweets) == 0 && len(users) == 0) {
		return
	}
	st, err := store.Open(viper.GetString("store.path"), log)
	if err != nil {
		logCacheError(err)
		return
	}
	defer st.Close()

	if len(users) > 0 {
		if _, err := st.SaveUsers(ctx, users); err != nil {
			logCacheError(err)
			return
		}
	}
	if len(tweets) > 0 {
		if _, err := st.SaveTweets(ctx, tweets); err != nil {
			logCacheError(err)
		}
	}
}

func logCacheError(err error) {
	c := errclass.Classify(err)
	log.Error("store", "cache_write_failed", err, logging.Fields{"storage": c.IsStorage, "fatal": c.IsFatal})
}
