// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chirp/internal/store"
	"github.com/pdiddy/chirp/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Query the local cache of tweets and users",
	Long: `Cache queries the SQLite database filled by commands run with --cache.
It never contacts X, so no credentials are needed.`,
}

var cacheTweetsCmd = &cobra.Command{
	Use:   "tweets",
	Short: "List cached tweets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := store.TweetQuery{}
		q.Username, _ = cmd.Flags().GetString("user")
		q.Contains, _ = cmd.Flags().GetString("contains")
		q.ConversationID, _ = cmd.Flags().GetString("conversation")
		q.Limit, _ = cmd.Flags().GetInt("limit")
		return runCache(cmd, func(ctx context.Context, st *store.Store) ([]types.TweetRecord, error) {
			return st.Tweets(ctx, q)
		})
	},
}

var cacheUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List cached users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := store.UserQuery{}
		q.Contains, _ = cmd.Flags().GetString("contains")
		q.Limit, _ = cmd.Flags().GetInt("limit")
		return runCache(cmd, func(ctx context.Context, st *store.Store) ([]types.UserRecord, error) {
			return st.Users(ctx, q)
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count cached tweets and users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCache(cmd, func(ctx context.Context, st *store.Store) (store.Counts, error) {
			return st.Stats(ctx)
		})
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole cache to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		st, err := store.Open(viper.GetString("store.path"), log)
		if err != nil {
			return err
		}
		defer st.Close()
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return st.Export(ctx, os.Stdout, format)
	},
}

// runCache opens the store, runs fn and renders its result.
func runCache[T any](cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) (T, error)) error {
	st, err := store.Open(viper.GetString("store.path"), log)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	v, err := fn(ctx, st)
	return emit(os.Stdout, viper.GetString("output"), types.ResultOf(v, err), err)
}

func init() {
	cacheTweetsCmd.Flags().String("user", "", "only tweets by this handle")
	cacheTweetsCmd.Flags().String("contains", "", "only tweets whose text contains this")
	cacheTweetsCmd.Flags().String("conversation", "", "only tweets in this conversation id")
	cacheUsersCmd.Flags().String("contains", "", "only users whose handle or name contains this")
	for _, c := range []*cobra.Command{cacheTweetsCmd, cacheUsersCmd} {
		c.Flags().Int("limit", 50, "maximum number of results")
	}
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	cacheCmd.AddCommand(cacheTweetsCmd, cacheUsersCmd, cacheStatsCmd, cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}
