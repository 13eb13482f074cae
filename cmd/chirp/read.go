// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

// runRead opens a session, runs fn, caches what it returned when --cache
// is on, and renders the result.
func runRead[T any](cmd *cobra.Command, fn func(ctx context.Context, c *twitter.Client) (T, error)) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	v, err := fn(ctx, s.client)
	if err == nil {
		tweets, users := collect(v)
		cacheResults(ctx, tweets, users)
	}
	return emit(os.Stdout, viper.GetString("output"), types.ResultOf(v, err), err)
}

// collect pulls cacheable records out of a command result.
func collect(v any) ([]types.TweetRecord, []types.UserRecord) {
	switch v := v.(type) {
	case types.TweetRecord:
		return []types.TweetRecord{v}, nil
	case []types.TweetRecord:
		return v, nil
	case types.TweetPage:
		return v.Tweets, nil
	case types.TweetDetail:
		all := append([]types.TweetRecord{}, v.Thread...)
		all = append(all, v.Replies...)
		if len(all) == 0 {
			all = []types.TweetRecord{v.Tweet}
		}
		return all, nil
	case types.UserRecord:
		return nil, []types.UserRecord{v}
	case types.UserPage:
		return nil, v.Users
	}
	return nil, nil
}

// --- read subcommand ---

var readCmd = &cobra.Command{
	Use:   "read <tweet-id-or-url>",
	Short: "Read a single tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetRecord, error) {
			return c.GetTweet(ctx, args[0])
		})
	},
}

// --- thread subcommand ---

var threadCmd = &cobra.Command{
	Use:   "thread <tweet-id-or-url>",
	Short: "Read the author's thread around a tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) ([]types.TweetRecord, error) {
			return c.Thread(ctx, args[0])
		})
	},
}

// --- replies subcommand ---

var repliesCmd = &cobra.Command{
	Use:   "replies <tweet-id-or-url>",
	Short: "Read replies to a tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) ([]types.TweetRecord, error) {
			return c.Replies(ctx, args[0])
		})
	},
}

// --- conversation subcommand ---

var conversationCmd = &cobra.Command{
	Use:   "conversation <tweet-id-or-url>",
	Short: "Read a tweet with its thread and replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetDetail, error) {
			return c.TweetDetail(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(readCmd, threadCmd, repliesCmd, conversationCmd)
}
