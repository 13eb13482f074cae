// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: `Read the home timeline ("For you", or "Following" with --following)`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		following, _ := cmd.Flags().GetBool("following")
		count, cursor := pageFlags(cmd)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.HomeTimeline(ctx, following, count, cursor)
		})
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Read your bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, cursor := pageFlags(cmd)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.Bookmarks(ctx, count, cursor)
		})
	},
}

var likesCmd = &cobra.Command{
	Use:   "likes [user]",
	Short: "Read tweets a user liked (default: you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, cursor := pageFlags(cmd)
		user := optionalArg(args)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.Likes(ctx, user, count, cursor)
		})
	},
}

var userTweetsCmd = &cobra.Command{
	Use:   "user-tweets <user>",
	Short: "Read a user's tweets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, cursor := pageFlags(cmd)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.UserTweets(ctx, args[0], count, cursor)
		})
	},
}

func pageFlags(cmd *cobra.Command) (int, string) {
	count, _ := cmd.Flags().GetInt("count")
	cursor, _ := cmd.Flags().GetString("cursor")
	return count, cursor
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	homeCmd.Flags().Bool("following", false, "read the chronological Following tab")
	for _, c := range []*cobra.Command{homeCmd, bookmarksCmd, likesCmd, userTweetsCmd} {
		c.Flags().IntP("count", "n", 20, "number of tweets to return")
		c.Flags().String("cursor", "", "resume from a previous next cursor")
		rootCmd.AddCommand(c)
	}
}
