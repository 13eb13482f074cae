// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

var userCmd = &cobra.Command{
	Use:   "user <handle>",
	Short: "Look up a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.UserRecord, error) {
			return c.UserByScreenName(ctx, args[0])
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the credentials belong to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.UserRecord, error) {
			return c.Whoami(ctx)
		})
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers [user]",
	Short: "List a user's followers (default: you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, cursor := pageFlags(cmd)
		user := optionalArg(args)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.UserPage, error) {
			return c.Followers(ctx, user, count, cursor)
		})
	},
}

var followingCmd = &cobra.Command{
	Use:   "following [user]",
	Short: "List accounts a user follows (default: you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, cursor := pageFlags(cmd)
		user := optionalArg(args)
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.UserPage, error) {
			return c.Following(ctx, user, count, cursor)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{followersCmd, followingCmd} {
		c.Flags().IntP("count", "n", 20, "number of users to return")
		c.Flags().String("cursor", "", "resume from a previous next cursor")
	}
	rootCmd.AddCommand(userCmd, whoamiCmd, followersCmd, followingCmd)
}
