// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chirp/internal/twitter"
	"github.com/pdiddy/chirp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tweets",
	Long: `Search runs an X search query (the same syntax as the web search box,
e.g. "from:user since:2026-01-01") and pages through results until
--count tweets are collected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		cursor, _ := cmd.Flags().GetString("cursor")
		product, err := searchProduct(cmd)
		if err != nil {
			return err
		}
		q := strings.Join(args, " ")
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.Search(ctx, q, twitter.SearchOptions{Count: count, Product: product, Cursor: cursor})
		})
	},
}

var mentionsCmd = &cobra.Command{
	Use:   "mentions",
	Short: "List recent tweets mentioning you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) (types.TweetPage, error) {
			return c.Mentions(ctx, count)
		})
	},
}

func searchProduct(cmd *cobra.Command) (twitter.SearchProduct, error) {
	tab, _ := cmd.Flags().GetString("tab")
	switch strings.ToLower(tab) {
	case "", "latest":
		return twitter.SearchLatest, nil
	case "top":
		return twitter.SearchTop, nil
	case "media":
		return twitter.SearchMedia, nil
	}
	return "", fmt.Errorf("unknown search tab %q: use latest, top or media", tab)
}

func init() {
	searchCmd.Flags().IntP("count", "n", 20, "number of tweets to return")
	searchCmd.Flags().String("cursor", "", "resume from a previous next cursor")
	searchCmd.Flags().String("tab", "latest", "search tab: latest, top or media")
	mentionsCmd.Flags().IntP("count", "n", 20, "number of tweets to return")

	rootCmd.AddCommand(searchCmd, mentionsCmd)
}
