// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/internal/twitter"
)

var queryIDsCmd = &cobra.Command{
	Use:   "query-ids",
	Short: "List the GraphQL query ids in use",
	Long: `Query-ids lists the GraphQL operation identifiers the client will use,
with their state and origin (bundled, config override, or remote). With
--refresh the ids are re-scraped from the web app's JavaScript bundles.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		return runRead(cmd, func(ctx context.Context, c *twitter.Client) ([]queryid.Entry, error) {
			r := c.Resolver()
			if refresh {
				if err := r.RefreshAll(ctx); err != nil {
					return nil, err
				}
			}
			return r.Snapshot(ctx), nil
		})
	},
}

func init() {
	queryIDsCmd.Flags().Bool("refresh", false, "scrape current ids from the web bundles")
	rootCmd.AddCommand(queryIDsCmd)
}
